package graph

import (
	"strings"

	"github.com/fine-structures/relplan/relplan"
)

// Edge is a labeled relation over an ordered tuple of vertices.
//
// A negative edge asserts that the relation must not hold.  Verts is shared between copies of an Edge and is never
// modified in place.
type Edge struct {
	Label string
	Verts []Vertex
	Neg   bool
}

// NewEdge returns a positive edge over the given vertices.
// The label may not start with relplan.NegPrefix, which is reserved for the signed label of a negative edge.
func NewEdge(label string, verts ...Vertex) Edge {
	if len(verts) == 0 {
		panic("graph: edge needs at least one vertex")
	}
	if !ValidLabel(label) {
		panic("graph: edge label may not start with " + relplan.NegPrefix)
	}
	return Edge{
		Label: label,
		Verts: verts,
	}
}

// NewNegEdge returns a negative edge over the given vertices.
func NewNegEdge(label string, verts ...Vertex) Edge {
	e := NewEdge(label, verts...)
	e.Neg = true
	return e
}

// ValidLabel reports if label can name an edge.
func ValidLabel(label string) bool {
	return !strings.HasPrefix(label, relplan.NegPrefix)
}

// SignedLabel returns the label, prefixed with relplan.NegPrefix if negative.
func (e Edge) SignedLabel() string {
	if e.Neg {
		return relplan.NegPrefix + e.Label
	}
	return e.Label
}

// Invert returns the negation of this edge.
func (e Edge) Invert() Edge {
	e.Neg = !e.Neg
	return e
}

// Relabel returns this edge with the given label and the same sign and vertices.
func (e Edge) Relabel(label string) Edge {
	e.Label = label
	return e
}

// Key identifies this edge by signed label and vertex tuple.
func (e Edge) Key() string {
	var b strings.Builder
	b.Grow(len(e.Label) + 4 + 6*len(e.Verts))
	e.writeTo(&b)
	return b.String()
}

func (e Edge) String() string {
	return e.Key()
}

func (e Edge) writeTo(b *strings.Builder) {
	b.WriteString(e.SignedLabel())
	b.WriteByte('(')
	for i, v := range e.Verts {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.String())
	}
	b.WriteByte(')')
}

// Equal reports if both edges have the same signed label and vertex tuple.
func (e Edge) Equal(other Edge) bool {
	if e.Neg != other.Neg || e.Label != other.Label || len(e.Verts) != len(other.Verts) {
		return false
	}
	for i, v := range e.Verts {
		if other.Verts[i] != v {
			return false
		}
	}
	return true
}

// Mapped reindexes this edge through m.
// Any vertex not in m is assigned a fresh vertex from space and m is extended with it.
func (e Edge) Mapped(m *VertexMapping, space *Space) Edge {
	verts := make([]Vertex, len(e.Verts))
	for i, v := range e.Verts {
		img, ok := m.Get(v)
		if !ok {
			img = space.NewVertex()
			m.Set(v, img)
		}
		verts[i] = img
	}
	e.Verts = verts
	return e
}

// image reindexes this edge through m, reporting false if a vertex is unmapped.
func (e Edge) image(m *VertexMapping) (Edge, bool) {
	verts := make([]Vertex, len(e.Verts))
	for i, v := range e.Verts {
		img, ok := m.Get(v)
		if !ok {
			return e, false
		}
		verts[i] = img
	}
	e.Verts = verts
	return e, true
}
