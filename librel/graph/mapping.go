package graph

import (
	"strings"
)

// VertexMapping is a partial bijection between two vertex sets, A and B.
//
// The two directions are always mutual inverses: Set evicts any stale pair that would break this.
type VertexMapping struct {
	atob map[Vertex]Vertex
	btoa map[Vertex]Vertex
}

// NewVertexMapping returns an empty mapping.
func NewVertexMapping() *VertexMapping {
	return &VertexMapping{
		atob: make(map[Vertex]Vertex),
		btoa: make(map[Vertex]Vertex),
	}
}

// IdentityMapping maps each given vertex onto itself.
func IdentityMapping(vs []Vertex) *VertexMapping {
	m := NewVertexMapping()
	for _, v := range vs {
		m.Set(v, v)
	}
	return m
}

// Len returns the number of pairs in this mapping.
func (m *VertexMapping) Len() int {
	return len(m.atob)
}

// Has reports if a is mapped.
func (m *VertexMapping) Has(a Vertex) bool {
	_, ok := m.atob[a]
	return ok
}

// Get returns the image of a.
func (m *VertexMapping) Get(a Vertex) (Vertex, bool) {
	b, ok := m.atob[a]
	return b, ok
}

// HasB reports if b is the image of some vertex.
func (m *VertexMapping) HasB(b Vertex) bool {
	_, ok := m.btoa[b]
	return ok
}

// GetB returns the preimage of b.
func (m *VertexMapping) GetB(b Vertex) (Vertex, bool) {
	a, ok := m.btoa[b]
	return a, ok
}

// Set maps a onto b, dropping any pair previously involving a or b.
func (m *VertexMapping) Set(a, b Vertex) {
	if prevB, ok := m.atob[a]; ok {
		delete(m.btoa, prevB)
	}
	if prevA, ok := m.btoa[b]; ok {
		delete(m.atob, prevA)
	}
	m.atob[a] = b
	m.btoa[b] = a
}

// Remove drops the given A vertices from this mapping.
func (m *VertexMapping) Remove(as ...Vertex) {
	for _, a := range as {
		if b, ok := m.atob[a]; ok {
			delete(m.atob, a)
			delete(m.btoa, b)
		}
	}
}

// Keys returns the mapped A vertices, ascending.
func (m *VertexMapping) Keys() []Vertex {
	keys := make(VertexList, 0, len(m.atob))
	for a := range m.atob {
		keys = append(keys, a)
	}
	return keys.Sorted()
}

// Clone returns an independent copy.
func (m *VertexMapping) Clone() *VertexMapping {
	dup := &VertexMapping{
		atob: make(map[Vertex]Vertex, len(m.atob)),
		btoa: make(map[Vertex]Vertex, len(m.btoa)),
	}
	for a, b := range m.atob {
		dup.atob[a] = b
		dup.btoa[b] = a
	}
	return dup
}

// Invert returns a new mapping from B to A.
func (m *VertexMapping) Invert() *VertexMapping {
	inv := &VertexMapping{
		atob: make(map[Vertex]Vertex, len(m.btoa)),
		btoa: make(map[Vertex]Vertex, len(m.atob)),
	}
	for a, b := range m.atob {
		inv.atob[b] = a
		inv.btoa[a] = b
	}
	return inv
}

// Compose returns m followed by next: a maps to next[m[a]].
// Vertices whose chain does not resolve through next are dropped.
func (m *VertexMapping) Compose(next *VertexMapping) *VertexMapping {
	out := NewVertexMapping()
	for a, b := range m.atob {
		if c, ok := next.atob[b]; ok {
			out.atob[a] = c
			out.btoa[c] = a
		}
	}
	return out
}

// Rebase returns m with each image b replaced by next[b] where next maps b.  Other pairs are kept as they are.
func (m *VertexMapping) Rebase(next *VertexMapping) *VertexMapping {
	out := NewVertexMapping()
	for a, b := range m.atob {
		if c, ok := next.atob[b]; ok {
			b = c
		}
		out.Set(a, b)
	}
	return out
}

// Equal reports if both mappings hold the same pairs.
func (m *VertexMapping) Equal(other *VertexMapping) bool {
	if len(m.atob) != len(other.atob) {
		return false
	}
	for a, b := range m.atob {
		if ob, ok := other.atob[a]; !ok || ob != b {
			return false
		}
	}
	return true
}

func (m *VertexMapping) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, a := range m.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
		b.WriteString("→")
		b.WriteString(m.atob[a].String())
	}
	b.WriteByte('}')
	return b.String()
}
