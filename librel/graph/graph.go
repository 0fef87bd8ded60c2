package graph

import (
	"fmt"
	"io"
	"math/big"
	"sort"
	"strings"

	"github.com/fine-structures/relplan/relplan"
	"github.com/pkg/errors"
)

// Graph is a set of signed, labeled edges over vertices of a Space.
//
// Prime is always the product of the primes of the current edges.  A graph never holds both an edge and its
// negation.  Vertices are only dropped by RemoveVertex or Prune, never as a side effect of removing an edge.
type Graph struct {
	space   *Space
	verts   map[Vertex]struct{}
	edges   map[string]Edge
	edgeMap map[Vertex]map[string]struct{}
	prime   big.Int
	parts   []Part
	dirty   bool
}

// Part is a run of mutually isomorphic connected components.
type Part struct {
	X     *Graph
	Count int
}

// NewGraph returns a graph of the given space holding the given edges.
func NewGraph(space *Space, edges ...Edge) *Graph {
	if space == nil {
		panic("graph: nil space")
	}
	X := &Graph{
		space:   space,
		verts:   make(map[Vertex]struct{}),
		edges:   make(map[string]Edge),
		edgeMap: make(map[Vertex]map[string]struct{}),
		dirty:   true,
	}
	X.prime.SetInt64(1)
	for _, e := range edges {
		X.AddEdge(e)
	}
	return X
}

// Space returns the space this graph belongs to.
func (X *Graph) Space() *Space {
	return X.space
}

func (X *Graph) onGraphChanged() {
	X.dirty = true
	X.parts = nil
}

// NumVerts returns the number of vertices.
func (X *Graph) NumVerts() int {
	return len(X.verts)
}

// NumEdges returns the number of edges.
func (X *Graph) NumEdges() int {
	return len(X.edges)
}

// IsEmpty reports if this graph has no vertices.
func (X *Graph) IsEmpty() bool {
	return len(X.verts) == 0
}

// Prime returns a copy of the product of the primes of every edge.
func (X *Graph) Prime() *big.Int {
	return new(big.Int).Set(&X.prime)
}

// PositivePrime returns the product of the primes of the positive edges only.
func (X *Graph) PositivePrime() *big.Int {
	P := big.NewInt(1)
	var p big.Int
	for _, e := range X.edges {
		if !e.Neg {
			P.Mul(P, p.SetUint64(X.space.Labels.Prime(e.SignedLabel())))
		}
	}
	return P
}

// Vertices returns all vertices, ascending.
func (X *Graph) Vertices() []Vertex {
	vs := make(VertexList, 0, len(X.verts))
	for v := range X.verts {
		vs = append(vs, v)
	}
	return vs.Sorted()
}

// Edges returns all edges ordered by key.
func (X *Graph) Edges() []Edge {
	keys := make([]string, 0, len(X.edges))
	for k := range X.edges {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	edges := make([]Edge, len(keys))
	for i, k := range keys {
		edges[i] = X.edges[k]
	}
	return edges
}

// EdgesOf returns the edges incident to v, ordered by key.
func (X *Graph) EdgesOf(v Vertex) []Edge {
	incident := X.edgeMap[v]
	keys := make([]string, 0, len(incident))
	for k := range incident {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	edges := make([]Edge, len(keys))
	for i, k := range keys {
		edges[i] = X.edges[k]
	}
	return edges
}

// Degree returns the number of edges incident to v.
func (X *Graph) Degree(v Vertex) int {
	return len(X.edgeMap[v])
}

// HasVertex reports if v is a vertex of this graph.
func (X *Graph) HasVertex(v Vertex) bool {
	_, ok := X.verts[v]
	return ok
}

// HasEdge reports if e (with its sign) is present.
func (X *Graph) HasEdge(e Edge) bool {
	_, ok := X.edges[e.Key()]
	return ok
}

func (X *Graph) hasKey(key string) bool {
	_, ok := X.edges[key]
	return ok
}

// AddVertex adds v with no incident edges, if not already present.
func (X *Graph) AddVertex(v Vertex) {
	if _, exists := X.verts[v]; !exists {
		X.verts[v] = struct{}{}
		X.onGraphChanged()
	}
}

// AddEdge adds e.  If the negation of e is present, the negation is removed instead and e is not added.
func (X *Graph) AddEdge(e Edge) {
	if len(e.Verts) == 0 {
		panic("graph: edge needs at least one vertex")
	}
	if !ValidLabel(e.Label) {
		panic("graph: edge label may not start with " + relplan.NegPrefix)
	}
	if invKey := e.Invert().Key(); X.hasKey(invKey) {
		X.removeKey(invKey)
		return
	}
	key := e.Key()
	if X.hasKey(key) {
		return
	}

	X.edges[key] = e
	for _, v := range e.Verts {
		X.verts[v] = struct{}{}
		incident := X.edgeMap[v]
		if incident == nil {
			incident = make(map[string]struct{}, 4)
			X.edgeMap[v] = incident
		}
		incident[key] = struct{}{}
	}

	var p big.Int
	X.prime.Mul(&X.prime, p.SetUint64(X.space.Labels.Prime(e.SignedLabel())))
	X.onGraphChanged()
}

// Assert adds e, replacing its negation if present.
func (X *Graph) Assert(e Edge) {
	X.RemoveEdge(e.Invert())
	X.AddEdge(e)
}

// RemoveEdge removes e (with its sign), returning true if it was present.
func (X *Graph) RemoveEdge(e Edge) bool {
	return X.removeKey(e.Key())
}

func (X *Graph) removeKey(key string) bool {
	e, exists := X.edges[key]
	if !exists {
		return false
	}
	delete(X.edges, key)
	for _, v := range e.Verts {
		delete(X.edgeMap[v], key)
	}

	var p big.Int
	X.prime.Quo(&X.prime, p.SetUint64(X.space.Labels.Prime(e.SignedLabel())))
	X.onGraphChanged()
	return true
}

// RemoveVertex removes v and every edge incident to it, returning true if v was present.
func (X *Graph) RemoveVertex(v Vertex) bool {
	if _, exists := X.verts[v]; !exists {
		return false
	}
	for key := range X.edgeMap[v] {
		X.removeKey(key)
	}
	delete(X.edgeMap, v)
	delete(X.verts, v)
	X.onGraphChanged()
	return true
}

// Prune removes every vertex without incident edges and returns how many were removed.
func (X *Graph) Prune() int {
	pruned := 0
	for v := range X.verts {
		if len(X.edgeMap[v]) == 0 {
			delete(X.edgeMap, v)
			delete(X.verts, v)
			pruned++
		}
	}
	if pruned > 0 {
		X.onGraphChanged()
	}
	return pruned
}

func (X *Graph) checkSpace(other *Graph) {
	if other.space != X.space {
		panic("graph: graphs belong to different spaces")
	}
}

// Apply adds every edge (and vertex) of other to this graph, reindexed through m.
// Vertices of other absent from m are given fresh vertices and m is extended accordingly.
func (X *Graph) Apply(other *Graph, m *VertexMapping) {
	X.checkSpace(other)
	for _, v := range other.Vertices() {
		if img, ok := m.Get(v); ok {
			X.AddVertex(img)
		} else {
			img = X.space.NewVertex()
			m.Set(v, img)
			X.AddVertex(img)
		}
	}
	for _, e := range other.Edges() {
		X.AddEdge(e.Mapped(m, X.space))
	}
}

// Overlay is Apply with effect semantics: an edge of other replaces its negation rather than cancelling it.
func (X *Graph) Overlay(other *Graph, m *VertexMapping) {
	X.checkSpace(other)
	for _, v := range other.Vertices() {
		if img, ok := m.Get(v); ok {
			X.AddVertex(img)
		} else {
			img = X.space.NewVertex()
			m.Set(v, img)
			X.AddVertex(img)
		}
	}
	for _, e := range other.Edges() {
		X.Assert(e.Mapped(m, X.space))
	}
}

// Remove removes every edge of other from this graph, reindexed through m (extended as in Apply).
func (X *Graph) Remove(other *Graph, m *VertexMapping) {
	X.checkSpace(other)
	for _, e := range other.Edges() {
		X.RemoveEdge(e.Mapped(m, X.space))
	}
}

// Mapped returns a new graph holding the edges of X reindexed through m (extended as in Apply).
func (X *Graph) Mapped(m *VertexMapping) *Graph {
	Y := NewGraph(X.space)
	Y.Apply(X, m)
	return Y
}

// Clone returns a copy of X over fresh vertices along with the mapping from X's vertices to the copy's.
func (X *Graph) Clone() (*Graph, *VertexMapping) {
	m := NewVertexMapping()
	for _, v := range X.Vertices() {
		m.Set(v, X.space.NewVertex())
	}
	return X.Mapped(m), m
}

// Induced returns the subgraph over exactly the given vertices and the edges whose every vertex is among them.
func (X *Graph) Induced(vs ...Vertex) (*Graph, error) {
	keep := make(map[Vertex]struct{}, len(vs))
	for _, v := range vs {
		if !X.HasVertex(v) {
			return nil, errors.Wrapf(relplan.ErrVertexNotFound, "vertex %v", v)
		}
		keep[v] = struct{}{}
	}
	return X.induced(keep), nil
}

func (X *Graph) induced(keep map[Vertex]struct{}) *Graph {
	Y := NewGraph(X.space)
	for v := range keep {
		Y.AddVertex(v)
	}
	for v := range keep {
		for key := range X.edgeMap[v] {
			if Y.hasKey(key) {
				continue
			}
			e := X.edges[key]
			inside := true
			for _, ev := range e.Verts {
				if _, ok := keep[ev]; !ok {
					inside = false
					break
				}
			}
			if inside {
				Y.AddEdge(e)
			}
		}
	}
	return Y
}

// WriteAsString writes this graph as a comma separated list of edges.
func (X *Graph) WriteAsString(out io.Writer, opts relplan.PrintOpts) {
	var b strings.Builder
	b.Grow(16 * (len(X.edges) + 1))
	if len(opts.Label) > 0 {
		b.WriteString(opts.Label)
	}
	b.WriteByte('{')
	for i, e := range X.Edges() {
		if i > 0 {
			b.WriteString(", ")
		}
		e.writeTo(&b)
	}
	b.WriteByte('}')
	if opts.Prime {
		fmt.Fprintf(&b, " P=%v", &X.prime)
	}
	out.Write([]byte(b.String()))
}

func (X *Graph) String() string {
	var b strings.Builder
	X.WriteAsString(&b, relplan.PrintOpts{})
	return b.String()
}

// Println prints this graph to stdout with the given label.
func (X *Graph) Println(label string) {
	var b strings.Builder
	X.WriteAsString(&b, relplan.PrintOpts{
		Label: label,
		Prime: true,
	})
	fmt.Println(b.String())
}
