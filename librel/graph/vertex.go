package graph

import (
	"sort"
	"strconv"
	"sync/atomic"
)

// Vertex is an opaque identity issued by a Space.
// Vertices carry no payload and compare and order by id alone.  Zero is never issued.
type Vertex uint64

func (v Vertex) String() string {
	return strconv.FormatUint(uint64(v), 10)
}

// VertexList is a sortable list of vertices.
type VertexList []Vertex

func (vs VertexList) Len() int           { return len(vs) }
func (vs VertexList) Less(i, j int) bool { return vs[i] < vs[j] }
func (vs VertexList) Swap(i, j int)      { vs[i], vs[j] = vs[j], vs[i] }

// Sorted sorts vs in place and returns it.
func (vs VertexList) Sorted() VertexList {
	sort.Sort(vs)
	return vs
}

// Space owns vertex identity and the label registry for a family of graphs.
//
// Graphs may only be combined (applied, matched, compared) with graphs of the same Space.
// Independent Spaces never share counters, so separate runs or tests stay reproducible.
type Space struct {
	Labels *Registry

	lastID atomic.Uint64
}

// NewSpace returns a Space with an empty registry fed by sequential primes.
func NewSpace() *Space {
	return &Space{
		Labels: NewRegistry(nil),
	}
}

// NewVertex issues a vertex never issued before by this Space.
func (space *Space) NewVertex() Vertex {
	return Vertex(space.lastID.Add(1))
}

// NewVertices issues n fresh vertices in ascending order.
func (space *Space) NewVertices(n int) []Vertex {
	vs := make([]Vertex, n)
	for i := range vs {
		vs[i] = space.NewVertex()
	}
	return vs
}

// NewGraph returns an empty graph in this space holding the given edges.
func (space *Space) NewGraph(edges ...Edge) *Graph {
	return NewGraph(space, edges...)
}
