package abstract

import (
	"github.com/fine-structures/relplan/librel/catalog"
	"github.com/fine-structures/relplan/librel/graph"
	"github.com/fine-structures/relplan/relplan"
)

// Graph is a concrete graph viewed as the set of ways a pattern could be realized against it.
type Graph struct {
	Concrete *graph.Graph
}

// Grounding is one way of realizing a pattern against an abstract graph.
type Grounding struct {
	Graph   *graph.Graph         // the concrete graph with the whole pattern applied
	Pattern *graph.VertexMapping // pattern vertices → Graph vertices
	Base    *graph.VertexMapping // concrete vertices → Graph vertices
}

func New(X *graph.Graph) *Graph {
	return &Graph{
		Concrete: X,
	}
}

// Equal reports if both concrete graphs are isomorphic.
func (ag *Graph) Equal(other *Graph) bool {
	return ag.Concrete.Equal(other.Concrete)
}

// Match yields each distinct graph formed by grounding part of pattern onto existing vertices and the rest onto fresh
// vertices.  Subsets of pattern vertices are tried largest first, so the groundings reusing the most existing
// structure come first; the empty subset grounds the whole pattern on fresh vertices.  Isomorphic results are yielded
// once.
func (ag *Graph) Match(pattern *graph.Graph) *relplan.Stream[Grounding] {
	return relplan.NewStream(func(yield func(Grounding) bool) {
		seen := catalog.NewDropDupes()
		pv := pattern.Vertices()

		for r := len(pv); r >= 0; r-- {
			more := forEachSubset(pv, r, func(subset []graph.Vertex) bool {
				sub, err := pattern.Induced(subset...)
				if err != nil {
					panic(err)
				}
				for mu := range ag.Concrete.Match(sub, false).All() {
					X, base := ag.Concrete.Clone()
					pm := mu.Compose(base)
					X.Apply(pattern, pm)
					X.Prune()
					X.Process()

					if !seen.TryAddGraph(X) {
						continue
					}
					if !yield(Grounding{Graph: X, Pattern: pm, Base: base}) {
						return false
					}
				}
				return true
			})
			if !more {
				return
			}
		}
	})
}

// forEachSubset calls fn with each r-subset of vs in lexicographic order until fn returns false.
func forEachSubset(vs []graph.Vertex, r int, fn func(subset []graph.Vertex) bool) bool {
	idx := make([]int, r)
	for i := range idx {
		idx[i] = i
	}
	subset := make([]graph.Vertex, r)
	for {
		for i, j := range idx {
			subset[i] = vs[j]
		}
		if !fn(subset) {
			return false
		}

		// Advance to the next combination
		i := r - 1
		for i >= 0 && idx[i] == len(vs)-r+i {
			i--
		}
		if i < 0 {
			return true
		}
		idx[i]++
		for j := i + 1; j < r; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
