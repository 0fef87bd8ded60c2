package graph

import (
	"iter"
	"math/big"
	"sort"
	"strconv"

	"github.com/fine-structures/relplan/relplan"
)

// Match yields every injective mapping of pattern's vertices onto X's vertices under which each positive pattern
// edge is present in X and no pattern edge has its negation present in X.  Negative pattern edges are thus pure
// exclusion filters: they never require an explicit negative edge in X.
//
// If proper is set, vertex permutations are enumerated directly.  Otherwise a pruned search restricts each pattern
// vertex to candidates carrying at least the labels it demands.  Both yield the same mappings.
func (X *Graph) Match(pattern *Graph, proper bool) *relplan.Stream[*VertexMapping] {
	return relplan.NewStream(X.matchSeq(pattern, nil, proper))
}

// MatchFrom is the pruned search of Match with the pattern vertices in seed pinned to their images.
func (X *Graph) MatchFrom(pattern *Graph, seed *VertexMapping) *relplan.Stream[*VertexMapping] {
	return relplan.NewStream(X.matchSeq(pattern, seed, false))
}

// Contains reports if X's fingerprint is divisible by pattern's and pattern properly matches X.
func (X *Graph) Contains(pattern *Graph) bool {
	if !X.divisibleBy(&pattern.prime) {
		return false
	}
	return X.Match(pattern, true).Any()
}

func (X *Graph) divisibleBy(P *big.Int) bool {
	var q, r big.Int
	q.QuoRem(&X.prime, P, &r)
	return r.Sign() == 0
}

func (X *Graph) matchSeq(P *Graph, seed *VertexMapping, proper bool) iter.Seq[*VertexMapping] {
	X.checkSpace(P)
	return func(yield func(*VertexMapping) bool) {
		if len(P.verts) > len(X.verts) || !X.divisibleBy(P.PositivePrime()) {
			return
		}
		if proper {
			X.matchPermutations(P, yield)
		} else {
			newMatcher(X, P, seed).walk(0, yield)
		}
	}
}

// satisfies checks the edges of P under a complete mapping.
func (X *Graph) satisfies(P *Graph, m *VertexMapping) bool {
	for _, e := range P.edges {
		if !X.admits(e, m) {
			return false
		}
	}
	return true
}

// admits checks one pattern edge whose vertices are all mapped.
func (X *Graph) admits(e Edge, m *VertexMapping) bool {
	img, ok := e.image(m)
	if !ok {
		return false
	}
	if !img.Neg && !X.hasKey(img.Key()) {
		return false
	}
	return !X.hasKey(img.Invert().Key())
}

func (X *Graph) matchPermutations(P *Graph, yield func(*VertexMapping) bool) {
	pv := P.Vertices()
	xv := X.Vertices()
	used := make([]bool, len(xv))
	img := make([]Vertex, len(pv))

	var walk func(i int) bool
	walk = func(i int) bool {
		if i == len(pv) {
			m := NewVertexMapping()
			for j, v := range pv {
				m.Set(v, img[j])
			}
			if X.satisfies(P, m) {
				return yield(m)
			}
			return true
		}
		for j, v := range xv {
			if used[j] {
				continue
			}
			used[j] = true
			img[i] = v
			more := walk(i + 1)
			used[j] = false
			if !more {
				return false
			}
		}
		return true
	}
	walk(0)
}

// labelSlots counts, per vertex, the positive edges it sits in by label and position.
func labelSlots(X *Graph) map[Vertex]map[string]int {
	slots := make(map[Vertex]map[string]int, len(X.verts))
	for _, e := range X.edges {
		if e.Neg {
			continue
		}
		for i, v := range e.Verts {
			counts := slots[v]
			if counts == nil {
				counts = make(map[string]int)
				slots[v] = counts
			}
			counts[e.Label+"#"+strconv.Itoa(i)]++
		}
	}
	return slots
}

type matcher struct {
	X, P    *Graph
	order   []Vertex
	cands   map[Vertex][]Vertex
	pending [][]Edge // pending[i] holds the pattern edges fully mapped once order[i] is assigned
	m       *VertexMapping
	used    map[Vertex]bool
}

func newMatcher(X, P *Graph, seed *VertexMapping) *matcher {
	mt := &matcher{
		X:     X,
		P:     P,
		cands: make(map[Vertex][]Vertex, len(P.verts)),
		m:     NewVertexMapping(),
		used:  make(map[Vertex]bool, len(P.verts)),
	}

	demand := labelSlots(P)
	supply := labelSlots(X)
	xv := X.Vertices()
	pinned := make(map[Vertex]bool)

	for _, pv := range P.Vertices() {
		if seed != nil {
			if img, ok := seed.Get(pv); ok {
				if X.HasVertex(img) && covers(supply[img], demand[pv]) {
					mt.cands[pv] = []Vertex{img}
				} else {
					mt.cands[pv] = nil
				}
				pinned[pv] = true
				mt.order = append(mt.order, pv)
				continue
			}
		}
		var cands []Vertex
		for _, v := range xv {
			if covers(supply[v], demand[pv]) {
				cands = append(cands, v)
			}
		}
		mt.cands[pv] = cands
		mt.order = append(mt.order, pv)
	}

	// Pinned vertices first, then the most constrained.
	sort.SliceStable(mt.order, func(i, j int) bool {
		vi, vj := mt.order[i], mt.order[j]
		if pinned[vi] != pinned[vj] {
			return pinned[vi]
		}
		return len(mt.cands[vi]) < len(mt.cands[vj])
	})

	rank := make(map[Vertex]int, len(mt.order))
	for i, v := range mt.order {
		rank[v] = i
	}
	mt.pending = make([][]Edge, len(mt.order))
	for _, e := range P.Edges() {
		last := 0
		for _, v := range e.Verts {
			if r := rank[v]; r > last {
				last = r
			}
		}
		mt.pending[last] = append(mt.pending[last], e)
	}
	return mt
}

func covers(supply, demand map[string]int) bool {
	for slot, n := range demand {
		if supply[slot] < n {
			return false
		}
	}
	return true
}

func (mt *matcher) walk(i int, yield func(*VertexMapping) bool) bool {
	if i == len(mt.order) {
		return yield(mt.m.Clone())
	}
	pv := mt.order[i]
	for _, xv := range mt.cands[pv] {
		if mt.used[xv] {
			continue
		}
		mt.m.Set(pv, xv)
		mt.used[xv] = true

		more := true
		if mt.admitsPending(i) {
			more = mt.walk(i+1, yield)
		}

		mt.used[xv] = false
		mt.m.Remove(pv)
		if !more {
			return false
		}
	}
	return true
}

func (mt *matcher) admitsPending(i int) bool {
	for _, e := range mt.pending[i] {
		if !mt.X.admits(e, mt.m) {
			return false
		}
	}
	return true
}
