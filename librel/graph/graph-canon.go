package graph

import (
	"sort"
)

// Process recomputes the multiset of connected components (Parts).
// A connected graph is recorded as a single part holding itself.
func (X *Graph) Process() {
	X.dirty = false
	X.parts = X.parts[:0]

	comps := X.components()
	if len(comps) == 1 {
		X.parts = append(X.parts, Part{X: X, Count: 1})
		return
	}

	for _, comp := range comps {
		Xi := X.induced(comp)
		Xi.Process()

		found := false
		for j := range X.parts {
			if X.parts[j].X.Equal(Xi) {
				X.parts[j].Count++
				found = true
				break
			}
		}
		if !found {
			X.parts = append(X.parts, Part{X: Xi, Count: 1})
		}
	}
}

// Parts returns the connected components of X grouped into isomorphism classes, processing X if needed.
func (X *Graph) Parts() []Part {
	X.ensureProcessed()
	return X.parts
}

// NumParts returns the number of connected components.
func (X *Graph) NumParts() int {
	count := 0
	for _, part := range X.Parts() {
		count += part.Count
	}
	return count
}

func (X *Graph) ensureProcessed() {
	if X.dirty {
		X.Process()
	}
}

func (X *Graph) components() []map[Vertex]struct{} {
	var comps []map[Vertex]struct{}
	seen := make(map[Vertex]struct{}, len(X.verts))

	for _, root := range X.Vertices() {
		if _, ok := seen[root]; ok {
			continue
		}
		comp := map[Vertex]struct{}{root: {}}
		seen[root] = struct{}{}
		queue := []Vertex{root}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for key := range X.edgeMap[v] {
				for _, w := range X.edges[key].Verts {
					if _, ok := seen[w]; !ok {
						seen[w] = struct{}{}
						comp[w] = struct{}{}
						queue = append(queue, w)
					}
				}
			}
		}
		comps = append(comps, comp)
	}
	return comps
}

// Equal reports if X and Y are isomorphic: some bijection of vertices maps every edge of X onto an edge of Y with the
// same signed label.
func (X *Graph) Equal(Y *Graph) bool {
	if X == Y {
		return true
	}
	if X == nil || Y == nil {
		return false
	}
	X.checkSpace(Y)
	if X.prime.Cmp(&Y.prime) != 0 || len(X.verts) != len(Y.verts) || len(X.edges) != len(Y.edges) {
		return false
	}

	X.ensureProcessed()
	Y.ensureProcessed()
	if len(X.parts) != len(Y.parts) {
		return false
	}
	if len(X.parts) == 1 && X.parts[0].X == X {
		if Y.parts[0].X != Y {
			return false
		}
		return equalConnected(X, Y)
	}

	used := make([]bool, len(Y.parts))
	for _, px := range X.parts {
		found := false
		for j, py := range Y.parts {
			if !used[j] && px.Count == py.Count && px.X.Equal(py.X) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// signatures returns each vertex's signature: the product (mod 2^64) of the primes of its incident edges.
func (X *Graph) signatures() map[Vertex]uint64 {
	sigs := make(map[Vertex]uint64, len(X.verts))
	for v := range X.verts {
		sig := uint64(1)
		for key := range X.edgeMap[v] {
			sig *= X.space.Labels.Prime(X.edges[key].SignedLabel())
		}
		sigs[v] = sig
	}
	return sigs
}

// equalConnected searches for an isomorphism, only pairing vertices of equal signature.
func equalConnected(X, Y *Graph) bool {
	sigX := X.signatures()
	sigY := Y.signatures()

	groupY := make(map[uint64][]Vertex)
	for _, v := range Y.Vertices() {
		groupY[sigY[v]] = append(groupY[sigY[v]], v)
	}
	groupSize := make(map[uint64]int, len(groupY))
	for _, v := range X.Vertices() {
		groupSize[sigX[v]]++
	}
	for sig, n := range groupSize {
		if len(groupY[sig]) != n {
			return false
		}
	}

	// Assign the smallest groups first, keeping each group's members together.
	order := X.Vertices()
	sort.SliceStable(order, func(i, j int) bool {
		si, sj := sigX[order[i]], sigX[order[j]]
		if groupSize[si] != groupSize[sj] {
			return groupSize[si] < groupSize[sj]
		}
		return si < sj
	})

	m := NewVertexMapping()
	used := make(map[Vertex]bool, len(order))

	var walk func(i int) bool
	walk = func(i int) bool {
		if i == len(order) {
			return true
		}
		xv := order[i]
		for _, yv := range groupY[sigX[xv]] {
			if used[yv] {
				continue
			}
			m.Set(xv, yv)
			used[yv] = true
			if edgesHold(X, Y, xv, m) && walk(i+1) {
				return true
			}
			used[yv] = false
			m.Remove(xv)
		}
		return false
	}
	return walk(0)
}

// edgesHold checks the edges of v whose vertices are all mapped.
func edgesHold(X, Y *Graph, v Vertex, m *VertexMapping) bool {
	for key := range X.edgeMap[v] {
		img, complete := X.edges[key].image(m)
		if complete && !Y.hasKey(img.Key()) {
			return false
		}
	}
	return true
}
