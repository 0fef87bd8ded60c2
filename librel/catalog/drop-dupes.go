package catalog

import (
	"hash/maphash"

	"github.com/fine-structures/relplan/librel/graph"
)

// GraphAdder is a set of graphs up to isomorphism.
type GraphAdder interface {

	// Tries to add the given graph to this set.
	// If true is returned, no isomorphic graph was present and X was added.
	TryAddGraph(X *graph.Graph) bool
}

// DropDupes is an in-process GraphAdder, bucketing graphs by fingerprint.
// Added graphs are retained by reference and must not be modified afterwards.
type DropDupes struct {
	hashMap map[uint64][]*graph.Graph
	hasher  maphash.Hash
	count   int
}

func NewDropDupes() *DropDupes {
	return &DropDupes{
		hashMap: make(map[uint64][]*graph.Graph),
	}
}

func (dd *DropDupes) TryAddGraph(X *graph.Graph) bool {
	var keyBuf [128]byte
	key := X.AppendPrimeKey(keyBuf[:0])

	dd.hasher.Reset()
	dd.hasher.Write(key)
	hash := dd.hasher.Sum64()

	for _, Xi := range dd.hashMap[hash] {
		if Xi.Equal(X) {
			return false
		}
	}
	dd.hashMap[hash] = append(dd.hashMap[hash], X)
	dd.count++
	return true
}

// Len returns the number of graphs added.
func (dd *DropDupes) Len() int {
	return dd.count
}

// Reset removes all previously added graphs.
func (dd *DropDupes) Reset() {
	for k := range dd.hashMap {
		delete(dd.hashMap, k)
	}
	dd.count = 0
}
