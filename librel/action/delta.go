package action

import (
	"strconv"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/fine-structures/relplan/librel/graph"
)

// Delta is the per-label net signed edge count an action adds, ordered by label.
// A positive edge counts +1 and a negative edge -1; Input counts are subtracted from Output counts.
type Delta struct {
	counts *treemap.Map
}

// Delta returns the net signed change this action makes to each label.  Labels with no net change are omitted.
func (act *Action) Delta() Delta {
	counts := treemap.NewWithStringComparator()
	tally(counts, act.Output, 1)
	tally(counts, act.Input, -1)

	for _, label := range counts.Keys() {
		if n, _ := counts.Get(label); n.(int) == 0 {
			counts.Remove(label)
		}
	}
	return Delta{counts: counts}
}

func tally(counts *treemap.Map, X *graph.Graph, scale int) {
	for _, e := range X.Edges() {
		sign := 1
		if e.Neg {
			sign = -1
		}
		n := 0
		if prev, found := counts.Get(e.Label); found {
			n = prev.(int)
		}
		counts.Put(e.Label, n+scale*sign)
	}
}

// Get returns the net change for the given label.
func (d Delta) Get(label string) int {
	if n, found := d.counts.Get(label); found {
		return n.(int)
	}
	return 0
}

// Len returns the number of labels with a net change.
func (d Delta) Len() int {
	return d.counts.Size()
}

// String renders the delta as "Ball:+1 Hand:-2", labels ascending.
func (d Delta) String() string {
	var b strings.Builder
	it := d.counts.Iterator()
	for it.Next() {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(it.Key().(string))
		b.WriteByte(':')
		n := it.Value().(int)
		if n > 0 {
			b.WriteByte('+')
		}
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// Equal reports if both deltas hold the same counts.
func (d Delta) Equal(other Delta) bool {
	return d.String() == other.String()
}

// SolvedBy reports if other covers this action, approximated by comparing per-label net signed edge counts.
//
// Actions with equal counts but different relational structure are reported as solving each other; use
// SolvedByStrict where that matters.
func (act *Action) SolvedBy(other *Action) bool {
	return act.Delta().Equal(other.Delta())
}

// SolvedByStrict reports if other covers this action exactly, i.e. their action graphs are isomorphic.
func (act *Action) SolvedByStrict(other *Action) bool {
	return act.Equal(other)
}
