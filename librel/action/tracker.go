package action

import (
	"fmt"

	"github.com/fine-structures/relplan/librel/graph"
	"github.com/fine-structures/relplan/relplan"
	"github.com/pkg/errors"
)

// Step is one primitive application within a plan.
//
// Mapping takes the primitive's Input vertices, and the Output vertices it creates, to the plan vertices of the action
// holding the step.  Plan vertices are that action's Input vertices plus one vertex per object some step creates, so
// a later step acting on a created object names the same plan vertex as the step that created it.
type Step struct {
	Label   string
	Mapping *graph.VertexMapping
}

func (step Step) String(idx int, withMapping bool) string {
	if withMapping {
		return fmt.Sprintf("%d. %s %v", idx+1, step.Label, step.Mapping)
	}
	return fmt.Sprintf("%d. %s", idx+1, step.Label)
}

// planVertices maps this action's Input vertices and the Output vertices it creates onto themselves.
func (act *Action) planVertices() *graph.VertexMapping {
	m := graph.IdentityMapping(act.Input.Vertices())
	for _, w := range act.Created() {
		m.Set(w, w)
	}
	return m
}

// Tracker is the ordered list of primitive steps a compound action is built from.
type Tracker []Step

// Labels returns the label of each step in order.
func (tr Tracker) Labels() []string {
	labels := make([]string, len(tr))
	for i, step := range tr {
		labels[i] = step.Label
	}
	return labels
}

// Replay executes this action's steps one primitive at a time against X.
//
// bind maps this action's Input vertices onto X (e.g. Result.Match).  lib resolves step labels and must hold the same
// primitive instances the plan was composed from.  Each step applies at the first match consistent with bind and with
// the vertices created by earlier steps.
func (act *Action) Replay(X *graph.Graph, bind *graph.VertexMapping, lib map[string]*Action) (*graph.Graph, error) {
	if X == nil {
		return nil, relplan.ErrNilGraph
	}
	state := X
	track := bind.Clone()

	for i, step := range act.Tracker {
		prim := lib[step.Label]
		if prim == nil {
			if len(act.Tracker) == 1 && step.Label == act.Label {
				prim = act
			} else {
				return nil, errors.Wrapf(relplan.ErrUnknownAction, "step %d: %q", i+1, step.Label)
			}
		}

		seed := step.Mapping.Compose(track)
		mu, found := state.MatchFrom(prim.Input, seed).First()
		if !found {
			return nil, errors.Wrapf(relplan.ErrReplayFailed, "step %d: %q", i+1, step.Label)
		}
		res := prim.ApplyAt(state, mu)
		track = track.Compose(res.Base)
		for _, w := range prim.Created() {
			p, hasPlan := step.Mapping.Get(w)
			v, hasState := res.Mapping.Get(w)
			if hasPlan && hasState {
				track.Set(p, v)
			}
		}
		state = res.State
	}
	return state, nil
}
