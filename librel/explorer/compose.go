package explorer

import (
	"github.com/fine-structures/relplan/librel/abstract"
	"github.com/fine-structures/relplan/librel/action"
	"github.com/fine-structures/relplan/librel/graph"
)

// compose returns the compound action performing prim and then parent, where gr is a grounding of prim's Output
// against parent's Input.  It returns nil if no state could ever precede prim in that grounding.
//
// The composite Input regresses prim out of the grounding: prim's effects are taken away and prim's Input takes their
// place.  The composite Output is the grounding with parent's effects overlaid.
func compose(parent, prim *action.Action, gr abstract.Grounding) *action.Action {
	G := gr.Graph
	space := G.Space()

	Cin, toIn := G.Clone()
	outOnIn := gr.Pattern.Compose(toIn)
	Cin.Remove(prim.Output, outOnIn)

	// Vertices prim creates cannot be required to carry anything before prim runs.
	for _, w := range prim.Output.Vertices() {
		if prim.InOut.HasB(w) {
			continue
		}
		v, _ := outOnIn.Get(w)
		for _, e := range Cin.EdgesOf(v) {
			if !e.Neg {
				return nil
			}
		}
		Cin.RemoveVertex(v)
	}

	inOnIn := prim.InOut.Compose(outOnIn)
	for _, e := range prim.Input.Edges() {
		e = e.Mapped(inOnIn, space)
		if Cin.HasEdge(e.Invert()) {
			return nil
		}
		Cin.AddEdge(e)
	}
	Cin.Prune()

	liveIn := graph.NewVertexMapping()
	for _, g := range toIn.Keys() {
		if v, _ := toIn.Get(g); Cin.HasVertex(v) {
			liveIn.Set(g, v)
		}
	}

	Out, toOut := G.Clone()
	baseOnOut := gr.Base.Compose(toOut)
	for _, v := range parent.ToRemove {
		if img, ok := baseOnOut.Get(v); ok {
			Out.RemoveVertex(img)
		}
	}
	outOnOut := parent.InOut.Invert().Compose(baseOnOut)
	Out.Overlay(parent.Output, outOnOut)

	// Negative requirements still in force are not effects.
	fromOut := toOut.Invert()
	for _, e := range Out.Edges() {
		if !e.Neg {
			continue
		}
		if ge, ok := mapEdge(e, fromOut); ok {
			if ce, ok := mapEdge(ge, liveIn); ok && Cin.HasEdge(ce) {
				Out.RemoveEdge(e)
			}
		}
	}

	inOut := graph.NewVertexMapping()
	for _, g := range liveIn.Keys() {
		v, _ := liveIn.Get(g)
		if w, ok := toOut.Get(g); ok && Out.HasVertex(w) {
			inOut.Set(v, w)
		}
	}

	// Plan vertices: Cin's for objects present beforehand, Out's for objects the plan creates, and G's own for objects
	// created and destroyed within it.
	planOf := func(g graph.Vertex) graph.Vertex {
		if v, ok := liveIn.Get(g); ok {
			return v
		}
		if w, ok := toOut.Get(g); ok && Out.HasVertex(w) {
			return w
		}
		return g
	}

	primPlan := graph.NewVertexMapping()
	for _, v := range prim.Input.Vertices() {
		if p, ok := inOnIn.Get(v); ok {
			primPlan.Set(v, p)
		}
	}
	for _, w := range prim.Created() {
		if g, ok := gr.Pattern.Get(w); ok {
			primPlan.Set(w, planOf(g))
		}
	}

	parentPlan := graph.NewVertexMapping()
	for _, u := range parent.Input.Vertices() {
		if g, ok := gr.Base.Get(u); ok {
			parentPlan.Set(u, planOf(g))
		}
	}
	for _, w := range parent.Created() {
		if v, ok := outOnOut.Get(w); ok {
			parentPlan.Set(w, v)
		}
	}

	steps := make(action.Tracker, 0, len(prim.Tracker)+len(parent.Tracker))
	for _, step := range prim.Tracker {
		steps = append(steps, action.Step{
			Label:   step.Label,
			Mapping: step.Mapping.Rebase(primPlan),
		})
	}
	for _, step := range parent.Tracker {
		steps = append(steps, action.Step{
			Label:   step.Label,
			Mapping: step.Mapping.Rebase(parentPlan),
		})
	}

	return action.NewCompound(Cin, Out, inOut, steps)
}

// mapEdge reindexes e through m, reporting false if any vertex is unmapped.
func mapEdge(e graph.Edge, m *graph.VertexMapping) (graph.Edge, bool) {
	verts := make([]graph.Vertex, len(e.Verts))
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
