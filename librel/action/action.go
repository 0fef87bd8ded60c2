package action

import (
	"io"
	"strings"

	"github.com/fine-structures/relplan/librel/graph"
	"github.com/fine-structures/relplan/relplan"
)

// Labels reserved for action graphs
const (
	InputTag     = "in:"
	OutputTag    = "out:"
	PersistLabel = "*"
)

// Action is a graph rewrite rule: wherever Input matches a state, the matched vertices in ToRemove are destroyed and
// Output is applied through InOut.
//
// Input and Output never share vertices.  InOut pairs each Input vertex that survives with its Output counterpart.
// ActionGraph combines both sides into one graph whose isomorphism class is this action's identity.
type Action struct {
	Label       string
	Input       *graph.Graph
	Output      *graph.Graph
	InOut       *graph.VertexMapping
	ToRemove    []graph.Vertex
	ActionGraph *graph.Graph
	Tracker     Tracker
}

// Result is one application of an Action to a state.
type Result struct {
	State   *graph.Graph         // the new state
	Mapping *graph.VertexMapping // Output vertices → State vertices
	Base    *graph.VertexMapping // prior state vertices → State vertices
	Match   *graph.VertexMapping // Input vertices → prior state vertices
}

// New returns a primitive action.  in and out may share vertices; inOut pairs the in vertices that survive into out.
// The sides are copied onto fresh vertices, so the caller keeps ownership of the given graphs.
func New(label string, in, out *graph.Graph, inOut *graph.VertexMapping) *Action {
	act, _, _ := normalize(in, out, inOut)
	act.Label = label
	act.Tracker = Tracker{
		{Label: label, Mapping: act.planVertices()},
	}
	return act
}

// Parse returns a primitive action from a rule such as "Ball(a), !Sorted(a) -> Ball(a), Sorted(a)".
// Vertices named on both sides persist; those named only on the left are destroyed.
func Parse(space *graph.Space, label, rule string) (*Action, error) {
	in, out, inOut, err := graph.NewBuilder(space).ParseRule(rule)
	if err != nil {
		return nil, err
	}
	return New(label, in, out, inOut), nil
}

// NewCompound returns an action carrying the given plan steps.  Step mappings address in's vertices, out's created
// vertices, and any other vertex standing for an object created and destroyed within the plan.
func NewCompound(in, out *graph.Graph, inOut *graph.VertexMapping, steps Tracker) *Action {
	act, inMap, outMap := normalize(in, out, inOut)
	act.Tracker = make(Tracker, len(steps))
	labels := make([]string, len(steps))
	for i, step := range steps {
		act.Tracker[i] = Step{
			Label:   step.Label,
			Mapping: step.Mapping.Rebase(inMap).Rebase(outMap),
		}
		labels[i] = step.Label
	}
	act.Label = strings.Join(labels, ", ")
	return act
}

func normalize(in, out *graph.Graph, inOut *graph.VertexMapping) (*Action, *graph.VertexMapping, *graph.VertexMapping) {
	Xin, inMap := in.Clone()
	Xout, outMap := out.Clone()

	act := &Action{
		Input:  Xin,
		Output: Xout,
		InOut:  inMap.Invert().Compose(inOut).Compose(outMap),
	}
	for _, v := range Xin.Vertices() {
		if !act.InOut.Has(v) {
			act.ToRemove = append(act.ToRemove, v)
		}
	}

	space := in.Space()
	AG := graph.NewGraph(space)
	for _, v := range Xin.Vertices() {
		AG.AddVertex(v)
	}
	for _, v := range Xout.Vertices() {
		AG.AddVertex(v)
	}
	for _, e := range Xin.Edges() {
		AG.AddEdge(e.Relabel(InputTag + e.Label))
	}
	for _, e := range Xout.Edges() {
		AG.AddEdge(e.Relabel(OutputTag + e.Label))
	}
	for _, v := range act.InOut.Keys() {
		w, _ := act.InOut.Get(v)
		AG.AddEdge(graph.NewEdge(PersistLabel, v, w))
	}
	act.ActionGraph = AG
	return act, inMap, outMap
}

// Space returns the space of this action's graphs.
func (act *Action) Space() *graph.Space {
	return act.Input.Space()
}

// Created returns the Output vertices with no Input counterpart, ascending.
func (act *Action) Created() []graph.Vertex {
	var created []graph.Vertex
	for _, w := range act.Output.Vertices() {
		if !act.InOut.HasB(w) {
			created = append(created, w)
		}
	}
	return created
}

// IsCompound reports if this action chains more than one primitive.
func (act *Action) IsCompound() bool {
	return len(act.Tracker) > 1
}

// Size returns the number of vertices of the action graph.
func (act *Action) Size() int {
	return act.ActionGraph.NumVerts()
}

// Equal reports if both actions have isomorphic action graphs.
func (act *Action) Equal(other *Action) bool {
	return act.ActionGraph.Equal(other.ActionGraph)
}

// Invert returns the action undoing this one: Input and Output swapped and InOut inverted.
// The inverse is a primitive whose label is this label suffixed with "⁻¹".
func (act *Action) Invert() *Action {
	return New(act.Label+"⁻¹", act.Output, act.Input, act.InOut.Invert())
}

// Apply yields a new state for every proper match of Input in X.
func (act *Action) Apply(X *graph.Graph) *relplan.Stream[Result] {
	return relplan.NewStream(func(yield func(Result) bool) {
		for mu := range X.Match(act.Input, true).All() {
			if !yield(act.ApplyAt(X, mu)) {
				return
			}
		}
	})
}

// ApplyAt applies this action to a copy of X at the given match of Input.
func (act *Action) ApplyAt(X *graph.Graph, mu *graph.VertexMapping) Result {
	Xn, base := X.Clone()
	onXn := mu.Compose(base)
	for _, v := range act.ToRemove {
		if img, ok := onXn.Get(v); ok {
			Xn.RemoveVertex(img)
		}
	}

	outMap := act.InOut.Invert().Compose(onXn)
	Xn.Apply(act.Output, outMap)
	Xn.Prune()
	Xn.Process()

	return Result{
		State:   Xn,
		Mapping: outMap,
		Base:    base,
		Match:   mu,
	}
}

// WriteAsString writes "label: input -> output", followed by the plan steps if requested.
func (act *Action) WriteAsString(out io.Writer, opts relplan.PrintOpts) {
	var b strings.Builder
	if len(opts.Label) > 0 {
		b.WriteString(opts.Label)
	}
	b.WriteString(act.Label)
	b.WriteString(": ")
	act.Input.WriteAsString(&b, relplan.PrintOpts{})
	b.WriteString(" -> ")
	act.Output.WriteAsString(&b, relplan.PrintOpts{})
	if opts.Tracker && act.IsCompound() {
		for i, step := range act.Tracker {
			b.WriteString("\n    ")
			b.WriteString(step.String(i, opts.Mappings))
		}
	}
	out.Write([]byte(b.String()))
}

func (act *Action) String() string {
	var b strings.Builder
	act.WriteAsString(&b, relplan.PrintOpts{})
	return b.String()
}
