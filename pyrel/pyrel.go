package pyrel

import (
	"strings"

	"github.com/fine-structures/relplan/librel/action"
	"github.com/fine-structures/relplan/librel/explorer"
	"github.com/fine-structures/relplan/librel/graph"
	"github.com/fine-structures/relplan/relplan"
	"github.com/go-python/gpython/py"
)

var (
	LIB_VERSION = "v1.2026.1"
)

var (
	pyGraphType     = py.NewType("Graph", "a set of signed, labeled relations over opaque vertices")
	pyActionType    = py.NewType("Action", "a graph rewrite rule, either primitive or a compound plan")
	pyWorkspaceType = py.NewType("Workspace", "owns the vertex space and primitive actions of a session")
)

const (
	kWorkspaceAttr = "_Workspace"
)

type pyGraph struct {
	*graph.Graph
}

func (X pyGraph) Type() *py.Type {
	return pyGraphType
}

func (X pyGraph) M__str__() (py.Object, error) {
	return py.String(X.String()), nil
}

func (X pyGraph) M__repr__() (py.Object, error) {
	return X.M__str__()
}

func getGraphArg(obj py.Object) (*graph.Graph, error) {
	X, ok := obj.(pyGraph)
	if !ok {
		return nil, py.ExceptionNewf(py.TypeError, "expected Graph object (got %v)", obj.Type().Name)
	}
	return X.Graph, nil
}

func pyBool(b bool) py.Object {
	if b {
		return py.True
	}
	return py.False
}

func py_Graph_NumVerts(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	return py.Int(X.NumVerts()), nil
}

func py_Graph_NumEdges(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	return py.Int(X.NumEdges()), nil
}

// Returns the number of ways the given pattern matches this graph
func py_Graph_Match(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	if len(args) < 1 {
		return nil, py.ExceptionNewf(py.TypeError, "Match() expects a pattern")
	}
	pattern, err := getGraphArg(args[0])
	if err != nil {
		return nil, err
	}
	return py.Int(X.Match(pattern, false).Count()), nil
}

func py_Graph_Contains(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	if len(args) < 1 {
		return nil, py.ExceptionNewf(py.TypeError, "Contains() expects a pattern")
	}
	pattern, err := getGraphArg(args[0])
	if err != nil {
		return nil, err
	}
	return pyBool(X.Contains(pattern)), nil
}

func py_Graph_Equal(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	if len(args) < 1 {
		return nil, py.ExceptionNewf(py.TypeError, "Equal() expects a Graph")
	}
	other, err := getGraphArg(args[0])
	if err != nil {
		return nil, err
	}
	return pyBool(X.Equal(other)), nil
}

type pyAction struct {
	*action.Action
	ws *Workspace
}

func (act pyAction) Type() *py.Type {
	return pyActionType
}

func (act pyAction) M__str__() (py.Object, error) {
	var b strings.Builder
	act.WriteAsString(&b, relplan.DefaultPrintOpts)
	return py.String(b.String()), nil
}

func (act pyAction) M__repr__() (py.Object, error) {
	return act.M__str__()
}

func py_Action_Label(self py.Object, args py.Tuple) (py.Object, error) {
	act := self.(pyAction)
	return py.String(act.Label), nil
}

// Returns the primitive labels of this action's plan, in order
func py_Action_Steps(self py.Object, args py.Tuple) (py.Object, error) {
	act := self.(pyAction)
	labels := act.Tracker.Labels()
	steps := make(py.Tuple, len(labels))
	for i, label := range labels {
		steps[i] = py.String(label)
	}
	return steps, nil
}

// Returns a tuple of every state reachable by applying this action to the given graph
func py_Action_Apply(self py.Object, args py.Tuple) (py.Object, error) {
	act := self.(pyAction)
	if len(args) < 1 {
		return nil, py.ExceptionNewf(py.TypeError, "Apply() expects a Graph")
	}
	X, err := getGraphArg(args[0])
	if err != nil {
		return nil, err
	}
	var states py.Tuple
	for res := range act.Apply(X).All() {
		states = append(states, pyGraph{res.State})
	}
	return states, nil
}

// Replays this action's plan one primitive at a time and returns the first resulting state, or None
func py_Action_Replay(self py.Object, args py.Tuple) (py.Object, error) {
	act := self.(pyAction)
	if len(args) < 1 {
		return nil, py.ExceptionNewf(py.TypeError, "Replay() expects a Graph")
	}
	X, err := getGraphArg(args[0])
	if err != nil {
		return nil, err
	}
	res, found := act.Apply(X).First()
	if !found {
		return py.None, nil
	}
	state, err := act.Replay(X, res.Match, act.ws.library)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return pyGraph{state}, nil
}

func py_Action_Invert(self py.Object, args py.Tuple) (py.Object, error) {
	act := self.(pyAction)
	return pyAction{act.Invert(), act.ws}, nil
}

// Workspace owns the vertex space shared by all graphs and actions of a script.
type Workspace struct {
	space   *graph.Space
	library map[string]*action.Action
}

func (ws *Workspace) Type() *py.Type {
	return pyWorkspaceType
}

func py_GetWorkspace(module py.Object, args py.Tuple) (py.Object, error) {
	wsObj, _ := py.GetAttrString(module, kWorkspaceAttr)
	if wsObj == nil {
		ws := &Workspace{
			space:   graph.NewSpace(),
			library: make(map[string]*action.Action),
		}
		wsObj = ws
		py.SetAttrString(module, kWorkspaceAttr, wsObj)
	}
	return wsObj, nil
}

func py_Workspace_Graph(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*Workspace)

	var expr string
	if err := py.LoadTuple(args, []interface{}{&expr}); err != nil {
		return nil, err
	}
	X, err := graph.ParseGraph(ws.space, expr)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return pyGraph{X}, nil
}

func py_Workspace_Action(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*Workspace)

	var label, rule string
	if err := py.LoadTuple(args, []interface{}{&label, &rule}); err != nil {
		return nil, err
	}
	act, err := action.Parse(ws.space, label, rule)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	ws.library[label] = act
	return pyAction{act, ws}, nil
}

// Arg 1 (tuple or list of Action): primitive actions
// Arg 2 (int): search depth
func py_Workspace_Explore(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*Workspace)
	if len(args) < 1 {
		return nil, py.ExceptionNewf(py.TypeError, "Explore() expects a sequence of actions")
	}

	var items py.Tuple
	switch seq := args[0].(type) {
	case py.Tuple:
		items = seq
	case *py.List:
		items = seq.Items
	default:
		return nil, py.ExceptionNewf(py.TypeError, "expected tuple or list of Action (got %v)", args[0].Type().Name)
	}

	prims := make([]*action.Action, 0, len(items))
	for _, item := range items {
		act, ok := item.(pyAction)
		if !ok {
			return nil, py.ExceptionNewf(py.TypeError, "expected Action object (got %v)", item.Type().Name)
		}
		prims = append(prims, act.Action)
	}

	opts := explorer.DefaultOpts
	if len(args) > 1 {
		depth, err := py.GetInt(args[1])
		if err != nil {
			return nil, err
		}
		opts.Depth = int(depth)
	}

	ex, err := explorer.New(prims, opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	retained, err := ex.Compile()
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}

	plans := make(py.Tuple, len(retained))
	for i, act := range retained {
		plans[i] = pyAction{act, ws}
	}
	return plans, nil
}

func init() {

	/////////////////////////////////
	// Graph
	{
		pyGraphType.Dict["NumVerts"] = py.MustNewMethod("NumVerts", py_Graph_NumVerts, 0, "")
		pyGraphType.Dict["NumEdges"] = py.MustNewMethod("NumEdges", py_Graph_NumEdges, 0, "")
		pyGraphType.Dict["Match"] = py.MustNewMethod("Match", py_Graph_Match, 0, "counts the ways a pattern matches this Graph")
		pyGraphType.Dict["Contains"] = py.MustNewMethod("Contains", py_Graph_Contains, 0, "")
		pyGraphType.Dict["Equal"] = py.MustNewMethod("Equal", py_Graph_Equal, 0, "reports if two Graphs are isomorphic")
	}

	/////////////////////////////////
	// Action
	{
		pyActionType.Dict["Label"] = py.MustNewMethod("Label", py_Action_Label, 0, "")
		pyActionType.Dict["Steps"] = py.MustNewMethod("Steps", py_Action_Steps, 0, "labels of the primitives this plan chains")
		pyActionType.Dict["Apply"] = py.MustNewMethod("Apply", py_Action_Apply, 0, "")
		pyActionType.Dict["Replay"] = py.MustNewMethod("Replay", py_Action_Replay, 0, "")
		pyActionType.Dict["Invert"] = py.MustNewMethod("Invert", py_Action_Invert, 0, "")
	}

	/////////////////////////////////
	// Workspace
	{
		pyWorkspaceType.Dict["Graph"] = py.MustNewMethod("Graph", py_Workspace_Graph, 0, "parses a Graph such as 'Ball(a), !Sorted(a)'")
		pyWorkspaceType.Dict["Action"] = py.MustNewMethod("Action", py_Workspace_Action, 0, "parses a primitive Action from a label and rule")
		pyWorkspaceType.Dict["Explore"] = py.MustNewMethod("Explore", py_Workspace_Explore, 0, "compiles plans from primitive actions")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("Workspace", py_GetWorkspace, 0, ""),
		}

		globals := py.StringDict{
			"LIB_VERSION":   py.String(LIB_VERSION),
			"DEFAULT_DEPTH": py.Int(relplan.DefaultDepth),
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "_relplan",
				Doc:  "relational plan search gpython module",
			},
			Methods: methods,
			Globals: globals,
		})
	}
}
