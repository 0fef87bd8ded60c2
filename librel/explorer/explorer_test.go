package explorer_test

import (
	"sort"
	"testing"

	"github.com/fine-structures/relplan/librel/action"
	"github.com/fine-structures/relplan/librel/explorer"
	"github.com/fine-structures/relplan/librel/graph"
	"github.com/fine-structures/relplan/relplan"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustActions(t *testing.T, space *graph.Space, rules ...string) []*action.Action {
	t.Helper()
	var acts []*action.Action
	for i := 0; i < len(rules); i += 2 {
		act, err := action.Parse(space, rules[i], rules[i+1])
		require.NoError(t, err)
		acts = append(acts, act)
	}
	return acts
}

func compile(t *testing.T, prims []*action.Action, opts explorer.Opts) (*explorer.Explorer, []*action.Action) {
	t.Helper()
	ex, err := explorer.New(prims, opts)
	require.NoError(t, err)
	retained, err := ex.Compile()
	require.NoError(t, err)
	return ex, retained
}

func sortedLabels(acts []*action.Action) []string {
	labels := make([]string, len(acts))
	for i, act := range acts {
		labels[i] = act.Label
	}
	sort.Strings(labels)
	return labels
}

func TestIndependentPrimitives(t *testing.T) {
	space := graph.NewSpace()
	prims := mustActions(t, space,
		"make_ball", "-> Ball(a)",
		"make_hand", "-> Hand(b)",
	)

	_, retained := compile(t, prims, explorer.Opts{Depth: 2})
	require.Len(t, retained, 5)
	assert.Same(t, prims[0], retained[0])
	assert.Same(t, prims[1], retained[1])

	outputs := []string{
		"Ball(x), Ball(y)",
		"Hand(x), Ball(y)",
		"Hand(x), Hand(y)",
	}
	for _, act := range retained[2:] {
		assert.True(t, act.IsCompound())
		assert.True(t, act.Input.IsEmpty())
		for _, prim := range prims {
			assert.False(t, act.Equal(prim), "%s equals primitive %s", act.Label, prim.Label)
		}
		found := 0
		for _, expr := range outputs {
			if act.Output.Equal(graph.MustParseGraph(space, expr)) {
				found++
			}
		}
		assert.Equal(t, 1, found, act.Label)
	}
	for i, act := range retained[2:] {
		for _, other := range retained[3+i:] {
			assert.False(t, act.Equal(other))
		}
	}
}

func TestDepthOne(t *testing.T) {
	space := graph.NewSpace()
	prims := mustActions(t, space,
		"make_ball", "-> Ball(a)",
		"make_hand", "-> Hand(b)",
		"make_ball_again", "-> Ball(q)",
	)

	_, retained := compile(t, prims, explorer.Opts{Depth: 1})
	assert.Equal(t, []string{"make_ball", "make_hand"}, sortedLabels(retained), "isomorphic primitives are kept once")
}

func TestBadOpts(t *testing.T) {
	_, err := explorer.New(nil, explorer.Opts{})
	assert.True(t, errors.Is(err, relplan.ErrBadDepth))

	prims := append(
		mustActions(t, graph.NewSpace(), "make_ball", "-> Ball(a)"),
		mustActions(t, graph.NewSpace(), "make_hand", "-> Hand(a)")...,
	)
	_, err = explorer.New(prims, explorer.DefaultOpts)
	assert.Error(t, err)

	ex, err := explorer.New(nil, explorer.DefaultOpts)
	require.NoError(t, err)
	retained, err := ex.Compile()
	require.NoError(t, err)
	assert.Empty(t, retained)
}

func TestPlanReplay(t *testing.T) {
	space := graph.NewSpace()
	prims := mustActions(t, space,
		"make_ball", "-> Ball(a)",
		"sort", "Ball(a), !Sorted(a) -> Ball(a), Sorted(a)",
	)
	ex, retained := compile(t, prims, explorer.Opts{Depth: 2})

	var plan *action.Action
	for _, act := range retained {
		if act.Label == "make_ball, sort" {
			plan = act
		}
	}
	require.NotNil(t, plan)
	assert.Equal(t, []string{"make_ball", "sort"}, plan.Tracker.Labels())
	assert.True(t, plan.Input.IsEmpty())

	start := space.NewGraph()
	res, ok := plan.Apply(start).First()
	require.True(t, ok)
	assert.True(t, res.State.Equal(graph.MustParseGraph(space, "Ball(x), Sorted(x)")))

	replayed, err := plan.Replay(start, res.Match, ex.Library())
	require.NoError(t, err)
	assert.True(t, replayed.Equal(res.State))
}

func TestReplayMatchesApply(t *testing.T) {
	space := graph.NewSpace()
	prims := mustActions(t, space,
		"make_ball", "-> Ball(a)",
		"make_hand", "-> Hand(h)",
		"grab", "Hand(h), Ball(b), !Holding(h, b) -> Hand(h), Ball(b), Holding(h, b)",
		"release", "Hand(h), Ball(b), Holding(h, b) -> Hand(h), Ball(b), !Holding(h, b)",
		"sort", "Ball(a), !Sorted(a) -> Ball(a), Sorted(a)",
	)
	ex, retained := compile(t, prims, explorer.Opts{Depth: 2})

	starts := []*graph.Graph{
		space.NewGraph(),
		graph.MustParseGraph(space, "Hand(x), Ball(y), Holding(x, y)"),
		graph.MustParseGraph(space, "Ball(x), Ball(y), Sorted(y)"),
		graph.MustParseGraph(space, "Hand(x), Hand(y), Ball(z)"),
	}

	compound := 0
	for _, act := range retained {
		if !act.IsCompound() {
			continue
		}
		compound++
		for _, start := range starts {
			for _, res := range act.Apply(start).Collect() {
				replayed, err := act.Replay(start, res.Match, ex.Library())
				require.NoError(t, err, act.Label)
				assert.True(t, replayed.Equal(res.State), "%s from %v: replayed %v, applied %v",
					act.Label, start, replayed, res.State)
			}
		}
	}
	assert.NotZero(t, compound)

	// The ball sort acts on is the one make_ball just created, not one already held.
	var plan *action.Action
	for _, act := range retained {
		if act.Label == "make_ball, sort" && act.Input.IsEmpty() {
			plan = act
		}
	}
	require.NotNil(t, plan)
	start := graph.MustParseGraph(space, "Hand(x), Ball(y), Holding(x, y)")
	replayed, err := plan.Replay(start, graph.NewVertexMapping(), ex.Library())
	require.NoError(t, err)
	assert.True(t, replayed.Equal(graph.MustParseGraph(space, "Hand(x), Ball(y), Holding(x, y), Ball(z), Sorted(z)")))

	_, err = plan.Replay(nil, graph.NewVertexMapping(), ex.Library())
	assert.True(t, errors.Is(err, relplan.ErrNilGraph))
}

func TestConstraintAndSolve(t *testing.T) {
	space := graph.NewSpace()
	prims := mustActions(t, space,
		"make_ball", "-> Ball(a)",
		"make_hand", "-> Hand(b)",
	)
	reg := prometheus.NewRegistry()
	noBalls := &explorer.PatternConstraint{
		Forbidden: []*graph.Graph{graph.MustParseGraph(space, "Ball(b)")},
	}

	ex, retained := compile(t, prims, explorer.Opts{
		Depth:      2,
		Constraint: noBalls,
		Metrics:    reg,
	})
	require.Len(t, retained, 3)
	assert.True(t, retained[2].Output.Equal(graph.MustParseGraph(space, "Hand(x), Hand(y)")))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	start := space.NewGraph()
	assert.Equal(t, 3, ex.FindSolution(start).Count())

	sol, ok := ex.Solve(start)
	require.True(t, ok)
	assert.Equal(t, "make_hand", sol.Action.Label)
	assert.True(t, sol.Result.State.Equal(graph.MustParseGraph(space, "Hand(h)")))

	onlyBalls := explorer.ConstraintFunc(func(X *graph.Graph) bool {
		return X.Contains(graph.MustParseGraph(space, "Hand(h)"))
	})
	ex, _ = compile(t, prims, explorer.Opts{Depth: 1, Constraint: onlyBalls})
	sol, ok = ex.Solve(start)
	require.True(t, ok)
	assert.Equal(t, "make_ball", sol.Action.Label)

	_, ok = ex.Solve(graph.MustParseGraph(space, "Hand(h)"))
	assert.False(t, ok, "every reachable state still holds the hand")
}

func TestMetrics(t *testing.T) {
	space := graph.NewSpace()
	prims := mustActions(t, space,
		"make_ball", "-> Ball(a)",
		"make_hand", "-> Hand(b)",
	)
	reg := prometheus.NewRegistry()
	_, _ = compile(t, prims, explorer.Opts{
		Depth: 2,
		Constraint: &explorer.PatternConstraint{
			Forbidden: []*graph.Graph{graph.MustParseGraph(space, "Ball(b)")},
		},
		Metrics: reg,
	})

	expect := map[string]float64{
		"relplan_explorer_expanded_total":   2,
		"relplan_explorer_discovered_total": 1,
		"relplan_explorer_duplicates_total": 0,
		"relplan_explorer_subsumed_total":   0,
		"relplan_explorer_falsified_total":  3,
		"relplan_explorer_retained":         3,
	}
	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, len(expect))
	for _, mf := range families {
		want, ok := expect[mf.GetName()]
		require.True(t, ok, mf.GetName())
		metric := mf.GetMetric()[0]
		got := metric.GetCounter().GetValue()
		if metric.GetGauge() != nil {
			got = metric.GetGauge().GetValue()
		}
		assert.Equal(t, want, got, mf.GetName())
	}

	_, err = explorer.New(prims, explorer.Opts{Depth: 1, Metrics: reg})
	assert.Error(t, err, "metrics are registered once per registry")
}

func TestSubsumptionModes(t *testing.T) {
	space := graph.NewSpace()
	prims := mustActions(t, space,
		"grab", "Hand(h), Ball(b) -> Hand(h), Ball(b), Holding(h, b)",
		"self_hold", "-> Holding(x, x)",
	)

	_, retained := compile(t, prims, explorer.Opts{Depth: 1})
	assert.Equal(t, []string{"self_hold"}, sortedLabels(retained), "equal net deltas collapse onto the smaller action")

	_, retained = compile(t, prims, explorer.Opts{Depth: 1, Subsumption: relplan.SubsumeIsomorphic})
	assert.Equal(t, []string{"grab", "self_hold"}, sortedLabels(retained))
}
