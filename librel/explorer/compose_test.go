package explorer

import (
	"testing"

	"github.com/fine-structures/relplan/librel/abstract"
	"github.com/fine-structures/relplan/librel/action"
	"github.com/fine-structures/relplan/librel/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAction(t *testing.T, space *graph.Space, label, rule string) *action.Action {
	t.Helper()
	act, err := action.Parse(space, label, rule)
	require.NoError(t, err)
	return act
}

func groundings(parent, prim *action.Action) []abstract.Grounding {
	return abstract.New(parent.Input).Match(prim.Output).Collect()
}

func TestComposeCreatedVertex(t *testing.T) {
	space := graph.NewSpace()
	makeBall := mustAction(t, space, "make_ball", "-> Ball(a)")
	sortIt := mustAction(t, space, "sort", "Ball(a), !Sorted(a) -> Ball(a), Sorted(a)")

	grs := groundings(sortIt, makeBall)
	require.Len(t, grs, 2)

	plan := compose(sortIt, makeBall, grs[0])
	require.NotNil(t, plan)
	assert.True(t, plan.Input.IsEmpty(), "the ball sort needs is the one make_ball creates")
	assert.True(t, plan.Output.Equal(graph.MustParseGraph(space, "Ball(x), Sorted(x)")))
	assert.Zero(t, plan.InOut.Len())
	assert.Equal(t, []string{"make_ball", "sort"}, plan.Tracker.Labels())
	assert.Equal(t, "make_ball, sort", plan.Label)

	// Grounding onto a fresh ball leaves sort acting on a ball that already existed.
	plan = compose(sortIt, makeBall, grs[1])
	require.NotNil(t, plan)
	assert.True(t, plan.Input.Equal(sortIt.Input))
	assert.True(t, plan.Output.Equal(graph.MustParseGraph(space, "Ball(x), Sorted(x), Ball(y)")))
	assert.Equal(t, 1, plan.InOut.Len())
}

func TestComposeRejectsRequirementsOnCreatedVertex(t *testing.T) {
	space := graph.NewSpace()
	makeBall := mustAction(t, space, "make_ball", "-> Ball(a)")
	polish := mustAction(t, space, "polish", "Ball(a), Red(a) -> Ball(a), Red(a), Shiny(a)")

	grs := groundings(polish, makeBall)
	require.Len(t, grs, 2)
	assert.Nil(t, compose(polish, makeBall, grs[0]), "a new ball cannot already be red")
	assert.NotNil(t, compose(polish, makeBall, grs[1]))
}

func TestComposeRejectsContradiction(t *testing.T) {
	space := graph.NewSpace()
	roll := mustAction(t, space, "roll", "Ball(a), !Round(a) -> Ball(a), Moving(a)")
	spin := mustAction(t, space, "spin", "Ball(a), Moving(a), Round(a) -> Ball(a), Moving(a), Round(a), Spinning(a)")

	grs := groundings(spin, roll)
	require.NotEmpty(t, grs)
	assert.Nil(t, compose(spin, roll, grs[0]), "roll needs a ball that is not round")
}

func TestComposeTrackerReplays(t *testing.T) {
	space := graph.NewSpace()
	grab := mustAction(t, space, "grab", "Hand(h), Ball(b), !Holding(h, b) -> Hand(h), Ball(b), Holding(h, b)")
	lift := mustAction(t, space, "lift", "Hand(h), Ball(b), Holding(h, b), !Up(b) -> Hand(h), Ball(b), Holding(h, b), Up(b)")

	grs := groundings(lift, grab)
	require.NotEmpty(t, grs)
	plan := compose(lift, grab, grs[0])
	require.NotNil(t, plan)
	assert.True(t, plan.Input.Equal(graph.MustParseGraph(space, "Hand(h), Ball(b), !Holding(h, b), !Up(b)")))
	assert.True(t, plan.Output.Equal(graph.MustParseGraph(space, "Hand(h), Ball(b), Holding(h, b), Up(b)")))

	start := graph.MustParseGraph(space, "Hand(x), Ball(y)")
	results := plan.Apply(start).Collect()
	require.Len(t, results, 1)

	lib := map[string]*action.Action{"grab": grab, "lift": lift}
	replayed, err := plan.Replay(start, results[0].Match, lib)
	require.NoError(t, err)
	assert.True(t, replayed.Equal(results[0].State))
}
