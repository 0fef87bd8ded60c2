package pyrel_test

import (
	"testing"

	_ "github.com/fine-structures/relplan/pyrel"
	"github.com/go-python/gpython/py"
	_ "github.com/go-python/gpython/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const planScript = `
import _relplan

ws = _relplan.Workspace()
make_ball = ws.Action("make_ball", "-> Ball(a)")
sort_ball = ws.Action("sort", "Ball(a), !Sorted(a) -> Ball(a), Sorted(a)")

two_balls = ws.Graph("Ball(x), Ball(y)")
num_matches = two_balls.Match(ws.Graph("Ball(p)"))
has_sorted = two_balls.Contains(ws.Graph("Sorted(p)"))

plans = ws.Explore([make_ball, sort_ball], 2)
labels = [p.Label() for p in plans]

steps = ()
replayed = False
for p in plans:
    if p.Label() == "make_ball, sort":
        steps = p.Steps()
        states = p.Apply(ws.Graph(""))
        replayed = p.Replay(ws.Graph("")).Equal(states[0]) and states[0].Equal(ws.Graph("Ball(b), Sorted(b)"))
`

// runScript executes src as a whole module, unlike py.RunSrc which only runs its first statement.
func runScript(ctx py.Context, src, desc string) (*py.Module, error) {
	code, err := py.Compile(src, desc, py.ExecMode, 0, true)
	if err != nil {
		return nil, err
	}
	return py.RunCode(ctx, code, desc, nil)
}

func TestPlanScript(t *testing.T) {
	ctx := py.NewContext(py.DefaultContextOpts())
	defer func() {
		ctx.Close()
		<-ctx.Done()
	}()

	module, err := runScript(ctx, planScript, "plan_test.py")
	require.NoError(t, err)

	globals := module.Globals
	assert.Equal(t, py.Int(2), globals["num_matches"])
	assert.Equal(t, py.False, globals["has_sorted"])
	assert.Equal(t, py.Tuple{py.String("make_ball"), py.String("sort")}, globals["steps"])
	assert.Equal(t, py.True, globals["replayed"])

	labels, ok := globals["labels"].(*py.List)
	require.True(t, ok)
	assert.Contains(t, labels.Items, py.Object(py.String("make_ball")))
	assert.Contains(t, labels.Items, py.Object(py.String("make_ball, sort")))
}

func TestBadArgs(t *testing.T) {
	ctx := py.NewContext(py.DefaultContextOpts())
	defer func() {
		ctx.Close()
		<-ctx.Done()
	}()

	module, err := runScript(ctx, "import _relplan\nx = 1\n", "ok.py")
	require.NoError(t, err)
	assert.Equal(t, py.Int(1), module.Globals["x"])

	_, err = runScript(ctx, `
import _relplan
_relplan.Workspace().Graph("Ball(")
`, "bad_graph.py")
	assert.Error(t, err)

	_, err = runScript(ctx, `
import _relplan
_relplan.Workspace().Explore([1, 2], 2)
`, "bad_explore.py")
	assert.Error(t, err)
}
