package explorer

import (
	"sort"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/fine-structures/relplan/librel/abstract"
	"github.com/fine-structures/relplan/librel/action"
	"github.com/fine-structures/relplan/librel/catalog"
	"github.com/fine-structures/relplan/librel/graph"
	"github.com/fine-structures/relplan/relplan"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/prometheus/client_golang/prometheus"
)

// Opts specifies how an Explorer searches
type Opts struct {
	Depth       int                 // Max number of primitives chained into one plan
	Subsumption relplan.SubsumeMode // How one action is judged to cover another
	Constraint  Constraint          // If set, compound actions whose Output it falsifies are dropped
	Metrics     prometheus.Registerer
}

// DefaultOpts{}
var DefaultOpts = Opts{
	Depth:       relplan.DefaultDepth,
	Subsumption: relplan.SubsumeNetDelta,
}

// Explorer synthesizes compound actions (plans) from primitive actions by breadth-first regression.
type Explorer struct {
	opts    Opts
	space   *graph.Space
	prims   []*action.Action
	metrics *Metrics
	actions []*action.Action
}

// Solution is one state reachable from an initial state by a retained action.
type Solution struct {
	Action *action.Action
	Result action.Result
}

type workItem struct {
	depth int
	act   *action.Action
}

// New returns an Explorer over the given primitive actions, which must share one Space.
func New(actions []*action.Action, opts Opts) (*Explorer, error) {
	if opts.Depth < 1 {
		return nil, errors.Wrapf(relplan.ErrBadDepth, "got %d", opts.Depth)
	}

	ex := &Explorer{
		opts:  opts,
		prims: actions,
	}
	for _, act := range actions {
		if ex.space == nil {
			ex.space = act.Space()
		} else if act.Space() != ex.space {
			return nil, errors.Errorf("action %q belongs to a different space", act.Label)
		}
	}

	var err error
	ex.metrics, err = NewMetrics(opts.Metrics)
	if err != nil {
		return nil, err
	}
	return ex, nil
}

// Compile searches for compound actions up to the configured depth and returns the minimal set of retained actions,
// smallest first.
func (ex *Explorer) Compile() ([]*action.Action, error) {
	runID := uuid.New()
	ex.actions = nil
	if len(ex.prims) == 0 {
		ex.metrics.retained.Set(0)
		return nil, nil
	}

	cat, err := catalog.Open(ex.space, catalog.Opts{})
	if err != nil {
		return nil, err
	}
	defer cat.Close()

	klog.V(1).Infof("explorer %v: compiling %d actions, depth %d, subsumption %v",
		runID, len(ex.prims), ex.opts.Depth, ex.opts.Subsumption)

	queue := linkedlistqueue.New()
	var prims, discovered []*action.Action
	for _, act := range ex.prims {
		if !cat.TryAddGraph(act.ActionGraph) {
			ex.metrics.duplicates.Inc()
			klog.V(1).Infof("explorer %v: dropping duplicate action %q", runID, act.Label)
			continue
		}
		prims = append(prims, act)
		discovered = append(discovered, act)
		queue.Enqueue(workItem{1, act})
	}

	for !queue.Empty() {
		v, _ := queue.Dequeue()
		item := v.(workItem)
		if item.depth >= ex.opts.Depth {
			continue
		}
		ex.metrics.expanded.Inc()
		klog.V(2).Infof("explorer %v: expanding [%d] %v", runID, item.depth, item.act.Label)

		for _, prim := range prims {
			for gr := range abstract.New(item.act.Input).Match(prim.Output).All() {
				next := compose(item.act, prim, gr)
				if next == nil {
					continue
				}
				if ex.opts.Constraint != nil && ex.opts.Constraint.FalsifiedBy(next.Output) {
					ex.metrics.falsified.Inc()
					continue
				}
				if !cat.TryAddGraph(next.ActionGraph) {
					ex.metrics.duplicates.Inc()
					continue
				}
				if ex.subsumedByAny(next, discovered) {
					ex.metrics.subsumed.Inc()
					continue
				}

				ex.metrics.discovered.Inc()
				discovered = append(discovered, next)
				queue.Enqueue(workItem{item.depth + 1, next})
			}
		}
	}

	ex.actions = ex.minimize(discovered)
	ex.metrics.retained.Set(float64(len(ex.actions)))

	klog.V(1).Infof("explorer %v: retained %d of %d discovered actions", runID, len(ex.actions), len(discovered))
	return ex.actions, nil
}

// subsumes reports if act is covered by other under the configured mode.
func (ex *Explorer) subsumes(other, act *action.Action) bool {
	switch ex.opts.Subsumption {
	case relplan.SubsumeIsomorphic:
		return act.SolvedByStrict(other)
	default:
		return act.SolvedBy(other)
	}
}

func (ex *Explorer) subsumedByAny(act *action.Action, others []*action.Action) bool {
	for _, other := range others {
		if ex.subsumes(other, act) {
			return true
		}
	}
	return false
}

// minimize orders actions by size and drops each one covered by a strictly smaller retained action.
func (ex *Explorer) minimize(actions []*action.Action) []*action.Action {
	sorted := make([]*action.Action, len(actions))
	copy(sorted, actions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Size() < sorted[j].Size()
	})

	kept := make([]*action.Action, 0, len(sorted))
	for _, act := range sorted {
		dropped := false
		for _, smaller := range kept {
			if smaller.Size() < act.Size() && ex.subsumes(smaller, act) {
				dropped = true
				break
			}
		}
		if dropped {
			ex.metrics.subsumed.Inc()
			continue
		}
		kept = append(kept, act)
	}
	return kept
}

// Actions returns the actions retained by the last Compile.
func (ex *Explorer) Actions() []*action.Action {
	return ex.actions
}

// Library maps each primitive label to its action, as needed by action.Replay.
func (ex *Explorer) Library() map[string]*action.Action {
	lib := make(map[string]*action.Action, len(ex.prims))
	for _, act := range ex.prims {
		lib[act.Label] = act
	}
	return lib
}

// FindSolution yields every state reached by applying a retained action to initial, in retained order.
// Compile must be called first.
func (ex *Explorer) FindSolution(initial *graph.Graph) *relplan.Stream[Solution] {
	actions := ex.actions
	return relplan.NewStream(func(yield func(Solution) bool) {
		if initial == nil {
			return
		}
		for _, act := range actions {
			for res := range act.Apply(initial).All() {
				if !yield(Solution{Action: act, Result: res}) {
					return
				}
			}
		}
	})
}

// Solve returns the first solution from initial that the configured Constraint does not falsify.
func (ex *Explorer) Solve(initial *graph.Graph) (Solution, bool) {
	return relplan.Filter(ex.FindSolution(initial), func(sol Solution) bool {
		return ex.opts.Constraint == nil || !ex.opts.Constraint.FalsifiedBy(sol.Result.State)
	}).First()
}
