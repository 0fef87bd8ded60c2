package explorer

import (
	"github.com/fine-structures/relplan/librel/graph"
)

// Constraint decides if no extension of a graph could ever satisfy a goal.
// Implementations must depend only on the structure of the given graph.
type Constraint interface {
	FalsifiedBy(X *graph.Graph) bool
}

// ConstraintFunc adapts a function to a Constraint.
type ConstraintFunc func(X *graph.Graph) bool

func (fn ConstraintFunc) FalsifiedBy(X *graph.Graph) bool {
	return fn(X)
}

// PatternConstraint falsifies any graph in which one of its patterns matches.
type PatternConstraint struct {
	Forbidden []*graph.Graph
}

func (pc *PatternConstraint) FalsifiedBy(X *graph.Graph) bool {
	for _, pattern := range pc.Forbidden {
		if X.Match(pattern, false).Any() {
			return true
		}
	}
	return false
}
