package graph

import (
	"github.com/alecthomas/participle/v2"
	"github.com/fine-structures/relplan/relplan"
	"github.com/pkg/errors"
)

// GraphExpr is a comma separated list of facts, e.g. "Ball(a), Hand(h), !Holding(h, a)".
type GraphExpr struct {
	Facts []*FactExpr `( @@ ( "," @@ )* )?`
}

// FactExpr is a single edge; "!", "~" or "¬" makes it negative.
type FactExpr struct {
	Neg   bool     `@( "!" | "~" | "¬" )?`
	Label string   `@Ident`
	Args  []string `"(" @( Ident | Int ) ( "," @( Ident | Int ) )* ")"`
}

// RuleExpr is a rewrite rule, e.g. "Ball(a), Hand(h) -> Ball(a), Hand(h), Holding(h, a)".
type RuleExpr struct {
	Input  *GraphExpr `@@`
	Output *GraphExpr `"-" ">" @@`
}

var (
	parseGraphExpr = participle.MustBuild[GraphExpr]()
	parseRuleExpr  = participle.MustBuild[RuleExpr]()
)

// Builder forms graphs from expressions, binding each vertex name to one vertex for the lifetime of the Builder.
type Builder struct {
	space *Space
	names map[string]Vertex
}

// NewBuilder returns a Builder issuing vertices from space.
func NewBuilder(space *Space) *Builder {
	return &Builder{
		space: space,
		names: make(map[string]Vertex),
	}
}

// Bind returns the vertex bound to name, binding a fresh one if needed.
func (Xb *Builder) Bind(name string) Vertex {
	v, exists := Xb.names[name]
	if !exists {
		v = Xb.space.NewVertex()
		Xb.names[name] = v
	}
	return v
}

// Lookup returns the vertex bound to name.
func (Xb *Builder) Lookup(name string) (Vertex, bool) {
	v, exists := Xb.names[name]
	return v, exists
}

// Build forms a graph from a parsed expression.
func (Xb *Builder) Build(expr *GraphExpr) *Graph {
	X := NewGraph(Xb.space)
	if expr == nil {
		return X
	}
	for _, fact := range expr.Facts {
		verts := make([]Vertex, len(fact.Args))
		for i, name := range fact.Args {
			verts[i] = Xb.Bind(name)
		}
		X.AddEdge(Edge{
			Label: fact.Label,
			Verts: verts,
			Neg:   fact.Neg,
		})
	}
	return X
}

// ParseGraph parses and builds a graph expression.
func (Xb *Builder) ParseGraph(graphExpr string) (*Graph, error) {
	expr, err := parseGraphExpr.ParseString("", graphExpr)
	if err != nil {
		return nil, errors.Wrapf(relplan.ErrBadGraphExpr, "%q: %v", graphExpr, err)
	}
	return Xb.Build(expr), nil
}

// ParseRule parses a rule expression into its input and output graphs.
// inOut pairs each vertex named on both sides of the rule.
func (Xb *Builder) ParseRule(ruleExpr string) (in, out *Graph, inOut *VertexMapping, err error) {
	expr, err := parseRuleExpr.ParseString("", ruleExpr)
	if err != nil {
		return nil, nil, nil, errors.Wrapf(relplan.ErrBadRuleExpr, "%q: %v", ruleExpr, err)
	}
	in = Xb.Build(expr.Input)
	out = Xb.Build(expr.Output)

	inOut = NewVertexMapping()
	for _, v := range in.Vertices() {
		if out.HasVertex(v) {
			inOut.Set(v, v)
		}
	}
	return in, out, inOut, nil
}

// ParseGraph parses a graph expression with a fresh Builder.
func ParseGraph(space *Space, graphExpr string) (*Graph, error) {
	return NewBuilder(space).ParseGraph(graphExpr)
}

// MustParseGraph is ParseGraph that panics on error.
func MustParseGraph(space *Space, graphExpr string) *Graph {
	X, err := ParseGraph(space, graphExpr)
	if err != nil {
		panic(err)
	}
	return X
}
