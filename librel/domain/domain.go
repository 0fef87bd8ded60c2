package domain

import (
	"github.com/fine-structures/relplan/librel/action"
	"github.com/fine-structures/relplan/librel/explorer"
	"github.com/fine-structures/relplan/librel/graph"
	"github.com/fine-structures/relplan/relplan"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
)

// Domain is a planning problem loaded from an HCL file:
//
//	explorer {
//	  depth       = 2
//	  subsumption = "net-delta"
//	}
//	action "make_ball" { rule = "-> Ball(a)" }
//	state "start" { facts = var.start }
//	constraint { forbid = ["Holding(h, a), Holding(h, b)"] }
type Domain struct {
	Space   *graph.Space
	Actions []*action.Action
	States  map[string]*graph.Graph
	Opts    explorer.Opts
}

type hclDomainFile struct {
	Explorer   *hclExplorer   `hcl:"explorer,block"`
	Actions    []*hclAction   `hcl:"action,block"`
	States     []*hclState    `hcl:"state,block"`
	Constraint *hclConstraint `hcl:"constraint,block"`
}

type hclExplorer struct {
	Depth       *int    `hcl:"depth,optional"`
	Subsumption *string `hcl:"subsumption,optional"`
}

type hclAction struct {
	Name string `hcl:"name,label"`
	Rule string `hcl:"rule"`
}

type hclState struct {
	Name  string `hcl:"name,label"`
	Facts string `hcl:"facts"`
}

type hclConstraint struct {
	Forbid []string `hcl:"forbid"`
}

// ParseDomain parses domain source; vars are exposed to expressions as var.<name>.
func ParseDomain(src []byte, filename string, vars map[string]string) (*Domain, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrapf(relplan.ErrBadDomain, "%v", diags)
	}
	return decodeDomain(file, vars)
}

// LoadDomain reads and parses the domain file at the given path.
func LoadDomain(pathname string, vars map[string]string) (*Domain, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(pathname)
	if diags.HasErrors() {
		return nil, errors.Wrapf(relplan.ErrBadDomain, "%v", diags)
	}
	return decodeDomain(file, vars)
}

func evalContext(vars map[string]string) *hcl.EvalContext {
	vals := make(map[string]cty.Value, len(vars))
	for name, val := range vars {
		vals[name] = cty.StringVal(val)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"var": cty.ObjectVal(vals),
		},
	}
}

func decodeDomain(file *hcl.File, vars map[string]string) (*Domain, error) {
	var parsed hclDomainFile
	if diags := gohcl.DecodeBody(file.Body, evalContext(vars), &parsed); diags.HasErrors() {
		return nil, errors.Wrapf(relplan.ErrBadDomain, "%v", diags)
	}

	dom := &Domain{
		Space:  graph.NewSpace(),
		States: make(map[string]*graph.Graph, len(parsed.States)),
		Opts:   explorer.DefaultOpts,
	}

	if cfg := parsed.Explorer; cfg != nil {
		if cfg.Depth != nil {
			dom.Opts.Depth = *cfg.Depth
		}
		if cfg.Subsumption != nil {
			mode, ok := relplan.ParseSubsumeMode(*cfg.Subsumption)
			if !ok {
				return nil, errors.Wrapf(relplan.ErrBadDomain, "unknown subsumption %q", *cfg.Subsumption)
			}
			dom.Opts.Subsumption = mode
		}
	}

	seen := make(map[string]bool, len(parsed.Actions))
	for _, blk := range parsed.Actions {
		if seen[blk.Name] {
			return nil, errors.Wrapf(relplan.ErrBadDomain, "action %q declared twice", blk.Name)
		}
		seen[blk.Name] = true

		act, err := action.Parse(dom.Space, blk.Name, blk.Rule)
		if err != nil {
			return nil, errors.Wrapf(err, "action %q", blk.Name)
		}
		dom.Actions = append(dom.Actions, act)
	}

	for _, blk := range parsed.States {
		if _, dupe := dom.States[blk.Name]; dupe {
			return nil, errors.Wrapf(relplan.ErrBadDomain, "state %q declared twice", blk.Name)
		}
		X, err := graph.ParseGraph(dom.Space, blk.Facts)
		if err != nil {
			return nil, errors.Wrapf(err, "state %q", blk.Name)
		}
		dom.States[blk.Name] = X
	}

	if blk := parsed.Constraint; blk != nil && len(blk.Forbid) > 0 {
		pc := &explorer.PatternConstraint{}
		for _, expr := range blk.Forbid {
			X, err := graph.ParseGraph(dom.Space, expr)
			if err != nil {
				return nil, errors.Wrap(err, "constraint")
			}
			pc.Forbidden = append(pc.Forbidden, X)
		}
		dom.Opts.Constraint = pc
	}

	return dom, nil
}

// Explorer returns an explorer over this domain's actions using its options.
func (dom *Domain) Explorer() (*explorer.Explorer, error) {
	return explorer.New(dom.Actions, dom.Opts)
}

// State returns the named state.
func (dom *Domain) State(name string) (*graph.Graph, error) {
	X := dom.States[name]
	if X == nil {
		return nil, errors.Wrapf(relplan.ErrBadDomain, "no state named %q", name)
	}
	return X, nil
}
