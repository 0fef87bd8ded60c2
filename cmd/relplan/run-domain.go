package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fine-structures/relplan/librel/domain"
	"github.com/fine-structures/relplan/relplan"
	"github.com/pkg/errors"
)

// varFlags collects repeated -var name=value flags.
type varFlags map[string]string

func (vars varFlags) String() string {
	pairs := make([]string, 0, len(vars))
	for name, val := range vars {
		pairs = append(pairs, name+"="+val)
	}
	return strings.Join(pairs, ",")
}

func (vars varFlags) Set(s string) error {
	name, val, ok := strings.Cut(s, "=")
	if !ok || len(name) == 0 {
		return errors.Errorf("expected name=value, got %q", s)
	}
	vars[name] = val
	return nil
}

func runDomain(pathname, startName string, depth int, vars map[string]string) error {
	dom, err := domain.LoadDomain(pathname, vars)
	if err != nil {
		return err
	}
	if depth > 0 {
		dom.Opts.Depth = depth
	}

	ex, err := dom.Explorer()
	if err != nil {
		return err
	}
	retained, err := ex.Compile()
	if err != nil {
		return err
	}

	fmt.Printf("<<<>>>   %d actions retained from '%s'   <<<>>>\n", len(retained), pathname)
	for i, act := range retained {
		act.WriteAsString(os.Stdout, relplan.PrintOpts{
			Label:   fmt.Sprintf("%4d  ", i+1),
			Tracker: true,
		})
		fmt.Println()
	}

	start := dom.States[startName]
	if start == nil {
		return nil
	}

	sol, found := ex.Solve(start)
	if !found {
		fmt.Printf("<<<>>>   no solution from '%s'   <<<>>>\n", startName)
		return nil
	}

	final, err := sol.Action.Replay(start, sol.Result.Match, ex.Library())
	if err != nil {
		return err
	}
	fmt.Printf("<<<>>>   solution from '%s'   <<<>>>\n", startName)
	sol.Action.WriteAsString(os.Stdout, relplan.PrintOpts{Tracker: true, Mappings: true})
	fmt.Println()
	final.Println("final state: ")
	return nil
}
