package main

import (
	"flag"
	"testing"

	"github.com/fine-structures/relplan/relplan"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarFlags(t *testing.T) {
	vars := varFlags{}
	require.NoError(t, vars.Set("start=Ball(x), Hand(y)"))
	assert.Equal(t, "Ball(x), Hand(y)", vars["start"])
	assert.Equal(t, "start=Ball(x), Hand(y)", vars.String())

	assert.Error(t, vars.Set("start"))
	assert.Error(t, vars.Set("=Ball(x)"))
}

func TestRegisterFlags(t *testing.T) {
	fset := flag.NewFlagSet("relplan", flag.ContinueOnError)
	opts := registerFlags(fset)
	assert.Equal(t, "1", fset.Lookup("v").Value.String())
	assert.Equal(t, "true", fset.Lookup("logtostderr").Value.String())

	require.NoError(t, fset.Parse([]string{
		"-v", "2",
		"-domain", "testdata/juggle.hcl",
		"-depth", "3",
		"-var", "start=Hand(y)",
		"extra.py",
	}))
	assert.Equal(t, "2", fset.Lookup("v").Value.String(), "klog verbosity is settable from the command line")
	assert.Equal(t, "testdata/juggle.hcl", opts.domainPath)
	assert.Equal(t, "start", opts.startName)
	assert.Equal(t, 3, opts.depth)
	assert.Equal(t, "Hand(y)", opts.vars["start"])
	assert.Equal(t, []string{"extra.py"}, fset.Args())

	fset.Set("v", "0")
}

func TestRunDomain(t *testing.T) {
	vars := varFlags{"start": "Hand(y)"}
	require.NoError(t, runDomain("testdata/juggle.hcl", "start", 0, vars))
	require.NoError(t, runDomain("testdata/juggle.hcl", "missing", 1, vars))

	err := runDomain("testdata/juggle.hcl", "start", 0, nil)
	assert.True(t, errors.Is(err, relplan.ErrBadDomain), "var.start is required")

	err = runDomain("testdata/nope.hcl", "start", 0, vars)
	assert.True(t, errors.Is(err, relplan.ErrBadDomain))
}
