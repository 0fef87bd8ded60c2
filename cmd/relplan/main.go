package main

import (
	"flag"
	"os"

	"github.com/plan-systems/klog"
)

type cliOpts struct {
	domainPath string
	startName  string
	depth      int
	vars       varFlags
}

// registerFlags adds the relplan and klog flags to fset, logging to stderr at V(1) unless overridden.
func registerFlags(fset *flag.FlagSet) *cliOpts {
	opts := &cliOpts{
		vars: varFlags{},
	}
	fset.StringVar(&opts.domainPath, "domain", "", "HCL domain file to compile and solve")
	fset.StringVar(&opts.startName, "start", "start", "name of the domain state to solve from")
	fset.IntVar(&opts.depth, "depth", 0, "overrides the domain's search depth if > 0")
	fset.Var(opts.vars, "var", "domain variable as name=value (repeatable)")

	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "1")
	return opts
}

func main() {
	opts := registerFlags(flag.CommandLine)
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	flag.Parse()

	status := 0
	if len(opts.domainPath) > 0 {
		err := runDomain(opts.domainPath, opts.startName, opts.depth, opts.vars)
		if err != nil {
			klog.Errorf("%v", err)
			status = 1
		}
	} else {
		pathname := flag.Arg(0)
		go_gpython(pathname)
	}

	klog.Flush()
	os.Exit(status)
}
