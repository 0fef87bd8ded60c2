package relplan

import "strings"

const (

	// NegPrefix prefixes the label of a negative edge to form its signed label.
	NegPrefix = "¬"

	// DefaultDepth is the search depth used when none is given.
	DefaultDepth = 3
)

// SubsumeMode selects how the explorer decides that one action already covers another.
type SubsumeMode int32

const (

	// SubsumeNetDelta compares per-label net signed edge counts.
	// Two actions with the same counts but different relational structure are treated as the same.
	SubsumeNetDelta SubsumeMode = iota

	// SubsumeIsomorphic compares action graphs up to isomorphism.
	SubsumeIsomorphic
)

var subsumeModeNames = []string{
	SubsumeNetDelta:   "net-delta",
	SubsumeIsomorphic: "isomorphic",
}

func (mode SubsumeMode) String() string {
	if int(mode) < len(subsumeModeNames) && mode >= 0 {
		return subsumeModeNames[mode]
	}
	return "unknown"
}

// ParseSubsumeMode returns the mode named by s ("" selects SubsumeNetDelta).
func ParseSubsumeMode(s string) (SubsumeMode, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return SubsumeNetDelta, true
	}
	for i, name := range subsumeModeNames {
		if name == s {
			return SubsumeMode(i), true
		}
	}
	return SubsumeNetDelta, false
}

// PrintOpts specifies what is printed when printing a graph or an action
type PrintOpts struct {
	Label    string // Prefix label
	Prime    bool   // If set, the graph fingerprint is printed
	Tracker  bool   // If set, the steps of a compound action are printed
	Mappings bool   // If set, vertex mappings are printed alongside steps
}

// DefaultPrintOpts{}
var DefaultPrintOpts = PrintOpts{
	Tracker: true,
}
