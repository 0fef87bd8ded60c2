package relplan

import "errors"

// Errors
var (
	ErrUnmarshal      = errors.New("unmarshal failed")
	ErrBadEncoding    = errors.New("bad graph encoding")
	ErrVertexNotFound = errors.New("vertex not found")
	ErrBadGraphExpr   = errors.New("bad graph expression")
	ErrBadRuleExpr    = errors.New("bad rule expression")
	ErrNilGraph       = errors.New("nil graph")
	ErrBadDepth       = errors.New("search depth must be at least 1")
	ErrUnknownAction  = errors.New("unknown action")
	ErrReplayFailed   = errors.New("plan step could not be replayed")
	ErrBadDomain      = errors.New("bad domain file")
	ErrBadCatalogOpts = errors.New("bad catalog options")
)
