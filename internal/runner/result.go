package runner

import (
	"time"

	"github.com/sznuper/updavail/internal/failure"
	"github.com/sznuper/updavail/internal/report"
)

// State is a step of the run state machine.
type State int

const (
	Idle State = iota
	Probing
	Updating
	Simulating
	Parsing
	Rendering
	Done
	Failed
	Reported
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Probing:
		return "probing"
	case Updating:
		return "updating"
	case Simulating:
		return "simulating"
	case Parsing:
		return "parsing"
	case Rendering:
		return "rendering"
	case Done:
		return "done"
	case Failed:
		return "failed"
	case Reported:
		return "reported"
	default:
		return "unknown"
	}
}

// Result captures the outcome of one run. Errors are stored in Err/Stage
// rather than returned, so the caller always has an exit code.
type Result struct {
	State    State
	Text     string // what was handed to the sink
	Report   report.UpgradeReport
	Kind     failure.Kind // meaningful only when Err != nil
	Stage    string       // "probe", "update", "simulate", "parse", "render", "write"
	ExitCode int
	Err      error
	Duration time.Duration
}

// Failed reports whether the run ended in a classified failure.
func (r Result) Failed() bool {
	return r.Err != nil
}
