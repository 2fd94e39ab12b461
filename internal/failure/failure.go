// Package failure defines the closed set of run failure kinds and the exit
// codes and short messages they map to.
package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a failed run. The set is closed; every Kind has an exit
// code and a message.
type Kind int

const (
	Unclassified Kind = iota
	Output
	NoNetwork
	Update
	UpgradeSimulation
	Parse
	Render
)

// Kinds lists every Kind in exit code order.
var Kinds = []Kind{Unclassified, Output, NoNetwork, Update, UpgradeSimulation, Parse, Render}

// ExitSuccess is the exit code of a run that wrote its report.
const ExitSuccess = 0

// ExitUsage is returned for invalid flags, config or log setup, before any
// pipeline stage has run.
const ExitUsage = 2

const failedMsg = " update check failed"

func (k Kind) String() string {
	switch k {
	case Output:
		return "output"
	case NoNetwork:
		return "no_network"
	case Update:
		return "update"
	case UpgradeSimulation:
		return "upgrade_simulation"
	case Parse:
		return "parse"
	case Render:
		return "render"
	default:
		return "unclassified"
	}
}

// ExitCode returns the process exit code for k.
func ExitCode(k Kind) int {
	switch k {
	case Output:
		return 11
	case NoNetwork:
		return 12
	case Update:
		return 13
	case UpgradeSimulation:
		return 14
	case Parse:
		return 15
	case Render:
		return 16
	default:
		return 10
	}
}

// Message returns the short text written to the sink for k. Messages start
// with a space to line up with the default template.
func Message(k Kind) string {
	switch k {
	case Output:
		return " failed to write output"
	case NoNetwork:
		return " no network available"
	case Render:
		return " generation of output failed"
	default:
		return failedMsg
	}
}

// Error is a classified stage failure.
type Error struct {
	Kind  Kind
	Stage string
	Err   error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s failed", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err as a failure of the given kind raised by stage.
func New(kind Kind, stage string, err error) *Error {
	return &Error{Kind: kind, Stage: stage, Err: err}
}

// Newf is New with a formatted cause.
func Newf(kind Kind, stage, format string, args ...any) *Error {
	return &Error{Kind: kind, Stage: stage, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the Kind from err. Errors that were never classified are
// Unclassified.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unclassified
}

// StageOf returns the stage recorded on a classified error, or "" if err
// was never classified.
func StageOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Stage
	}
	return ""
}
