package pkgmgr

import (
	"context"
	"log/slog"

	"github.com/sznuper/updavail/internal/command"
	"github.com/sznuper/updavail/internal/failure"
)

// Simulator runs a dry-run upgrade. Command must not need privileges and
// must not change system state.
type Simulator struct {
	Runner  command.Runner
	Command []string
	Logger  *slog.Logger
}

// Simulate returns the captured stdout of the dry run.
func (s *Simulator) Simulate(ctx context.Context) (string, error) {
	res, err := s.Runner.Run(ctx, s.Command)
	if err != nil {
		return "", failure.New(failure.UpgradeSimulation, "simulate", err)
	}
	s.Logger.Debug("upgrade simulated", "duration", res.Duration, "bytes", len(res.Stdout))
	return res.Stdout, nil
}
