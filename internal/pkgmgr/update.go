// Package pkgmgr drives the package manager: the privileged index refresh
// and the unprivileged upgrade simulation.
package pkgmgr

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sznuper/updavail/internal/command"
	"github.com/sznuper/updavail/internal/failure"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Updater refreshes the package index, retrying failed attempts.
type Updater struct {
	Runner  command.Runner
	Command []string
	// Attempts below 1 disables the refresh.
	Attempts int
	Delay    time.Duration
	Sleep    SleepFunc
	Logger   *slog.Logger
}

// Update runs Command until it succeeds or Attempts consecutive runs have
// failed, sleeping Delay between attempts. The final failure is returned as
// failure.Update wrapping the last cause.
func (u *Updater) Update(ctx context.Context) error {
	if u.Attempts < 1 {
		u.Logger.Info("update attempts below 1, not updating", "attempts", u.Attempts)
		return nil
	}

	delay := max(u.Delay, 0)
	sleep := u.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	failed := 0
	for {
		_, runErr := u.Runner.Run(ctx, u.Command)
		if runErr == nil {
			break
		}
		failed++
		u.Logger.Error("update failed", "attempt", failed, "of", u.Attempts, "error", runErr)

		if failed >= u.Attempts {
			return failure.New(failure.Update, "update", runErr)
		}

		u.Logger.Info("sleeping before next update attempt", "delay", delay)
		if err := sleep(ctx, delay); err != nil {
			return failure.New(failure.Update, "update", errors.Join(runErr, err))
		}
	}

	u.Logger.Info("update succeeded", "attempts", failed+1)
	return nil
}

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
