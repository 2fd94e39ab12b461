package pkgmgr

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sznuper/updavail/internal/command/commandtest"
	"github.com/sznuper/updavail/internal/failure"
)

var (
	updateCmd   = []string{"sudo", "apt-get", "update", "-qq"}
	simulateCmd = []string{"apt-get", "upgrade", "--no-act", "-q"}
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingSleep counts delays without waiting.
type recordingSleep struct {
	delays []time.Duration
}

func (r *recordingSleep) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func newUpdater(fake *commandtest.Fake, attempts int, delay time.Duration, rs *recordingSleep) *Updater {
	return &Updater{
		Runner:   fake,
		Command:  updateCmd,
		Attempts: attempts,
		Delay:    delay,
		Sleep:    rs.sleep,
		Logger:   discard(),
	}
}

func TestUpdate_RetriesUntilSuccess(t *testing.T) {
	fake := commandtest.New().On("sudo",
		commandtest.Response{Code: 100, Stderr: "E: Could not get lock"},
		commandtest.Response{Code: 100, Stderr: "E: Could not get lock"},
		commandtest.Response{},
	)
	rs := &recordingSleep{}

	err := newUpdater(fake, 3, 5*time.Second, rs).Update(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, fake.CallCount("sudo"))
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, rs.delays)
}

func TestUpdate_ZeroAttempts(t *testing.T) {
	fake := commandtest.New()
	rs := &recordingSleep{}

	require.NoError(t, newUpdater(fake, 0, time.Second, rs).Update(context.Background()))
	assert.Empty(t, fake.Calls)
	assert.Empty(t, rs.delays)
}

func TestUpdate_NegativeAttempts(t *testing.T) {
	fake := commandtest.New()
	require.NoError(t, newUpdater(fake, -2, 0, &recordingSleep{}).Update(context.Background()))
	assert.Empty(t, fake.Calls)
}

func TestUpdate_Exhausted(t *testing.T) {
	fake := commandtest.New().On("sudo", commandtest.Response{Code: 100, Stderr: "E: Temporary failure resolving"})
	rs := &recordingSleep{}

	err := newUpdater(fake, 2, time.Second, rs).Update(context.Background())
	require.Error(t, err)
	assert.Equal(t, failure.Update, failure.KindOf(err))
	assert.Contains(t, err.Error(), "Temporary failure resolving")
	assert.Equal(t, 2, fake.CallCount("sudo"))
	assert.Len(t, rs.delays, 1, "no delay after the last attempt")
}

func TestUpdate_FirstAttemptSucceeds(t *testing.T) {
	fake := commandtest.New().On("sudo", commandtest.Response{})
	rs := &recordingSleep{}

	require.NoError(t, newUpdater(fake, 5, time.Second, rs).Update(context.Background()))
	assert.Equal(t, 1, fake.CallCount("sudo"))
	assert.Empty(t, rs.delays)
}

func TestUpdate_NegativeDelayClamped(t *testing.T) {
	fake := commandtest.New().On("sudo", commandtest.Response{Code: 1}, commandtest.Response{})
	rs := &recordingSleep{}

	require.NoError(t, newUpdater(fake, 2, -3*time.Second, rs).Update(context.Background()))
	assert.Equal(t, []time.Duration{0}, rs.delays)
}

func TestUpdate_SleepInterrupted(t *testing.T) {
	fake := commandtest.New().On("sudo", commandtest.Response{Code: 1})
	u := newUpdater(fake, 3, time.Hour, &recordingSleep{})
	u.Sleep = func(context.Context, time.Duration) error { return context.Canceled }

	err := u.Update(context.Background())
	require.Error(t, err)
	assert.Equal(t, failure.Update, failure.KindOf(err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, fake.CallCount("sudo"))
}

func TestSleep(t *testing.T) {
	require.NoError(t, Sleep(context.Background(), 0))
	require.NoError(t, Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}

func TestSimulate_Success(t *testing.T) {
	out := "Reading package lists...\n5 upgraded, 0 newly installed, 1 to remove and 2 not upgraded.\n"
	fake := commandtest.New().On("apt-get", commandtest.Response{Stdout: out})
	s := &Simulator{Runner: fake, Command: simulateCmd, Logger: discard()}

	got, err := s.Simulate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, out, got)
	assert.Equal(t, [][]string{simulateCmd}, fake.Calls)
}

func TestSimulate_Fails(t *testing.T) {
	fake := commandtest.New().On("apt-get", commandtest.Response{Code: 100, Stderr: "E: broken packages"})
	s := &Simulator{Runner: fake, Command: simulateCmd, Logger: discard()}

	_, err := s.Simulate(context.Background())
	require.Error(t, err)
	assert.Equal(t, failure.UpgradeSimulation, failure.KindOf(err))
	assert.Equal(t, "simulate", failure.StageOf(err))
	assert.Contains(t, err.Error(), "E: broken packages")
}

func TestSimulate_LaunchFailure(t *testing.T) {
	fake := commandtest.New().On("apt-get", commandtest.Response{Err: errors.New("exec: permission denied")})
	s := &Simulator{Runner: fake, Command: simulateCmd, Logger: discard()}

	_, err := s.Simulate(context.Background())
	assert.Equal(t, failure.UpgradeSimulation, failure.KindOf(err))
}
