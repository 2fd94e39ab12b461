package schedule

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recorder struct {
	mu       sync.Mutex
	reasons  []string
	active   atomic.Int32
	overlaps atomic.Int32
	hold     time.Duration
}

func (r *recorder) run(_ context.Context, reason string) {
	if r.active.Add(1) > 1 {
		r.overlaps.Add(1)
	}
	time.Sleep(r.hold)
	r.mu.Lock()
	r.reasons = append(r.reasons, reason)
	r.mu.Unlock()
	r.active.Add(-1)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.reasons...)
}

func startScheduler(t *testing.T, s *Scheduler) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("scheduler did not stop")
		}
	})
	return cancel
}

func TestStart_RunsAtStartup(t *testing.T) {
	rec := &recorder{}
	s := New("", nil, 0, rec.run, discardLogger())
	startScheduler(t, s)

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"startup"}, rec.snapshot())
}

func TestStart_NeverOverlaps(t *testing.T) {
	rec := &recorder{hold: 20 * time.Millisecond}
	s := New("", nil, 0, rec.run, discardLogger())
	startScheduler(t, s)

	for range 50 {
		s.Fire("test")
		time.Sleep(time.Millisecond)
	}

	require.Eventually(t, func() bool { return len(rec.snapshot()) >= 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, rec.overlaps.Load())
	assert.Less(t, len(rec.snapshot()), 50, "pending triggers are coalesced")
}

func TestStart_WatchTriggersDebouncedRun(t *testing.T) {
	dir := t.TempDir()
	status := filepath.Join(dir, "status")
	require.NoError(t, os.WriteFile(status, []byte("a"), 0o644))

	rec := &recorder{}
	s := New("", []string{status}, 50*time.Millisecond, rec.run, discardLogger())
	startScheduler(t, s)
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)

	for i := range 5 {
		require.NoError(t, os.WriteFile(status, []byte{byte('b' + i)}, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated"), []byte("x"), 0o644))

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, []string{"startup", "watch"}, rec.snapshot())
}

func TestStart_BadCron(t *testing.T) {
	s := New("not a cron", nil, 0, func(context.Context, string) {}, discardLogger())
	err := s.Start(context.Background())
	assert.ErrorContains(t, err, "parsing cron")
}

func TestStart_MissingWatchDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope", "status")
	s := New("", []string{missing}, 0, func(context.Context, string) {}, discardLogger())
	err := s.Start(context.Background())
	assert.ErrorContains(t, err, "watching")
}

func TestStart_StopsOnCancel(t *testing.T) {
	rec := &recorder{}
	s := New("@every 1h", nil, 0, rec.run, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
