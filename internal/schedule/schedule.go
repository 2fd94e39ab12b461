// Package schedule repeats runs on a cron spec and on changes to watched
// files. Runs are serialized through one loop and never overlap.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
)

// RunFunc performs one run. reason is "startup", "cron" or "watch".
type RunFunc func(ctx context.Context, reason string)

// Scheduler collects triggers from cron and file watches into one channel.
type Scheduler struct {
	Cron     string
	Watch    []string
	Debounce time.Duration
	Run      RunFunc
	Logger   *slog.Logger

	triggers chan string
}

// New creates a Scheduler. An empty cronSpec disables timed runs and an
// empty watch list disables file triggers.
func New(cronSpec string, watch []string, debounce time.Duration, run RunFunc, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cronSpec,
		Watch:    watch,
		Debounce: debounce,
		Run:      run,
		Logger:   logger,
		triggers: make(chan string, 1),
	}
}

// Fire requests a run. While a request is pending further requests are
// dropped.
func (s *Scheduler) Fire(reason string) {
	select {
	case s.triggers <- reason:
	default:
		s.Logger.Debug("run already pending, trigger coalesced", "reason", reason)
	}
}

// Start runs once immediately, then serves triggers until ctx is done. A
// run in progress when ctx is cancelled is allowed to finish.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.Cron != "" {
		c := cron.New(cron.WithLogger(cronLogger{s.Logger}))
		if _, err := c.AddFunc(s.Cron, func() { s.Fire("cron") }); err != nil {
			return fmt.Errorf("parsing cron %q: %w", s.Cron, err)
		}
		c.Start()
		defer c.Stop()
		s.Logger.Info("cron schedule registered", "cron", s.Cron)
	}

	if len(s.Watch) > 0 {
		w, err := s.watch(ctx)
		if err != nil {
			return err
		}
		defer w.Close()
	}

	s.Fire("startup")
	runCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("scheduler stopping")
			return nil
		case reason := <-s.triggers:
			s.Logger.Info("run triggered", "reason", reason)
			s.Run(runCtx, reason)
		}
	}
}

// watch observes the parent directory of every path, so files replaced by
// rename are still seen.
func (s *Scheduler) watch(ctx context.Context) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	targets := make(map[string]bool, len(s.Watch))
	dirs := make(map[string]bool)
	for _, p := range s.Watch {
		p = filepath.Clean(p)
		targets[p] = true
		dir := filepath.Dir(p)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
		dirs[dir] = true
		s.Logger.Info("watching for changes", "path", p)
	}

	go func() {
		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !targets[filepath.Clean(ev.Name)] || ev.Op == fsnotify.Chmod {
					continue
				}
				s.Logger.Debug("watched file changed", "path", ev.Name, "op", ev.Op.String())
				if timer == nil {
					timer = time.AfterFunc(s.Debounce, func() { s.Fire("watch") })
				} else {
					timer.Reset(s.Debounce)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.Logger.Warn("watcher error", "error", err)
			}
		}
	}()

	return w, nil
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
