// Package runner sequences one update check: probe, update, simulate,
// parse, render, then a single sink write.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sznuper/updavail/internal/config"
	"github.com/sznuper/updavail/internal/failure"
	"github.com/sznuper/updavail/internal/notify"
	"github.com/sznuper/updavail/internal/render"
	"github.com/sznuper/updavail/internal/report"
)

type Prober interface {
	Probe(ctx context.Context) error
}

type Updater interface {
	Update(ctx context.Context) error
}

type Simulator interface {
	Simulate(ctx context.Context) (string, error)
}

// Sink receives the run's only output write.
type Sink interface {
	Write(text string, isError bool) error
}

type Notifier interface {
	Notify(data notify.Data) error
}

// Deps are the stage implementations. Notifier may be nil.
type Deps struct {
	Prober       Prober
	Updater      Updater
	Simulator    Simulator
	Sink         Sink
	Notifier     Notifier
	LoadTemplate func(path string) (string, error)
	Now          func() time.Time
}

// Runner runs the pipeline once. Build a new Runner for every run.
type Runner struct {
	opts   config.RunOptions
	deps   Deps
	logger *slog.Logger
	state  State
}

// New creates a Runner with the given options, stages and logger.
func New(opts config.RunOptions, deps Deps, logger *slog.Logger) *Runner {
	if deps.LoadTemplate == nil {
		deps.LoadTemplate = render.LoadTemplate
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Runner{opts: opts, deps: deps, logger: logger}
}

// Run executes the pipeline and writes exactly one report or error message
// to the sink. It never panics; the exit code is always set.
func (r *Runner) Run(ctx context.Context) Result {
	start := time.Now()
	rep, text, err := r.execute(ctx)

	result := Result{Report: rep}
	if err == nil {
		result.State = Done
		if werr := r.write(text, false); werr != nil {
			r.logger.Error("writing report failed", "stage", "write", "error", werr)
			err = werr
			var fe *failure.Error
			if !errors.As(err, &fe) {
				err = failure.New(failure.Output, "write", werr)
			}
			r.transition(Failed)
		} else {
			result.Text = text
		}
	}

	if err != nil {
		result.Err = err
		result.Kind = failure.KindOf(err)
		result.Stage = failure.StageOf(err)
		result.Text = failure.Message(result.Kind)
		result.State = Reported
		if result.Kind != failure.Output {
			r.logger.Error("run failed", "stage", result.Stage, "kind", result.Kind, "error", err)
		}
		if werr := r.write(result.Text, true); werr != nil {
			r.logger.Error("writing error message failed", "error", werr)
		}
		r.transition(Reported)
	}

	result.ExitCode = exitCode(result)
	result.Duration = time.Since(start)
	r.notify(result)

	r.logger.Info("run finished", "state", result.State, "exit_code", result.ExitCode, "duration", result.Duration)
	return result
}

// write hands text to the sink. A panicking sink is an unclassified
// failure of the write stage.
func (r *Runner) write(text string, isError bool) (err error) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("sink panicked", "panic", p)
			err = failure.Newf(failure.Unclassified, "write", "panic: %v", p)
		}
	}()
	return r.deps.Sink.Write(text, isError)
}

func (r *Runner) execute(ctx context.Context) (rep report.UpgradeReport, text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("stage panicked", "state", r.state, "panic", p)
			err = failure.Newf(failure.Unclassified, stageName(r.state), "panic: %v", p)
			r.transition(Failed)
		}
	}()

	if r.opts.NetworkCheck {
		r.transition(Probing)
		if err := r.deps.Prober.Probe(ctx); err != nil {
			return rep, "", r.fail(err)
		}
	} else {
		r.logger.Debug("network check disabled")
	}

	if r.opts.SkipPrivileged {
		r.logger.Info("privileged operations disabled, skipping update")
	} else {
		r.transition(Updating)
		if err := r.deps.Updater.Update(ctx); err != nil {
			return rep, "", r.fail(err)
		}
	}

	r.transition(Simulating)
	out, err := r.deps.Simulator.Simulate(ctx)
	if err != nil {
		return rep, "", r.fail(err)
	}

	r.transition(Parsing)
	rep, err = report.Parse(out)
	if err != nil {
		r.logger.Debug("simulation output", "stdout", out)
		return rep, "", r.fail(err)
	}
	r.logger.Info("report parsed",
		"upgrade", rep.Upgrade, "install", rep.Install,
		"remove", rep.Remove, "not_upgraded", rep.NotUpgraded)

	r.transition(Rendering)
	tmpl, err := r.deps.LoadTemplate(r.opts.TemplatePath)
	if err != nil {
		return rep, "", r.fail(err)
	}
	rc := render.NewContext(rep, r.deps.Now(), r.opts.TimeFormat)
	text, err = render.Render(tmpl, rc, r.opts.MaxWidth)
	if err != nil {
		return rep, "", r.fail(err)
	}

	r.transition(Done)
	return rep, text, nil
}

// fail classifies err by the current state unless a stage already did,
// then moves to Failed.
func (r *Runner) fail(err error) error {
	var fe *failure.Error
	if !errors.As(err, &fe) {
		err = failure.New(failure.Unclassified, stageName(r.state), err)
	}
	r.transition(Failed)
	return err
}

func (r *Runner) transition(s State) {
	if s == r.state {
		return
	}
	r.logger.Debug("state change", "from", r.state, "to", s)
	r.state = s
}

func stageName(s State) string {
	switch s {
	case Probing:
		return "probe"
	case Updating:
		return "update"
	case Simulating:
		return "simulate"
	case Parsing:
		return "parse"
	case Rendering:
		return "render"
	default:
		return "run"
	}
}

func (r *Runner) notify(res Result) {
	if r.deps.Notifier == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			r.logger.Warn("notifier panicked", "panic", p)
		}
	}()
	data := notify.Data{
		Time:    r.deps.Now(),
		Failed:  res.Failed(),
		Message: res.Text,
	}
	if !res.Failed() {
		data.Upgrade = res.Report.Upgrade
		data.Install = res.Report.Install
		data.Remove = res.Report.Remove
		data.NotUpgraded = res.Report.NotUpgraded
		data.Upgradable = res.Report.Upgradable()
	}
	if err := r.deps.Notifier.Notify(data); err != nil {
		r.logger.Warn("notification failed", "error", err)
	}
}

func exitCode(res Result) int {
	if res.Err == nil {
		return failure.ExitSuccess
	}
	return failure.ExitCode(res.Kind)
}
