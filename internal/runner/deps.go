package runner

import (
	"io"
	"log/slog"
	"time"

	"github.com/sznuper/updavail/internal/command"
	"github.com/sznuper/updavail/internal/config"
	"github.com/sznuper/updavail/internal/netprobe"
	"github.com/sznuper/updavail/internal/pkgmgr"
	"github.com/sznuper/updavail/internal/render"
	"github.com/sznuper/updavail/internal/sink"
)

// NewDeps wires the real stages for opts on top of exec. console receives
// the report when the output target is "-".
func NewDeps(opts config.RunOptions, exec command.Runner, console io.Writer, logger *slog.Logger) Deps {
	return Deps{
		Prober: &netprobe.Prober{
			Runner:     exec,
			RouteTable: opts.Commands.RouteTable,
			Ping:       opts.Commands.Ping,
			Host:       opts.Server,
			Count:      opts.PingCount,
			Logger:     logger.With("stage", "probe"),
		},
		Updater: &pkgmgr.Updater{
			Runner:   exec,
			Command:  opts.Commands.Update,
			Attempts: opts.UpdateAttempts,
			Delay:    opts.RetryDelay,
			Logger:   logger.With("stage", "update"),
		},
		Simulator: &pkgmgr.Simulator{
			Runner:  exec,
			Command: opts.Commands.Simulate,
			Logger:  logger.With("stage", "simulate"),
		},
		Sink: &sink.Writer{
			Target:         opts.Output,
			SuppressErrors: opts.SuppressErrorOutput,
			Console:        console,
			Logger:         logger.With("stage", "write"),
		},
		LoadTemplate: render.LoadTemplate,
		Now:          time.Now,
	}
}
