package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sznuper/updavail/internal/command"
	"github.com/sznuper/updavail/internal/config"
	"github.com/sznuper/updavail/internal/logging"
	"github.com/sznuper/updavail/internal/notify"
	"github.com/sznuper/updavail/internal/runner"
)

// loadConfig resolves the config file, overlays explicit flags and
// validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg, path, err := config.Resolve(cfgFile)
	if err != nil {
		return nil, "", err
	}
	applyOptionFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// setupLogger truncates the log file and returns a logger writing to it.
func setupLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	path, err := cfg.LogPath()
	if err != nil {
		return nil, nil, err
	}
	return logging.Setup(path, cfg.Log.Level)
}

// prepare loads config, opens the log and resolves the run options for
// output. Every error is a usage error.
func prepare(cmd *cobra.Command, output string) (*config.Config, config.RunOptions, *slog.Logger, io.Closer, error) {
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return nil, config.RunOptions{}, nil, nil, usageError(err)
	}
	logger, closer, err := setupLogger(cfg)
	if err != nil {
		return nil, config.RunOptions{}, nil, nil, usageError(err)
	}
	if path != "" {
		logger.Info("config loaded", "path", path)
	} else {
		logger.Info("no config file found, using defaults")
	}

	opts, err := cfg.RunOptions(output)
	if err != nil {
		closer.Close()
		return nil, config.RunOptions{}, nil, nil, usageError(err)
	}
	logger.Debug("run options", "output", opts.Output, "template", opts.TemplatePath,
		"attempts", opts.UpdateAttempts, "retry_delay", opts.RetryDelay,
		"no_root", opts.SkipPrivileged, "network_check", opts.NetworkCheck)
	return cfg, opts, logger, closer, nil
}

// runOnce builds a fresh runner and executes one check.
func runOnce(ctx context.Context, cfg *config.Config, opts config.RunOptions, console io.Writer, logger *slog.Logger) runner.Result {
	deps := runner.NewDeps(opts, command.NewExec(), console, logger)
	deps.Notifier = newNotifier(cfg, logger)
	return runner.New(opts, deps, logger).Run(ctx)
}

func newNotifier(cfg *config.Config, logger *slog.Logger) runner.Notifier {
	if len(cfg.Notify) == 0 {
		return nil
	}
	return &notify.Notifier{
		Services: cfg.Services,
		Targets:  cfg.Notify,
		Logger:   logger.With("stage", "notify"),
	}
}
