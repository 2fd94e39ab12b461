package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sznuper/updavail/internal/schedule"
)

var startCmd = &cobra.Command{
	Use:   "start <output|->",
	Short: "Run checks on a schedule and when the package database changes",
	Long: "Runs a check immediately, then on the configured cron schedule and whenever a " +
		"watched file (by default the dpkg status file) changes. Stops on SIGINT or SIGTERM " +
		"once the current check has finished.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, opts, logger, closer, err := prepare(cmd, args[0])
		if err != nil {
			return err
		}
		defer closer.Close()

		var debounce time.Duration
		if cfg.Schedule.Debounce != "" {
			debounce, _ = time.ParseDuration(cfg.Schedule.Debounce) // checked by Validate
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		s := schedule.New(cfg.Schedule.Cron, cfg.Schedule.Watch, debounce,
			func(ctx context.Context, reason string) {
				log := logger.With("trigger", reason)
				result := runOnce(ctx, cfg, opts, out, log)
				log.Info("check finished", "exit_code", result.ExitCode)
			}, logger)

		logger.Info("scheduler started", "cron", cfg.Schedule.Cron, "watch", cfg.Schedule.Watch, "debounce", debounce)
		if err := s.Start(ctx); err != nil {
			return usageError(err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
