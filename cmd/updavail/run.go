package main

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <output|->",
	Short: "Check for updates once and write the report",
	Long: "Refreshes the package index, simulates an upgrade and writes the rendered report to " +
		"the output file, or to stdout when output is \"-\". On failure a short message is written " +
		"instead and the exit code names the failing stage.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, opts, logger, closer, err := prepare(cmd, args[0])
		if err != nil {
			return err
		}
		defer closer.Close()

		result := runOnce(cmd.Context(), cfg, opts, cmd.OutOrStdout(), logger)
		if result.ExitCode != 0 {
			return &exitError{code: result.ExitCode}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
