package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sznuper/updavail/internal/failure"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var exitFunc = os.Exit

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "updavail",
	Short: "Report available OS package updates",
	Long: "updavail refreshes the package index, simulates an upgrade and writes the number of " +
		"packages to upgrade, install and remove to a file or stdout, formatted by a template. " +
		"Meant for conky, status bars and cron jobs.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries a process exit code out of a command. A nil err means
// the failure was already reported.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// usageError marks err as a flag, config or setup problem.
func usageError(err error) error {
	return &exitError{code: failure.ExitUsage, err: err}
}

// exitCode maps a command error to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return failure.ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return failure.ExitUsage
}

// Execute runs the root command and exits with:
//   - 0: report written
//   - 2: invalid flags, config or log setup
//   - 10-16: the run failed; the code names the failing stage
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if !errors.As(err, &ee) || ee.err != nil {
			fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		}
		exitFunc(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	registerOptionFlags(rootCmd)
	rootCmd.SetVersionTemplate("updavail {{.Version}}\n")
}
