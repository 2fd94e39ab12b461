package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sznuper/updavail/internal/config"
	"github.com/sznuper/updavail/internal/failure"
	"github.com/sznuper/updavail/internal/logging"
	"github.com/sznuper/updavail/internal/notify"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration without running anything",
	Long: "Loads the config file and flags, reports every invalid field, and checks that " +
		"the template exists and every notification URL can build a sender.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		p := newPrinter(out)

		cfg, path, err := config.Resolve(cfgFile)
		if err != nil {
			p.fail("config", err)
			return &exitError{code: failure.ExitUsage}
		}
		applyOptionFlags(cmd, cfg)
		if path == "" {
			path = "built-in defaults"
		}
		p.ok("config", path)

		errs := checkConfig(cfg)
		if len(errs) > 0 {
			for _, e := range errs {
				p.fail("invalid", e)
			}
			return &exitError{code: failure.ExitUsage}
		}

		p.ok("valid", fmt.Sprintf("%d service(s), %d notify target(s)", len(cfg.Services), len(cfg.Notify)))
		return nil
	},
}

// checkConfig returns every problem found, one error per line of output.
func checkConfig(cfg *config.Config) []error {
	var errs []error
	if err := cfg.Validate(); err != nil {
		errs = append(errs, unjoin(err)...)
	}
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if opts, err := cfg.RunOptions(config.StdoutTarget); err != nil {
		errs = append(errs, err)
	} else if opts.TemplatePath != "" {
		if _, err := os.Stat(opts.TemplatePath); err != nil {
			errs = append(errs, fmt.Errorf("options.template: %w", err))
		}
	}

	names := make([]string, 0, len(cfg.Services))
	for name := range cfg.Services {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if err := notify.Validate(name, cfg.Services[name]); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

// printer styles validate output when writing to a terminal.
type printer struct {
	w       io.Writer
	okMark  string
	errMark string
	label   lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	p := &printer{w: w, okMark: "ok", errMark: "error", label: lipgloss.NewStyle()}
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		p.okMark = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render("✓")
		p.errMark = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true).Render("✗")
		p.label = lipgloss.NewStyle().Bold(true)
	}
	return p
}

func (p *printer) ok(label, detail string) {
	fmt.Fprintf(p.w, "%s %s %s\n", p.okMark, p.label.Render(label+":"), detail)
}

func (p *printer) fail(label string, err error) {
	fmt.Fprintf(p.w, "%s %s %s\n", p.errMark, p.label.Render(label+":"), err)
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
