package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// StdoutTarget is the output argument that selects standard output.
const StdoutTarget = "-"

// RunOptions is the resolved, read-only configuration of one pipeline run.
type RunOptions struct {
	Output              string
	TemplatePath        string
	TimeFormat          string
	MaxWidth            int
	UpdateAttempts      int
	RetryDelay          time.Duration
	SuppressErrorOutput bool
	SkipPrivileged      bool
	NetworkCheck        bool
	Server              string
	PingCount           int
	Commands            Commands
}

// RunOptions resolves output and the template path against the base
// directory. output "-" selects standard output.
func (c *Config) RunOptions(output string) (RunOptions, error) {
	o := c.Options

	target := StdoutTarget
	if strings.TrimSpace(output) != StdoutTarget {
		var err error
		if target, err = c.resolvePath(output); err != nil {
			return RunOptions{}, fmt.Errorf("output: %w", err)
		}
	}

	var tmpl string
	if o.Template != "" {
		var err error
		if tmpl, err = c.resolvePath(o.Template); err != nil {
			return RunOptions{}, fmt.Errorf("template: %w", err)
		}
	}

	return RunOptions{
		Output:              target,
		TemplatePath:        tmpl,
		TimeFormat:          o.TimeFormat,
		MaxWidth:            o.MaxWidth,
		UpdateAttempts:      o.NumUpdateChecks,
		RetryDelay:          time.Duration(max(o.SleepPeriod, 0)) * time.Second,
		SuppressErrorOutput: o.NoErrorOutput,
		SkipPrivileged:      o.NoRoot,
		NetworkCheck:        o.NetworkCheck,
		Server:              o.Server,
		PingCount:           o.PingCount,
		Commands:            c.Commands,
	}, nil
}

// LogPath is the log file location: the log directory if set, else the
// base directory.
func (c *Config) LogPath() (string, error) {
	dir := c.Log.Dir
	if dir == "" {
		dir = c.Options.BaseDir
	}
	return filepath.Abs(filepath.Join(dir, c.Log.File))
}

func (c *Config) resolvePath(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("empty path")
	}
	if filepath.IsAbs(name) {
		return filepath.Clean(name), nil
	}
	return filepath.Abs(filepath.Join(c.Options.BaseDir, name))
}
