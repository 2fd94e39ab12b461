package main

import (
	"reflect"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sznuper/updavail/internal/config"
)

var optionUsage = map[string]string{
	"base_dir":          "directory relative paths are resolved against",
	"template":          "template file (default: built-in template)",
	"time_format":       "strftime format of {time}",
	"max_width":         "wrap output to this many columns, 0 disables",
	"num_update_checks": "package index refresh attempts",
	"sleep_period":      "seconds to wait between refresh attempts",
	"no_error_output":   "keep the previous output file when the run fails",
	"no_root":           "skip operations that need root (the index refresh)",
	"network_check":     "check for a default route and ping the server first",
	"server":            "host pinged by the network check",
	"ping_count":        "echo requests sent by the network check",
}

var optionShorthand = map[string]string{
	"num_update_checks": "c",
}

// registerOptionFlags adds a persistent --flag for every field in config.Options,
// deriving the flag name from the yaml struct tag (snake_case → kebab-case).
func registerOptionFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	t := reflect.TypeOf(config.Options{})
	for i := range t.NumField() {
		yamlTag := t.Field(i).Tag.Get("yaml")
		flagName := strings.ReplaceAll(yamlTag, "_", "-")
		usage := optionUsage[yamlTag]
		short := optionShorthand[yamlTag]
		switch t.Field(i).Type.Kind() {
		case reflect.Bool:
			flags.BoolP(flagName, short, false, usage)
		case reflect.Int:
			flags.IntP(flagName, short, 0, usage)
		default:
			flags.StringP(flagName, short, "", usage)
		}
	}

	flags.Bool("no-update", false, "do not refresh the package index (same as -c 0)")
	flags.String("log-file", "", "log file name")
	flags.String("log-dir", "", "log directory (default: base dir)")
	flags.String("log-level", "", "debug, info, warning, error or critical")
}

// applyOptionFlags overlays CLI flag values onto the config. Only flags
// explicitly set by the user are applied.
func applyOptionFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	t := reflect.TypeOf(cfg.Options)
	v := reflect.ValueOf(&cfg.Options).Elem()
	for i := range t.NumField() {
		yamlTag := t.Field(i).Tag.Get("yaml")
		flagName := strings.ReplaceAll(yamlTag, "_", "-")
		if !flags.Changed(flagName) {
			continue
		}
		switch t.Field(i).Type.Kind() {
		case reflect.Bool:
			val, _ := flags.GetBool(flagName)
			v.Field(i).SetBool(val)
		case reflect.Int:
			val, _ := flags.GetInt(flagName)
			v.Field(i).SetInt(int64(val))
		default:
			val, _ := flags.GetString(flagName)
			v.Field(i).SetString(val)
		}
	}

	if noUpdate, _ := flags.GetBool("no-update"); noUpdate {
		cfg.Options.NumUpdateChecks = 0
	}
	if flags.Changed("log-file") {
		cfg.Log.File, _ = flags.GetString("log-file")
	}
	if flags.Changed("log-dir") {
		cfg.Log.Dir, _ = flags.GetString("log-dir")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
}
