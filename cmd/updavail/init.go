package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sznuper/updavail/internal/render"
)

const exampleConfig = `# updavail configuration. Every key is optional; missing keys keep their
# defaults. Values may reference environment variables as ${VAR}.

options:
  base_dir: .
  # template: updavail.tmpl
  time_format: "%c"
  max_width: 0
  num_update_checks: 1
  sleep_period: 0
  no_error_output: false
  no_root: false
  network_check: false
  server: us.archive.ubuntu.com
  ping_count: 3

commands:
  update: [sudo, apt-get, update, -qq]
  simulate: [apt-get, upgrade, --no-act, -q]
  ping: [ping, -q]
  route_table: /proc/net/route

log:
  # dir: /var/log/updavail
  file: updavail.log
  level: info

schedule:
  cron: "@hourly"
  watch: [/var/lib/dpkg/status]
  debounce: 10s

# services:
#   desktop:
#     url: generic://localhost:8080/notify
#   telegram:
#     url: telegram://${TELEGRAM_TOKEN}@telegram
#     params:
#       chats: "${TELEGRAM_CHAT}"
#
# notify:
#   - desktop
#   - service: telegram
#     when: always
#     params:
#       title: "{{ if .Failed }}update check failed{{ else }}{{ .Upgradable }} updates{{ end }}"
`

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write an example config file and template",
	Long: "Writes config.yaml and updavail.tmpl into dir, by default the user config " +
		"directory (~/.config/updavail). Existing files are kept unless --force is given.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := initDir(args)
		if err != nil {
			return usageError(err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return usageError(fmt.Errorf("creating %s: %w", dir, err))
		}

		files := []struct {
			name, content string
		}{
			{"config.yaml", exampleConfig},
			{"updavail.tmpl", render.DefaultTemplate + "\n"},
		}
		for _, f := range files {
			path := filepath.Join(dir, f.name)
			written, err := writeNew(path, f.content, initForce)
			if err != nil {
				return usageError(err)
			}
			if written {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "kept %s (exists, use --force to overwrite)\n", path)
			}
		}
		return nil
	},
}

func initDir(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "updavail"), nil
}

func writeNew(path, content string, force bool) (bool, error) {
	flag := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, f.Close()
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing files")
	rootCmd.AddCommand(initCmd)
}
