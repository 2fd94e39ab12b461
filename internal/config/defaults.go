// Package config loads updavail settings from YAML, applies defaults and
// validates them, and derives the immutable RunOptions for one run.
package config

// Defaults returns the settings used when no config file exists. They match
// an apt-based system.
func Defaults() *Config {
	return &Config{
		Options: Options{
			BaseDir:         ".",
			TimeFormat:      "%c",
			NumUpdateChecks: 1,
			Server:          "us.archive.ubuntu.com",
			PingCount:       3,
		},
		Commands: Commands{
			Update:     []string{"sudo", "apt-get", "update", "-qq"},
			Simulate:   []string{"apt-get", "upgrade", "--no-act", "-q"},
			Ping:       []string{"ping", "-q"},
			RouteTable: "/proc/net/route",
		},
		Log: Log{
			File:  "updavail.log",
			Level: "debug",
		},
		Schedule: Schedule{
			Cron:     "@hourly",
			Watch:    []string{"/var/lib/dpkg/status"},
			Debounce: "10s",
		},
	}
}
