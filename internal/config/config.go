package config

import (
	"fmt"
	"os"

	"github.com/a8m/envsubst"
	"github.com/goccy/go-yaml"
)

type Config struct {
	Options  Options            `yaml:"options"`
	Commands Commands           `yaml:"commands"`
	Log      Log                `yaml:"log"`
	Schedule Schedule           `yaml:"schedule"`
	Services map[string]Service `yaml:"services" validate:"dive"`
	Notify   []NotifyTarget     `yaml:"notify" validate:"dive"`
}

// Options are the per-run settings. Every field can also be set by a flag.
type Options struct {
	BaseDir         string `yaml:"base_dir" validate:"required"`
	Template        string `yaml:"template"`
	TimeFormat      string `yaml:"time_format" validate:"required"`
	MaxWidth        int    `yaml:"max_width"`
	NumUpdateChecks int    `yaml:"num_update_checks"`
	SleepPeriod     int    `yaml:"sleep_period"`
	NoErrorOutput   bool   `yaml:"no_error_output"`
	NoRoot          bool   `yaml:"no_root"`
	NetworkCheck    bool   `yaml:"network_check"`
	Server          string `yaml:"server" validate:"required_if=NetworkCheck true"`
	PingCount       int    `yaml:"ping_count" validate:"gte=1,lte=100"`
}

// Commands are the external programs each stage runs.
type Commands struct {
	Update     []string `yaml:"update" validate:"required,dive,required"`
	Simulate   []string `yaml:"simulate" validate:"required,dive,required"`
	Ping       []string `yaml:"ping" validate:"required,dive,required"`
	RouteTable string   `yaml:"route_table" validate:"required"`
}

type Log struct {
	Dir   string `yaml:"dir"`
	File  string `yaml:"file" validate:"required"`
	Level string `yaml:"level" validate:"required"`
}

// Schedule drives the start command.
type Schedule struct {
	Cron     string   `yaml:"cron"`
	Watch    []string `yaml:"watch" validate:"dive,required"`
	Debounce string   `yaml:"debounce"`
}

type Service struct {
	URL    string            `yaml:"url" validate:"required"`
	Params map[string]string `yaml:"params"`
}

// When a notification is sent.
const (
	WhenUpdates = "updates"
	WhenFailure = "failure"
	WhenAlways  = "always"
)

// NotifyTarget handles a plain service name string or an object with overrides.
type NotifyTarget struct {
	Service string            `yaml:"service" validate:"required"`
	When    string            `yaml:"when" validate:"omitempty,oneof=updates failure always"`
	Params  map[string]string `yaml:"params"`
}

func (n *NotifyTarget) UnmarshalYAML(unmarshal func(any) error) error {
	var str string
	if err := unmarshal(&str); err == nil {
		n.Service = str
		return nil
	}

	type notifyAlias NotifyTarget
	var obj notifyAlias
	if err := unmarshal(&obj); err != nil {
		return fmt.Errorf("notify: must be a service name string or an object with service/when/params")
	}
	*n = NotifyTarget(obj)
	return nil
}

// Trigger returns the effective When, defaulting to WhenUpdates.
func (n NotifyTarget) Trigger() string {
	if n.When == "" {
		return WhenUpdates
	}
	return n.When
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Config, error) {
	data, err := envsubst.Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("expanding env vars: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}
