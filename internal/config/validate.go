package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field constraints and cross references. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Errorf("%s: failed %q check", fieldPath(fe), fe.Tag()))
			}
		} else {
			errs = append(errs, err)
		}
	}

	for i, n := range c.Notify {
		if n.Service == "" {
			continue
		}
		if _, ok := c.Services[n.Service]; !ok {
			errs = append(errs, fmt.Errorf("notify[%d]: unknown service %q", i, n.Service))
		}
	}

	if c.Schedule.Cron != "" {
		if _, err := cron.ParseStandard(c.Schedule.Cron); err != nil {
			errs = append(errs, fmt.Errorf("schedule.cron: %w", err))
		}
	}
	if c.Schedule.Debounce != "" {
		if d, err := time.ParseDuration(c.Schedule.Debounce); err != nil || d < 0 {
			errs = append(errs, fmt.Errorf("schedule.debounce: invalid duration %q", c.Schedule.Debounce))
		}
	}

	return errors.Join(errs...)
}

// fieldPath turns "Config.options.ping_count" into "options.ping_count".
func fieldPath(fe validator.FieldError) string {
	_, path, ok := strings.Cut(fe.Namespace(), ".")
	if !ok {
		return fe.Namespace()
	}
	return path
}
