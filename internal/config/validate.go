package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"slices"
	"strings"

	"github.com/randomizedcoder/go-cpusched/internal/logging"
	"github.com/randomizedcoder/go-cpusched/internal/scheduler"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors and inconsistencies.
// Returns nil if valid, or every problem joined with errors.Join.
func Validate(cfg *Config) error {
	var errs []error

	// Algorithm may come from the workload file, so it is optional here
	if cfg.Algorithm != "" {
		if _, err := scheduler.ParseAlgorithm(cfg.Algorithm); err != nil {
			errs = append(errs, ValidationError{
				Field:   "algorithm",
				Message: fmt.Sprintf("must be one of: %s (got %q)", strings.Join(scheduler.Names(), ", "), cfg.Algorithm),
			})
		}
	}
	for _, name := range cfg.CompareAlgorithms {
		if _, err := scheduler.ParseAlgorithm(name); err != nil {
			errs = append(errs, ValidationError{
				Field:   "algorithms",
				Message: fmt.Sprintf("unknown algorithm %q", name),
			})
		}
	}

	// The engine reports its own quantum errors; only negatives are
	// nonsensical regardless of algorithm.
	if cfg.Quantum < 0 {
		errs = append(errs, ValidationError{
			Field:   "quantum",
			Message: "must not be negative",
		})
	}

	if cfg.Workload != "" && cfg.HasInlineProcesses() {
		errs = append(errs, ValidationError{
			Field:   "file",
			Message: "cannot be combined with --ids/--bursts",
		})
	}

	if !slices.Contains(ViewModes, cfg.View) {
		errs = append(errs, ValidationError{
			Field:   "view",
			Message: fmt.Sprintf("must be one of: %s (got %q)", strings.Join(ViewModes, ", "), cfg.View),
		})
	}

	if cfg.Width < MinWidth {
		errs = append(errs, ValidationError{
			Field:   "width",
			Message: fmt.Sprintf("must be at least %d", MinWidth),
		})
	}

	if cfg.HistoryLimit < 1 {
		errs = append(errs, ValidationError{
			Field:   "limit",
			Message: "must be at least 1",
		})
	}

	if err := validateAddr(cfg.ListenAddr); err != nil || cfg.ListenAddr == "" {
		msg := "must not be empty"
		if err != nil {
			msg = err.Error()
		}
		errs = append(errs, ValidationError{Field: "listen", Message: msg})
	}
	if err := validateAddr(cfg.MetricsAddr); err != nil {
		errs = append(errs, ValidationError{Field: "metrics", Message: err.Error()})
	}

	if cfg.MetricsURL != "" {
		if u, err := url.Parse(cfg.MetricsURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "metrics_url",
				Message: fmt.Sprintf("must be an http(s) URL (got %q)", cfg.MetricsURL),
			})
		}
	}

	if !logging.ValidFormat(cfg.LogFormat) {
		errs = append(errs, ValidationError{
			Field:   "log_format",
			Message: fmt.Sprintf("must be 'json' or 'text' (got %q)", cfg.LogFormat),
		})
	}
	if !logging.ValidLevel(cfg.LogLevel) {
		errs = append(errs, ValidationError{
			Field:   "log_level",
			Message: fmt.Sprintf("must be one of: %s (got %q)", strings.Join(logging.Levels, ", "), cfg.LogLevel),
		})
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ValidateInput checks that a process set was supplied.
func ValidateInput(cfg *Config) error {
	if cfg.Workload == "" && !cfg.HasInlineProcesses() {
		return ValidationError{
			Field:   "processes",
			Message: "either --ids and --bursts or --file is required",
		}
	}
	return nil
}

// validateAddr checks a host:port listen address. Empty is accepted.
func validateAddr(addr string) error {
	if addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}
	return nil
}
