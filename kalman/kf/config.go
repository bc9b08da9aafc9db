package kf

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Form is the form of the covariance measurement update.
type Form int

const (
	// Simple is the (I - K*H)*P covariance update.
	// It is cheap but can lose symmetry and positive definiteness over many steps.
	Simple Form = iota
	// Joseph is the (I - K*H)*P*(I - K*H)' + K*R*K' covariance update.
	Joseph
)

// String implements the Stringer interface.
func (f Form) String() string {
	switch f {
	case Simple:
		return "simple"
	case Joseph:
		return "joseph"
	}

	return fmt.Sprintf("Form(%d)", int(f))
}

// ParseForm parses covariance update form from its name.
func ParseForm(s string) (Form, error) {
	switch strings.ToLower(s) {
	case "", "simple":
		return Simple, nil
	case "joseph":
		return Joseph, nil
	}

	return Simple, fmt.Errorf("unknown covariance update form: %q", s)
}

// DefaultTol is the default reciprocal condition number below which
// innovation covariance is considered singular.
const DefaultTol = 1e-12

// Config is KF configuration
type Config struct {
	// Form is covariance update form
	Form Form
	// Tol is the smallest reciprocal condition number of innovation covariance
	// accepted by the measurement update; zero means DefaultTol
	Tol float64
	// Logger logs filter faults; nil disables logging
	Logger *slog.Logger
}

// DefaultConfig returns default KF configuration
func DefaultConfig() *Config {
	return &Config{
		Form: Simple,
		Tol:  DefaultTol,
	}
}

func (c *Config) validate() error {
	if c.Tol < 0 || c.Tol >= 1 {
		return fmt.Errorf("invalid tolerance: %v", c.Tol)
	}

	if c.Form != Simple && c.Form != Joseph {
		return fmt.Errorf("invalid covariance update form: %v", c.Form)
	}

	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
