package sim

import "github.com/pkg/errors"

// LoadError reports an unreadable or malformed input file (circuit or
// memory image). Load errors abort a run before any simulated time elapses.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return "load failed: " + e.Err.Error()
	}
	return "load failed for " + e.Path + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error { return e.Err }

// ConfigError reports a run configuration that cannot be honored by the
// loaded circuit, such as live I/O without any character device.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

// Sentinel configuration failures.
var (
	ErrNoTTY    = &ConfigError{Msg: "live I/O requested but the circuit has no keyboard or TTY component"}
	ErrNoMemory = &ConfigError{Msg: "memory image given but the circuit has no RAM component"}
)

// IsLoadError reports whether err, or any error it wraps, is a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// IsConfigError reports whether err, or any error it wraps, is a
// *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
