package core

import (
	"errors"
	"fmt"
)

// ConfigError reports a malformed or inconsistent scenario configuration.
// It is fatal: the simulation does not start.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "config: " + e.Reason }

// Configf builds a ConfigError from a format string.
func Configf(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// Recoverable resource-ledger conditions. A rejected pickup or drop skips the
// agent's action for the tick; the task stays pending.
var (
	ErrShelfCarried     = errors.New("shelf already carried or reserved")
	ErrAgentLoaded      = errors.New("agent already carrying a shelf")
	ErrCapacityExceeded = errors.New("shelf weight exceeds agent carrying limit")
	ErrInvalidDrop      = errors.New("current cell cannot store the shelf")
)
