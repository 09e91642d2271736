// Package diagnostics is the verbose-mode logger shared by every
// subcommand: writer-backed, never stdout, never changing a single
// output byte (spec §6.3's verbose option; mirrors internal/cli/io.go's
// IO abstraction rather than pulling in a structured-logging library).
package diagnostics

import (
	"fmt"
	"io"
)

// Logger writes diagnostic lines to an io.Writer (typically stderr)
// when enabled, and discards them otherwise.
type Logger struct {
	w       io.Writer
	enabled bool
}

// New returns a Logger. When enabled is false, every method is a no-op.
func New(w io.Writer, enabled bool) *Logger {
	return &Logger{w: w, enabled: enabled}
}

// Printf writes a formatted diagnostic line, prefixed and newline
// terminated, if the logger is enabled.
func (l *Logger) Printf(format string, args ...any) {
	if !l.enabled {
		return
	}

	fmt.Fprintf(l.w, "[godelta] "+format+"\n", args...) //nolint:errcheck
}

// Enabled reports whether diagnostics are written at all.
func (l *Logger) Enabled() bool {
	return l.enabled
}
