// Package diag provides the shared debug-level logger used by the
// higher layers of this module to report things like generator
// search outcomes, LFSR zero-seed promotion, and Reed-Solomon
// corrected-error counts. Silent by default.
package diag

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Level:           log.WarnLevel,
	ReportTimestamp: false,
})

// SetLevel raises or lowers the package-wide debug verbosity. Intended
// for tests and callers that want to see generator-search or
// error-correction diagnostics.
func SetLevel(level log.Level) {
	logger.SetLevel(level)
}

// Debugf logs a formatted debug-level message.
func Debugf(format string, args ...any) {
	logger.Debug(fmt.Sprintf(format, args...))
}

// Warnf logs a formatted warn-level message.
func Warnf(format string, args ...any) {
	logger.Warn(fmt.Sprintf(format, args...))
}

// With returns a logger scoped to the given key/value pairs, for
// callers that want structured fields attached to every line.
func With(keyvals ...any) *log.Logger {
	return logger.With(keyvals...)
}
