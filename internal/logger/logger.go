// Package logger provides leveled console logging for Formwright.
//
// Debug, Info and Section output appears only in verbose mode (--verbose).
// Warn and Error are always written: they report storage fallbacks and
// discarded data that the user should see even on a quiet run.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	quiet   bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetQuiet suppresses warnings. Errors are still written.
func SetQuiet(q bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = q
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func write(enabled func() bool, prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if enabled() {
		fmt.Fprintf(output, prefix+format+"\n", args...)
	}
}

func verboseOn() bool { return verbose }

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	write(verboseOn, "[DEBUG] ", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	write(verboseOn, "[INFO] ", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	write(verboseOn, "\n=== ", "%s ===", name)
}

// Warn prints a warning unless quiet mode is enabled.
func Warn(format string, args ...any) {
	write(func() bool { return !quiet }, "[WARN] ", format, args...)
}

// Error prints an error message unconditionally.
func Error(format string, args ...any) {
	write(func() bool { return true }, "[ERROR] ", format, args...)
}
