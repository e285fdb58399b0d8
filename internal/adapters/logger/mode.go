package logger

import (
	"os"

	"golang.org/x/term"
)

// FormatEnvVar selects the log format: "json", "pretty" or empty for
// automatic detection.
const FormatEnvVar = "KEEP_LOG_FORMAT"

// UseJSON decides the log format. An explicit format wins; otherwise JSON is
// used whenever the output is not a terminal.
func UseJSON(format string, isTerminal bool) bool {
	switch format {
	case "json":
		return true
	case "pretty":
		return false
	default:
		return !isTerminal
	}
}

// stderrIsTerminal reports whether stderr is attached to a terminal.
func stderrIsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd())) //nolint:gosec // file descriptors fit in int
}
