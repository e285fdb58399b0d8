// Package notifier prints user-facing mutation notifications to a terminal.
package notifier

import (
	"io"
	"os"
	"slices"
	"sync"

	"github.com/muesli/termenv"
)

const (
	symbolCheck = "✓"
	symbolCross = "✗"

	colorGreen = "#12B76A"
	colorRed   = "#D93025"
)

// Level is the outcome a notification reports.
type Level string

// Notification levels.
const (
	LevelSuccess Level = "success"
	LevelFailure Level = "failure"
)

// Notification is one message shown to the user.
type Notification struct {
	Level   Level
	Message string
}

// Terminal writes notifications as single colored lines and keeps a history
// of everything it has shown.
type Terminal struct {
	mu      sync.Mutex
	out     *termenv.Output
	history []Notification
}

// New creates a Terminal writing to w. A nil w writes to stderr.
// Colors are disabled when NO_COLOR is set.
func New(w io.Writer) *Terminal {
	if w == nil {
		w = os.Stderr
	}
	return &Terminal{out: termenv.NewOutput(w, termenv.WithProfile(colorProfile()))}
}

func colorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// Success implements ports.Notifier.
func (t *Terminal) Success(msg string) {
	t.emit(LevelSuccess, symbolCheck, colorGreen, msg)
}

// Failure implements ports.Notifier.
func (t *Terminal) Failure(msg string) {
	t.emit(LevelFailure, symbolCross, colorRed, msg)
}

// History returns every notification shown so far, oldest first.
func (t *Terminal) History() []Notification {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.history)
}

func (t *Terminal) emit(level Level, symbol, color, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.history = append(t.history, Notification{Level: level, Message: msg})

	line := t.out.String(symbol + " " + msg).Foreground(t.out.Color(color))
	_, _ = t.out.WriteString(line.String() + "\n")
}
