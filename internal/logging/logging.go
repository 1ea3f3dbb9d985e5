// Package logging builds the slog logger used for the run's mutation trail.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// DefaultLevel keeps successful runs silent on stderr.
const DefaultLevel = slog.LevelWarn

// Options configures New.
type Options struct {
	Level   slog.Level
	NoColor bool
}

// ParseLevel maps debug, info, warn or error (any case) to a slog level.
// The empty string yields DefaultLevel.
func ParseLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultLevel, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: expected debug, info, warn or error", s)
	}
	return l, nil
}

// New returns a tint logger writing to w. Colour is used only when w is a
// terminal and opts.NoColor is false.
func New(w io.Writer, opts Options) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      opts.Level,
		TimeFormat: time.Kitchen,
		NoColor:    opts.NoColor || !IsTerminal(w),
	}))
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
