// Package logging sets up the project's structured logger: a slog.Logger
// writing to stderr, colorized with lipgloss for interactive sessions and
// plain when stderr isn't a terminal (daemon/CI use).
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ParseLevel converts a config string into a slog.Level, defaulting to
// Info for an empty string.
func ParseLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		var lvl slog.Level
		return lvl, lvl.UnmarshalText([]byte(value))
	}
}

// New builds the default logger at the given level, writing to w (typically
// os.Stderr). Output is colorized when w is a terminal.
func New(level slog.Level, w *os.File) *slog.Logger {
	if isatty.IsTerminal(w.Fd()) {
		return slog.New(&colorHandler{level: level, w: w})
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Init installs New(...) as the process-wide default logger.
func Init(level slog.Level) *slog.Logger {
	l := New(level, os.Stderr)
	slog.SetDefault(l)
	return l
}

// colorHandler is a minimal slog.Handler that styles the level and message
// with lipgloss; attributes are rendered plainly after them.
type colorHandler struct {
	level slog.Level
	w     *os.File
}

var levelStyles = map[slog.Level]lipgloss.Style{
	slog.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	slog.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	slog.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
	slog.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	style, ok := levelStyles[r.Level]
	if !ok {
		style = lipgloss.NewStyle()
	}
	line := style.Render(r.Level.String()) + " " + r.Message
	r.Attrs(func(a slog.Attr) bool {
		line += " " + lipgloss.NewStyle().Faint(true).Render(a.Key+"="+a.Value.String())
		return true
	})
	_, err := h.w.WriteString(line + "\n")
	return err
}

func (h *colorHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *colorHandler) WithGroup(_ string) slog.Handler      { return h }
