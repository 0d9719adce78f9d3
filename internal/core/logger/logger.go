// Package logger wires charmbracelet/log for the server and the CLI.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var std = New(os.Stderr, "info")

func prefix() string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#6366F1")).
		Bold(true).
		Padding(0, 1)
	return style.Render("animelink")
}

// New builds a logger writing to w at the given level ("debug", "info", "warn", "error").
// Unknown levels fall back to info.
func New(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}
	l := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		ReportCaller:    lvl == log.DebugLevel,
		TimeFormat:      "15:04:05",
		Prefix:          prefix(),
	})
	return l
}

// Init replaces the process-wide logger
func Init(level string) *log.Logger {
	std = New(os.Stderr, level)
	return std
}

// Default returns the process-wide logger
func Default() *log.Logger {
	return std
}

// Discard returns a logger that drops everything, for tests
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
