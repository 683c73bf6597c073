package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

func options(level log.Level) log.Options {
	return log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	}
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	return &Logger{Logger: log.NewWithOptions(w, options(log.InfoLevel))}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	return &Logger{Logger: log.NewWithOptions(w, options(level))}
}

// NewFileLogger creates a logger that appends to a file
func NewFileLogger(path string, level log.Level) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	cleanup := func() {
		f.Close()
	}

	return NewWithLevel(f, level), cleanup, nil
}

// NewMultiLogger creates a logger that writes to multiple outputs
func NewMultiLogger(level log.Level, writers ...io.Writer) *Logger {
	return NewWithLevel(io.MultiWriter(writers...), level)
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// ParseLevel maps a config level name to a log level, defaulting to info
func ParseLevel(name string) log.Level {
	if name == "" {
		return log.InfoLevel
	}
	level, err := log.ParseLevel(strings.ToLower(name))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// DirectiveError logs a render directive that could not be applied
func (l *Logger) DirectiveError(name string, args []string, err error) {
	l.Warn("directive ignored",
		"directive", name,
		"args", args,
		"error", err)
}

// MacroFailed logs a macro that failed during rendering
func (l *Logger) MacroFailed(page, macro string, err error) {
	l.Warn("macro failed",
		"page", page,
		"macro", macro,
		"error", err)
}

// HighlightFallback logs code rendered without highlighting
func (l *Logger) HighlightFallback(page, language string, err error) {
	l.Debug("highlighting skipped",
		"page", page,
		"language", language,
		"error", err)
}

// LinkFallback logs a link rendered as plain text
func (l *Logger) LinkFallback(page, target string, err error) {
	l.Debug("link not resolved",
		"page", page,
		"target", target,
		"error", err)
}

// PageRendered logs a successful render
func (l *Logger) PageRendered(page, contentType string, duration time.Duration) {
	l.Debug("page rendered",
		"page", page,
		"content_type", contentType,
		"duration", duration.Round(time.Microsecond))
}

// PublishStarted logs the start of a publish run
func (l *Logger) PublishStarted(runID, pagesDir, outputDir string) {
	l.Info("publish started",
		"run", runID,
		"pages_dir", pagesDir,
		"output_dir", outputDir)
}

// PublishCompleted logs the completion of a publish run
func (l *Logger) PublishCompleted(runID string, published, errors int, duration time.Duration) {
	l.Info("publish completed",
		"run", runID,
		"pages_published", published,
		"errors", errors,
		"duration", duration.Round(time.Millisecond))
}

// PagePublished logs a page written to the output directory
func (l *Logger) PagePublished(page, dest string) {
	l.Info("page published",
		"page", page,
		"dest", dest)
}

// PageError logs an error for a specific page
func (l *Logger) PageError(page string, err error) {
	l.Error("page error",
		"page", page,
		"error", err)
}

// StateError logs a state-related error
func (l *Logger) StateError(operation string, err error) {
	l.Error("state error",
		"operation", operation,
		"error", err)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(pagesDir, outputDir, store string) {
	l.Debug("config loaded",
		"pages_dir", pagesDir,
		"output_dir", outputDir,
		"store", store)
}

// Skipped logs when a page is skipped
func (l *Logger) Skipped(page, reason string) {
	l.Debug("page skipped",
		"page", page,
		"reason", reason)
}
