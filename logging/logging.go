// Copyright 2026 ScyllaDB
//
// SPDX-License-Identifier: Apache-2.0

// Package logging provides a leveled logger with plain, colored, and
// JSON output. Build commands propagate the logger through context so
// that every stage of a run reports through the same instance.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

// OutputType represents the output format for logs.
type OutputType int

// Output types for different log formats.
const (
	PlainOutput OutputType = iota
	ColorOutput
	JSONOutput
)

// Log levels, ordered from least to most severe.
const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Logger writes leveled build-run messages to the console.
type Logger struct {
	mu            sync.Mutex
	LogLevel      slog.Level
	OutputType    OutputType
	Quiet         bool
	Verbose       bool
	ConsoleWriter io.Writer
}

// New creates a Logger with the given level and plain output on stderr.
func New(level slog.Level) *Logger {
	return &Logger{
		LogLevel:      level,
		OutputType:    PlainOutput,
		ConsoleWriter: os.Stderr,
	}
}

// NewWithOptions creates a Logger from string-typed configuration as it
// arrives from flags and the config file.
func NewWithOptions(levelStr, format string, quiet, verbose bool) *Logger {
	level := DetermineLogLevel(levelStr)

	outputType := PlainOutput
	switch format {
	case "json":
		outputType = JSONOutput
	case "color":
		outputType = ColorOutput
	}

	if verbose && level > slog.LevelDebug {
		level = slog.LevelDebug
	}

	return &Logger{
		LogLevel:      level,
		OutputType:    outputType,
		Quiet:         quiet,
		Verbose:       verbose,
		ConsoleWriter: os.Stderr,
	}
}

// formatMessage applies the colored level prefix for color output and
// returns the plain message otherwise.
func (l *Logger) formatMessage(level LogLevel, message string, args ...interface{}) string {
	msg := fmt.Sprintf(message, args...)

	if l.OutputType != ColorOutput {
		return msg
	}

	switch level {
	case DebugLevel:
		return color.HiBlackString("[DEBUG] %s", msg)
	case InfoLevel:
		return color.HiGreenString("[INFO] %s", msg)
	case WarnLevel:
		return color.HiYellowString("[WARN] %s", msg)
	case ErrorLevel:
		return color.HiRedString("[ERROR] %s", msg)
	default:
		return msg
	}
}

// shouldShowLocked decides console visibility. Must be called with l.mu
// held. Quiet shows only errors; verbose shows everything; otherwise
// the configured level applies.
func (l *Logger) shouldShowLocked(level LogLevel) bool {
	if l.Quiet {
		return level == ErrorLevel
	}
	if l.Verbose {
		return true
	}
	return level.slogLevel() >= l.LogLevel
}

// slogLevel maps the console level to its slog equivalent.
func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case DebugLevel:
		return slog.LevelDebug
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) log(level LogLevel, message string, args ...interface{}) {
	msg := l.formatMessage(level, message, args...)
	timestamp := time.Now().Format("2006-01-02 15:04:05")

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.shouldShowLocked(level) || l.ConsoleWriter == nil {
		return
	}
	if _, err := fmt.Fprintf(l.ConsoleWriter, "[%s] %s\n", timestamp, msg); err != nil {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", timestamp, msg)
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DebugLevel, format, args...)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(InfoLevel, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WarnLevel, format, args...)
}

// Error logs an error message. It accepts either an error, a format
// string, or any other value as the first argument.
func (l *Logger) Error(firstArg interface{}, args ...interface{}) {
	switch v := firstArg.(type) {
	case error:
		if len(args) == 0 {
			l.log(ErrorLevel, "%s", v.Error())
		} else {
			l.log(ErrorLevel, v.Error(), args...)
		}
	case string:
		l.log(ErrorLevel, v, args...)
	default:
		l.log(ErrorLevel, "%v", v)
	}
}

// Output sends structured data to stdout, honoring JSON output mode.
func (l *Logger) Output(data interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.OutputType {
	case JSONOutput:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(data); err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode JSON output: %v\n", err)
		}
	default:
		fmt.Fprintln(os.Stdout, data)
	}
}

// Print writes raw output to stdout without adding a newline. Use this
// for streamed subprocess output that already contains newlines.
func (l *Logger) Print(data string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(os.Stdout, data)
}

// DetermineLogLevel converts a level string to slog.Level.
func DetermineLogLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loggerKeyType is the type for the logger context key.
type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// WithLogger returns a new context carrying the provided logger.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext retrieves the logger from the context, or a default
// instance when none is stored.
func FromContext(ctx context.Context) *Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*Logger); ok && l != nil {
			return l
		}
	}
	return New(slog.LevelInfo)
}

// InfoContext logs an informational message using the logger from context.
func InfoContext(ctx context.Context, message string, args ...interface{}) {
	FromContext(ctx).Info(message, args...)
}

// WarnContext logs a warning message using the logger from context.
func WarnContext(ctx context.Context, message string, args ...interface{}) {
	FromContext(ctx).Warn(message, args...)
}

// DebugContext logs a debug message using the logger from context.
func DebugContext(ctx context.Context, message string, args ...interface{}) {
	FromContext(ctx).Debug(message, args...)
}

// ErrorContext logs an error message using the logger from context.
func ErrorContext(ctx context.Context, firstArg interface{}, args ...interface{}) {
	FromContext(ctx).Error(firstArg, args...)
}

// PrintContext writes raw output to stdout using the logger from context.
func PrintContext(ctx context.Context, data string) {
	FromContext(ctx).Print(data)
}
