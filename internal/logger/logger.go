// Package logger provides structured logging for the medrag service.
// It wraps charmbracelet/log behind package-level helpers so callers
// log with key-value pairs without carrying a logger around.
package logger

import (
	"io"
	"os"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

var (
	mu  sync.RWMutex
	log = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           charmlog.InfoLevel,
	})
)

// SetLevel sets the minimum level from a config string
// ("debug", "info", "warn", "error"). Unknown values keep info.
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	switch level {
	case "debug":
		log.SetLevel(charmlog.DebugLevel)
	case "warn":
		log.SetLevel(charmlog.WarnLevel)
	case "error":
		log.SetLevel(charmlog.ErrorLevel)
	default:
		log.SetLevel(charmlog.InfoLevel)
	}
}

// SetOutput redirects log output. Defaults to os.Stderr; useful in tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log.SetOutput(w)
}

// Debug logs a debug message with key-value pairs.
func Debug(msg string, keyvals ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Debug(msg, keyvals...)
}

// Info logs an informational message with key-value pairs.
func Info(msg string, keyvals ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Info(msg, keyvals...)
}

// Warn logs a warning with key-value pairs.
func Warn(msg string, keyvals ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Warn(msg, keyvals...)
}

// Error logs an error with key-value pairs.
func Error(msg string, keyvals ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Error(msg, keyvals...)
}
