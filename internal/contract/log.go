package contract

import (
	"log/slog"
	"os"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

// Logger returns the process-wide logger. Output goes to stderr so stdout stays
// reserved for reports and the MCP stdio transport.
func Logger() *slog.Logger {
	return logger.Load()
}

// SetLogger replaces the process-wide logger.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger.Store(l)
	}
}

// LogInfo logs an informational message with optional key-value attributes.
func LogInfo(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	Logger().Warn(msg, "error", err)
}

// LogError logs an error message to stderr.
func LogError(msg string, err error) {
	Logger().Error(msg, "error", err)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger().Error(msg, "error", err)
	os.Exit(1)
}
