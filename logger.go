package minbatch

import (
	"os"

	"github.com/charmbracelet/log"
)

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	// LogLevelDebug is for detailed information, typically of interest only when diagnosing problems.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is for informational messages that highlight the progress of the stream.
	LogLevelInfo
	// LogLevelWarn is for potentially harmful situations that might require attention.
	LogLevelWarn
	// LogLevelError is for error events that might still allow the stream to continue running.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger defines the interface for logging within the batching adapters.
// Implementations can route logs to various destinations. The Logger is
// optional - if not provided, no logging occurs.
type Logger interface {
	// Debug logs a debug-level message. The message is formatted using
	// fmt.Sprintf if args are provided.
	Debug(format string, args ...interface{})

	// Info logs an info-level message.
	Info(format string, args ...interface{})

	// Warn logs a warning-level message.
	Warn(format string, args ...interface{})

	// Error logs an error-level message.
	Error(format string, args ...interface{})
}

// NoOpLogger is a logger that discards all log messages. It implements
// the Logger interface but performs no operations. This is the default
// logger when none is specified.
type NoOpLogger struct{}

// Debug implements the Logger interface.
func (n *NoOpLogger) Debug(format string, args ...interface{}) {}

// Info implements the Logger interface.
func (n *NoOpLogger) Info(format string, args ...interface{}) {}

// Warn implements the Logger interface.
func (n *NoOpLogger) Warn(format string, args ...interface{}) {}

// Error implements the Logger interface.
func (n *NoOpLogger) Error(format string, args ...interface{}) {}

// TermLogger writes leveled, timestamped log lines to stderr using
// charmbracelet/log. Messages below MinLevel are discarded.
type TermLogger struct {
	logger *log.Logger
}

// NewTermLogger creates a TermLogger with the specified minimum log level.
func NewTermLogger(minLevel LogLevel) *TermLogger {
	return &TermLogger{
		logger: log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Level:           charmLevel(minLevel),
			Prefix:          "minbatch",
		}),
	}
}

// Debug implements the Logger interface.
func (t *TermLogger) Debug(format string, args ...interface{}) {
	t.logger.Debugf(format, args...)
}

// Info implements the Logger interface.
func (t *TermLogger) Info(format string, args ...interface{}) {
	t.logger.Infof(format, args...)
}

// Warn implements the Logger interface.
func (t *TermLogger) Warn(format string, args ...interface{}) {
	t.logger.Warnf(format, args...)
}

// Error implements the Logger interface.
func (t *TermLogger) Error(format string, args ...interface{}) {
	t.logger.Errorf(format, args...)
}

func charmLevel(l LogLevel) log.Level {
	switch l {
	case LogLevelDebug:
		return log.DebugLevel
	case LogLevelInfo:
		return log.InfoLevel
	case LogLevelWarn:
		return log.WarnLevel
	case LogLevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
