// SPDX-License-Identifier: MIT
package log

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogLevel defines the severity of a log message.
type LogLevel uint32

// Constants for log levels.
const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// Fields is a set of structured key/value pairs attached to an entry.
type Fields = logrus.Fields

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string (case-insensitive) to a LogLevel.
// Returns LevelInfo and false if the string is not recognized.
func ParseLevel(levelStr string) (LogLevel, bool) {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return LevelDebug, true
	case "INFO":
		return LevelInfo, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	case "FATAL":
		return LevelFatal, true
	default:
		return LevelInfo, false
	}
}

func (l LogLevel) logrusLevel() logrus.Level {
	switch l {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	case LevelFatal:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// --- Global Logger State ---

// logger is the process-wide logrus instance. Timestamps carry microseconds.
var logger = logrus.New()

func init() {
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 15:04:05.000000",
	})
	SetLevel(LevelInfo)
}

// SetLevel sets the global logging level.
func SetLevel(level LogLevel) {
	logger.SetLevel(level.logrusLevel())
}

// GetLevel gets the current global logging level.
func GetLevel() LogLevel {
	switch logger.GetLevel() {
	case logrus.DebugLevel, logrus.TraceLevel:
		return LevelDebug
	case logrus.WarnLevel:
		return LevelWarn
	case logrus.ErrorLevel:
		return LevelError
	case logrus.FatalLevel, logrus.PanicLevel:
		return LevelFatal
	default:
		return LevelInfo
	}
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// WithFields returns an entry that logs the given fields with every message.
func WithFields(fields Fields) *logrus.Entry {
	return logger.WithFields(fields)
}

// --- Public Logging Functions ---

// Debugf logs a formatted debug message if the level is appropriate.
func Debugf(format string, v ...any) {
	logger.Debugf(format, v...)
}

// Infof logs a formatted info message if the level is appropriate.
func Infof(format string, v ...any) {
	logger.Infof(format, v...)
}

// Warnf logs a formatted warning message if the level is appropriate.
func Warnf(format string, v ...any) {
	logger.Warnf(format, v...)
}

// Errorf logs a formatted error message if the level is appropriate.
func Errorf(format string, v ...any) {
	logger.Errorf(format, v...)
}

// Fatalf logs a formatted fatal message and exits the application.
func Fatalf(format string, v ...any) {
	logger.Fatalf(format, v...)
}

// Debug logs a debug message if the level is appropriate.
func Debug(v ...any) {
	logger.Debug(v...)
}

// Info logs an info message if the level is appropriate.
func Info(v ...any) {
	logger.Info(v...)
}

// Warn logs a warning message if the level is appropriate.
func Warn(v ...any) {
	logger.Warn(v...)
}

// Error logs an error message if the level is appropriate.
func Error(v ...any) {
	logger.Error(v...)
}

// Fatal logs a fatal message and exits the application.
func Fatal(v ...any) {
	logger.Fatal(v...)
}
