// Package logx is the process-wide leveled logger.
package logx

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

type Level = logrus.Level

const (
	LevelDebug = logrus.DebugLevel
	LevelInfo  = logrus.InfoLevel
	LevelWarn  = logrus.WarnLevel
	LevelError = logrus.ErrorLevel
	LevelFatal = logrus.FatalLevel
)

// Fields is a set of structured key/value pairs attached to an entry
type Fields = logrus.Fields

var std = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return l
}

func SetLevel(level Level) {
	std.SetLevel(level)
}

// ParseLevel maps "debug", "info", "warn", "error" to a Level, falling back to info
func ParseLevel(s string) Level {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return LevelInfo
	}
	return lvl
}

// SetFormat switches between "text" and "json" output
func SetFormat(format string) {
	if strings.EqualFold(format, "json") {
		std.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	std.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}

func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// Logger exposes the underlying logger for code that needs a *logrus.Logger
func Logger() *logrus.Logger {
	return std
}

func WithFields(fields Fields) *logrus.Entry {
	return std.WithFields(fields)
}

func WithError(err error) *logrus.Entry {
	return std.WithError(err)
}

func Debug(args ...any)                 { std.Debug(args...) }
func Debugf(format string, args ...any) { std.Debugf(format, args...) }
func Info(args ...any)                  { std.Info(args...) }
func Infof(format string, args ...any)  { std.Infof(format, args...) }
func Warn(args ...any)                  { std.Warn(args...) }
func Warnf(format string, args ...any)  { std.Warnf(format, args...) }
func Error(args ...any)                 { std.Error(args...) }
func Errorf(format string, args ...any) { std.Errorf(format, args...) }
func Fatal(args ...any)                 { std.Fatal(args...) }
func Fatalf(format string, args ...any) { std.Fatalf(format, args...) }
