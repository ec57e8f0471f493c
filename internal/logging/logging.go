package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options controls where and how the application logs. The terminal belongs to
// the UI, so output normally goes to a file.
type Options struct {
	Level    string
	Format   string
	FilePath string
}

// New builds a logger. The returned closer releases the log file, if any.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()
	logger.SetReportCaller(true)

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(newFormatter(opts.Format))

	if opts.FilePath == "" {
		logger.SetOutput(io.Discard)
		return logger, nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0o700); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger.SetOutput(file)
	return logger, file, nil
}

// Discard returns a logger that drops everything. Used by tests and by code
// paths that run before configuration is known.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// newFormatter reports the caller as "file.go:line" only.
func newFormatter(format string) logrus.Formatter {
	callerPretty := func(frame *runtime.Frame) (function string, file string) {
		return "", fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
	}

	switch strings.ToLower(format) {
	case "json":
		return &logrus.JSONFormatter{
			TimestampFormat:  "2006-01-02 15:04:05",
			CallerPrettyfier: callerPretty,
		}
	default:
		return &logrus.TextFormatter{
			FullTimestamp:    true,
			DisableColors:    true,
			TimestampFormat:  "2006-01-02 15:04:05",
			CallerPrettyfier: callerPretty,
		}
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
