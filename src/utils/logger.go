package utils

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

type contextKey string

const loggerKey = contextKey("logger")

var (
	fallbackOnce   sync.Once
	fallbackLogger *logrus.Logger
)

// NewLogger builds the service logger. It writes JSON to stdout, or appends to filePath when
// logToFile is set.
func NewLogger(logLevel logrus.Level, logToFile bool, filePath string) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	out, err := logOutput(logToFile, filePath)
	if err != nil {
		logger.Fatal(err)
	}
	logger.SetOutput(out)
	return logger
}

func logOutput(logToFile bool, filePath string) (io.Writer, error) {
	if !logToFile {
		return os.Stdout, nil
	}
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("could not open log file %s: %w", filePath, err)
	}
	return file, nil
}

// ParseLogLevel maps a config string to a logrus level, defaulting to Info.
func ParseLogLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func WithLogger(ctx context.Context, logger *logrus.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext returns the logger stored by WithLogger. Contexts without one share a
// single info level text logger.
func LoggerFromContext(ctx context.Context) *logrus.Logger {
	if logger, ok := ctx.Value(loggerKey).(*logrus.Logger); ok && logger != nil {
		return logger
	}
	fallbackOnce.Do(func() {
		fallbackLogger = logrus.New()
		fallbackLogger.SetLevel(logrus.InfoLevel)
		fallbackLogger.SetFormatter(&logrus.TextFormatter{})
	})
	return fallbackLogger
}
