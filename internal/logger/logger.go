// Package logger provides context-scoped structured logging.
//
// Handlers pull their *logrus.Entry out of the request context with G(ctx)
// and fall back to the package default. All output goes to stderr: on the
// stdio transport stdout carries the wire protocol and must stay clean.
package logger

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// G is shorthand for GetLogger.
	G = GetLogger

	// L is the default logger used when the context carries none.
	L = logrus.NewEntry(newLogger())
)

type loggerKey struct{}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.InfoLevel)
	log.SetFormatter(textFormatter())
	return log
}

// WithLogger returns a copy of ctx carrying the given entry.
func WithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey{}, entry)
}

// GetLogger returns the entry carried by ctx, or the package default.
func GetLogger(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(loggerKey{}).(*logrus.Entry); ok {
		return entry
	}
	return L
}

// SetLevel adjusts the default logger's level. Unparseable levels keep info.
func SetLevel(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	L.Logger.SetLevel(parsed)
}

// SetFormat switches the default logger between "text" and "json" output.
func SetFormat(format string) {
	switch strings.ToLower(format) {
	case "json":
		L.Logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	default:
		L.Logger.SetFormatter(textFormatter())
	}
}

func textFormatter() logrus.Formatter {
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
	}
}
