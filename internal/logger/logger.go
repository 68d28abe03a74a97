// Package logger carries a logrus entry through context so every layer of
// the frame loop logs with the same fields.
package logger

import (
	"context"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

var base = logrus.New()

// Base returns the process-wide logger. Configure it once at startup.
func Base() *logrus.Logger {
	return base
}

// SetLevel parses and applies a logrus level name such as "debug" or
// "warn" to the process-wide logger.
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	base.SetLevel(lvl)
	return nil
}

// WithEntry returns a context carrying the entry for downstream loggers.
func WithEntry(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, entry)
}

// Entry returns the entry carried by ctx, or a fresh entry on the
// process-wide logger when the context has none.
func Entry(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok {
		return entry
	}
	return logrus.NewEntry(base)
}
