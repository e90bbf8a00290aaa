package mongo

import (
	"context"
	"log/slog"
)

const component = "mongo"

// Logger is the subset of *slog.Logger used by this package.
type Logger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

func discardLogger() Logger {
	return slog.New(slog.DiscardHandler)
}
