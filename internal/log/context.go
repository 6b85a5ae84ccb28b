package log

import (
	"context"

	"github.com/rs/zerolog"
)

// loggerKey carries the request logger installed by GinMiddleware.
type loggerKey struct{}

func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// WithUser tags every later event logged through ctx with the caller's id.
func WithUser(ctx context.Context, userID string) context.Context {
	return WithLogger(ctx, Ctx(ctx).With().Str(FieldUserID, userID).Logger())
}

// Ctx returns the request logger, or the process logger outside a request.
func Ctx(ctx context.Context) zerolog.Logger {
	if ctx == nil {
		return L()
	}
	if l, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
		return l
	}
	return L()
}
