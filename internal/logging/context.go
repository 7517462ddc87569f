package logging

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bnema/focuscore/internal/domain/entity"
)

// FromContext extracts the logger from context
// If no logger is found, returns a disabled logger (no-op)
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// Detach returns a background context carrying only the logger of ctx, for
// work that runs after the caller returns
func Detach(ctx context.Context) context.Context {
	return FromContext(ctx).WithContext(context.Background())
}

// WithComponent creates a child logger with a component field
func WithComponent(ctx context.Context, component string) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Str("component", component).Logger()
	return WithContext(ctx, childLogger)
}

// WithContextID creates a child logger tagged with the focus isolation context
func WithContextID(ctx context.Context, id entity.ContextID) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Str("focus_ctx", string(id)).Logger()
	return WithContext(ctx, childLogger)
}

// WithElement creates a child logger with an element field
func WithElement(ctx context.Context, id entity.ElementID) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Str("element", id.String()).Logger()
	return WithContext(ctx, childLogger)
}
