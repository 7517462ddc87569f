package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

// NewRunID creates an identifier for one scenario or stress run.
// Format: YYYYMMDD_HHMMSS_xxxx (timestamp + 4 random hex chars)
func NewRunID(now time.Time) string {
	random := make([]byte, 2)
	_, _ = rand.Read(random)
	return now.Format("20060102_150405") + "_" + hex.EncodeToString(random)
}

// ShortRunID returns the random suffix of a run ID.
func ShortRunID(id string) string {
	if len(id) < 4 {
		return id
	}
	return id[len(id)-4:]
}

// WithRunID tags the context logger with a run field.
func WithRunID(ctx context.Context, id string) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Str("run", id).Logger()
	return WithContext(ctx, childLogger)
}
