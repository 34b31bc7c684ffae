package logging

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// NewRequestID generates a request id of the form req_<uuid without dashes>.
func NewRequestID() string {
	return "req_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// EnsureRequestID returns ctx unchanged if it already carries a request id,
// otherwise a child context with a fresh one.
func EnsureRequestID(ctx context.Context) context.Context {
	if GetRequestID(ctx) != "" {
		return ctx
	}
	return WithRequestID(ctx, NewRequestID())
}
