package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// HeaderName is read from incoming requests and echoed on responses.
const HeaderName = "X-Request-Id"

type contextKey struct{}

var requestIDKey contextKey

func Generate() string {
	return uuid.NewString()
}

func ToContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// FromContext returns an empty string when no request id was set.
func FromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// FromContextPtr is used to fill optional request_id fields of API errors.
func FromContextPtr(ctx context.Context) *string {
	if requestID := FromContext(ctx); requestID != "" {
		return &requestID
	}
	return nil
}

func FromRequest(r *http.Request) string {
	return FromContext(r.Context())
}
