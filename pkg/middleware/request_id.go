package middleware

import (
	"net/http"

	"github.com/forecast-ops/job-tracker/pkg/requestid"
	"github.com/go-chi/chi/v5/middleware"
)

// RequestID takes the request id from the X-Request-Id header, or from chi's
// RequestID middleware when it ran before, or generates a new one. The id is
// stored in the request context and echoed back in the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestid.HeaderName)
		if requestID == "" {
			requestID = middleware.GetReqID(r.Context())
		}
		if requestID == "" {
			requestID = requestid.Generate()
		}

		w.Header().Set(requestid.HeaderName, requestID)
		next.ServeHTTP(w, r.WithContext(requestid.ToContext(r.Context(), requestID)))
	})
}
