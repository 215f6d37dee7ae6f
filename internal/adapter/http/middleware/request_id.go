package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
	wrap "github.com/ironslayer/parking-management-system/pkg/logger/wrapper"
)

const requestIDHeader = "X-Request-ID"

// RequestID attaches a request ID to the context and response headers.
// An ID supplied by the client is reused so calls can be traced across
// services; otherwise a fresh one is generated.
func (a *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := types.WithRequestIDContext(r.Context(), requestID)
		ctx = wrap.WithRequestID(ctx, requestID)

		w.Header().Set(requestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
