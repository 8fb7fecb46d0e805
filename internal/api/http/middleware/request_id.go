package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLength = 128

// RequestIDSetter stores the request id on a context.
type RequestIDSetter interface {
	SetRequestIDToContext(ctx context.Context, id string) context.Context
}

// RequestID tags every request with an id, reusing the caller's when present.
type RequestID struct {
	contextManager RequestIDSetter
}

func NewRequestID(contextManager RequestIDSetter) *RequestID {
	return &RequestID{contextManager: contextManager}
}

func (m *RequestID) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(m.contextManager.SetRequestIDToContext(r.Context(), id)))
	})
}
