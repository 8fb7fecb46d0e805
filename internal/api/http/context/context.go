package context

import (
	"context"

	"github.com/dtroode/catalog-server/internal/model"
)

type ctxKey int

const (
	userKey ctxKey = iota
	requestIDKey
)

var _ model.ContextManager = (*Manager)(nil)

// Manager stores per-request values on the request context.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetUserToContext returns a copy of ctx carrying the authenticated user.
func (m *Manager) SetUserToContext(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext returns the authenticated user, if any.
func (m *Manager) GetUserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(userKey).(model.User)
	return user, ok
}

// SetRequestIDToContext returns a copy of ctx carrying the request id.
func (m *Manager) SetRequestIDToContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestIDFromContext returns the request id, or "" when none is set.
func (m *Manager) GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
