package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/catalog-server/internal/model"
)

func TestManager_User(t *testing.T) {
	m := NewManager()

	_, ok := m.GetUserFromContext(context.Background())
	assert.False(t, ok)

	user := model.User{ID: 7, Email: "a@example.com"}
	ctx := m.SetUserToContext(context.Background(), user)

	got, ok := m.GetUserFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, user, got)
}

func TestManager_RequestID(t *testing.T) {
	m := NewManager()

	assert.Empty(t, m.GetRequestIDFromContext(context.Background()))

	ctx := m.SetRequestIDToContext(context.Background(), "req-1")
	assert.Equal(t, "req-1", m.GetRequestIDFromContext(ctx))

	_, ok := m.GetUserFromContext(ctx)
	assert.False(t, ok)
}
