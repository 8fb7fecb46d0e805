package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/catalog-server/internal/model"
)

func TestNewUserRepository(t *testing.T) {
	db := &Connection{}
	repo := NewUserRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestBuildUserUpdate(t *testing.T) {
	tests := []struct {
		name      string
		patch     model.UserPatch
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "only timestamp",
			patch:     model.UserPatch{},
			wantQuery: "UPDATE users SET updated_at = now() WHERE id = $1 RETURNING " + userColumns,
			wantArgs:  []any{int64(7)},
		},
		{
			name:      "email and password hash",
			patch:     model.UserPatch{Email: model.Some("new@example.com"), Password: model.Some("$2a$hash")},
			wantQuery: "UPDATE users SET email = $1, password_hash = $2, updated_at = now() WHERE id = $3 RETURNING " + userColumns,
			wantArgs:  []any{"new@example.com", "$2a$hash", int64(7)},
		},
		{
			name:      "name only",
			patch:     model.UserPatch{Name: model.Some("Ann")},
			wantQuery: "UPDATE users SET name = $1, updated_at = now() WHERE id = $2 RETURNING " + userColumns,
			wantArgs:  []any{"Ann", int64(7)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			query, args := buildUserUpdate(7, tt.patch)
			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
