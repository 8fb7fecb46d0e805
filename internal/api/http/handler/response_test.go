package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/catalog-server/internal/logger"
	"github.com/dtroode/catalog-server/internal/model"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
		wantAuth   bool
	}{
		{
			name:       "expired token",
			err:        fmt.Errorf("verify: %w", model.ErrTokenExpired),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"detail":"Could not validate credentials"}`,
			wantAuth:   true,
		},
		{
			name:       "invalid credentials",
			err:        model.ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"detail":"Incorrect username or password"}`,
			wantAuth:   true,
		},
		{
			name:       "validation",
			err:        model.NewValidationError("Price must not be negative"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"detail":"Price must not be negative"}`,
		},
		{
			name:       "wrapped not found",
			err:        fmt.Errorf("get: %w", model.NewNotFoundError("Product")),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"detail":"Product not found"}`,
		},
		{
			name:       "bare not found",
			err:        model.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   `{"detail":"Not Found"}`,
		},
		{
			name:       "body too large",
			err:        &http.MaxBytesError{Limit: 10},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantBody:   `{"detail":"Request body too large"}`,
		},
		{
			name:       "internal",
			err:        fmt.Errorf("failed to query: %w", assert.AnError),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"detail":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			rec := httptest.NewRecorder()
			WriteError(rec, logger.NewWithWriter(&logs, 0), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			if tt.wantAuth {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			}
			if tt.wantStatus == http.StatusInternalServerError {
				assert.Contains(t, logs.String(), assert.AnError.Error())
			} else {
				assert.Empty(t, logs.String())
			}
		})
	}
}

func TestRoot(t *testing.T) {
	rec := httptest.NewRecorder()
	Root(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Product Showcase API","version":"1.0"}`, rec.Body.String())
}
