package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/dtroode/catalog-server/internal/logger"
	"github.com/dtroode/catalog-server/internal/model"
)

// AuthService exchanges credentials for access tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Auth struct {
	authService AuthService
	logger      *logger.Logger
}

func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
	}
}

// Login accepts the OAuth2 password form fields username and password, sent
// either urlencoded or as multipart/form-data.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	err := r.ParseMultipartForm(maxJSONBody)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			WriteError(w, h.logger, err)
			return
		}
		WriteError(w, h.logger, model.NewValidationError("Invalid form body"))
		return
	}

	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		WriteError(w, h.logger, model.NewValidationError("username and password are required"))
		return
	}

	token, err := h.authService.Login(r.Context(), username, password)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}
