package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dtroode/catalog-server/internal/logger"
	"github.com/dtroode/catalog-server/internal/model"
)

type Auth struct {
	userStore model.UserStore
	hasher    model.PasswordHasher
	tokens    model.TokenManager
	logger    *logger.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokens model.TokenManager,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore: userStore,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
	}
}

// Login exchanges an email and password for an access token. Unknown emails
// and wrong passwords fail the same way.
func (a *Auth) Login(ctx context.Context, email, password string) (string, error) {
	a.logger.Debug("Auth service: login attempt", "email", email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.hasher.Verify(password, a.dummy())
		a.logger.Info("Auth service: login rejected", "email", email)
		return "", model.ErrInvalidCredentials
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return "", fmt.Errorf("failed to get user by email: %w", err)
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		a.logger.Info("Auth service: login rejected", "email", email)
		return "", model.ErrInvalidCredentials
	}

	token, err := a.tokens.Issue(user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to issue access token: %w", err)
	}

	a.logger.Info("Auth service: user logged in", "user_id", user.ID)

	return token, nil
}

// Authenticate resolves a bearer token to the user it was issued for.
func (a *Auth) Authenticate(ctx context.Context, token string) (model.User, error) {
	if token == "" {
		return model.User{}, model.ErrMissingToken
	}

	subject, err := a.tokens.Verify(token)
	if err != nil {
		a.logger.Debug("Auth service: token rejected", "error", err.Error())
		return model.User{}, err
	}

	user, err := a.userStore.GetByEmail(ctx, subject)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.ErrUnknownSubject
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// dummy returns a hash that unknown-email logins are checked against.
func (a *Auth) dummy() string {
	a.dummyOnce.Do(func() {
		hash, err := a.hasher.Hash("catalog-dummy-password")
		if err != nil {
			a.logger.Error("Auth service: failed to prepare dummy hash", "error", err.Error())
			return
		}
		a.dummyHash = hash
	})
	return a.dummyHash
}
