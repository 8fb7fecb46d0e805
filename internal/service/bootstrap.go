package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/catalog-server/internal/logger"
	"github.com/dtroode/catalog-server/internal/model"
)

// Bootstrap provisions the administrator account.
type Bootstrap struct {
	userStore model.UserStore
	hasher    model.PasswordHasher
	email     string
	password  string
	logger    *logger.Logger
}

func NewBootstrap(userStore model.UserStore, hasher model.PasswordHasher, email, password string, logger *logger.Logger) *Bootstrap {
	return &Bootstrap{
		userStore: userStore,
		hasher:    hasher,
		email:     email,
		password:  password,
		logger:    logger,
	}
}

// EnsureSeedAdmin creates the administrator when no user has its email. It
// reports whether a user was created and is safe to call repeatedly.
func (b *Bootstrap) EnsureSeedAdmin(ctx context.Context) (bool, error) {
	_, err := b.userStore.GetByEmail(ctx, b.email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return false, fmt.Errorf("failed to get admin user: %w", err)
	}

	if err := validatePassword(b.password); err != nil {
		return false, fmt.Errorf("invalid admin password: %w", err)
	}

	hash, err := b.hasher.Hash(b.password)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}

	_, err = b.userStore.Create(ctx, model.User{Email: b.email, PasswordHash: hash})
	if errors.Is(err, model.ErrEmailTaken) {
		b.logger.Debug("Bootstrap: admin created concurrently", "email", b.email)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create admin user: %w", err)
	}

	b.logger.Info("Bootstrap: admin user created", "email", b.email)

	return true, nil
}

// ResetAdmin forces the administrator password back to the configured one,
// creating the account if it is missing.
func (b *Bootstrap) ResetAdmin(ctx context.Context) error {
	admin, err := b.userStore.GetByEmail(ctx, b.email)
	if errors.Is(err, model.ErrNotFound) {
		_, err := b.EnsureSeedAdmin(ctx)
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to get admin user: %w", err)
	}

	if err := validatePassword(b.password); err != nil {
		return fmt.Errorf("invalid admin password: %w", err)
	}

	hash, err := b.hasher.Hash(b.password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	if _, err := b.userStore.Update(ctx, admin.ID, model.UserPatch{Password: model.Some(hash)}); err != nil {
		return fmt.Errorf("failed to reset admin password: %w", err)
	}

	b.logger.Info("Bootstrap: admin password reset", "email", b.email)

	return nil
}
