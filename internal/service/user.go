package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/dtroode/catalog-server/internal/logger"
	"github.com/dtroode/catalog-server/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type User struct {
	store  model.UserStore
	hasher model.PasswordHasher
	logger *logger.Logger
}

func NewUser(store model.UserStore, hasher model.PasswordHasher, logger *logger.Logger) *User {
	return &User{
		store:  store,
		hasher: hasher,
		logger: logger,
	}
}

func (s *User) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *User) GetUser(ctx context.Context, id int64) (model.User, error) {
	user, err := s.store.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.NewNotFoundError("User")
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func (s *User) CreateUser(ctx context.Context, in model.UserInput) (model.User, error) {
	if err := validateEmail(in.Email); err != nil {
		return model.User{}, err
	}
	if err := validatePassword(in.Password); err != nil {
		return model.User{}, err
	}

	if err := s.ensureEmailFree(ctx, in.Email, 0); err != nil {
		return model.User{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.store.Create(ctx, model.User{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
	})
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User service: user created", "user_id", user.ID)

	return user, nil
}

// UpdateUser applies the set fields of patch. A set password is hashed before
// it reaches the store.
func (s *User) UpdateUser(ctx context.Context, id int64, patch model.UserPatch) (model.User, error) {
	current, err := s.GetUser(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	if email, ok := patch.Email.Get(); ok {
		if err := validateEmail(email); err != nil {
			return model.User{}, err
		}
		if email == current.Email {
			patch.Email = model.Optional[string]{}
		} else if err := s.ensureEmailFree(ctx, email, id); err != nil {
			return model.User{}, err
		}
	}

	if password, ok := patch.Password.Get(); ok {
		if err := validatePassword(password); err != nil {
			return model.User{}, err
		}
		hash, err := s.hasher.Hash(password)
		if err != nil {
			return model.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		patch.Password = model.Some(hash)
	}

	updated, err := s.store.Update(ctx, id, patch)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.NewNotFoundError("User")
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	return updated, nil
}

// DeleteUser removes the user with the given id on behalf of actorID. Users
// can never delete themselves.
func (s *User) DeleteUser(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return model.ErrSelfDeletion
	}

	err := s.store.Delete(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.NewNotFoundError("User")
	}
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("User service: user deleted", "user_id", id, "actor_id", actorID)

	return nil
}

func (s *User) UpdateProfile(ctx context.Context, actor model.User, patch model.ProfilePatch) (model.User, error) {
	return s.UpdateUser(ctx, actor.ID, model.UserPatch{
		Email: patch.Email,
		Name:  patch.Name,
	})
}

func (s *User) ChangePassword(ctx context.Context, actor model.User, change model.PasswordChange) error {
	if !s.hasher.Verify(change.CurrentPassword, actor.PasswordHash) {
		return model.ErrIncorrectPassword
	}
	if err := validatePassword(change.NewPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(change.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.store.Update(ctx, actor.ID, model.UserPatch{Password: model.Some(hash)})
	if errors.Is(err, model.ErrNotFound) {
		return model.NewNotFoundError("User")
	}
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("User service: password changed", "user_id", actor.ID)

	return nil
}

// ensureEmailFree reports ErrEmailTaken when email belongs to a user other
// than selfID.
func (s *User) ensureEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := s.store.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get user by email: %w", err)
	}
	if existing.ID != selfID {
		return model.ErrEmailTaken
	}
	return nil
}

func validateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return model.NewValidationErrorf("Invalid email address %q", email)
	}
	return nil
}

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

func validatePassword(password string) error {
	if password == "" {
		return model.NewValidationError("Password must not be empty")
	}
	if len(password) > maxPasswordBytes {
		return model.NewValidationErrorf("Password must be at most %d bytes", maxPasswordBytes)
	}
	return nil
}
