package model

import (
	"context"
	"time"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	List(ctx context.Context) ([]User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	Create(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, id int64, patch UserPatch) (User, error)
	Delete(ctx context.Context, id int64) error
}

// User represents an account allowed to manage the catalog.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         *string   `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// UserInput contains the fields required to create a user.
type UserInput struct {
	Email    string  `json:"email"`
	Name     *string `json:"name"`
	Password string  `json:"password"`
}

// UserPatch is a partial user update.
//
// Password carries the plaintext on the way in; services replace it with the
// hash before it reaches a UserStore.
type UserPatch struct {
	Email    Optional[string] `json:"email"`
	Name     Optional[string] `json:"name"`
	Password Optional[string] `json:"password"`
}

// ProfilePatch is the self-service subset of UserPatch.
type ProfilePatch struct {
	Email Optional[string] `json:"email"`
	Name  Optional[string] `json:"name"`
}

// PasswordChange is a request to replace the caller's password.
type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
