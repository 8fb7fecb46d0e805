package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/catalog-server/internal/logger"
	"github.com/dtroode/catalog-server/internal/model"
)

const maxJSONBody = 1 << 20

// UserService manages user accounts.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	CreateUser(ctx context.Context, in model.UserInput) (model.User, error)
	UpdateUser(ctx context.Context, id int64, patch model.UserPatch) (model.User, error)
	DeleteUser(ctx context.Context, actorID, id int64) error
	UpdateProfile(ctx context.Context, actor model.User, patch model.ProfilePatch) (model.User, error)
	ChangePassword(ctx context.Context, actor model.User, change model.PasswordChange) error
}

type User struct {
	userService UserService
	ctxManager  model.ContextManager
	logger      *logger.Logger
}

func NewUser(userService UserService, ctxManager model.ContextManager, logger *logger.Logger) *User {
	return &User{
		userService: userService,
		ctxManager:  ctxManager,
		logger:      logger,
	}
}

func (h *User) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *User) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	user, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *User) Create(w http.ResponseWriter, r *http.Request) {
	var in model.UserInput
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	user, err := h.userService.CreateUser(r.Context(), in)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *User) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	var patch model.UserPatch
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := decodeJSON(r, &patch); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), id, patch)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *User) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	if err := h.userService.DeleteUser(r.Context(), actor.ID, id); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "User deleted successfully"})
}

func (h *User) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var patch model.ProfilePatch
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := decodeJSON(r, &patch); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), actor, patch)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *User) ChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var change model.PasswordChange
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := decodeJSON(r, &change); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	if err := h.userService.ChangePassword(r.Context(), actor, change); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Password updated successfully"})
}

// actor returns the authenticated caller. Routes using it sit behind the
// authentication middleware, so a missing user is answered with 401.
func (h *User) actor(w http.ResponseWriter, r *http.Request) (model.User, bool) {
	user, ok := h.ctxManager.GetUserFromContext(r.Context())
	if !ok {
		WriteError(w, h.logger, model.ErrMissingToken)
		return model.User{}, false
	}
	return user, true
}
