package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	httpctx "github.com/dtroode/catalog-server/internal/api/http/context"
	servermocks "github.com/dtroode/catalog-server/internal/mocks"
	"github.com/dtroode/catalog-server/internal/model"
	"github.com/dtroode/catalog-server/internal/testutil"
)

var admin = model.User{ID: 1, Email: "admin@example.com"}

func newTestUserHandler(svc *servermocks.UserService) *User {
	return NewUser(svc, httpctx.NewManager(), testutil.MakeNoopLogger())
}

func asActor(r *http.Request, user model.User) *http.Request {
	ctx := httpctx.NewManager().SetUserToContext(r.Context(), user)
	return r.WithContext(ctx)
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestUser_List(t *testing.T) {
	svc := &servermocks.UserService{}
	svc.On("ListUsers", mock.Anything).Return([]model.User{admin}, nil)

	rec := httptest.NewRecorder()
	newTestUserHandler(svc).List(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"email":"admin@example.com","name":null}]`, rec.Body.String())
}

func TestUser_Get_NotFound(t *testing.T) {
	svc := &servermocks.UserService{}
	svc.On("GetUser", mock.Anything, int64(42)).Return(model.User{}, model.NewNotFoundError("User"))

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/users/42", nil), map[string]string{"id": "42"})
	rec := httptest.NewRecorder()
	newTestUserHandler(svc).Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"User not found"}`, rec.Body.String())
}

func TestUser_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "created",
			body:       `{"email":"new@example.com","password":"pw"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"id":2,"email":"new@example.com","name":null}`,
		},
		{
			name:       "duplicate email",
			body:       `{"email":"admin@example.com","password":"pw"}`,
			svcErr:     model.ErrEmailTaken,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"detail":"Email already registered"}`,
		},
		{
			name:       "malformed json",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"detail":"Invalid request body"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &servermocks.UserService{}
			svc.On("CreateUser", mock.Anything, mock.Anything).
				Return(model.User{ID: 2, Email: "new@example.com"}, tt.svcErr).Maybe()

			rec := httptest.NewRecorder()
			newTestUserHandler(svc).Create(rec, jsonRequest(http.MethodPost, "/api/users", tt.body))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestUser_Update_DecodesPartialPatch(t *testing.T) {
	svc := &servermocks.UserService{}
	want := model.UserPatch{Name: model.Some("Root")}
	svc.On("UpdateUser", mock.Anything, int64(1), want).Return(admin, nil)

	req := mux.SetURLVars(jsonRequest(http.MethodPut, "/api/users/1", `{"name":"Root","email":null}`), map[string]string{"id": "1"})
	rec := httptest.NewRecorder()
	newTestUserHandler(svc).Update(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestUser_Delete(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		svcErr     error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "deleted",
			id:         "2",
			wantStatus: http.StatusOK,
			wantBody:   `{"message":"User deleted successfully"}`,
		},
		{
			name:       "self deletion",
			id:         "1",
			svcErr:     model.ErrSelfDeletion,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"detail":"Cannot delete your own account"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &servermocks.UserService{}
			svc.On("DeleteUser", mock.Anything, admin.ID, mock.Anything).Return(tt.svcErr)

			req := httptest.NewRequest(http.MethodDelete, "/api/users/"+tt.id, nil)
			req = asActor(mux.SetURLVars(req, map[string]string{"id": tt.id}), admin)
			rec := httptest.NewRecorder()
			newTestUserHandler(svc).Delete(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestUser_Delete_WithoutActor(t *testing.T) {
	svc := &servermocks.UserService{}

	req := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/api/users/2", nil), map[string]string{"id": "2"})
	rec := httptest.NewRecorder()
	newTestUserHandler(svc).Delete(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	svc.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestUser_UpdateProfile(t *testing.T) {
	svc := &servermocks.UserService{}
	want := model.ProfilePatch{Email: model.Some("me@example.com")}
	svc.On("UpdateProfile", mock.Anything, admin, want).Return(model.User{ID: 1, Email: "me@example.com"}, nil)

	req := asActor(jsonRequest(http.MethodPut, "/api/profile", `{"email":"me@example.com"}`), admin)
	rec := httptest.NewRecorder()
	newTestUserHandler(svc).UpdateProfile(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"email":"me@example.com","name":null}`, rec.Body.String())
}

func TestUser_ChangePassword(t *testing.T) {
	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "changed",
			wantStatus: http.StatusOK,
			wantBody:   `{"message":"Password updated successfully"}`,
		},
		{
			name:       "wrong current password",
			svcErr:     model.ErrIncorrectPassword,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"detail":"Incorrect current password"}`,
		},
		{
			name:       "store failure",
			svcErr:     assert.AnError,
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"detail":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &servermocks.UserService{}
			change := model.PasswordChange{CurrentPassword: "old", NewPassword: "new"}
			svc.On("ChangePassword", mock.Anything, admin, change).Return(tt.svcErr)

			body := `{"current_password":"old","new_password":"new"}`
			req := asActor(jsonRequest(http.MethodPost, "/api/change-password", body), admin)
			rec := httptest.NewRecorder()
			newTestUserHandler(svc).ChangePassword(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestUser_ChangePassword_ContextCarriesActor(t *testing.T) {
	svc := &servermocks.UserService{}
	svc.On("ChangePassword", mock.MatchedBy(func(ctx context.Context) bool {
		user, ok := httpctx.NewManager().GetUserFromContext(ctx)
		return ok && user.ID == admin.ID
	}), admin, mock.Anything).Return(nil)

	req := asActor(jsonRequest(http.MethodPost, "/api/change-password", `{}`), admin)
	rec := httptest.NewRecorder()
	newTestUserHandler(svc).ChangePassword(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}
