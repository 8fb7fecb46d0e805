package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/catalog-server/internal/model"
)

type ProductService struct {
	mock.Mock
}

func (m *ProductService) ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	args := m.Called(ctx, filter)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Error(1)
}

func (m *ProductService) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *ProductService) CreateProduct(ctx context.Context, in model.ProductInput, upload *model.Upload) (model.Product, error) {
	args := m.Called(ctx, in, upload)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *ProductService) UpdateProduct(ctx context.Context, id int64, patch model.ProductPatch, upload *model.Upload) (model.Product, error) {
	args := m.Called(ctx, id, patch, upload)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ProductService) ListCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]string)
	return categories, args.Error(1)
}

type UserService struct {
	mock.Mock
}

func (m *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *UserService) GetUser(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserService) CreateUser(ctx context.Context, in model.UserInput) (model.User, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserService) UpdateUser(ctx context.Context, id int64, patch model.UserPatch) (model.User, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserService) DeleteUser(ctx context.Context, actorID, id int64) error {
	return m.Called(ctx, actorID, id).Error(0)
}

func (m *UserService) UpdateProfile(ctx context.Context, actor model.User, patch model.ProfilePatch) (model.User, error) {
	args := m.Called(ctx, actor, patch)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserService) ChangePassword(ctx context.Context, actor model.User, change model.PasswordChange) error {
	return m.Called(ctx, actor, change).Error(0)
}

type AuthService struct {
	mock.Mock
}

func (m *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *AuthService) Authenticate(ctx context.Context, token string) (model.User, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.User), args.Error(1)
}

type AssetService struct {
	mock.Mock
}

func (m *AssetService) Open(ctx context.Context, name string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, name)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.String(1), args.Error(2)
}
