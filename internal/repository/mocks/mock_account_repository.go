package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"stickynote/internal/model"
	"stickynote/internal/repository"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	args := m.Called(ctx, u)
	if v, ok := args.Get(0).(*model.User); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.User); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if v, ok := args.Get(0).(*model.User); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.User], error) {
	args := m.Called(ctx, pq)
	if v, ok := args.Get(0).(*repository.PageResult[model.User]); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	args := m.Called(ctx, id, upd)
	if v, ok := args.Get(0).(*model.User); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Create(ctx context.Context, a *model.Admin) (*model.Admin, error) {
	args := m.Called(ctx, a)
	if v, ok := args.Get(0).(*model.Admin); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAdminRepository) FindByID(ctx context.Context, id string) (*model.Admin, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Admin); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAdminRepository) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	args := m.Called(ctx, email)
	if v, ok := args.Get(0).(*model.Admin); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAdminRepository) FindByOTP(ctx context.Context, code string) (*model.Admin, error) {
	args := m.Called(ctx, code)
	if v, ok := args.Get(0).(*model.Admin); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAdminRepository) Update(ctx context.Context, id string, upd model.AdminUpdate) (*model.Admin, error) {
	args := m.Called(ctx, id, upd)
	if v, ok := args.Get(0).(*model.Admin); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAdminRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *MockAdminRepository) SetOTP(ctx context.Context, id, code string, expiresAt time.Time) error {
	return m.Called(ctx, id, code, expiresAt).Error(0)
}

func (m *MockAdminRepository) ClearOTP(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
