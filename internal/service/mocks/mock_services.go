package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"stickynote/internal/model"
	"stickynote/internal/service"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, in service.RegisterUserInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if v, ok := args.Get(0).(*model.User); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, limit, offset int) (*service.UserListResult, error) {
	args := m.Called(ctx, limit, offset)
	if v, ok := args.Get(0).(*service.UserListResult); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.User); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id string, in service.ProfileInput, image *service.FileUpload) (*model.User, error) {
	args := m.Called(ctx, id, in, image)
	if v, ok := args.Get(0).(*model.User); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) Register(ctx context.Context, in service.RegisterAdminInput) (*model.Admin, error) {
	args := m.Called(ctx, in)
	if v, ok := args.Get(0).(*model.Admin); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAdminService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAdminService) Get(ctx context.Context, id string) (*model.Admin, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Admin); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAdminService) Update(ctx context.Context, id string, in service.ProfileInput, image *service.FileUpload) (*model.Admin, error) {
	args := m.Called(ctx, id, in, image)
	if v, ok := args.Get(0).(*model.Admin); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAdminService) ChangePassword(ctx context.Context, in service.ChangePasswordInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *MockAdminService) RequestReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAdminService) VerifyOTP(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

type MockNoteService struct {
	mock.Mock
}

func (m *MockNoteService) note(args mock.Arguments) (*model.Note, error) {
	if v, ok := args.Get(0).(*model.Note); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNoteService) notes(args mock.Arguments) ([]model.Note, error) {
	v, _ := args.Get(0).([]model.Note)
	return v, args.Error(1)
}

func (m *MockNoteService) Create(ctx context.Context, in service.CreateNoteInput) (*model.Note, error) {
	return m.note(m.Called(ctx, in))
}

func (m *MockNoteService) Get(ctx context.Context, id string) (*model.Note, error) {
	return m.note(m.Called(ctx, id))
}

func (m *MockNoteService) Update(ctx context.Context, id string, upd model.NoteUpdate) (*model.Note, error) {
	return m.note(m.Called(ctx, id, upd))
}

func (m *MockNoteService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockNoteService) TogglePin(ctx context.Context, id string) (*model.Note, error) {
	return m.note(m.Called(ctx, id))
}

func (m *MockNoteService) ToggleArchive(ctx context.Context, id string) (*model.Note, error) {
	return m.note(m.Called(ctx, id))
}

func (m *MockNoteService) ListByUser(ctx context.Context, userID string) ([]model.Note, error) {
	return m.notes(m.Called(ctx, userID))
}

func (m *MockNoteService) ListPinned(ctx context.Context, userID string) ([]model.Note, error) {
	return m.notes(m.Called(ctx, userID))
}

func (m *MockNoteService) ListArchived(ctx context.Context, userID string) ([]model.Note, error) {
	return m.notes(m.Called(ctx, userID))
}

func (m *MockNoteService) Search(ctx context.Context, userID, query string) ([]model.Note, error) {
	return m.notes(m.Called(ctx, userID, query))
}

func (m *MockNoteService) FilterByLabel(ctx context.Context, userID, labelID string) ([]model.Note, error) {
	return m.notes(m.Called(ctx, userID, labelID))
}

func (m *MockNoteService) FilterByDate(ctx context.Context, userID string, day time.Time) ([]model.Note, error) {
	return m.notes(m.Called(ctx, userID, day))
}

type MockAttachmentService struct {
	mock.Mock
}

func (m *MockAttachmentService) Add(ctx context.Context, noteID string, uploads []service.FileUpload) (*model.Note, error) {
	args := m.Called(ctx, noteID, uploads)
	if v, ok := args.Get(0).(*model.Note); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAttachmentService) Remove(ctx context.Context, noteID string, index int) (*model.Note, error) {
	args := m.Called(ctx, noteID, index)
	if v, ok := args.Get(0).(*model.Note); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockLabelService struct {
	mock.Mock
}

func (m *MockLabelService) Create(ctx context.Context, in service.CreateLabelInput) (*model.Label, error) {
	args := m.Called(ctx, in)
	if v, ok := args.Get(0).(*model.Label); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLabelService) List(ctx context.Context) ([]model.Label, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]model.Label)
	return v, args.Error(1)
}

func (m *MockLabelService) Get(ctx context.Context, id string) (*model.Label, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Label); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLabelService) Update(ctx context.Context, id string, upd model.LabelUpdate) (*model.Label, error) {
	args := m.Called(ctx, id, upd)
	if v, ok := args.Get(0).(*model.Label); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLabelService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
