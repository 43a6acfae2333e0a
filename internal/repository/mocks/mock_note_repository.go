package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"stickynote/internal/model"
	"stickynote/internal/repository"
)

type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) Create(ctx context.Context, n *model.Note) (*model.Note, error) {
	args := m.Called(ctx, n)
	if v, ok := args.Get(0).(*model.Note); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNoteRepository) FindByID(ctx context.Context, id string) (*model.Note, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.Note); ok {
		return f(ctx, id), args.Error(1)
	}
	if v, ok := args.Get(0).(*model.Note); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNoteRepository) Find(ctx context.Context, f repository.NoteFilter) ([]model.Note, error) {
	args := m.Called(ctx, f)
	v, _ := args.Get(0).([]model.Note)
	return v, args.Error(1)
}

func (m *MockNoteRepository) Save(ctx context.Context, n *model.Note) (*model.Note, error) {
	args := m.Called(ctx, n)
	if f, ok := args.Get(0).(func(context.Context, *model.Note) *model.Note); ok {
		return f(ctx, n), args.Error(1)
	}
	if v, ok := args.Get(0).(*model.Note); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNoteRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockLabelRepository struct {
	mock.Mock
}

func (m *MockLabelRepository) Create(ctx context.Context, l *model.Label) (*model.Label, error) {
	args := m.Called(ctx, l)
	if v, ok := args.Get(0).(*model.Label); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLabelRepository) FindByID(ctx context.Context, id string) (*model.Label, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Label); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLabelRepository) List(ctx context.Context) ([]model.Label, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]model.Label)
	return v, args.Error(1)
}

func (m *MockLabelRepository) Update(ctx context.Context, id string, upd model.LabelUpdate) (*model.Label, error) {
	args := m.Called(ctx, id, upd)
	if v, ok := args.Get(0).(*model.Label); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLabelRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
