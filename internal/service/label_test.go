package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stickynote/internal/apperr"
	"stickynote/internal/model"
	repoMocks "stickynote/internal/repository/mocks"
)

func TestLabelService(t *testing.T) {
	ctx := context.Background()

	t.Run("create requires a name", func(t *testing.T) {
		svc := NewLabelService(new(repoMocks.MockLabelRepository))
		_, err := svc.Create(ctx, CreateLabelInput{Name: "  "})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("create", func(t *testing.T) {
		repo := new(repoMocks.MockLabelRepository)
		repo.On("Create", ctx, mock.MatchedBy(func(l *model.Label) bool { return l.Name == "Work" })).
			Return(&model.Label{ID: "l-1", Name: "Work"}, nil)

		l, err := NewLabelService(repo).Create(ctx, CreateLabelInput{Name: " Work ", Color: "#f00"})

		require.NoError(t, err)
		assert.Equal(t, "l-1", l.ID)
	})

	t.Run("list is never nil", func(t *testing.T) {
		repo := new(repoMocks.MockLabelRepository)
		repo.On("List", ctx).Return(nil, nil)

		labels, err := NewLabelService(repo).List(ctx)

		require.NoError(t, err)
		assert.NotNil(t, labels)
	})

	t.Run("missing label", func(t *testing.T) {
		repo := new(repoMocks.MockLabelRepository)
		repo.On("FindByID", ctx, "l-9").Return(nil, sql.ErrNoRows)
		repo.On("Update", ctx, "l-9", mock.Anything).Return(nil, sql.ErrNoRows)
		repo.On("Delete", ctx, "l-9").Return(sql.ErrNoRows)
		svc := NewLabelService(repo)

		_, err := svc.Get(ctx, "l-9")
		assert.ErrorIs(t, err, ErrLabelNotFound)
		_, err = svc.Update(ctx, "l-9", model.LabelUpdate{Color: strPtr("#000")})
		assert.ErrorIs(t, err, ErrLabelNotFound)
		assert.ErrorIs(t, svc.Delete(ctx, "l-9"), ErrLabelNotFound)
	})
}
