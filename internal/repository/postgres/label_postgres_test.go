package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stickynote/internal/model"
)

func TestLabelPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewLabelPostgres(db)
	ctx := context.Background()
	cols := []string{"id", "name", "color", "created_at", "updated_at"}
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO labels").
		WithArgs("l-1", "Work", nil, now).
		WillReturnRows(sqlmock.NewRows(cols).AddRow("l-1", "Work", nil, now, now))
	l, err := repo.Create(ctx, &model.Label{ID: "l-1", Name: "Work", CreatedAt: now})
	require.NoError(t, err)
	assert.Equal(t, "Work", l.Name)

	color := "#f00"
	mock.ExpectQuery("UPDATE labels SET").
		WithArgs("l-1", nil, color).
		WillReturnRows(sqlmock.NewRows(cols).AddRow("l-1", "Work", color, now, now))
	l, err = repo.Update(ctx, "l-1", model.LabelUpdate{Color: &color})
	require.NoError(t, err)
	assert.Equal(t, color, l.Color)

	mock.ExpectQuery("SELECT (.+) FROM labels ORDER BY").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("l-1", "Work", color, now, now))
	labels, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, labels, 1)

	mock.ExpectExec("DELETE FROM labels").
		WithArgs("l-2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, "l-2"), sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}
