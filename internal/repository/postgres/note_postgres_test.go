package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stickynote/internal/model"
	"stickynote/internal/repository"
)

var noteRowColumns = []string{"id", "title", "description", "label_id", "user_id", "color", "archived", "pinned", "files", "version", "created_at", "updated_at"}

func TestNotePostgres_FindByID_DecodesFiles(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM notes WHERE id = ?").
		WithArgs("n-1").
		WillReturnRows(sqlmock.NewRows(noteRowColumns).
			AddRow("n-1", "t", "d", "l-1", "u-1", nil, false, true,
				`[{"index":0,"url":"images/a"},{"index":1,"url":"images/b"}]`, 3, time.Now(), time.Now()))

	n, err := NewNotePostgres(db).FindByID(context.Background(), "n-1")

	require.NoError(t, err)
	assert.Equal(t, []model.Attachment{{Index: 0, URL: "images/a"}, {Index: 1, URL: "images/b"}}, n.Files)
	assert.Equal(t, int64(3), n.Version)
	assert.True(t, n.Pinned)
	assert.Empty(t, n.Color)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotePostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	n := &model.Note{ID: "n-1", Title: "t", Description: "d", LabelID: "l-1", UserID: "u-1", Color: "#fff", CreatedAt: now}

	mock.ExpectQuery("INSERT INTO notes").
		WithArgs("n-1", "t", "d", "l-1", "u-1", "#fff", false, false, "[]", now).
		WillReturnRows(sqlmock.NewRows(noteRowColumns).
			AddRow("n-1", "t", "d", "l-1", "u-1", "#fff", false, false, "[]", 1, now, now))

	out, err := NewNotePostgres(db).Create(context.Background(), n)

	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Version)
	assert.NotNil(t, out.Files)
	assert.Empty(t, out.Files)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotePostgres_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewNotePostgres(db)
	ctx := context.Background()
	n := &model.Note{
		ID: "n-1", Title: "t", Description: "d", UserID: "u-1", Version: 4,
		Files: []model.Attachment{{Index: 0, URL: "images/a"}},
	}
	files := `[{"index":0,"url":"images/a"}]`

	t.Run("success bumps version", func(t *testing.T) {
		mock.ExpectQuery("UPDATE notes SET").
			WithArgs("n-1", int64(4), "t", "d", nil, nil, false, false, files).
			WillReturnRows(sqlmock.NewRows(noteRowColumns).
				AddRow("n-1", "t", "d", nil, "u-1", nil, false, false, files, 5, time.Now(), time.Now()))

		out, err := repo.Save(ctx, n)

		require.NoError(t, err)
		assert.Equal(t, int64(5), out.Version)
	})

	t.Run("stale version", func(t *testing.T) {
		mock.ExpectQuery("UPDATE notes SET").WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("n-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		_, err := repo.Save(ctx, n)

		assert.ErrorIs(t, err, repository.ErrVersionConflict)
	})

	t.Run("note deleted", func(t *testing.T) {
		mock.ExpectQuery("UPDATE notes SET").WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("n-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		_, err := repo.Save(ctx, n)

		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotePostgres_Find(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	archived := false
	mock.ExpectQuery("SELECT (.+) FROM notes WHERE user_id = (.+) AND archived = (.+) AND title ILIKE").
		WithArgs("u-1", false, `%50\%\_off%`).
		WillReturnRows(sqlmock.NewRows(noteRowColumns).
			AddRow("n-1", "50%_off sale", "d", nil, "u-1", nil, false, false, "[]", 1, time.Now(), time.Now()))

	notes, err := NewNotePostgres(db).Find(context.Background(), repository.NoteFilter{
		UserID:    "u-1",
		Archived:  &archived,
		TitleLike: "50%_off",
	})

	require.NoError(t, err)
	assert.Len(t, notes, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildNoteQuery_DateWindow(t *testing.T) {
	from := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	q, args := buildNoteQuery(repository.NoteFilter{UserID: "u-1", CreatedFrom: from, CreatedUntil: from.AddDate(0, 0, 1)})

	assert.Contains(t, q, "created_at >= $2 AND created_at < $3")
	assert.Equal(t, []any{"u-1", from, from.AddDate(0, 0, 1)}, args)
}

func TestNotePostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM notes WHERE id = ?").
		WithArgs("n-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, NewNotePostgres(db).Delete(context.Background(), "n-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotePostgres_Create_MissingParent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO notes").WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err = NewNotePostgres(db).Create(context.Background(), &model.Note{ID: "n-1", UserID: "u-x"})

	assert.ErrorIs(t, err, repository.ErrInvalidReference)
	assert.NoError(t, mock.ExpectationsWereMet())
}
