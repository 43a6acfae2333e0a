package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"stickynote/internal/model"
	"stickynote/internal/repository"
)

const noteColumns = `id, title, description, label_id, user_id, color, archived, pinned, files, version, created_at, updated_at`

// NotePostgres is a PostgreSQL implementation of repository.NoteRepository.
// Attachments are kept in a JSONB array on the note row so a note and its
// file list are always written together.
type NotePostgres struct {
	db *sql.DB
}

// NewNotePostgres creates a new NotePostgres repository.
func NewNotePostgres(db *sql.DB) *NotePostgres {
	return &NotePostgres{db: db}
}

var _ repository.NoteRepository = (*NotePostgres)(nil)

func scanNote(row rowScanner) (*model.Note, error) {
	var (
		n     model.Note
		label sql.NullString
		color sql.NullString
		files []byte
	)
	if err := row.Scan(
		&n.ID,
		&n.Title,
		&n.Description,
		&label,
		&n.UserID,
		&color,
		&n.Archived,
		&n.Pinned,
		&files,
		&n.Version,
		&n.CreatedAt,
		&n.UpdatedAt,
	); err != nil {
		return nil, err
	}
	n.LabelID = label.String
	n.Color = color.String
	n.Files = make([]model.Attachment, 0)
	if len(files) > 0 {
		if err := json.Unmarshal(files, &n.Files); err != nil {
			return nil, fmt.Errorf("decode note files: %w", err)
		}
	}
	return &n, nil
}

func encodeFiles(files []model.Attachment) (string, error) {
	if files == nil {
		files = []model.Attachment{}
	}
	b, err := json.Marshal(files)
	if err != nil {
		return "", fmt.Errorf("encode note files: %w", err)
	}
	return string(b), nil
}

// Create inserts a new note row and returns the stored record.
func (r *NotePostgres) Create(ctx context.Context, n *model.Note) (*model.Note, error) {
	files, err := encodeFiles(n.Files)
	if err != nil {
		return nil, err
	}
	const q = `
		INSERT INTO notes (id, title, description, label_id, user_id, color, archived, pinned, files, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, 1, $10, $10)
		RETURNING ` + noteColumns
	row := r.db.QueryRowContext(ctx, q,
		n.ID,
		n.Title,
		n.Description,
		nullString(n.LabelID),
		n.UserID,
		nullString(n.Color),
		n.Archived,
		n.Pinned,
		files,
		n.CreatedAt,
	)
	out, err := scanNote(row)
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return out, nil
}

// FindByID fetches a single note by its ID.
func (r *NotePostgres) FindByID(ctx context.Context, id string) (*model.Note, error) {
	const q = `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`
	return scanNote(r.db.QueryRowContext(ctx, q, id))
}

// Find returns the notes matching f, newest first.
func (r *NotePostgres) Find(ctx context.Context, f repository.NoteFilter) ([]model.Note, error) {
	q, args := buildNoteQuery(f)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func buildNoteQuery(f repository.NoteFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	add("user_id = $%d", f.UserID)
	if f.Archived != nil {
		add("archived = $%d", *f.Archived)
	}
	if f.Pinned != nil {
		add("pinned = $%d", *f.Pinned)
	}
	if f.LabelID != "" {
		add("label_id = $%d", f.LabelID)
	}
	if f.TitleLike != "" {
		add(`title ILIKE $%d ESCAPE '\'`, "%"+escapeLike(f.TitleLike)+"%")
	}
	if !f.CreatedFrom.IsZero() {
		add("created_at >= $%d", f.CreatedFrom)
	}
	if !f.CreatedUntil.IsZero() {
		add("created_at < $%d", f.CreatedUntil)
	}

	q := `SELECT ` + noteColumns + ` FROM notes WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY created_at DESC, id DESC`
	return q, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Save writes the mutable columns of n guarded by its version.
func (r *NotePostgres) Save(ctx context.Context, n *model.Note) (*model.Note, error) {
	files, err := encodeFiles(n.Files)
	if err != nil {
		return nil, err
	}
	const q = `
		UPDATE notes SET
			title = $3,
			description = $4,
			label_id = $5,
			color = $6,
			archived = $7,
			pinned = $8,
			files = $9::jsonb,
			version = version + 1,
			updated_at = now()
		WHERE id = $1 AND version = $2
		RETURNING ` + noteColumns
	row := r.db.QueryRowContext(ctx, q,
		n.ID,
		n.Version,
		n.Title,
		n.Description,
		nullString(n.LabelID),
		nullString(n.Color),
		n.Archived,
		n.Pinned,
		files,
	)
	out, err := scanNote(row)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, mapWriteErr(err)
	}

	// Nothing matched: either the note is gone or somebody else wrote first.
	var exists bool
	const qExists = `SELECT EXISTS (SELECT 1 FROM notes WHERE id = $1)`
	if err := r.db.QueryRowContext(ctx, qExists, n.ID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, repository.ErrVersionConflict
	}
	return nil, sql.ErrNoRows
}

// Delete removes a note by ID.
func (r *NotePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM notes WHERE id = $1`
	return execAffectingOne(r.db.ExecContext(ctx, q, id))
}
