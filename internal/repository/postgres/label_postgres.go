package postgres

import (
	"context"
	"database/sql"

	"stickynote/internal/model"
	"stickynote/internal/repository"
)

const labelColumns = `id, name, color, created_at, updated_at`

// LabelPostgres is a PostgreSQL implementation of repository.LabelRepository.
type LabelPostgres struct {
	db *sql.DB
}

func NewLabelPostgres(db *sql.DB) *LabelPostgres {
	return &LabelPostgres{db: db}
}

var _ repository.LabelRepository = (*LabelPostgres)(nil)

func scanLabel(row rowScanner) (*model.Label, error) {
	var (
		l     model.Label
		color sql.NullString
	)
	if err := row.Scan(&l.ID, &l.Name, &color, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.Color = color.String
	return &l, nil
}

func (r *LabelPostgres) Create(ctx context.Context, l *model.Label) (*model.Label, error) {
	const q = `
		INSERT INTO labels (id, name, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING ` + labelColumns
	out, err := scanLabel(r.db.QueryRowContext(ctx, q, l.ID, l.Name, nullString(l.Color), l.CreatedAt))
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return out, nil
}

func (r *LabelPostgres) FindByID(ctx context.Context, id string) (*model.Label, error) {
	const q = `SELECT ` + labelColumns + ` FROM labels WHERE id = $1`
	return scanLabel(r.db.QueryRowContext(ctx, q, id))
}

func (r *LabelPostgres) List(ctx context.Context) ([]model.Label, error) {
	const q = `SELECT ` + labelColumns + ` FROM labels ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Label, 0)
	for rows.Next() {
		l, err := scanLabel(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *l)
	}
	return items, rows.Err()
}

func (r *LabelPostgres) Update(ctx context.Context, id string, upd model.LabelUpdate) (*model.Label, error) {
	const q = `
		UPDATE labels SET
			name = COALESCE($2, name),
			color = COALESCE($3, color),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + labelColumns
	return scanLabel(r.db.QueryRowContext(ctx, q, id, upd.Name, upd.Color))
}

// Delete removes a label. Notes keep existing with no label.
func (r *LabelPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM labels WHERE id = $1`
	return execAffectingOne(r.db.ExecContext(ctx, q, id))
}
