package postgres

import (
	"context"
	"database/sql"

	"stickynote/internal/model"
	"stickynote/internal/repository"
)

const userColumns = `id, name, phone, email, password_hash, profile_image, created_at, updated_at`

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u   model.User
		img sql.NullString
	)
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Phone,
		&u.Email,
		&u.PasswordHash,
		&img,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.ProfileImage = img.String
	return &u, nil
}

// Create inserts a new user row and returns the stored record.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (id, name, phone, email, password_hash, profile_image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, q,
		u.ID,
		u.Name,
		u.Phone,
		u.Email,
		u.PasswordHash,
		nullString(u.ProfileImage),
		u.CreatedAt,
	)
	out, err := scanUser(row)
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return out, nil
}

// FindByID fetches a single user by its ID.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// FindByEmail fetches a single user by its email address.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

// List returns users using LIMIT/OFFSET pagination and a total count.
func (r *UserPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.User], error) {
	const qCount = `SELECT COUNT(*) FROM users`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.User]{
		Items: items,
		Total: total,
	}, nil
}

// Update applies the non-nil fields of upd. Absent fields keep their value.
func (r *UserPostgres) Update(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	const q = `
		UPDATE users SET
			name = COALESCE($2, name),
			phone = COALESCE($3, phone),
			email = COALESCE($4, email),
			profile_image = COALESCE($5, profile_image),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, q, id, upd.Name, upd.Phone, upd.Email, upd.ProfileImage)
	out, err := scanUser(row)
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return out, nil
}

// UpdatePassword overwrites the stored password hash.
func (r *UserPostgres) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const q = `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`
	return execAffectingOne(r.db.ExecContext(ctx, q, id, passwordHash))
}

// Delete removes a user by ID. Notes of the user are removed by the
// foreign key cascade.
func (r *UserPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM users WHERE id = $1`
	return execAffectingOne(r.db.ExecContext(ctx, q, id))
}
