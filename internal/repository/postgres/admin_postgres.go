package postgres

import (
	"context"
	"database/sql"
	"time"

	"stickynote/internal/model"
	"stickynote/internal/repository"
)

const adminColumns = `id, name, email, password_hash, profile_image, otp_code, otp_expires_at, created_at, updated_at`

// AdminPostgres is a PostgreSQL implementation of repository.AdminRepository.
type AdminPostgres struct {
	db *sql.DB
}

// NewAdminPostgres creates a new AdminPostgres repository.
func NewAdminPostgres(db *sql.DB) *AdminPostgres {
	return &AdminPostgres{db: db}
}

var _ repository.AdminRepository = (*AdminPostgres)(nil)

func scanAdmin(row rowScanner) (*model.Admin, error) {
	var (
		a       model.Admin
		img     sql.NullString
		otp     sql.NullString
		expires sql.NullTime
	)
	if err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.PasswordHash,
		&img,
		&otp,
		&expires,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	a.ProfileImage = img.String
	if otp.Valid && expires.Valid {
		a.OTPCode = &otp.String
		a.OTPExpiresAt = &expires.Time
	}
	return &a, nil
}

// Create inserts a new admin row and returns the stored record.
func (r *AdminPostgres) Create(ctx context.Context, a *model.Admin) (*model.Admin, error) {
	const q = `
		INSERT INTO admins (id, name, email, password_hash, profile_image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING ` + adminColumns
	row := r.db.QueryRowContext(ctx, q,
		a.ID,
		a.Name,
		a.Email,
		a.PasswordHash,
		nullString(a.ProfileImage),
		a.CreatedAt,
	)
	out, err := scanAdmin(row)
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return out, nil
}

// FindByID fetches a single admin by its ID.
func (r *AdminPostgres) FindByID(ctx context.Context, id string) (*model.Admin, error) {
	const q = `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`
	return scanAdmin(r.db.QueryRowContext(ctx, q, id))
}

// FindByEmail fetches a single admin by its email address.
func (r *AdminPostgres) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	const q = `SELECT ` + adminColumns + ` FROM admins WHERE email = $1`
	return scanAdmin(r.db.QueryRowContext(ctx, q, email))
}

// FindByOTP fetches the admin holding the given pending code. When several
// admins hold the same code the most recently issued one wins.
func (r *AdminPostgres) FindByOTP(ctx context.Context, code string) (*model.Admin, error) {
	const q = `SELECT ` + adminColumns + `
		FROM admins
		WHERE otp_code = $1
		ORDER BY otp_expires_at DESC
		LIMIT 1`
	return scanAdmin(r.db.QueryRowContext(ctx, q, code))
}

// Update applies the non-nil fields of upd.
func (r *AdminPostgres) Update(ctx context.Context, id string, upd model.AdminUpdate) (*model.Admin, error) {
	const q = `
		UPDATE admins SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			profile_image = COALESCE($4, profile_image),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + adminColumns
	row := r.db.QueryRowContext(ctx, q, id, upd.Name, upd.Email, upd.ProfileImage)
	out, err := scanAdmin(row)
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return out, nil
}

// UpdatePassword overwrites the stored password hash.
func (r *AdminPostgres) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const q = `UPDATE admins SET password_hash = $2, updated_at = now() WHERE id = $1`
	return execAffectingOne(r.db.ExecContext(ctx, q, id, passwordHash))
}

// SetOTP stores a pending reset code with its expiry.
func (r *AdminPostgres) SetOTP(ctx context.Context, id, code string, expiresAt time.Time) error {
	const q = `UPDATE admins SET otp_code = $2, otp_expires_at = $3, updated_at = now() WHERE id = $1`
	return execAffectingOne(r.db.ExecContext(ctx, q, id, code, expiresAt))
}

// ClearOTP drops the pending reset code and its expiry.
func (r *AdminPostgres) ClearOTP(ctx context.Context, id string) error {
	const q = `UPDATE admins SET otp_code = NULL, otp_expires_at = NULL, updated_at = now() WHERE id = $1`
	return execAffectingOne(r.db.ExecContext(ctx, q, id))
}
