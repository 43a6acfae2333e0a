package repository

import (
	"context"
	"time"

	"stickynote/internal/model"
)

// UserRepository defines data access for user accounts.
// Persistence only; no business rules.
type UserRepository interface {
	// Create inserts a new user. Returns ErrDuplicate if the email is taken.
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, pq PageQuery) (*PageResult[model.User], error)
	// Update applies the non-nil fields of upd and returns the stored row.
	Update(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// Delete removes a user and returns sql.ErrNoRows when it did not exist.
	Delete(ctx context.Context, id string) error
}

// AdminRepository defines data access for admin accounts, including the
// pending password-reset code.
type AdminRepository interface {
	Create(ctx context.Context, a *model.Admin) (*model.Admin, error)
	FindByID(ctx context.Context, id string) (*model.Admin, error)
	FindByEmail(ctx context.Context, email string) (*model.Admin, error)
	// FindByOTP returns the admin whose pending code equals code.
	FindByOTP(ctx context.Context, code string) (*model.Admin, error)
	Update(ctx context.Context, id string, upd model.AdminUpdate) (*model.Admin, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// SetOTP stores a pending code and its expiry together.
	SetOTP(ctx context.Context, id, code string, expiresAt time.Time) error
	// ClearOTP removes the pending code and its expiry together.
	ClearOTP(ctx context.Context, id string) error
}
