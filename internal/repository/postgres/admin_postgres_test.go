package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var adminRowColumns = []string{"id", "name", "email", "password_hash", "profile_image", "otp_code", "otp_expires_at", "created_at", "updated_at"}

func TestAdminPostgres_FindByOTP(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAdminPostgres(db)
	ctx := context.Background()
	expires := time.Now().Add(10 * time.Minute).UTC()

	t.Run("pending code", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM admins WHERE otp_code = ?").
			WithArgs("4821").
			WillReturnRows(sqlmock.NewRows(adminRowColumns).
				AddRow("a-1", "Root", "root@example.com", "hash", nil, "4821", expires, time.Now(), time.Now()))

		a, err := repo.FindByOTP(ctx, "4821")

		require.NoError(t, err)
		require.True(t, a.HasPendingReset())
		assert.Equal(t, "4821", *a.OTPCode)
		assert.True(t, expires.Equal(*a.OTPExpiresAt))
	})

	t.Run("no match", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM admins WHERE otp_code = ?").
			WithArgs("0000").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByOTP(ctx, "0000")

		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminPostgres_FindByID_WithoutPendingReset(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM admins WHERE id = ?").
		WithArgs("a-1").
		WillReturnRows(sqlmock.NewRows(adminRowColumns).
			AddRow("a-1", "Root", "root@example.com", "hash", "images/me.png", nil, nil, time.Now(), time.Now()))

	a, err := NewAdminPostgres(db).FindByID(context.Background(), "a-1")

	require.NoError(t, err)
	assert.False(t, a.HasPendingReset())
	assert.Nil(t, a.OTPCode)
	assert.Equal(t, "images/me.png", a.ProfileImage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminPostgres_SetAndClearOTP(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAdminPostgres(db)
	ctx := context.Background()
	expires := time.Now().Add(10 * time.Minute)

	mock.ExpectExec("UPDATE admins SET otp_code = \\$2, otp_expires_at = \\$3").
		WithArgs("a-1", "4821", expires).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetOTP(ctx, "a-1", "4821", expires))

	mock.ExpectExec("UPDATE admins SET otp_code = NULL, otp_expires_at = NULL").
		WithArgs("a-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.ClearOTP(ctx, "a-1"))

	mock.ExpectExec("UPDATE admins SET otp_code = NULL").
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.ClearOTP(ctx, "gone"), sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminPostgres_UpdatePassword(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE admins SET password_hash").
		WithArgs("a-1", "new-hash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, NewAdminPostgres(db).UpdatePassword(context.Background(), "a-1", "new-hash"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
