// Package service implements the business operations behind the HTTP API.
// Services return *apperr.Error values for every failure a client can act on.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"stickynote/internal/apperr"
	"stickynote/internal/auth"
	"stickynote/internal/storage"
)

// imagesPrefix is the key prefix of every uploaded file.
const imagesPrefix = "images"

// FileUpload is an uploaded file handed to a service.
type FileUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(principalID string, role auth.Role) (string, error)
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

// files stores uploads and removes stored files on behalf of the services.
type files struct {
	store storage.Storage
	log   *slog.Logger
}

// put stores up under images/<uuid><ext> and returns the key.
func (f files) put(ctx context.Context, up FileUpload) (string, error) {
	if up.Reader == nil {
		return "", apperr.Validation("file is required")
	}
	ext := strings.ToLower(filepath.Ext(up.Filename))
	key := imagesPrefix + "/" + uuid.NewString() + ext

	ct := up.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	size := up.Size
	if size == 0 {
		size = -1
	}
	info, err := f.store.Put(ctx, key, up.Reader, storage.PutObjectOptions{
		Size:        size,
		ContentType: ct,
		Metadata: map[string]string{
			"original-filename": up.Filename,
		},
	})
	if err != nil {
		return "", fmt.Errorf("upload to storage: %w", err)
	}
	return info.Key, nil
}

// remove deletes a stored file if it is still there. Failures are logged and
// never returned.
func (f files) remove(ctx context.Context, key, reason string) {
	if key == "" {
		return
	}
	ok, err := f.store.Exists(ctx, key)
	if err == nil && !ok {
		return
	}
	if err := f.store.Delete(ctx, key); err != nil {
		f.log.WarnContext(ctx, "file_delete_failed",
			"key", key,
			"reason", reason,
			"error", err.Error(),
		)
	}
}

// passwordLength bounds passwords by bytes, not runes; bcrypt refuses longer input.
var passwordLength = validation.By(func(v interface{}) error {
	if s, _ := v.(string); len(s) > auth.MaxPasswordBytes {
		return validation.NewError("validation_password_too_long",
			fmt.Sprintf("must be at most %d bytes", auth.MaxPasswordBytes))
	}
	return nil
})

// validationError turns an ozzo-validation error into a client-facing one.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	return apperr.Validation(err.Error())
}
