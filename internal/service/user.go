package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"stickynote/internal/apperr"
	"stickynote/internal/auth"
	"stickynote/internal/model"
	"stickynote/internal/repository"
	"stickynote/internal/storage"
)

var (
	ErrEmailTaken        = apperr.Conflict("email already exists")
	ErrIncorrectPassword = apperr.Auth("incorrect password")
	ErrUserNotFound      = apperr.NotFound("user not found")
)

// RegisterUserInput carries the fields of a new user account.
type RegisterUserInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in RegisterUserInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.Phone, validation.Required),
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.Password, validation.Required, passwordLength),
	)
}

// ProfileInput is a partial profile change. Nil fields are left untouched.
// Admins have no phone; the field is ignored for them.
type ProfileInput struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

func (in ProfileInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.NilOrNotEmpty),
		validation.Field(&in.Phone, validation.NilOrNotEmpty),
		validation.Field(&in.Email, validation.NilOrNotEmpty, is.EmailFormat),
	)
}

// UserListResult is one page of users.
type UserListResult struct {
	Items  []model.User `json:"items"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// UserService defines user account operations.
type UserService interface {
	Register(ctx context.Context, in RegisterUserInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	List(ctx context.Context, limit, offset int) (*UserListResult, error)
	Get(ctx context.Context, id string) (*model.User, error)
	Update(ctx context.Context, id string, in ProfileInput, image *FileUpload) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

type userService struct {
	repo   repository.UserRepository
	notes  repository.NoteRepository
	files  files
	hasher PasswordHasher
	tokens TokenIssuer
	log    *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(
	repo repository.UserRepository,
	notes repository.NoteRepository,
	store storage.Storage,
	hasher PasswordHasher,
	tokens TokenIssuer,
	log *slog.Logger,
) UserService {
	return &userService{
		repo:   repo,
		notes:  notes,
		files:  files{store: store, log: log},
		hasher: hasher,
		tokens: tokens,
		log:    log,
	}
}

func (s *userService) Register(ctx context.Context, in RegisterUserInput) (*model.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}

	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.Create(ctx, &model.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Phone:        in.Phone,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "user_registered", "user_id", u.ID)
	return u, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", apperr.Validation("email and password are required")
	}
	u, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	ok, err := s.hasher.Compare(u.PasswordHash, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrIncorrectPassword
	}
	return s.tokens.Issue(u.ID, auth.RoleUser)
}

func (s *userService) List(ctx context.Context, limit, offset int) (*UserListResult, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	items := res.Items
	if items == nil {
		items = []model.User{}
	}
	return &UserListResult{Items: items, Total: res.Total, Limit: limit, Offset: offset}, nil
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *userService) Update(ctx context.Context, id string, in ProfileInput, image *FileUpload) (*model.User, error) {
	if in.Email != nil {
		e := normalizeEmail(*in.Email)
		in.Email = &e
	}
	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Email != nil && *in.Email != current.Email {
		if _, err := s.repo.FindByEmail(ctx, *in.Email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}

	upd := model.UserUpdate{Name: in.Name, Phone: in.Phone, Email: in.Email}
	var newKey string
	if image != nil {
		key, err := s.files.put(ctx, *image)
		if err != nil {
			return nil, err
		}
		newKey = key
		upd.ProfileImage = &newKey
	}
	if upd.Empty() {
		return current, nil
	}

	updated, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		s.files.remove(ctx, newKey, "profile_update_failed")
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrEmailTaken
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if newKey != "" && current.ProfileImage != "" && current.ProfileImage != newKey {
		s.files.remove(ctx, current.ProfileImage, "profile_image_replaced")
	}
	return updated, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	notes, err := s.notes.Find(ctx, repository.NoteFilter{UserID: id})
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}

	s.files.remove(ctx, u.ProfileImage, "user_deleted")
	for _, n := range notes {
		for _, f := range n.Files {
			s.files.remove(ctx, f.URL, "user_deleted")
		}
	}
	s.log.InfoContext(ctx, "user_deleted", "user_id", id, "notes", len(notes))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
