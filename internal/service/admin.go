package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"stickynote/internal/apperr"
	"stickynote/internal/auth"
	"stickynote/internal/mail"
	"stickynote/internal/model"
	"stickynote/internal/repository"
	"stickynote/internal/storage"
)

const (
	otpSubject = "Your OTP Code"
	// maxOTPAttempts bounds regeneration when a code collides with another
	// admin's pending code.
	maxOTPAttempts = 5
)

var (
	ErrAdminNotFound     = apperr.NotFound("admin not found")
	ErrPasswordsMismatch = apperr.Validation("passwords do not match")
	ErrInvalidOTP        = apperr.Auth("invalid OTP")
	ErrOTPExpired        = apperr.Auth("OTP has expired")
)

// RegisterAdminInput carries the fields of a new admin account.
type RegisterAdminInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in RegisterAdminInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.Password, validation.Required, passwordLength),
	)
}

// ChangePasswordInput sets a new admin password after a verified reset.
type ChangePasswordInput struct {
	Email           string `json:"email"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// OTPSettings configures reset codes.
type OTPSettings struct {
	Length int
	TTL    time.Duration
}

// AdminService defines admin account operations and the password reset flow.
type AdminService interface {
	Register(ctx context.Context, in RegisterAdminInput) (*model.Admin, error)
	Login(ctx context.Context, email, password string) (string, error)
	Get(ctx context.Context, id string) (*model.Admin, error)
	Update(ctx context.Context, id string, in ProfileInput, image *FileUpload) (*model.Admin, error)
	ChangePassword(ctx context.Context, in ChangePasswordInput) error
	RequestReset(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, code string) error
}

type adminService struct {
	repo    repository.AdminRepository
	files   files
	hasher  PasswordHasher
	tokens  TokenIssuer
	mailer  mail.Mailer
	otp     OTPSettings
	log     *slog.Logger
	now     func() time.Time
	newCode func(length int) (string, error)
}

// NewAdminService creates an AdminService.
func NewAdminService(
	repo repository.AdminRepository,
	store storage.Storage,
	hasher PasswordHasher,
	tokens TokenIssuer,
	mailer mail.Mailer,
	otp OTPSettings,
	log *slog.Logger,
) AdminService {
	if otp.Length <= 0 {
		otp.Length = 4
	}
	if otp.TTL <= 0 {
		otp.TTL = 10 * time.Minute
	}
	return &adminService{
		repo:    repo,
		files:   files{store: store, log: log},
		hasher:  hasher,
		tokens:  tokens,
		mailer:  mailer,
		otp:     otp,
		log:     log,
		now:     time.Now,
		newCode: auth.GenerateOTP,
	}
}

func (s *adminService) Register(ctx context.Context, in RegisterAdminInput) (*model.Admin, error) {
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
	a, err := s.repo.Create(ctx, &model.Admin{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "admin_registered", "admin_id", a.ID)
	return a, nil
}

func (s *adminService) Login(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", apperr.Validation("email and password are required")
	}
	a, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrAdminNotFound
	}
	if err != nil {
		return "", err
	}
	ok, err := s.hasher.Compare(a.PasswordHash, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrIncorrectPassword
	}
	return s.tokens.Issue(a.ID, auth.RoleAdmin)
}

func (s *adminService) Get(ctx context.Context, id string) (*model.Admin, error) {
	a, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdminNotFound
	}
	return a, err
}

func (s *adminService) Update(ctx context.Context, id string, in ProfileInput, image *FileUpload) (*model.Admin, error) {
	in.Phone = nil
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

	upd := model.AdminUpdate{Name: in.Name, Email: in.Email}
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
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	if newKey != "" && current.ProfileImage != "" && current.ProfileImage != newKey {
		s.files.remove(ctx, current.ProfileImage, "profile_image_replaced")
	}
	return updated, nil
}

func (s *adminService) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	if in.NewPassword != in.ConfirmPassword {
		return ErrPasswordsMismatch
	}
	email := normalizeEmail(in.Email)
	if email == "" || in.NewPassword == "" {
		return apperr.Validation("email and new password are required")
	}
	if err := validation.Validate(in.NewPassword, passwordLength); err != nil {
		return apperr.Validation("password " + err.Error())
	}

	a, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAdminNotFound
	}
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, a.ID, hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAdminNotFound
		}
		return err
	}
	s.log.InfoContext(ctx, "admin_password_changed", "admin_id", a.ID)
	return nil
}

func (s *adminService) RequestReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return apperr.Validation("email is required")
	}
	a, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAdminNotFound
	}
	if err != nil {
		return err
	}

	code, err := s.uniqueCode(ctx, a.ID)
	if err != nil {
		return err
	}
	if err := s.repo.SetOTP(ctx, a.ID, code, s.now().Add(s.otp.TTL)); err != nil {
		return err
	}

	if err := s.mailer.Send(ctx, a.Email, otpSubject, otpBody(a.Name, code, s.otp.TTL)); err != nil {
		if clrErr := s.repo.ClearOTP(ctx, a.ID); clrErr != nil {
			s.log.ErrorContext(ctx, "otp_clear_failed", "admin_id", a.ID, "error", clrErr.Error())
		}
		return apperr.Wrap(apperr.KindUnavailable, "failed to send OTP email", err)
	}
	s.log.InfoContext(ctx, "otp_sent", "admin_id", a.ID)
	return nil
}

// uniqueCode draws codes until none collides with another admin's unexpired code.
func (s *adminService) uniqueCode(ctx context.Context, adminID string) (string, error) {
	for range maxOTPAttempts {
		code, err := s.newCode(s.otp.Length)
		if err != nil {
			return "", err
		}
		other, err := s.repo.FindByOTP(ctx, code)
		if errors.Is(err, sql.ErrNoRows) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
		if other.ID == adminID || other.OTPExpiresAt == nil || s.now().After(*other.OTPExpiresAt) {
			return code, nil
		}
	}
	return "", fmt.Errorf("no free OTP code after %d attempts", maxOTPAttempts)
}

func (s *adminService) VerifyOTP(ctx context.Context, code string) error {
	if code == "" {
		return apperr.Validation("OTP is required")
	}
	a, err := s.repo.FindByOTP(ctx, code)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInvalidOTP
	}
	if err != nil {
		return err
	}
	if !a.HasPendingReset() {
		return ErrInvalidOTP
	}

	expired := s.now().After(*a.OTPExpiresAt)
	if err := s.repo.ClearOTP(ctx, a.ID); err != nil {
		return err
	}
	if expired {
		return ErrOTPExpired
	}
	s.log.InfoContext(ctx, "otp_verified", "admin_id", a.ID)
	return nil
}

func otpBody(name, code string, ttl time.Duration) string {
	return fmt.Sprintf(
		"<p>Hello %s,</p><p>Your OTP code is <strong>%s</strong>.</p><p>It is valid for %d minutes.</p>",
		template.HTMLEscapeString(name),
		code,
		int(ttl.Minutes()),
	)
}
