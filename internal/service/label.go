package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"stickynote/internal/apperr"
	"stickynote/internal/model"
	"stickynote/internal/repository"
)

var ErrLabelNotFound = apperr.NotFound("label not found")

// CreateLabelInput carries the fields of a new label.
type CreateLabelInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (in CreateLabelInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 100)),
	)
}

// LabelService defines label operations.
type LabelService interface {
	Create(ctx context.Context, in CreateLabelInput) (*model.Label, error)
	List(ctx context.Context) ([]model.Label, error)
	Get(ctx context.Context, id string) (*model.Label, error)
	Update(ctx context.Context, id string, upd model.LabelUpdate) (*model.Label, error)
	Delete(ctx context.Context, id string) error
}

type labelService struct {
	repo repository.LabelRepository
}

// NewLabelService creates a LabelService.
func NewLabelService(repo repository.LabelRepository) LabelService {
	return &labelService{repo: repo}
}

func (s *labelService) Create(ctx context.Context, in CreateLabelInput) (*model.Label, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}
	return s.repo.Create(ctx, &model.Label{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Color:     in.Color,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *labelService) List(ctx context.Context) ([]model.Label, error) {
	labels, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if labels == nil {
		labels = []model.Label{}
	}
	return labels, nil
}

func (s *labelService) Get(ctx context.Context, id string) (*model.Label, error) {
	l, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLabelNotFound
	}
	return l, err
}

func (s *labelService) Update(ctx context.Context, id string, upd model.LabelUpdate) (*model.Label, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, apperr.Validation("name: cannot be blank.")
	}
	if upd.Name == nil && upd.Color == nil {
		return s.Get(ctx, id)
	}
	l, err := s.repo.Update(ctx, id, upd)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLabelNotFound
	}
	return l, err
}

func (s *labelService) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrLabelNotFound
	}
	return err
}
