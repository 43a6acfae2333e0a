package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"stickynote/internal/apperr"
	"stickynote/internal/model"
	"stickynote/internal/repository"
	"stickynote/internal/storage"
)

var (
	ErrNoteNotFound     = apperr.NotFound("note not found")
	ErrNoteModified     = apperr.Stale("note was modified concurrently, please retry")
	ErrInvalidReference = apperr.Validation("label or user does not exist")
)

// CreateNoteInput carries the fields of a new note.
type CreateNoteInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	LabelID     string `json:"label"`
	UserID      string `json:"user"`
	Color       string `json:"color"`
}

func (in CreateNoteInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Description, validation.Required),
		validation.Field(&in.LabelID, validation.Required),
		validation.Field(&in.UserID, validation.Required),
	)
}

// NoteService defines note operations.
type NoteService interface {
	Create(ctx context.Context, in CreateNoteInput) (*model.Note, error)
	Get(ctx context.Context, id string) (*model.Note, error)
	Update(ctx context.Context, id string, upd model.NoteUpdate) (*model.Note, error)
	Delete(ctx context.Context, id string) error
	TogglePin(ctx context.Context, id string) (*model.Note, error)
	ToggleArchive(ctx context.Context, id string) (*model.Note, error)
	// ListByUser returns the user's notes that are neither pinned nor archived.
	ListByUser(ctx context.Context, userID string) ([]model.Note, error)
	ListPinned(ctx context.Context, userID string) ([]model.Note, error)
	ListArchived(ctx context.Context, userID string) ([]model.Note, error)
	// Search matches query against note titles, case-insensitively.
	Search(ctx context.Context, userID, query string) ([]model.Note, error)
	FilterByLabel(ctx context.Context, userID, labelID string) ([]model.Note, error)
	// FilterByDate returns the notes created on the calendar day of day, in day's location.
	FilterByDate(ctx context.Context, userID string, day time.Time) ([]model.Note, error)
}

type noteService struct {
	repo  repository.NoteRepository
	files files
	log   *slog.Logger
}

// NewNoteService creates a NoteService.
func NewNoteService(repo repository.NoteRepository, store storage.Storage, log *slog.Logger) NoteService {
	return &noteService{repo: repo, files: files{store: store, log: log}, log: log}
}

func (s *noteService) Create(ctx context.Context, in CreateNoteInput) (*model.Note, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}
	n, err := s.repo.Create(ctx, &model.Note{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		LabelID:     in.LabelID,
		UserID:      in.UserID,
		Color:       in.Color,
		Files:       []model.Attachment{},
		CreatedAt:   time.Now().UTC(),
	})
	if errors.Is(err, repository.ErrInvalidReference) {
		return nil, ErrInvalidReference
	}
	return n, err
}

func (s *noteService) Get(ctx context.Context, id string) (*model.Note, error) {
	return findNote(ctx, s.repo, id)
}

func (s *noteService) Update(ctx context.Context, id string, upd model.NoteUpdate) (*model.Note, error) {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, apperr.Validation("title: cannot be blank.")
	}
	return s.mutate(ctx, id, func(n *model.Note) {
		if upd.Title != nil {
			n.Title = strings.TrimSpace(*upd.Title)
		}
		if upd.Description != nil {
			n.Description = *upd.Description
		}
		if upd.LabelID != nil {
			n.LabelID = *upd.LabelID
		}
		if upd.Color != nil {
			n.Color = *upd.Color
		}
	})
}

func (s *noteService) TogglePin(ctx context.Context, id string) (*model.Note, error) {
	return s.mutate(ctx, id, func(n *model.Note) { n.Pinned = !n.Pinned })
}

func (s *noteService) ToggleArchive(ctx context.Context, id string) (*model.Note, error) {
	return s.mutate(ctx, id, func(n *model.Note) { n.Archived = !n.Archived })
}

func (s *noteService) mutate(ctx context.Context, id string, apply func(*model.Note)) (*model.Note, error) {
	n, err := findNote(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	apply(n)
	return saveNote(ctx, s.repo, n)
}

func (s *noteService) Delete(ctx context.Context, id string) error {
	n, err := findNote(ctx, s.repo, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoteNotFound
		}
		return err
	}
	for _, f := range n.Files {
		s.files.remove(ctx, f.URL, "note_deleted")
	}
	return nil
}

func (s *noteService) ListByUser(ctx context.Context, userID string) ([]model.Note, error) {
	return s.find(ctx, repository.NoteFilter{UserID: userID, Archived: boolPtr(false), Pinned: boolPtr(false)})
}

func (s *noteService) ListPinned(ctx context.Context, userID string) ([]model.Note, error) {
	return s.find(ctx, repository.NoteFilter{UserID: userID, Archived: boolPtr(false), Pinned: boolPtr(true)})
}

func (s *noteService) ListArchived(ctx context.Context, userID string) ([]model.Note, error) {
	return s.find(ctx, repository.NoteFilter{UserID: userID, Archived: boolPtr(true)})
}

func (s *noteService) Search(ctx context.Context, userID, query string) ([]model.Note, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation("search query is required")
	}
	return s.find(ctx, repository.NoteFilter{UserID: userID, TitleLike: query})
}

func (s *noteService) FilterByLabel(ctx context.Context, userID, labelID string) ([]model.Note, error) {
	if labelID == "" {
		return nil, apperr.Validation("label is required")
	}
	return s.find(ctx, repository.NoteFilter{UserID: userID, LabelID: labelID})
}

func (s *noteService) FilterByDate(ctx context.Context, userID string, day time.Time) ([]model.Note, error) {
	if day.IsZero() {
		return nil, apperr.Validation("date is required")
	}
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return s.find(ctx, repository.NoteFilter{
		UserID:       userID,
		CreatedFrom:  from,
		CreatedUntil: from.AddDate(0, 0, 1),
	})
}

func (s *noteService) find(ctx context.Context, f repository.NoteFilter) ([]model.Note, error) {
	if f.UserID == "" {
		return nil, apperr.Validation("user is required")
	}
	notes, err := s.repo.Find(ctx, f)
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []model.Note{}
	}
	return notes, nil
}

func findNote(ctx context.Context, repo repository.NoteRepository, id string) (*model.Note, error) {
	n, err := repo.FindByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	return n, err
}

// saveNote persists n under its version check and maps repository errors.
func saveNote(ctx context.Context, repo repository.NoteRepository, n *model.Note) (*model.Note, error) {
	saved, err := repo.Save(ctx, n)
	switch {
	case errors.Is(err, repository.ErrVersionConflict):
		return nil, ErrNoteModified
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrNoteNotFound
	case errors.Is(err, repository.ErrInvalidReference):
		return nil, ErrInvalidReference
	}
	return saved, err
}

func boolPtr(b bool) *bool { return &b }
