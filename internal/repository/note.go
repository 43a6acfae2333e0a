package repository

import (
	"context"
	"time"

	"stickynote/internal/model"
)

// NoteFilter selects notes of one user. Nil fields do not filter.
type NoteFilter struct {
	UserID       string
	Archived     *bool
	Pinned       *bool
	LabelID      string
	TitleLike    string
	CreatedFrom  time.Time
	CreatedUntil time.Time
}

// NoteRepository defines data access for notes.
type NoteRepository interface {
	Create(ctx context.Context, n *model.Note) (*model.Note, error)
	FindByID(ctx context.Context, id string) (*model.Note, error)
	Find(ctx context.Context, f NoteFilter) ([]model.Note, error)
	// Save writes every mutable column of n if the stored version still equals
	// n.Version, and returns the stored row with the bumped version.
	// Returns ErrVersionConflict otherwise.
	Save(ctx context.Context, n *model.Note) (*model.Note, error)
	Delete(ctx context.Context, id string) error
}

// LabelRepository defines data access for labels.
type LabelRepository interface {
	Create(ctx context.Context, l *model.Label) (*model.Label, error)
	FindByID(ctx context.Context, id string) (*model.Label, error)
	List(ctx context.Context) ([]model.Label, error)
	Update(ctx context.Context, id string, upd model.LabelUpdate) (*model.Label, error)
	Delete(ctx context.Context, id string) error
}
