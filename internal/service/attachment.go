package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"stickynote/internal/apperr"
	"stickynote/internal/model"
	"stickynote/internal/repository"
	"stickynote/internal/storage"
)

var (
	ErrNoFiles      = apperr.Validation("at least one file is required")
	ErrNoteFull     = apperr.Capacity("maximum number of files reached")
	ErrFileNotFound = apperr.BadRequest("file not found")
)

// maxParallelPuts bounds concurrent uploads per request.
const maxParallelPuts = 4

// AttachmentService manages the dense, ordered attachment list of a note.
type AttachmentService interface {
	// Add stores uploads and appends them to the note in input order.
	Add(ctx context.Context, noteID string, uploads []FileUpload) (*model.Note, error)
	// Remove drops the attachment at index and renumbers the rest.
	Remove(ctx context.Context, noteID string, index int) (*model.Note, error)
}

type attachmentService struct {
	repo  repository.NoteRepository
	files files
	log   *slog.Logger
}

// NewAttachmentService creates an AttachmentService.
func NewAttachmentService(repo repository.NoteRepository, store storage.Storage, log *slog.Logger) AttachmentService {
	return &attachmentService{repo: repo, files: files{store: store, log: log}, log: log}
}

func (s *attachmentService) Add(ctx context.Context, noteID string, uploads []FileUpload) (*model.Note, error) {
	if len(uploads) == 0 {
		return nil, ErrNoFiles
	}
	n, err := findNote(ctx, s.repo, noteID)
	if err != nil {
		return nil, err
	}
	if err := checkCapacity(len(n.Files), len(uploads)); err != nil {
		return nil, err
	}

	keys, err := s.store(ctx, uploads)
	if err != nil {
		return nil, err
	}

	base := len(n.Files)
	for i, key := range keys {
		n.Files = append(n.Files, model.Attachment{Index: base + i, URL: key})
	}
	saved, err := saveNote(ctx, s.repo, n)
	if err != nil {
		s.discard(keys, "attachment_persist_failed")
		return nil, err
	}
	s.log.InfoContext(ctx, "attachments_added", "note_id", noteID, "count", len(keys), "total", len(saved.Files))
	return saved, nil
}

// store puts every upload concurrently. On failure the files that did get
// stored are deleted before returning.
func (s *attachmentService) store(ctx context.Context, uploads []FileUpload) ([]string, error) {
	keys := make([]string, len(uploads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelPuts)
	for i, up := range uploads {
		g.Go(func() error {
			key, err := s.files.put(gctx, up)
			if err != nil {
				return err
			}
			keys[i] = key
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		stored := keys[:0:0]
		for _, k := range keys {
			if k != "" {
				stored = append(stored, k)
			}
		}
		s.discard(stored, "attachment_upload_failed")
		return nil, err
	}
	return keys, nil
}

// discard deletes keys with a context that outlives the request.
func (s *attachmentService) discard(keys []string, reason string) {
	ctx := context.Background()
	for _, k := range keys {
		s.files.remove(ctx, k, reason)
	}
}

func (s *attachmentService) Remove(ctx context.Context, noteID string, index int) (*model.Note, error) {
	n, err := findNote(ctx, s.repo, noteID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(n.Files) {
		return nil, ErrFileNotFound
	}

	removed := n.Files[index].URL
	files := make([]model.Attachment, 0, len(n.Files)-1)
	files = append(files, n.Files[:index]...)
	files = append(files, n.Files[index+1:]...)
	n.Files = files
	n.Reindex()

	saved, err := saveNote(ctx, s.repo, n)
	if err != nil {
		return nil, err
	}
	s.files.remove(ctx, removed, "attachment_removed")
	return saved, nil
}

func checkCapacity(current, incoming int) error {
	free := model.MaxAttachments - current
	if free <= 0 {
		return ErrNoteFull
	}
	if incoming > free {
		return apperr.Capacity(fmt.Sprintf("maximum number of files reached, only %d more files can be added", free))
	}
	return nil
}
