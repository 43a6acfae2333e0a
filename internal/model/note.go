package model

import "time"

// MaxAttachments is the number of files a single note can hold.
const MaxAttachments = 10

// Attachment points from a note to a stored file. Index equals the
// attachment's position in Note.Files.
type Attachment struct {
	Index int    `json:"index"`
	URL   string `json:"url"`
}

// Note is a user's note. Version is bumped on every write and guards
// concurrent mutations of Files.
type Note struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	LabelID     string       `json:"label"`
	UserID      string       `json:"user"`
	Color       string       `json:"color"`
	Archived    bool         `json:"archived"`
	Pinned      bool         `json:"pinned"`
	Files       []Attachment `json:"files"`
	Version     int64        `json:"-"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Reindex rewrites every attachment index to its position.
func (n *Note) Reindex() {
	for i := range n.Files {
		n.Files[i].Index = i
	}
}

// NoteUpdate carries the fields of a partial note update.
type NoteUpdate struct {
	Title       *string
	Description *string
	LabelID     *string
	Color       *string
}
