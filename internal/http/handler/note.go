package handler

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"stickynote/internal/apperr"
	"stickynote/internal/model"
	"stickynote/internal/service"
)

const dateLayout = "2006-01-02"

type noteUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Label       *string `json:"label"`
	Color       *string `json:"color"`
}

type dateRequest struct {
	Date string `json:"date"`
}

// CreateNote adds a note.
//
// @Summary Create a note
// @Tags notes
// @Accept json
// @Param token header string true "user token"
// @Param body body service.CreateNoteInput true "note"
// @Success 201 {object} envelope
// @Router /notes/create [post]
func CreateNote(svc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateNoteInput
		if err := parseBody(c, &in); err != nil {
			return err
		}
		n, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusCreated, "Note created successfully", n)
	}
}

// GetNote returns one note.
//
// @Summary Get a note
// @Tags notes
// @Param token header string true "user token"
// @Param id path string true "note id"
// @Success 200 {object} envelope
// @Router /notes/get/{id} [get]
func GetNote(svc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		n, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Note found successfully", n)
	}
}

// UpdateNote applies a partial change to a note.
//
// @Summary Update a note
// @Tags notes
// @Accept json
// @Param token header string true "user token"
// @Param id path string true "note id"
// @Param body body noteUpdateRequest true "fields to change"
// @Success 200 {object} envelope
// @Failure 409 {object} envelope
// @Router /notes/update/{id} [put]
func UpdateNote(svc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		var in noteUpdateRequest
		if err := parseBody(c, &in); err != nil {
			return err
		}
		n, err := svc.Update(c.UserContext(), id, model.NoteUpdate{
			Title:       in.Title,
			Description: in.Description,
			LabelID:     in.Label,
			Color:       in.Color,
		})
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Note updated successfully", n)
	}
}

// DeleteNote removes a note and its attachment files.
//
// @Summary Delete a note
// @Tags notes
// @Param token header string true "user token"
// @Param id path string true "note id"
// @Success 200 {object} envelope
// @Router /notes/delete/{id} [delete]
func DeleteNote(svc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Note deleted successfully", nil)
	}
}

// TogglePin flips the pinned flag.
//
// @Summary Pin or unpin a note
// @Tags notes
// @Param token header string true "user token"
// @Param id path string true "note id"
// @Success 200 {object} envelope
// @Router /notes/pinUnpin/{id} [put]
func TogglePin(svc service.NoteService) fiber.Handler {
	return toggle(svc.TogglePin, "Note pin status updated")
}

// ToggleArchive flips the archived flag.
//
// @Summary Archive or unarchive a note
// @Tags notes
// @Param token header string true "user token"
// @Param id path string true "note id"
// @Success 200 {object} envelope
// @Router /notes/archive/{id} [put]
func ToggleArchive(svc service.NoteService) fiber.Handler {
	return toggle(svc.ToggleArchive, "Note archive status updated")
}

func toggle(fn func(context.Context, string) (*model.Note, error), msg string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		n, err := fn(c.UserContext(), id)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, msg, n)
	}
}

// ListNotesByUser returns the user's notes that are neither pinned nor archived.
//
// @Summary List a user's notes
// @Tags notes
// @Param token header string true "user token"
// @Param userId path string true "user id"
// @Success 200 {object} envelope
// @Router /notes/getbyUser/{userId} [get]
func ListNotesByUser(svc service.NoteService) fiber.Handler {
	return listForUser(svc.ListByUser)
}

// ListPinnedNotes returns the user's pinned notes.
//
// @Summary List pinned notes
// @Tags notes
// @Param token header string true "user token"
// @Param userId path string true "user id"
// @Success 200 {object} envelope
// @Router /notes/getPinnedNotes/{userId} [get]
func ListPinnedNotes(svc service.NoteService) fiber.Handler {
	return listForUser(svc.ListPinned)
}

// ListArchivedNotes returns the user's archived notes.
//
// @Summary List archived notes
// @Tags notes
// @Param token header string true "user token"
// @Param userId path string true "user id"
// @Success 200 {object} envelope
// @Router /notes/getArchivedNotes/{userId} [get]
func ListArchivedNotes(svc service.NoteService) fiber.Handler {
	return listForUser(svc.ListArchived)
}

func listForUser(fn func(context.Context, string) ([]model.Note, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := idParam(c, "userId")
		if !ok {
			return invalidID(c)
		}
		notes, err := fn(c.UserContext(), userID)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Notes found successfully", notes)
	}
}

// SearchNotes matches a query against the user's note titles.
//
// @Summary Search notes by title
// @Tags notes
// @Param token header string true "user token"
// @Param userId path string true "user id"
// @Param query path string true "title substring"
// @Success 200 {object} envelope
// @Router /notes/search/{userId}/{query} [get]
func SearchNotes(svc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := idParam(c, "userId")
		if !ok {
			return invalidID(c)
		}
		query, err := url.PathUnescape(c.Params("query"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_QUERY", "invalid search query")
		}
		notes, err := svc.Search(c.UserContext(), userID, query)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Notes found successfully", notes)
	}
}

// FilterNotesByLabel returns the user's notes carrying a label.
//
// @Summary Filter notes by label
// @Tags notes
// @Param token header string true "user token"
// @Param userId path string true "user id"
// @Param labelId path string true "label id"
// @Success 200 {object} envelope
// @Router /notes/filterByLabel/{userId}/{labelId} [get]
func FilterNotesByLabel(svc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := idParam(c, "userId")
		if !ok {
			return invalidID(c)
		}
		labelID, ok := idParam(c, "labelId")
		if !ok {
			return invalidID(c)
		}
		notes, err := svc.FilterByLabel(c.UserContext(), userID, labelID)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Notes found successfully", notes)
	}
}

// FilterNotesByDate returns the user's notes created on one calendar day
// (UTC). The day comes from ?date= or a JSON body {"date": "YYYY-MM-DD"}.
//
// @Summary Filter notes by creation day
// @Tags notes
// @Param token header string true "user token"
// @Param userId path string true "user id"
// @Param date query string false "YYYY-MM-DD"
// @Success 200 {object} envelope
// @Router /notes/filterByDate/{userId} [get]
func FilterNotesByDate(svc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := idParam(c, "userId")
		if !ok {
			return invalidID(c)
		}
		raw := c.Query("date")
		if raw == "" {
			var in dateRequest
			if err := parseBody(c, &in); err != nil {
				return err
			}
			raw = in.Date
		}
		if raw == "" {
			return apperr.Validation("date is required")
		}
		day, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			return apperr.Validation("date must be formatted as YYYY-MM-DD")
		}
		notes, err := svc.FilterByDate(c.UserContext(), userID, day)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Notes found successfully", notes)
	}
}

// AddAttachments stores uploaded files and appends them to a note.
//
// @Summary Attach files to a note
// @Tags notes
// @Accept multipart/form-data
// @Param token header string true "user token"
// @Param id path string true "note id"
// @Param files formData file true "files (up to 10)"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope
// @Failure 409 {object} envelope
// @Router /notes/addAttachment/{id} [put]
func AddAttachments(svc service.AttachmentService, maxFiles int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "files are required")
		}
		headers := form.File["files"]
		if len(headers) == 0 {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "files are required")
		}
		if maxFiles > 0 && len(headers) > maxFiles {
			return apperr.Capacity("at most " + strconv.Itoa(maxFiles) + " files can be uploaded at once")
		}

		set, err := openUploads(headers)
		if err != nil {
			return err
		}
		defer set.Close()

		n, err := svc.Add(c.UserContext(), id, set.uploads)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Attachments added successfully", n)
	}
}

// RemoveAttachment drops the attachment at a position and renumbers the rest.
//
// @Summary Remove a note attachment
// @Tags notes
// @Param token header string true "user token"
// @Param id path string true "note id"
// @Param index path int true "attachment index"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope
// @Router /notes/removeAttachment/{id}/{index} [put]
func RemoveAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		index, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_INDEX", "invalid attachment index")
		}
		n, err := svc.Remove(c.UserContext(), id, index)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Attachment removed successfully", n)
	}
}
