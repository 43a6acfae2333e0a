package handler

import (
	"errors"
	"path"

	"github.com/gofiber/fiber/v2"

	"stickynote/internal/storage"
)

// ServeImage streams a stored file by the last segment of its key.
//
// @Summary Download an uploaded file
// @Tags files
// @Param name path string true "file name"
// @Success 200 {file} binary
// @Failure 404 {object} envelope
// @Router /images/{name} [get]
func ServeImage(store storage.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("name")
		if name == "" || name != path.Base(name) || name == "." || name == ".." {
			return writeError(c, fiber.StatusBadRequest, "INVALID_NAME", "invalid file name")
		}

		rc, info, err := store.Get(c.UserContext(), "images/"+name)
		if errors.Is(err, storage.ErrNotFound) {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
		}
		if err != nil {
			return err
		}

		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		c.Set(fiber.HeaderCacheControl, "private, max-age=86400")
		if info.Size > 0 {
			return c.SendStream(rc, int(info.Size))
		}
		return c.SendStream(rc)
	}
}
