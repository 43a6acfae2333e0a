package handler

import (
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"stickynote/internal/apperr"
	"stickynote/internal/service"
)

var errInvalidBody = apperr.BadRequest("invalid request body")

// idParam returns the named path parameter when it is a UUID.
func idParam(c *fiber.Ctx, name string) (string, bool) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func invalidID(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
}

func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	return nil
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

// formValue returns a pointer to the first value of key, or nil when the
// field was not sent at all.
func formValue(form *multipart.Form, key string) *string {
	vals, ok := form.Value[key]
	if !ok || len(vals) == 0 {
		return nil
	}
	v := vals[0]
	return &v
}

// uploadSet opens multipart files as service uploads. Close releases them.
type uploadSet struct {
	files   []multipart.File
	uploads []service.FileUpload
}

func openUploads(headers []*multipart.FileHeader) (*uploadSet, error) {
	set := &uploadSet{}
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			set.Close()
			return nil, apperr.BadRequest("cannot open uploaded file")
		}
		set.files = append(set.files, f)
		set.uploads = append(set.uploads, service.FileUpload{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Size:        fh.Size,
		})
	}
	return set, nil
}

func (s *uploadSet) Close() {
	for _, f := range s.files {
		_ = f.Close()
	}
}

// parseProfile reads a partial profile from a multipart form (with an
// optional profileImage file) or from a JSON body.
func parseProfile(c *fiber.Ctx) (service.ProfileInput, *uploadSet, error) {
	var in service.ProfileInput
	if !isMultipart(c) {
		return in, &uploadSet{}, parseBody(c, &in)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return in, nil, errInvalidBody
	}
	in.Name = formValue(form, "name")
	in.Phone = formValue(form, "phone")
	in.Email = formValue(form, "email")

	headers := form.File["profileImage"]
	if len(headers) > 1 {
		headers = headers[:1]
	}
	set, err := openUploads(headers)
	if err != nil {
		return in, nil, err
	}
	return in, set, nil
}

func (s *uploadSet) first() *service.FileUpload {
	if len(s.uploads) == 0 {
		return nil
	}
	return &s.uploads[0]
}
