package handler

import (
	"github.com/gofiber/fiber/v2"

	"stickynote/internal/model"
	"stickynote/internal/service"
)

type labelUpdateRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

// CreateLabel adds a label.
//
// @Summary Create a label
// @Tags labels
// @Accept json
// @Param token header string true "user token"
// @Param body body service.CreateLabelInput true "label"
// @Success 201 {object} envelope
// @Router /labels/create [post]
func CreateLabel(svc service.LabelService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateLabelInput
		if err := parseBody(c, &in); err != nil {
			return err
		}
		l, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusCreated, "Label created successfully", l)
	}
}

// ListLabels returns every label.
//
// @Summary List labels
// @Tags labels
// @Param token header string true "user token"
// @Success 200 {object} envelope
// @Router /labels/getall [get]
func ListLabels(svc service.LabelService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		labels, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Labels found successfully", labels)
	}
}

// GetLabel returns one label.
//
// @Summary Get a label
// @Tags labels
// @Param token header string true "user token"
// @Param id path string true "label id"
// @Success 200 {object} envelope
// @Router /labels/get/{id} [get]
func GetLabel(svc service.LabelService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		l, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Label found successfully", l)
	}
}

// UpdateLabel applies a partial change to a label.
//
// @Summary Update a label
// @Tags labels
// @Accept json
// @Param token header string true "user token"
// @Param id path string true "label id"
// @Param body body labelUpdateRequest true "fields to change"
// @Success 200 {object} envelope
// @Router /labels/update/{id} [put]
func UpdateLabel(svc service.LabelService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		var in labelUpdateRequest
		if err := parseBody(c, &in); err != nil {
			return err
		}
		l, err := svc.Update(c.UserContext(), id, model.LabelUpdate{Name: in.Name, Color: in.Color})
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Label updated successfully", l)
	}
}

// DeleteLabel removes a label. Notes keep existing without it.
//
// @Summary Delete a label
// @Tags labels
// @Param token header string true "user token"
// @Param id path string true "label id"
// @Success 200 {object} envelope
// @Router /labels/delete/{id} [delete]
func DeleteLabel(svc service.LabelService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Label deleted successfully", nil)
	}
}
