package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"stickynote/internal/http/middleware"
	"stickynote/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// VerifiedClaims echoes the claims of a token accepted by middleware.RequireRole.
//
// @Summary Check a session token
// @Tags user,admin
// @Param token header string true "session token"
// @Success 200 {object} envelope
// @Failure 401 {object} envelope
// @Router /user/sequre [get]
// @Router /admin/sequre [get]
func VerifiedClaims() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return respond(c, fiber.StatusOK, "Token verified", middleware.ClaimsFrom(c))
	}
}

// CreateUser registers a user account.
//
// @Summary Register a user
// @Tags user
// @Accept json
// @Produce json
// @Param body body service.RegisterUserInput true "user"
// @Success 201 {object} envelope
// @Failure 400 {object} envelope
// @Router /user/create [post]
func CreateUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.RegisterUserInput
		if err := parseBody(c, &in); err != nil {
			return err
		}
		u, err := svc.Register(c.UserContext(), in)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusCreated, "User created successfully", u)
	}
}

// LoginUser exchanges credentials for a user token.
//
// @Summary Log in a user
// @Tags user
// @Accept json
// @Produce json
// @Param body body loginRequest true "credentials"
// @Success 200 {object} envelope
// @Failure 401 {object} envelope
// @Failure 404 {object} envelope
// @Router /user/login [post]
func LoginUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in loginRequest
		if err := parseBody(c, &in); err != nil {
			return err
		}
		tok, err := svc.Login(c.UserContext(), in.Email, in.Password)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Login successful", tokenResponse{Token: tok})
	}
}

// ListUsers pages through user accounts.
//
// @Summary List users
// @Tags user
// @Produce json
// @Param token header string true "admin token"
// @Param limit query int false "page size" default(20)
// @Param offset query int false "offset" default(0)
// @Success 200 {object} envelope
// @Router /user/getall [get]
func ListUsers(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "20"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Users found successfully", res)
	}
}

// GetUser returns one user.
//
// @Summary Get a user
// @Tags user
// @Produce json
// @Param id path string true "user id"
// @Success 200 {object} envelope
// @Failure 404 {object} envelope
// @Router /user/get/{id} [get]
func GetUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		u, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "User found successfully", u)
	}
}

// UpdateUser applies a partial profile change, optionally with a new image.
//
// @Summary Update a user profile
// @Tags user
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "user id"
// @Param name formData string false "name"
// @Param phone formData string false "phone"
// @Param email formData string false "email"
// @Param profileImage formData file false "profile image"
// @Success 200 {object} envelope
// @Router /user/update/{id} [put]
func UpdateUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		in, files, err := parseProfile(c)
		if err != nil {
			return err
		}
		defer files.Close()

		u, err := svc.Update(c.UserContext(), id, in, files.first())
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "User updated successfully", u)
	}
}

// DeleteUser removes a user with their notes and files.
//
// @Summary Delete a user
// @Tags user
// @Param token header string true "admin token"
// @Param id path string true "user id"
// @Success 200 {object} envelope
// @Router /user/delete/{id} [delete]
func DeleteUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "User deleted successfully", nil)
	}
}
