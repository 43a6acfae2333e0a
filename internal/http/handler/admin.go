package handler

import (
	"github.com/gofiber/fiber/v2"

	"stickynote/internal/service"
)

type resetRequest struct {
	Email string `json:"email"`
}

type otpRequest struct {
	OTP string `json:"otp"`
}

// CreateAdmin registers an admin account.
//
// @Summary Register an admin
// @Tags admin
// @Accept json
// @Produce json
// @Param body body service.RegisterAdminInput true "admin"
// @Success 201 {object} envelope
// @Router /admin/create [post]
func CreateAdmin(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.RegisterAdminInput
		if err := parseBody(c, &in); err != nil {
			return err
		}
		a, err := svc.Register(c.UserContext(), in)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusCreated, "Admin created successfully", a)
	}
}

// LoginAdmin exchanges credentials for an admin token.
//
// @Summary Log in an admin
// @Tags admin
// @Accept json
// @Produce json
// @Param body body loginRequest true "credentials"
// @Success 200 {object} envelope
// @Router /admin/login [post]
func LoginAdmin(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in loginRequest
		if err := parseBody(c, &in); err != nil {
			return err
		}
		tok, err := svc.Login(c.UserContext(), in.Email, in.Password)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Logged in successfully", tokenResponse{Token: tok})
	}
}

// GetAdmin returns one admin.
//
// @Summary Get an admin
// @Tags admin
// @Param id path string true "admin id"
// @Success 200 {object} envelope
// @Router /admin/get/{id} [get]
func GetAdmin(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		a, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Admin found successfully", a)
	}
}

// UpdateAdmin applies a partial profile change, optionally with a new image.
//
// @Summary Update an admin profile
// @Tags admin
// @Accept multipart/form-data
// @Param id path string true "admin id"
// @Param name formData string false "name"
// @Param email formData string false "email"
// @Param profileImage formData file false "profile image"
// @Success 200 {object} envelope
// @Router /admin/update/{id} [put]
func UpdateAdmin(svc service.AdminService) fiber.Handler {
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

		a, err := svc.Update(c.UserContext(), id, in, files.first())
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Profile updated successfully", a)
	}
}

// ChangeAdminPassword sets a new admin password.
//
// @Summary Change an admin password
// @Tags admin
// @Accept json
// @Param body body service.ChangePasswordInput true "passwords"
// @Success 200 {object} envelope
// @Router /admin/changepassword [put]
func ChangeAdminPassword(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.ChangePasswordInput
		if err := parseBody(c, &in); err != nil {
			return err
		}
		if err := svc.ChangePassword(c.UserContext(), in); err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Password changed successfully", nil)
	}
}

// ForgetPassword mails a one-time reset code.
//
// @Summary Request a password reset code
// @Tags admin
// @Accept json
// @Param body body resetRequest true "email"
// @Success 200 {object} envelope
// @Failure 503 {object} envelope
// @Router /admin/forgetpassword [post]
func ForgetPassword(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in resetRequest
		if err := parseBody(c, &in); err != nil {
			return err
		}
		if err := svc.RequestReset(c.UserContext(), in.Email); err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "OTP sent successfully", nil)
	}
}

// VerifyOTP consumes a reset code.
//
// @Summary Verify a password reset code
// @Tags admin
// @Accept json
// @Param body body otpRequest true "code"
// @Success 200 {object} envelope
// @Failure 401 {object} envelope
// @Router /admin/otpverification [post]
func VerifyOTP(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in otpRequest
		if err := parseBody(c, &in); err != nil {
			return err
		}
		if err := svc.VerifyOTP(c.UserContext(), in.OTP); err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "OTP verified successfully", nil)
	}
}
