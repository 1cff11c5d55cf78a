package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ashika-normality/project-portico-backend/internal/models"
	"github.com/ashika-normality/project-portico-backend/internal/services"
)

// OTPHandler serves the login-path OTP endpoints. Codes travel only by SMS
// or email; responses carry the identifier and expiry, never the code.
type OTPHandler struct {
	otp services.OTPService
	log *zap.Logger
}

func NewOTPHandler(otp services.OTPService, log *zap.Logger) *OTPHandler {
	return &OTPHandler{otp: otp, log: log}
}

// SendOTP issues a code for a confirmed user's email or mobile.
func (h *OTPHandler) SendOTP(c *fiber.Ctx) error {
	var req models.SendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if done, err := validate(c, req); done {
		return err
	}
	receipt, err := h.otp.Send(c.Context(), req.Identifier)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": fmt.Sprintf("OTP sent to %s", receipt.Identifier),
		"data":    receipt,
	})
}

// VerifyOTP consumes a code and returns a token pair.
func (h *OTPHandler) VerifyOTP(c *fiber.Ctx) error {
	var req models.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if done, err := validate(c, req); done {
		return err
	}
	pair, user, err := h.otp.Verify(c.Context(), req.Identifier, req.OTP)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":      "OTP verified successfully.",
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"role":         user.Role,
	})
}

// ResendOTP issues a fresh code, also for identifiers that only exist as a
// pending instructor registration.
func (h *OTPHandler) ResendOTP(c *fiber.Ctx) error {
	var req models.SendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if done, err := validate(c, req); done {
		return err
	}
	receipt, err := h.otp.Resend(c.Context(), req.Identifier)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": fmt.Sprintf("OTP sent to %s", receipt.Identifier),
		"data":    receipt,
	})
}
