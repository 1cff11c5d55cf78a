package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ashika-normality/project-portico-backend/internal/services"
	"github.com/ashika-normality/project-portico-backend/internal/utils"
)

// statusFor maps service errors onto HTTP statuses. Anything unrecognised
// is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrDuplicateEmail),
		errors.Is(err, services.ErrEmailInUse),
		errors.Is(err, services.ErrInvalidOTP),
		errors.Is(err, services.ErrOTPExpired),
		errors.Is(err, services.ErrUnsupportedProvider):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidRefreshToken),
		errors.Is(err, services.ErrRefreshTokenExpired),
		errors.Is(err, services.ErrRefreshTokenNotRecognized),
		errors.Is(err, services.ErrSocialTokenInvalid):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrWrongRole):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrNoPendingRegistration),
		errors.Is(err, services.ErrCardNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrOTPRateLimited):
		return fiber.StatusTooManyRequests
	case errors.Is(err, services.ErrOTPDeliveryFailed),
		errors.Is(err, services.ErrSocialVerifyUnavailable):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// fail renders a service error as a JSON message body. Internal errors get
// a generic message so nothing leaks.
func fail(c *fiber.Ctx, log *zap.Logger, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		msg = "Internal Server Error"
	}
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

// validate runs the shared validator and renders field failures as a 400.
// Returns true when the request should be aborted.
func validate(c *fiber.Ctx, req any) (bool, error) {
	if err := utils.Validate.Struct(req); err != nil {
		fields := utils.FormatValidationErrors(err)
		if fields == nil {
			return true, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request"})
		}
		return true, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "validation failed",
			"errors":  fields,
		})
	}
	return false, nil
}
