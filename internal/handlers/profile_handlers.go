package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ashika-normality/project-portico-backend/internal/middleware"
	"github.com/ashika-normality/project-portico-backend/internal/models"
	"github.com/ashika-normality/project-portico-backend/internal/services"
)

// ProfileHandler serves instructor and learner profile endpoints. Every
// route behind it runs after the auth middleware, so the caller's id is
// always present in the locals.
type ProfileHandler struct {
	profiles services.ProfileService
	log      *zap.Logger
}

func NewProfileHandler(profiles services.ProfileService, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, log: log}
}

// GetInstructorProfile returns the caller's instructor profile joined with
// their user record.
func (h *ProfileHandler) GetInstructorProfile(c *fiber.Ctx) error {
	view, err := h.profiles.GetInstructorProfile(c.Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(view)
}

// SaveInstructorProfile upserts the caller's instructor profile.
func (h *ProfileHandler) SaveInstructorProfile(c *fiber.Ctx) error {
	var req models.SaveInstructorProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if done, err := validate(c, req); done {
		return err
	}
	profile, err := h.profiles.SaveInstructorProfile(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Instructor profile saved successfully",
		"profile": profile,
	})
}

// GetLearnerProfile returns the caller's learner profile joined with their
// user record.
func (h *ProfileHandler) GetLearnerProfile(c *fiber.Ctx) error {
	view, err := h.profiles.GetLearnerProfile(c.Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(view)
}

// SaveLearnerProfile upserts the caller's learner profile. Card numbers in
// the payload are tokenized on the way through and never stored.
func (h *ProfileHandler) SaveLearnerProfile(c *fiber.Ctx) error {
	var req models.SaveLearnerProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if done, err := validate(c, req); done {
		return err
	}
	profile, err := h.profiles.SaveLearnerProfile(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Learner profile saved successfully",
		"profile": profile,
	})
}

// SetDefaultCard flags one stored card as the default payment method.
func (h *ProfileHandler) SetDefaultCard(c *fiber.Ctx) error {
	cardID := c.Params("cardId")
	profile, err := h.profiles.SetDefaultCard(c.Context(), middleware.UserID(c), cardID)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Default card updated",
		"profile": profile,
	})
}
