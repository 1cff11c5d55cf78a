package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ashika-normality/project-portico-backend/internal/middleware"
	"github.com/ashika-normality/project-portico-backend/internal/models"
	"github.com/ashika-normality/project-portico-backend/internal/services"
	"github.com/ashika-normality/project-portico-backend/internal/storage"
	"github.com/ashika-normality/project-portico-backend/internal/token"
)

// Multipart file fields accepted by the OTP-gated instructor flow.
var instructorFileFields = []string{
	"profileImage",
	"drivingLicenseFront",
	"drivingLicenseBack",
	"instructorLicenseFront",
	"instructorLicenseBack",
}

// AuthHandler serves registration, login and token endpoints.
type AuthHandler struct {
	auth    services.AuthService
	issuer  *token.Issuer
	uploads storage.UploadStore
	log     *zap.Logger
}

func NewAuthHandler(auth services.AuthService, issuer *token.Issuer, uploads storage.UploadStore, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, issuer: issuer, uploads: uploads, log: log}
}

// RegisterLearner creates a learner account immediately.
func (h *AuthHandler) RegisterLearner(c *fiber.Ctx) error {
	var req models.RegisterLearnerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if done, err := validate(c, req); done {
		return err
	}
	user, err := h.auth.RegisterLearner(c.Context(), req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": fmt.Sprintf("Learner account for %s created successfully!", user.Email),
	})
}

// RegisterInstructor creates an instructor account directly from a multipart
// form, with an optional photograph upload.
func (h *AuthHandler) RegisterInstructor(c *fiber.Ctx) error {
	var req models.RegisterInstructorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if done, err := validate(c, req); done {
		return err
	}

	photoRef := ""
	if fh, err := c.FormFile("photograph"); err == nil && fh != nil {
		ref, serr := h.uploads.Save(fh)
		if serr != nil {
			h.log.Error("photograph upload failed", zap.Error(serr))
			return fiber.NewError(fiber.StatusInternalServerError, "failed to store photograph")
		}
		photoRef = ref
	}

	user, err := h.auth.RegisterInstructor(c.Context(), req, photoRef)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": fmt.Sprintf("Instructor account for %s created successfully!", user.Email),
	})
}

// RegisterInstructorInitiate stages an instructor sign-up and sends an OTP
// to the given email. Document uploads are stored up front; their references
// travel with the pending registration.
func (h *AuthHandler) RegisterInstructorInitiate(c *fiber.Ctx) error {
	var req models.RegisterInstructorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if done, err := validate(c, req); done {
		return err
	}

	fileRefs := map[string]string{}
	for _, field := range instructorFileFields {
		fh, err := c.FormFile(field)
		if err != nil || fh == nil {
			continue
		}
		ref, serr := h.uploads.Save(fh)
		if serr != nil {
			h.log.Error("document upload failed", zap.String("field", field), zap.Error(serr))
			return fiber.NewError(fiber.StatusInternalServerError, "failed to store uploaded document")
		}
		fileRefs[field] = ref
	}

	receipt, err := h.auth.RegisterInstructorInitiate(c.Context(), req, fileRefs)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": fmt.Sprintf("OTP sent to %s", receipt.Identifier),
		"data":    receipt,
	})
}

// RegisterInstructorVerify completes an OTP-gated instructor sign-up.
func (h *AuthHandler) RegisterInstructorVerify(c *fiber.Ctx) error {
	var req models.RegisterInstructorVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if done, err := validate(c, req); done {
		return err
	}
	if _, err := h.auth.RegisterInstructorVerify(c.Context(), req.Email, req.OTP); err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration completed successfully!",
	})
}

// Login issues a token pair for an existing user identified by email.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if done, err := validate(c, req); done {
		return err
	}
	pair, user, err := h.auth.Login(c.Context(), req.Email)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"role":         user.Role,
	})
}

// SocialLogin verifies a provider identity token and logs the user in,
// creating a learner account on first sight.
func (h *AuthHandler) SocialLogin(c *fiber.Ctx) error {
	var req models.SocialLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if done, err := validate(c, req); done {
		return err
	}
	pair, user, err := h.auth.SocialLogin(c.Context(), req.Provider, req.Token)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"role":         user.Role,
		"user":         user,
	})
}

// VerifyToken checks an access token supplied in the body, the query string
// or the x-access-token header. A missing token is a 403, an invalid one a
// 401, matching what API clients already expect.
func (h *AuthHandler) VerifyToken(c *fiber.Ctx) error {
	var body struct {
		Token string `json:"token"`
	}
	_ = c.BodyParser(&body)

	raw := body.Token
	if raw == "" {
		raw = c.Query("token")
	}
	if raw == "" {
		raw = c.Get("x-access-token")
	}
	if raw == "" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "No token provided."})
	}

	claims, err := h.issuer.Verify(raw)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized! Invalid token."})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Token is valid.",
		"user":    fiber.Map{"id": claims.UserID, "role": claims.Role},
	})
}

// RefreshToken exchanges a recognised refresh token for a new access token.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req models.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if done, err := validate(c, req); done {
		return err
	}
	access, err := h.auth.RefreshAccessToken(c.Context(), req.RefreshToken)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"accessToken": access})
}

// Me returns the authenticated caller's claims. Mostly useful as a smoke
// test for frontend session handling.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id":   middleware.UserID(c),
		"role": middleware.UserRole(c),
	})
}
