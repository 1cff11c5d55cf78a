package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ashika-normality/project-portico-backend/internal/handlers"
	"github.com/ashika-normality/project-portico-backend/internal/middleware"
	"github.com/ashika-normality/project-portico-backend/internal/token"
)

// Setup mounts every API route. OTP endpoints live under /api/otp and are
// aliased under /api/auth for clients that still call them there.
func Setup(app *fiber.App, issuer *token.Issuer, ah *handlers.AuthHandler, oh *handlers.OTPHandler, ph *handlers.ProfileHandler) {
	requireAuth := middleware.RequireAuth(issuer)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register-learner", ah.RegisterLearner)
	auth.Post("/register-instructor", ah.RegisterInstructor)
	auth.Post("/register-instructor-initiate", ah.RegisterInstructorInitiate)
	auth.Post("/register-instructor-verify", ah.RegisterInstructorVerify)
	auth.Post("/login", ah.Login)
	auth.Post("/social-login", ah.SocialLogin)
	auth.Post("/verify-token", ah.VerifyToken)
	auth.Post("/refresh-token", ah.RefreshToken)
	auth.Get("/me", requireAuth, ah.Me)

	auth.Post("/send-otp", oh.SendOTP)
	auth.Post("/verify-otp", oh.VerifyOTP)
	auth.Post("/resend-otp", oh.ResendOTP)

	otp := api.Group("/otp")
	otp.Post("/send-otp", oh.SendOTP)
	otp.Post("/verify-otp", oh.VerifyOTP)
	otp.Post("/resend-otp", oh.ResendOTP)

	instructor := api.Group("/instructor-profile", requireAuth)
	instructor.Get("/me", ph.GetInstructorProfile)
	instructor.Post("/save-profile", ph.SaveInstructorProfile)

	learner := api.Group("/learner-profile", requireAuth)
	learner.Get("/me", ph.GetLearnerProfile)
	learner.Post("/save-profile", ph.SaveLearnerProfile)
	learner.Post("/cards/default/:cardId", ph.SetDefaultCard)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Server is running!"})
	})
}
