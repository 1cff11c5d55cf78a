package server

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/ashika-normality/project-portico-backend/internal/config"
	"github.com/ashika-normality/project-portico-backend/internal/handlers"
	"github.com/ashika-normality/project-portico-backend/internal/routes"
	"github.com/ashika-normality/project-portico-backend/internal/token"
)

// New initializes the Fiber application with config, middlewares, and routes.
func New(cfg *config.Config, issuer *token.Issuer, ah *handlers.AuthHandler, oh *handlers.OTPHandler, ph *handlers.ProfileHandler, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
		IdleTimeout:  cfg.App.IdleTimeout,
		BodyLimit:    cfg.App.BodyLimitMB * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.App.AllowedOrigins, ","),
		AllowCredentials: true,
	}))
	app.Use(zapLoggerMiddleware(logger))

	// Uploaded documents are served straight from the local store.
	app.Static("/uploads", cfg.Uploads.Dir)

	routes.Setup(app, issuer, ah, oh, ph)

	return app
}

// zapLoggerMiddleware logs incoming HTTP requests using Zap.
func zapLoggerMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)
		status := c.Response().StatusCode()

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
			zap.Int("status", status),
			zap.Duration("latency", latency),
		}

		if err != nil {
			logger.Error("HTTP Request Error", append(fields, zap.Error(err))...)
			return err
		}

		logger.Info("HTTP Request", fields...)
		return nil
	}
}
