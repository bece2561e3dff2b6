package middleware

import (
	"errors"
	"log"
	"strings"

	"paysecure/internal/config"
	"paysecure/internal/pkg/metrics"
	"paysecure/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Setup configures all middlewares for the application
func Setup(app *fiber.App, cfg *config.Config) {
	// Recover middleware - catches panics
	app.Use(recover.New())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Security Headers middleware (Helmet)
	app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "same-origin",
		PermissionPolicy:          "geolocation=(), microphone=(), camera=()",
		HSTSMaxAge:                31536000,
	}))

	// Logger middleware
	if cfg.IsDev() {
		app.Use(logger.New(logger.Config{
			Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
		}))
	} else {
		app.Use(logger.New(logger.Config{
			Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n",
			TimeFormat: "2006-01-02 15:04:05",
		}))
	}

	// CORS middleware. Both portals send credentials, so origins are always an allow-list.
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Security.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization," + cfg.Security.CSRFHeader,
		AllowCredentials: true,
	}))

	if cfg.Security.CSRFRequired {
		app.Use("/api", RequireHeader(cfg.Security.CSRFHeader))
	}
}

// RequireHeader rejects state-changing requests that lack header. Browsers
// will not add a custom header cross-site without a CORS preflight.
func RequireHeader(header string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete:
			if strings.TrimSpace(c.Get(header)) == "" {
				return response.Forbidden(c, "Missing required "+header+" header")
			}
		}
		return c.Next()
	}
}

// RateLimiter creates a fixed-window limiter keyed by client IP and class
func RateLimiter(class string, limit config.Limit, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        limit.Max,
		Expiration: limit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "-" + class
		},
		LimitReached: func(c *fiber.Ctx) error {
			metrics.RateLimited.WithLabelValues(class).Inc()
			return response.TooManyRequests(c, message)
		},
	})
}

// LoginRateLimiter guards both login endpoints
func LoginRateLimiter(cfg *config.Config) fiber.Handler {
	return RateLimiter("login", cfg.RateLimit.Login, "Too many login attempts, please try again later")
}

// RegisterRateLimiter guards customer registration
func RegisterRateLimiter(cfg *config.Config) fiber.Handler {
	return RateLimiter("register", cfg.RateLimit.Register, "Too many accounts created from this IP, please try again later")
}

// APIRateLimiter is the general budget for everything under /api
func APIRateLimiter(cfg *config.Config) fiber.Handler {
	return RateLimiter("api", cfg.RateLimit.API, "Too many requests, please try again later")
}

// PaymentRateLimiter guards payment mutations
func PaymentRateLimiter(cfg *config.Config) fiber.Handler {
	limit := RateLimiter("payment", cfg.RateLimit.Payment, "Too many payment requests, please try again later")
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodGet {
			return c.Next()
		}
		return limit(c)
	}
}

// CustomErrorHandler handles errors globally. Fiber errors keep their status;
// anything else is logged and reported without detail.
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	var e *fiber.Error
	if errors.As(err, &e) {
		if e.Code == fiber.StatusNotFound {
			return response.RouteNotFound(c)
		}
		return c.Status(e.Code).JSON(fiber.Map{
			"error": e.Message,
		})
	}

	log.Printf("❌ Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return response.InternalServerError(c)
}

// NotFound is the catch-all for unknown routes
func NotFound(c *fiber.Ctx) error {
	return response.RouteNotFound(c)
}
