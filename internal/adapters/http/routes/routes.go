package routes

import (
	"paysecure/internal/adapters/http/handlers"
	"paysecure/internal/adapters/http/middleware"
	"paysecure/internal/adapters/persistence/repositories"
	"paysecure/internal/adapters/revocation"
	"paysecure/internal/config"
	"paysecure/internal/core/policy"
	"paysecure/internal/core/services"
	"paysecure/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the stores and token machinery the routes are built on.
// main wires GORM, Redis and the configured issuers; tests wire in-memory fakes.
type Dependencies struct {
	Users     repositories.UserRepository
	Employees repositories.EmployeeRepository
	Payments  repositories.PaymentRepository

	CustomerIssuer *jwt.Issuer
	StaffIssuer    *jwt.Issuer

	CustomerRevocations revocation.Store
	StaffRevocations    revocation.Store

	HealthChecks []handlers.HealthCheck
}

// Setup configures all routes for the application
func Setup(app *fiber.App, cfg *config.Config, deps Dependencies) {
	// Initialize services
	authService := services.NewAuthService(deps.Users, deps.CustomerIssuer, deps.CustomerRevocations)
	userService := services.NewUserService(deps.Users)
	staffAuthService := services.NewStaffAuthService(deps.Employees, deps.StaffIssuer, deps.StaffRevocations)
	employeeService := services.NewEmployeeService(deps.Employees)
	paymentService := services.NewPaymentService(deps.Payments)
	approvalService := services.NewApprovalService(deps.Payments)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.AppMode, deps.HealthChecks...)
	authHandler := handlers.NewAuthHandler(authService, userService)
	staffAuthHandler := handlers.NewStaffAuthHandler(staffAuthService)
	employeeHandler := handlers.NewEmployeeHandler(employeeService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	staffPaymentHandler := handlers.NewStaffPaymentHandler(approvalService)

	// Health check, metrics & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api", middleware.APIRateLimiter(cfg), middleware.NoCacheHeaders())

	customerAuth := middleware.CustomerAuth(deps.CustomerIssuer, deps.CustomerRevocations)
	staffAuth := middleware.StaffAuth(deps.StaffIssuer, deps.StaffRevocations)

	// One login budget per IP across both portals
	loginLimiter := middleware.LoginRateLimiter(cfg)

	setupCustomerRoutes(api, cfg, loginLimiter, customerAuth, authHandler, paymentHandler)
	setupStaffRoutes(api.Group("/employee"), loginLimiter, staffAuth, staffAuthHandler, staffPaymentHandler, employeeHandler)

	// 404 handler must be last
	app.Use(middleware.NotFound)
}

// setupCustomerRoutes configures the customer portal
func setupCustomerRoutes(
	api fiber.Router,
	cfg *config.Config,
	loginLimiter fiber.Handler,
	customerAuth fiber.Handler,
	authHandler *handlers.AuthHandler,
	paymentHandler *handlers.PaymentHandler,
) {
	// Public auth routes
	api.Post("/register", middleware.RegisterRateLimiter(cfg), authHandler.Register)
	api.Post("/login", loginLimiter, authHandler.Login)

	// Protected customer routes
	api.Post("/logout", customerAuth, authHandler.Logout)
	api.Get("/me", customerAuth, authHandler.Me)
	api.Put("/me/password", customerAuth, authHandler.ChangePassword)

	payments := api.Group("/payments", customerAuth, middleware.PaymentRateLimiter(cfg))
	payments.Get("/", paymentHandler.List)
	payments.Get("/stats", paymentHandler.Stats)
	payments.Get("/:id", paymentHandler.Get)
	payments.Post("/", paymentHandler.Create)
	payments.Put("/:id/status", paymentHandler.UpdateStatus)
	payments.Delete("/:id", paymentHandler.Delete)
}

// setupStaffRoutes configures the employee portal
func setupStaffRoutes(
	staff fiber.Router,
	loginLimiter fiber.Handler,
	staffAuth fiber.Handler,
	staffAuthHandler *handlers.StaffAuthHandler,
	staffPaymentHandler *handlers.StaffPaymentHandler,
	employeeHandler *handlers.EmployeeHandler,
) {
	auth := staff.Group("/auth")
	auth.Post("/login", loginLimiter, staffAuthHandler.Login)
	auth.Post("/logout", staffAuth, staffAuthHandler.Logout)
	auth.Get("/me", staffAuth, staffAuthHandler.Me)

	payments := staff.Group("/payments", staffAuth)
	payments.Get("/pending", middleware.RequireCapability(policy.ProcessPayments), staffPaymentHandler.Pending)
	payments.Get("/history", middleware.RequireCapability(policy.ViewPaymentHistory), staffPaymentHandler.History)
	payments.Post("/:id/process", middleware.RequireCapability(policy.ProcessPayments), staffPaymentHandler.Process)

	admin := staff.Group("/admin", staffAuth, middleware.RequireCapability(policy.ManageEmployees))
	admin.Get("/employees", employeeHandler.List)
	admin.Post("/employees", employeeHandler.Create)
	admin.Delete("/employees/:id", employeeHandler.Delete)
}
