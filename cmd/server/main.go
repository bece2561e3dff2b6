package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"paysecure/internal/adapters/http/handlers"
	"paysecure/internal/adapters/http/middleware"
	"paysecure/internal/adapters/http/routes"
	"paysecure/internal/adapters/persistence/repositories"
	"paysecure/internal/adapters/revocation"
	"paysecure/internal/config"
	"paysecure/internal/core/services"
	"paysecure/internal/pkg/jwt"
	"paysecure/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	_ "paysecure/docs" // Swagger docs
)

// @title PaySecure API
// @version 1.0
// @description Customer and staff portals for international payments.

// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}
	password.SetCost(cfg.BcryptCost)

	// Token issuers, one key per portal
	customerIssuer, err := jwt.NewIssuer(cfg.JWT.CustomerSecret, jwt.AudienceCustomer, cfg.JWT.CustomerTTL)
	if err != nil {
		log.Fatalf("❌ Customer token issuer: %v", err)
	}
	staffIssuer, err := jwt.NewIssuer(cfg.JWT.StaffSecret, jwt.AudienceStaff, cfg.JWT.StaffTTL)
	if err != nil {
		log.Fatalf("❌ Staff token issuer: %v", err)
	}

	// Connect to database (migrates the schema)
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	employeeRepo := repositories.NewEmployeeRepository(db)
	if err := config.SeedSuperAdmin(context.Background(), employeeRepo, cfg.SuperAdmin); err != nil {
		log.Fatalf("❌ Failed to seed super admin: %v", err)
	}

	healthChecks := []handlers.HealthCheck{{Name: "database", Check: config.HealthCheck}}

	// Revocation stores
	customerStore, staffStore, rdb := openRevocationStores(cfg, db)
	if rdb != nil {
		defer rdb.Close()
	}
	if p, ok := customerStore.(revocation.Pinger); ok {
		healthChecks = append(healthChecks, handlers.HealthCheck{Name: "revocation", Check: p.Ping})
	}

	// Janitor for stores that do not expire entries on their own
	var purgers []revocation.Purger
	for _, s := range []revocation.Store{customerStore, staffStore} {
		if p, ok := s.(revocation.Purger); ok {
			purgers = append(purgers, p)
		}
	}
	janitor := services.NewRevocationJanitor(purgers...)
	if err := janitor.Start(cfg.Revocation.PurgeSchedule); err != nil {
		log.Fatalf("❌ Failed to schedule revocation janitor: %v", err)
	}
	defer janitor.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "PaySecure API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    cfg.Security.BodyLimit,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, cfg, routes.Dependencies{
		Users:               repositories.NewUserRepository(db),
		Employees:           employeeRepo,
		Payments:            repositories.NewPaymentRepository(db),
		CustomerIssuer:      customerIssuer,
		StaffIssuer:         staffIssuer,
		CustomerRevocations: customerStore,
		StaffRevocations:    staffStore,
		HealthChecks:        healthChecks,
	})

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// openRevocationStores builds one store per portal on the configured backend.
// The redis client is returned so main can close it and probe it.
func openRevocationStores(cfg *config.Config, db *gorm.DB) (customer, staff revocation.Store, rdb *redis.Client) {
	switch cfg.Revocation.Backend {
	case revocation.BackendRedis:
		client, err := config.ConnectRedis(cfg)
		if err != nil {
			log.Fatalf("❌ Failed to connect to redis: %v", err)
		}
		return revocation.NewRedisStore(client, jwt.AudienceCustomer),
			revocation.NewRedisStore(client, jwt.AudienceStaff),
			client

	case revocation.BackendDatabase:
		repo := repositories.NewRevokedTokenRepository(db)
		return revocation.NewDatabaseStore(repo, jwt.AudienceCustomer),
			revocation.NewDatabaseStore(repo, jwt.AudienceStaff),
			nil

	default:
		log.Println("⚠️ Using in-memory token revocation; logouts are lost on restart")
		return revocation.NewMemoryStore(), revocation.NewMemoryStore(), nil
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
