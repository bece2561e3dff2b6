package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode    string
	Port       string
	Database   DatabaseConfig
	JWT        JWTConfig
	Redis      RedisConfig
	Revocation RevocationConfig
	RateLimit  RateLimitConfig
	Security   SecurityConfig
	SuperAdmin SuperAdminConfig
	BcryptCost int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds per-portal signing keys and lifetimes
type JWTConfig struct {
	CustomerSecret string
	StaffSecret    string
	CustomerTTL    time.Duration
	StaffTTL       time.Duration
}

// RedisConfig holds redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RevocationConfig selects where logged-out tokens are recorded
type RevocationConfig struct {
	Backend       string
	PurgeSchedule string
}

// Limit is a fixed-window request budget
type Limit struct {
	Max    int
	Window time.Duration
}

// RateLimitConfig holds per-route-class limits
type RateLimitConfig struct {
	Login    Limit
	Register Limit
	API      Limit
	Payment  Limit
}

// SecurityConfig holds cross-cutting HTTP protections
type SecurityConfig struct {
	AllowedOrigins string
	CSRFRequired   bool
	CSRFHeader     string
	BodyLimit      int
}

// SuperAdminConfig seeds the creator-less admin on first start
type SuperAdminConfig struct {
	Username string
	Password string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	security, err := loadSecurityConfig(appMode)
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:    appMode,
		Port:       getEnv("PORT", "5000"),
		Database:   loadDatabaseConfig(appMode),
		JWT:        loadJWTConfig(appMode),
		Redis:      loadRedisConfig(),
		Revocation: loadRevocationConfig(appMode),
		RateLimit:  loadRateLimitConfig(),
		Security:   security,
		SuperAdmin: SuperAdminConfig{
			Username: getEnv("SUPER_ADMIN_USERNAME", "superadmin"),
			Password: getEnv("SUPER_ADMIN_PASSWORD", ""),
		},
		BcryptCost: getEnvInt("BCRYPT_COST", 12),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// Validate checks startup preconditions
func (c *Config) Validate() error {
	if c.JWT.CustomerSecret == "" || c.JWT.StaffSecret == "" {
		return fmt.Errorf("CUSTOMER_JWT_SECRET and STAFF_JWT_SECRET must be set")
	}
	if c.JWT.CustomerSecret == c.JWT.StaffSecret {
		return fmt.Errorf("customer and staff JWT secrets must differ")
	}
	switch c.Revocation.Backend {
	case "memory", "database", "redis":
	default:
		return fmt.Errorf("invalid REVOCATION_BACKEND: '%s'", c.Revocation.Backend)
	}
	// Credentialed CORS cannot use a wildcard origin
	if strings.Contains(c.Security.AllowedOrigins, "*") {
		return fmt.Errorf("ALLOWED_ORIGINS must list explicit origins")
	}
	return nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "paysecure"),
	}
}

// loadJWTConfig loads JWT config based on mode.
// Secrets have no defaults: a missing secret stops the server at startup.
func loadJWTConfig(mode string) JWTConfig {
	prefix := modePrefix(mode)

	return JWTConfig{
		CustomerSecret: getEnv(prefix+"CUSTOMER_JWT_SECRET", ""),
		StaffSecret:    getEnv(prefix+"STAFF_JWT_SECRET", ""),
		CustomerTTL:    getEnvDuration("CUSTOMER_TOKEN_TTL", time.Hour),
		StaffTTL:       getEnvDuration("STAFF_TOKEN_TTL", 8*time.Hour),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}
}

func loadRevocationConfig(mode string) RevocationConfig {
	backend := "memory"
	if mode == "prod" {
		backend = "redis"
	}

	return RevocationConfig{
		Backend:       strings.ToLower(getEnv("REVOCATION_BACKEND", backend)),
		PurgeSchedule: getEnv("REVOCATION_PURGE_SCHEDULE", "@every 30m"),
	}
}

func loadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Login: Limit{
			Max:    getEnvInt("RATE_LIMIT_LOGIN_MAX", 5),
			Window: getEnvDuration("RATE_LIMIT_LOGIN_WINDOW", 15*time.Minute),
		},
		Register: Limit{
			Max:    getEnvInt("RATE_LIMIT_REGISTER_MAX", 3),
			Window: getEnvDuration("RATE_LIMIT_REGISTER_WINDOW", time.Hour),
		},
		API: Limit{
			Max:    getEnvInt("RATE_LIMIT_API_MAX", 100),
			Window: getEnvDuration("RATE_LIMIT_API_WINDOW", 15*time.Minute),
		},
		Payment: Limit{
			Max:    getEnvInt("RATE_LIMIT_PAYMENT_MAX", 30),
			Window: getEnvDuration("RATE_LIMIT_PAYMENT_WINDOW", 15*time.Minute),
		},
	}
}

func loadSecurityConfig(mode string) (SecurityConfig, error) {
	raw := getEnv("CSRF_REQUIRED", "true")
	csrf, err := strconv.ParseBool(raw)
	if err != nil {
		return SecurityConfig{}, fmt.Errorf("invalid CSRF_REQUIRED: '%s' (must be true or false)", raw)
	}

	return SecurityConfig{
		AllowedOrigins: allowedOrigins(mode),
		CSRFRequired:   csrf,
		CSRFHeader:     getEnv("CSRF_HEADER", "X-Requested-With"),
		BodyLimit:      getEnvInt("BODY_LIMIT_BYTES", 10*1024),
	}, nil
}

// allowedOrigins returns the CORS allow-list
func allowedOrigins(mode string) string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if mode == "dev" {
			return "http://localhost:3000,https://localhost:3000"
		}
		return "https://paysecure.example.com"
	}
	return origins
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}
