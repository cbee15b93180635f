package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays Config fields from environment variables. Values are
// expected to be provided either directly or through a .env file loaded by
// the entrypoint (godotenv). Environment has the highest precedence so that
// container deployments can override anything baked into files or flags.
//
// Recognized variables:
//
//	ADDRESS          ASKGATE_SECRET_KEY   TOKEN_VALIDITY (Go duration)
//	DATABASE_DSN     BCRYPT_COST          CORS_ALLOWED_ORIGINS (comma-separated)
//	ADMIN_USERNAME   ADMIN_EMAIL          ADMIN_PASSWORD   ADMIN_ROLE
func parseEnv(config *Config) {
	if v := os.Getenv("ADDRESS"); v != "" {
		config.EndpointAddr = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("ASKGATE_SECRET_KEY"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("TOKEN_VALIDITY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.TokenValidityDuration = d
		}
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.BCryptCost = n
		}
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		config.CORSAllowedOrigins = splitOrigins(v)
	}
	if v := os.Getenv("ADMIN_USERNAME"); v != "" {
		config.AdminUsername = v
	}
	if v := os.Getenv("ADMIN_EMAIL"); v != "" {
		config.AdminEmail = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		config.AdminPassword = v
	}
	if v := os.Getenv("ADMIN_ROLE"); v != "" {
		config.AdminRole = v
	}
}
