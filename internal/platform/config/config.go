package config

import (
	"os"
	"time"

	"backoffice/internal/identity"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	LogLevel      string
	JWTSigningKey string
	JWTIssuer     string
	TokenTTL      time.Duration
	// DatabaseURL selects the postgres directory store; empty keeps the
	// in-memory store for development.
	DatabaseURL string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("BACKOFFICE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = "backoffice"
	}

	ttl := identity.DefaultTokenTTL
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			ttl = parsed
		}
	}

	return Server{
		Addr:          addr,
		LogLevel:      os.Getenv("LOG_LEVEL"),
		JWTSigningKey: jwtSigningKey,
		JWTIssuer:     issuer,
		TokenTTL:      ttl,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
	}
}
