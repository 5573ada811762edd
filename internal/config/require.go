package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// MustNonEmpty exits the process when a required variable is unset.
func MustNonEmpty(value, envName string) {
	if value == "" {
		slog.Error("missing required env", "name", envName)
		os.Exit(1)
	}
}

// Validate reports every setting the API server cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	switch c.DBDriver {
	case "pgx", "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not one of pgx, postgres, sqlite", c.DBDriver))
	}
	if len(c.JWTSecret) == 0 {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTValidity <= 0 {
		errs = append(errs, errors.New("JWT_VALIDITY must be positive"))
	}
	if c.OAuthClientID == "" || c.OAuthClientSecret == "" {
		errs = append(errs, errors.New("OAUTH_CLIENT_ID and OAUTH_CLIENT_SECRET are required"))
	}
	if c.TokenRateLimit <= 0 || c.TokenRateBurst <= 0 {
		errs = append(errs, errors.New("TOKEN_RATE_LIMIT and TOKEN_RATE_BURST must be positive"))
	}
	return errors.Join(errs...)
}
