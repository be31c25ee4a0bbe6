package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that every value the server cannot run without is set.
func ValidateConfig(cfg *Config) error {
	required := map[string]string{
		"SERVER_PORT": cfg.ServerPort,
		"DB_HOST":     cfg.DBHost,
		"DB_PORT":     cfg.DBPort,
		"DB_NAME":     cfg.DBName,
		"db_user":     cfg.DBUser,
		"db_password": cfg.DBPassword,
		"jwt_secret":  cfg.JWTSecret,
	}

	var errs []string
	for name, value := range required {
		if value == "" {
			errs = append(errs, ValidationError{Field: name, Message: "is not set"}.Error())
		}
	}

	// Redis is required only when the rate limiter is on, which is any
	// non-development environment.
	if GetEnvironment() != Development && cfg.RedisURL == "" && (cfg.RedisHost == "" || cfg.RedisPort == "") {
		errs = append(errs, ValidationError{Field: "REDIS_HOST/REDIS_PORT", Message: "is not set"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "\n"))
	}
	return nil
}
