package config

import (
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the loaded configuration is usable for the
// current environment.
func ValidateConfig(cfg *Config) error {
	if cfg.JWTSecret == "" {
		return ValidationError{Field: "JWT_SECRET", Message: "is required"}
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBUser == "" {
			return ValidationError{Field: "DB_USER", Message: "is required for the postgres driver"}
		}
		if IsProduction() && cfg.DBPassword == "" {
			return ValidationError{Field: "DB_PASSWORD", Message: "is required in production"}
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			return ValidationError{Field: "SQLITE_PATH", Message: "is required for the sqlite driver"}
		}
	default:
		return ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unknown driver %q", cfg.DBDriver)}
	}

	if cfg.S3Bucket != "" && cfg.AWSRegion == "" {
		return ValidationError{Field: "AWS_REGION", Message: "is required when S3_BUCKET_NAME is set"}
	}

	return nil
}
