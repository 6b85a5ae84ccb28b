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

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		lines = append(lines, e.Error())
	}
	return strings.Join(lines, "\n")
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequireJWTSecret   bool
	RequireDBPassword  bool
	AllowSQLite        bool
	RequireRedis       bool
	ForbidDefaultCreds bool
}

var requirements = map[Environment]ConfigRequirements{
	Development: {
		RequireJWTSecret: true,
		AllowSQLite:      true,
	},
	Test: {
		AllowSQLite: true,
	},
	CI: {
		RequireJWTSecret:  true,
		RequireDBPassword: true,
		AllowSQLite:       true,
	},
	Production: {
		RequireJWTSecret:   true,
		RequireDBPassword:  true,
		RequireRedis:       true,
		ForbidDefaultCreds: true,
	},
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	reqs, ok := requirements[cfg.Env]
	if !ok {
		return fmt.Errorf("unknown environment: %s", cfg.Env)
	}

	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if cfg.Server.Port == "" {
		add("server.port", "is required")
	}

	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.Host == "" {
			add("database.host", "is required for postgres")
		}
		if cfg.Database.Name == "" {
			add("database.name", "is required for postgres")
		}
		if reqs.RequireDBPassword && cfg.Database.Password == "" {
			add("database.password", "is required in "+string(cfg.Env))
		}
		if reqs.ForbidDefaultCreds && cfg.Database.User == "postgres" && cfg.Database.Password == "postgres" {
			add("database.password", "default credentials are not allowed in production")
		}
	case "sqlite":
		if !reqs.AllowSQLite {
			add("database.driver", "sqlite is not allowed in "+string(cfg.Env))
		}
		if cfg.Database.FilePath == "" {
			add("database.file_path", "is required for sqlite")
		}
	default:
		add("database.driver", fmt.Sprintf("unsupported driver %q", cfg.Database.Driver))
	}

	if reqs.RequireJWTSecret && cfg.JWT.Secret == "" {
		add("jwt.secret", "is required in "+string(cfg.Env))
	}
	if cfg.JWT.TTL <= 0 {
		add("jwt.ttl", "must be positive")
	}
	if reqs.RequireRedis && !cfg.Redis.Enabled() {
		add("redis", "host or url is required in "+string(cfg.Env))
	}

	switch cfg.Storage.Driver {
	case "local":
		if cfg.Storage.Local.BasePath == "" {
			add("storage.local.base_path", "is required")
		}
	case "s3":
		if cfg.Storage.S3.Bucket == "" {
			add("storage.s3.bucket", "is required")
		}
	default:
		add("storage.driver", fmt.Sprintf("unsupported driver %q", cfg.Storage.Driver))
	}

	if cfg.API.PageSize < 1 {
		add("api.page_size", "must be at least 1")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
