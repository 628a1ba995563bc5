package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "platefeed")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "platefeed")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173, https://platefeed.example")

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "platefeed", cfg.DBUser)
	assert.Equal(t, "secret", cfg.DBPassword)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, []string{"http://localhost:5173", "https://platefeed.example"}, cfg.AllowedOrigins)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_USER", "platefeed")

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "media", cfg.MediaDir)
}

func TestValidateConfig(t *testing.T) {
	err := ValidateConfig(&Config{DBDriver: "postgres", DBUser: "u"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	err = ValidateConfig(&Config{JWTSecret: "s", DBDriver: "postgres"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_USER")

	err = ValidateConfig(&Config{JWTSecret: "s", DBDriver: "oracle"})
	assert.Error(t, err)

	err = ValidateConfig(&Config{JWTSecret: "s", DBDriver: "sqlite", SQLitePath: "x.db"})
	assert.NoError(t, err)
}
