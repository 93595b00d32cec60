package config

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	for _, key := range []string{
		"PORT", "MONGODB_URI", "MONGODB_DATABASE", "MONGODB_MAX_POOL_SIZE", "MONGODB_SERVER_SELECTION_TIMEOUT",
		"REQUEST_TIMEOUT", "JWT_SECRET", "EMAIL_PROVIDER", "CORS_ALLOWED_ORIGINS", "RABBITMQ_URL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "devevents", cfg.MongoDatabase)
	assert.Empty(t, cfg.MongoURI)
	assert.Equal(t, uint64(10), cfg.MongoMaxPoolSize)
	assert.Equal(t, 5*time.Second, cfg.MongoServerSelectionTimeout)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "noop", cfg.EmailProvider)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("PORT", "9090")
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("MONGODB_MAX_POOL_SIZE", "25")
	t.Setenv("MONGODB_SERVER_SELECTION_TIMEOUT", "2s")
	t.Setenv("REQUEST_TIMEOUT", "30")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "mongodb://db:27017", cfg.MongoURI)
	assert.Equal(t, uint64(25), cfg.MongoMaxPoolSize)
	assert.Equal(t, 2*time.Second, cfg.MongoServerSelectionTimeout)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"pool size not a number", map[string]string{"MONGODB_MAX_POOL_SIZE": "many"}},
		{"pool size zero", map[string]string{"MONGODB_MAX_POOL_SIZE": "0"}},
		{"bad timeout", map[string]string{"REQUEST_TIMEOUT": "soon"}},
		{"production without secret", map[string]string{"GO_ENV": "production", "JWT_SECRET": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GO_ENV", "test")
			t.Setenv("JWT_SECRET", "x")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "production", "warn").Info("hidden")
	assert.Empty(t, buf.String())

	newLogger(&buf, "production", "warn").Warn("shown", "k", "v")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "v", rec["k"])

	buf.Reset()
	newLogger(&buf, "development", "").Info("text")
	assert.Contains(t, buf.String(), "msg=text")
}
