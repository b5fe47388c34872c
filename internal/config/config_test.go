package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("TRUSTED_PROXIES", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 14*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.NotEmpty(t, cfg.SessionSecret)
	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoadConfigProductionNeedsSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SESSION_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoadConfigSocialAndLists(t *testing.T) {
	t.Setenv("SOCIAL_GITHUB_URL", "https://github.com/someone")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1")
	t.Setenv("SESSION_TTL", "2h")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://github.com/someone", cfg.Site.SocialMedia["github"])
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.TrustedProxies)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"driver":  {"DATABASE_DRIVER", "mysql"},
		"storage": {"STORAGE_BACKEND", "ftp"},
		"cost":    {"BCRYPT_COST", "99"},
		"ttl":     {"SESSION_TTL", "soon"},
		"s3":      {"STORAGE_BACKEND", "s3"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("S3_BUCKET", "")
			t.Setenv(kv[0], kv[1])
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
