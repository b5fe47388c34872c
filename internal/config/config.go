package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	DatabaseDriver string
	DatabaseURL    string

	SessionSecret string
	SessionTTL    time.Duration
	BcryptCost    int
	CORSOrigins   []string

	// TrustedProxies may set X-Forwarded-For; empty trusts none.
	TrustedProxies []string

	Site    SiteConfig
	Storage StorageConfig
	Mail    MailConfig
	GitHub  GitHubConfig
	Tracing TracingConfig
}

// SiteConfig is the static site information shown on public pages.
type SiteConfig struct {
	Name        string
	Tagline     string
	SocialMedia map[string]string
}

type StorageConfig struct {
	Backend       string // local, s3 or cloudinary
	LocalRoot     string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	CloudinaryURL string
	Folder        string
}

type MailConfig struct {
	SendGridAPIKey string
	FromAddress    string
	FromName       string
	AdminAddress   string
	Timeout        time.Duration
}

type GitHubConfig struct {
	Username string
	Token    string
}

type TracingConfig struct {
	Enabled      bool
	Exporter     string // stdout or otlp
	OTLPEndpoint string
	ServiceName  string
	SampleRatio  float64
}

var socialPlatforms = []string{"github", "linkedin", "twitter", "facebook", "instagram", "youtube", "medium", "stackoverflow"}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:           getEnvWithDefault("PORT", "8080"),
		Environment:    getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:       getEnvWithDefault("LOG_LEVEL", "info"),
		DatabaseDriver: getEnvWithDefault("DATABASE_DRIVER", "sqlite"),
		DatabaseURL:    getEnvWithDefault("DATABASE_URL", "folio.db?_foreign_keys=on&_busy_timeout=5000"),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		Site: SiteConfig{
			Name:        getEnvWithDefault("SITE_NAME", "Portfolio"),
			Tagline:     getEnvWithDefault("SITE_TAGLINE", "Software Developer"),
			SocialMedia: map[string]string{},
		},
		Storage: StorageConfig{
			Backend:       getEnvWithDefault("STORAGE_BACKEND", "local"),
			LocalRoot:     getEnvWithDefault("MEDIA_ROOT", "media"),
			S3Bucket:      os.Getenv("S3_BUCKET"),
			S3Region:      getEnvWithDefault("S3_REGION", "us-east-1"),
			S3Endpoint:    os.Getenv("S3_ENDPOINT"),
			S3AccessKey:   os.Getenv("S3_ACCESS_KEY_ID"),
			S3SecretKey:   os.Getenv("S3_SECRET_ACCESS_KEY"),
			CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
			Folder:        getEnvWithDefault("STORAGE_FOLDER", "folio"),
		},
		Mail: MailConfig{
			SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
			FromAddress:    getEnvWithDefault("MAIL_FROM", "noreply@localhost"),
			FromName:       getEnvWithDefault("MAIL_FROM_NAME", "Portfolio"),
			AdminAddress:   os.Getenv("ADMIN_EMAIL"),
		},
		GitHub: GitHubConfig{
			Username: os.Getenv("GITHUB_USERNAME"),
			Token:    os.Getenv("GITHUB_TOKEN"),
		},
		Tracing: TracingConfig{
			Exporter:     getEnvWithDefault("OTEL_EXPORTER", "stdout"),
			OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName:  getEnvWithDefault("OTEL_SERVICE_NAME", "folio-api"),
		},
	}

	for _, platform := range socialPlatforms {
		if url := os.Getenv("SOCIAL_" + strings.ToUpper(platform) + "_URL"); url != "" {
			cfg.Site.SocialMedia[platform] = url
		}
	}
	cfg.CORSOrigins = splitList(getEnvWithDefault("CORS_ORIGINS", "http://localhost:3000"))
	cfg.TrustedProxies = splitList(os.Getenv("TRUSTED_PROXIES"))

	var err error
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 14*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Mail.Timeout, err = getDuration("MAIL_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = getInt("BCRYPT_COST", 12); err != nil {
		return nil, err
	}
	if cfg.Tracing.Enabled, err = getBool("OTEL_ENABLED", false); err != nil {
		return nil, err
	}
	if cfg.Tracing.SampleRatio, err = getFloat("OTEL_SAMPLE_RATIO", 1); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the combinations LoadConfig cannot express as defaults.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("DATABASE_DRIVER must be sqlite or postgres, got %q", c.DatabaseDriver)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.SessionSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("SESSION_SECRET is required in production")
		}
		c.SessionSecret = "dev-insecure-session-secret"
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	switch c.Storage.Backend {
	case "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 storage backend")
		}
	case "cloudinary":
		if c.Storage.CloudinaryURL == "" {
			return fmt.Errorf("CLOUDINARY_URL is required for the cloudinary storage backend")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be local, s3 or cloudinary, got %q", c.Storage.Backend)
	}
	if c.Tracing.Enabled && c.Tracing.Exporter != "stdout" && c.Tracing.Exporter != "otlp" {
		return fmt.Errorf("OTEL_EXPORTER must be stdout or otlp")
	}
	return nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getFloat(key string, def float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
