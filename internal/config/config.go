package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	NATSURL           string
	JWTSecret         string
	JWTIssuer         string
	JWTAudience       string
	InternalAPIKey    string
	ProfileServiceURL string
	ProfileTimeout    time.Duration

	ModerationRateLimit  int
	ModerationRateWindow time.Duration
	AdminReadRateLimit   int
	AdminReadRateWindow  time.Duration

	ProjectCacheTTL time.Duration
	MaxUploadMB     int

	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsDevelopment reports whether the service runs in development mode.
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PROJECTHUB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "ProjectHub API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("profile.timeout", "5s")
	v.SetDefault("ratelimit.moderation_limit", 30)
	v.SetDefault("ratelimit.moderation_window", "1h")
	v.SetDefault("ratelimit.admin_read_limit", 300)
	v.SetDefault("ratelimit.admin_read_window", "1h")
	v.SetDefault("project.cache_ttl", "2m")
	v.SetDefault("max_upload_mb", 10)
	v.SetDefault("cloudinary.folder", "projecthub/attachments")

	profileTimeout, err := time.ParseDuration(v.GetString("profile.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid profile timeout: %w", err)
	}

	moderationWindow, err := time.ParseDuration(v.GetString("ratelimit.moderation_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid moderation rate window: %w", err)
	}

	adminReadWindow, err := time.ParseDuration(v.GetString("ratelimit.admin_read_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid admin read rate window: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("project.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid project cache ttl: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		NATSURL:           v.GetString("nats.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		JWTIssuer:         v.GetString("jwt.issuer"),
		JWTAudience:       v.GetString("jwt.audience"),
		InternalAPIKey:    v.GetString("internal_api_key"),
		ProfileServiceURL: v.GetString("profile.service_url"),
		ProfileTimeout:    profileTimeout,

		ModerationRateLimit:  v.GetInt("ratelimit.moderation_limit"),
		ModerationRateWindow: moderationWindow,
		AdminReadRateLimit:   v.GetInt("ratelimit.admin_read_limit"),
		AdminReadRateWindow:  adminReadWindow,

		ProjectCacheTTL: cacheTTL,
		MaxUploadMB:     v.GetInt("max_upload_mb"),

		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 10
	}

	return cfg, nil
}
