package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/samber/lo"
)

// Config holds all environment configuration values for the application.
// Values come from the environment, optionally seeded from a .env file.
type Config struct {
	// ServerPort is the port the HTTP server listens on
	ServerPort string `envconfig:"PORT" default:"8080" validate:"required,numeric"`

	// CorsOrigins lists the browser origins allowed for REST and websocket requests
	CorsOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`

	// DefaultRoom is the room every participant starts in; it always exists
	DefaultRoom string `envconfig:"DEFAULT_ROOM" default:"general" validate:"required,max=64"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO" validate:"oneof=DEBUG INFO WARN ERROR"`

	// AuthTokenSecret enables signed identity tokens when set
	AuthTokenSecret string `envconfig:"AUTH_TOKEN_SECRET"`

	// RequireToken rejects authenticate requests that carry no token
	RequireToken bool `envconfig:"REQUIRE_TOKEN" default:"false"`

	// CensoredWords are masked in message text; empty disables moderation
	CensoredWords []string `envconfig:"CENSORED_WORDS"`
	CensorMask    string   `envconfig:"CENSOR_MASK" default:"*"`

	// ArchivePath enables the badger message archive when set
	ArchivePath       string        `envconfig:"ARCHIVE_PATH"`
	ArchiveGCInterval time.Duration `envconfig:"ARCHIVE_GC_INTERVAL" default:"10m" validate:"gt=0"`

	MaxMessageSize  int64         `envconfig:"MAX_MESSAGE_SIZE" default:"1048576" validate:"gt=0"`
	SendBufferSize  int           `envconfig:"SEND_BUFFER_SIZE" default:"256" validate:"gt=0"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`
}

// Load reads the environment and returns a validated Config.
// A .env file is loaded first when present.
func Load(log *slog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	cfg.normalize()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if utf8.RuneCountInString(cfg.CensorMask) != 1 {
		return nil, fmt.Errorf("invalid configuration: CENSOR_MASK must be a single character, got %q", cfg.CensorMask)
	}
	if cfg.RequireToken && cfg.AuthTokenSecret == "" {
		return nil, fmt.Errorf("invalid configuration: REQUIRE_TOKEN needs AUTH_TOKEN_SECRET")
	}
	return &cfg, nil
}

// Mask returns the rune used to mask censored words
func (c *Config) Mask() rune {
	r, _ := utf8.DecodeRuneInString(c.CensorMask)
	return r
}

func (c *Config) normalize() {
	clean := func(items []string) []string {
		return lo.Compact(lo.Map(items, func(s string, _ int) string { return strings.TrimSpace(s) }))
	}
	c.CorsOrigins = clean(c.CorsOrigins)
	c.CensoredWords = clean(c.CensoredWords)
	c.LogLevel = strings.ToUpper(strings.TrimSpace(c.LogLevel))
	c.DefaultRoom = strings.TrimSpace(c.DefaultRoom)
}
