package config

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	DefaultBaseURL     = "https://musik-android.onrender.com"
	DefaultSunoBaseAPI = "https://api.kie.ai/api/v1"
)

// Config is built once at startup and handed to every component.
// SunoAPIKey and DatabaseURL are optional here: their absence is reported
// as a server error when a request needs them.
type Config struct {
	// WebServer Configuration
	WebServerPort int    `mapstructure:"WEBSERVER_PORT" validate:"min=1,max=65535"`
	LogLevel      string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`

	// Provider Configuration
	SunoAPIKey  string `mapstructure:"SUNO_API_KEY"`
	SunoBaseAPI string `mapstructure:"SUNO_BASE_API" validate:"required,url"`

	// Database Configuration
	DatabaseURL         string `mapstructure:"DATABASE_URL"`
	DatabaseRetries     int    `mapstructure:"DATABASE_RETRIES"`
	DatabaseAutoMigrate bool   `mapstructure:"DATABASE_AUTO_MIGRATE"`

	// Public surface
	BaseURL   string `mapstructure:"BASE_URL" validate:"required,url"`
	MediaRoot string `mapstructure:"MEDIA_ROOT" validate:"required"`

	// Callback behavior
	CallbackReportFailed   bool `mapstructure:"CALLBACK_REPORT_FAILED"`
	CallbackRetryTransient bool `mapstructure:"CALLBACK_RETRY_TRANSIENT"`
}

// CallbackURL is the webhook address handed to the provider.
func (c Config) CallbackURL() string {
	return c.BaseURL + "/callback"
}

// SlogLevel maps LogLevel onto a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogValue keeps the provider secret and DSN out of the logs.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("webserver_port", c.WebServerPort),
		slog.String("log_level", c.LogLevel),
		slog.String("suno_base_api", c.SunoBaseAPI),
		slog.Bool("suno_api_key_set", c.SunoAPIKey != ""),
		slog.Bool("database_url_set", c.DatabaseURL != ""),
		slog.Int("database_retries", c.DatabaseRetries),
		slog.Bool("database_auto_migrate", c.DatabaseAutoMigrate),
		slog.String("base_url", c.BaseURL),
		slog.String("media_root", c.MediaRoot),
		slog.Bool("callback_report_failed", c.CallbackReportFailed),
		slog.Bool("callback_retry_transient", c.CallbackRetryTransient),
	)
}

// use reflect to bind environment variables based on mapstructure tags
func bindEnv(c Config) {
	val := reflect.ValueOf(c)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("mapstructure")
		if tag != "" {
			_ = viper.BindEnv(tag)
		}
	}
}

func LoadConfig(ctx context.Context) (*Config, error) {
	bindEnv(Config{})
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("WEBSERVER_PORT", 8000)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SUNO_BASE_API", DefaultSunoBaseAPI)
	viper.SetDefault("DATABASE_RETRIES", 10)
	viper.SetDefault("DATABASE_AUTO_MIGRATE", true)
	viper.SetDefault("BASE_URL", DefaultBaseURL)
	viper.SetDefault("MEDIA_ROOT", "media")
	viper.SetDefault("CALLBACK_REPORT_FAILED", false)
	viper.SetDefault("CALLBACK_RETRY_TRANSIENT", false)

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.SunoBaseAPI = strings.TrimRight(strings.TrimSpace(cfg.SunoBaseAPI), "/")

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	slog.InfoContext(ctx, "Loaded configuration", "config", cfg)

	return &cfg, nil
}
