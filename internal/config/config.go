package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything read from the process environment at startup.
type Config struct {
	SecretKey          string `mapstructure:"secret_key"`
	GoogleClientID     string `mapstructure:"google_client_id"`
	GoogleClientSecret string `mapstructure:"google_client_secret"`
	SiteURL            string `mapstructure:"site_url"`
	DatabaseURL        string `mapstructure:"database_url"`
	Port               string `mapstructure:"port"`
	RedisAddr          string `mapstructure:"redis_addr"`
	TemplatesDir       string `mapstructure:"templates_dir"`
	StaticDir          string `mapstructure:"static_dir"`
	GinMode            string `mapstructure:"gin_mode"`
}

var ErrMissingSetting = errors.New("missing required setting")

var keys = []string{
	"secret_key",
	"google_client_id",
	"google_client_secret",
	"site_url",
	"database_url",
	"port",
	"redis_addr",
	"templates_dir",
	"static_dir",
	"gin_mode",
}

// Load reads .env (if present), an optional config.yml, and the environment.
// Environment variables win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, finding env vars from system")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("site_url", "http://localhost:8080")
	v.SetDefault("database_url", "self_help_blog.db")
	v.SetDefault("port", "8080")
	v.SetDefault("templates_dir", "./web/templates")
	v.SetDefault("static_dir", "./web/static")
	v.SetDefault("gin_mode", "debug")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only covers keys viper already knows about
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", k, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.SiteURL = strings.TrimSuffix(cfg.SiteURL, "/")
	return cfg, nil
}

// Validate checks the settings the web server cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if c.SecretKey == "" {
		missing = append(missing, "SECRET_KEY")
	}
	if c.GoogleClientID == "" {
		missing = append(missing, "GOOGLE_CLIENT_ID")
	}
	if c.GoogleClientSecret == "" {
		missing = append(missing, "GOOGLE_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSetting, strings.Join(missing, ", "))
	}
	return nil
}

// OAuthRedirectURL is where the provider sends the browser back after consent.
func (c *Config) OAuthRedirectURL() string {
	return c.SiteURL + "/login/google/authorized"
}
