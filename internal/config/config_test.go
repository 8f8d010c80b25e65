package config

import (
	"errors"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SECRET_KEY", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("SITE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DatabaseURL != "self_help_blog.db" {
		t.Errorf("expected default database file, got %q", cfg.DatabaseURL)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.OAuthRedirectURL() != "http://localhost:8080/login/google/authorized" {
		t.Errorf("unexpected redirect url %q", cfg.OAuthRedirectURL())
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("GOOGLE_CLIENT_ID", "client")
	t.Setenv("GOOGLE_CLIENT_SECRET", "shh")
	t.Setenv("SITE_URL", "https://blog.example.com/")
	t.Setenv("PORT", "9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SecretKey != "s3cret" || cfg.GoogleClientID != "client" || cfg.GoogleClientSecret != "shh" {
		t.Errorf("env values not picked up: %+v", cfg)
	}
	if cfg.SiteURL != "https://blog.example.com" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.SiteURL)
	}
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestValidateReportsMissingSettings(t *testing.T) {
	cfg := &Config{GoogleClientID: "client"}
	err := cfg.Validate()
	if !errors.Is(err, ErrMissingSetting) {
		t.Fatalf("expected ErrMissingSetting, got %v", err)
	}
	want := "missing required setting: SECRET_KEY, GOOGLE_CLIENT_SECRET"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
