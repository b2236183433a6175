package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/mcpdock/mcpdock/internal/catalog"
)

func TestInit(t *testing.T) {
	viper.Reset()

	Init()

	if viper.GetInt("version") != 1 {
		t.Errorf("expected version default 1, got %d", viper.GetInt("version"))
	}
	if viper.GetString("catalog.url") != catalog.DefaultBaseURL {
		t.Errorf("expected catalog.url default %q, got %q", catalog.DefaultBaseURL, viper.GetString("catalog.url"))
	}
	if !viper.GetBool("backups.enabled") {
		t.Error("expected backups.enabled default true")
	}
	if viper.GetInt("backups.retention") != 5 {
		t.Errorf("expected backups.retention default 5, got %d", viper.GetInt("backups.retention"))
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	viper.Reset()
	Init()

	cfg, err := Load("")
	if err != nil {
		t.Errorf("Load() with no config file should not error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected config to be returned")
	}
	if cfg.Catalog.URL != catalog.DefaultBaseURL {
		t.Errorf("expected default catalog url, got %q", cfg.Catalog.URL)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	viper.Reset()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := []byte("catalog:\n  url: https://catalog.example.com/v0/servers\nbackups:\n  retention: 9\n")
	if err := os.WriteFile(configPath, content, 0600); err != nil {
		t.Fatal(err)
	}

	Init()

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Catalog.URL != "https://catalog.example.com/v0/servers" {
		t.Errorf("unexpected catalog url %q", cfg.Catalog.URL)
	}
	if cfg.Backups.Retention != 9 {
		t.Errorf("expected retention 9, got %d", cfg.Backups.Retention)
	}
}

func TestLoad_RejectsInvalidConfig(t *testing.T) {
	viper.Reset()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := []byte("catalog:\n  url: not a url\n")
	if err := os.WriteFile(configPath, content, 0600); err != nil {
		t.Fatal(err)
	}

	Init()

	if _, err := Load(configPath); err == nil {
		t.Error("Load() with an invalid catalog url should error")
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	viper.Reset()
	Init()

	if _, err := Load("/non/existent/path/config.yaml"); err == nil {
		t.Error("Load() with non-existent explicit path should error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"nil config", nil, true},
		{"valid", &Config{Version: 1, Catalog: CatalogConfig{URL: catalog.DefaultBaseURL}, Backups: BackupConfig{Retention: 5}}, false},
		{"version too low", &Config{Version: 0, Backups: BackupConfig{Retention: 5}}, true},
		{"bad catalog url", &Config{Version: 1, Catalog: CatalogConfig{URL: "not a url"}, Backups: BackupConfig{Retention: 5}}, true},
		{"zero retention", &Config{Version: 1, Backups: BackupConfig{Retention: 0}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.cfg)
			if tt.wantErr && len(errs) == 0 {
				t.Error("expected validation errors, got none")
			}
			if !tt.wantErr && len(errs) > 0 {
				t.Errorf("expected no validation errors, got %v", errs)
			}
		})
	}
}
