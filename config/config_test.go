package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Audio         struct {
		MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
		NativeFormats  []string      `mapstructure:"native_formats"`
		MaxDuration    time.Duration `mapstructure:"max_duration"`
	} `mapstructure:"audio"`
	Transcription struct {
		APIKey string `mapstructure:"api_key"`
	} `mapstructure:"transcription"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "scribe.yml", `
name: scribe-test
environment: staging
audio:
  max_upload_bytes: 1024
  native_formats: [mp3, wav]
  max_duration: 2h
`)

	var cfg testConfig
	if err := LoadConfig("scribe", &cfg, WithConfigFile(path), WithEnvFile(filepath.Join(dir, "none.env"))); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "scribe-test" || cfg.Environment != "staging" {
		t.Errorf("service = %+v", cfg.ServiceConfig)
	}
	if cfg.Audio.MaxUploadBytes != 1024 {
		t.Errorf("max_upload_bytes = %d", cfg.Audio.MaxUploadBytes)
	}
	if !slices.Equal(cfg.Audio.NativeFormats, []string{"mp3", "wav"}) {
		t.Errorf("native_formats = %v", cfg.Audio.NativeFormats)
	}
	if cfg.Audio.MaxDuration != 2*time.Hour {
		t.Errorf("max_duration = %v", cfg.Audio.MaxDuration)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "scribe.yml", "audio:\n  max_upload_bytes: 1024\n")
	t.Setenv("AUDIO_MAX_UPLOAD_BYTES", "2048")
	t.Setenv("TRANSCRIPTION_API_KEY", "sk-test")

	var cfg testConfig
	if err := LoadConfig("scribe", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Audio.MaxUploadBytes != 2048 {
		t.Errorf("env should override file, got %d", cfg.Audio.MaxUploadBytes)
	}
	if cfg.Transcription.APIKey != "sk-test" {
		t.Errorf("api_key = %q", cfg.Transcription.APIKey)
	}
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "TRANSCRIPTION_API_KEY=from-dotenv\n")
	t.Cleanup(func() { os.Unsetenv("TRANSCRIPTION_API_KEY") })

	var cfg testConfig
	if err := LoadConfig("scribe", &cfg, WithEnvFile(envPath), WithFileSystem(stubFS{envPath: true})); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Transcription.APIKey != "from-dotenv" {
		t.Errorf("api_key = %q", cfg.Transcription.APIKey)
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("scribe", &cfg, WithConfigFile("/does/not/exist.yml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestFindFirst(t *testing.T) {
	fs := stubFS{"config/config.yml": true, "config.yml": true}
	if got := findFirst(fs, configSearchPaths("scribe")); got != "config/config.yml" {
		t.Errorf("findFirst = %q", got)
	}
	if got := findFirst(stubFS{}, configSearchPaths("scribe")); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	variants := envKeyVariants("AUDIO_MAX_UPLOAD_BYTES")
	for _, want := range []string{"audio_max_upload_bytes", "audio.max_upload_bytes", "audio.max.upload_bytes"} {
		if !slices.Contains(variants, want) {
			t.Errorf("missing variant %q in %v", want, variants)
		}
	}
	if got := envKeyVariants("HOME"); len(got) != 1 || got[0] != "home" {
		t.Errorf("single part key = %v", got)
	}
	seen := map[string]bool{}
	for _, v := range variants {
		if seen[v] {
			t.Errorf("duplicate variant %q", v)
		}
		seen[v] = true
	}
}

func TestServiceConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var cfg ServiceConfig
		cfg.ApplyDefaults()
		if cfg.Name != "scribe" || cfg.Environment != "development" || !cfg.Debug {
			t.Errorf("defaults = %+v", cfg)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("defaults should validate: %v", err)
		}
	})
	t.Run("production keeps debug off", func(t *testing.T) {
		cfg := ServiceConfig{Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})
	t.Run("invalid environment", func(t *testing.T) {
		cfg := ServiceConfig{Name: "scribe", Environment: "qa"}
		cfg.Logging.ApplyDefaults()
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for unknown environment")
		}
	})
}

type stubFS map[string]bool

func (s stubFS) Exists(path string) bool { return s[path] }

func (s stubFS) LoadEnv(path string) error { return RealFileSystem{}.LoadEnv(path) }
