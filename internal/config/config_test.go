package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points the config lookup at an empty temp dir and clears overrides
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, key := range []string{EnvConfigFile, EnvDBPath, EnvLogLevel, EnvSocketPath, EnvThemeFile, EnvNoEvents} {
		t.Setenv(key, "")
	}
	return dir
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	configDir := filepath.Join(dir, "plazo")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

func TestLoadConfigWithoutFile(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() without config file failed: %v", err)
	}

	if cfg.Logging.Level != DefaultLogLevel {
		t.Errorf("Logging.Level = %s, want %s", cfg.Logging.Level, DefaultLogLevel)
	}
	if cfg.Events.MaxRetries != DefaultMaxRetries {
		t.Errorf("Events.MaxRetries = %d, want %d", cfg.Events.MaxRetries, DefaultMaxRetries)
	}
	if cfg.ColorScheme.Preset != "default" || cfg.ColorScheme.Accent == "" {
		t.Errorf("Expected the default theme, got %+v", cfg.ColorScheme)
	}
}

func TestLoadConfigWithFile(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, `database:
  path: /tmp/plans.db
logging:
  level: debug
events:
  socket_path: /tmp/plazo.sock
  max_retries: 5
theme:
  preset: wave
  accent: "#123456"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with config file failed: %v", err)
	}

	if cfg.Database.Path != "/tmp/plans.db" {
		t.Errorf("Database.Path = %s", cfg.Database.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
	}
	if cfg.Events.MaxRetries != 5 {
		t.Errorf("Events.MaxRetries = %d, want 5", cfg.Events.MaxRetries)
	}
	if socket, _ := cfg.SocketPath(); socket != "/tmp/plazo.sock" {
		t.Errorf("SocketPath() = %s", socket)
	}
	if cfg.ColorScheme.Accent != "#123456" {
		t.Errorf("Custom accent lost, got %s", cfg.ColorScheme.Accent)
	}
	if cfg.ColorScheme.Title != WaveColorScheme().Title {
		t.Errorf("Missing colors should come from the wave preset, got %s", cfg.ColorScheme.Title)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "database:\n  path: /from/file.db\nlogging:\n  level: warn\n")

	t.Setenv(EnvDBPath, "/from/env.db")
	t.Setenv(EnvLogLevel, "ERROR")
	t.Setenv(EnvSocketPath, "/from/env.sock")
	t.Setenv(EnvNoEvents, "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Database.Path != "/from/env.db" {
		t.Errorf("Database.Path = %s, want env value", cfg.Database.Path)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %s, want error", cfg.Logging.Level)
	}
	if cfg.Events.SocketPath != "/from/env.sock" {
		t.Errorf("Events.SocketPath = %s, want env value", cfg.Events.SocketPath)
	}
	if !cfg.Events.Disabled {
		t.Error("Expected events to be disabled")
	}
}

func TestExplicitConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigFile, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected level from %s, got %s", path, cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"bad level", "logging:\n  level: loud\n", "logging.level"},
		{"bad retries", "events:\n  max_retries: -1\n", "max_retries"},
		{"bad yaml", "logging: [\n", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			writeConfig(t, dir, tt.content)

			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Expected error mentioning %q, got %v", tt.wantMsg, err)
			}
		})
	}
}

func TestThemeFileLoading(t *testing.T) {
	isolate(t)

	themeFile := filepath.Join(t.TempDir(), "theme.yaml")
	content := "theme:\n  accent: \"#FF0000\"\n  moved: \"#00FF00\"\n"
	if err := os.WriteFile(themeFile, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write theme file: %v", err)
	}
	t.Setenv(EnvThemeFile, themeFile)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.ColorScheme.Accent != "#FF0000" {
		t.Errorf("Expected accent to be #FF0000, got %s", cfg.ColorScheme.Accent)
	}
	if cfg.ColorScheme.Moved != "#00FF00" {
		t.Errorf("Expected moved to be #00FF00, got %s", cfg.ColorScheme.Moved)
	}
	if cfg.ColorScheme.Error == "" {
		t.Error("Expected error color to have a default value")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	isolate(t)

	cfg := Default()
	cfg.Database.Path = "/tmp/saved.db"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.Database.Path != "/tmp/saved.db" {
		t.Errorf("Database.Path = %s after save", loaded.Database.Path)
	}
}
