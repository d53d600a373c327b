package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate points HOME and the working directory at fresh temp dirs and
// clears every env override.
func isolate(t *testing.T) (home, workspace string) {
	t.Helper()
	home = t.TempDir()
	workspace = t.TempDir()

	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(workspace); err != nil {
		t.Fatalf("chdir workspace: %v", err)
	}

	t.Setenv("HOME", home)
	for _, key := range []string{configDirEnvKey, trustProjectConfigEnvKey, apiURLEnvKey, dbPathEnvKey, logLevelEnvKey, timezoneEnvKey} {
		t.Setenv(key, "")
	}
	return home, workspace
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.APIURL != DefaultAPIURL {
		t.Fatalf("expected default API URL, got %q", cfg.APIURL)
	}
	if cfg.DBPath != "" {
		t.Fatalf("expected empty db path, got %q", cfg.DBPath)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Fatalf("expected default log level %q, got %q", DefaultLogLevel, cfg.LogLevel)
	}
	if cfg.Attachments.MaxUploadBytes != DefaultAttachmentMaxUploadBytes {
		t.Fatalf("expected attachment max upload default %d, got %d", DefaultAttachmentMaxUploadBytes, cfg.Attachments.MaxUploadBytes)
	}
	if cfg.Attachments.MultipartMaxMemory != DefaultAttachmentMultipartMemory {
		t.Fatalf("expected attachment multipart default %d, got %d", DefaultAttachmentMultipartMemory, cfg.Attachments.MultipartMaxMemory)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileName)
	if err := os.WriteFile(path, []byte(`api_url = "http://localhost:9999"
log_level = "warn"
timezone = "Europe/Berlin"

[attachments]
dir = "/srv/files"
`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Default()
	if err := loadFile(path, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://localhost:9999" {
		t.Fatalf("expected api_url 'http://localhost:9999', got %q", cfg.APIURL)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected log_level 'warn', got %q", cfg.LogLevel)
	}
	if cfg.Timezone != "Europe/Berlin" {
		t.Fatalf("expected timezone 'Europe/Berlin', got %q", cfg.Timezone)
	}
	if cfg.Attachments.Dir != "/srv/files" {
		t.Fatalf("expected attachments dir, got %q", cfg.Attachments.Dir)
	}
}

func TestLoadFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFile("/nonexistent/path/.taskly.toml", &cfg); err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Fatalf("defaults should be preserved")
	}
}

func TestIsAllowedKey(t *testing.T) {
	for _, key := range AllowedKeys() {
		if !IsAllowedKey(key) {
			t.Fatalf("expected %q to be allowed", key)
		}
	}
	if IsAllowedKey("invalid") {
		t.Fatal("expected 'invalid' to not be allowed")
	}
}

func TestGetKey(t *testing.T) {
	cfg := Config{
		APIURL:   "http://test:1234",
		DBPath:   "/tmp/test.db",
		LogLevel: "warn",
		LogFile:  "/tmp/taskly.log",
		Timezone: "UTC",
		Attachments: AttachmentConfig{
			Dir:                "/tmp/files",
			MaxUploadBytes:     123,
			MultipartMaxMemory: 456,
		},
	}

	tests := map[string]string{
		"api_url":                          "http://test:1234",
		"db_path":                          "/tmp/test.db",
		"log_level":                        "warn",
		"log_file":                         "/tmp/taskly.log",
		"timezone":                         "UTC",
		"attachments.dir":                  "/tmp/files",
		"attachments.max_upload_bytes":     "123",
		"attachments.multipart_max_memory": "456",
	}
	for key, want := range tests {
		got, err := cfg.Get(key)
		if err != nil || got != want {
			t.Fatalf("%s: expected %q, got %q (err: %v)", key, want, got, err)
		}
	}
	if _, err := cfg.Get("invalid"); err == nil {
		t.Fatal("expected error for invalid key")
	}
}

func TestSetKeyCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.toml")
	if err := SetKey(path, "api_url", "http://x:1"); err != nil {
		t.Fatalf("set: %v", err)
	}

	cfg := Default()
	if err := loadFile(path, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://x:1" {
		t.Fatalf("expected 'http://x:1', got %q", cfg.APIURL)
	}
}

func TestSetKeyUpdatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "existing.toml")
	if err := os.WriteFile(path, []byte("log_level = \"debug\"\napi_url = \"http://keep\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := SetKey(path, "log_level", "ERROR"); err != nil {
		t.Fatalf("set: %v", err)
	}

	cfg := Default()
	if err := loadFile(path, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Fatalf("expected 'error', got %q", cfg.LogLevel)
	}
	if cfg.APIURL != "http://keep" {
		t.Fatalf("expected preserved api_url 'http://keep', got %q", cfg.APIURL)
	}
}

func TestSetKeyValidatesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.toml")
	cases := map[string]string{
		"invalid_key":                  "value",
		"log_level":                    "loud",
		"timezone":                     "Mars/Olympus",
		"attachments.max_upload_bytes": "-5",
	}
	for key, value := range cases {
		if err := SetKey(path, key, value); err == nil {
			t.Fatalf("expected error for %s=%s", key, value)
		}
	}
}

func TestSetNestedAttachmentKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attachments.toml")
	if err := SetKey(path, "attachments.max_upload_bytes", "321"); err != nil {
		t.Fatalf("set nested key: %v", err)
	}
	if err := SetKey(path, "attachments.dir", "/data"); err != nil {
		t.Fatalf("set second nested key: %v", err)
	}

	cfg := Default()
	if err := loadFile(path, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Attachments.MaxUploadBytes != 321 || cfg.Attachments.Dir != "/data" {
		t.Fatalf("unexpected attachments config %+v", cfg.Attachments)
	}
}

func TestConfigDirOverridePaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(configDirEnvKey, dir)

	globalPath, err := GlobalPath()
	if err != nil {
		t.Fatalf("global path: %v", err)
	}
	if globalPath != filepath.Join(dir, configFileName) {
		t.Fatalf("unexpected global path: %s", globalPath)
	}

	projectPath, err := ProjectPath()
	if err != nil {
		t.Fatalf("project path: %v", err)
	}
	if projectPath != filepath.Join(dir, configFileName) {
		t.Fatalf("unexpected project path: %s", projectPath)
	}
}

func TestLoadDefaultsUnderHome(t *testing.T) {
	home, _ := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != filepath.Join(home, DefaultDBFileName) {
		t.Fatalf("expected db under home, got %q", cfg.DBPath)
	}
	if cfg.Attachments.Dir != filepath.Join(home, DefaultAttachDir) {
		t.Fatalf("expected attachments next to db, got %q", cfg.Attachments.Dir)
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(apiURLEnvKey, "http://example.com:8080")
	t.Setenv(dbPathEnvKey, "/tmp/override.db")
	t.Setenv(logLevelEnvKey, "debug")
	t.Setenv(timezoneEnvKey, "UTC")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://example.com:8080" {
		t.Fatalf("expected env override for API URL, got %q", cfg.APIURL)
	}
	if cfg.DBPath != "/tmp/override.db" {
		t.Fatalf("expected env override for DB path, got %q", cfg.DBPath)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected env override for log level, got %q", cfg.LogLevel)
	}
	loc, err := cfg.Location()
	if err != nil || loc != time.UTC {
		t.Fatalf("expected UTC location, got %v (err %v)", loc, err)
	}
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	isolate(t)
	t.Setenv(timezoneEnvKey, "Nowhere/Special")
	if _, err := Load(); err == nil {
		t.Fatal("expected invalid timezone error")
	}
}

func TestLoadFallsBackToDefaultLogLevelWhenConfiguredEmpty(t *testing.T) {
	home, _ := isolate(t)
	if err := os.WriteFile(filepath.Join(home, configFileName), []byte("log_level = \"\"\n"), 0o644); err != nil {
		t.Fatalf("write home config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Fatalf("expected default log level %q, got %q", DefaultLogLevel, cfg.LogLevel)
	}
}

func TestLoadIgnoresProjectConfigByDefault(t *testing.T) {
	home, workspace := isolate(t)
	if err := os.WriteFile(filepath.Join(home, configFileName), []byte("api_url = \"http://global\"\n"), 0o644); err != nil {
		t.Fatalf("write home config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(workspace, configFileName), []byte("api_url = \"http://project\"\n"), 0o644); err != nil {
		t.Fatalf("write project config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://global" {
		t.Fatalf("expected global api_url, got %q", cfg.APIURL)
	}
	if cfg.TrustedProjectConfigPath != "" {
		t.Fatalf("expected no trusted project config path, got %q", cfg.TrustedProjectConfigPath)
	}
}

func TestLoadAppliesProjectConfigWhenTrusted(t *testing.T) {
	home, workspace := isolate(t)
	if err := os.WriteFile(filepath.Join(home, configFileName), []byte("api_url = \"http://global\"\n"), 0o644); err != nil {
		t.Fatalf("write home config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(workspace, configFileName), []byte("api_url = \"http://project\"\n"), 0o644); err != nil {
		t.Fatalf("write project config: %v", err)
	}
	t.Setenv(trustProjectConfigEnvKey, "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://project" {
		t.Fatalf("expected trusted project api_url, got %q", cfg.APIURL)
	}
	if cfg.TrustedProjectConfigPath == "" {
		t.Fatal("expected trusted project config path to be recorded")
	}
}
