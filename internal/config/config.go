package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAPIURL      = "http://127.0.0.1:7474"
	DefaultDBFileName  = ".taskly.db"
	DefaultLogLevel    = "info"
	DefaultAttachDir   = ".taskly-attachments"
	configFileName     = ".taskly.toml"
	DefaultTimezoneKey = "Local"

	DefaultAttachmentMaxUploadBytes  int64 = 25 * 1024 * 1024
	DefaultAttachmentMultipartMemory int64 = 8 * 1024 * 1024

	configDirEnvKey          = "TASKLY_CONFIG_DIR"
	trustProjectConfigEnvKey = "TASKLY_TRUST_PROJECT_CONFIG"
	apiURLEnvKey             = "TASKLY_API_URL"
	dbPathEnvKey             = "TASKLY_DB"
	logLevelEnvKey           = "TASKLY_LOG_LEVEL"
	timezoneEnvKey           = "TASKLY_TIMEZONE"
)

// AttachmentConfig controls where attachment bytes live and upload limits.
type AttachmentConfig struct {
	Dir                string `toml:"dir"`
	MaxUploadBytes     int64  `toml:"max_upload_bytes"`
	MultipartMaxMemory int64  `toml:"multipart_max_memory"`
}

// Config defines runtime configuration for taskly.
type Config struct {
	APIURL                   string           `toml:"api_url"`
	DBPath                   string           `toml:"db_path"`
	LogLevel                 string           `toml:"log_level"`
	LogFile                  string           `toml:"log_file"`
	Timezone                 string           `toml:"timezone"`
	Attachments              AttachmentConfig `toml:"attachments"`
	TrustedProjectConfigPath string           `toml:"-"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		APIURL:   DefaultAPIURL,
		LogLevel: DefaultLogLevel,
		Timezone: DefaultTimezoneKey,
		Attachments: AttachmentConfig{
			MaxUploadBytes:     DefaultAttachmentMaxUploadBytes,
			MultipartMaxMemory: DefaultAttachmentMultipartMemory,
		},
	}
}

// Location resolves the configured time zone. Empty or "Local" means the host zone.
func (c *Config) Location() (*time.Location, error) {
	return parseTimezone(c.Timezone)
}

func parseTimezone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, DefaultTimezoneKey) {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

func loadFile(path string, cfg *Config) error {
	_, err := loadFileIfExists(path, cfg)
	return err
}

func loadFileIfExists(path string, cfg *Config) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return false, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return true, nil
}

func overrideConfigPath() (string, bool) {
	dir := strings.TrimSpace(os.Getenv(configDirEnvKey))
	if dir == "" {
		return "", false
	}
	return filepath.Join(dir, configFileName), true
}

func trustProjectConfig() bool {
	raw := strings.TrimSpace(os.Getenv(trustProjectConfigEnvKey))
	if raw == "" {
		return false
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return value
}

var allowedKeys = []string{
	"api_url",
	"db_path",
	"log_level",
	"log_file",
	"timezone",
	"attachments.dir",
	"attachments.max_upload_bytes",
	"attachments.multipart_max_memory",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "db_path":
		return c.DBPath, nil
	case "log_level":
		return c.LogLevel, nil
	case "log_file":
		return c.LogFile, nil
	case "timezone":
		return c.Timezone, nil
	case "attachments.dir":
		return c.Attachments.Dir, nil
	case "attachments.max_upload_bytes":
		return strconv.FormatInt(c.Attachments.MaxUploadBytes, 10), nil
	case "attachments.multipart_max_memory":
		return strconv.FormatInt(c.Attachments.MultipartMaxMemory, 10), nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// GlobalPath returns the path to the global config file.
func GlobalPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

// ProjectPath returns the path to the project config file.
func ProjectPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, configFileName), nil
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	if err := setNestedKey(data, strings.Split(key, "."), parsedValue); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

// Load reads the global config, the project config when trusted, and env overrides.
func Load() (*Config, error) {
	cfg := Default()
	home, _ := os.UserHomeDir()

	if overridePath, ok := overrideConfigPath(); ok {
		if err := loadFile(overridePath, &cfg); err != nil {
			return nil, err
		}
	} else {
		if home != "" {
			if err := loadFile(filepath.Join(home, configFileName), &cfg); err != nil {
				return nil, err
			}
		}

		if trustProjectConfig() {
			if cwd, err := os.Getwd(); err == nil {
				projectPath := filepath.Join(cwd, configFileName)
				info, statErr := os.Stat(projectPath)
				switch {
				case statErr == nil && !info.IsDir():
					if err := loadFile(projectPath, &cfg); err != nil {
						return nil, err
					}
					cfg.TrustedProjectConfigPath = projectPath
				case statErr != nil && !os.IsNotExist(statErr):
					return nil, statErr
				}
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv(apiURLEnvKey)); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(dbPathEnvKey)); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv(logLevelEnvKey)); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(timezoneEnvKey)); v != "" {
		cfg.Timezone = v
	}

	cfg.normalize(home)
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize(home string) {
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.DBPath == "" {
		base := home
		if base == "" {
			base, _ = os.Getwd()
		}
		c.DBPath = filepath.Join(base, DefaultDBFileName)
	}
	if c.Attachments.Dir == "" {
		c.Attachments.Dir = filepath.Join(filepath.Dir(c.DBPath), DefaultAttachDir)
	}
	if c.Attachments.MaxUploadBytes <= 0 {
		c.Attachments.MaxUploadBytes = DefaultAttachmentMaxUploadBytes
	}
	if c.Attachments.MultipartMaxMemory <= 0 {
		c.Attachments.MultipartMaxMemory = DefaultAttachmentMultipartMemory
	}
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "attachments.max_upload_bytes", "attachments.multipart_max_memory":
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	case "log_level":
		switch strings.ToLower(value) {
		case "debug", "info", "warn", "warning", "error":
			return strings.ToLower(value), nil
		}
		return nil, fmt.Errorf("log_level must be one of debug, info, warn, error")
	case "timezone":
		if _, err := parseTimezone(value); err != nil {
			return nil, err
		}
		return value, nil
	default:
		return value, nil
	}
}

func setNestedKey(data map[string]any, parts []string, value any) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid config key")
	}
	if len(parts) == 1 {
		data[parts[0]] = value
		return nil
	}
	childRaw, ok := data[parts[0]]
	if !ok {
		child := map[string]any{}
		data[parts[0]] = child
		return setNestedKey(child, parts[1:], value)
	}
	child, ok := childRaw.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot set nested key %q", strings.Join(parts, "."))
	}
	return setNestedKey(child, parts[1:], value)
}
