// Package config resolves client and mock-server settings from defaults,
// a YAML file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvAPIURL       = "SHOP_API_URL"
	EnvLegacyAPIURL = "NEXT_PUBLIC_API_URL" // storefront web app setting, accepted as an alias
	EnvStateDir     = "SHOP_STATE_DIR"
	EnvStorage      = "SHOP_STORAGE"
	EnvLogLevel     = "SHOP_LOG_LEVEL"
	EnvConfig       = "SHOP_CONFIG"
)

// ClientConfig holds configuration for the shop CLI.
type ClientConfig struct {
	APIURL    string        `yaml:"api_url"`    // Remote API root
	StateDir  string        `yaml:"state_dir"`  // Where the session is persisted (default ~/.shop)
	Storage   string        `yaml:"storage"`    // Storage backend: file, sqlite, memory
	Timeout   time.Duration `yaml:"timeout"`    // Per-request transport timeout
	LogLevel  string        `yaml:"log_level"`  // Log level: debug, info, warn, error
	LogFormat string        `yaml:"log_format"` // Log format: text, json
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		APIURL:    "http://localhost:3333",
		StateDir:  defaultStateDir(),
		Storage:   "file",
		Timeout:   30 * time.Second,
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// ServerConfig holds configuration for the mock API server.
type ServerConfig struct {
	Addr      string        // Listen address (default ":3333")
	LogLevel  string        // Log level: debug, info, warn, error
	LogFormat string        // Log format: text, json
	JWTSecret string        // HS256 signing secret for access tokens
	TokenTTL  time.Duration // Access token lifetime
	Seed      bool          // Load demo users and products at startup
	BulkClear bool          // Accept bodyless DELETE /cart/remove-product
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:      ":3333",
		LogLevel:  "info",
		LogFormat: "text",
		JWTSecret: "dev-secret-change-me",
		TokenTTL:  24 * time.Hour,
		Seed:      true,
		BulkClear: true,
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shop"
	}
	return filepath.Join(home, ".shop")
}

// DefaultConfigPath returns ~/.shop/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(defaultStateDir(), "config.yaml")
}

// Load builds a ClientConfig. Later layers win:
//
//  1. DefaultClientConfig
//  2. the YAML file at path (or $SHOP_CONFIG, or ~/.shop/config.yaml); a
//     missing default file is fine, a missing explicit file is an error
//  3. variables from dotenv files (existing environment is not overridden)
//  4. environment variables
func Load(path string, dotenvFiles ...string) (ClientConfig, error) {
	cfg := DefaultClientConfig()

	explicit := path != ""
	if !explicit {
		if p := os.Getenv(EnvConfig); p != "" {
			path, explicit = p, true
		} else {
			path = DefaultConfigPath()
		}
	}
	if err := cfg.mergeFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	if err := loadDotEnv(dotenvFiles...); err != nil {
		return cfg, err
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// mergeFile overlays non-zero YAML values onto cfg.
func (c *ClientConfig) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var fileCfg ClientConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if fileCfg.APIURL != "" {
		c.APIURL = fileCfg.APIURL
	}
	if fileCfg.StateDir != "" {
		c.StateDir = expandHome(fileCfg.StateDir)
	}
	if fileCfg.Storage != "" {
		c.Storage = fileCfg.Storage
	}
	if fileCfg.Timeout != 0 {
		c.Timeout = fileCfg.Timeout
	}
	if fileCfg.LogLevel != "" {
		c.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.LogFormat != "" {
		c.LogFormat = fileCfg.LogFormat
	}
	return nil
}

// loadDotEnv loads the given files, or ".env" when none are given.
// Missing files are skipped.
func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func (c *ClientConfig) applyEnv() {
	if v := os.Getenv(EnvLegacyAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvStateDir); v != "" {
		c.StateDir = expandHome(v)
	}
	if v := os.Getenv(EnvStorage); v != "" {
		c.Storage = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate checks the fields that would otherwise fail late.
func (c ClientConfig) Validate() error {
	if c.APIURL == "" {
		return errors.New("config: api_url is required")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("config: api_url %q must start with http:// or https://", c.APIURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: timeout must not be negative")
	}
	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
