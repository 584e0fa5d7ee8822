package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/VamsiKurapati/docrender/internal/fileutil"
	"github.com/VamsiKurapati/docrender/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxURLLength        = 2048 // Browser limit
	MaxPathLength       = 4096 // PATH_MAX on Linux
	MaxDeploymentLength = 50   // "aws-lambda", "cloud-run"
	MaxAddrLength       = 255  // host:port
	MaxSystemPaths      = 32
	MaxWorkers          = 64
)

// AppName names the user config directory.
const AppName = "docrender"

// Config holds all configuration for the docrender service and CLI.
type Config struct {
	Assets AssetsConfig `yaml:"assets"`
	Render RenderConfig `yaml:"render"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// AssetsConfig defines how asset references are fetched.
type AssetsConfig struct {
	TemplateEndpoint string  `yaml:"templateEndpoint"` // Base URL or "{name}" template for template: refs
	CloudEndpoint    string  `yaml:"cloudEndpoint"`    // Base URL or "{name}" template for cloud: refs
	Timeout          string  `yaml:"timeout"`          // Per-fetch timeout (default: 30s)
	CacheTTL         string  `yaml:"cacheTTL"`         // "0" disables the cache (default: 10m)
	CacheCleanup     string  `yaml:"cacheCleanup"`     // Expired entry sweep interval (default: 20m)
	Concurrency      int     `yaml:"concurrency"`      // Parallel fetches per document (default: 16)
	RateLimit        float64 `yaml:"rateLimit"`        // Requests per second, 0 = unlimited
	RateBurst        int     `yaml:"rateBurst"`        // Burst size when rateLimit is set
}

// RenderConfig defines engine discovery and the tier chain.
type RenderConfig struct {
	TierTimeout string   `yaml:"tierTimeout"` // Per-tier timeout (default: 60s)
	BrowserBin  string   `yaml:"browserBin"`  // Engine for standard/minimal tiers (empty = auto)
	BundledPath string   `yaml:"bundledPath"` // Engine for the restricted tier (empty = rod cache)
	SystemPaths []string `yaml:"systemPaths"` // Overrides the built-in system path list
	Deployment  string   `yaml:"deployment"`  // Reported in diagnostics (empty = detect)
	NoSandbox   bool     `yaml:"noSandbox"`   // Disable the Chrome sandbox
	KeepMarkup  bool     `yaml:"keepMarkup"`  // Leave temp HTML on disk for debugging
}

// ServerConfig defines the HTTP server.
type ServerConfig struct {
	Addr         string `yaml:"addr"`         // Listen address (default: ":8080")
	Workers      int    `yaml:"workers"`      // Concurrent renders, 0 = auto
	MaxBodyBytes int64  `yaml:"maxBodyBytes"` // Request body limit (default: 32 MiB)
	ReadTimeout  string `yaml:"readTimeout"`  // (default: 30s)
}

// LogConfig defines structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default: info)
	Format string `yaml:"format"` // text, json (default: text)
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Assets: AssetsConfig{
			Timeout:      "30s",
			CacheTTL:     "10m",
			CacheCleanup: "20m",
			Concurrency:  16,
		},
		Render: RenderConfig{
			TierTimeout: "60s",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 32 << 20,
			ReadTimeout:  "30s",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// fillDefaults sets every unset field to its DefaultConfig value.
func (c *Config) fillDefaults() {
	d := DefaultConfig()
	setString(&c.Assets.Timeout, d.Assets.Timeout)
	setString(&c.Assets.CacheTTL, d.Assets.CacheTTL)
	setString(&c.Assets.CacheCleanup, d.Assets.CacheCleanup)
	if c.Assets.Concurrency == 0 {
		c.Assets.Concurrency = d.Assets.Concurrency
	}
	setString(&c.Render.TierTimeout, d.Render.TierTimeout)
	setString(&c.Server.Addr, d.Server.Addr)
	setString(&c.Server.ReadTimeout, d.Server.ReadTimeout)
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = d.Server.MaxBodyBytes
	}
	setString(&c.Log.Level, d.Log.Level)
	setString(&c.Log.Format, d.Log.Format)
}

func setString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

// Validate checks values and field lengths. Called automatically by
// LoadConfig, but available for consumers who construct Config manually.
func (c *Config) Validate() error {
	// Assets
	for _, ep := range []struct{ name, value string }{
		{"assets.templateEndpoint", c.Assets.TemplateEndpoint},
		{"assets.cloudEndpoint", c.Assets.CloudEndpoint},
	} {
		if err := validateEndpoint(ep.name, ep.value); err != nil {
			return err
		}
	}
	if err := validateDuration("assets.timeout", c.Assets.Timeout, false); err != nil {
		return err
	}
	if err := validateDuration("assets.cacheTTL", c.Assets.CacheTTL, true); err != nil {
		return err
	}
	if err := validateDuration("assets.cacheCleanup", c.Assets.CacheCleanup, true); err != nil {
		return err
	}
	if c.Assets.Concurrency < 0 {
		return fmt.Errorf("%w: assets.concurrency must be >= 0, got %d", ErrInvalidValue, c.Assets.Concurrency)
	}
	if c.Assets.RateLimit < 0 || c.Assets.RateBurst < 0 {
		return fmt.Errorf("%w: assets.rateLimit and assets.rateBurst must be >= 0", ErrInvalidValue)
	}

	// Render
	if err := validateDuration("render.tierTimeout", c.Render.TierTimeout, false); err != nil {
		return err
	}
	if err := validateFieldLength("render.browserBin", c.Render.BrowserBin, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.bundledPath", c.Render.BundledPath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.deployment", c.Render.Deployment, MaxDeploymentLength); err != nil {
		return err
	}
	if len(c.Render.SystemPaths) > MaxSystemPaths {
		return fmt.Errorf("%w: render.systemPaths has %d entries, max %d", ErrInvalidValue, len(c.Render.SystemPaths), MaxSystemPaths)
	}
	for i, p := range c.Render.SystemPaths {
		if err := validateFieldLength(fmt.Sprintf("render.systemPaths[%d]", i), p, MaxPathLength); err != nil {
			return err
		}
	}

	// Server
	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if c.Server.Workers < 0 || c.Server.Workers > MaxWorkers {
		return fmt.Errorf("%w: server.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Server.Workers)
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("%w: server.maxBodyBytes must be >= 0", ErrInvalidValue)
	}
	if err := validateDuration("server.readTimeout", c.Server.ReadTimeout, false); err != nil {
		return err
	}

	// Log
	if c.Log.Level != "" {
		switch strings.ToLower(c.Log.Level) {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("%w: log.level %q (must be debug, info, warn, or error)", ErrInvalidValue, c.Log.Level)
		}
	}
	if c.Log.Format != "" {
		switch strings.ToLower(c.Log.Format) {
		case "text", "json":
		default:
			return fmt.Errorf("%w: log.format %q (must be text or json)", ErrInvalidValue, c.Log.Format)
		}
	}

	return nil
}

// FetchTimeout returns assets.timeout, or 0 when unset.
func (a AssetsConfig) FetchTimeout() time.Duration { return duration(a.Timeout) }

// CacheDurations returns assets.cacheTTL and assets.cacheCleanup.
func (a AssetsConfig) CacheDurations() (ttl, cleanup time.Duration) {
	return duration(a.CacheTTL), duration(a.CacheCleanup)
}

// Timeout returns render.tierTimeout, or 0 when unset.
func (r RenderConfig) Timeout() time.Duration { return duration(r.TierTimeout) }

// ReadTimeoutDuration returns server.readTimeout, or 0 when unset.
func (s ServerConfig) ReadTimeoutDuration() time.Duration { return duration(s.ReadTimeout) }

// duration parses a validated duration string; invalid or empty values are 0.
func duration(s string) time.Duration {
	if s == "" || s == "0" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

func validateDuration(fieldName, value string, allowZero bool) error {
	if value == "" {
		return nil
	}
	if value == "0" {
		if allowZero {
			return nil
		}
		return fmt.Errorf("%w: %s must be positive", ErrInvalidValue, fieldName)
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidValue, fieldName, err)
	}
	if d < 0 || (d == 0 && !allowZero) {
		return fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidValue, fieldName, value)
	}
	return nil
}

func validateEndpoint(fieldName, value string) error {
	if value == "" {
		return nil
	}
	if err := validateFieldLength(fieldName, value, MaxURLLength); err != nil {
		return err
	}
	u, err := url.Parse(strings.ReplaceAll(value, "{name}", "x"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s must be an http(s) URL, got %q", ErrInvalidValue, fieldName, value)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name, on top
// of DefaultConfig.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// SearchPaths lists where a config name is looked up, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations:
// current directory, then ~/.config/docrender/, trying .yaml then .yml.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	if p, ok := fileutil.FirstExisting(tried); ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
