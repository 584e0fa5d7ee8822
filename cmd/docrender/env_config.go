package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/VamsiKurapati/docrender/internal/config"
)

const envPrefix = "DOCRENDER_"

// envConfig holds configuration from environment variables.
// Provides container-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath  string        // DOCRENDER_CONFIG: config file name or path
	TierTimeout time.Duration // DOCRENDER_TIER_TIMEOUT: per-tier timeout
	LogLevel    string        // DOCRENDER_LOG_LEVEL: debug, info, warn, error

	// Tier 2 - Assets
	TemplateEndpoint string // DOCRENDER_TEMPLATE_ENDPOINT: template: asset URL
	CloudEndpoint    string // DOCRENDER_CLOUD_ENDPOINT: cloud: asset URL

	// Tier 3 - Engine
	BrowserBin  string // DOCRENDER_BROWSER_BIN: engine for standard/minimal tiers
	BundledPath string // DOCRENDER_BUNDLED_PATH: engine for the restricted tier
	NoSandbox   bool   // DOCRENDER_NO_SANDBOX: "1" or "true"
	Deployment  string // DOCRENDER_DEPLOYMENT: deployment name in diagnostics

	// Tier 4 - Server
	Addr    string // DOCRENDER_ADDR: listen address
	Workers int    // DOCRENDER_WORKERS: concurrent renders
}

// knownEnvVars lists valid DOCRENDER_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"DOCRENDER_CONFIG":       true,
	"DOCRENDER_TIER_TIMEOUT": true,
	"DOCRENDER_LOG_LEVEL":    true,
	// Tier 2 - Assets
	"DOCRENDER_TEMPLATE_ENDPOINT": true,
	"DOCRENDER_CLOUD_ENDPOINT":    true,
	// Tier 3 - Engine
	"DOCRENDER_BROWSER_BIN":  true,
	"DOCRENDER_BUNDLED_PATH": true,
	"DOCRENDER_NO_SANDBOX":   true,
	"DOCRENDER_DEPLOYMENT":   true,
	"DOCRENDER_CONTAINER":    true, // read by doctor
	"DOCRENDER_SKIP_ENGINE":  true, // integration tests
	// Tier 4 - Server
	"DOCRENDER_ADDR":    true,
	"DOCRENDER_WORKERS": true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed durations and counts are ignored, leaving the config value.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		// Tier 1
		ConfigPath: getenv("DOCRENDER_CONFIG"),
		LogLevel:   getenv("DOCRENDER_LOG_LEVEL"),
		// Tier 2
		TemplateEndpoint: getenv("DOCRENDER_TEMPLATE_ENDPOINT"),
		CloudEndpoint:    getenv("DOCRENDER_CLOUD_ENDPOINT"),
		// Tier 3
		BrowserBin:  getenv("DOCRENDER_BROWSER_BIN"),
		BundledPath: getenv("DOCRENDER_BUNDLED_PATH"),
		NoSandbox:   isTruthy(getenv("DOCRENDER_NO_SANDBOX")),
		Deployment:  getenv("DOCRENDER_DEPLOYMENT"),
		// Tier 4
		Addr: getenv("DOCRENDER_ADDR"),
	}

	if timeout := getenv("DOCRENDER_TIER_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.TierTimeout = d
		}
	}

	if workers := getenv("DOCRENDER_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// warnUnknownEnvVars writes a warning for every unrecognized DOCRENDER_*
// variable in environ. Helps catch typos like DOCRENDER_TIMEOUT.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, env := range environ {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name := strings.SplitN(env, "=", 2)[0]
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overrides config file values with the variables that are set.
// CLI flags are applied afterwards by each command, giving
// flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.TierTimeout > 0 {
		cfg.Render.TierTimeout = env.TierTimeout.String()
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}

	if env.TemplateEndpoint != "" {
		cfg.Assets.TemplateEndpoint = env.TemplateEndpoint
	}
	if env.CloudEndpoint != "" {
		cfg.Assets.CloudEndpoint = env.CloudEndpoint
	}

	if env.BrowserBin != "" {
		cfg.Render.BrowserBin = env.BrowserBin
	}
	if env.BundledPath != "" {
		cfg.Render.BundledPath = env.BundledPath
	}
	if env.NoSandbox {
		cfg.Render.NoSandbox = true
	}
	if env.Deployment != "" {
		cfg.Render.Deployment = env.Deployment
	}

	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if env.Workers > 0 {
		cfg.Server.Workers = env.Workers
	}
}
