package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/VamsiKurapati/docrender/internal/config"
)

func mapEnv(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Reading DOCRENDER_* variables
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	env := loadEnvConfig(mapEnv(map[string]string{
		"DOCRENDER_CONFIG":            "prod",
		"DOCRENDER_TIER_TIMEOUT":      "45s",
		"DOCRENDER_LOG_LEVEL":         "debug",
		"DOCRENDER_TEMPLATE_ENDPOINT": "https://t.example.com/{name}",
		"DOCRENDER_CLOUD_ENDPOINT":    "https://c.example.com",
		"DOCRENDER_BROWSER_BIN":       "/usr/bin/chromium",
		"DOCRENDER_BUNDLED_PATH":      "/opt/chromium/chrome",
		"DOCRENDER_NO_SANDBOX":        "1",
		"DOCRENDER_DEPLOYMENT":        "cloud-run",
		"DOCRENDER_ADDR":              ":9090",
		"DOCRENDER_WORKERS":           "3",
	}))

	if env.ConfigPath != "prod" || env.LogLevel != "debug" {
		t.Errorf("tier 1 = %+v", env)
	}
	if env.TierTimeout != 45*time.Second {
		t.Errorf("TierTimeout = %v, want 45s", env.TierTimeout)
	}
	if env.TemplateEndpoint != "https://t.example.com/{name}" || env.CloudEndpoint != "https://c.example.com" {
		t.Errorf("endpoints = %q, %q", env.TemplateEndpoint, env.CloudEndpoint)
	}
	if env.BrowserBin != "/usr/bin/chromium" || env.BundledPath != "/opt/chromium/chrome" || !env.NoSandbox || env.Deployment != "cloud-run" {
		t.Errorf("engine = %+v", env)
	}
	if env.Addr != ":9090" || env.Workers != 3 {
		t.Errorf("server = %q, %d", env.Addr, env.Workers)
	}
}

func TestLoadEnvConfig_IgnoresMalformedValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad duration", map[string]string{"DOCRENDER_TIER_TIMEOUT": "soon"}},
		{"negative duration", map[string]string{"DOCRENDER_TIER_TIMEOUT": "-5s"}},
		{"bad workers", map[string]string{"DOCRENDER_WORKERS": "many"}},
		{"zero workers", map[string]string{"DOCRENDER_WORKERS": "0"}},
		{"sandbox not truthy", map[string]string{"DOCRENDER_NO_SANDBOX": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := loadEnvConfig(mapEnv(tt.env))
			if env.TierTimeout != 0 || env.Workers != 0 || env.NoSandbox {
				t.Errorf("loadEnvConfig = %+v, want zero values", env)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Env overrides file values
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Assets.TemplateEndpoint = "https://from-file.example.com"
	cfg.Server.Workers = 2

	applyEnvConfig(&envConfig{
		TierTimeout:      90 * time.Second,
		TemplateEndpoint: "https://from-env.example.com",
		NoSandbox:        true,
		Addr:             ":7000",
	}, cfg)

	if cfg.Render.TierTimeout != "1m30s" {
		t.Errorf("TierTimeout = %q, want 1m30s", cfg.Render.TierTimeout)
	}
	if cfg.Assets.TemplateEndpoint != "https://from-env.example.com" {
		t.Errorf("TemplateEndpoint = %q", cfg.Assets.TemplateEndpoint)
	}
	if !cfg.Render.NoSandbox || cfg.Server.Addr != ":7000" {
		t.Errorf("render/server = %+v, %+v", cfg.Render, cfg.Server)
	}
	// Unset variables keep file values.
	if cfg.Server.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Server.Workers)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf, []string{
		"DOCRENDER_TIMEOUT=30s",
		"DOCRENDER_WORKERS=2",
		"DOCRENDER_CONTAINER=1",
		"PATH=/usr/bin",
		"ROD_BROWSER_BIN=/x",
	})

	out := buf.String()
	if !strings.Contains(out, "DOCRENDER_TIMEOUT") {
		t.Errorf("expected warning for DOCRENDER_TIMEOUT, got %q", out)
	}
	if strings.Count(out, "warning:") != 1 {
		t.Errorf("expected exactly one warning, got %q", out)
	}
}

func TestKnownEnvVars_Prefix(t *testing.T) {
	t.Parallel()

	for name := range knownEnvVars {
		if !strings.HasPrefix(name, envPrefix) {
			t.Errorf("%s lacks the %s prefix", name, envPrefix)
		}
	}
}
