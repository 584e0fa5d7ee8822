package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/VamsiKurapati/docrender"
	"github.com/VamsiKurapati/docrender/internal/config"
	"github.com/VamsiKurapati/docrender/internal/hints"
)

// ErrInvalidWorkerCount is returned for --workers outside 0..config.MaxWorkers.
var ErrInvalidWorkerCount = errors.New("invalid worker count")

// errUsage marks invalid flag values.
var errUsage = errors.New("invalid usage")

// loadConfig builds the effective config: defaults, then the config file
// (from --config or DOCRENDER_CONFIG), then DOCRENDER_* overrides.
func loadConfig(flagPath string, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig(env.Getenv)

	path := flagPath
	if path == "" {
		path = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			hint := ""
			if errors.Is(err, config.ErrConfigNotFound) {
				hint = hints.ForConfigNotFound(config.SearchPaths(path))
			}
			return nil, fmt.Errorf("loading config: %w%s", err, hint)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEngineFlags merges --workers and --timeout into cfg (CLI wins).
func applyEngineFlags(f engineFlags, cfg *config.Config) error {
	if err := validateWorkers(f.workers); err != nil {
		return err
	}
	if f.workers > 0 {
		cfg.Server.Workers = f.workers
	}
	if f.timeout != "" {
		d, err := time.ParseDuration(f.timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: --timeout %q must be a positive duration", errUsage, f.timeout)
		}
		cfg.Render.TierTimeout = d.String()
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}

// newLogger returns a stderr logger configured from log.level and
// log.format. verbose forces debug; quiet raises the level to error.
func newLogger(w io.Writer, cfg config.LogConfig, common commonFlags) *slog.Logger {
	level := parseLevel(cfg.Level)
	switch {
	case common.verbose:
		level = slog.LevelDebug
	case common.quiet:
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// rendererOptions maps the config onto renderer options.
func rendererOptions(cfg *config.Config, logger *slog.Logger) []docrender.Option {
	opts := []docrender.Option{
		docrender.WithLogger(logger),
		docrender.WithAssetEndpoints(cfg.Assets.TemplateEndpoint, cfg.Assets.CloudEndpoint),
		docrender.WithFetchTimeout(cfg.Assets.FetchTimeout()),
		docrender.WithRateLimit(cfg.Assets.RateLimit, cfg.Assets.RateBurst),
		docrender.WithConcurrency(cfg.Assets.Concurrency),
		docrender.WithTierConfig(docrender.TierConfig{
			BrowserBin:  cfg.Render.BrowserBin,
			BundledPath: cfg.Render.BundledPath,
			SystemPaths: cfg.Render.SystemPaths,
			NoSandbox:   cfg.Render.NoSandbox,
		}),
		docrender.WithKeepMarkup(cfg.Render.KeepMarkup),
	}
	if d := cfg.Render.Timeout(); d > 0 {
		opts = append(opts, docrender.WithTierTimeout(d))
	}
	if ttl, cleanup := cfg.Assets.CacheDurations(); ttl > 0 {
		opts = append(opts, docrender.WithAssetCache(docrender.NewAssetCache(ttl, cleanup)))
	}
	if cfg.Render.Deployment != "" {
		opts = append(opts, docrender.WithDeployment(cfg.Render.Deployment))
	}
	return opts
}

// newRenderer creates the renderer described by cfg.
func newRenderer(cfg *config.Config, logger *slog.Logger) *docrender.Renderer {
	return docrender.NewRenderer(rendererOptions(cfg, logger)...)
}
