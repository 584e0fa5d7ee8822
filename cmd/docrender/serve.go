package main

import (
	"context"
	"fmt"

	"github.com/VamsiKurapati/docrender"
	"github.com/VamsiKurapati/docrender/internal/server"
)

// runServeCmd starts the HTTP server and blocks until ctx is canceled.
func runServeCmd(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	if err := applyEngineFlags(flags.engine, cfg); err != nil {
		return err
	}
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	env.Config = cfg

	logger := newLogger(env.Stderr, cfg.Log, flags.common)
	docrender.SetLogger(logger)
	renderer := newRenderer(cfg, logger)

	srv := server.New(renderer,
		server.WithLimiter(docrender.NewLimiter(docrender.ResolveLimit(cfg.Server.Workers))),
		server.WithLogger(logger),
		server.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
		server.WithReadTimeout(cfg.Server.ReadTimeoutDuration()),
	)
	logger.Info("render tiers", "tiers", renderer.Tiers(), "deployment", renderer.Environment().Deployment)

	if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		return fmt.Errorf("serving on %s: %w", cfg.Server.Addr, err)
	}
	return nil
}
