package main

import (
	"github.com/VamsiKurapati/docrender"
	mcpserver "github.com/VamsiKurapati/docrender/internal/mcp"
)

// runMCPCmd serves the MCP tools on stdin/stdout. Logs go to stderr so
// they never mix with the protocol stream.
func runMCPCmd(args []string, env *Environment) error {
	flags, err := parseMCPFlags(args, env.Stderr)
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
	env.Config = cfg

	logger := newLogger(env.Stderr, cfg.Log, flags.common)
	docrender.SetLogger(logger)

	srv := mcpserver.New(mcpserver.Deps{
		Renderer: newRenderer(cfg, logger),
		Limiter:  docrender.NewLimiter(docrender.ResolveLimit(cfg.Server.Workers)),
		Logger:   logger,
		Version:  Version,
	})
	return srv.ServeStdio()
}
