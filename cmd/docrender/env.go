package main

import (
	"io"
	"os"
	"time"

	"github.com/VamsiKurapati/docrender/internal/config"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, environment lookup, and the loaded configuration.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Config *config.Config // Loaded once per command
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Getenv: os.Getenv,
		Config: config.DefaultConfig(),
	}
}
