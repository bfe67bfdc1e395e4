package main

import (
	"log/slog"
	"os"

	"github.com/reminthq/remint/internal"
	"github.com/reminthq/remint/internal/cli"
	"github.com/reminthq/remint/internal/logging"
)

// The entry point for the remint CLI.
//
// Initializes logging, displays startup information, and executes the root
// command. If any error occurs during execution, it exits with a non-zero code.
func main() {
	slog.SetDefault(logging.New(logging.ModeCLI, os.Stderr, logLevel()))

	slog.Debug("build", "version", internal.VersionString())

	slog.Debug("remint is running",
		"pid", os.Getpid(),
		"cwd", cwd(),
		"args", os.Args,
	)

	if err := cli.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// Returns the log level derived from build-time linker flags.
func logLevel() slog.Level {
	if internal.IsDebug() {
		return slog.LevelDebug
	}
	if internal.IsQuiet() {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

// Returns the current working directory or "(unknown)".
func cwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "(unknown)"
	}
	return cwd
}
