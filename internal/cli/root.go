package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/reminthq/remint/internal"
	"github.com/reminthq/remint/internal/logging"
	"github.com/reminthq/remint/internal/paths"
	"github.com/reminthq/remint/internal/release"
	"github.com/reminthq/remint/internal/runtime"
)

const (

	// Default containerd socket address.
	defaultContainerdAddress = "/run/containerd/containerd.sock"

	// Default containerd namespace for images and containers.
	defaultContainerdNamespace = "remint"
)

// Represents the root command for the remint CLI.
var RootCmd struct {
	Quiet     bool   `short:"q" help:"Suppress informational output."`
	Debug     bool   `short:"d" help:"Enable debug output."`
	JSON      bool   `help:"Emit logs as JSON."`
	Config    string `short:"c" help:"Override the release configuration path." placeholder:"PATH"`
	Address   string `help:"Containerd socket address." placeholder:"PATH"`
	Namespace string `help:"Containerd namespace." placeholder:"NAME"`

	Build   BuildCmd   `cmd:"" help:"Rebuild a version for every target architecture."`
	Verify  VerifyCmd  `cmd:"" help:"Audit a built image's binaries against its claimed architecture."`
	Diff    DiffCmd    `cmd:"" help:"Compare a candidate image against a published reference."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Rebuilds versioned multi-architecture container images from source,\nverifies per-binary CPU architecture, and diffs against published references."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
func configureLogger() {
	level := slog.LevelInfo
	if RootCmd.Debug || internal.IsDebug() {
		level = slog.LevelDebug
	} else if RootCmd.Quiet || internal.IsQuiet() {
		level = slog.LevelWarn
	}

	mode := logging.ModeCLI
	if RootCmd.JSON {
		mode = logging.ModeJSON
	}

	slog.SetDefault(logging.New(mode, os.Stderr, level))
}

// Loads the release configuration from the flag or default path.
func loadConfig() (*release.Config, error) {
	path := RootCmd.Config
	if path == "" {
		path = paths.Releases()
	}
	return release.Load(path)
}

// Connects to containerd using the flag or default address and namespace.
func openRuntime() (*runtime.Runtime, error) {
	address := RootCmd.Address
	if address == "" {
		address = defaultContainerdAddress
	}
	namespace := RootCmd.Namespace
	if namespace == "" {
		namespace = defaultContainerdNamespace
	}
	return runtime.New(address, namespace)
}
