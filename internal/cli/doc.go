// Parses flags and dispatches the remint subcommands.
//
// The CLI accepts the following global flags:
//
//	-q, --quiet       Suppress informational output.
//	-d, --debug       Enable debug output.
//	    --json        Emit logs as JSON.
//	-c, --config      Override the release configuration path.
//	    --address     Containerd socket address.
//	    --namespace   Containerd namespace.
//
// After parsing, the global logger is reconfigured to reflect the final
// level and format before the selected subcommand runs.
package cli
