// Package cli implements the netdash command-line interface.
//
// The package is organized around Cobra commands, with each command
// delegating to a small command function for the actual work. Running
// netdash with no subcommand starts the interactive TUI dashboard;
// subcommands provide plain-output views of the same data for scripts
// and quick checks:
//
//	netdash                  - Interactive TUI dashboard
//	netdash hosts            - Reconciled host list
//	netdash alerts [--watch] - Active alerts
//	netdash anomalies        - Recently detected anomalies
//	netdash metrics <host>   - Metric series for one host
//	netdash email            - View or edit SMTP notification settings
//	netdash init             - Create a config file
//	netdash version          - Version information
//
// # Flag Handling
//
// Global flags (--config, --api-url, --verbose) are defined on the root
// command and available to all subcommands. Command-specific flags like
// --watch and --range are defined on individual commands.
//
// Every command loads config the same way: Load reads the file named by
// --config (or the search path), then --api-url overrides the backend
// URL for this invocation only.
package cli
