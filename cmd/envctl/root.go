package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cmux-dev/cmux-envd/internal/config"
	"github.com/cmux-dev/cmux-envd/internal/envclient"
	"github.com/cmux-dev/cmux-envd/internal/protocol"
	"github.com/cmux-dev/cmux-envd/internal/sockpath"
)

var (
	flagSocket  string
	flagTimeout time.Duration
	flagJSON    bool
)

var rootCmd = &cobra.Command{
	Use:           "envctl",
	Short:         "Query and mutate the shared cross-shell environment store",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `envctl talks to envd, a long-running per-user daemon that holds a
generation-versioned environment variable store. Shells consult it through
a prompt hook so variables set in one shell become visible in others
without sourcing files or re-executing them.`,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "query", Title: "Query commands:"},
		&cobra.Group{ID: "mutate", Title: "Mutation commands:"},
		&cobra.Group{ID: "setup", Title: "Setup commands:"},
	)
	rootCmd.PersistentFlags().StringVar(&flagSocket, "socket", "", "override the daemon socket path")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "override the per-request timeout")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON instead of human-readable output")
}

// resolveEndpoint applies the --socket/--timeout overrides on top of the
// resolved socket path and configured request timeout.
func resolveEndpoint() (socketPath string, timeout time.Duration, err error) {
	socketPath = flagSocket
	if socketPath == "" {
		socketPath, err = sockpath.Resolve()
		if err != nil {
			return "", 0, fmt.Errorf("resolve socket path: %w", err)
		}
	}
	timeout = flagTimeout
	if timeout <= 0 {
		timeout = config.RequestTimeout()
	}
	return socketPath, timeout, nil
}

// newClient resolves the socket path and, unless auto-start is disabled,
// spawns the daemon on first contact. Every command that talks to the
// daemon goes through this one entry point.
func newClient() (*envclient.Client, error) {
	socketPath, timeout, err := resolveEndpoint()
	if err != nil {
		return nil, err
	}

	if !config.AutoStartDaemon() {
		c := envclient.New(socketPath, timeout)
		if err := c.Ping(); err != nil {
			return nil, &envclient.WireError{
				Kind:    protocol.KindDaemonUnavailable,
				Message: "no daemon running at " + socketPath + " and auto-start-daemon is disabled",
			}
		}
		return c, nil
	}

	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve envctl executable path: %w", err)
	}
	return envclient.EnsureDaemon(socketPath, execPath, timeout)
}

// existingDaemonClient resolves a Client without ever auto-spawning a
// daemon, for introspection commands (`daemon --status`, `--stop`,
// `--health`) where spawning one just to immediately query or stop it
// would be pointless.
func existingDaemonClient() (*envclient.Client, error) {
	socketPath, timeout, err := resolveEndpoint()
	if err != nil {
		return nil, err
	}

	ok, err := envclient.TryConnect(socketPath, timeout)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &envclient.WireError{Kind: protocol.KindDaemonUnavailable, Message: "no daemon running at " + socketPath}
	}
	return envclient.New(socketPath, timeout), nil
}

// exitCode maps an error returned from a command's RunE to a process exit
// code: 0 success, 1 user error, 2 daemon-side error. Errors that never
// reached the wire (flag parsing, local I/O) are treated as user errors.
func exitCode(err error) int {
	var werr *envclient.WireError
	if errors.As(err, &werr) {
		switch werr.Kind {
		case protocol.KindInvalidName, protocol.KindInvalidValue, protocol.KindNotFound:
			return 1
		default:
			return 2
		}
	}
	return 1
}

// printJSON writes v to stdout as a single JSON line, used by every
// command's --json output path.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(v)
}
