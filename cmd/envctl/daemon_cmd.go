package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cmux-dev/cmux-envd/internal/config"
	"github.com/cmux-dev/cmux-envd/internal/daemon"
	"github.com/cmux-dev/cmux-envd/internal/envlog"
	"github.com/cmux-dev/cmux-envd/internal/sockpath"
	"github.com/cmux-dev/cmux-envd/internal/ui"
)

var (
	daemonStart  bool
	daemonStatus bool
	daemonStop   bool
	daemonHealth bool
)

var daemonCmd = &cobra.Command{
	Use:    "daemon",
	Hidden: true,
	Short:  "Run or introspect the envd daemon process",
	Args:   cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		switch {
		case daemonStart:
			return runDaemonForeground()
		case daemonStatus:
			return runDaemonStatus()
		case daemonStop:
			return runDaemonStop()
		case daemonHealth:
			return runDaemonHealth()
		default:
			return errors.New("daemon: specify --start, --status, --stop, or --health")
		}
	},
}

func init() {
	daemonCmd.Flags().BoolVar(&daemonStart, "start", false, "run the server loop in the foreground")
	daemonCmd.Flags().BoolVar(&daemonStatus, "status", false, "print the running daemon's status")
	daemonCmd.Flags().BoolVar(&daemonStop, "stop", false, "ask the running daemon to drain and exit")
	daemonCmd.Flags().BoolVar(&daemonHealth, "health", false, "print a cheap liveness probe")
	rootCmd.AddCommand(daemonCmd)
}

// runDaemonForeground is what the client re-execs into when it auto-spawns
// the daemon: a fully detached process running this in the foreground of
// its own session, stdio already redirected to /dev/null by the parent.
func runDaemonForeground() error {
	socketPath := flagSocket
	if socketPath == "" {
		p, err := sockpath.Resolve()
		if err != nil {
			return err
		}
		socketPath = p
	}

	logger, err := envlog.NewFile(envlog.DefaultLogPath())
	if err != nil {
		logger = envlog.NewStderr()
	}

	srv := daemon.New(daemon.Options{
		SocketPath:     socketPath,
		RequestTimeout: config.RequestTimeout(),
		Logger:         logger,
	})

	ctx := context.Background()
	if err := srv.Start(ctx); err != nil {
		if errors.Is(err, daemon.ErrAlreadyRunning) {
			return nil
		}
		return err
	}

	sigCh := make(chan os.Signal, 1)
	daemon.NotifyShutdownSignals(sigCh)

	select {
	case <-sigCh:
	case <-srv.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), config.RequestTimeout())
	defer cancel()
	return srv.Stop(stopCtx)
}

func runDaemonStatus() error {
	c, err := existingDaemonClient()
	if err != nil {
		return err
	}
	st, err := c.Status()
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(st)
	}
	fmt.Println(ui.RenderStatusTable(st))
	return nil
}

func runDaemonStop() error {
	c, err := existingDaemonClient()
	if err != nil {
		return err
	}
	if err := c.Shutdown(); err != nil {
		return err
	}
	fmt.Println(ui.RenderPass("daemon stopped"))
	return nil
}

func runDaemonHealth() error {
	c, err := existingDaemonClient()
	if err != nil {
		return err
	}
	health, err := c.Health()
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(health)
	}
	summary := fmt.Sprintf("envd %s, uptime %s, %d active conns", health.ServerVersion, health.Uptime.Round(1e9), health.ActiveConns)
	if health.ActiveConns == 0 {
		fmt.Println(ui.RenderWarn(summary))
		return nil
	}
	fmt.Println(ui.RenderPass(summary))
	return nil
}
