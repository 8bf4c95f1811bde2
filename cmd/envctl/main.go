// Command envctl is the client half of the cmux-envd daemon: it resolves
// the socket path, auto-spawns the daemon on first contact, and issues one
// request per invocation. Exit codes follow 0 success, 1 user error, 2
// daemon error, decided in exitCode after rootCmd.Execute returns so any
// command's deferred cleanup still runs before the process exits.
package main

import (
	"fmt"
	"os"

	"github.com/cmux-dev/cmux-envd/internal/config"
)

func main() {
	if err := config.Initialize(); err != nil {
		fmt.Fprintln(os.Stderr, "envctl:", err)
		os.Exit(2)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "envctl:", err)
		os.Exit(exitCode(err))
	}
}
