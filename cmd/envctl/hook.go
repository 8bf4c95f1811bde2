package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmux-dev/cmux-envd/internal/exporter"
	"github.com/cmux-dev/cmux-envd/internal/shellhook"
)

var hookCmd = &cobra.Command{
	Use:     "hook {bash|zsh|fish}",
	GroupID: "setup",
	Short:   "Print the prompt-hook script for a shell",
	Args:    cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		shell, err := exporter.ParseShell(args[0])
		if err != nil {
			return err
		}
		script, err := shellhook.Script(shell)
		if err != nil {
			return err
		}
		fmt.Print(script)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hookCmd)
}
