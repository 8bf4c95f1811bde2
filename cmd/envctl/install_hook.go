package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cmux-dev/cmux-envd/internal/exporter"
	"github.com/cmux-dev/cmux-envd/internal/shellhook"
)

var installHookRcfile string

var installHookCmd = &cobra.Command{
	Use:     "install-hook {bash|zsh|fish}",
	GroupID: "setup",
	Short:   "Idempotently insert the prompt hook into a shell's rc file",
	Args:    cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		shell, err := exporter.ParseShell(args[0])
		if err != nil {
			return err
		}

		rcfile := installHookRcfile
		if rcfile == "" {
			rcfile, err = defaultRcfile(shell)
			if err != nil {
				return err
			}
		}

		if err := shellhook.Install(rcfile, shell); err != nil {
			return err
		}
		fmt.Printf("installed %s hook into %s\n", shell, rcfile)
		return nil
	},
}

func init() {
	installHookCmd.Flags().StringVar(&installHookRcfile, "rcfile", "", "rc file to modify (default: the shell's usual one)")
	rootCmd.AddCommand(installHookCmd)
}

// defaultRcfile returns the conventional rc file envctl targets when
// --rcfile is not given.
func defaultRcfile(shell exporter.Shell) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	switch shell {
	case exporter.Bash:
		return filepath.Join(home, ".bashrc"), nil
	case exporter.Zsh:
		return filepath.Join(home, ".zshrc"), nil
	case exporter.Fish:
		return filepath.Join(home, ".config", "fish", "config.fish"), nil
	default:
		return "", fmt.Errorf("install-hook: unsupported shell %q", shell)
	}
}
