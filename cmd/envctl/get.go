package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var getPwd string

var getCmd = &cobra.Command{
	Use:     "get KEY",
	GroupID: "query",
	Short:   "Print a variable's effective value at a directory",
	Args:    cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		pwd, err := resolvePwdFlag(getPwd)
		if err != nil {
			return err
		}

		c, err := newClient()
		if err != nil {
			return err
		}
		value, ok, err := c.Get(args[0], pwd)
		if err != nil {
			return err
		}
		if !ok {
			// Undefined at this pwd: exit 1 with no output, per the CLI's
			// error-handling contract for NotFound.
			os.Exit(1)
		}
		if flagJSON {
			return printJSON(map[string]any{"key": args[0], "value": value})
		}
		fmt.Println(value)
		return nil
	},
}

func init() {
	getCmd.Flags().StringVar(&getPwd, "pwd", "", "directory to resolve overlays against (default: cwd)")
	rootCmd.AddCommand(getCmd)
}

// resolvePwdFlag returns pwd made absolute, or the process cwd if empty.
func resolvePwdFlag(pwd string) (string, error) {
	if pwd == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve cwd: %w", err)
		}
		return cwd, nil
	}
	abs, err := filepath.Abs(pwd)
	if err != nil {
		return "", fmt.Errorf("resolve --pwd %q: %w", pwd, err)
	}
	return abs, nil
}
