package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cmux-dev/cmux-envd/internal/ui"
)

var setDir string

var setCmd = &cobra.Command{
	Use:     "set KEY=VALUE",
	GroupID: "mutate",
	Short:   "Set a variable in the global store or a directory overlay",
	Args:    cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		key, value, ok := strings.Cut(args[0], "=")
		if !ok {
			return fmt.Errorf("expected KEY=VALUE, got %q", args[0])
		}

		scope, err := resolveScopeFlag(setDir)
		if err != nil {
			return err
		}

		c, err := newClient()
		if err != nil {
			return err
		}
		gen, err := c.Set(scope, key, value)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(map[string]any{"gen": gen})
		}
		fmt.Println(ui.RenderAccent(fmt.Sprintf("%d", gen)))
		return nil
	},
}

func init() {
	setCmd.Flags().StringVar(&setDir, "dir", "", "overlay directory (default: global)")
	rootCmd.AddCommand(setCmd)
}

// resolveScopeFlag turns a --dir flag value into the absolute path the
// daemon's ScopeFromRequest expects, leaving "" (global) untouched.
func resolveScopeFlag(dir string) (string, error) {
	if dir == "" {
		return "", nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve --dir %q: %w", dir, err)
	}
	return abs, nil
}
