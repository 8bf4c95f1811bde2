package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmux-dev/cmux-envd/internal/ui"
)

var (
	unsetDir string
	unsetYes bool
)

var unsetCmd = &cobra.Command{
	Use:     "unset KEY",
	GroupID: "mutate",
	Short:   "Tombstone a variable in the global store or a directory overlay",
	Args:    cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		scope, err := resolveScopeFlag(unsetDir)
		if err != nil {
			return err
		}

		if !unsetYes && !flagJSON {
			target := "the global store"
			if scope != "" {
				target = scope
			}
			if !ui.PromptYesNo(fmt.Sprintf("unset %s in %s?", args[0], target), true) {
				fmt.Println(ui.RenderMuted("aborted"))
				return nil
			}
		}

		c, err := newClient()
		if err != nil {
			return err
		}
		gen, err := c.Unset(scope, args[0])
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
	unsetCmd.Flags().StringVar(&unsetDir, "dir", "", "overlay directory (default: global)")
	unsetCmd.Flags().BoolVarP(&unsetYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(unsetCmd)
}
