package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmux-dev/cmux-envd/internal/ui"
)

var listPwd string

var listCmd = &cobra.Command{
	Use:     "list",
	GroupID: "query",
	Short:   "List the effective view at a directory",
	Args:    cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		pwd, err := resolvePwdFlag(listPwd)
		if err != nil {
			return err
		}

		c, err := newClient()
		if err != nil {
			return err
		}
		items, err := c.List(pwd)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(items)
		}
		fmt.Println(ui.RenderItemsTable(items))
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listPwd, "pwd", "", "directory to resolve overlays against (default: cwd)")
	rootCmd.AddCommand(listCmd)
}
