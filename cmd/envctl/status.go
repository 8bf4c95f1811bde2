package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmux-dev/cmux-envd/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	GroupID: "query",
	Short:   "Show a summary of the daemon's store",
	Args:    cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		c, err := newClient()
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
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
