package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmux-dev/cmux-envd/internal/envclient"
	"github.com/cmux-dev/cmux-envd/internal/protocol"
	"github.com/cmux-dev/cmux-envd/internal/ui"
)

var pingCmd = &cobra.Command{
	Use:     "ping",
	GroupID: "query",
	Short:   "Check that the daemon is reachable",
	Args:    cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		resp, err := c.Execute(&protocol.Request{Op: protocol.OpPing})
		if err != nil {
			return err
		}
		if resp.Err != nil {
			return &envclient.WireError{Kind: resp.Err.Kind, Message: resp.Err.Message}
		}
		fmt.Println(ui.RenderPass(fmt.Sprintf("pong gen=%d", resp.Gen)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
