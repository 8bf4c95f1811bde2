package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmux-dev/cmux-envd/internal/exporter"
)

var (
	exportSince   uint64
	exportPwd     string
	exportPrevPwd string
)

var exportCmd = &cobra.Command{
	Use:     "export {bash|zsh|fish}",
	GroupID: "query",
	Short:   "Print the shell commands that bring a shell's environment up to date",
	Args:    cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		shell, err := exporter.ParseShell(args[0])
		if err != nil {
			return err
		}

		pwd, err := resolvePwdFlag(exportPwd)
		if err != nil {
			return err
		}
		prevPwd := exportPrevPwd
		if prevPwd == "" {
			prevPwd = pwd
		} else if prevPwd, err = resolvePwdFlag(prevPwd); err != nil {
			return err
		}

		c, err := newClient()
		if err != nil {
			return err
		}
		gen, commands, err := c.Export(string(shell), pwd, prevPwd, exportSince)
		if err != nil {
			return err
		}
		for _, cmd := range commands {
			fmt.Println(cmd)
		}
		fmt.Println(exporter.WatermarkCommand(shell, gen))
		return nil
	},
}

func init() {
	exportCmd.Flags().Uint64Var(&exportSince, "since", 0, "the shell's last-seen generation")
	exportCmd.Flags().StringVar(&exportPwd, "pwd", "", "the shell's current directory (default: cwd)")
	exportCmd.Flags().StringVar(&exportPrevPwd, "prev-pwd", "", "the shell's previous directory (default: same as --pwd)")
	rootCmd.AddCommand(exportCmd)
}
