package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cmux-dev/cmux-envd/internal/ui"
)

// defaultConfigTemplate mirrors internal/config's setDefaults; it exists so
// `config init` can scaffold a config.yaml a user can then edit, with every
// key present and set to its default.
type defaultConfigTemplate struct {
	AutoStartDaemon bool   `yaml:"auto-start-daemon"`
	RequestTimeout  string `yaml:"request-timeout"`
	ConnectTimeout  string `yaml:"connect-timeout"`
	MaxPayloadBytes int    `yaml:"max-payload-bytes"`
	LogLevel        string `yaml:"log-level"`
}

var configCmd = &cobra.Command{
	Use:     "config",
	GroupID: "setup",
	Short:   "Manage envctl's own configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default config.yaml",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		path := "config.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config: %s already exists", path)
		}

		tmpl := defaultConfigTemplate{
			AutoStartDaemon: true,
			RequestTimeout:  "5s",
			ConnectTimeout:  "200ms",
			MaxPayloadBytes: 16 << 20,
			LogLevel:        "info",
		}
		if ui.IsTerminal() && !flagJSON {
			tmpl.LogLevel = ui.Prompt("default log level", tmpl.LogLevel)
		}
		out, err := yaml.Marshal(tmpl)
		if err != nil {
			return fmt.Errorf("config: marshal defaults: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && filepath.Dir(path) != "." {
			return fmt.Errorf("config: create %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return fmt.Errorf("config: write %s: %w", path, err)
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
