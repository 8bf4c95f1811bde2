package main

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cmux-dev/cmux-envd/internal/dotenv"
	"github.com/cmux-dev/cmux-envd/internal/protocol"
	"github.com/cmux-dev/cmux-envd/internal/store"
	"github.com/cmux-dev/cmux-envd/internal/ui"
)

var (
	loadBase64 string
	loadDir    string
	loadYes    bool
)

var loadCmd = &cobra.Command{
	Use:     "load [file|-]",
	GroupID: "mutate",
	Short:   "Apply a dotenv file's assignments atomically",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		source := "-"
		if len(args) == 1 {
			source = args[0]
		}

		raw, err := readLoadInput(source, loadBase64)
		if err != nil {
			return err
		}

		entries, err := dotenv.Parse(raw)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := store.ValidateKey(e.Key); err != nil {
				return err
			}
			if err := store.ValidateValue(e.Value); err != nil {
				return err
			}
		}

		scope, err := resolveScopeFlag(loadDir)
		if err != nil {
			return err
		}

		if !loadYes && !flagJSON {
			target := "the global store"
			if scope != "" {
				target = scope
			}
			if !ui.PromptYesNo(fmt.Sprintf("load %d entries into %s?", len(entries), target), true) {
				fmt.Println(ui.RenderMuted("aborted"))
				return nil
			}
		}

		wireEntries := make([]protocol.LoadEntry, 0, len(entries))
		for _, e := range entries {
			wireEntries = append(wireEntries, protocol.LoadEntry{Key: e.Key, Value: e.Value})
		}

		c, err := newClient()
		if err != nil {
			return err
		}
		gen, err := c.Load(scope, wireEntries)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(map[string]any{"gen": gen, "count": len(entries)})
		}
		fmt.Println(ui.RenderPass(fmt.Sprintf("loaded %d entries, gen=%d", len(entries), gen)))
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadBase64, "base64", "", "base64-encoded dotenv text, or \"-\" to read it from stdin")
	loadCmd.Flags().StringVar(&loadDir, "dir", "", "overlay directory (default: global)")
	loadCmd.Flags().BoolVarP(&loadYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(loadCmd)
}

// readLoadInput resolves the dotenv source: a literal base64 payload
// (flag value or stdin when the flag is "-"), a file, or stdin.
func readLoadInput(source, base64Arg string) (io.Reader, error) {
	if base64Arg != "" {
		var encoded []byte
		var err error
		if base64Arg == "-" {
			encoded, err = io.ReadAll(os.Stdin)
		} else {
			encoded = []byte(base64Arg)
		}
		if err != nil {
			return nil, fmt.Errorf("read base64 input: %w", err)
		}
		decoded, err := base64.StdEncoding.DecodeString(string(encoded))
		if err != nil {
			return nil, fmt.Errorf("decode base64 input: %w", err)
		}
		return bytes.NewReader(decoded), nil
	}

	if source == "-" || source == "" {
		return os.Stdin, nil
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", source, err)
	}
	return f, nil
}
