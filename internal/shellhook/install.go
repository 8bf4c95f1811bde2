package shellhook

import (
	"fmt"
	"os"
	"strings"

	"github.com/cmux-dev/cmux-envd/internal/exporter"
)

const (
	markerBegin = "# >>> envctl hook >>>"
	markerEnd   = "# <<< envctl hook <<<"
)

// Install idempotently inserts shell's hook script between marker lines in
// rcPath. Running it again with the same shell replaces the previously
// inserted block instead of duplicating it; running it for the rc file's
// first time appends a new marked block at the end.
func Install(rcPath string, shell exporter.Shell) error {
	script, err := Script(shell)
	if err != nil {
		return err
	}
	block := markerBegin + "\n" + script + markerEnd + "\n"

	existing, err := os.ReadFile(rcPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("shellhook: read %s: %w", rcPath, err)
	}

	content := string(existing)
	beginIdx := strings.Index(content, markerBegin)
	endIdx := strings.Index(content, markerEnd)

	var next string
	if beginIdx >= 0 && endIdx > beginIdx {
		next = content[:beginIdx] + block + content[endIdx+len(markerEnd)+1:]
	} else {
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		next = content + block
	}

	if err := os.WriteFile(rcPath, []byte(next), 0o644); err != nil {
		return fmt.Errorf("shellhook: write %s: %w", rcPath, err)
	}
	return nil
}
