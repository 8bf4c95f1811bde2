package ui

import (
	"strings"
	"testing"

	"github.com/cmux-dev/cmux-envd/internal/protocol"
)

func TestRenderItemsTableIncludesEveryRow(t *testing.T) {
	out := RenderItemsTable([]protocol.Item{
		{Key: "FOO", Value: "bar", Origin: "global"},
		{Key: "BAZ", Value: "qux", Origin: "/home/u"},
	})
	for _, want := range []string{"FOO", "bar", "BAZ", "/home/u"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderStatusTableIncludesGen(t *testing.T) {
	out := RenderStatusTable(&protocol.StatusInfo{Gen: 42, ServerVersion: "v0.1.0"})
	if !strings.Contains(out, "42") || !strings.Contains(out, "v0.1.0") {
		t.Errorf("rendered status table missing expected values:\n%s", out)
	}
}
