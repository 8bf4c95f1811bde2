package main

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/cmux-dev/cmux-envd/internal/envclient"
	"github.com/cmux-dev/cmux-envd/internal/exporter"
	"github.com/cmux-dev/cmux-envd/internal/protocol"
)

func TestResolveScopeFlagEmptyIsGlobal(t *testing.T) {
	scope, err := resolveScopeFlag("")
	if err != nil {
		t.Fatalf("resolveScopeFlag(\"\") = %v", err)
	}
	if scope != "" {
		t.Fatalf("resolveScopeFlag(\"\") = %q, want empty", scope)
	}
}

func TestResolveScopeFlagMakesPathAbsolute(t *testing.T) {
	scope, err := resolveScopeFlag("relative/dir")
	if err != nil {
		t.Fatalf("resolveScopeFlag: %v", err)
	}
	if !filepath.IsAbs(scope) {
		t.Fatalf("resolveScopeFlag(%q) = %q, want absolute", "relative/dir", scope)
	}
}

func TestResolvePwdFlagDefaultsToCwd(t *testing.T) {
	pwd, err := resolvePwdFlag("")
	if err != nil {
		t.Fatalf("resolvePwdFlag: %v", err)
	}
	if !filepath.IsAbs(pwd) {
		t.Fatalf("resolvePwdFlag(\"\") = %q, want absolute", pwd)
	}
}

func TestExitCodeMapsWireErrorKinds(t *testing.T) {
	cases := []struct {
		kind protocol.Kind
		want int
	}{
		{protocol.KindInvalidName, 1},
		{protocol.KindInvalidValue, 1},
		{protocol.KindNotFound, 1},
		{protocol.KindBadRequest, 2},
		{protocol.KindTooLarge, 2},
		{protocol.KindTimeout, 2},
		{protocol.KindDaemonUnavailable, 2},
	}
	for _, c := range cases {
		err := &envclient.WireError{Kind: c.kind}
		if got := exitCode(err); got != c.want {
			t.Errorf("exitCode(%s) = %d, want %d", c.kind, got, c.want)
		}
	}
}

func TestExitCodeDefaultsToUserErrorForLocalFailures(t *testing.T) {
	if got := exitCode(errors.New("boom")); got != 1 {
		t.Fatalf("exitCode(local err) = %d, want 1", got)
	}
}

func TestDefaultRcfilePerShell(t *testing.T) {
	for _, shell := range []exporter.Shell{exporter.Bash, exporter.Zsh, exporter.Fish} {
		path, err := defaultRcfile(shell)
		if err != nil {
			t.Fatalf("defaultRcfile(%s): %v", shell, err)
		}
		if path == "" {
			t.Fatalf("defaultRcfile(%s) returned empty path", shell)
		}
	}
}

func TestReadLoadInputDecodesBase64Literal(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("FOO=bar\n"))
	r, err := readLoadInput("-", encoded)
	if err != nil {
		t.Fatalf("readLoadInput: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, []byte("FOO=bar\n")) {
		t.Fatalf("readLoadInput decoded = %q, want %q", got, "FOO=bar\n")
	}
}
