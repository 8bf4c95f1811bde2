package dotenv

import (
	"errors"
	"strings"
	"testing"
)

func TestParseBasic(t *testing.T) {
	input := "FOO=bar\n# a comment\n\nBAZ='qux'\n"
	entries, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []Entry{{Key: "FOO", Value: "bar"}, {Key: "BAZ", Value: "qux"}}
	if len(entries) != len(want) {
		t.Fatalf("Parse returned %d entries, want %d: %v", len(entries), len(want), entries)
	}
	for i, e := range entries {
		if e != want[i] {
			t.Fatalf("entry %d = %+v, want %+v", i, e, want[i])
		}
	}
}

func TestParseDoubleQuoteEscapes(t *testing.T) {
	entries, err := Parse(strings.NewReader(`Q="a'b\"c\$d\n"`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 1 || entries[0].Value != "a'b\"c$d\n" {
		t.Fatalf("entries = %+v, want Q=a'b\"c$d\\n", entries)
	}
}

func TestParseAtomicLoadScenario(t *testing.T) {
	// A malformed line aborts the whole load with a line-numbered
	// diagnostic.
	input := "A=1\nB=\"2\nC=bad==\n"
	_, err := Parse(strings.NewReader(input))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Parse: err = %v, want *ParseError", err)
	}
	if perr.Line != 2 {
		t.Fatalf("ParseError.Line = %d, want 2", perr.Line)
	}
}

func TestParseInvalidKeyRejected(t *testing.T) {
	_, err := Parse(strings.NewReader("1BAD=x\n"))
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Line != 1 {
		t.Fatalf("Parse with bad key: err = %v, want *ParseError at line 1", err)
	}
}

func TestParseUnterminatedSingleQuote(t *testing.T) {
	_, err := Parse(strings.NewReader("FOO='bar\n"))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Parse with unterminated quote: err = %v, want *ParseError", err)
	}
}

func TestParseEmptyValue(t *testing.T) {
	entries, err := Parse(strings.NewReader("FOO=\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 1 || entries[0].Value != "" {
		t.Fatalf("entries = %+v, want FOO=''", entries)
	}
}
