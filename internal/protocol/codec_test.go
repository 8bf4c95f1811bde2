package protocol

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

func TestRoundTripRequest(t *testing.T) {
	var buf bytes.Buffer
	req := &Request{Op: OpSet, Scope: "/p/proj", Key: "FOO", Value: "bar", ClientVersion: "v1.2.3"}
	if err := WriteRequest(&buf, req); err != nil {
		t.Fatalf("WriteRequest: %v", err)
	}
	got, err := ReadRequest(&buf)
	if err != nil {
		t.Fatalf("ReadRequest: %v", err)
	}
	if !reflect.DeepEqual(got, req) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, req)
	}
}

func TestRoundTripResponse(t *testing.T) {
	var buf bytes.Buffer
	resp := &Response{Gen: 42, Present: true, Value: "bar"}
	if err := WriteResponse(&buf, resp); err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}
	got, err := ReadResponse(&buf)
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if got.Gen != resp.Gen || got.Present != resp.Present || got.Value != resp.Value {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, resp)
	}
}

func TestReadFrameRejectsOversizedHeader(t *testing.T) {
	var buf bytes.Buffer
	header := []byte{0, 0, 0, 0}
	// 0x01000001 bytes > 16MiB
	header[0] = 0x01
	header[3] = 0x01
	buf.Write(header)
	var req Request
	err := ReadFrame(&buf, &req)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("ReadFrame on oversized header: err = %v, want ErrTooLarge", err)
	}
}

func TestWriteFrameRejectsOversizedPayload(t *testing.T) {
	huge := strings.Repeat("x", MaxPayloadBytes+1)
	var buf bytes.Buffer
	err := WriteFrame(&buf, &Request{Op: OpSet, Value: huge})
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("WriteFrame with oversized payload: err = %v, want ErrTooLarge", err)
	}
}

func TestReadFrameOnShortBodyReturnsError(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{10, 0, 0, 0})
	buf.WriteString("short")
	var req Request
	err := ReadFrame(&buf, &req)
	if err == nil {
		t.Fatalf("ReadFrame with truncated body: want error, got nil")
	}
}

func TestReadFrameOnEmptyStreamReturnsEOF(t *testing.T) {
	var buf bytes.Buffer
	var req Request
	err := ReadFrame(&buf, &req)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("ReadFrame on empty stream: err = %v, want io.EOF", err)
	}
}

func TestTwoFramesBackToBack(t *testing.T) {
	var buf bytes.Buffer
	WriteRequest(&buf, &Request{Op: OpPing})
	WriteRequest(&buf, &Request{Op: OpStatus})

	first, err := ReadRequest(&buf)
	if err != nil || first.Op != OpPing {
		t.Fatalf("first frame = %+v, %v; want OpPing, nil", first, err)
	}
	second, err := ReadRequest(&buf)
	if err != nil || second.Op != OpStatus {
		t.Fatalf("second frame = %+v, %v; want OpStatus, nil", second, err)
	}
}
