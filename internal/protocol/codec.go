package protocol

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxPayloadBytes is the 16 MiB cap on one frame's body. A frame whose
// declared length exceeds this is rejected with ErrTooLarge before any
// allocation happens for the body.
const MaxPayloadBytes = 16 << 20

// frameHeaderSize is the 4-byte little-endian length prefix.
const frameHeaderSize = 4

// ErrTooLarge is returned by ReadFrame/WriteFrame when a payload exceeds
// MaxPayloadBytes. The daemon's dispatch loop maps it to Response{Err:
// {Kind: KindTooLarge}}.
var ErrTooLarge = errors.New("protocol: payload exceeds max frame size")

// WriteFrame marshals v to JSON and writes it as one length-prefixed frame.
func WriteFrame(w io.Writer, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("protocol: encode frame: %w", err)
	}
	if len(payload) > MaxPayloadBytes {
		return ErrTooLarge
	}

	var header [frameHeaderSize]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("protocol: write frame header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("protocol: write frame body: %w", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed frame and unmarshals its JSON body
// into v. It returns ErrTooLarge without reading the body if the declared
// length exceeds MaxPayloadBytes, and io.EOF (or a wrapped io.ErrUnexpected
// EOF) if the peer closed mid-frame.
func ReadFrame(r io.Reader, v any) error {
	var header [frameHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return err
	}
	n := binary.LittleEndian.Uint32(header[:])
	if n > MaxPayloadBytes {
		return ErrTooLarge
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return fmt.Errorf("protocol: read frame body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("protocol: decode frame: %w", err)
	}
	return nil
}

// WriteRequest writes req as one frame.
func WriteRequest(w io.Writer, req *Request) error {
	return WriteFrame(w, req)
}

// ReadRequest reads one frame into a new Request.
func ReadRequest(r io.Reader) (*Request, error) {
	var req Request
	if err := ReadFrame(r, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// WriteResponse writes resp as one frame.
func WriteResponse(w io.Writer, resp *Response) error {
	return WriteFrame(w, resp)
}

// ReadResponse reads one frame into a new Response.
func ReadResponse(r io.Reader) (*Response, error) {
	var resp Response
	if err := ReadFrame(r, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
