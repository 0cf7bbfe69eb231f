// Package container locates and unpacks the compressed payload of an .atext
// snippet store.
//
// An .atext file is a small JSON header, a NUL separator, and an LZ4 frame
// whose decompressed body is a JSON document. The header length is not
// recorded anywhere, so the frame is found by scanning for the LZ4 frame
// magic. Only the first occurrence is considered. Bytes after the end of the
// frame are ignored.
package container

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/pierrec/lz4/v4"

	"github.com/hpungsan/atext2csv/internal/errors"
	"github.com/hpungsan/atext2csv/internal/tree"
)

// Magic is the LZ4 frame signature (0x184D2204, little-endian).
const Magic = "\x04\x22\x4d\x18"

// DefaultMaxPayload caps the decompressed payload size.
const DefaultMaxPayload int64 = 256 << 20

var magic = []byte(Magic)

// Frame is the located and decompressed payload of a container.
type Frame struct {
	// Offset is the position of the frame magic in the raw input.
	Offset int

	// Header is everything before the frame, minus trailing NUL separators.
	Header []byte

	// Compressed is the number of raw bytes from Offset to end of input.
	Compressed int

	// Payload is the decompressed frame body.
	Payload []byte
}

// Decoder decodes containers.
type Decoder struct {
	// Source names the input in error messages. Defaults to "input".
	Source string

	// MaxPayload caps the decompressed size. Zero means DefaultMaxPayload.
	MaxPayload int64
}

// FindFrame returns the offset of the first frame magic in raw, or -1.
func FindFrame(raw []byte) int {
	return bytes.Index(raw, magic)
}

// Decode locates, decompresses and parses the payload of raw using the
// default Decoder.
func Decode(raw []byte) (*tree.Value, error) {
	return (&Decoder{}).Decode(raw)
}

// Open locates and decompresses the payload of raw using the default Decoder.
func Open(raw []byte) (*Frame, error) {
	return (&Decoder{}).Open(raw)
}

// Decode locates, decompresses and parses the payload of raw.
//
// Errors carry one of the codes MAGIC_NOT_FOUND, DECOMPRESSION_FAILED or
// INVALID_STRUCTURE.
func (d *Decoder) Decode(raw []byte) (*tree.Value, error) {
	frame, err := d.Open(raw)
	if err != nil {
		return nil, err
	}
	return ParsePayload(frame.Payload)
}

// Open locates and decompresses the payload of raw without parsing it.
func (d *Decoder) Open(raw []byte) (*Frame, error) {
	offset := FindFrame(raw)
	if offset < 0 {
		return nil, errors.NewMagicNotFound(d.source())
	}

	payload, err := decompress(raw[offset:], d.maxPayload())
	if err != nil {
		return nil, errors.NewDecompressionFailed(offset, err)
	}

	return &Frame{
		Offset:     offset,
		Header:     bytes.TrimRight(raw[:offset], "\x00"),
		Compressed: len(raw) - offset,
		Payload:    payload,
	}, nil
}

// ParsePayload parses a decompressed payload as a UTF-8 JSON document.
func ParsePayload(payload []byte) (*tree.Value, error) {
	if !utf8.Valid(payload) {
		return nil, errors.NewInvalidStructure("decompressed payload is not valid UTF-8")
	}
	root, err := tree.Parse(payload)
	if err != nil {
		return nil, errors.NewInvalidStructure("decompressed payload is not valid JSON: " + err.Error())
	}
	return root, nil
}

// HeaderValue parses the container header as JSON, if it is JSON.
func (f *Frame) HeaderValue() (*tree.Value, bool) {
	if len(bytes.TrimSpace(f.Header)) == 0 {
		return nil, false
	}
	v, err := tree.Parse(f.Header)
	if err != nil {
		return nil, false
	}
	return v, true
}

func (d *Decoder) source() string {
	if d.Source == "" {
		return "input"
	}
	return d.Source
}

func (d *Decoder) maxPayload() int64 {
	if d.MaxPayload <= 0 {
		return DefaultMaxPayload
	}
	return d.MaxPayload
}

// decompress reads exactly one LZ4 frame from the start of frame.
func decompress(frame []byte, limit int64) ([]byte, error) {
	zr := lz4.NewReader(truncatedReader{bytes.NewReader(frame)})
	payload, err := io.ReadAll(io.LimitReader(zr, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(payload)) > limit {
		return nil, &payloadTooLargeError{limit: limit}
	}
	return payload, nil
}

// truncatedReader reports running out of input as io.ErrUnexpectedEOF. The
// LZ4 reader stops at the frame end mark, so any EOF it sees from the source
// means the frame was cut short.
type truncatedReader struct {
	r io.Reader
}

func (t truncatedReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return n, err
}

type payloadTooLargeError struct {
	limit int64
}

func (e *payloadTooLargeError) Error() string {
	return "decompressed payload exceeds " + humanize.IBytes(uint64(e.limit))
}
