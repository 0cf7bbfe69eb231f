package container

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// Encode writes header, a NUL separator and payload compressed as a single
// LZ4 frame to w. It produces files that Decode reads back.
func Encode(w io.Writer, header, payload []byte) error {
	if bytes.Contains(header, magic) {
		return fmt.Errorf("header must not contain the frame magic")
	}
	if _, err := w.Write(header); err != nil {
		return err
	}
	if _, err := w.Write([]byte{0}); err != nil {
		return err
	}

	zw := lz4.NewWriter(w)
	if err := zw.Apply(lz4.ChecksumOption(true)); err != nil {
		return err
	}
	if _, err := zw.Write(payload); err != nil {
		return err
	}
	return zw.Close()
}

// EncodeBytes is Encode into a new byte slice.
func EncodeBytes(header, payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, header, payload); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
