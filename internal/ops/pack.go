package ops

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/atext2csv/internal/container"
	"github.com/hpungsan/atext2csv/internal/errors"
	"github.com/hpungsan/atext2csv/internal/snippet"
)

// PackInput contains parameters for the Pack operation.
type PackInput struct {
	Input  string // required, JSON document in the snippet store schema
	Output string // required, container file to write
	Header string // optional, written before the frame
}

// PackOutput contains the result of the Pack operation.
type PackOutput struct {
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	PayloadBytes int    `json:"payload_bytes"`
	Snippets     int    `json:"snippets"`
}

// Pack wraps a JSON document in a container that Load can read: the header,
// a NUL separator, then the document as one LZ4 frame. The document must be
// valid UTF-8 JSON.
func Pack(input PackInput) (*PackOutput, error) {
	if _, err := ValidateInput(input.Input); err != nil {
		return nil, err
	}
	if input.Output == "" {
		return nil, errors.NewInvalidRequest("output path is required")
	}
	if err := ValidateOutputDir(filepath.Dir(input.Output)); err != nil {
		return nil, err
	}

	payload, err := os.ReadFile(input.Input)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to read input: %w", err))
	}
	root, err := container.ParsePayload(payload)
	if err != nil {
		return nil, err
	}

	if strings.Contains(input.Header, container.Magic) {
		return nil, errors.NewInvalidRequest("header must not contain the LZ4 frame magic")
	}
	if err := os.MkdirAll(filepath.Dir(input.Output), 0755); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create output directory: %w", err))
	}

	err = writeFileAtomic(input.Output, func(w io.Writer) error {
		return container.Encode(w, []byte(input.Header), payload)
	})
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(input.Output)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &PackOutput{
		Path:         input.Output,
		Size:         info.Size(),
		PayloadBytes: len(payload),
		Snippets:     len(snippet.Normalize(root)),
	}, nil
}
