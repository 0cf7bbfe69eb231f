package ops

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/hpungsan/atext2csv/internal/config"
	"github.com/hpungsan/atext2csv/internal/container"
	"github.com/hpungsan/atext2csv/internal/db"
	"github.com/hpungsan/atext2csv/internal/errors"
	"github.com/hpungsan/atext2csv/internal/snippet"
	"github.com/hpungsan/atext2csv/internal/tree"
)

// Source kinds
const (
	SourceAtext  = "atext"
	SourceSQLite = "sqlite"
)

// Source describes where a record list came from.
type Source struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
	Size int64  `json:"size"`

	// Container fields, set for atext sources.
	FrameOffset       int    `json:"frame_offset,omitempty"`
	Header            string `json:"header,omitempty"`
	CompressedBytes   int    `json:"compressed_bytes,omitempty"`
	DecompressedBytes int    `json:"decompressed_bytes,omitempty"`

	// ExportID is the run the records were read from, set for sqlite sources.
	ExportID string `json:"export_id,omitempty"`
}

// Loaded is a decoded and normalized snippet store.
type Loaded struct {
	Source  Source           `json:"source"`
	Records []snippet.Record `json:"records"`

	root *tree.Value
}

// Summary counts the loaded records per group.
func (l *Loaded) Summary() snippet.Summary {
	return snippet.Summarize(l.Records)
}

// Root returns the decoded document of an atext source, or nil.
func (l *Loaded) Root() *tree.Value {
	return l.root
}

// Load reads a snippet store. Paths ending in .db are read as a SQLite export
// written by this tool; anything else is decoded as an aText container. An
// empty path falls back to FindDataFile.
func Load(ctx context.Context, cfg *config.Config, path string) (*Loaded, error) {
	if path == "" {
		found, ok := FindDataFile()
		if !ok {
			return nil, errors.NewInvalidRequest("no input file given and no aText data file found in the default location")
		}
		path = found
	}

	info, err := ValidateInput(path)
	if err != nil {
		return nil, err
	}

	slog.Info("parsing", "path", path, "size", humanize.IBytes(uint64(info.Size())))

	if isSQLitePath(path) {
		records, run, err := db.ReadLatest(ctx, path)
		if err != nil {
			return nil, err
		}
		return &Loaded{
			Source: Source{
				Path:     path,
				Kind:     SourceSQLite,
				Size:     info.Size(),
				ExportID: run.ID,
			},
			Records: records,
		}, nil
	}

	raw, err := readInput(path)
	if err != nil {
		return nil, err
	}

	dec := &container.Decoder{Source: path}
	if cfg != nil {
		dec.MaxPayload = cfg.MaxDecompressedBytes
	}
	frame, err := dec.Open(raw)
	if err != nil {
		return nil, err
	}
	slog.Debug("frame located",
		"offset", frame.Offset,
		"compressed", humanize.IBytes(uint64(frame.Compressed)),
		"decompressed", humanize.IBytes(uint64(len(frame.Payload))))

	root, err := container.ParsePayload(frame.Payload)
	if err != nil {
		return nil, err
	}
	if !root.IsList() {
		slog.Warn("top-level value is not a list; no snippets extracted", "kind", root.Kind().String())
	}

	records := snippet.Normalize(root)
	return &Loaded{
		Source: Source{
			Path:              path,
			Kind:              SourceAtext,
			Size:              info.Size(),
			FrameOffset:       frame.Offset,
			Header:            string(frame.Header),
			CompressedBytes:   frame.Compressed,
			DecompressedBytes: len(frame.Payload),
		},
		Records: records,
		root:    root,
	}, nil
}

func readInput(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFound(path)
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open input: %w", err))
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to read input: %w", err))
	}
	return raw, nil
}

func isSQLitePath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".db")
}
