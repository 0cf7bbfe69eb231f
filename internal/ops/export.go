package ops

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hpungsan/atext2csv/internal/config"
	"github.com/hpungsan/atext2csv/internal/db"
	"github.com/hpungsan/atext2csv/internal/errors"
	"github.com/hpungsan/atext2csv/internal/snippet"
	"github.com/hpungsan/atext2csv/internal/writer"
)

// NoSnippetsWarning is reported when an export has nothing to write.
const NoSnippetsWarning = "no snippets found; the file may be empty or use an unsupported format"

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Records []snippet.Record
	Source  string // recorded in sqlite exports

	OutputDir string   // optional, default: cfg.OutputDir, then the current directory
	Prefix    string   // optional, default: cfg.FilePrefix
	Formats   []Format // optional, default: cfg.Formats, then DefaultFormats

	// Now stamps generated files. Zero means time.Now().
	Now time.Time
}

// ExportedFile describes one written output.
type ExportedFile struct {
	Format  Format `json:"format"`
	Path    string `json:"path"`
	Size    int64  `json:"size"`
	Entries int    `json:"entries"`
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Files      []ExportedFile `json:"files"`
	Count      int            `json:"count"`
	Groups     int            `json:"groups"`
	ExportedAt int64          `json:"exported_at"`
	Warning    string         `json:"warning,omitempty"`
}

// Export writes records in every selected format. Each file is written to a
// temp file and renamed into place, so an existing output is only replaced by
// a complete one. No files are written when there are no records.
func Export(ctx context.Context, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}

	formats := input.Formats
	if len(formats) == 0 {
		var err error
		formats, err = ParseFormats(cfg.Formats)
		if err != nil {
			return nil, err
		}
	}

	dir := input.OutputDir
	if dir == "" {
		dir = cfg.OutputDir
	}
	if dir == "" {
		dir = "."
	}
	if err := ValidateOutputDir(dir); err != nil {
		return nil, err
	}

	prefix := input.Prefix
	if prefix == "" {
		prefix = cfg.FilePrefix
	}
	prefix = SanitizeForFilename(prefix)

	out := &ExportOutput{
		Files:      []ExportedFile{},
		Count:      len(input.Records),
		Groups:     len(snippet.GroupRecords(input.Records)),
		ExportedAt: now.Unix(),
	}
	if len(input.Records) == 0 {
		slog.Warn(NoSnippetsWarning, "source", input.Source)
		out.Warning = NoSnippetsWarning
		return out, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create output directory: %w", err))
	}

	opts := writer.Options{PreviewChars: cfg.PreviewChars, Now: now}
	for _, f := range formats {
		select {
		case <-ctx.Done():
			return nil, errors.NewCancelled("export")
		default:
		}

		path := filepath.Join(dir, f.FileName(prefix))
		entries, err := writeFormat(ctx, f, path, input, opts)
		if err != nil {
			return nil, err
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		slog.Info("wrote", "format", string(f), "path", path, "size", humanize.IBytes(uint64(info.Size())))
		out.Files = append(out.Files, ExportedFile{
			Format:  f,
			Path:    path,
			Size:    info.Size(),
			Entries: entries,
		})
	}

	return out, nil
}

// writeFormat writes one output file and returns the number of entries in it.
func writeFormat(ctx context.Context, f Format, path string, input ExportInput, opts writer.Options) (int, error) {
	records := input.Records

	if f == FormatSQLite {
		err := replaceAtomic(path, func(tempPath string) error {
			database, err := db.Init(tempPath)
			if err != nil {
				return err
			}
			if _, err := db.InsertExport(ctx, database, input.Source, records, opts.Now); err != nil {
				database.Close()
				return err
			}
			return database.Close()
		})
		return len(records), err
	}

	entries := len(records)
	err := writeFileAtomic(path, func(w io.Writer) error {
		switch f {
		case FormatCSV:
			return writer.WriteCSV(w, records)
		case FormatJSON:
			return writer.WriteJSON(w, records)
		case FormatEspanso:
			entries = 0
			for _, r := range writer.EspansoCandidates(records) {
				entries += len(r.Triggers())
			}
			return writer.WriteEspanso(w, records, opts)
		case FormatText:
			return writer.WriteText(w, records, opts)
		case FormatMarkdown:
			return writer.WriteMarkdown(w, records, opts)
		case FormatHTML:
			return writer.WriteHTML(w, records, opts)
		default:
			return errors.NewInvalidRequest(fmt.Sprintf("unknown format %q", f))
		}
	})
	return entries, err
}

// writeFileAtomic streams write's output into a temp file next to path and
// renames it into place.
func writeFileAtomic(path string, write func(w io.Writer) error) error {
	return replaceAtomic(path, func(tempPath string) error {
		file, err := createTempFile(tempPath)
		if err != nil {
			if errors.Is(err, errors.ErrInvalidRequest) {
				return err
			}
			return errors.NewInternal(fmt.Errorf("failed to create output file: %w", err))
		}

		if err := write(file); err != nil {
			file.Close()
			return err
		}
		if err := file.Sync(); err != nil {
			file.Close()
			return errors.NewInternal(err)
		}
		// Close before atomic replace (required on Windows; fine elsewhere).
		if err := file.Close(); err != nil {
			return errors.NewInternal(fmt.Errorf("failed to close output file: %w", err))
		}
		return nil
	})
}

// replaceAtomic calls build with a fresh temp path next to path, then renames
// the result over path. The temp file is removed on failure and any existing
// file at path is left untouched.
func replaceAtomic(path string, build func(tempPath string) error) error {
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"

	success := false
	defer func() {
		if !success {
			os.Remove(tempPath)
			os.Remove(tempPath + "-journal")
		}
	}()

	if err := build(tempPath); err != nil {
		if _, ok := err.(*errors.AtextError); ok {
			return err
		}
		return errors.NewInternal(err)
	}

	// Refuse to replace a symlink at the destination.
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest(fmt.Sprintf("output path %s is a symlink", path))
	}

	if err := os.Rename(tempPath, path); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to finalize %s: %w", path, err))
	}

	success = true
	return nil
}
