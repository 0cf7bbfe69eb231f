package ops

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hpungsan/atext2csv/internal/config"
	"github.com/hpungsan/atext2csv/internal/db"
	"github.com/hpungsan/atext2csv/internal/errors"
	"github.com/hpungsan/atext2csv/internal/snippet"
	"github.com/hpungsan/atext2csv/internal/writer"
)

func TestExport_AllFormats(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "out")
	records := sampleRecords()
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	out, err := Export(ctx, config.DefaultConfig(), ExportInput{
		Records:   records,
		Source:    "Data.atext",
		OutputDir: dir,
		Formats:   AllFormats,
		Now:       now,
	})
	require.NoError(t, err)
	require.Equal(t, 5, out.Count)
	require.Equal(t, 4, out.Groups)
	require.Equal(t, now.Unix(), out.ExportedAt)
	require.Empty(t, out.Warning)
	require.Len(t, out.Files, len(AllFormats))

	entries := make(map[Format]int)
	for i, f := range out.Files {
		require.Equal(t, AllFormats[i], f.Format)
		require.Equal(t, filepath.Join(dir, f.Format.FileName("atext")), f.Path)
		info, err := os.Stat(f.Path)
		require.NoError(t, err)
		require.Equal(t, info.Size(), f.Size)
		entries[f.Format] = f.Entries
	}
	require.Equal(t, 5, entries[FormatCSV])
	// addr, sig, sign, deep, top; "now" is a script.
	require.Equal(t, 5, entries[FormatEspanso])

	data, err := os.ReadFile(filepath.Join(dir, "atext_snippets.json"))
	require.NoError(t, err)
	var decoded []snippet.Record
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, records, decoded)

	data, err = os.ReadFile(filepath.Join(dir, "atext_espanso.yml"))
	require.NoError(t, err)
	var matches writer.EspansoFile
	require.NoError(t, yaml.Unmarshal(data, &matches))
	require.Len(t, matches.Matches, 5)

	fromDB, run, err := db.ReadLatest(ctx, filepath.Join(dir, "atext_snippets.db"))
	require.NoError(t, err)
	require.Equal(t, "Data.atext", run.Source)
	require.Equal(t, now.Unix(), run.ExportedAt)
	require.Equal(t, records, fromDB)

	// No temp files left behind.
	names, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, n := range names {
		require.False(t, strings.HasSuffix(n.Name(), ".tmp"), n.Name())
		require.False(t, strings.HasSuffix(n.Name(), "-journal"), n.Name())
	}
}

func TestExport_DefaultFormatsAndConfig(t *testing.T) {
	dir := t.TempDir()

	out, err := Export(context.Background(), nil, ExportInput{Records: sampleRecords(), OutputDir: dir})
	require.NoError(t, err)
	require.Len(t, out.Files, len(DefaultFormats))
	for i, f := range out.Files {
		require.Equal(t, DefaultFormats[i], f.Format)
	}

	cfg := config.DefaultConfig()
	cfg.Formats = []string{"json"}
	cfg.OutputDir = filepath.Join(dir, "configured")
	cfg.FilePrefix = "mine"

	out, err = Export(context.Background(), cfg, ExportInput{Records: sampleRecords()})
	require.NoError(t, err)
	require.Len(t, out.Files, 1)
	require.Equal(t, filepath.Join(dir, "configured", "mine_snippets.json"), out.Files[0].Path)
}

func TestExport_InvalidConfiguredFormat(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Formats = []string{"pdf"}

	_, err := Export(context.Background(), cfg, ExportInput{Records: sampleRecords(), OutputDir: t.TempDir()})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest), "got %v", err)
}

func TestExport_NoRecordsWritesNothing(t *testing.T) {
	dir := t.TempDir()

	out, err := Export(context.Background(), nil, ExportInput{Records: []snippet.Record{}, OutputDir: dir, Formats: AllFormats})
	require.NoError(t, err)
	require.Equal(t, NoSnippetsWarning, out.Warning)
	require.Zero(t, out.Count)
	require.NotNil(t, out.Files)
	require.Empty(t, out.Files)

	names, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestExport_PrefixSanitized(t *testing.T) {
	dir := t.TempDir()

	out, err := Export(context.Background(), nil, ExportInput{
		Records:   sampleRecords(),
		OutputDir: dir,
		Prefix:    "../../evil",
		Formats:   []Format{FormatCSV},
	})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "evil_snippets.csv"), out.Files[0].Path)
}

func TestExport_OutputDirIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := Export(context.Background(), nil, ExportInput{Records: sampleRecords(), OutputDir: file})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest), "got %v", err)
}

func TestExport_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Export(ctx, nil, ExportInput{Records: sampleRecords(), OutputDir: t.TempDir()})
	require.True(t, errors.Is(err, errors.ErrCancelled), "got %v", err)
}

func TestExport_OverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "atext_snippets.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

	_, err := Export(context.Background(), nil, ExportInput{Records: sampleRecords(), OutputDir: dir, Formats: []Format{FormatCSV}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "trigger,content,type")
}

func TestExport_SymlinkDestinationRejected(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on Windows")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "target.txt")
	require.NoError(t, os.WriteFile(target, []byte("keep me"), 0644))
	require.NoError(t, os.Symlink(target, filepath.Join(dir, "atext_snippets.csv")))

	_, err := Export(context.Background(), nil, ExportInput{Records: sampleRecords(), OutputDir: dir, Formats: []Format{FormatCSV}})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest), "got %v", err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "keep me", string(data))

	names, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, names, 2)
}

func TestCreateTempFile_RefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atext_snippets.csv.0011.tmp")

	f, err := createTempFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = createTempFile(path)
	require.True(t, errors.Is(err, errors.ErrInvalidRequest), "got %v", err)
}
