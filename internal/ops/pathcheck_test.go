package ops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hpungsan/atext2csv/internal/errors"
)

func TestValidateInput(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "Data.atext")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		code errors.ErrorCode
	}{
		{"existing file", file, ""},
		{"empty", "", errors.ErrInvalidRequest},
		{"blank", "   ", errors.ErrInvalidRequest},
		{"missing", filepath.Join(dir, "nope.atext"), errors.ErrFileNotFound},
		{"directory", dir, errors.ErrInvalidRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			info, err := ValidateInput(tc.path)
			if tc.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if info.Size() != 1 {
					t.Errorf("Size() = %d, want 1", info.Size())
				}
				return
			}
			if !errors.Is(err, tc.code) {
				t.Errorf("expected %s, got: %v", tc.code, err)
			}
		})
	}
}

func TestValidateOutputDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := ValidateOutputDir(""); err != nil {
		t.Errorf("empty dir: unexpected error: %v", err)
	}
	if err := ValidateOutputDir(dir); err != nil {
		t.Errorf("existing dir: unexpected error: %v", err)
	}
	if err := ValidateOutputDir(filepath.Join(dir, "new", "nested")); err != nil {
		t.Errorf("missing dir: unexpected error: %v", err)
	}
	if err := ValidateOutputDir(file); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("file as dir: expected ErrInvalidRequest, got: %v", err)
	}
}

func TestValidateRemotePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "Data.atext")

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"absolute", abs, false},
		{"empty", "", true},
		{"relative", "Data.atext", true},
		{"parent traversal", "../Data.atext", true},
		{"hidden traversal", filepath.Dir(abs) + string(filepath.Separator) + ".." + string(filepath.Separator) + "x.atext", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRemotePath(tc.path)
			if tc.wantErr {
				if !errors.Is(err, errors.ErrInvalidRequest) {
					t.Errorf("expected ErrInvalidRequest, got: %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestContainsTraversal(t *testing.T) {
	tests := []struct {
		path     string
		contains bool
	}{
		{"/home/user/Data.atext", false},
		{"../Data.atext", true},
		{"/home/../etc/passwd", true},
		{"./Data.atext", false},
		{"/home/user/.hidden/Data.atext", false},
		{"file..name.atext", false}, // .. not as path component
		{"/tmp/a/b/../c.atext", true},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			result := containsTraversal(tc.path)
			if result != tc.contains {
				t.Errorf("containsTraversal(%q) = %v, want %v", tc.path, result, tc.contains)
			}
		})
	}
}

func TestSanitizeForFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "atext", "atext"},
		{"with spaces", "my snippets", "my snippets"},
		{"forward slash", "path/to/file", "path-to-file"},
		{"backslash", "path\\to\\file", "path-to-file"},
		{"double dots", "foo..bar", "foo-bar"},
		{"traversal attempt", "../../../etc/passwd", "etc-passwd"},
		{"absolute path", "/tmp/evil", "tmp-evil"},
		{"mixed attack", "../foo/bar\\..\\baz", "foo-bar-baz"},
		{"null bytes", "foo\x00bar", "foobar"},
		{"control chars", "foo\x01\x02bar", "foobar"},
		{"empty after sanitize", "../../..", "atext"},
		{"only slashes", "///", "atext"},
		{"unicode preserved", "snippets-中文", "snippets-中文"},
		{"multiple dashes collapse", "a---b", "a-b"},
		{"leading dashes trimmed", "---foo", "foo"},
		{"trailing dashes trimmed", "foo---", "foo"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := SanitizeForFilename(tc.input)
			if result != tc.expected {
				t.Errorf("SanitizeForFilename(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}
