package config

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// OutputDir is where export files are written. Empty means the current directory.
	OutputDir string `json:"output_dir,omitempty"`

	// Formats is the default export format list used when no format flag is given.
	// Empty means csv, json, espanso and txt.
	Formats []string `json:"formats,omitempty"`

	// FilePrefix names export files: <prefix>_snippets.csv, <prefix>_espanso.yml, ...
	FilePrefix string `json:"file_prefix,omitempty"`

	// PreviewChars is the content length shown per snippet in the text summary.
	PreviewChars int `json:"preview_chars,omitempty"`

	// MaxDecompressedBytes caps the size of the decompressed payload.
	MaxDecompressedBytes int64 `json:"max_decompressed_bytes,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		FilePrefix:           "atext",
		PreviewChars:         300,
		MaxDecompressedBytes: 256 << 20,
		LogLevel:             "info",
	}
}

// DefaultBaseDir returns ~/.atext2csv.
func DefaultBaseDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".atext2csv"), nil
}

// Load loads configuration from baseDir/config.json and applies environment
// overrides. Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.atext2csv.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFile(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(cfg, fromEnv()), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// fromEnv reads ATEXT2CSV_* overrides.
func fromEnv() *Config {
	return &Config{
		OutputDir:            envStr("ATEXT2CSV_OUTPUT_DIR", ""),
		LogLevel:             envStr("ATEXT2CSV_LOG_LEVEL", ""),
		PreviewChars:         envInt("ATEXT2CSV_PREVIEW_CHARS", 0),
		MaxDecompressedBytes: int64(envInt("ATEXT2CSV_MAX_DECOMPRESSED_BYTES", 0)),
	}
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.OutputDir = overlay.OutputDir
	if result.OutputDir == "" {
		result.OutputDir = base.OutputDir
	}

	result.FilePrefix = overlay.FilePrefix
	if result.FilePrefix == "" {
		result.FilePrefix = base.FilePrefix
	}

	result.PreviewChars = overlay.PreviewChars
	if result.PreviewChars == 0 {
		result.PreviewChars = base.PreviewChars
	}

	result.MaxDecompressedBytes = overlay.MaxDecompressedBytes
	if result.MaxDecompressedBytes == 0 {
		result.MaxDecompressedBytes = base.MaxDecompressedBytes
	}

	result.LogLevel = overlay.LogLevel
	if result.LogLevel == "" {
		result.LogLevel = base.LogLevel
	}

	// Arrays: merge and deduplicate
	result.Formats = mergeStringSlice(base.Formats, overlay.Formats)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// Level parses LogLevel. Unknown values fall back to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
