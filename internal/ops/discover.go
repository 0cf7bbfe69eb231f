package ops

import (
	"os"
	"path/filepath"
	"runtime"
)

const appID = "com.trankynam.aText"

// DataFileCandidates lists where aText keeps its data file on the current
// platform, most likely first.
func DataFileCandidates() []string {
	home, _ := os.UserHomeDir()
	return dataFileCandidates(runtime.GOOS, os.Getenv, home)
}

func dataFileCandidates(goos string, getenv func(string) string, home string) []string {
	var candidates []string
	switch goos {
	case "windows":
		if local := getenv("LOCALAPPDATA"); local != "" {
			candidates = append(candidates, filepath.Join(local, appID, "Data", "Data.atext"))
		}
	case "darwin":
		if home != "" {
			support := filepath.Join(home, "Library", "Application Support", appID)
			candidates = append(candidates,
				filepath.Join(support, "Data.atext"),
				filepath.Join(support, "Data", "Data.atext"),
			)
		}
	}
	return candidates
}

// FindDataFile returns the first existing aText data file among
// DataFileCandidates.
func FindDataFile() (string, bool) {
	return firstExisting(DataFileCandidates())
}

func firstExisting(paths []string) (string, bool) {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}
