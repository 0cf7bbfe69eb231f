//go:build windows

package ops

import (
	"fmt"
	"os"

	"github.com/hpungsan/atext2csv/internal/errors"
)

// createTempFile creates path for writing. The path must not exist yet.
// Windows has no O_NOFOLLOW; the final destination is still checked with
// Lstat before the rename.
func createTempFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if os.IsExist(err) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("temp file %s already exists", path))
	}
	return f, err
}
