//go:build !windows

package ops

import (
	stderrors "errors"
	"fmt"
	"os"
	"syscall"

	"github.com/hpungsan/atext2csv/internal/errors"
)

// createTempFile creates path for writing. The path must not exist yet and
// must not be a symlink; O_CLOEXEC keeps the descriptor out of child processes.
func createTempFile(path string) (*os.File, error) {
	flags := syscall.O_CREAT | syscall.O_EXCL | syscall.O_WRONLY | syscall.O_NOFOLLOW | syscall.O_CLOEXEC
	fd, err := syscall.Open(path, flags, 0644)
	if err != nil {
		switch {
		case stderrors.Is(err, syscall.ELOOP), stderrors.Is(err, syscall.EEXIST):
			return nil, errors.NewInvalidRequest(fmt.Sprintf("temp file %s already exists", path))
		}
		return nil, err
	}
	return os.NewFile(uintptr(fd), path), nil
}
