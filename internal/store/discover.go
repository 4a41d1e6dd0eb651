package store

import (
	"os"
	"path/filepath"

	"github.com/nibzard/gitdo/internal/gitdodir"
)

// Discover walks upward from the start directory looking for a .gitdo
// directory and returns the first ancestor that contains one. The start
// path is resolved to an absolute, symlink-free path before walking. If
// the filesystem root is reached without a match, the start directory is
// returned unchanged (uninitialized, not an error).
func Discover(start string) string {
	dir := start
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}

	for {
		if fi, err := os.Stat(filepath.Join(dir, gitdodir.Dir)); err == nil && fi.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}
