// Package walker enumerates candidate source files under a repository root.
//
// Traversal skips any file or directory whose name begins with a dot, which
// keeps VCS metadata, editor state, and the index cache itself out of the
// walk. Dispatch by extension happens in the caller; the walker only decides
// visibility.
package walker

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// WalkFunc is invoked with the absolute path of each visited file.
type WalkFunc func(path string) error

// Walk recursively visits every non-hidden file under root and invokes fn
// with its absolute path. Returning an error from fn aborts the walk.
// Symlinks are not followed.
func Walk(root string, fn WalkFunc) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	return filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal to the walk.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path == absRoot {
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		return fn(path)
	})
}
