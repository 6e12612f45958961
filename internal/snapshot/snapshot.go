// Package snapshot computes a stable fingerprint for the current state of a
// repository. The fingerprint is the cache key that selects which persistent
// store file the engine opens: same content-state, same store.
//
// For Git working trees the fingerprint combines the HEAD commit with a hash
// of the porcelain status output, so modifying a tracked file invalidates the
// fingerprint without requiring a commit. All git subprocesses are run to
// completion before the fingerprint is assembled; the computation is fully
// synchronous.
//
// For plain directories the fingerprint hashes every non-hidden file's
// relative path, size, and modification time, recursively.
package snapshot

import (
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"codegraph/pkg/types"
)

// hashLen is the number of hex characters kept from the content hash.
const hashLen = 16

// Compute resolves root to an absolute path and fingerprints its current
// content-state. It never modifies the repository.
func Compute(root string) (*types.CodebaseSnapshot, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository root: %w", err)
	}

	snap := &types.CodebaseSnapshot{
		Path:         absRoot,
		LastModified: time.Now(),
	}

	if isGitRepository(absRoot) {
		hash, err := gitFingerprint(absRoot)
		if err == nil {
			snap.Hash = hash
			snap.IsGitRepository = true
			return snap, nil
		}
		// A broken git setup (no commits yet, git missing mid-check) falls
		// back to the directory scan rather than failing construction.
	}

	hash, err := treeFingerprint(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint %s: %w", absRoot, err)
	}
	snap.Hash = hash
	return snap, nil
}

// isGitRepository reports whether root is inside a git working tree.
func isGitRepository(root string) bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = root
	return cmd.Run() == nil
}

// gitFingerprint combines the HEAD commit with the status of uncommitted
// changes. Both subprocesses are waited on before the result is hashed.
func gitFingerprint(root string) (string, error) {
	head, err := gitOutput(root, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}

	// Porcelain status covers staged, unstaged, and untracked changes in one
	// pass, so any working-tree modification changes the fingerprint.
	status, err := gitOutput(root, "status", "--porcelain")
	if err != nil {
		return "", err
	}

	h := sha256.New()
	fmt.Fprintf(h, "%s:%s", head, status)
	return "git:" + fmt.Sprintf("%x", h.Sum(nil))[:hashLen], nil
}

// gitOutput runs a git subcommand in root and returns its trimmed stdout.
func gitOutput(root string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// treeFingerprint hashes the name, size, and mtime of every non-hidden file
// under root. File contents are not read; a touched file changes its mtime
// and therefore the fingerprint.
func treeFingerprint(root string) (string, error) {
	h := sha256.New()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
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

		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(h, "%s:%d:%d\n", filepath.ToSlash(rel), info.Size(), info.ModTime().UnixNano())
		return nil
	})
	if err != nil {
		return "", err
	}

	return "dir:" + fmt.Sprintf("%x", h.Sum(nil))[:hashLen], nil
}
