package types

import "time"

// CodebaseSnapshot identifies one specific content-state of a repository.
// The Hash selects which persistent store file the engine opens; it is
// computed once at engine construction and never mutated.
type CodebaseSnapshot struct {
	Hash            string    // Fingerprint of the repository's indexable content
	Path            string    // Resolved absolute repository root
	LastModified    time.Time // When the fingerprint was computed
	IsGitRepository bool
}
