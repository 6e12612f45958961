// Package indexer drives the walk -> parse -> store pipeline that
// populates a structural index.
//
// A build is always a full rebuild: the entry tables are cleared and every
// recognized source file under the repository root is reparsed and
// reinserted inside one transaction, so concurrent readers never observe a
// half-built store. Files are parsed concurrently by a worker pool;
// insertion order carries no meaning.
//
// Per-file failures (unreadable, binary content) are recorded and skipped,
// never fatal to the build. Only storage-level failures abort a build.
package indexer
