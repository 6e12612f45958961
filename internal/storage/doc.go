// Package storage provides SQLite-based persistence for the structural
// index.
//
// Each fingerprinted repository state owns exactly one store file inside
// the configured cache directory; opening a store for a fingerprint that
// has never been seen creates the file and applies the schema. Two tables
// hold the index: functions (free functions and methods, discriminated by
// parent_class) and classes.
//
// # Basic Usage
//
//	store, err := storage.Open(cacheDir, snapshot.Hash)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	empty, err := store.IsEmpty(ctx)
//
// A rebuild runs inside a transaction so a store is always observed either
// fully empty or fully populated:
//
//	tx, _ := store.BeginTx(ctx)
//	defer tx.Rollback()
//	tx.Clear(ctx)
//	tx.InsertFunction(ctx, &entry)
//	tx.Commit()
//
// # Build Tags
//
// The default build uses the pure Go driver (modernc.org/sqlite); building
// with the sqlite_cgo tag selects github.com/mattn/go-sqlite3 instead.
package storage
