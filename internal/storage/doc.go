// Package storage provides SQLite-based persistence for indexed symbols and
// their resolved documentation.
//
// # Database Schema
//
// Tables:
//   - projects: Project metadata (root path, module name, totals)
//   - files: File paths and SHA-256 hashes
//   - symbols: Declarations with their unresolved hierarchy references;
//     list columns (params, interfaces, embeds) hold JSON arrays
//   - symbols_fts: FTS5 index over symbol keys, names and doc comments
//   - resolved_docs: Effective documentation per symbol with provenance
//
// Schema versions are ordered with semantic versioning; ApplyMigrations runs
// every migration newer than the highest recorded version.
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("inheritdoc.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	project, err := db.GetProject(ctx, "/path/to/project")
//	docs, err := db.ListResolvedDocs(ctx, project.ID)
//
// # Transactions
//
// Every Storage operation is also available on a Tx:
//
//	tx, err := db.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer func() { _ = tx.Rollback() }()
//
//	if err := tx.UpsertFile(ctx, file); err != nil {
//	    return err
//	}
//	if err := tx.UpsertSymbol(ctx, storage.FromTypesSymbol(sym, file.ID)); err != nil {
//	    return err
//	}
//	return tx.Commit()
//
// # Build Tags
//
// The default build uses modernc.org/sqlite (pure Go, FTS5 included).
// Building with the sqlite_cgo tag switches to github.com/mattn/go-sqlite3,
// which also needs the sqlite_fts5 tag:
//
//	CGO_ENABLED=1 go build -tags "sqlite_cgo,sqlite_fts5" ./...
package storage
