// Package indexer builds the resolved documentation index of a project.
//
// # Pipeline
//
// One IndexProject call runs these stages:
//
//  1. Discovery: walk the tree for .go files, skipping vendor, testdata,
//     hidden and underscore directories, and _test.go files unless asked.
//     A path naming a .yaml/.yml file is loaded as a declarative model.
//  2. Parsing: files are parsed concurrently with a bounded errgroup.
//  3. Model: symbols are deduplicated (first declaration wins) and linked
//     into elements by model.Build. Dangling references become warnings.
//  4. Resolution: every element is expanded by ResolveAll, again on a
//     bounded pool. Expansion only reads the model, so elements never
//     contend.
//  5. Storage: changed files and their symbols are upserted, vanished
//     files removed, and the resolved docs replaced, all in one
//     transaction.
//
// # Incremental Updates
//
// Files whose SHA-256 content hash matches the stored one are not rewritten,
// but their symbols still take part in the model: a changed parent can alter
// the inherited docs of an unchanged child, so resolution always covers the
// whole project.
//
// # Concurrency
//
// IndexLock guards against indexing the same project twice at once:
//
//	if !lock.TryAcquire(root) {
//	    return ErrIndexingInProgress
//	}
//	defer lock.Release(root)
//
// # Example
//
//	store, _ := storage.NewSQLiteStorage(dbPath)
//	idx := indexer.New(store, indexer.WithLogger(logger))
//
//	stats, err := idx.IndexProject(ctx, "/src/project", &indexer.Config{
//	    Workers: 8,
//	    Format:  "html",
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d symbols, %d inherited, %d diagnostics\n",
//	    stats.SymbolsExtracted, stats.Inherited, stats.Diagnostics)
package indexer
