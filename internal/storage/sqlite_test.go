package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inheritdoc/pkg/types"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	// Use in-memory database for testing
	storage, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NotNil(t, storage)
	return storage
}

func createTestFile(t *testing.T, storage *SQLiteStorage, path string) (*Project, *File) {
	t.Helper()
	ctx := context.Background()

	project, err := storage.GetProject(ctx, "/test")
	if err != nil {
		project = &Project{RootPath: "/test", ModuleName: "test", IndexVersion: "1.0.0"}
		require.NoError(t, storage.CreateProject(ctx, project))
	}

	file := &File{
		ProjectID:   project.ID,
		FilePath:    path,
		PackageName: "coll",
		ContentHash: [32]byte{1, 2, 3},
		ModTime:     time.Now(),
		SizeBytes:   100,
	}
	require.NoError(t, storage.UpsertFile(ctx, file))
	return project, file
}

func TestNewSQLiteStorage(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	assert.NotNil(t, storage)
	assert.NotNil(t, storage.db)
}

func TestCreateProject(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	project := &Project{
		RootPath:   "/test/path",
		ModuleName: "github.com/test/project",
	}

	err := storage.CreateProject(ctx, project)
	require.NoError(t, err)
	assert.Greater(t, project.ID, int64(0))

	// Try to create duplicate - should fail
	duplicate := &Project{
		RootPath:   "/test/path",
		ModuleName: "another",
	}
	err = storage.CreateProject(ctx, duplicate)
	assert.Error(t, err) // Unique constraint violation
}

func TestGetProject_NotFound(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	_, err := storage.GetProject(context.Background(), "/nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProject(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	project := &Project{RootPath: "/test/path", ModuleName: "github.com/test/project"}
	require.NoError(t, storage.CreateProject(ctx, project))

	project.ModuleName = "github.com/test/updated"
	project.TotalFiles = 10
	project.TotalSymbols = 100
	project.LastIndexedAt = time.Now()
	require.NoError(t, storage.UpdateProject(ctx, project))

	updated, err := storage.GetProject(ctx, "/test/path")
	require.NoError(t, err)
	assert.Equal(t, "github.com/test/updated", updated.ModuleName)
	assert.Equal(t, 10, updated.TotalFiles)
	assert.Equal(t, 100, updated.TotalSymbols)
	assert.False(t, updated.LastIndexedAt.IsZero())

	missing := &Project{ID: 999}
	assert.ErrorIs(t, storage.UpdateProject(ctx, missing), ErrNotFound)
}

func TestUpsertFile(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	project, file := createTestFile(t, storage, "coll.go")
	originalID := file.ID

	parseErr := "syntax error"
	file.SizeBytes = 5678
	file.ParseError = &parseErr
	require.NoError(t, storage.UpsertFile(ctx, file))
	assert.Equal(t, originalID, file.ID)

	retrieved, err := storage.GetFile(ctx, project.ID, "coll.go")
	require.NoError(t, err)
	assert.Equal(t, int64(5678), retrieved.SizeBytes)
	assert.Equal(t, [32]byte{1, 2, 3}, retrieved.ContentHash)
	require.NotNil(t, retrieved.ParseError)
	assert.Equal(t, parseErr, *retrieved.ParseError)

	_, err = storage.GetFile(ctx, project.ID, "missing.go")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAndDeleteFiles(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	project, b := createTestFile(t, storage, "b.go")
	createTestFile(t, storage, "a.go")

	files, err := storage.ListFiles(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.go", files[0].FilePath)

	require.NoError(t, storage.DeleteFile(ctx, b.ID))
	files, err = storage.ListFiles(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestSymbolRoundTrip(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	project, file := createTestFile(t, storage, "coll.go")

	sym := types.Symbol{
		ID:         "coll.List",
		Name:       "List",
		Kind:       types.KindType,
		Package:    "coll",
		Superclass: "coll.Abstract",
		Interfaces: []string{"coll.Collection", "coll.Sized"},
		Embeds:     []string{"Base"},
		DocComment: "List is ordered.\n\n@since 1.2",
		Start:      types.Position{Line: 3, Column: 6},
		End:        types.Position{Line: 9, Column: 1},
	}
	stored := FromTypesSymbol(sym, file.ID)
	require.NoError(t, storage.UpsertSymbol(ctx, stored))
	assert.Greater(t, stored.ID, int64(0))

	method := FromTypesSymbol(types.Symbol{
		ID:         "coll.List.add",
		Name:       "add",
		Kind:       types.KindMethod,
		Package:    "coll",
		Params:     []string{"Object"},
		ParamNames: []string{"item"},
		Enclosing:  "coll.List",
		Overrides:  "coll.Collection.add",
		Start:      types.Position{Line: 5, Column: 1},
	}, file.ID)
	require.NoError(t, storage.UpsertSymbol(ctx, method))

	got, err := storage.GetSymbol(ctx, project.ID, "coll.List")
	require.NoError(t, err)
	assert.Equal(t, sym, got.ToTypesSymbol())

	// Upsert keeps the row
	stored.DocComment = "Changed."
	originalID := stored.ID
	require.NoError(t, storage.UpsertSymbol(ctx, stored))
	assert.Equal(t, originalID, stored.ID)

	all, err := storage.ListSymbols(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "coll.List", all[0].SymbolKey)
	assert.Equal(t, "Changed.", all[0].DocComment)
	assert.Equal(t, []string{"Object"}, all[1].Params)
	assert.Equal(t, []string{"item"}, all[1].ParamNames)
	assert.Nil(t, all[1].Interfaces)

	_, err = storage.GetSymbol(ctx, project.ID, "coll.Missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, storage.DeleteSymbolsByFile(ctx, file.ID))
	all, err = storage.ListSymbols(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSearchSymbols(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	project, file := createTestFile(t, storage, "coll.go")

	for _, sym := range []types.Symbol{
		{ID: "coll.Queue", Name: "Queue", Kind: types.KindType, DocComment: "Queue holds elements in FIFO order."},
		{ID: "coll.Stack", Name: "Stack", Kind: types.KindType, DocComment: "Stack holds elements in LIFO order."},
	} {
		require.NoError(t, storage.UpsertSymbol(ctx, FromTypesSymbol(sym, file.ID)))
	}

	results, err := storage.SearchSymbols(ctx, project.ID, "FIFO", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "coll.Queue", results[0].SymbolKey)

	results, err = storage.SearchSymbols(ctx, project.ID, "holds", 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// FTS syntax in user input is treated literally
	results, err = storage.SearchSymbols(ctx, project.ID, `"FIFO`, 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = storage.SearchSymbols(ctx, project.ID, "  ", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestResolvedDocs(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	project, _ := createTestFile(t, storage, "coll.go")

	doc := &ResolvedDoc{
		ProjectID: project.ID,
		SymbolKey: "coll.List.add",
		Summary:   "Adds an element.",
		Body:      "Adds an element.",
		Tags: []ResolvedTag{
			{Name: "param", Argument: "e", Content: "the element"},
			{Name: "return", Content: "true if changed"},
		},
		SourceKey:   "coll.Collection.add",
		Inherited:   true,
		Diagnostics: 1,
	}
	require.NoError(t, storage.UpsertResolvedDoc(ctx, doc))
	assert.Greater(t, doc.ID, int64(0))

	plain := &ResolvedDoc{ProjectID: project.ID, SymbolKey: "coll.Collection.add", Summary: "Adds an element."}
	require.NoError(t, storage.UpsertResolvedDoc(ctx, plain))

	got, err := storage.GetResolvedDoc(ctx, project.ID, "coll.List.add")
	require.NoError(t, err)
	assert.Equal(t, doc.Tags, got.Tags)
	assert.Equal(t, "coll.Collection.add", got.SourceKey)
	assert.True(t, got.Inherited)
	assert.Equal(t, 1, got.Diagnostics)
	assert.False(t, got.ResolvedAt.IsZero())

	docs, err := storage.ListResolvedDocs(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "coll.Collection.add", docs[0].SymbolKey)
	assert.Empty(t, docs[0].Tags)

	status, err := storage.GetStatus(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, status.FilesCount)
	assert.Equal(t, 2, status.ResolvedCount)
	assert.Equal(t, 1, status.InheritedCount)
	assert.True(t, status.Health.DatabaseAccessible)

	require.NoError(t, storage.DeleteResolvedDocs(ctx, project.ID))
	_, err = storage.GetResolvedDoc(ctx, project.ID, "coll.List.add")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetStatus_NotFound(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	_, err := storage.GetStatus(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBeginTx_CommitRollback(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()

	// Test commit
	tx, err := storage.BeginTx(ctx)
	require.NoError(t, err)

	project := &Project{RootPath: "/test", ModuleName: "test"}
	require.NoError(t, tx.CreateProject(ctx, project))

	status, err := tx.GetStatus(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, status.SymbolsCount)

	_, err = tx.BeginTx(ctx)
	assert.ErrorIs(t, err, ErrNestedTx)

	require.NoError(t, tx.Commit())

	retrieved, err := storage.GetProject(ctx, "/test")
	require.NoError(t, err)
	assert.Equal(t, project.ID, retrieved.ID)

	// Test rollback
	tx2, err := storage.BeginTx(ctx)
	require.NoError(t, err)

	project2 := &Project{RootPath: "/test2", ModuleName: "test2"}
	require.NoError(t, tx2.CreateProject(ctx, project2))
	require.NoError(t, tx2.Rollback())

	_, err = storage.GetProject(ctx, "/test2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMigrations(t *testing.T) {
	db, err := sql.Open(DriverName, ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	require.NoError(t, ApplyMigrations(ctx, db))
	// Idempotent
	require.NoError(t, ApplyMigrations(ctx, db))

	v, err := schemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, v.String())

	require.NoError(t, RollbackMigration(ctx, db))
	v, err = schemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", v.String())

	var columns int
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pragma_table_info('symbols') WHERE name = 'param_names'").Scan(&columns)
	require.NoError(t, err)
	assert.Zero(t, columns)

	require.NoError(t, RollbackMigration(ctx, db))
	v, err = schemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", v.String())

	var name string
	err = db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name='resolved_docs'").Scan(&name)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, RollbackMigration(ctx, db))
	v, err = schemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0", v.String())

	assert.Error(t, RollbackMigration(ctx, db))
}
