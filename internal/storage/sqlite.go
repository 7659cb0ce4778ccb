package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrNestedTx is returned when a transaction is started inside another
	ErrNestedTx = errors.New("nested transactions not supported")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is implemented by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqliteTx) querier() querier {
	return t.tx
}

func (s *SQLiteStorage) querier() querier {
	return s.db
}

func encodeList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func decodeList(raw string) ([]string, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("invalid list column %q: %w", raw, err)
	}
	return items, nil
}

// Project operations

const projectColumns = `id, root_path, module_name, total_files, total_symbols,
		       index_version, last_indexed_at, created_at, updated_at`

func scanProject(row scanner) (*Project, error) {
	var project Project
	var moduleName sql.NullString
	var lastIndexedAt sql.NullTime
	err := row.Scan(
		&project.ID, &project.RootPath, &moduleName, &project.TotalFiles,
		&project.TotalSymbols, &project.IndexVersion, &lastIndexedAt,
		&project.CreatedAt, &project.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	project.ModuleName = moduleName.String
	if lastIndexedAt.Valid {
		project.LastIndexedAt = lastIndexedAt.Time
	}
	return &project, nil
}

func (s *SQLiteStorage) createProjectWithQuerier(ctx context.Context, q querier, project *Project) error {
	query := `
		INSERT INTO projects (root_path, module_name, index_version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		project.RootPath, project.ModuleName, project.IndexVersion, now, now)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	project.ID = id
	project.CreatedAt = now
	project.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) CreateProject(ctx context.Context, project *Project) error {
	return s.createProjectWithQuerier(ctx, s.querier(), project)
}

func (s *SQLiteStorage) getProjectWithQuerier(ctx context.Context, q querier, rootPath string) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE root_path = ?`
	return scanProject(q.QueryRowContext(ctx, query, rootPath))
}

func (s *SQLiteStorage) GetProject(ctx context.Context, rootPath string) (*Project, error) {
	return s.getProjectWithQuerier(ctx, s.querier(), rootPath)
}

func (s *SQLiteStorage) getProjectByID(ctx context.Context, q querier, projectID int64) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	return scanProject(q.QueryRowContext(ctx, query, projectID))
}

func (s *SQLiteStorage) updateProjectWithQuerier(ctx context.Context, q querier, project *Project) error {
	query := `
		UPDATE projects
		SET module_name = ?, total_files = ?, total_symbols = ?, index_version = ?,
		    last_indexed_at = ?, updated_at = ?
		WHERE id = ?
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		project.ModuleName, project.TotalFiles, project.TotalSymbols, project.IndexVersion,
		project.LastIndexedAt, now, project.ID)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	project.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpdateProject(ctx context.Context, project *Project) error {
	return s.updateProjectWithQuerier(ctx, s.querier(), project)
}

// File operations

const fileColumns = `id, project_id, file_path, package_name, content_hash, mod_time,
		       size_bytes, parse_error, last_indexed_at, created_at, updated_at`

func scanFile(row scanner) (*File, error) {
	var file File
	var hash []byte
	var packageName, parseError sql.NullString
	err := row.Scan(
		&file.ID, &file.ProjectID, &file.FilePath, &packageName,
		&hash, &file.ModTime, &file.SizeBytes, &parseError,
		&file.LastIndexedAt, &file.CreatedAt, &file.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	file.PackageName = packageName.String
	copy(file.ContentHash[:], hash)
	if parseError.Valid {
		file.ParseError = &parseError.String
	}
	return &file, nil
}

func (s *SQLiteStorage) upsertFileWithQuerier(ctx context.Context, q querier, file *File) error {
	query := `
		INSERT INTO files (project_id, file_path, package_name, content_hash, mod_time, size_bytes, parse_error, last_indexed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id, file_path) DO UPDATE SET
			package_name = excluded.package_name,
			content_hash = excluded.content_hash,
			mod_time = excluded.mod_time,
			size_bytes = excluded.size_bytes,
			parse_error = excluded.parse_error,
			last_indexed_at = excluded.last_indexed_at,
			updated_at = excluded.updated_at
		RETURNING id
	`
	now := time.Now()
	err := q.QueryRowContext(ctx, query,
		file.ProjectID, file.FilePath, file.PackageName, file.ContentHash[:],
		file.ModTime, file.SizeBytes, file.ParseError, now, now, now).Scan(&file.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert file: %w", err)
	}

	file.LastIndexedAt = now
	file.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpsertFile(ctx context.Context, file *File) error {
	return s.upsertFileWithQuerier(ctx, s.querier(), file)
}

func (s *SQLiteStorage) getFileWithQuerier(ctx context.Context, q querier, projectID int64, filePath string) (*File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE project_id = ? AND file_path = ?`
	return scanFile(q.QueryRowContext(ctx, query, projectID, filePath))
}

func (s *SQLiteStorage) GetFile(ctx context.Context, projectID int64, filePath string) (*File, error) {
	return s.getFileWithQuerier(ctx, s.querier(), projectID, filePath)
}

func (s *SQLiteStorage) deleteFileWithQuerier(ctx context.Context, q querier, fileID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, fileID)
	return err
}

func (s *SQLiteStorage) DeleteFile(ctx context.Context, fileID int64) error {
	return s.deleteFileWithQuerier(ctx, s.querier(), fileID)
}

func (s *SQLiteStorage) listFilesWithQuerier(ctx context.Context, q querier, projectID int64) ([]*File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE project_id = ? ORDER BY file_path`
	rows, err := q.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	files := make([]*File, 0)
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, rows.Err()
}

func (s *SQLiteStorage) ListFiles(ctx context.Context, projectID int64) ([]*File, error) {
	return s.listFilesWithQuerier(ctx, s.querier(), projectID)
}

// Symbol operations

const symbolColumns = `s.id, s.file_id, s.symbol_key, s.name, s.kind, s.package_name, s.is_interface,
		       s.params, s.param_names, s.superclass, s.interfaces, s.overrides, s.enclosing, s.embeds,
		       s.doc_comment, s.start_line, s.start_col, s.end_line, s.end_col, s.created_at`

func scanSymbol(row scanner) (*Symbol, error) {
	var symbol Symbol
	var pkg, superclass, overrides, enclosing, doc sql.NullString
	var params, paramNames, interfaces, embeds string
	err := row.Scan(
		&symbol.ID, &symbol.FileID, &symbol.SymbolKey, &symbol.Name, &symbol.Kind,
		&pkg, &symbol.IsInterface, &params, &paramNames, &superclass, &interfaces,
		&overrides, &enclosing, &embeds, &doc,
		&symbol.StartLine, &symbol.StartCol, &symbol.EndLine, &symbol.EndCol, &symbol.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	symbol.PackageName = pkg.String
	symbol.Superclass = superclass.String
	symbol.Overrides = overrides.String
	symbol.Enclosing = enclosing.String
	symbol.DocComment = doc.String

	if symbol.Params, err = decodeList(params); err != nil {
		return nil, err
	}
	if symbol.ParamNames, err = decodeList(paramNames); err != nil {
		return nil, err
	}
	if symbol.Interfaces, err = decodeList(interfaces); err != nil {
		return nil, err
	}
	if symbol.Embeds, err = decodeList(embeds); err != nil {
		return nil, err
	}
	return &symbol, nil
}

func scanSymbols(rows *sql.Rows) ([]*Symbol, error) {
	defer func() { _ = rows.Close() }()

	symbols := make([]*Symbol, 0)
	for rows.Next() {
		symbol, err := scanSymbol(rows)
		if err != nil {
			return nil, err
		}
		symbols = append(symbols, symbol)
	}
	return symbols, rows.Err()
}

func (s *SQLiteStorage) upsertSymbolWithQuerier(ctx context.Context, q querier, symbol *Symbol) error {
	// Use atomic INSERT ... ON CONFLICT to avoid race conditions
	query := `
		INSERT INTO symbols (
			file_id, symbol_key, name, kind, package_name, is_interface,
			params, param_names, superclass, interfaces, overrides, enclosing, embeds, doc_comment,
			start_line, start_col, end_line, end_col, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_id, symbol_key)
		DO UPDATE SET
			name = excluded.name,
			kind = excluded.kind,
			package_name = excluded.package_name,
			is_interface = excluded.is_interface,
			params = excluded.params,
			param_names = excluded.param_names,
			superclass = excluded.superclass,
			interfaces = excluded.interfaces,
			overrides = excluded.overrides,
			enclosing = excluded.enclosing,
			embeds = excluded.embeds,
			doc_comment = excluded.doc_comment,
			start_line = excluded.start_line,
			start_col = excluded.start_col,
			end_line = excluded.end_line,
			end_col = excluded.end_col
		RETURNING id, created_at
	`
	now := time.Now()
	err := q.QueryRowContext(ctx, query,
		symbol.FileID, symbol.SymbolKey, symbol.Name, symbol.Kind, symbol.PackageName, symbol.IsInterface,
		encodeList(symbol.Params), encodeList(symbol.ParamNames), symbol.Superclass, encodeList(symbol.Interfaces),
		symbol.Overrides, symbol.Enclosing, encodeList(symbol.Embeds), symbol.DocComment,
		symbol.StartLine, symbol.StartCol, symbol.EndLine, symbol.EndCol, now,
	).Scan(&symbol.ID, &symbol.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert symbol %s: %w", symbol.SymbolKey, err)
	}
	return nil
}

func (s *SQLiteStorage) UpsertSymbol(ctx context.Context, symbol *Symbol) error {
	return s.upsertSymbolWithQuerier(ctx, s.querier(), symbol)
}

func (s *SQLiteStorage) getSymbolWithQuerier(ctx context.Context, q querier, projectID int64, key string) (*Symbol, error) {
	query := `SELECT ` + symbolColumns + `
		FROM symbols s
		JOIN files f ON s.file_id = f.id
		WHERE f.project_id = ? AND s.symbol_key = ?
		LIMIT 1
	`
	return scanSymbol(q.QueryRowContext(ctx, query, projectID, key))
}

func (s *SQLiteStorage) GetSymbol(ctx context.Context, projectID int64, key string) (*Symbol, error) {
	return s.getSymbolWithQuerier(ctx, s.querier(), projectID, key)
}

func (s *SQLiteStorage) listSymbolsWithQuerier(ctx context.Context, q querier, projectID int64) ([]*Symbol, error) {
	// Declaration order: file order, then position, then insertion
	query := `SELECT ` + symbolColumns + `
		FROM symbols s
		JOIN files f ON s.file_id = f.id
		WHERE f.project_id = ?
		ORDER BY f.file_path, s.start_line, s.start_col, s.id
	`
	rows, err := q.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	return scanSymbols(rows)
}

func (s *SQLiteStorage) ListSymbols(ctx context.Context, projectID int64) ([]*Symbol, error) {
	return s.listSymbolsWithQuerier(ctx, s.querier(), projectID)
}

func (s *SQLiteStorage) deleteSymbolsByFileWithQuerier(ctx context.Context, q querier, fileID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM symbols WHERE file_id = ?`, fileID)
	return err
}

func (s *SQLiteStorage) DeleteSymbolsByFile(ctx context.Context, fileID int64) error {
	return s.deleteSymbolsByFileWithQuerier(ctx, s.querier(), fileID)
}

func (s *SQLiteStorage) searchSymbolsWithQuerier(ctx context.Context, q querier, projectID int64, query string, limit int) ([]*Symbol, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*Symbol{}, nil
	}
	// 'rank' is the FTS5 BM25 column; lower is better
	sqlQuery := `SELECT ` + symbolColumns + `
		FROM symbols_fts
		JOIN symbols s ON s.id = symbols_fts.rowid
		JOIN files f ON s.file_id = f.id
		WHERE symbols_fts MATCH ? AND f.project_id = ?
		ORDER BY rank
		LIMIT ?
	`
	rows, err := q.QueryContext(ctx, sqlQuery, ftsQuery(query), projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("symbol search failed: %w", err)
	}
	return scanSymbols(rows)
}

func (s *SQLiteStorage) SearchSymbols(ctx context.Context, projectID int64, query string, limit int) ([]*Symbol, error) {
	return s.searchSymbolsWithQuerier(ctx, s.querier(), projectID, query, limit)
}

// ftsQuery quotes each term so user input cannot inject FTS5 syntax
func ftsQuery(query string) string {
	terms := strings.Fields(query)
	for i, term := range terms {
		terms[i] = `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}

// Resolved documentation operations

const resolvedColumns = `id, project_id, symbol_key, summary, body, tags, source_key,
		       inherited, diagnostics, resolved_at`

func scanResolvedDoc(row scanner) (*ResolvedDoc, error) {
	var doc ResolvedDoc
	var summary, body, source sql.NullString
	var tags string
	var resolvedAt sql.NullTime
	err := row.Scan(
		&doc.ID, &doc.ProjectID, &doc.SymbolKey, &summary, &body, &tags,
		&source, &doc.Inherited, &doc.Diagnostics, &resolvedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	doc.Summary = summary.String
	doc.Body = body.String
	doc.SourceKey = source.String
	if resolvedAt.Valid {
		doc.ResolvedAt = resolvedAt.Time
	}
	if tags != "" && tags != "[]" {
		if err := json.Unmarshal([]byte(tags), &doc.Tags); err != nil {
			return nil, fmt.Errorf("invalid tags for %s: %w", doc.SymbolKey, err)
		}
	}
	return &doc, nil
}

func (s *SQLiteStorage) upsertResolvedDocWithQuerier(ctx context.Context, q querier, doc *ResolvedDoc) error {
	tags := "[]"
	if len(doc.Tags) > 0 {
		data, err := json.Marshal(doc.Tags)
		if err != nil {
			return fmt.Errorf("failed to encode tags: %w", err)
		}
		tags = string(data)
	}

	query := `
		INSERT INTO resolved_docs (project_id, symbol_key, summary, body, tags, source_key, inherited, diagnostics, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id, symbol_key) DO UPDATE SET
			summary = excluded.summary,
			body = excluded.body,
			tags = excluded.tags,
			source_key = excluded.source_key,
			inherited = excluded.inherited,
			diagnostics = excluded.diagnostics,
			resolved_at = excluded.resolved_at
		RETURNING id
	`
	now := time.Now()
	err := q.QueryRowContext(ctx, query,
		doc.ProjectID, doc.SymbolKey, doc.Summary, doc.Body, tags, doc.SourceKey,
		doc.Inherited, doc.Diagnostics, now).Scan(&doc.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert resolved doc %s: %w", doc.SymbolKey, err)
	}
	doc.ResolvedAt = now
	return nil
}

func (s *SQLiteStorage) UpsertResolvedDoc(ctx context.Context, doc *ResolvedDoc) error {
	return s.upsertResolvedDocWithQuerier(ctx, s.querier(), doc)
}

func (s *SQLiteStorage) getResolvedDocWithQuerier(ctx context.Context, q querier, projectID int64, key string) (*ResolvedDoc, error) {
	query := `SELECT ` + resolvedColumns + ` FROM resolved_docs WHERE project_id = ? AND symbol_key = ?`
	return scanResolvedDoc(q.QueryRowContext(ctx, query, projectID, key))
}

func (s *SQLiteStorage) GetResolvedDoc(ctx context.Context, projectID int64, key string) (*ResolvedDoc, error) {
	return s.getResolvedDocWithQuerier(ctx, s.querier(), projectID, key)
}

func (s *SQLiteStorage) listResolvedDocsWithQuerier(ctx context.Context, q querier, projectID int64) ([]*ResolvedDoc, error) {
	query := `SELECT ` + resolvedColumns + ` FROM resolved_docs WHERE project_id = ? ORDER BY symbol_key`
	rows, err := q.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	docs := make([]*ResolvedDoc, 0)
	for rows.Next() {
		doc, err := scanResolvedDoc(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *SQLiteStorage) ListResolvedDocs(ctx context.Context, projectID int64) ([]*ResolvedDoc, error) {
	return s.listResolvedDocsWithQuerier(ctx, s.querier(), projectID)
}

func (s *SQLiteStorage) deleteResolvedDocsWithQuerier(ctx context.Context, q querier, projectID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM resolved_docs WHERE project_id = ?`, projectID)
	return err
}

func (s *SQLiteStorage) DeleteResolvedDocs(ctx context.Context, projectID int64) error {
	return s.deleteResolvedDocsWithQuerier(ctx, s.querier(), projectID)
}

// Status operations

func (s *SQLiteStorage) getStatusWithQuerier(ctx context.Context, q querier, projectID int64) (*ProjectStatus, error) {
	project, err := s.getProjectByID(ctx, q, projectID)
	if err != nil {
		return nil, err
	}

	status := &ProjectStatus{
		Project:       project,
		LastIndexedAt: project.LastIndexedAt,
	}

	err = q.QueryRowContext(ctx, "SELECT COUNT(*) FROM files WHERE project_id = ?", projectID).Scan(&status.FilesCount)
	if err != nil {
		return nil, err
	}

	err = q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM symbols s
		JOIN files f ON s.file_id = f.id
		WHERE f.project_id = ?
	`, projectID).Scan(&status.SymbolsCount)
	if err != nil {
		return nil, err
	}

	err = q.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(inherited), 0) FROM resolved_docs WHERE project_id = ?
	`, projectID).Scan(&status.ResolvedCount, &status.InheritedCount)
	if err != nil {
		return nil, err
	}

	// Calculate database size
	var pageCount, pageSize int
	if err := q.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err == nil {
		_ = q.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
		status.IndexSizeMB = float64(pageCount*pageSize) / (1024 * 1024)
	}

	status.Health = HealthStatus{
		DatabaseAccessible: true,
		FTSIndexesBuilt:    true, // FTS indexes are created with migrations
	}

	return status, nil
}

func (s *SQLiteStorage) GetStatus(ctx context.Context, projectID int64) (*ProjectStatus, error) {
	return s.getStatusWithQuerier(ctx, s.querier(), projectID)
}

// Transaction implementations run every operation on the transaction querier

func (t *sqliteTx) CreateProject(ctx context.Context, project *Project) error {
	return t.storage.createProjectWithQuerier(ctx, t.querier(), project)
}

func (t *sqliteTx) GetProject(ctx context.Context, rootPath string) (*Project, error) {
	return t.storage.getProjectWithQuerier(ctx, t.querier(), rootPath)
}

func (t *sqliteTx) UpdateProject(ctx context.Context, project *Project) error {
	return t.storage.updateProjectWithQuerier(ctx, t.querier(), project)
}

func (t *sqliteTx) UpsertFile(ctx context.Context, file *File) error {
	return t.storage.upsertFileWithQuerier(ctx, t.querier(), file)
}

func (t *sqliteTx) GetFile(ctx context.Context, projectID int64, filePath string) (*File, error) {
	return t.storage.getFileWithQuerier(ctx, t.querier(), projectID, filePath)
}

func (t *sqliteTx) DeleteFile(ctx context.Context, fileID int64) error {
	return t.storage.deleteFileWithQuerier(ctx, t.querier(), fileID)
}

func (t *sqliteTx) ListFiles(ctx context.Context, projectID int64) ([]*File, error) {
	return t.storage.listFilesWithQuerier(ctx, t.querier(), projectID)
}

func (t *sqliteTx) UpsertSymbol(ctx context.Context, symbol *Symbol) error {
	return t.storage.upsertSymbolWithQuerier(ctx, t.querier(), symbol)
}

func (t *sqliteTx) GetSymbol(ctx context.Context, projectID int64, key string) (*Symbol, error) {
	return t.storage.getSymbolWithQuerier(ctx, t.querier(), projectID, key)
}

func (t *sqliteTx) ListSymbols(ctx context.Context, projectID int64) ([]*Symbol, error) {
	return t.storage.listSymbolsWithQuerier(ctx, t.querier(), projectID)
}

func (t *sqliteTx) DeleteSymbolsByFile(ctx context.Context, fileID int64) error {
	return t.storage.deleteSymbolsByFileWithQuerier(ctx, t.querier(), fileID)
}

func (t *sqliteTx) SearchSymbols(ctx context.Context, projectID int64, query string, limit int) ([]*Symbol, error) {
	return t.storage.searchSymbolsWithQuerier(ctx, t.querier(), projectID, query, limit)
}

func (t *sqliteTx) UpsertResolvedDoc(ctx context.Context, doc *ResolvedDoc) error {
	return t.storage.upsertResolvedDocWithQuerier(ctx, t.querier(), doc)
}

func (t *sqliteTx) GetResolvedDoc(ctx context.Context, projectID int64, key string) (*ResolvedDoc, error) {
	return t.storage.getResolvedDocWithQuerier(ctx, t.querier(), projectID, key)
}

func (t *sqliteTx) ListResolvedDocs(ctx context.Context, projectID int64) ([]*ResolvedDoc, error) {
	return t.storage.listResolvedDocsWithQuerier(ctx, t.querier(), projectID)
}

func (t *sqliteTx) DeleteResolvedDocs(ctx context.Context, projectID int64) error {
	return t.storage.deleteResolvedDocsWithQuerier(ctx, t.querier(), projectID)
}

func (t *sqliteTx) GetStatus(ctx context.Context, projectID int64) (*ProjectStatus, error) {
	return t.storage.getStatusWithQuerier(ctx, t.querier(), projectID)
}

func (t *sqliteTx) Close() error {
	// Transactions don't close the underlying connection
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	return nil, ErrNestedTx
}
