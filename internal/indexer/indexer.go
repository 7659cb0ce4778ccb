package indexer

import (
	"bytes"
	"cmp"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/inheritdoc/internal/assembler"
	"github.com/dshills/inheritdoc/internal/diagnostics"
	"github.com/dshills/inheritdoc/internal/logging"
	"github.com/dshills/inheritdoc/internal/metrics"
	"github.com/dshills/inheritdoc/internal/model"
	"github.com/dshills/inheritdoc/internal/parser"
	"github.com/dshills/inheritdoc/internal/registry"
	"github.com/dshills/inheritdoc/internal/resolver"
	"github.com/dshills/inheritdoc/internal/storage"
	"github.com/dshills/inheritdoc/pkg/types"
)

// Indexer coordinates the indexing pipeline:
// discover -> parse -> build model -> resolve -> store
type Indexer struct {
	parser   *parser.Parser
	storage  storage.Storage
	handlers registry.HandlerLookup
	logger   *zap.Logger
	metrics  *metrics.Metrics
	rawHTML  bool
}

// Option configures an Indexer
type Option func(*Indexer)

// WithLogger sets the logger used for progress and diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(idx *Indexer) { idx.logger = logging.OrNop(logger) }
}

// WithMetrics records indexing and resolution metrics on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(idx *Indexer) { idx.metrics = m }
}

// WithRawHTML keeps HTML embedded in doc comments when rendering HTML
func WithRawHTML(enabled bool) Option {
	return func(idx *Indexer) { idx.rawHTML = enabled }
}

// WithHandlers replaces the default tag handler registry
func WithHandlers(handlers registry.HandlerLookup) Option {
	return func(idx *Indexer) { idx.handlers = handlers }
}

// Config contains configuration for one indexing run
type Config struct {
	Workers       int    // Number of concurrent workers (default: runtime.NumCPU())
	IncludeTests  bool   // Whether to index _test.go files (default: false)
	IncludeVendor bool   // Whether to index the vendor directory (default: false)
	Structural    bool   // Infer implemented interfaces from method sets
	Format        string // Renderer for resolved documentation (default: text)
}

// Statistics contains statistics about the indexing operation
type Statistics struct {
	FilesIndexed     int
	FilesSkipped     int // Unchanged since the previous run
	FilesFailed      int
	FilesRemoved     int
	SymbolsExtracted int
	ElementsResolved int
	Inherited        int
	Diagnostics      int
	Duration         time.Duration
	Warnings         []string
	ErrorMessages    []string
}

// New creates a new Indexer instance
func New(store storage.Storage, opts ...Option) *Indexer {
	idx := &Indexer{
		parser:   parser.New(),
		storage:  store,
		handlers: registry.Default(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// sourceFile is one discovered file after parsing
type sourceFile struct {
	path     string // Absolute
	relPath  string
	hash     [32]byte
	modTime  time.Time
	size     int64
	pkg      string
	symbols  []types.Symbol
	parseErr string
	failed   error
}

// IndexProject indexes a Go source tree, or a YAML model when rootPath names
// a .yaml/.yml file, and stores the resolved documentation of every symbol
func (idx *Indexer) IndexProject(ctx context.Context, rootPath string, config *Config) (stats *Statistics, err error) {
	config = normalizeConfig(config)

	startTime := time.Now()
	stats = &Statistics{}
	defer func() {
		stats.Duration = time.Since(startTime)
		if idx.metrics != nil {
			idx.metrics.RecordIndex(stats.FilesIndexed, stats.SymbolsExtracted, stats.Duration, err)
		}
	}()

	rootPath, err = filepath.Abs(rootPath)
	if err != nil {
		return stats, fmt.Errorf("invalid path: %w", err)
	}
	info, err := os.Stat(rootPath)
	if err != nil {
		return stats, fmt.Errorf("invalid path: %w", err)
	}

	var files []*sourceFile
	if info.IsDir() {
		paths, err := idx.discoverFiles(rootPath, config)
		if err != nil {
			return stats, fmt.Errorf("failed to discover files: %w", err)
		}
		files, err = idx.parseFiles(ctx, rootPath, paths, config.Workers)
		if err != nil {
			return stats, fmt.Errorf("failed to parse files: %w", err)
		}
		// Storage lists symbols by path; building in the same order keeps
		// reloaded models identical
		slices.SortFunc(files, func(a, b *sourceFile) int {
			return cmp.Compare(a.relPath, b.relPath)
		})
	} else {
		if !isModelFile(rootPath) {
			return stats, fmt.Errorf("%s: %w", rootPath, ErrUnsupportedFile)
		}
		f := loadModelFile(rootPath)
		if f.failed != nil {
			return stats, f.failed
		}
		files = []*sourceFile{f}
	}

	var symbols []types.Symbol
	for _, f := range files {
		if f.failed != nil {
			stats.FilesFailed++
			stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", f.relPath, f.failed))
			continue
		}
		symbols = append(symbols, f.symbols...)
	}
	symbols, dropped := dedupe(symbols)
	stats.Warnings = append(stats.Warnings, dropped...)
	stats.SymbolsExtracted = len(symbols)

	m, warnings, err := model.Build(symbols, buildOptions(config)...)
	if err != nil {
		return stats, fmt.Errorf("failed to build model: %w", err)
	}
	stats.Warnings = append(stats.Warnings, warnings...)
	for _, w := range warnings {
		idx.logger.Debug("model warning", zap.String("warning", w))
	}

	expander, err := idx.newExpander(config.Format)
	if err != nil {
		return stats, err
	}
	docs, err := ResolveAll(ctx, m.Elements(), expander, config.Workers)
	if err != nil {
		return stats, fmt.Errorf("failed to resolve documentation: %w", err)
	}
	idx.tally(docs, stats)

	if err := idx.persist(ctx, rootPath, files, docs, stats); err != nil {
		return stats, err
	}

	idx.logger.Info("project indexed",
		zap.String("path", rootPath),
		zap.Int("files", stats.FilesIndexed),
		zap.Int("skipped", stats.FilesSkipped),
		zap.Int("symbols", stats.SymbolsExtracted),
		zap.Int("inherited", stats.Inherited),
		zap.Int("diagnostics", stats.Diagnostics),
	)
	return stats, nil
}

// ErrUnsupportedFile is returned when a single file other than a YAML model
// is given as project root
var ErrUnsupportedFile = errors.New("unsupported project file")

func normalizeConfig(config *Config) *Config {
	if config == nil {
		config = &Config{}
	}
	out := *config
	if out.Workers <= 0 {
		out.Workers = runtime.NumCPU()
	}
	if out.Format == "" {
		out.Format = "text"
	}
	return &out
}

func buildOptions(config *Config) []model.Option {
	if config.Structural {
		return []model.Option{model.WithStructuralInterfaces()}
	}
	return nil
}

func isModelFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// newExpander wires the resolution pipeline for one run. Unsatisfied markers
// go to the log and to the diagnostics counter.
func (idx *Indexer) newExpander(format string) (*assembler.Expander, error) {
	var reporter diagnostics.Reporter = diagnostics.NewLogReporter(idx.logger)
	if idx.metrics != nil {
		reporter = diagnostics.Tee(reporter, metricsReporter{idx.metrics})
	}
	return idx.Expander(format, reporter)
}

type metricsReporter struct {
	m *metrics.Metrics
}

func (r metricsReporter) Report(d diagnostics.Diagnostic) {
	r.m.RecordDiagnostic(d.Reason)
}

// tally fills the resolution counters and records per-search metrics
func (idx *Indexer) tally(docs []*assembler.ElementDoc, stats *Statistics) {
	stats.ElementsResolved = len(docs)
	for _, doc := range docs {
		if doc.Inherited() {
			stats.Inherited++
		}
		stats.Diagnostics += countDiagnostics(doc)
		if idx.metrics == nil {
			continue
		}
		idx.metrics.ElementsResolved.Inc()
		for _, r := range doc.Resolutions {
			idx.metrics.RecordResolution(r.Result)
		}
	}
}

func countDiagnostics(doc *assembler.ElementDoc) int {
	n := 0
	for _, r := range doc.Resolutions {
		if !r.Implicit && r.Result.HasDiagnostic() {
			n++
		}
	}
	return n
}

// dedupe keeps the first symbol declared under each ID
func dedupe(symbols []types.Symbol) ([]types.Symbol, []string) {
	seen := make(map[string]bool, len(symbols))
	out := make([]types.Symbol, 0, len(symbols))
	var dropped []string
	for _, sym := range symbols {
		if seen[sym.ID] {
			dropped = append(dropped, fmt.Sprintf("%s: duplicate declaration in %s ignored", sym.ID, sym.File))
			continue
		}
		seen[sym.ID] = true
		out = append(out, sym)
	}
	return out, dropped
}

// discoverFiles finds all Go files in the project
func (idx *Indexer) discoverFiles(rootPath string, config *Config) ([]string, error) {
	var files []string

	err := filepath.WalkDir(rootPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == rootPath {
				return nil
			}
			name := d.Name()
			// Skip vendor unless explicitly included
			if !config.IncludeVendor && name == "vendor" {
				return filepath.SkipDir
			}
			// Skip hidden directories and testdata
			if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata" {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		if !config.IncludeTests && strings.HasSuffix(path, "_test.go") {
			return nil
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// parseFiles parses files concurrently; results keep the discovery order so
// the model sees declarations in a stable order
func (idx *Indexer) parseFiles(ctx context.Context, rootPath string, paths []string, workers int) ([]*sourceFile, error) {
	results := make([]*sourceFile, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = idx.parseFile(rootPath, path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (idx *Indexer) parseFile(rootPath, path string) *sourceFile {
	f := &sourceFile{path: path, relPath: relativePath(rootPath, path)}

	content, info, err := readFile(path)
	if err != nil {
		f.failed = err
		return f
	}
	f.hash = sha256.Sum256(content)
	f.modTime = info.ModTime()
	f.size = info.Size()

	result := idx.parser.ParseSource(path, content)
	f.pkg = result.PackageName
	f.symbols = result.Symbols
	slices.SortStableFunc(f.symbols, func(a, b types.Symbol) int {
		return cmp.Or(cmp.Compare(a.Start.Line, b.Start.Line), cmp.Compare(a.Start.Column, b.Start.Column))
	})
	if result.HasErrors() {
		f.parseErr = result.Errors[0].Error()
	}
	return f
}

func loadModelFile(path string) *sourceFile {
	f := &sourceFile{path: path, relPath: filepath.Base(path)}

	content, info, err := readFile(path)
	if err != nil {
		f.failed = err
		return f
	}
	f.hash = sha256.Sum256(content)
	f.modTime = info.ModTime()
	f.size = info.Size()

	doc, err := model.DecodeYAML(bytes.NewReader(content))
	if err != nil {
		f.failed = fmt.Errorf("%s: %w", path, err)
		return f
	}
	f.pkg = doc.Package
	f.symbols = doc.Symbols
	for i := range f.symbols {
		f.symbols[i].File = path
	}
	return f
}

func readFile(path string) ([]byte, os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return content, info, nil
}

func relativePath(rootPath, path string) string {
	rel, err := filepath.Rel(rootPath, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// persist writes files, symbols and resolved documentation in one transaction
func (idx *Indexer) persist(ctx context.Context, rootPath string, files []*sourceFile,
	docs []*assembler.ElementDoc, stats *Statistics) error {

	tx, err := idx.storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	project, err := getOrCreateProject(ctx, tx, rootPath, files)
	if err != nil {
		return fmt.Errorf("failed to get or create project: %w", err)
	}

	if err := idx.storeFiles(ctx, tx, project, files, stats); err != nil {
		return err
	}

	if err := tx.DeleteResolvedDocs(ctx, project.ID); err != nil {
		return fmt.Errorf("failed to clear resolved docs: %w", err)
	}
	for _, doc := range docs {
		rd := toResolvedDoc(project.ID, doc)
		if err := tx.UpsertResolvedDoc(ctx, rd); err != nil {
			return err
		}
	}

	project.TotalFiles = len(files) - stats.FilesFailed
	project.TotalSymbols = stats.SymbolsExtracted
	project.IndexVersion = storage.CurrentSchemaVersion
	project.LastIndexedAt = time.Now()
	if err := tx.UpdateProject(ctx, project); err != nil {
		return fmt.Errorf("failed to update project stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// storeFiles upserts changed files with their symbols and removes files that
// no longer exist. Unchanged files keep their stored symbols.
func (idx *Indexer) storeFiles(ctx context.Context, tx storage.Tx, project *storage.Project,
	files []*sourceFile, stats *Statistics) error {

	existing, err := tx.ListFiles(ctx, project.ID)
	if err != nil {
		return err
	}
	stale := make(map[string]*storage.File, len(existing))
	for _, f := range existing {
		stale[f.FilePath] = f
	}

	for _, f := range files {
		if f.failed != nil {
			continue
		}
		prev, known := stale[f.relPath]
		delete(stale, f.relPath)

		if known && prev.ContentHash == f.hash {
			stats.FilesSkipped++
			continue
		}

		record := &storage.File{
			ProjectID:   project.ID,
			FilePath:    f.relPath,
			PackageName: f.pkg,
			ContentHash: f.hash,
			ModTime:     f.modTime,
			SizeBytes:   f.size,
		}
		if f.parseErr != "" {
			record.ParseError = &f.parseErr
		}
		if err := tx.UpsertFile(ctx, record); err != nil {
			return err
		}
		if err := tx.DeleteSymbolsByFile(ctx, record.ID); err != nil {
			return fmt.Errorf("failed to delete old symbols: %w", err)
		}
		for _, sym := range f.symbols {
			if err := tx.UpsertSymbol(ctx, storage.FromTypesSymbol(sym, record.ID)); err != nil {
				return err
			}
		}
		stats.FilesIndexed++
	}

	for path, f := range stale {
		if err := tx.DeleteFile(ctx, f.ID); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
		stats.FilesRemoved++
	}
	return nil
}

func toResolvedDoc(projectID int64, doc *assembler.ElementDoc) *storage.ResolvedDoc {
	rd := &storage.ResolvedDoc{
		ProjectID:   projectID,
		SymbolKey:   doc.Element.ID,
		Summary:     doc.Summary,
		Body:        doc.Body,
		Inherited:   doc.Inherited(),
		Diagnostics: countDiagnostics(doc),
	}
	if doc.Overrides != nil {
		rd.SourceKey = doc.Overrides.ID
	}
	for _, tag := range doc.Tags {
		rd.Tags = append(rd.Tags, storage.ResolvedTag{Name: tag.Name, Argument: tag.Argument, Content: tag.Content})
	}
	return rd
}

// getOrCreateProject retrieves an existing project or creates a new one
func getOrCreateProject(ctx context.Context, store storage.Storage, rootPath string, files []*sourceFile) (*storage.Project, error) {
	project, err := store.GetProject(ctx, rootPath)
	if err == nil {
		return project, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	project = &storage.Project{
		RootPath:     rootPath,
		IndexVersion: storage.CurrentSchemaVersion,
	}

	if module, err := parseGoModule(filepath.Join(rootPath, "go.mod")); err == nil {
		project.ModuleName = module
	} else if len(files) == 1 && isModelFile(rootPath) {
		project.ModuleName = files[0].pkg
	}

	if err := store.CreateProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// parseGoModule extracts the module path from a go.mod file
func parseGoModule(goModPath string) (string, error) {
	content, err := os.ReadFile(goModPath)
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "module ") {
			return strings.Trim(strings.TrimSpace(strings.TrimPrefix(line, "module")), `"`), nil
		}
	}
	return "", fmt.Errorf("%s: no module directive", goModPath)
}

// LoadModel rebuilds the element model of an indexed project from storage
func (idx *Indexer) LoadModel(ctx context.Context, projectID int64, structural bool) (*model.Model, []string, error) {
	stored, err := idx.storage.ListSymbols(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load symbols: %w", err)
	}
	symbols := make([]types.Symbol, len(stored))
	for i, s := range stored {
		symbols[i] = s.ToTypesSymbol()
	}
	symbols, dropped := dedupe(symbols)

	var opts []model.Option
	if structural {
		opts = append(opts, model.WithStructuralInterfaces())
	}
	m, warnings, err := model.Build(symbols, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build model: %w", err)
	}
	return m, append(dropped, warnings...), nil
}

// Expander returns an expander configured like the one used for indexing
func (idx *Indexer) Expander(format string, reporter diagnostics.Reporter) (*assembler.Expander, error) {
	renderer, err := assembler.RendererFor(format, assembler.WithRawHTML(idx.rawHTML))
	if err != nil {
		return nil, err
	}
	return assembler.NewExpander(resolver.New(idx.handlers), assembler.New(renderer), reporter), nil
}
