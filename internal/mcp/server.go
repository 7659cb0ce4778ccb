package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/dshills/inheritdoc/internal/config"
	"github.com/dshills/inheritdoc/internal/indexer"
	"github.com/dshills/inheritdoc/internal/logging"
	"github.com/dshills/inheritdoc/internal/metrics"
	"github.com/dshills/inheritdoc/internal/model"
	"github.com/dshills/inheritdoc/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "inheritdoc"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// maxCachedModels bounds the number of project models kept in memory
	maxCachedModels = 16
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp     *server.MCPServer
	storage storage.Storage
	indexer *indexer.Indexer
	config  *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics

	lock   indexer.IndexLock
	models *lru.Cache[int64, *cachedModel] // By project ID
}

// cachedModel is a model rebuilt from storage, valid until the project is
// indexed again
type cachedModel struct {
	model     *model.Model
	indexedAt time.Time
}

// NewServer opens the database named by cfg and creates a new MCP server
// instance. logger and m may be nil.
func NewServer(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*Server, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	store, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return newServer(store, cfg, logger, m)
}

func newServer(store storage.Storage, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*Server, error) {
	logger = logging.OrNop(logger)

	models, err := lru.New[int64, *cachedModel](maxCachedModels)
	if err != nil {
		return nil, fmt.Errorf("failed to create model cache: %w", err)
	}

	opts := []indexer.Option{indexer.WithLogger(logger), indexer.WithRawHTML(cfg.RawHTML)}
	if m != nil {
		opts = append(opts, indexer.WithMetrics(m))
	}

	s := &Server{
		mcp:     server.NewMCPServer(ServerName, ServerVersion, server.WithToolCapabilities(false)),
		storage: store,
		indexer: indexer.New(store, opts...),
		config:  cfg,
		logger:  logger,
		metrics: m,
		models:  models,
	}
	s.registerTools()
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.storage.Close() }()
	s.logger.Info("serving MCP on stdio", zap.String("db", s.config.DBPath))
	return server.ServeStdio(s.mcp)
}

// Close releases the storage without serving
func (s *Server) Close() error {
	return s.storage.Close()
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(indexProjectTool(), s.handleIndexProject)
	s.mcp.AddTool(resolveDocTool(), s.handleResolveDoc)
	s.mcp.AddTool(listAncestorsTool(), s.handleListAncestors)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}

// projectModel returns the model of project, rebuilding it from storage when
// the project was indexed since the cached copy was made
func (s *Server) projectModel(ctx context.Context, project *storage.Project) (*model.Model, error) {
	cached, ok := s.models.Get(project.ID)
	if ok && cached.indexedAt.Equal(project.LastIndexedAt) {
		return cached.model, nil
	}

	m, warnings, err := s.indexer.LoadModel(ctx, project.ID, s.config.Structural)
	if err != nil {
		return nil, err
	}
	if len(warnings) > 0 {
		s.logger.Debug("model rebuilt with warnings",
			zap.String("project", project.RootPath),
			zap.Int("warnings", len(warnings)))
	}

	s.models.Add(project.ID, &cachedModel{model: m, indexedAt: project.LastIndexedAt})
	return m, nil
}

func (s *Server) invalidate(projectID int64) {
	s.models.Remove(projectID)
}
