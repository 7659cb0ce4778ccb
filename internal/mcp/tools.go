package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/dshills/inheritdoc/internal/assembler"
	"github.com/dshills/inheritdoc/internal/diagnostics"
	"github.com/dshills/inheritdoc/internal/hierarchy"
	"github.com/dshills/inheritdoc/internal/indexer"
	"github.com/dshills/inheritdoc/internal/storage"
	"github.com/dshills/inheritdoc/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams      = -32602 // Invalid method parameters
	ErrorCodeInternalError      = -32603 // Internal JSON-RPC error
	ErrorCodeProjectNotFound    = -32001 // Specified path does not contain a Go project
	ErrorCodeIndexingInProgress = -32002 // Another indexing operation is already running
	ErrorCodeNotIndexed         = -32003 // Project not indexed
	ErrorCodeSymbolNotFound     = -32004 // No type or method with the given ID
)

// maxReportedErrors caps per-file error messages in tool responses
const maxReportedErrors = 5

// handleIndexProject handles the index_project tool invocation
func (s *Server) handleIndexProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, err := requirePath(args)
	if err != nil {
		return nil, err
	}
	if err := validateProjectPath(path); err != nil {
		code := ErrorCodeInvalidParams
		if errors.Is(err, ErrNoGoFiles) {
			code = ErrorCodeProjectNotFound
		}
		return nil, newMCPError(code, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	format, err := formatArg(args, s.config.Format)
	if err != nil {
		return nil, err
	}

	if !s.lock.TryAcquire(path) {
		return nil, newMCPError(ErrorCodeIndexingInProgress, "indexing already in progress", map[string]interface{}{
			"path": path,
		})
	}
	defer s.lock.Release(path)

	config := &indexer.Config{
		Workers:       s.config.Workers,
		IncludeTests:  getBoolDefault(args, "include_tests", s.config.IncludeTests),
		IncludeVendor: getBoolDefault(args, "include_vendor", false),
		Structural:    s.config.Structural,
		Format:        format,
	}

	stats, err := s.indexer.IndexProject(ctx, path, config)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "indexing failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if project, err := s.storage.GetProject(ctx, path); err == nil {
		s.invalidate(project.ID)
	}

	response := map[string]interface{}{
		"indexed":           true,
		"files_indexed":     stats.FilesIndexed,
		"files_skipped":     stats.FilesSkipped,
		"files_failed":      stats.FilesFailed,
		"files_removed":     stats.FilesRemoved,
		"symbols_extracted": stats.SymbolsExtracted,
		"elements_resolved": stats.ElementsResolved,
		"inherited":         stats.Inherited,
		"diagnostics":       stats.Diagnostics,
		"warnings":          len(stats.Warnings),
		"duration_ms":       stats.Duration.Milliseconds(),
	}

	if errorCount := len(stats.ErrorMessages); errorCount > 0 {
		if errorCount > maxReportedErrors {
			response["errors"] = stats.ErrorMessages[:maxReportedErrors]
			response["error_count"] = errorCount
		} else {
			response["errors"] = stats.ErrorMessages
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleResolveDoc handles the resolve_doc tool invocation
func (s *Server) handleResolveDoc(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	format, err := formatArg(args, s.config.Format)
	if err != nil {
		return nil, err
	}
	project, e, err := s.lookupSymbol(ctx, args)
	if err != nil {
		return nil, err
	}

	collector := &diagnostics.Collector{}
	x, err := s.indexer.Expander(format, diagnostics.Tee(collector, diagnostics.NewLogReporter(s.logger)))
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to create expander", map[string]interface{}{
			"error": err.Error(),
		})
	}
	doc := x.Expand(e)

	tags := make([]map[string]interface{}, 0, len(doc.Tags))
	for _, tag := range doc.Tags {
		t := map[string]interface{}{"name": tag.Name, "content": tag.Content}
		if tag.Argument != "" {
			t["argument"] = tag.Argument
		}
		tags = append(tags, t)
	}

	resolutions := make([]map[string]interface{}, 0, len(doc.Resolutions))
	for _, r := range doc.Resolutions {
		if s.metrics != nil {
			s.metrics.RecordResolution(r.Result)
		}
		entry := map[string]interface{}{
			"implicit":  r.Implicit,
			"found":     r.Result.Found,
			"inspected": r.Result.Inspected,
		}
		if r.Tag != "" {
			entry["tag"] = r.Tag
		}
		if r.Argument != "" {
			entry["argument"] = r.Argument
		}
		if r.Result.Source != nil {
			entry["source"] = r.Result.Source.ID
		}
		if r.Result.Reason != types.ReasonNone {
			entry["reason"] = string(r.Result.Reason)
		}
		resolutions = append(resolutions, entry)
	}

	messages := make([]string, 0, collector.Len())
	for _, d := range collector.Diagnostics() {
		messages = append(messages, d.Message())
	}

	response := map[string]interface{}{
		"project":     project.RootPath,
		"symbol":      e.ID,
		"kind":        string(e.Kind),
		"signature":   e.FlatSignature(),
		"summary":     doc.Summary,
		"body":        doc.Body,
		"tags":        tags,
		"inherited":   doc.Inherited(),
		"resolutions": resolutions,
		"diagnostics": messages,
	}
	if doc.Overrides != nil {
		response["source"] = doc.Overrides.ID
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListAncestors handles the list_ancestors tool invocation
func (s *Server) handleListAncestors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	_, e, err := s.lookupSymbol(ctx, args)
	if err != nil {
		return nil, err
	}

	ancestors := []map[string]interface{}{}
	for a := range hierarchy.Ancestors(e) {
		ancestors = append(ancestors, map[string]interface{}{
			"symbol":     a.ID,
			"kind":       string(a.Kind),
			"documented": strings.TrimSpace(a.Comment.Body) != "",
		})
	}

	response := map[string]interface{}{
		"symbol":    e.ID,
		"ancestors": ancestors,
	}
	if e.Overrides != nil {
		response["overrides"] = e.Overrides.ID
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, err := requirePath(args)
	if err != nil {
		return nil, err
	}

	project, err := s.storage.GetProject(ctx, path)
	if errors.Is(err, storage.ErrNotFound) {
		response := map[string]interface{}{
			"indexed": false,
			"path":    path,
			"message": "Project not indexed. Use index_project tool to index this project.",
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get project status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	status, err := s.storage.GetStatus(ctx, project.ID)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"indexed": true,
		"project": map[string]interface{}{
			"path":            project.RootPath,
			"module_name":     project.ModuleName,
			"index_version":   project.IndexVersion,
			"last_indexed_at": project.LastIndexedAt.Format("2006-01-02T15:04:05Z07:00"),
		},
		"statistics": map[string]interface{}{
			"files_count":     status.FilesCount,
			"symbols_count":   status.SymbolsCount,
			"resolved_count":  status.ResolvedCount,
			"inherited_count": status.InheritedCount,
			"index_size_mb":   fmt.Sprintf("%.2f", status.IndexSizeMB),
		},
		"health": map[string]interface{}{
			"database_accessible": status.Health.DatabaseAccessible,
			"fts_indexes_built":   status.Health.FTSIndexesBuilt,
		},
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// lookupSymbol resolves the path and symbol arguments to an indexed project
// and an element of its model
func (s *Server) lookupSymbol(ctx context.Context, args map[string]interface{}) (*storage.Project, *types.Element, error) {
	path, err := requirePath(args)
	if err != nil {
		return nil, nil, err
	}
	symbol, ok := args["symbol"].(string)
	if !ok || symbol == "" {
		return nil, nil, newMCPError(ErrorCodeInvalidParams, "symbol parameter is required", map[string]interface{}{
			"param":  "symbol",
			"reason": "missing or empty",
		})
	}

	project, err := s.storage.GetProject(ctx, path)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, newMCPError(ErrorCodeNotIndexed, "project not indexed", map[string]interface{}{
			"path": path,
		})
	}
	if err != nil {
		return nil, nil, newMCPError(ErrorCodeInternalError, "failed to get project", map[string]interface{}{
			"error": err.Error(),
		})
	}

	m, err := s.projectModel(ctx, project)
	if err != nil {
		return nil, nil, newMCPError(ErrorCodeInternalError, "failed to load model", map[string]interface{}{
			"error": err.Error(),
		})
	}

	e, ok := m.Lookup(symbol)
	if !ok {
		return nil, nil, newMCPError(ErrorCodeSymbolNotFound, "symbol not found", map[string]interface{}{
			"symbol":      symbol,
			"suggestions": s.suggest(ctx, project.ID, symbol),
		})
	}
	return project, e, nil
}

// suggest returns IDs of indexed symbols resembling symbol
func (s *Server) suggest(ctx context.Context, projectID int64, symbol string) []string {
	name := symbol
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	matches, err := s.storage.SearchSymbols(ctx, projectID, name, maxReportedErrors)
	if err != nil {
		s.logger.Debug("symbol search failed", zap.String("query", name), zap.Error(err))
		return []string{}
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.SymbolKey)
	}
	return out
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// requirePath extracts the absolute path argument
func requirePath(args map[string]interface{}) (string, error) {
	path, ok := args["path"].(string)
	if !ok || path == "" {
		return "", newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}
	if !filepath.IsAbs(path) {
		return "", newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": ErrPathNotAbsolute.Error(),
		})
	}
	return filepath.Clean(path), nil
}

func formatArg(args map[string]interface{}, defaultFormat string) (string, error) {
	format := getStringDefault(args, "format", defaultFormat)
	if _, err := assembler.RendererFor(format); err != nil {
		return "", newMCPError(ErrorCodeInvalidParams, "invalid format", map[string]interface{}{
			"param":   "format",
			"value":   format,
			"allowed": []string{"text", "plain", "html", "markdown"},
		})
	}
	return format, nil
}

// validateProjectPath checks that path is a readable directory holding Go
// files, or a YAML model file
func validateProjectPath(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}

	if !info.IsDir() {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			return nil
		}
		return ErrUnsupportedFile
	}

	f, err := os.Open(path)
	if err != nil {
		return ErrPathNotReadable
	}
	_ = f.Close()

	hasGoFiles := false
	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(p, ".go") {
			hasGoFiles = true
			return fs.SkipAll
		}
		return nil
	})

	if !hasGoFiles {
		return ErrNoGoFiles
	}
	return nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok && val != "" {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrUnsupportedFile = errors.New("path is neither a directory nor a YAML model")
	ErrNoGoFiles       = errors.New("directory does not contain Go files")
)
