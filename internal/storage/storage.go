package storage

import (
	"context"
	"time"

	"github.com/dshills/inheritdoc/pkg/types"
)

// Storage defines the interface for persisting indexed symbols and their
// resolved documentation
type Storage interface {
	// Project operations
	CreateProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, rootPath string) (*Project, error)
	UpdateProject(ctx context.Context, project *Project) error

	// File operations
	UpsertFile(ctx context.Context, file *File) error
	GetFile(ctx context.Context, projectID int64, filePath string) (*File, error)
	DeleteFile(ctx context.Context, fileID int64) error
	ListFiles(ctx context.Context, projectID int64) ([]*File, error)

	// Symbol operations
	UpsertSymbol(ctx context.Context, symbol *Symbol) error
	GetSymbol(ctx context.Context, projectID int64, key string) (*Symbol, error)
	ListSymbols(ctx context.Context, projectID int64) ([]*Symbol, error)
	DeleteSymbolsByFile(ctx context.Context, fileID int64) error
	SearchSymbols(ctx context.Context, projectID int64, query string, limit int) ([]*Symbol, error)

	// Resolved documentation operations
	UpsertResolvedDoc(ctx context.Context, doc *ResolvedDoc) error
	GetResolvedDoc(ctx context.Context, projectID int64, key string) (*ResolvedDoc, error)
	ListResolvedDocs(ctx context.Context, projectID int64) ([]*ResolvedDoc, error)
	DeleteResolvedDocs(ctx context.Context, projectID int64) error

	// Status operations
	GetStatus(ctx context.Context, projectID int64) (*ProjectStatus, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// Project represents an indexed source tree or model file
type Project struct {
	ID            int64
	RootPath      string
	ModuleName    string
	TotalFiles    int
	TotalSymbols  int
	IndexVersion  string
	LastIndexedAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// File represents a tracked source or model file
type File struct {
	ID            int64
	ProjectID     int64
	FilePath      string // Relative to project root
	PackageName   string
	ContentHash   [32]byte
	ModTime       time.Time
	SizeBytes     int64
	ParseError    *string // Nullable
	LastIndexedAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Symbol is the persisted form of a types.Symbol. SymbolKey holds the
// model ID; ID is the row ID.
type Symbol struct {
	ID          int64
	FileID      int64
	SymbolKey   string
	Name        string
	Kind        string
	PackageName string
	IsInterface bool
	Params      []string
	ParamNames  []string
	Superclass  string
	Interfaces  []string
	Overrides   string
	Enclosing   string
	Embeds      []string
	DocComment  string
	StartLine   int
	StartCol    int
	EndLine     int
	EndCol      int
	CreatedAt   time.Time
}

// ResolvedTag is one block tag of a resolved document
type ResolvedTag struct {
	Name     string `json:"name"`
	Argument string `json:"argument,omitempty"`
	Content  string `json:"content"`
}

// ResolvedDoc is the effective documentation computed for a symbol.
// SourceKey is the provenance: the ancestor whose documentation was
// inherited last, empty when nothing was inherited.
type ResolvedDoc struct {
	ID          int64
	ProjectID   int64
	SymbolKey   string
	Summary     string
	Body        string
	Tags        []ResolvedTag
	SourceKey   string
	Inherited   bool
	Diagnostics int
	ResolvedAt  time.Time
}

// ProjectStatus contains statistics about an indexed project
type ProjectStatus struct {
	Project        *Project
	FilesCount     int
	SymbolsCount   int
	ResolvedCount  int
	InheritedCount int
	IndexSizeMB    float64
	LastIndexedAt  time.Time
	Health         HealthStatus
}

// HealthStatus represents the health of the index
type HealthStatus struct {
	DatabaseAccessible bool
	FTSIndexesBuilt    bool
}

// ToTypesSymbol converts storage Symbol to types.Symbol
func (s *Symbol) ToTypesSymbol() types.Symbol {
	return types.Symbol{
		ID:         s.SymbolKey,
		Name:       s.Name,
		Kind:       types.ElementKind(s.Kind),
		Package:    s.PackageName,
		Interface:  s.IsInterface,
		Params:     s.Params,
		ParamNames: s.ParamNames,
		Superclass: s.Superclass,
		Interfaces: s.Interfaces,
		Overrides:  s.Overrides,
		Enclosing:  s.Enclosing,
		Embeds:     s.Embeds,
		DocComment: s.DocComment,
		Start: types.Position{
			Line:   s.StartLine,
			Column: s.StartCol,
		},
		End: types.Position{
			Line:   s.EndLine,
			Column: s.EndCol,
		},
	}
}

// FromTypesSymbol converts types.Symbol to storage Symbol
func FromTypesSymbol(s types.Symbol, fileID int64) *Symbol {
	return &Symbol{
		FileID:      fileID,
		SymbolKey:   s.ID,
		Name:        s.Name,
		Kind:        string(s.Kind),
		PackageName: s.Package,
		IsInterface: s.Interface,
		Params:      s.Params,
		ParamNames:  s.ParamNames,
		Superclass:  s.Superclass,
		Interfaces:  s.Interfaces,
		Overrides:   s.Overrides,
		Enclosing:   s.Enclosing,
		Embeds:      s.Embeds,
		DocComment:  s.DocComment,
		StartLine:   s.Start.Line,
		StartCol:    s.Start.Column,
		EndLine:     s.End.Line,
		EndCol:      s.End.Column,
	}
}
