package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/inheritdoc/internal/assembler"
	"github.com/dshills/inheritdoc/internal/diagnostics"
	"github.com/dshills/inheritdoc/internal/hierarchy"
	"github.com/dshills/inheritdoc/internal/indexer"
	"github.com/dshills/inheritdoc/internal/storage"
	"github.com/dshills/inheritdoc/pkg/types"
)

var (
	errNotIndexed     = errors.New("project not indexed, run inheritdoc index first")
	errSymbolNotFound = errors.New("symbol not found")
)

// openStorage opens the configured database, creating its directory
func (a *app) openStorage() (*storage.SQLiteStorage, error) {
	if dir := filepath.Dir(a.cfg.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return storage.NewSQLiteStorage(a.cfg.DBPath)
}

func newIndexCmd(a *app) *cobra.Command {
	var includeTests, includeVendor bool

	cmd := &cobra.Command{
		Use:   "index <path>",
		Short: "Parse a project and store its resolved documentation",
		Long: `Parse every Go file under path (or a single .yaml model file), resolve
the inherited documentation of every type and method, and store the result.
Unchanged files are not rewritten on later runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			idx := indexer.New(store, indexer.WithLogger(a.logger), indexer.WithRawHTML(a.cfg.RawHTML))
			stats, err := idx.IndexProject(cmd.Context(), args[0], &indexer.Config{
				Workers:       a.cfg.Workers,
				IncludeTests:  includeTests || a.cfg.IncludeTests,
				IncludeVendor: includeVendor,
				Structural:    a.cfg.Structural,
				Format:        a.cfg.Format,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Files indexed: %d (skipped %d, failed %d, removed %d)\n",
				stats.FilesIndexed, stats.FilesSkipped, stats.FilesFailed, stats.FilesRemoved)
			fmt.Fprintf(out, "Symbols: %d\n", stats.SymbolsExtracted)
			fmt.Fprintf(out, "Inherited: %d of %d\n", stats.Inherited, stats.ElementsResolved)
			fmt.Fprintf(out, "Diagnostics: %d\n", stats.Diagnostics)
			fmt.Fprintf(out, "Duration: %v\n", stats.Duration)
			for _, msg := range stats.ErrorMessages {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", msg)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeTests, "include-tests", false, "Index _test.go files")
	cmd.Flags().BoolVar(&includeVendor, "include-vendor", false, "Index the vendor directory")
	return cmd
}

// lookup opens storage and finds symbol in the indexed project at path
func (a *app) lookup(cmd *cobra.Command, path, symbol string) (*indexer.Indexer, *types.Element, func(), error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := a.openStorage()
	if err != nil {
		return nil, nil, nil, err
	}
	closeStore := func() { _ = store.Close() }

	project, err := store.GetProject(cmd.Context(), root)
	if errors.Is(err, storage.ErrNotFound) {
		closeStore()
		return nil, nil, nil, fmt.Errorf("%s: %w", root, errNotIndexed)
	}
	if err != nil {
		closeStore()
		return nil, nil, nil, err
	}

	idx := indexer.New(store, indexer.WithLogger(a.logger), indexer.WithRawHTML(a.cfg.RawHTML))
	m, _, err := idx.LoadModel(cmd.Context(), project.ID, a.cfg.Structural)
	if err != nil {
		closeStore()
		return nil, nil, nil, err
	}
	e, ok := m.Lookup(symbol)
	if !ok {
		closeStore()
		return nil, nil, nil, fmt.Errorf("%s: %w", symbol, errSymbolNotFound)
	}
	return idx, e, closeStore, nil
}

func newResolveCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "resolve <path> <symbol>",
		Short: "Print the effective documentation of a symbol",
		Long: `Print the documentation of a type or method with inherited content
filled in. The project must have been indexed. Unresolved {@inheritDoc}
markers are reported on stderr.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, e, done, err := a.lookup(cmd, args[0], args[1])
			if err != nil {
				return err
			}
			defer done()

			collector := &diagnostics.Collector{}
			x, err := idx.Expander(a.cfg.Format, diagnostics.Tee(collector, diagnostics.NewLogReporter(a.logger)))
			if err != nil {
				return err
			}
			doc := x.Expand(e)

			if jsonOutput {
				return writeDocJSON(cmd.OutOrStdout(), doc, collector)
			}
			writeDoc(cmd.OutOrStdout(), doc)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	return cmd
}

func writeDoc(w io.Writer, doc *assembler.ElementDoc) {
	fmt.Fprintf(w, "%s\n\n", doc.Element.FlatSignature())
	if doc.Body != "" {
		fmt.Fprintf(w, "%s\n", doc.Body)
	}
	if len(doc.Tags) > 0 {
		fmt.Fprintln(w)
	}
	for _, tag := range doc.Tags {
		parts := []string{"@" + tag.Name}
		if tag.Argument != "" {
			parts = append(parts, tag.Argument)
		}
		if tag.Content != "" {
			parts = append(parts, tag.Content)
		}
		fmt.Fprintln(w, strings.Join(parts, " "))
	}
	if doc.Overrides != nil {
		fmt.Fprintf(w, "\nInherited from %s\n", doc.Overrides.ID)
	}
}

type docJSON struct {
	Symbol      string                `json:"symbol"`
	Signature   string                `json:"signature"`
	Summary     string                `json:"summary"`
	Body        string                `json:"body"`
	Tags        []storage.ResolvedTag `json:"tags"`
	Source      string                `json:"source,omitempty"`
	Diagnostics []string              `json:"diagnostics"`
}

func writeDocJSON(w io.Writer, doc *assembler.ElementDoc, collector *diagnostics.Collector) error {
	out := docJSON{
		Symbol:      doc.Element.ID,
		Signature:   doc.Element.FlatSignature(),
		Summary:     doc.Summary,
		Body:        doc.Body,
		Tags:        []storage.ResolvedTag{},
		Diagnostics: []string{},
	}
	for _, tag := range doc.Tags {
		out.Tags = append(out.Tags, storage.ResolvedTag{Name: tag.Name, Argument: tag.Argument, Content: tag.Content})
	}
	if doc.Overrides != nil {
		out.Source = doc.Overrides.ID
	}
	for _, d := range collector.Diagnostics() {
		out.Diagnostics = append(out.Diagnostics, d.Message())
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func newAncestorsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ancestors <path> <symbol>",
		Short: "List the ancestors of a symbol in inheritance order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, e, done, err := a.lookup(cmd, args[0], args[1])
			if err != nil {
				return err
			}
			defer done()

			out := cmd.OutOrStdout()
			for anc := range hierarchy.Ancestors(e) {
				marker := " "
				if strings.TrimSpace(anc.Comment.Body) != "" {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s\n", marker, anc.ID)
			}
			return nil
		},
	}
}
