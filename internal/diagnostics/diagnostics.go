// Package diagnostics carries unresolved-inheritance signals from the
// resolver's callers to whoever reports them.
package diagnostics

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/dshills/inheritdoc/pkg/types"
)

// Diagnostic describes an inheritance marker that could not be resolved
type Diagnostic struct {
	Reason    types.DiagnosticReason
	ElementID string
	Signature string // Flat signature of the originating element
	Tag       string // Holder tag name, empty for the main description
}

// New builds a diagnostic for origin from an unsuccessful result
func New(origin *types.Element, tag string, result types.SearchResult) Diagnostic {
	return Diagnostic{
		Reason:    result.Reason,
		ElementID: origin.ID,
		Signature: origin.FlatSignature(),
		Tag:       tag,
	}
}

// Message formats the diagnostic for humans
func (d Diagnostic) Message() string {
	switch d.Reason {
	case types.ReasonNotInheritable:
		return fmt.Sprintf("@%s does not support {@inheritDoc} in %s", d.Tag, d.Signature)
	default:
		if d.Tag == "" {
			return fmt.Sprintf("{@inheritDoc} used but %s does not override or implement any documented member", d.Signature)
		}
		return fmt.Sprintf("{@inheritDoc} in @%s used but no ancestor of %s documents it", d.Tag, d.Signature)
	}
}

// Reporter receives diagnostics. Implementations must be safe for
// concurrent use: elements are resolved in parallel.
type Reporter interface {
	Report(Diagnostic)
}

// Discard drops every diagnostic
var Discard Reporter = discard{}

type discard struct{}

func (discard) Report(Diagnostic) {}

// LogReporter writes diagnostics as warnings
type LogReporter struct {
	logger *zap.Logger
}

// NewLogReporter creates a reporter backed by logger
func NewLogReporter(logger *zap.Logger) *LogReporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogReporter{logger: logger}
}

// Report logs the diagnostic
func (r *LogReporter) Report(d Diagnostic) {
	r.logger.Warn(d.Message(),
		zap.String("element", d.ElementID),
		zap.String("reason", string(d.Reason)),
		zap.String("tag", d.Tag),
	)
}

// Collector accumulates diagnostics in memory
type Collector struct {
	mu    sync.Mutex
	items []Diagnostic
}

// Report appends the diagnostic
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, d)
}

// Diagnostics returns a copy of everything reported so far
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of diagnostics reported
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Tee fans a diagnostic out to several reporters
func Tee(reporters ...Reporter) Reporter {
	return tee(reporters)
}

type tee []Reporter

func (t tee) Report(d Diagnostic) {
	for _, r := range t {
		r.Report(d)
	}
}
