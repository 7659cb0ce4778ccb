package types

// DiagnosticReason explains why a search produced no content
type DiagnosticReason string

const (
	ReasonNone           DiagnosticReason = ""
	ReasonNotInheritable DiagnosticReason = "not_inheritable"
	ReasonNotFound       DiagnosticReason = "not_found"
)

// HandlerDescriptor describes the handler registered for a tag name
type HandlerDescriptor struct {
	Name        string
	Inheritable bool
}

// SearchRequest asks for documentation inherited by Origin
type SearchRequest struct {
	Origin *Element

	// HolderTag names the block tag holding the marker. Empty means the
	// main description is being resolved.
	HolderTag string

	// TagArgument narrows block tag matching to tags with this argument
	TagArgument string

	// ParamPosition is the 1-based position of the parameter a @param
	// holder documents, 0 when unknown. Candidates that name their
	// parameters are matched by position instead of by TagArgument.
	ParamPosition int

	FirstSentence bool

	// Handler owns HolderTag; nil skips the capability check
	Handler *HandlerDescriptor
}

// SearchResult is the outcome of a resolution
type SearchResult struct {
	Found   bool
	Source  *Element // Ancestor that supplied Content
	Content string
	Reason  DiagnosticReason

	// Inspected counts the candidates examined before the walk stopped
	Inspected int
}

// HasDiagnostic reports whether the result carries a reportable reason
func (r SearchResult) HasDiagnostic() bool {
	return !r.Found && r.Reason != ReasonNone
}
