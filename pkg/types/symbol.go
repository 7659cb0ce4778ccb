package types

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Symbol is the flat declaration record produced by parsers and loaders and
// persisted by storage. References to other symbols are IDs or, for Go
// embeddings, unresolved names; the model builder links them into Elements.
type Symbol struct {
	// Identification
	ID      string      `yaml:"id" validate:"required"`
	Name    string      `yaml:"name" validate:"required"`
	Kind    ElementKind `yaml:"kind" validate:"required,oneof=type method"`
	Package string      `yaml:"package,omitempty"`

	Interface bool     `yaml:"interface,omitempty"`
	Params    []string `yaml:"params,omitempty"`

	// ParamNames parallels Params; entries are empty for unnamed parameters
	ParamNames []string `yaml:"param_names,omitempty"`

	// Explicit hierarchy references (symbol IDs)
	Superclass string   `yaml:"superclass,omitempty"`
	Interfaces []string `yaml:"interfaces,omitempty" validate:"dive,required"`
	Overrides  string   `yaml:"overrides,omitempty"`
	Enclosing  string   `yaml:"enclosing,omitempty"`

	// Embeds lists embedded type names in declaration order (Go sources).
	// The builder classifies them into superclass and interfaces.
	Embeds []string `yaml:"embeds,omitempty" validate:"dive,required"`

	DocComment string `yaml:"doc,omitempty"`

	// Location
	File  string   `yaml:"file,omitempty"`
	Start Position `yaml:"-"`
	End   Position `yaml:"-"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func symbolValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate performs comprehensive validation of the symbol
func (s *Symbol) Validate() error {
	if err := symbolValidator().Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("symbol %q: field %s failed %q: %w", s.ID, verrs[0].Field(), verrs[0].Tag(), ErrInvalidSymbol)
		}
		return fmt.Errorf("symbol %q: %w", s.ID, err)
	}

	// Methods must belong to a type
	if s.Kind == KindMethod && s.Enclosing == "" {
		return fmt.Errorf("symbol %q: methods must have an enclosing type: %w", s.ID, ErrInvalidSymbol)
	}

	// Only methods override or are enclosed
	if s.Kind == KindType && (s.Overrides != "" || s.Enclosing != "") {
		return fmt.Errorf("symbol %q: only methods can override or be enclosed: %w", s.ID, ErrInvalidSymbol)
	}

	if s.Kind == KindMethod && (s.Superclass != "" || len(s.Interfaces) > 0 || len(s.Embeds) > 0) {
		return fmt.Errorf("symbol %q: methods cannot have supertypes: %w", s.ID, ErrInvalidSymbol)
	}

	if len(s.ParamNames) > 0 && len(s.ParamNames) != len(s.Params) {
		return fmt.Errorf("symbol %q: %d parameter names for %d parameters: %w", s.ID, len(s.ParamNames), len(s.Params), ErrInvalidSymbol)
	}

	if s.Start.Line < 0 || s.End.Line < s.Start.Line {
		return fmt.Errorf("symbol %q: invalid position: %w", s.ID, ErrInvalidSymbol)
	}

	return nil
}
