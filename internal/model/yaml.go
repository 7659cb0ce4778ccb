package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/inheritdoc/pkg/types"
)

// ErrEmptyModel is returned when a model document declares no symbols
var ErrEmptyModel = errors.New("model declares no symbols")

// Document is the on-disk form of a symbol model
type Document struct {
	Package string         `yaml:"package"`
	Symbols []types.Symbol `yaml:"symbols"`
}

// LoadYAML reads and validates a YAML model file
func LoadYAML(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}
	doc, err := DecodeYAML(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i := range doc.Symbols {
		doc.Symbols[i].File = path
	}
	return doc, nil
}

// DecodeYAML decodes a model document. Unknown fields are rejected and
// symbols without a package inherit the document's.
func DecodeYAML(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyModel
		}
		return nil, fmt.Errorf("failed to decode model: %w", err)
	}
	if len(doc.Symbols) == 0 {
		return nil, ErrEmptyModel
	}

	for i := range doc.Symbols {
		sym := &doc.Symbols[i]
		if sym.Package == "" {
			sym.Package = doc.Package
		}
		if err := sym.Validate(); err != nil {
			return nil, fmt.Errorf("symbol %d: %w", i, err)
		}
	}
	return &doc, nil
}
