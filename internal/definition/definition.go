// Package definition holds the YAML form of decisions and views.
//
// Documents are wire-agnostic descriptions; decision.Compile and
// view.Compile validate them and build the immutable runtime trees.
package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Decision describes one decision node. Exactly one of the kind fields
// (All, Any, Truthy, Compare, HasValue, PastDate, Delegate, Ref) is set.
type Decision struct {
	All      []Decision `yaml:"all,omitempty"`
	Any      []Decision `yaml:"any,omitempty"`
	Truthy   string     `yaml:"truthy,omitempty"`
	Compare  string     `yaml:"compare,omitempty"`
	With     string     `yaml:"with,omitempty"` // other path for Compare
	In       []string   `yaml:"in,omitempty"`   // constants for Compare
	HasValue string     `yaml:"has_value,omitempty"`
	PastDate string     `yaml:"past_date,omitempty"`
	Delegate string     `yaml:"delegate,omitempty"`
	Ref      string     `yaml:"ref,omitempty"` // named decision of the document
	Missing  []string   `yaml:"missing,omitempty"`
	Not      bool       `yaml:"not,omitempty"`
}

// View describes one view node.
type View struct {
	Kind     string            `yaml:"kind"`
	When     *Decision         `yaml:"when,omitempty"`
	Text     string            `yaml:"text,omitempty"`
	Path     string            `yaml:"path,omitempty"`
	Default  string            `yaml:"default,omitempty"`
	Fallback string            `yaml:"fallback,omitempty"`
	Combine  string            `yaml:"combine,omitempty"`
	Aux      []string          `yaml:"aux,omitempty"`
	Missing  []string          `yaml:"missing,omitempty"`
	Tag      string            `yaml:"tag,omitempty"`
	Attrs    map[string]string `yaml:"attrs,omitempty"`
	As       string            `yaml:"as,omitempty"` // Each binding name
	Label    string            `yaml:"label,omitempty"`
	Strict   bool              `yaml:"strict,omitempty"` // rich: strip all markup
	Columns  []Column          `yaml:"columns,omitempty"`
	Children []View            `yaml:"children,omitempty"`
}

// Column is one table column.
type Column struct {
	Header string `yaml:"header"`
	Cell   View   `yaml:"cell"`
}

// Document is a file of named decisions and views.
type Document struct {
	Decisions map[string]Decision `yaml:"decisions,omitempty"`
	Views     map[string]View     `yaml:"views,omitempty"`
}

// Parse decodes a document. Unknown fields are rejected.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse definition: %w", err)
	}
	return &doc, nil
}

// Load reads and decodes a document file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
