// internal/view/compile.go
package view

import (
	"fmt"
	"regexp"

	"github.com/solatis/ambrosia/internal/decision"
	"github.com/solatis/ambrosia/internal/definition"
	"github.com/solatis/ambrosia/internal/property"
	"github.com/solatis/ambrosia/internal/types"
)

var tagName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*$`)

// Compile builds a node tree from def. Gates compile through c.
func Compile(def *definition.View, c *decision.Compiler) (Node, error) {
	if c == nil {
		c = decision.NewCompiler(nil, nil)
	}
	return compileNode(def, c)
}

// CompileDocument compiles the named view of doc, resolving decision refs
// against the document's named decisions. opts configure the compiler shared
// by the view's paths and gates.
func CompileDocument(doc *definition.Document, name string, reg *decision.Registry, opts ...decision.CompilerOption) (Node, error) {
	def, ok := doc.Views[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown view %q", types.ErrInvalidView, name)
	}
	return Compile(&def, decision.NewCompiler(reg, doc.Decisions, opts...))
}

func compileNode(def *definition.View, c *decision.Compiler) (Node, error) {
	var when *decision.Decision
	if def.When != nil {
		d, err := c.Compile(def.When)
		if err != nil {
			return nil, fmt.Errorf("%s when: %w", def.Kind, err)
		}
		when = d
	}

	switch def.Kind {
	case "text":
		return &Text{When: when, Text: def.Text}, nil

	case "value", "rich":
		p, err := displayPath(def, c)
		if err != nil {
			return nil, err
		}
		if def.Kind == "rich" {
			return &RichValue{When: when, Path: p, Strict: def.Strict}, nil
		}
		return &Value{When: when, Path: p, Default: def.Default}, nil

	case "element":
		if def.Tag == "" {
			return nil, fmt.Errorf("%w: element without tag", types.ErrInvalidView)
		}
		if !tagName.MatchString(def.Tag) {
			return nil, fmt.Errorf("%w: invalid tag name %q", types.ErrInvalidView, def.Tag)
		}
		children, err := compileChildren(def.Children, c)
		if err != nil {
			return nil, err
		}
		return &Element{When: when, Tag: def.Tag, Attrs: def.Attrs, Children: children}, nil

	case "each":
		p, err := requiredPath(def, c)
		if err != nil {
			return nil, err
		}
		if def.As == "" {
			return nil, fmt.Errorf("%w: each without binding name", types.ErrInvalidView)
		}
		children, err := compileChildren(def.Children, c)
		if err != nil {
			return nil, err
		}
		return &Each{When: when, Path: p, As: def.As, Children: children}, nil

	case "table":
		p, err := requiredPath(def, c)
		if err != nil {
			return nil, err
		}
		if def.As == "" || len(def.Columns) == 0 {
			return nil, fmt.Errorf("%w: table needs a binding name and columns", types.ErrInvalidView)
		}
		cols := make([]Column, 0, len(def.Columns))
		for i := range def.Columns {
			cell, err := compileNode(&def.Columns[i].Cell, c)
			if err != nil {
				return nil, err
			}
			cols = append(cols, Column{Header: def.Columns[i].Header, Cell: cell})
		}
		return &Table{When: when, Rows: p, As: def.As, Columns: cols}, nil

	case "input":
		p, err := requiredPath(def, c)
		if err != nil {
			return nil, err
		}
		if len(p.Segments) == 0 {
			return nil, fmt.Errorf("%w: input path %s names no property", types.ErrInvalidView, p)
		}
		return &Input{When: when, Path: p, Label: def.Label, Type: def.Attrs["type"]}, nil

	default:
		return nil, fmt.Errorf("%w: unknown kind %q", types.ErrInvalidView, def.Kind)
	}
}

func compileChildren(defs []definition.View, c *decision.Compiler) ([]Node, error) {
	nodes := make([]Node, 0, len(defs))
	for i := range defs {
		n, err := compileNode(&defs[i], c)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func requiredPath(def *definition.View, c *decision.Compiler) (*property.Path, error) {
	if def.Path == "" {
		return nil, fmt.Errorf("%w: %s without path", types.ErrInvalidView, def.Kind)
	}
	p, err := c.ParsePath(def.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidView, err)
	}
	return p, nil
}

// displayPath parses a path with its display options.
func displayPath(def *definition.View, c *decision.Compiler) (*property.Path, error) {
	if def.Path == "" {
		return nil, fmt.Errorf("%w: %s without path", types.ErrInvalidView, def.Kind)
	}
	var opts []property.Option
	if len(def.Missing) > 0 {
		opts = append(opts, property.WithMissing(def.Missing...))
	}
	if def.Fallback != "" {
		opts = append(opts, property.WithFallback(def.Fallback))
	}
	if def.Combine != "" {
		aux := make([]*property.Path, 0, len(def.Aux))
		for _, s := range def.Aux {
			a, err := c.ParsePath(s)
			if err != nil {
				return nil, fmt.Errorf("%w: aux: %w", types.ErrInvalidView, err)
			}
			aux = append(aux, a)
		}
		opts = append(opts, property.WithCombine(def.Combine, aux...))
	}
	p, err := c.ParsePath(def.Path, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidView, err)
	}
	return p, nil
}
