// internal/view/table.go
package view

import (
	"strings"

	"github.com/solatis/ambrosia/internal/binding"
	"github.com/solatis/ambrosia/internal/decision"
	"github.com/solatis/ambrosia/internal/property"
)

// Column is one table column.
type Column struct {
	Header string
	Cell   Node
}

// Table renders one row per element of Rows, bound to As. Cells are
// collected first; a row whose cells all render empty is omitted, and a
// table without rows renders nothing.
type Table struct {
	When    *decision.Decision
	Rows    *property.Path
	As      string
	Columns []Column
}

func (n *Table) Render(r *Renderer, ctx *binding.Context, focus any) error {
	if ok, err := r.gate(ctx, n.When, focus); err != nil || !ok {
		return err
	}

	var body strings.Builder
	rows := 0
	err := forEach(r, ctx, n.Rows, n.As, focus, func() error {
		cells := make([]string, len(n.Columns))
		empty := true
		for i, col := range n.Columns {
			if col.Cell == nil {
				continue
			}
			s, err := ctx.Collect(func() error { return col.Cell.Render(r, ctx, focus) })
			if err != nil {
				return err
			}
			cells[i] = s
			if strings.TrimSpace(s) != "" {
				empty = false
			}
		}
		if empty {
			return nil
		}
		rows++
		body.WriteString("<tr>")
		for _, c := range cells {
			body.WriteString("<td>" + c + "</td>")
		}
		body.WriteString("</tr>")
		return nil
	})
	if err != nil || rows == 0 {
		return err
	}

	var b strings.Builder
	b.WriteString(`<table id="` + ctx.UniqueID("") + `"><thead><tr>`)
	for _, col := range n.Columns {
		b.WriteString("<th>" + escape(col.Header) + "</th>")
	}
	b.WriteString("</tr></thead><tbody>")
	b.WriteString(body.String())
	b.WriteString("</tbody></table>")
	return write(ctx, b.String())
}
