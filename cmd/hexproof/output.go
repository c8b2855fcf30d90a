package main

import (
	"encoding/json"

	"github.com/jedib0t/go-pretty/v6/table"
)

// render prints v as JSON with --json, otherwise the rows as a table.
func (a *app) render(v any, header table.Row, rows []table.Row) error {
	if a.jsonOut {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	t := table.NewWriter()
	t.SetOutputMirror(a.out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.Render()
	return nil
}

func deref[T any](p *T) any {
	if p == nil {
		return ""
	}
	return *p
}
