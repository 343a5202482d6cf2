package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// textTable wraps a go-pretty writer with the rounded style every command
// shares. Rows shorter than the header are padded with empty cells.
type textTable struct {
	tw      table.Writer
	columns int
}

func newTextTable(title string, headers ...string) *textTable {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if title != "" {
		tw.SetTitle(title)
	}
	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)
	return &textTable{tw: tw, columns: len(headers)}
}

// alignRight right-aligns the cells of the given zero-based columns.
func (t *textTable) alignRight(columns ...int) *textTable {
	configs := make([]table.ColumnConfig, 0, len(columns))
	for _, c := range columns {
		configs = append(configs, table.ColumnConfig{Number: c + 1, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}
	t.tw.SetColumnConfigs(configs)
	return t
}

func (t *textTable) rows(rows [][]string) *textTable {
	for _, cells := range rows {
		r := make(table.Row, t.columns)
		for i := 0; i < t.columns && i < len(cells); i++ {
			r[i] = cells[i]
		}
		t.tw.AppendRow(r)
	}
	return t
}

// caption sets a line printed under the table.
func (t *textTable) caption(s string) *textTable {
	t.tw.SetCaption(s)
	return t
}

func (t *textTable) String() string {
	if t.columns == 0 {
		return ""
	}
	return t.tw.Render()
}
