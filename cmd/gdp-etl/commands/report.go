package commands

import (
	"io"
	"strconv"

	"gdpetl/internal/gdp"
	"gdpetl/internal/load"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// RenderRows prints the query results as a table with a leading row index.
func RenderRows(w io.Writer, rows []gdp.Record) {
	t := newTable(w)
	t.AppendHeader(table.Row{"", load.CountryColumn, load.GDPColumn})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
	})
	for i, r := range rows {
		t.AppendRow(table.Row{i, r.Country, strconv.FormatFloat(r.Value, 'f', 2, 64)})
	}
	t.AppendFooter(table.Row{"", "rows", len(rows)})
	t.Render()
}
