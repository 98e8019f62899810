package cli

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// table is an ad-hoc table of string cells.
type table struct {
	headers []string
	rows    [][]string
}

func newTable(headers ...string) *table {
	return &table{headers: headers, rows: make([][]string, 0)}
}

func (t *table) addRow(row ...string) {
	t.rows = append(t.rows, row)
}

// render writes the table without borders, columns separated by two spaces.
func (t *table) render(w io.Writer) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(t.headers)

	tw.SetAutoWrapText(false)
	tw.SetAutoFormatHeaders(true)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetCenterSeparator("")
	tw.SetColumnSeparator("")
	tw.SetRowSeparator("")
	tw.SetHeaderLine(false)
	tw.SetBorder(false)
	tw.SetTablePadding("  ")
	tw.SetNoWhiteSpace(true)

	tw.AppendBulk(t.rows)
	tw.Render()
}
