package output

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// TableRenderer is implemented by results that can render as a table.
type TableRenderer interface {
	Headers() []string
	Rows() [][]string
}

// Footered is an optional TableRenderer extension adding a totals line.
type Footered interface {
	Footer() []string
}

// PrintTable writes data as a borderless, left aligned table.
func PrintTable(w io.Writer, data TableRenderer) error {
	table := newTable(w)
	table.SetHeader(data.Headers())
	table.SetAutoFormatHeaders(true)
	table.SetColumnSeparator("")

	if f, ok := data.(Footered); ok {
		if footer := f.Footer(); len(footer) > 0 {
			table.SetFooter(footer)
			table.SetFooterAlignment(tablewriter.ALIGN_LEFT)
		}
	}

	table.AppendBulk(data.Rows())
	table.Render()
	return nil
}

// KeyValues prints "key: value" pairs, one per line.
func KeyValues(w io.Writer, pairs [][2]string) error {
	table := newTable(w)
	table.SetAutoFormatHeaders(false)
	table.SetColumnSeparator(":")

	for _, pair := range pairs {
		table.Append([]string{pair[0], pair[1]})
	}
	table.Render()
	return nil
}

func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	return table
}

// TableData is an ad-hoc TableRenderer.
type TableData struct {
	headers []string
	rows    [][]string
	footer  []string
}

func NewTableData(headers ...string) *TableData {
	return &TableData{headers: headers, rows: make([][]string, 0)}
}

func (t *TableData) AddRow(row ...string)       { t.rows = append(t.rows, row) }
func (t *TableData) SetFooter(footer ...string) { t.footer = footer }
func (t *TableData) Headers() []string          { return t.headers }
func (t *TableData) Rows() [][]string           { return t.rows }
func (t *TableData) Footer() []string           { return t.footer }
