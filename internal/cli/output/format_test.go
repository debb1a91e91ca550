package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{name: "table", input: "table", want: FormatTable},
		{name: "empty defaults to table", input: "", want: FormatTable},
		{name: "json", input: "json", want: FormatJSON},
		{name: "JSON uppercase", input: "JSON", want: FormatJSON},
		{name: "yaml", input: "yaml", want: FormatYAML},
		{name: "yml alias", input: "yml", want: FormatYAML},
		{name: "whitespace trimmed", input: "  table  ", want: FormatTable},
		{name: "invalid format", input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type report struct {
	OK      bool     `json:"ok" yaml:"ok"`
	Deleted []string `json:"deleted" yaml:"deleted"`
}

func TestPrinterStructuredFormats(t *testing.T) {
	data := report{OK: true, Deleted: []string{"/uploads/a.png"}}

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatJSON, false).Print(data))
	assert.JSONEq(t, `{"ok":true,"deleted":["/uploads/a.png"]}`, buf.String())

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, FormatYAML, false).Print(data))
	assert.Contains(t, buf.String(), "ok: true")
	assert.Contains(t, buf.String(), "- /uploads/a.png")
}

func TestPrinterTableFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatTable, false).Print(report{OK: true}))
	assert.JSONEq(t, `{"ok":true,"deleted":null}`, buf.String())
}

func TestPrinterStatusLines(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, FormatTable, false)

	printer.Success("3 files deleted")
	printer.Warning("1 file failed")
	printer.Error("scan failed")
	printer.Printf("%d orphans\n", 4)

	out := buf.String()
	assert.Contains(t, out, "3 files deleted")
	assert.Contains(t, out, "1 file failed")
	assert.Contains(t, out, "scan failed")
	assert.Contains(t, out, "4 orphans")
	assert.NotContains(t, out, "\033[")
}

func TestPrinterColor(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, FormatTable, true).Success("done")
	assert.Equal(t, "\033[32mdone\033[0m\n", buf.String())
}

func TestPrinterStructuredSuppressesStatus(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, FormatJSON, true)

	printer.Success("done")
	printer.Printf("noise")
	assert.Empty(t, buf.String())
	assert.True(t, printer.Structured())
	assert.Equal(t, FormatJSON, printer.Format())
}
