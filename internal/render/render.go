// Package render turns a cut-sheet result into downloadable artifacts:
// flat CSV, a styled workbook, or a copy of a fixed-layout template with
// the report filled in. Every renderer builds the whole artifact in memory
// and returns nothing on error.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ignite/cutsheet/internal/cutsheet"
)

// Format is an output artifact type.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatXLSX     Format = "xlsx"
	FormatTemplate Format = "xlsx-template"
)

var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat accepts a format name; "" means CSV.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "xlsx_flat", "xlsx-flat":
		return FormatXLSX, nil
	case "xlsx-template", "xlsx_template", "template":
		return FormatTemplate, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Ext is the file extension without the dot.
func (f Format) Ext() string {
	if f == FormatCSV {
		return "csv"
	}
	return "xlsx"
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Options controls presentation only; nothing here changes the numbers.
type Options struct {
	Format Format
	// Zeros is how empty quantity cells print. Empty means the format
	// default: zeros in CSV, blanks in workbooks.
	Zeros cutsheet.ZeroDisplay
	// OrderRangeRow writes the order range as a leading CSV row.
	OrderRangeRow  bool
	SingleSheet    bool
	Shading        bool
	MaxColumnWidth float64
	SaleDate       time.Time
	Layout         TemplateLayout
}

// DefaultOptions renders CSV with the order range on the first line.
func DefaultOptions() Options {
	return Options{
		Format:         FormatCSV,
		OrderRangeRow:  true,
		MaxColumnWidth: 40,
		Layout:         DefaultLayout(),
	}
}

func (o Options) zeros() cutsheet.ZeroDisplay {
	if o.Zeros != "" {
		return o.Zeros
	}
	if o.Format == FormatCSV {
		return cutsheet.ZeroShow
	}
	return cutsheet.ZeroBlank
}

// Render produces the artifact for opts.Format. tmpl is read only for
// FormatTemplate.
func Render(res *cutsheet.Result, opts Options, tmpl io.Reader) ([]byte, error) {
	switch opts.Format {
	case FormatCSV, "":
		return CSV(res, opts)
	case FormatXLSX:
		return XLSX(res, opts)
	case FormatTemplate:
		if tmpl == nil {
			return nil, fmt.Errorf("%w: no template supplied", ErrTemplateMismatch)
		}
		date := opts.SaleDate
		if date.IsZero() {
			date = time.Now()
		}
		return Template(res, tmpl, opts.Layout, date)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
}
