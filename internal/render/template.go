package render

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ignite/cutsheet/internal/cutsheet"
)

var ErrTemplateMismatch = errors.New("template does not match expected layout")

// TemplateMismatchError lists what the template was missing.
type TemplateMismatchError struct {
	Sheet   string
	Missing []string
}

func (e *TemplateMismatchError) Error() string {
	return fmt.Sprintf("%v: sheet %q missing %s", ErrTemplateMismatch, e.Sheet, strings.Join(e.Missing, ", "))
}

func (e *TemplateMismatchError) Unwrap() error { return ErrTemplateMismatch }

// TemplateLayout pins where a fixed-layout template expects its content.
// DateCell and OrderRangeCell must each be the top-left cell of a merged
// region.
type TemplateLayout struct {
	Sheet          string `yaml:"sheet"`
	DateCell       string `yaml:"date_cell"`
	OrderRangeCell string `yaml:"order_range_cell"`
	HeaderRow      int    `yaml:"header_row"`
	DateFormat     string `yaml:"date_format"`
}

// DefaultLayout matches the warehouse cut-sheet template: labels merged
// across the top two rows, table header on row 4.
func DefaultLayout() TemplateLayout {
	return TemplateLayout{
		DateCell:       "A1",
		OrderRangeCell: "A2",
		HeaderRow:      4,
		DateFormat:     "01/02/2006",
	}
}

// Template fills a copy of the template read from tmpl. Zero quantity
// cells are left untouched so the template's own formatting shows through.
// The bundle table follows the main table after one blank row.
func Template(res *cutsheet.Result, tmpl io.Reader, layout TemplateLayout, saleDate time.Time) ([]byte, error) {
	f, err := excelize.OpenReader(tmpl)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", ErrTemplateMismatch, err)
	}
	defer f.Close()

	sheet, err := checkLayout(f, layout)
	if err != nil {
		return nil, err
	}

	dateFormat := layout.DateFormat
	if dateFormat == "" {
		dateFormat = DefaultLayout().DateFormat
	}
	if err := f.SetCellValue(sheet, layout.DateCell, "Date of Sale: "+saleDate.Format(dateFormat)); err != nil {
		return nil, err
	}
	rangeLabel := "Order Range: n/a"
	if res.OrderRange != nil {
		rangeLabel = res.OrderRangeLabel()
	}
	if err := f.SetCellValue(sheet, layout.OrderRangeCell, rangeLabel); err != nil {
		return nil, err
	}

	row := layout.HeaderRow
	if row < 1 {
		row = DefaultLayout().HeaderRow
	}
	for i, rep := range res.Reports() {
		if i > 0 {
			row++
		}
		if row, err = fillTable(f, sheet, row, rep); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func checkLayout(f *excelize.File, layout TemplateLayout) (string, error) {
	sheet := layout.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return "", &TemplateMismatchError{Sheet: sheet, Missing: []string{"sheet"}}
	}

	merged, err := f.GetMergeCells(sheet)
	if err != nil {
		return "", fmt.Errorf("%w: read merged cells: %v", ErrTemplateMismatch, err)
	}
	anchors := make(map[string]bool, len(merged))
	for _, mc := range merged {
		anchors[strings.ToUpper(mc.GetStartAxis())] = true
	}

	var missing []string
	for _, cell := range []string{layout.DateCell, layout.OrderRangeCell} {
		if cell == "" || !anchors[strings.ToUpper(cell)] {
			missing = append(missing, "merged region at "+cell)
		}
	}
	if len(missing) > 0 {
		return "", &TemplateMismatchError{Sheet: sheet, Missing: missing}
	}
	return sheet, nil
}

func fillTable(f *excelize.File, sheet string, row int, rep *cutsheet.Report) (int, error) {
	for col, name := range rep.Columns() {
		if err := setCell(f, sheet, col+1, row, name); err != nil {
			return 0, err
		}
	}
	row++
	for _, r := range rep.Rows {
		for col, v := range rep.Values(r, cutsheet.ZeroBlank) {
			if v == nil {
				continue
			}
			if err := setCell(f, sheet, col+1, row, v); err != nil {
				return 0, err
			}
		}
		row++
	}
	return row, nil
}

func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, v)
}
