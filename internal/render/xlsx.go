package render

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/ignite/cutsheet/internal/cutsheet"
)

// SingleSheetName is used when both reports share one sheet.
const SingleSheetName = "Cut Sheet"

const minColumnWidth = 8

type sheetStyles struct {
	header int
	shaded int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error
	s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
	})
	if err != nil {
		return s, fmt.Errorf("header style: %w", err)
	}
	s.shaded, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return s, fmt.Errorf("shading style: %w", err)
	}
	return s, nil
}

// XLSX builds a workbook with one sheet per report, or a single sheet
// with the bundle table under the main one. The order range label is an
// extra trailing header cell.
func XLSX(res *cutsheet.Result, opts Options) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}
	first := f.GetSheetName(0)
	reports := res.Reports()

	if opts.SingleSheet {
		if err := f.SetSheetName(first, SingleSheetName); err != nil {
			return nil, err
		}
		sw := newSheetWriter(f, SingleSheetName, styles, opts)
		row := 1
		for i, rep := range reports {
			if i > 0 {
				row++
			}
			if row, err = sw.table(row, rep, res.OrderRangeLabel()); err != nil {
				return nil, err
			}
		}
		if err := sw.fitColumns(); err != nil {
			return nil, err
		}
	} else {
		for i, rep := range reports {
			if i == 0 {
				err = f.SetSheetName(first, rep.Name)
			} else {
				_, err = f.NewSheet(rep.Name)
			}
			if err != nil {
				return nil, fmt.Errorf("sheet %s: %w", rep.Name, err)
			}
			sw := newSheetWriter(f, rep.Name, styles, opts)
			if _, err := sw.table(1, rep, res.OrderRangeLabel()); err != nil {
				return nil, err
			}
			if err := sw.fitColumns(); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type sheetWriter struct {
	f      *excelize.File
	sheet  string
	styles sheetStyles
	opts   Options
	widths []int
}

func newSheetWriter(f *excelize.File, sheet string, styles sheetStyles, opts Options) *sheetWriter {
	return &sheetWriter{f: f, sheet: sheet, styles: styles, opts: opts}
}

func (sw *sheetWriter) measure(cells []string) {
	for i, c := range cells {
		for len(sw.widths) <= i {
			sw.widths = append(sw.widths, 0)
		}
		if n := utf8.RuneCountInString(c); n > sw.widths[i] {
			sw.widths[i] = n
		}
	}
}

// table writes rep starting at row and returns the first free row.
func (sw *sheetWriter) table(row int, rep *cutsheet.Report, rangeLabel string) (int, error) {
	header := rep.Columns()
	if rangeLabel != "" {
		header = append(header, rangeLabel)
	}
	if err := sw.writeRow(row, toAny(header)); err != nil {
		return 0, err
	}
	if err := sw.styleRow(row, len(header), sw.styles.header); err != nil {
		return 0, err
	}
	sw.measure(header)
	row++

	zeros := sw.opts.zeros()
	for i, r := range rep.Rows {
		if err := sw.writeRow(row, rep.Values(r, zeros)); err != nil {
			return 0, err
		}
		if sw.opts.Shading && i%2 == 1 {
			if err := sw.styleRow(row, len(header), sw.styles.shaded); err != nil {
				return 0, err
			}
		}
		sw.measure(rep.Cells(r, zeros))
		row++
	}
	return row, nil
}

func (sw *sheetWriter) writeRow(row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := sw.f.SetSheetRow(sw.sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sw.sheet, row, err)
	}
	return nil
}

func (sw *sheetWriter) styleRow(row, width, style int) error {
	from, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(width, row)
	if err != nil {
		return err
	}
	return sw.f.SetCellStyle(sw.sheet, from, to, style)
}

// fitColumns sizes each column to its longest text, capped at
// MaxColumnWidth.
func (sw *sheetWriter) fitColumns() error {
	limit := sw.opts.MaxColumnWidth
	if limit <= 0 {
		limit = 40
	}
	for i, n := range sw.widths {
		w := float64(n + 2)
		if w < minColumnWidth {
			w = minColumnWidth
		}
		if w > limit {
			w = limit
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := sw.f.SetColWidth(sw.sheet, col, col, w); err != nil {
			return fmt.Errorf("column width %s: %w", col, err)
		}
	}
	return nil
}

func toAny(cells []string) []any {
	out := make([]any, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}
