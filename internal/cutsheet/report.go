package cutsheet

import (
	"fmt"
	"strconv"
	"strings"
)

// Report names, also used as sheet titles.
const (
	MainReportName   = "Fabric + Kits"
	BundleReportName = "Bundles"
)

// TotalMode selects what the Total column measures.
type TotalMode string

const (
	TotalYardage TotalMode = "yardage"
	TotalPieces  TotalMode = "pieces"
)

// ParseTotalMode accepts the config spellings of a total mode.
func ParseTotalMode(s string) (TotalMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yardage", "yards":
		return TotalYardage, nil
	case "pieces", "piece_count", "count":
		return TotalPieces, nil
	}
	return "", fmt.Errorf("%w: total mode %q", ErrInvalidOption, s)
}

// ZeroDisplay controls how empty quantity cells are printed.
type ZeroDisplay string

const (
	ZeroBlank ZeroDisplay = "blank"
	ZeroShow  ZeroDisplay = "zero"
)

// ParseZeroDisplay accepts "blank" or "zero". An empty string yields def.
func ParseZeroDisplay(s string, def ZeroDisplay) (ZeroDisplay, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case "blank":
		return ZeroBlank, nil
	case "zero", "0":
		return ZeroShow, nil
	}
	return "", fmt.Errorf("%w: zero display %q", ErrInvalidOption, s)
}

// Report is one assembled cut-sheet table.
type Report struct {
	Name       string           `json:"name"`
	Policy     ConversionPolicy `json:"policy"`
	TotalMode  TotalMode        `json:"total_mode"`
	ShowColor  bool             `json:"show_color"`
	Quantities []int64          `json:"quantities"`
	Rows       []ReportRow      `json:"rows"`
}

// Assemble tallies and pivots lines, then fills in each row's total. The
// yardage of a row follows its own brand's policy; policy only labels the
// quantity columns.
func Assemble(name string, policy ConversionPolicy, lines []AggregatedLine, mode TotalMode, showColor bool) *Report {
	quantities, rows := Pivot(Tally(lines))
	for i := range rows {
		rows[i].Total = rowTotal(rows[i], mode)
	}
	if quantities == nil {
		quantities = []int64{}
	}
	if rows == nil {
		rows = []ReportRow{}
	}
	return &Report{
		Name:       name,
		Policy:     policy,
		TotalMode:  mode,
		ShowColor:  showColor,
		Quantities: quantities,
		Rows:       rows,
	}
}

func rowTotal(r ReportRow, mode TotalMode) float64 {
	policy := PolicyFor(r.Brand)
	var total float64
	for q, n := range r.Counts {
		if mode == TotalPieces {
			total += float64(n) * float64(q)
		} else {
			total += float64(n) * policy.Length(q)
		}
	}
	return total
}

// Empty reports whether the table has no data rows.
func (r *Report) Empty() bool { return r == nil || len(r.Rows) == 0 }

// TotalLabel is the header of the Total column.
func (r *Report) TotalLabel() string {
	if r.TotalMode == TotalPieces {
		return "Total Quantity"
	}
	return "Total Yardage"
}

// QuantityLabel is the header of the column for quantity q.
func (r *Report) QuantityLabel(q int64) string {
	if r.TotalMode == TotalPieces {
		return fmt.Sprintf("%d QTY", q)
	}
	return fmt.Sprintf("%d QTY (%s yd)", q, FormatYards(r.Policy.Length(q)))
}

// Columns returns the header row.
func (r *Report) Columns() []string {
	cols := []string{ColBrand, ColSku, ColProductName}
	if r.ShowColor {
		cols = append(cols, ColColor)
	}
	cols = append(cols, r.TotalLabel())
	for _, q := range r.Quantities {
		cols = append(cols, r.QuantityLabel(q))
	}
	return cols
}

// FormatTotal prints a row total in the report's mode.
func (r *Report) FormatTotal(total float64) string {
	if r.TotalMode == TotalPieces {
		return strconv.FormatInt(int64(total), 10)
	}
	return FormatYards(total)
}

// Cells returns row as text aligned with Columns.
func (r *Report) Cells(row ReportRow, zero ZeroDisplay) []string {
	cells := []string{string(row.Brand), row.Sku, row.ProductName}
	if r.ShowColor {
		cells = append(cells, row.Color)
	}
	cells = append(cells, r.FormatTotal(row.Total))
	for _, q := range r.Quantities {
		n := row.Counts[q]
		if n == 0 && zero == ZeroBlank {
			cells = append(cells, "")
			continue
		}
		cells = append(cells, strconv.Itoa(n))
	}
	return cells
}

// Values is Cells for spreadsheet writers: totals and counts stay numeric,
// blanked zeros become nil.
func (r *Report) Values(row ReportRow, zero ZeroDisplay) []any {
	vals := []any{string(row.Brand), row.Sku, row.ProductName}
	if r.ShowColor {
		vals = append(vals, row.Color)
	}
	if r.TotalMode == TotalPieces {
		vals = append(vals, int64(row.Total))
	} else {
		vals = append(vals, row.Total)
	}
	for _, q := range r.Quantities {
		n := row.Counts[q]
		if n == 0 && zero == ZeroBlank {
			vals = append(vals, nil)
			continue
		}
		vals = append(vals, n)
	}
	return vals
}
