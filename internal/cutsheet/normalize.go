package cutsheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ignite/cutsheet/internal/ingest"
)

// Normalized is the output of Normalize: surviving lines in input order
// plus everything recovered along the way.
type Normalized struct {
	Lines      []OrderLine
	OrderRange *OrderRange
	Issues     []Issue
	RowsRead   int
	Dropped    int
}

// Normalize selects known columns, coerces numbers, standardizes brands and
// drops rows outside the category set. The order range is taken over every
// row with a usable order number, before brand filtering.
func Normalize(t *ingest.Table, opts Options) (*Normalized, error) {
	cols, missing := ResolveColumns(t)

	var absent []string
	for _, col := range RequiredColumns {
		if !cols.Has(col) {
			absent = append(absent, col)
		}
	}
	if len(absent) > 0 {
		return nil, &MissingColumnError{Columns: absent}
	}

	out := &Normalized{RowsRead: t.Len()}
	for _, w := range t.Warnings {
		out.Issues = append(out.Issues, Issue{Kind: IssueParseWarning, Line: w.Row, Message: w.Message})
	}
	for _, col := range missing {
		out.Issues = append(out.Issues, Issue{
			Kind:    IssueMissingColumn,
			Column:  col,
			Message: fmt.Sprintf("column %q not found, treated as empty", col),
		})
	}

	upper := cases.Upper(language.Und)
	for i, row := range t.Rows {
		line := t.Line(i)

		var orderNum *int64
		if cols.Has(ColOrderNumber) {
			raw := cols.Value(row, ColOrderNumber)
			if n, ok := parseInteger(raw); ok {
				orderNum = &n
				out.OrderRange = widen(out.OrderRange, n)
			} else if raw != "" {
				out.Issues = append(out.Issues, Issue{
					Kind: IssueInvalidNumeric, Line: line, Column: ColOrderNumber, Value: raw,
					Message: "order number is not an integer",
				})
			}
		}

		rawBrand := cols.Value(row, ColBrand)
		brand, ok := standardizeBrand(upper, rawBrand)
		if !ok {
			out.Dropped++
			out.Issues = append(out.Issues, Issue{
				Kind: IssueUnknownBrand, Line: line, Column: ColBrand, Value: rawBrand,
				Message: "brand is not FABRIC, KIT or BUNDLE; row dropped",
			})
			continue
		}

		var qty *int64
		rawQty := cols.Value(row, ColQuantity)
		if n, ok := parseInteger(rawQty); ok && n > 0 {
			qty = &n
		} else {
			out.Issues = append(out.Issues, Issue{
				Kind: IssueInvalidNumeric, Line: line, Column: ColQuantity, Value: rawQty,
				Message: "quantity is not a positive integer; excluded from sums",
			})
		}

		out.Lines = append(out.Lines, OrderLine{
			Line:         line,
			OrderNumber:  orderNum,
			CustomerName: cols.Value(row, ColCustomerName),
			Sku:          cols.Value(row, ColSku),
			Brand:        brand,
			ProductName:  cols.Value(row, ColProductName),
			Color:        cols.Value(row, ColColor),
			Quantity:     qty,
		})
	}

	if out.OrderRange == nil && opts.RequireOrderRange {
		return nil, &EmptyInputError{Rows: t.Len()}
	}
	return out, nil
}

func widen(r *OrderRange, n int64) *OrderRange {
	if r == nil {
		return &OrderRange{Min: n, Max: n}
	}
	if n < r.Min {
		r.Min = n
	}
	if n > r.Max {
		r.Max = n
	}
	return r
}

// parseInteger accepts plain integers and integral decimals such as "2.0",
// which spreadsheet round trips tend to produce. Thousands separators are
// stripped.
func parseInteger(raw string) (int64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
