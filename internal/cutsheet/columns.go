package cutsheet

import (
	"strings"
	"unicode"

	"github.com/ignite/cutsheet/internal/ingest"
)

// Canonical export column names.
const (
	ColOrderNumber  = "Order #"
	ColCustomerName = "Customer Name"
	ColSku          = "Sku"
	ColBrand        = "Brand"
	ColProductName  = "Product Name"
	ColColor        = "Color"
	ColQuantity     = "Quantity"
)

// KnownColumns is the allow-list, in export order.
var KnownColumns = []string{
	ColOrderNumber, ColCustomerName, ColSku, ColBrand, ColProductName, ColColor, ColQuantity,
}

// RequiredColumns cannot be defaulted: without them nothing can be grouped.
var RequiredColumns = []string{ColSku, ColBrand, ColProductName, ColQuantity}

var columnAliases = map[string]string{
	"order#":       ColOrderNumber,
	"ordernumber":  ColOrderNumber,
	"orderno":      ColOrderNumber,
	"orderid":      ColOrderNumber,
	"customername": ColCustomerName,
	"customer":     ColCustomerName,
	"sku":          ColSku,
	"brand":        ColBrand,
	"productname":  ColProductName,
	"product":      ColProductName,
	"color":        ColColor,
	"colour":       ColColor,
	"quantity":     ColQuantity,
	"qty":          ColQuantity,
}

// foldHeader lowercases and strips spaces, underscores, dots and dashes so
// "Order_No." and "order no" meet at the same key.
func foldHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(h) {
		switch {
		case unicode.IsSpace(r), r == '_', r == '-', r == '.':
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// ColumnMap records which header position holds each canonical column.
type ColumnMap map[string]int

// Has reports whether the canonical column was found.
func (m ColumnMap) Has(col string) bool {
	_, ok := m[col]
	return ok
}

// Value returns the trimmed cell for col in row, or "" when the column is absent.
func (m ColumnMap) Value(row []string, col string) string {
	i, ok := m[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ResolveColumns maps the table header onto canonical names. Exact
// canonical headers bind first; aliases only fill columns still unbound, so
// an "Order ID" next to "Order #" is ignored. Everything outside the
// allow-list is ignored.
func ResolveColumns(t *ingest.Table) (ColumnMap, []string) {
	m := make(ColumnMap)
	for i, h := range t.Header {
		folded := foldHeader(h)
		for _, canon := range KnownColumns {
			if folded != foldHeader(canon) || m.Has(canon) {
				continue
			}
			m[canon] = i
		}
	}
	for i, h := range t.Header {
		canon, ok := columnAliases[foldHeader(h)]
		if !ok || m.Has(canon) {
			continue
		}
		m[canon] = i
	}

	var missing []string
	for _, col := range KnownColumns {
		if !m.Has(col) {
			missing = append(missing, col)
		}
	}
	return m, missing
}
