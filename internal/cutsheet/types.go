package cutsheet

import "fmt"

// OrderLine is one export row after normalization. Nil numbers mark cells
// that were blank or failed numeric coercion.
type OrderLine struct {
	Line         int      `json:"line"`
	OrderNumber  *int64   `json:"order_number,omitempty"`
	CustomerName string   `json:"customer_name"`
	Sku          string   `json:"sku"`
	Brand        Category `json:"brand"`
	ProductName  string   `json:"product_name"`
	Color        string   `json:"color,omitempty"`
	Quantity     *int64   `json:"quantity,omitempty"`
}

// AggregatedLine is the summed quantity for one customer and product.
type AggregatedLine struct {
	CustomerName string   `json:"customer_name"`
	Sku          string   `json:"sku"`
	Brand        Category `json:"brand"`
	ProductName  string   `json:"product_name"`
	Color        string   `json:"color"`
	Quantity     int64    `json:"quantity"`
}

// TallyBucket counts how many aggregated lines ordered a product at one
// quantity. Count is a number of customers, not a sum of quantities.
type TallyBucket struct {
	Sku         string   `json:"sku"`
	Brand       Category `json:"brand"`
	ProductName string   `json:"product_name"`
	Color       string   `json:"color"`
	Quantity    int64    `json:"quantity"`
	Count       int      `json:"count"`
}

// ReportRow is one line of the cut sheet. Counts holds an entry for every
// quantity observed in the report, zero when this product had none.
type ReportRow struct {
	Brand       Category      `json:"brand"`
	Sku         string        `json:"sku"`
	ProductName string        `json:"product_name"`
	Color       string        `json:"color"`
	Total       float64       `json:"total"`
	Counts      map[int64]int `json:"counts"`
}

// Lines returns the number of aggregated lines folded into the row.
func (r ReportRow) Lines() int {
	n := 0
	for _, c := range r.Counts {
		n += c
	}
	return n
}

// OrderRange is the span of order numbers the export covered.
type OrderRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

func (r OrderRange) String() string {
	return fmt.Sprintf("%d to %d", r.Min, r.Max)
}

// Label is the caption printed on reports.
func (r OrderRange) Label() string {
	return "Order Range: " + r.String()
}
