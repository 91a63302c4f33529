package cutsheet

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ignite/cutsheet/internal/ingest"
)

// Options are the per-run switches.
type Options struct {
	IncludeBundle         bool      `json:"include_bundle" yaml:"include_bundle"`
	ColorDistinguishesKit bool      `json:"color_distinguishes_kit" yaml:"color_distinguishes_kit"`
	TotalMode             TotalMode `json:"total_mode" yaml:"total_mode"`
	RequireOrderRange     bool      `json:"require_order_range" yaml:"require_order_range"`
}

// DefaultOptions keeps bundles and kit colors, totals yardage and insists on
// an order range.
func DefaultOptions() Options {
	return Options{
		IncludeBundle:         true,
		ColorDistinguishesKit: true,
		TotalMode:             TotalYardage,
		RequireOrderRange:     true,
	}
}

// Validate normalizes TotalMode and rejects unknown values.
func (o *Options) Validate() error {
	mode, err := ParseTotalMode(string(o.TotalMode))
	if err != nil {
		return err
	}
	o.TotalMode = mode
	return nil
}

// Stats summarizes a run for logs and metrics.
type Stats struct {
	RowsRead     int `json:"rows_read"`
	RowsKept     int `json:"rows_kept"`
	RowsDropped  int `json:"rows_dropped"`
	NullQuantity int `json:"null_quantity"`
	MainLines    int `json:"main_lines"`
	BundleLines  int `json:"bundle_lines"`
	MainRows     int `json:"main_rows"`
	BundleRows   int `json:"bundle_rows"`
}

// Result is everything a renderer needs. Bundle is nil when bundles were
// not requested.
type Result struct {
	RunID      string      `json:"run_id"`
	OrderRange *OrderRange `json:"order_range,omitempty"`
	Main       *Report     `json:"main"`
	Bundle     *Report     `json:"bundle,omitempty"`
	Issues     []Issue     `json:"issues"`
	Stats      Stats       `json:"stats"`
}

// Reports returns the non-nil reports in output order.
func (r *Result) Reports() []*Report {
	out := []*Report{r.Main}
	if r.Bundle != nil {
		out = append(out, r.Bundle)
	}
	return out
}

// OrderRangeLabel is the caption for the order range, or "" when unknown.
func (r *Result) OrderRangeLabel() string {
	if r.OrderRange == nil {
		return ""
	}
	return r.OrderRange.Label()
}

// Run executes the whole pipeline on one table. It does not modify t.
func Run(t *ingest.Table, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	norm, err := Normalize(t, opts)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	streams := Split(norm.Lines)
	issues := norm.Issues
	checked := []Category{CategoryFabric, CategoryKit}
	if opts.IncludeBundle {
		checked = append(checked, CategoryBundle)
	}
	for _, c := range checked {
		if len(streams.Of(c)) == 0 {
			issues = append(issues, Issue{
				Kind:    IssueEmptyCategory,
				Value:   string(c),
				Message: fmt.Sprintf("no %s rows in input", c),
			})
		}
	}

	mainLines, bundleLines := AggregateStreams(streams, opts.ColorDistinguishesKit)

	res := &Result{
		RunID:      uuid.NewString(),
		OrderRange: norm.OrderRange,
		Main:       Assemble(MainReportName, HalfYard, mainLines, opts.TotalMode, opts.ColorDistinguishesKit),
		Issues:     issues,
	}
	if opts.IncludeBundle {
		res.Bundle = Assemble(BundleReportName, QuarterYard, bundleLines, opts.TotalMode, false)
	}

	nullQty := 0
	for _, l := range norm.Lines {
		if l.Quantity == nil {
			nullQty++
		}
	}
	res.Stats = Stats{
		RowsRead:     norm.RowsRead,
		RowsKept:     len(norm.Lines),
		RowsDropped:  norm.Dropped,
		NullQuantity: nullQty,
		MainLines:    len(mainLines),
		MainRows:     len(res.Main.Rows),
	}
	if res.Bundle != nil {
		res.Stats.BundleLines = len(bundleLines)
		res.Stats.BundleRows = len(res.Bundle.Rows)
	}
	if res.Issues == nil {
		res.Issues = []Issue{}
	}
	return res, nil
}
