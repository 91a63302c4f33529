package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/cutsheet/internal/cutsheet"
	"github.com/ignite/cutsheet/internal/ingest"
)

func TestObserveRun(t *testing.T) {
	tbl := &ingest.Table{
		Header: []string{"Order #", "Customer Name", "Sku", "Brand", "Product Name", "Color", "Quantity"},
		Rows: [][]string{
			{"1", "A", "S1", "FABRIC", "Denim", "", "2"},
			{"2", "B", "S1", "RUG", "Runner", "", "1"},
			{"3", "C", "S1", "FABRIC", "Denim", "", "x"},
		},
	}
	res, err := cutsheet.Run(tbl, cutsheet.DefaultOptions())
	require.NoError(t, err)

	r := NewRegistry()
	r.ObserveRun(res, "csv", 20*time.Millisecond)
	r.ObserveFailure("missing_columns")

	assert.Equal(t, 1.0, testutil.ToFloat64(r.Runs.WithLabelValues("csv")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.RowsRead))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.RowsDropped.WithLabelValues("unknown_brand")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.RowsDropped.WithLabelValues("null_quantity")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.Issues.WithLabelValues("empty_category")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ReportRows.WithLabelValues(cutsheet.MainReportName)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.RunsFailed.WithLabelValues("missing_columns")))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cutsheet_run_duration_seconds_count 1")
}
