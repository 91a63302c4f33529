package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ignite/cutsheet/internal/cutsheet"
)

// Registry holds the cut-sheet collectors on a private Prometheus registry.
type Registry struct {
	reg         *prometheus.Registry
	Runs        *prometheus.CounterVec
	RunsFailed  *prometheus.CounterVec
	RowsRead    prometheus.Counter
	RowsDropped *prometheus.CounterVec
	Issues      *prometheus.CounterVec
	ReportRows  *prometheus.CounterVec
	RunDuration prometheus.Histogram
}

// NewRegistry creates and registers every cut-sheet collector.
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "cutsheet_runs_total"}, []string{"format"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "cutsheet_runs_failed_total"}, []string{"reason"})
	rowsRead := prometheus.NewCounter(prometheus.CounterOpts{Name: "cutsheet_rows_read_total"})
	dropped := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "cutsheet_rows_dropped_total"}, []string{"reason"})
	issues := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "cutsheet_issues_total"}, []string{"kind"})
	reportRows := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "cutsheet_report_rows_total"}, []string{"report"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cutsheet_run_duration_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(runs, failed, rowsRead, dropped, issues, reportRows, duration)
	return &Registry{
		reg:         r,
		Runs:        runs,
		RunsFailed:  failed,
		RowsRead:    rowsRead,
		RowsDropped: dropped,
		Issues:      issues,
		ReportRows:  reportRows,
		RunDuration: duration,
	}
}

// ObserveRun records a finished run. format is the rendered artifact type.
func (r *Registry) ObserveRun(res *cutsheet.Result, format string, elapsed time.Duration) {
	r.Runs.WithLabelValues(format).Inc()
	r.RunDuration.Observe(elapsed.Seconds())
	if res == nil {
		return
	}
	r.RowsRead.Add(float64(res.Stats.RowsRead))
	if res.Stats.RowsDropped > 0 {
		r.RowsDropped.WithLabelValues(string(cutsheet.IssueUnknownBrand)).Add(float64(res.Stats.RowsDropped))
	}
	if res.Stats.NullQuantity > 0 {
		r.RowsDropped.WithLabelValues("null_quantity").Add(float64(res.Stats.NullQuantity))
	}
	for kind, n := range cutsheet.CountIssues(res.Issues) {
		r.Issues.WithLabelValues(string(kind)).Add(float64(n))
	}
	for _, rep := range res.Reports() {
		r.ReportRows.WithLabelValues(rep.Name).Add(float64(len(rep.Rows)))
	}
}

// ObserveFailure counts a run that produced no artifact.
func (r *Registry) ObserveFailure(reason string) {
	r.RunsFailed.WithLabelValues(reason).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
