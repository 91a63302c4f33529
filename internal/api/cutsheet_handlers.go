package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ignite/cutsheet/internal/cutsheet"
	"github.com/ignite/cutsheet/internal/ingest"
	"github.com/ignite/cutsheet/internal/pkg/httputil"
	"github.com/ignite/cutsheet/internal/pkg/logger"
	"github.com/ignite/cutsheet/internal/render"
)

var errNoFile = errors.New("file is required")

// runRequest is one parsed upload plus its options.
type runRequest struct {
	table    *ingest.Table
	opts     cutsheet.Options
	render   render.Options
	saleDate time.Time
}

// GenerateCutSheet handles POST /api/cutsheet. The export arrives as the
// multipart field "file"; the rendered artifact is returned as a download.
//
//	?format=csv|xlsx|xlsx-template&bundles=false&kit_color=false&total=pieces&zeros=zero
func (h *Handlers) GenerateCutSheet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, err := h.parseRunRequest(w, r)
	if err != nil {
		h.writeRunError(w, r, err)
		return
	}

	res, err := cutsheet.Run(req.table, req.opts)
	if err != nil {
		h.writeRunError(w, r, err)
		return
	}

	var tmpl io.Reader
	if req.render.Format == render.FormatTemplate {
		data := h.templateBytes()
		if len(data) == 0 {
			h.writeRunError(w, r, fmt.Errorf("%w: no template configured", render.ErrTemplateMismatch))
			return
		}
		tmpl = bytes.NewReader(data)
	}

	out, err := render.Render(res, req.render, tmpl)
	if err != nil {
		h.writeRunError(w, r, err)
		return
	}

	name, err := render.Filename(h.config.Render.FilenamePattern, req.render.Format, req.saleDate, nil)
	if err != nil {
		h.writeRunError(w, r, err)
		return
	}

	h.metrics.ObserveRun(res, string(req.render.Format), time.Since(start))
	logger.Info("cut sheet generated",
		"run_id", res.RunID,
		"request_id", middleware.GetReqID(r.Context()),
		"format", req.render.Format,
		"rows_read", res.Stats.RowsRead,
		"main_rows", res.Stats.MainRows,
		"bundle_rows", res.Stats.BundleRows,
		"issues", len(res.Issues),
	)

	w.Header().Set("X-Run-Id", res.RunID)
	w.Header().Set("X-Issue-Count", strconv.Itoa(len(res.Issues)))
	httputil.Attachment(w, name, req.render.Format.ContentType(), out)
}

// PreviewTable is a report rendered to text cells.
type PreviewTable struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// PreviewResponse is the body of POST /api/cutsheet/preview.
type PreviewResponse struct {
	Result       *cutsheet.Result           `json:"result"`
	OrderRange   string                     `json:"order_range,omitempty"`
	Tables       []PreviewTable             `json:"tables"`
	IssueSummary map[cutsheet.IssueKind]int `json:"issue_summary"`
}

// PreviewCutSheet handles POST /api/cutsheet/preview: same inputs as
// GenerateCutSheet, JSON out.
func (h *Handlers) PreviewCutSheet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, err := h.parseRunRequest(w, r)
	if err != nil {
		h.writeRunError(w, r, err)
		return
	}

	res, err := cutsheet.Run(req.table, req.opts)
	if err != nil {
		h.writeRunError(w, r, err)
		return
	}
	h.metrics.ObserveRun(res, "preview", time.Since(start))

	zeros := req.render.Zeros
	if zeros == "" {
		zeros = cutsheet.ZeroShow
	}
	resp := PreviewResponse{
		Result:       res,
		OrderRange:   res.OrderRangeLabel(),
		IssueSummary: cutsheet.CountIssues(res.Issues),
	}
	for _, rep := range res.Reports() {
		t := PreviewTable{Name: rep.Name, Columns: rep.Columns(), Rows: [][]string{}}
		for _, row := range rep.Rows {
			t.Rows = append(t.Rows, rep.Cells(row, zeros))
		}
		resp.Tables = append(resp.Tables, t)
	}
	httputil.OK(w, resp)
}

func (h *Handlers) parseRunRequest(w http.ResponseWriter, r *http.Request) (*runRequest, error) {
	opts, err := h.config.Options()
	if err != nil {
		return nil, err
	}
	ropts, err := h.config.RenderOptions()
	if err != nil {
		return nil, err
	}

	q := r.URL.Query()
	if v := q.Get("format"); v != "" {
		if ropts.Format, err = render.ParseFormat(v); err != nil {
			return nil, err
		}
	}
	if v := q.Get("zeros"); v != "" {
		if ropts.Zeros, err = cutsheet.ParseZeroDisplay(v, ropts.Zeros); err != nil {
			return nil, err
		}
	}
	if v := q.Get("total"); v != "" {
		opts.TotalMode = cutsheet.TotalMode(v)
		if err := opts.Validate(); err != nil {
			return nil, err
		}
	}
	for name, dst := range map[string]*bool{
		"bundles":      &opts.IncludeBundle,
		"kit_color":    &opts.ColorDistinguishesKit,
		"single_sheet": &ropts.SingleSheet,
	} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q", cutsheet.ErrInvalidOption, name, v)
		}
		*dst = b
	}

	saleDate := time.Now()
	if v := q.Get("sale_date"); v != "" {
		if saleDate, err = time.Parse("2006-01-02", v); err != nil {
			return nil, fmt.Errorf("%w: sale_date=%q", cutsheet.ErrInvalidOption, v)
		}
	}
	ropts.SaleDate = saleDate

	maxBytes := h.config.Server.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, errNoFile
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, errNoFile
	}
	defer file.Close()

	table, err := ingest.Read(file)
	if err != nil {
		return nil, err
	}

	return &runRequest{table: table, opts: opts, render: ropts, saleDate: saleDate}, nil
}

func (h *Handlers) writeRunError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		missing  *cutsheet.MissingColumnError
		mismatch *render.TemplateMismatchError
		tooLarge *http.MaxBytesError
	)
	reqID := middleware.GetReqID(r.Context())

	switch {
	case errors.As(err, &missing):
		h.metrics.ObserveFailure("missing_columns")
		httputil.ErrorWithCode(w, http.StatusUnprocessableEntity, "missing_columns", err.Error(), missing.Columns)
	case errors.Is(err, cutsheet.ErrEmptyInput):
		h.metrics.ObserveFailure("empty_input")
		httputil.ErrorWithCode(w, http.StatusUnprocessableEntity, "empty_input", err.Error(), nil)
	case errors.Is(err, ingest.ErrEmptyFile):
		h.metrics.ObserveFailure("empty_file")
		httputil.ErrorWithCode(w, http.StatusUnprocessableEntity, "empty_file", err.Error(), nil)
	case errors.As(err, &mismatch):
		h.metrics.ObserveFailure("template_mismatch")
		httputil.ErrorWithCode(w, http.StatusUnprocessableEntity, "template_mismatch", err.Error(), mismatch.Missing)
	case errors.Is(err, render.ErrTemplateMismatch):
		h.metrics.ObserveFailure("template_mismatch")
		httputil.ErrorWithCode(w, http.StatusUnprocessableEntity, "template_mismatch", err.Error(), nil)
	case errors.As(err, &tooLarge):
		h.metrics.ObserveFailure("too_large")
		httputil.ErrorWithCode(w, http.StatusRequestEntityTooLarge, "too_large",
			fmt.Sprintf("upload exceeds %d MB", h.config.Server.MaxUploadMB), nil)
	case errors.Is(err, errNoFile):
		h.metrics.ObserveFailure("bad_request")
		httputil.BadRequest(w, err.Error())
	case errors.Is(err, cutsheet.ErrInvalidOption), errors.Is(err, render.ErrUnknownFormat):
		h.metrics.ObserveFailure("bad_request")
		httputil.ErrorWithCode(w, http.StatusBadRequest, "invalid_option", err.Error(), nil)
	default:
		h.metrics.ObserveFailure("internal")
		logger.Error("cut sheet failed", "request_id", reqID, "error", err)
		httputil.InternalError(w, err)
		return
	}
	logger.Warn("cut sheet rejected", "request_id", reqID, "error", err)
}
