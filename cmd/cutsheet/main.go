// Command cutsheet turns an order export into a cut sheet.
//
//	cutsheet -in orders.csv -out cut.xlsx
//	cutsheet -in s3://exports/orders.csv -format csv -out - -no-bundles
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ignite/cutsheet/internal/config"
	"github.com/ignite/cutsheet/internal/cutsheet"
	"github.com/ignite/cutsheet/internal/ingest"
	"github.com/ignite/cutsheet/internal/pkg/logger"
	"github.com/ignite/cutsheet/internal/render"
	"github.com/ignite/cutsheet/internal/storage"
)

type flags struct {
	config       string
	in           string
	out          string
	format       string
	template     string
	saleDate     string
	noBundles    bool
	dropKitColor bool
	total        string
	zeros        string
	singleSheet  bool
}

func parseFlags(args []string) (*flags, error) {
	fs := flag.NewFlagSet("cutsheet", flag.ContinueOnError)
	f := &flags{}
	fs.StringVar(&f.config, "config", "config/config.yaml", "path to config file")
	fs.StringVar(&f.in, "in", "-", "input export: path, - for stdin, or s3://bucket/key")
	fs.StringVar(&f.out, "out", "", "output location; default is the rendered filename pattern")
	fs.StringVar(&f.format, "format", "", "csv, xlsx or xlsx-template")
	fs.StringVar(&f.template, "template", "", "template workbook for xlsx-template")
	fs.StringVar(&f.saleDate, "sale-date", "", "date of sale, YYYY-MM-DD (default today)")
	fs.BoolVar(&f.noBundles, "no-bundles", false, "omit the bundle report")
	fs.BoolVar(&f.dropKitColor, "drop-kit-color", false, "do not show kit color in the report")
	fs.StringVar(&f.total, "total", "", "yardage or pieces")
	fs.StringVar(&f.zeros, "zeros", "", "blank or zero")
	fs.BoolVar(&f.singleSheet, "single-sheet", false, "put both reports on one sheet")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		logger.Error("cut sheet failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.LoadFromEnv(f.config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Log.Level))
	logger.SetRedactPII(*cfg.Log.RedactPII)

	opts, ropts, saleDate, err := resolveOptions(cfg, f)
	if err != nil {
		return err
	}

	store := storage.New(cfg.Storage)
	start := time.Now()

	table, err := readTable(ctx, store, f.in)
	if err != nil {
		return err
	}
	logger.Debug("export read", "in", f.in, "rows", table.Len(), "encoding", table.Encoding)

	res, err := cutsheet.Run(table, opts)
	if err != nil {
		return err
	}
	for kind, n := range cutsheet.CountIssues(res.Issues) {
		logger.Warn("issues recovered", "kind", kind, "count", n)
	}

	var tmpl io.Reader
	if ropts.Format == render.FormatTemplate {
		path := f.template
		if path == "" {
			path = cfg.Template.Path
		}
		if path == "" {
			return fmt.Errorf("%w: -template is required for xlsx-template", render.ErrTemplateMismatch)
		}
		rc, err := store.Open(ctx, path)
		if err != nil {
			return fmt.Errorf("open template: %w", err)
		}
		defer rc.Close()
		tmpl = rc
	}

	out, err := render.Render(res, ropts, tmpl)
	if err != nil {
		return err
	}

	dest := f.out
	if dest == "" {
		if dest, err = render.Filename(cfg.Render.FilenamePattern, ropts.Format, saleDate, nil); err != nil {
			return err
		}
	}
	if err := store.Save(ctx, dest, out); err != nil {
		return fmt.Errorf("save %s: %w", dest, err)
	}

	logger.Info("cut sheet written",
		"run_id", res.RunID,
		"out", dest,
		"format", ropts.Format,
		"order_range", res.OrderRangeLabel(),
		"rows_read", res.Stats.RowsRead,
		"main_rows", res.Stats.MainRows,
		"bundle_rows", res.Stats.BundleRows,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// resolveOptions layers flags over the config file.
func resolveOptions(cfg *config.Config, f *flags) (cutsheet.Options, render.Options, time.Time, error) {
	var zero time.Time
	opts, err := cfg.Options()
	if err != nil {
		return opts, render.Options{}, zero, err
	}
	ropts, err := cfg.RenderOptions()
	if err != nil {
		return opts, ropts, zero, err
	}

	if f.format != "" {
		if ropts.Format, err = render.ParseFormat(f.format); err != nil {
			return opts, ropts, zero, err
		}
	}
	if f.zeros != "" {
		if ropts.Zeros, err = cutsheet.ParseZeroDisplay(f.zeros, ropts.Zeros); err != nil {
			return opts, ropts, zero, err
		}
	}
	if f.total != "" {
		opts.TotalMode = cutsheet.TotalMode(f.total)
		if err := opts.Validate(); err != nil {
			return opts, ropts, zero, err
		}
	}
	if f.noBundles {
		opts.IncludeBundle = false
	}
	if f.dropKitColor {
		opts.ColorDistinguishesKit = false
	}
	if f.singleSheet {
		ropts.SingleSheet = true
	}

	saleDate := time.Now()
	if f.saleDate != "" {
		if saleDate, err = time.Parse("2006-01-02", f.saleDate); err != nil {
			return opts, ropts, zero, fmt.Errorf("%w: -sale-date %q", cutsheet.ErrInvalidOption, f.saleDate)
		}
	}
	ropts.SaleDate = saleDate
	return opts, ropts, saleDate, nil
}

func readTable(ctx context.Context, store storage.Store, location string) (*ingest.Table, error) {
	rc, err := store.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	table, err := ingest.Read(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", location, err)
	}
	for _, w := range table.Warnings {
		logger.Debug("parse warning", "line", w.Row, "message", w.Message)
	}
	return table, nil
}
