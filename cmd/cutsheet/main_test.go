package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/cutsheet/internal/config"
	"github.com/ignite/cutsheet/internal/cutsheet"
	"github.com/ignite/cutsheet/internal/render"
)

func TestResolveOptions(t *testing.T) {
	f, err := parseFlags([]string{
		"-format", "csv", "-no-bundles", "-drop-kit-color",
		"-total", "pieces", "-zeros", "blank", "-sale-date", "2025-03-31",
	})
	require.NoError(t, err)

	opts, ropts, date, err := resolveOptions(config.Default(), f)
	require.NoError(t, err)
	assert.False(t, opts.IncludeBundle)
	assert.False(t, opts.ColorDistinguishesKit)
	assert.Equal(t, cutsheet.TotalPieces, opts.TotalMode)
	assert.Equal(t, render.FormatCSV, ropts.Format)
	assert.Equal(t, cutsheet.ZeroBlank, ropts.Zeros)
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), date)

	f, err = parseFlags([]string{"-sale-date", "yesterday"})
	require.NoError(t, err)
	_, _, _, err = resolveOptions(config.Default(), f)
	assert.ErrorIs(t, err, cutsheet.ErrInvalidOption)
}

func TestRun_WritesCSV(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "orders.csv")
	out := filepath.Join(dir, "cut.csv")
	require.NoError(t, os.WriteFile(in, []byte(strings.Join([]string{
		"Order #,Customer Name,Sku,Brand,Product Name,Color,Quantity",
		"1001,Alice,S1,Fabric,Blue Denim,,2",
		"1002,Bob,S1,fabric,Blue Denim,,2",
		"1003,Carl,S1,FABRIC,Blue Denim,,4",
	}, "\n")), 0644))

	err := run(context.Background(), []string{
		"-config", filepath.Join(dir, "none.yaml"),
		"-in", in, "-out", out, "-format", "csv", "-no-bundles",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"Order Range: 1001 to 1003",
		"Brand,Sku,Product Name,Color,Total Yardage,2 QTY (1.0 yd),4 QTY (2.0 yd)",
		"FABRIC,S1,Blue Denim,,4.0,2,1",
		"",
	}, "\n"), string(data))
}

func TestRun_MissingColumns(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "orders.csv")
	out := filepath.Join(dir, "cut.csv")
	require.NoError(t, os.WriteFile(in, []byte("Order #,Sku\n1,S1\n"), 0644))

	err := run(context.Background(), []string{"-config", filepath.Join(dir, "none.yaml"), "-in", in, "-out", out})
	assert.ErrorIs(t, err, cutsheet.ErrMissingColumns)
	assert.NoFileExists(t, out)
}
