package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ignite/cutsheet/internal/cutsheet"
	"github.com/ignite/cutsheet/internal/ingest"
)

func sampleResult(t *testing.T, opts cutsheet.Options) *cutsheet.Result {
	t.Helper()
	tbl, err := ingest.Parse([]byte(strings.Join([]string{
		"Order #,Customer Name,Sku,Brand,Product Name,Color,Quantity",
		"1001,Alice,S1,Fabric,Blue Denim,,2",
		"1002,Bob,S1,FABRIC,Blue Denim,,2",
		"1003,Carl,S1,fabric,Blue Denim,,4",
		"1003,Carl,K1,Kit,Quilt Kit,Red,1",
		"1004,Dana,B1,Bundle,Fat Quarters,,4",
		"1005,Eve,B1,Bundle,Fat Quarters,,1",
	}, "\n")))
	require.NoError(t, err)

	res, err := cutsheet.Run(tbl, opts)
	require.NoError(t, err)
	return res
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":              FormatCSV,
		"CSV":           FormatCSV,
		"xlsx":          FormatXLSX,
		"xlsx_flat":     FormatXLSX,
		"xlsx-template": FormatTemplate,
		"template":      FormatTemplate,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Equal(t, "xlsx", FormatTemplate.Ext())
	assert.Equal(t, "csv", FormatCSV.Ext())
}

func TestCSV(t *testing.T) {
	res := sampleResult(t, cutsheet.DefaultOptions())

	out, err := CSV(res, DefaultOptions())
	require.NoError(t, err)

	want := strings.Join([]string{
		"Order Range: 1001 to 1005",
		"Brand,Sku,Product Name,Color,Total Yardage,1 QTY (0.5 yd),2 QTY (1.0 yd),4 QTY (2.0 yd)",
		"KIT,K1,Quilt Kit,Red,0.5,1,0,0",
		"FABRIC,S1,Blue Denim,,4.0,0,2,1",
		"",
		"Brand,Sku,Product Name,Total Yardage,1 QTY (0.25 yd),4 QTY (1.0 yd)",
		"BUNDLE,B1,Fat Quarters,1.25,1,1",
		"",
	}, "\n")
	assert.Equal(t, want, string(out))
}

func TestCSV_BlankZerosNoRangeNoBundle(t *testing.T) {
	copts := cutsheet.DefaultOptions()
	copts.IncludeBundle = false
	res := sampleResult(t, copts)

	opts := DefaultOptions()
	opts.OrderRangeRow = false
	opts.Zeros = cutsheet.ZeroBlank
	out, err := CSV(res, opts)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Brand,"))
	assert.Equal(t, "KIT,K1,Quilt Kit,Red,0.5,1,,", lines[1])
}

func TestXLSX_TwoSheets(t *testing.T) {
	res := sampleResult(t, cutsheet.DefaultOptions())
	opts := DefaultOptions()
	opts.Format = FormatXLSX

	out, err := XLSX(res, opts)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{cutsheet.MainReportName, cutsheet.BundleReportName}, f.GetSheetList())

	header, err := f.GetCellValue(cutsheet.MainReportName, "E1")
	require.NoError(t, err)
	assert.Equal(t, "Total Yardage", header)

	rangeCell, err := f.GetCellValue(cutsheet.MainReportName, "I1")
	require.NoError(t, err)
	assert.Equal(t, "Order Range: 1001 to 1005", rangeCell)

	total, err := f.GetCellValue(cutsheet.MainReportName, "E3")
	require.NoError(t, err)
	assert.Equal(t, "4", total)

	blank, err := f.GetCellValue(cutsheet.MainReportName, "F3")
	require.NoError(t, err)
	assert.Equal(t, "", blank)

	sku, err := f.GetCellValue(cutsheet.BundleReportName, "B2")
	require.NoError(t, err)
	assert.Equal(t, "B1", sku)
}

func TestXLSX_SingleSheet(t *testing.T) {
	res := sampleResult(t, cutsheet.DefaultOptions())
	opts := DefaultOptions()
	opts.Format = FormatXLSX
	opts.SingleSheet = true
	opts.Shading = true

	out, err := Render(res, opts, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SingleSheetName}, f.GetSheetList())

	// main header, two rows, blank separator, bundle header
	sep, err := f.GetCellValue(SingleSheetName, "A4")
	require.NoError(t, err)
	assert.Equal(t, "", sep)
	bundleHeader, err := f.GetCellValue(SingleSheetName, "A5")
	require.NoError(t, err)
	assert.Equal(t, "Brand", bundleHeader)
	brand, err := f.GetCellValue(SingleSheetName, "A6")
	require.NoError(t, err)
	assert.Equal(t, "BUNDLE", brand)

	width, err := f.GetColWidth(SingleSheetName, "I")
	require.NoError(t, err)
	assert.LessOrEqual(t, width, opts.MaxColumnWidth)
}

func makeTemplate(t *testing.T, merge bool) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if merge {
		require.NoError(t, f.MergeCell("Sheet1", "A1", "F1"))
		require.NoError(t, f.MergeCell("Sheet1", "A2", "F2"))
	}
	require.NoError(t, f.SetCellValue("Sheet1", "H1", "Warehouse copy"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestTemplate(t *testing.T) {
	res := sampleResult(t, cutsheet.DefaultOptions())
	date := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	out, err := Template(res, bytes.NewReader(makeTemplate(t, true)), DefaultLayout(), date)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	get := func(cell string) string {
		v, err := f.GetCellValue("Sheet1", cell)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Date of Sale: 03/31/2025", get("A1"))
	assert.Equal(t, "Order Range: 1001 to 1005", get("A2"))
	assert.Equal(t, "Warehouse copy", get("H1"))
	assert.Equal(t, "Brand", get("A4"))
	assert.Equal(t, "KIT", get("A5"))
	assert.Equal(t, "", get("G5"), "zero cells are skipped")
	assert.Equal(t, "FABRIC", get("A6"))
	assert.Equal(t, "", get("A7"))
	assert.Equal(t, "Brand", get("A8"))
	assert.Equal(t, "BUNDLE", get("A9"))
}

func TestTemplate_Mismatch(t *testing.T) {
	res := sampleResult(t, cutsheet.DefaultOptions())

	_, err := Template(res, bytes.NewReader(makeTemplate(t, false)), DefaultLayout(), time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTemplateMismatch)

	var tm *TemplateMismatchError
	require.ErrorAs(t, err, &tm)
	assert.Equal(t, "Sheet1", tm.Sheet)
	assert.Len(t, tm.Missing, 2)

	layout := DefaultLayout()
	layout.Sheet = "Nope"
	_, err = Template(res, bytes.NewReader(makeTemplate(t, true)), layout, time.Now())
	assert.ErrorIs(t, err, ErrTemplateMismatch)

	_, err = Template(res, strings.NewReader("not a workbook"), DefaultLayout(), time.Now())
	assert.ErrorIs(t, err, ErrTemplateMismatch)
}

func TestRender_TemplateRequiresReader(t *testing.T) {
	res := sampleResult(t, cutsheet.DefaultOptions())
	opts := DefaultOptions()
	opts.Format = FormatTemplate

	_, err := Render(res, opts, nil)
	assert.ErrorIs(t, err, ErrTemplateMismatch)
}

func TestFilename(t *testing.T) {
	date := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	name, err := Filename("", FormatXLSX, date, nil)
	require.NoError(t, err)
	assert.Equal(t, "cut-sheet-2025-03-31.xlsx", name)

	name, err = Filename("{{ store | slug }}/orders-{{ date }}.{{ ext }}", FormatCSV, date, map[string]any{"store": "Main St. Fabrics"})
	require.NoError(t, err)
	assert.Equal(t, "main-st.-fabrics-orders-2025-03-31.csv", name)

	_, err = Filename("{% if date %}{{ date }}", FormatCSV, date, nil)
	assert.Error(t, err)
}
