package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/cutsheet/internal/cutsheet"
	"github.com/ignite/cutsheet/internal/render"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 9090
  host: "0.0.0.0"
  max_upload_mb: 5

storage:
  local_path: "./out"
  s3_bucket: "cut-sheets"

cutsheet:
  include_bundle: false
  total_mode: piece_count

render:
  format: csv
  zeros: blank
  single_sheet: true

template:
  path: "templates/cut-sheet.xlsx"
  sheet: "Cuts"
  header_row: 6
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	// Test server config
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, int64(5<<20), cfg.Server.MaxUploadBytes())

	// Test storage config
	assert.Equal(t, "./out", cfg.Storage.LocalPath)
	assert.Equal(t, "cut-sheets", cfg.Storage.S3Bucket)
	assert.Equal(t, "us-west-2", cfg.Storage.AWSRegion)

	// Test template config
	assert.Equal(t, "templates/cut-sheet.xlsx", cfg.Template.Path)
	assert.Equal(t, "Cuts", cfg.Template.Sheet)
	assert.Equal(t, 6, cfg.Template.HeaderRow)
	assert.Equal(t, "A1", cfg.Template.DateCell)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.False(t, opts.IncludeBundle)
	assert.True(t, opts.ColorDistinguishesKit)
	assert.True(t, opts.RequireOrderRange)
	assert.Equal(t, cutsheet.TotalPieces, opts.TotalMode)

	ropts, err := cfg.RenderOptions()
	require.NoError(t, err)
	assert.Equal(t, render.FormatCSV, ropts.Format)
	assert.Equal(t, cutsheet.ZeroBlank, ropts.Zeros)
	assert.True(t, ropts.SingleSheet)
	assert.True(t, ropts.OrderRangeRow)
	assert.Equal(t, 6, ropts.Layout.HeaderRow)
}

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Minimal config
	err := os.WriteFile(configPath, []byte("{}"), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	// Check defaults
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 20, cfg.Server.MaxUploadMB)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "xlsx", cfg.Render.Format)
	assert.Equal(t, render.DefaultFilenamePattern, cfg.Render.FilenamePattern)
	assert.Equal(t, "INFO", cfg.Log.Level)
	assert.True(t, *cfg.Log.RedactPII)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, cutsheet.DefaultOptions(), opts)

	ropts, err := cfg.RenderOptions()
	require.NoError(t, err)
	assert.Equal(t, render.FormatXLSX, ropts.Format)
	assert.Equal(t, cutsheet.ZeroDisplay(""), ropts.Zeros)
	assert.Equal(t, render.DefaultLayout(), ropts.Layout)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	err := os.WriteFile(configPath, []byte("invalid: yaml: content:"), 0644)
	require.NoError(t, err)

	_, err = Load(configPath)
	assert.Error(t, err)
}

func TestInvalidEnums(t *testing.T) {
	cfg := Default()
	cfg.CutSheet.TotalMode = "furlongs"
	_, err := cfg.Options()
	assert.ErrorIs(t, err, cutsheet.ErrInvalidOption)

	cfg = Default()
	cfg.Render.Format = "pdf"
	_, err = cfg.RenderOptions()
	assert.ErrorIs(t, err, render.ErrUnknownFormat)

	cfg = Default()
	cfg.Render.Zeros = "dash"
	_, err = cfg.RenderOptions()
	assert.ErrorIs(t, err, cutsheet.ErrInvalidOption)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CUTSHEET_FORMAT", "xlsx-template")
	t.Setenv("CUTSHEET_TEMPLATE", "/srv/template.xlsx")
	t.Setenv("CUTSHEET_S3_BUCKET", "orders")
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("SERVER_PORT", "9191")
	t.Setenv("SERVER_HOST", "")

	cfg, err := LoadFromEnv(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "xlsx-template", cfg.Render.Format)
	assert.Equal(t, "/srv/template.xlsx", cfg.Template.Path)
	assert.Equal(t, "orders", cfg.Storage.S3Bucket)
	assert.Equal(t, "us-east-1", cfg.Storage.AWSRegion)
	assert.Equal(t, 9191, cfg.Server.Port)

	t.Setenv("SERVER_PORT", "eighty")
	_, err = LoadFromEnv(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGetAWSProfile(t *testing.T) {
	t.Setenv("ECS_CONTAINER_METADATA_URI", "")
	t.Setenv("AWS_EXECUTION_ENV", "")
	t.Setenv("AWS_PROFILE_OVERRIDE", "")

	c := StorageConfig{AWSProfile: "warehouse"}
	assert.Equal(t, "warehouse", c.GetAWSProfile())

	t.Setenv("AWS_PROFILE_OVERRIDE", "iam")
	assert.Equal(t, "", c.GetAWSProfile())
}
