package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ignite/cutsheet/internal/cutsheet"
	"github.com/ignite/cutsheet/internal/render"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	CutSheet CutSheetConfig `yaml:"cutsheet"`
	Render   RenderConfig   `yaml:"render"`
	Template TemplateConfig `yaml:"template"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port                int      `yaml:"port"`
	Host                string   `yaml:"host"`
	MaxUploadMB         int      `yaml:"max_upload_mb"`
	AllowedOrigins      []string `yaml:"allowed_origins"`
	ReadTimeoutSeconds  int      `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `yaml:"write_timeout_seconds"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// Addr is host:port for http.Server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.GetHost(), c.Port)
}

// MaxUploadBytes caps multipart uploads.
func (c ServerConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

func (c ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// StorageConfig holds input/output location settings
type StorageConfig struct {
	LocalPath    string `yaml:"local_path"` // base directory for relative paths
	S3Bucket     string `yaml:"s3_bucket"`  // bucket for keys given without s3://
	AWSRegion    string `yaml:"aws_region"`
	AWSProfile   string `yaml:"aws_profile"` // Empty string uses default credential chain (IAM role on ECS)
	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	Endpoint     string `yaml:"endpoint"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

// GetAWSProfile returns the AWS profile, with environment variable override
func (c StorageConfig) GetAWSProfile() string {
	if envProfile := os.Getenv("AWS_PROFILE_OVERRIDE"); envProfile != "" {
		if envProfile == "none" || envProfile == "iam" {
			return ""
		}
		return envProfile
	}
	// On ECS/Lambda, don't use a profile - use IAM role
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return ""
	}
	return c.AWSProfile
}

// CutSheetConfig holds report options. Pointers distinguish "unset" from
// false so defaults survive a partial file.
type CutSheetConfig struct {
	IncludeBundle         *bool  `yaml:"include_bundle"`
	ColorDistinguishesKit *bool  `yaml:"color_distinguishes_kit"`
	TotalMode             string `yaml:"total_mode"`
	RequireOrderRange     *bool  `yaml:"require_order_range"`
}

// RenderConfig holds output presentation settings
type RenderConfig struct {
	Format          string  `yaml:"format"`
	Zeros           string  `yaml:"zeros"`
	OrderRangeRow   *bool   `yaml:"order_range_row"`
	SingleSheet     bool    `yaml:"single_sheet"`
	Shading         bool    `yaml:"shading"`
	MaxColumnWidth  float64 `yaml:"max_column_width"`
	FilenamePattern string  `yaml:"filename_pattern"`
}

// TemplateConfig locates the fixed-layout workbook and its anchor cells
type TemplateConfig struct {
	Path                  string `yaml:"path"`
	render.TemplateLayout `yaml:",inline"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level     string `yaml:"level"`
	RedactPII *bool  `yaml:"redact_pii"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func boolPtr(b bool) *bool { return &b }

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = 20
	}
	if cfg.Server.ReadTimeoutSeconds == 0 {
		cfg.Server.ReadTimeoutSeconds = 30
	}
	if cfg.Server.WriteTimeoutSeconds == 0 {
		cfg.Server.WriteTimeoutSeconds = 60
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.Storage.AWSRegion == "" {
		cfg.Storage.AWSRegion = "us-west-2"
	}

	def := cutsheet.DefaultOptions()
	if cfg.CutSheet.IncludeBundle == nil {
		cfg.CutSheet.IncludeBundle = boolPtr(def.IncludeBundle)
	}
	if cfg.CutSheet.ColorDistinguishesKit == nil {
		cfg.CutSheet.ColorDistinguishesKit = boolPtr(def.ColorDistinguishesKit)
	}
	if cfg.CutSheet.RequireOrderRange == nil {
		cfg.CutSheet.RequireOrderRange = boolPtr(def.RequireOrderRange)
	}
	if cfg.CutSheet.TotalMode == "" {
		cfg.CutSheet.TotalMode = string(def.TotalMode)
	}

	if cfg.Render.Format == "" {
		cfg.Render.Format = string(render.FormatXLSX)
	}
	if cfg.Render.OrderRangeRow == nil {
		cfg.Render.OrderRangeRow = boolPtr(true)
	}
	if cfg.Render.MaxColumnWidth == 0 {
		cfg.Render.MaxColumnWidth = 40
	}
	if cfg.Render.FilenamePattern == "" {
		cfg.Render.FilenamePattern = render.DefaultFilenamePattern
	}

	layout := render.DefaultLayout()
	if cfg.Template.DateCell == "" {
		cfg.Template.DateCell = layout.DateCell
	}
	if cfg.Template.OrderRangeCell == "" {
		cfg.Template.OrderRangeCell = layout.OrderRangeCell
	}
	if cfg.Template.HeaderRow == 0 {
		cfg.Template.HeaderRow = layout.HeaderRow
	}
	if cfg.Template.DateFormat == "" {
		cfg.Template.DateFormat = layout.DateFormat
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "INFO"
	}
	if cfg.Log.RedactPII == nil {
		cfg.Log.RedactPII = boolPtr(true)
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars.
// A missing config file is not an error: defaults plus environment apply.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		cfg = Default()
	}

	if v := os.Getenv("CUTSHEET_FORMAT"); v != "" {
		cfg.Render.Format = v
	}
	if v := os.Getenv("CUTSHEET_TEMPLATE"); v != "" {
		cfg.Template.Path = v
	}
	if v := os.Getenv("CUTSHEET_S3_BUCKET"); v != "" {
		cfg.Storage.S3Bucket = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Storage.AWSRegion = v
	}
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return cfg, nil
}

// Options translates the cutsheet section into pipeline options.
func (cfg *Config) Options() (cutsheet.Options, error) {
	opts := cutsheet.Options{
		IncludeBundle:         *cfg.CutSheet.IncludeBundle,
		ColorDistinguishesKit: *cfg.CutSheet.ColorDistinguishesKit,
		TotalMode:             cutsheet.TotalMode(cfg.CutSheet.TotalMode),
		RequireOrderRange:     *cfg.CutSheet.RequireOrderRange,
	}
	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("cutsheet config: %w", err)
	}
	return opts, nil
}

// RenderOptions translates the render and template sections.
func (cfg *Config) RenderOptions() (render.Options, error) {
	format, err := render.ParseFormat(cfg.Render.Format)
	if err != nil {
		return render.Options{}, fmt.Errorf("render config: %w", err)
	}
	zeros, err := cutsheet.ParseZeroDisplay(cfg.Render.Zeros, "")
	if err != nil {
		return render.Options{}, fmt.Errorf("render config: %w", err)
	}
	return render.Options{
		Format:         format,
		Zeros:          zeros,
		OrderRangeRow:  *cfg.Render.OrderRangeRow,
		SingleSheet:    cfg.Render.SingleSheet,
		Shading:        cfg.Render.Shading,
		MaxColumnWidth: cfg.Render.MaxColumnWidth,
		Layout:         cfg.Template.TemplateLayout,
	}, nil
}
