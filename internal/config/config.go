// Package config provides configuration types and defaults for lensfolio.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lensfolio/lensfolio/internal/log"
	"github.com/lensfolio/lensfolio/internal/registration"
	"github.com/lensfolio/lensfolio/internal/tracing"
)

// Config holds all configuration options for lensfolio.
type Config struct {
	Server  ServerConfig         `mapstructure:"server"`
	Form    FormConfig           `mapstructure:"form"`
	UI      UIConfig             `mapstructure:"ui"`
	Photo   PhotoConfig          `mapstructure:"photo"`
	Catalog registration.Catalog `mapstructure:"catalog"`
	Tracing tracing.Config       `mapstructure:"tracing"`
}

// ServerConfig locates the registration service.
type ServerConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"` // per request, e.g. "15s"
	RegisterPath string        `mapstructure:"register_path"`
	UploadPath   string        `mapstructure:"upload_path"`
}

// FormConfig holds form defaults.
type FormConfig struct {
	CreatorType string `mapstructure:"creator_type"` // tab selected on a fresh form
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
	ShowPreview   bool   `mapstructure:"show_preview"`
	ShowHelp      bool   `mapstructure:"show_help"`
}

// PhotoConfig controls profile photo previews.
type PhotoConfig struct {
	PreviewWidth  int           `mapstructure:"preview_width"` // terminal cells
	Watch         bool          `mapstructure:"watch"`         // re-decode when the file changes
	WatchDebounce time.Duration `mapstructure:"watch_debounce"`
}

// DefaultTracesFilePath returns ~/.config/lensfolio/traces/traces.jsonl, or
// "" when the home directory is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "lensfolio", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	tc := tracing.DefaultConfig()
	tc.FilePath = DefaultTracesFilePath()
	return Config{
		Server: ServerConfig{
			BaseURL:      "http://localhost:5000",
			Timeout:      15 * time.Second,
			RegisterPath: "/register",
			UploadPath:   "/upload_profile_photo",
		},
		Form: FormConfig{
			CreatorType: string(registration.Photographer),
		},
		UI: UIConfig{
			MarkdownStyle: "dark",
			ShowPreview:   true,
			ShowHelp:      true,
		},
		Photo: PhotoConfig{
			PreviewWidth:  24,
			Watch:         true,
			WatchDebounce: 300 * time.Millisecond,
		},
		Catalog: registration.DefaultCatalog(),
		Tracing: tc,
	}
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := ValidateServer(c.Server); err != nil {
		return err
	}
	if c.Form.CreatorType != "" {
		if _, err := registration.ParseCreatorType(c.Form.CreatorType); err != nil {
			return fmt.Errorf("form.creator_type: %w", err)
		}
	}
	switch c.UI.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", c.UI.MarkdownStyle)
	}
	if c.Photo.PreviewWidth < 0 || c.Photo.PreviewWidth > 200 {
		return fmt.Errorf("photo.preview_width must be between 0 and 200, got %d", c.Photo.PreviewWidth)
	}
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateServer checks the registration service settings.
func ValidateServer(s ServerConfig) error {
	u, err := url.Parse(s.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("server.base_url must be an http(s) URL, got %q", s.BaseURL)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("server.timeout must not be negative, got %s", s.Timeout)
	}
	for key, p := range map[string]string{"register_path": s.RegisterPath, "upload_path": s.UploadPath} {
		if p != "" && !strings.HasPrefix(p, "/") {
			return fmt.Errorf("server.%s must start with \"/\", got %q", key, p)
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tc tracing.Config) error {
	if tc.SampleRate < 0.0 || tc.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tc.SampleRate)
	}

	switch tc.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tc.Exporter)
	}

	if tc.Enabled {
		if tc.Exporter == "file" && tc.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tc.Exporter == "otlp" && tc.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// CreatorType returns the configured initial tab, defaulting to photographer.
func (c Config) CreatorType() registration.CreatorType {
	if ct, err := registration.ParseCreatorType(c.Form.CreatorType); err == nil {
		return ct
	}
	return registration.Photographer
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# lensfolio configuration

# Registration service
server:
  base_url: http://localhost:5000
  timeout: 15s                  # per request
  # register_path: /register
  # upload_path: /upload_profile_photo

form:
  creator_type: photographer    # tab selected on a fresh form: photographer or editor

ui:
  markdown_style: dark          # "dark" or "light", used by submit --dry-run
  show_preview: true            # render the staged photo in the form
  show_help: true

photo:
  preview_width: 24             # preview width in terminal cells
  watch: true                   # refresh the preview when the file changes on disk
  watch_debounce: 300ms

# Services and payment methods offered by the form. Uncomment to override.
# catalog:
#   photographer:
#     - id: wedding_photography
#       label: Wedding Photography
#   editor:
#     - id: photo_editing
#       label: Photo Editing
#   payment_methods:
#     - id: upi
#       label: UPI

# Distributed tracing (OpenTelemetry)
# tracing:
#   enabled: true
#   exporter: file             # none, file, stdout, otlp
#   file_path: ~/.config/lensfolio/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
