package chefs

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// BaseChef owns the identity, configuration and pre-flight validation
// shared by every chef. Concrete chefs embed it and add Process.
type BaseChef struct {
	name    string
	version string
	formats []string
	config  Config
	logger  *slog.Logger
}

// NewBaseChef builds the shared chef core. Formats are normalized to
// lowercase without a leading dot; a nil config gets the framework
// defaults and a nil logger falls back to slog.Default. The logger is
// decorated with the chef name.
func NewBaseChef(name, version string, formats []string, config Config, logger *slog.Logger) BaseChef {
	if config == nil {
		config = NewBaseChefConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	normalized := make([]string, 0, len(formats))
	for _, f := range formats {
		f = NormalizeFormat(f)
		if f == "" {
			continue
		}
		normalized = append(normalized, f)
	}

	return BaseChef{
		name:    name,
		version: version,
		formats: normalized,
		config:  config,
		logger:  logger.With("chef", name),
	}
}

// NormalizeFormat lowercases a format or extension and strips the leading
// dot, so ".PDF", "PDF" and "pdf" all compare equal.
func NormalizeFormat(format string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
}

func (c *BaseChef) Name() string    { return c.name }
func (c *BaseChef) Version() string { return c.version }

// SupportedFormats returns a copy of the normalized format list.
func (c *BaseChef) SupportedFormats() []string {
	formats := make([]string, len(c.formats))
	copy(formats, c.formats)
	return formats
}

func (c *BaseChef) Config() Config       { return c.config }
func (c *BaseChef) Logger() *slog.Logger { return c.logger }

// Metadata describes the chef: identity, flattened config and formats.
func (c *BaseChef) Metadata() map[string]any {
	return map[string]any{
		"name":    c.name,
		"version": c.version,
		"config":  c.config.ToMap(),
		"formats": c.SupportedFormats(),
	}
}

// ValidateFile runs the shallow pre-flight checks, in fixed order: the
// path must point to an existing readable regular file, and its extension
// must be one of the supported formats. Content is deliberately not
// inspected; a misnamed file passes here and fails during Process.
func (c *BaseChef) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		c.logger.Debug("Validation failed, cannot stat file", "path", path, "error", err)
		return newValidationError(path, ErrFileNotFound, "")
	}
	if info.IsDir() {
		return newValidationError(path, ErrFileNotFound, "path is a directory")
	}

	f, err := os.Open(path)
	if err != nil {
		c.logger.Debug("Validation failed, cannot open file", "path", path, "error", err)
		return newValidationError(path, ErrFileNotReadable, err.Error())
	}
	_ = f.Close()

	format := NormalizeFormat(filepath.Ext(path))
	for _, supported := range c.formats {
		if format == supported {
			return nil
		}
	}

	detail := "file has no extension"
	if format != "" {
		detail = "got ." + format
	}
	return newValidationError(path, ErrUnsupportedFormat, detail)
}
