// Package pdf implements the chef for PDF sources: native text-layer
// extraction with optional OCR fallback and embedded image accounting.
package pdf

import (
	"log/slog"

	"github.com/sevigo/gochef/chefs"
	"github.com/sevigo/gochef/ocr"
)

const (
	chefName    = "pdf"
	chefVersion = "1.0.0"
)

// PDFChef processes PDF files into normalized documents.
type PDFChef struct {
	chefs.BaseChef

	config     *PDFChefConfig
	engine     ocr.Engine
	rasterizer Rasterizer
}

var _ chefs.Chef = (*PDFChef)(nil)

// Option configures a PDFChef.
type Option func(*PDFChef)

// WithConfig replaces the default configuration.
func WithConfig(cfg *PDFChefConfig) Option {
	return func(c *PDFChef) {
		if cfg != nil {
			c.config = cfg
		}
	}
}

// WithOCREngine attaches the engine used for pages without a text layer.
func WithOCREngine(engine ocr.Engine) Option {
	return func(c *PDFChef) {
		c.engine = engine
	}
}

// WithRasterizer replaces the pdftoppm-backed page rasterizer.
func WithRasterizer(r Rasterizer) Option {
	return func(c *PDFChef) {
		if r != nil {
			c.rasterizer = r
		}
	}
}

// NewPDFChef creates the PDF chef. Without an OCR engine the chef still
// works on text-layer PDFs; scanned pages then come back empty.
func NewPDFChef(logger *slog.Logger, opts ...Option) *PDFChef {
	c := &PDFChef{
		config: NewPDFChefConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rasterizer == nil {
		c.rasterizer = NewPopplerRasterizer(logger)
	}
	c.BaseChef = chefs.NewBaseChef(chefName, chefVersion, []string{"pdf"}, c.config, logger)
	return c
}

// Metadata extends the base description with the attached OCR engine.
func (c *PDFChef) Metadata() map[string]any {
	m := c.BaseChef.Metadata()
	if c.engine != nil {
		m["ocr_engine"] = c.engine.Name()
	}
	return m
}
