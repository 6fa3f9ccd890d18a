// Package gochef assembles the built-in chefs into a ready-to-use
// registry. This is the only place the framework enumerates its
// built-ins; adding a format means adding a factory here.
package gochef

import (
	"fmt"
	"log/slog"

	"github.com/sevigo/gochef/chefs"
	"github.com/sevigo/gochef/chefs/markdown"
	"github.com/sevigo/gochef/chefs/pdf"
	"github.com/sevigo/gochef/chefs/text"
	"github.com/sevigo/gochef/ocr"
)

// Option adjusts how the default registry is assembled.
type Option func(*registryOptions)

type registryOptions struct {
	engine ocr.Engine
}

// WithOCREngine hands an OCR engine to the chefs that can use one
// (currently the PDF chef).
func WithOCREngine(engine ocr.Engine) Option {
	return func(o *registryOptions) {
		o.engine = engine
	}
}

// DefaultRegistry builds a registry populated with the built-in chefs.
func DefaultRegistry(logger *slog.Logger, opts ...Option) (*chefs.Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var options registryOptions
	for _, opt := range opts {
		opt(&options)
	}

	registry := chefs.NewRegistry(logger)

	chefFactories := []struct {
		name  string
		build func(*slog.Logger) chefs.Chef
	}{
		{"pdf", func(l *slog.Logger) chefs.Chef {
			var pdfOpts []pdf.Option
			if options.engine != nil {
				pdfOpts = append(pdfOpts, pdf.WithOCREngine(options.engine))
			}
			return pdf.NewPDFChef(l, pdfOpts...)
		}},
		{"text", func(l *slog.Logger) chefs.Chef {
			return text.NewTextChef(l)
		}},
		{"markdown", func(l *slog.Logger) chefs.Chef {
			return markdown.NewMarkdownChef(l)
		}},
	}

	for _, factory := range chefFactories {
		chef := factory.build(logger)
		if err := registry.Register(chef); err != nil {
			return registry, fmt.Errorf("failed to register chef %s: %w", factory.name, err)
		}
	}

	logger.Info("Chefs registered", "count", len(registry.All()))
	return registry, nil
}
