package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sevigo/gochef/chefs"
	"github.com/sevigo/gochef/ocr"
	"github.com/sevigo/gochef/schema"
)

// Process converts a PDF file into a normalized document. The returned
// error is non-nil only for pre-flight validation; extraction problems
// are reported through the result status.
//
// Recognized per-call settings: "password" for encrypted files.
func (c *PDFChef) Process(ctx context.Context, path string, opts ...chefs.ProcessOption) (*chefs.ProcessingResult, error) {
	if err := c.ValidateFile(path); err != nil {
		return nil, err
	}

	options := chefs.ApplyProcessOptions(opts...)
	password, _ := options.StringSetting("password")

	if timeout := c.config.Timeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	resultMeta := map[string]any{"source": path}
	finish := func() {
		resultMeta["duration_ms"] = time.Since(start).Milliseconds()
	}

	info, err := os.Stat(path)
	if err != nil {
		finish()
		return chefs.Failure(fmt.Errorf("failed to get file info for %s: %w", path, err), resultMeta), nil
	}
	if limit := c.config.MaxFileSize; limit != nil && info.Size() > *limit {
		finish()
		return chefs.Failure(
			fmt.Errorf("%w: %d bytes exceeds limit of %d", chefs.ErrFileTooLarge, info.Size(), *limit),
			resultMeta,
		), nil
	}

	pages, err := c.extractPages(ctx, path, password, c.config.ExtractImages)
	if err != nil {
		finish()
		return chefs.Failure(err, resultMeta), nil
	}

	ocrPages := 0
	if c.config.OCREnabled {
		ocrPages = c.recognizeEmptyPages(ctx, path, password, pages)
	}

	var (
		contentBuilder strings.Builder
		docPages       = make([]schema.Page, 0, len(pages))
		pageErrs       []error
		imageCount     int
		firstText      string
	)
	for _, p := range pages {
		if p.Err != nil {
			pageErrs = append(pageErrs, p.Err)
		}
		if p.Text != "" {
			if firstText == "" {
				firstText = p.Text
			}
			contentBuilder.WriteString(fmt.Sprintf(pageMarkerTemplate, p.Number))
			contentBuilder.WriteString(p.Text)
			contentBuilder.WriteString("\n")
		}
		imageCount += len(p.Images)
		docPages = append(docPages, schema.Page{
			Number:  p.Number,
			Content: p.Text,
			Method:  p.Method,
			Images:  p.Images,
		})
	}
	content := strings.TrimSpace(contentBuilder.String())

	finish()
	if len(pageErrs) > 0 {
		resultMeta["pages_failed"] = len(pageErrs)
	}

	if len(pages) > 0 && len(pageErrs) == len(pages) {
		return chefs.Failure(errors.Join(pageErrs...), resultMeta), nil
	}

	title := extractHeuristicTitle(firstText)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	docMeta := map[string]any{
		"page_count":      len(pages),
		"ocr_pages":       ocrPages,
		"title":           title,
		"file_size_bytes": info.Size(),
		"mod_time":        info.ModTime().Format(time.RFC3339),
	}
	if c.config.ExtractImages {
		docMeta["image_count"] = imageCount
	}

	doc := schema.NewDocument(content, docMeta)
	doc.Pages = docPages

	if len(pageErrs) > 0 {
		return chefs.Partial(doc, errors.Join(pageErrs...), resultMeta), nil
	}

	if content == "" && len(pages) > 0 {
		c.Logger().Warn("No text extracted from PDF", "path", path, "pages", len(pages))
	}
	c.Logger().Info("Processed PDF",
		"path", path,
		"pages", len(pages),
		"ocr_pages", ocrPages,
		"chars", len(content),
		"duration_ms", resultMeta["duration_ms"],
	)
	return chefs.Success(doc, resultMeta), nil
}

// recognizeEmptyPages runs OCR over pages that came back without a text
// layer, mutating pages in place. Per-page OCR problems degrade that page
// only. Returns how many pages were recognized.
func (c *PDFChef) recognizeEmptyPages(ctx context.Context, path, password string, pages []pageExtraction) int {
	empty := 0
	for i := range pages {
		if pages[i].Text == "" && pages[i].Err == nil {
			empty++
		}
	}
	if empty == 0 {
		return 0
	}
	if c.engine == nil {
		c.Logger().Warn("OCR enabled but no engine attached, keeping text layer only",
			"path", path, "empty_pages", empty)
		return 0
	}

	dpi := c.rasterDPI()
	recognized := 0
	for i := range pages {
		if pages[i].Text != "" || pages[i].Err != nil {
			continue
		}
		if ctx.Err() != nil {
			pages[i].Err = fmt.Errorf("page %d: %w", pages[i].Number, ctx.Err())
			continue
		}

		image, err := c.rasterizer.RasterizePage(ctx, path, pages[i].Number, dpi, password)
		if err != nil {
			pages[i].Err = fmt.Errorf("page %d: rasterize: %w", pages[i].Number, err)
			continue
		}

		input := ocr.NewInput(image,
			ocr.WithID(fmt.Sprintf("%s#%d", filepath.Base(path), pages[i].Number)),
			ocr.WithPage(pages[i].Number),
			ocr.WithDPI(dpi),
			ocr.WithLanguages(c.config.Language),
		)
		result, err := c.engine.Recognize(ctx, input)
		if err != nil {
			pages[i].Err = fmt.Errorf("page %d: ocr: %w", pages[i].Number, err)
			continue
		}

		text := strings.TrimSpace(result.Text)
		if text == "" {
			c.Logger().Debug("OCR produced no text", "page", pages[i].Number, "path", path)
			continue
		}

		pages[i].Text = text
		pages[i].Method = schema.MethodOCR
		recognized++
		c.Logger().Debug("Recognized page",
			"page", pages[i].Number,
			"engine", c.engine.Name(),
			"confidence", result.Confidence,
			"chars", len(text),
		)
	}
	return recognized
}

// rasterDPI resolves the render resolution, honoring the "ocr_dpi"
// additional setting.
func (c *PDFChef) rasterDPI() int {
	if v, ok := c.config.AdditionalSettings["ocr_dpi"]; ok {
		switch n := v.(type) {
		case int:
			if n > 0 {
				return n
			}
		case int64:
			if n > 0 {
				return int(n)
			}
		case float64:
			if n > 0 {
				return int(n)
			}
		}
	}
	return DefaultRasterDPI
}
