package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/sevigo/gochef/schema"
)

const pageMarkerTemplate = "\n--- Page %d ---\n"

var (
	spaceRunsRegex  = regexp.MustCompile(`[ \t]+`)
	blankLineRegex  = regexp.MustCompile(`\n[ \t]*\n`)
	manyBlanksRegex = regexp.MustCompile(`\n{3,}`)
)

// pageExtraction is the per-page outcome of the text-layer pass. Pages
// with an empty Text and nil Err simply have no text layer; Err records
// pages the library could not read at all.
type pageExtraction struct {
	Number int
	Text   string
	Method string
	Images []schema.Image
	Err    error
}

// extractPages reads the text layer and, when requested, the embedded
// image references of every page. The context is checked between pages;
// once it is done, remaining pages are recorded as page errors.
func (c *PDFChef) extractPages(ctx context.Context, path, password string, withImages bool) ([]pageExtraction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF file %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info for %s: %w", path, err)
	}

	var reader *pdf.Reader
	if password != "" {
		reader, err = pdf.NewReaderEncrypted(f, info.Size(), func() string { return password })
	} else {
		reader, err = pdf.NewReader(f, info.Size())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF reader for %s: %w", path, err)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		c.Logger().Warn("PDF has no pages", "path", path)
		return []pageExtraction{}, nil
	}

	c.Logger().Debug("PDF text extraction starting", "path", path, "pages", numPages)

	pages := make([]pageExtraction, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			pages = append(pages, pageExtraction{Number: i, Err: fmt.Errorf("page %d: %w", i, err)})
			continue
		}
		pages = append(pages, c.extractPage(reader, i, path, withImages))
	}

	return pages, nil
}

// extractPage reads a single page. The pdf library panics on malformed
// page and resource objects too, so the whole page read is guarded;
// whatever was extracted before a panic is kept alongside the page error.
func (c *PDFChef) extractPage(reader *pdf.Reader, pageNum int, path string, withImages bool) (extraction pageExtraction) {
	extraction = pageExtraction{Number: pageNum}
	defer func() {
		if r := recover(); r != nil {
			extraction.Err = fmt.Errorf("page %d: malformed page object: %v", pageNum, r)
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		c.Logger().Warn("Skipping null page", "page", pageNum, "path", path)
		extraction.Err = fmt.Errorf("page %d is null", pageNum)
		return extraction
	}

	text, err := c.extractPageText(page, pageNum, path)
	if err != nil {
		extraction.Err = err
	} else if text != "" {
		extraction.Text = text
		extraction.Method = schema.MethodText
	}

	if withImages {
		extraction.Images = extractPageImages(page)
	}

	return extraction
}

// extractPageText pulls the text layer of a single page, preferring the
// plain-text path and falling back to raw content tokens.
func (c *PDFChef) extractPageText(page pdf.Page, pageNum int, path string) (text string, err error) {
	// The pdf library panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("page %d: content stream error: %v", pageNum, r)
		}
	}()

	if pageContent, ptErr := page.GetPlainText(nil); ptErr == nil && strings.TrimSpace(pageContent) != "" {
		return cleanExtractedText(pageContent), nil
	}

	var textBuilder bytes.Buffer
	content := page.Content()

	if len(content.Text) > 0 {
		for i, token := range content.Text {
			textBuilder.WriteString(token.S)

			if i < len(content.Text)-1 && !strings.HasSuffix(token.S, " ") && !strings.HasSuffix(token.S, "\n") {
				textBuilder.WriteString(" ")
			}
		}

		extracted := textBuilder.String()
		if strings.TrimSpace(extracted) != "" {
			return cleanExtractedText(extracted), nil
		}
	}

	c.Logger().Debug("No text extracted from page", "page", pageNum, "path", path)
	return "", nil
}

// extractPageImages walks the page's XObject resources and records every
// image without decoding pixel data.
func extractPageImages(page pdf.Page) []schema.Image {
	resources := page.Resources()
	if resources.IsNull() {
		return nil
	}

	xobjects := resources.Key("XObject")
	if xobjects.Kind() != pdf.Dict {
		return nil
	}

	var images []schema.Image
	for _, name := range xobjects.Keys() {
		obj := xobjects.Key(name)
		if obj.Key("Subtype").Name() != "Image" {
			continue
		}
		images = append(images, schema.Image{
			Name:       name,
			Width:      obj.Key("Width").Int64(),
			Height:     obj.Key("Height").Int64(),
			ColorSpace: colorSpaceName(obj.Key("ColorSpace")),
		})
	}
	return images
}

func colorSpaceName(v pdf.Value) string {
	switch v.Kind() {
	case pdf.Name:
		return v.Name()
	case pdf.Array:
		if v.Len() > 0 {
			return v.Index(0).Name()
		}
	}
	return ""
}

// cleanExtractedText normalizes extracted text.
func cleanExtractedText(text string) string {
	text = spaceRunsRegex.ReplaceAllString(text, " ")
	text = blankLineRegex.ReplaceAllString(text, "\n\n")
	text = manyBlanksRegex.ReplaceAllString(text, "\n\n")

	text = strings.ReplaceAll(text, "ï¬‚", "fl")

	return strings.TrimSpace(text)
}

// extractHeuristicTitle guesses a document title from the opening lines
// of the first page with text.
func extractHeuristicTitle(text string) string {
	lines := strings.SplitN(text, "\n", 5)
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) > 10 && len(trimmed) < 150 {
			if i < 2 || isMostlyCapsOrTitleCase(trimmed) {
				return trimmed
			}
		}
	}
	return ""
}

func isMostlyCapsOrTitleCase(s string) bool {
	words := strings.Fields(s)
	if len(words) == 0 {
		return false
	}
	titleCaseWords := 0
	for _, word := range words {
		if len(word) > 0 && unicode.IsUpper(rune(word[0])) {
			titleCaseWords++
		}
	}
	return float64(titleCaseWords)/float64(len(words)) >= 0.6
}
