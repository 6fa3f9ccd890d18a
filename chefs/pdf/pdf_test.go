package pdf_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/gochef/chefs"
	"github.com/sevigo/gochef/chefs/pdf"
	logger "github.com/sevigo/gochef/chefs/testing"
	"github.com/sevigo/gochef/ocr/fake"
	"github.com/sevigo/gochef/schema"
)

// buildPDF assembles a minimal but well-formed PDF from numbered object
// bodies, computing the xref offsets so the file parses byte-exactly.
func buildPDF(objects ...string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects)+1)
	for i, body := range objects {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets[1:] {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xref)
	return buf.Bytes()
}

func streamObject(dictExtra, data string) string {
	return fmt.Sprintf("<< /Length %d%s >>\nstream\n%sendstream", len(data), dictExtra, data)
}

// textPDF has one page with a real text layer saying "Hello World" and one
// embedded image reference.
func textPDF() []byte {
	content := "BT /F1 12 Tf 72 720 Td (Hello World) Tj ET\n"
	return buildPDF(
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R "+
			"/Resources << /Font << /F1 5 0 R >> /XObject << /Im1 6 0 R >> >> >>",
		streamObject("", content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		streamObject(" /Type /XObject /Subtype /Image /Width 100 /Height 50 /ColorSpace /DeviceRGB /BitsPerComponent 8", ""),
	)
}

// scannedPDF has one page with an empty content stream, i.e. no text layer.
func scannedPDF() []byte {
	return buildPDF(
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << >> >>",
		streamObject("", ""),
	)
}

// mixedPDF has a first page with text and a second without.
func mixedPDF() []byte {
	content := "BT /F1 12 Tf 72 720 Td (Printed Page) Tj ET\n"
	return buildPDF(
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R 5 0 R] /Count 2 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R "+
			"/Resources << /Font << /F1 7 0 R >> >> >>",
		streamObject("", content),
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 6 0 R /Resources << >> >>",
		streamObject("", ""),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	)
}

// emptyPDF has a page tree with an empty kid list.
func emptyPDF() []byte {
	return buildPDF(
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [] /Count 0 >>",
	)
}

// malformedPagePDF has a valid first page and a second page object whose
// body is not a parseable PDF object.
func malformedPagePDF() []byte {
	content := "BT /F1 12 Tf 72 720 Td (Printed Page) Tj ET\n"
	return buildPDF(
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R 5 0 R] /Count 2 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R "+
			"/Resources << /Font << /F1 6 0 R >> >> >>",
		streamObject("", content),
		"garbage",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	)
}

func writePDF(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

type fakeRasterizer struct {
	pages     []int
	dpis      []int
	passwords []string
	image     []byte
	err       error
}

func (f *fakeRasterizer) RasterizePage(_ context.Context, _ string, page, dpi int, password string) ([]byte, error) {
	f.pages = append(f.pages, page)
	f.dpis = append(f.dpis, dpi)
	f.passwords = append(f.passwords, password)
	if f.err != nil {
		return nil, f.err
	}
	return f.image, nil
}

func TestPDFChefConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg := pdf.NewPDFChefConfig()

		assert.True(t, cfg.OCREnabled)
		assert.True(t, cfg.ExtractImages)
		assert.Equal(t, "eng", cfg.Language)
		assert.Equal(t, 300*time.Second, cfg.Timeout)
		assert.Nil(t, cfg.MaxFileSize)
	})

	t.Run("Update", func(t *testing.T) {
		cfg := pdf.NewPDFChefConfig()
		cfg.Update(map[string]any{
			"ocr_enabled": false,
			"language":    "deu",
			"timeout":     600,
			"ocr_dpi":     400,
		})

		assert.False(t, cfg.OCREnabled)
		assert.Equal(t, "deu", cfg.Language)
		assert.Equal(t, 600*time.Second, cfg.Timeout)
		assert.Equal(t, 400, cfg.AdditionalSettings["ocr_dpi"])
		assert.NotContains(t, cfg.AdditionalSettings, "language")
	})

	t.Run("ToMap", func(t *testing.T) {
		m := pdf.NewPDFChefConfig().ToMap()

		assert.Equal(t, true, m["ocr_enabled"])
		assert.Equal(t, true, m["extract_images"])
		assert.Equal(t, "eng", m["language"])
		assert.Equal(t, 300, m["timeout"])
	})

	t.Run("Validate", func(t *testing.T) {
		cfg := pdf.NewPDFChefConfig()
		require.NoError(t, cfg.Validate())

		cfg.Language = ""
		assert.Error(t, cfg.Validate(), "OCR without a language hint is a misconfiguration")

		cfg.OCREnabled = false
		assert.NoError(t, cfg.Validate())
	})
}

func TestPDFChef_Identity(t *testing.T) {
	log, _ := logger.NewTestLogger(t)
	chef := pdf.NewPDFChef(log)

	assert.Equal(t, "pdf", chef.Name())
	assert.Equal(t, "1.0.0", chef.Version())
	assert.Equal(t, []string{"pdf"}, chef.SupportedFormats())

	meta := chef.Metadata()
	assert.NotContains(t, meta, "ocr_engine")

	withEngine := pdf.NewPDFChef(log, pdf.WithOCREngine(fake.NewEngine()))
	assert.Equal(t, "fake", withEngine.Metadata()["ocr_engine"])
}

func TestPDFChef_ProcessTextLayer(t *testing.T) {
	log, _ := logger.NewTestLogger(t)
	engine := fake.NewEngine("should not be used")
	chef := pdf.NewPDFChef(log,
		pdf.WithOCREngine(engine),
		pdf.WithRasterizer(&fakeRasterizer{image: []byte("png")}),
	)
	path := writePDF(t, textPDF())

	result, err := chef.Process(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, chefs.StatusSuccess, result.Status, "err: %v", result.Err)
	require.NoError(t, result.Validate())

	doc := result.Document
	assert.Contains(t, doc.Content, "Hello World")
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, schema.MethodText, doc.Pages[0].Method)
	assert.Zero(t, engine.CallCount(), "pages with a text layer must not be OCRed")

	assert.Equal(t, 1, doc.Metadata["page_count"])
	assert.Equal(t, 0, doc.Metadata["ocr_pages"])
	assert.Equal(t, "Hello World", doc.Metadata["title"])
	assert.Contains(t, doc.Metadata, "mod_time")

	require.Len(t, doc.Pages[0].Images, 1)
	image := doc.Pages[0].Images[0]
	assert.Equal(t, "Im1", image.Name)
	assert.Equal(t, int64(100), image.Width)
	assert.Equal(t, int64(50), image.Height)
	assert.Equal(t, "DeviceRGB", image.ColorSpace)
	assert.Equal(t, 1, doc.Metadata["image_count"])

	assert.Equal(t, path, result.Metadata["source"])
	assert.Contains(t, result.Metadata, "duration_ms")
}

func TestPDFChef_ProcessOCRFallback(t *testing.T) {
	log, _ := logger.NewTestLogger(t)
	engine := fake.NewEngine("Scanned invoice text")
	rasterizer := &fakeRasterizer{image: []byte("png-bytes")}
	chef := pdf.NewPDFChef(log,
		pdf.WithOCREngine(engine),
		pdf.WithRasterizer(rasterizer),
	)
	path := writePDF(t, scannedPDF())

	result, err := chef.Process(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, chefs.StatusSuccess, result.Status, "err: %v", result.Err)

	doc := result.Document
	assert.Contains(t, doc.Content, "Scanned invoice text")
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, schema.MethodOCR, doc.Pages[0].Method)
	assert.Equal(t, 1, doc.Metadata["ocr_pages"])

	require.Equal(t, []int{1}, rasterizer.pages)
	assert.Equal(t, []int{pdf.DefaultRasterDPI}, rasterizer.dpis)

	inputs := engine.Inputs()
	require.Len(t, inputs, 1)
	assert.Equal(t, []byte("png-bytes"), inputs[0].Image)
	assert.Equal(t, []string{"eng"}, inputs[0].Languages)
	assert.Equal(t, 1, inputs[0].Page)
	assert.Equal(t, pdf.DefaultRasterDPI, inputs[0].DPI)
}

func TestPDFChef_OCRRespectsDPISetting(t *testing.T) {
	log, _ := logger.NewTestLogger(t)
	cfg := pdf.NewPDFChefConfig()
	cfg.Update(map[string]any{"ocr_dpi": 400, "language": "deu"})

	rasterizer := &fakeRasterizer{image: []byte("png")}
	chef := pdf.NewPDFChef(log,
		pdf.WithConfig(cfg),
		pdf.WithOCREngine(fake.NewEngine("ok")),
		pdf.WithRasterizer(rasterizer),
	)
	path := writePDF(t, scannedPDF())

	result, err := chef.Process(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, chefs.StatusSuccess, result.Status)

	assert.Equal(t, []int{400}, rasterizer.dpis)
}

func TestPDFChef_PasswordReachesRasterizer(t *testing.T) {
	log, _ := logger.NewTestLogger(t)
	rasterizer := &fakeRasterizer{image: []byte("png")}
	chef := pdf.NewPDFChef(log,
		pdf.WithOCREngine(fake.NewEngine("decrypted text")),
		pdf.WithRasterizer(rasterizer),
	)
	path := writePDF(t, scannedPDF())

	result, err := chef.Process(context.Background(), path, chefs.WithPassword("hunter2"))
	require.NoError(t, err)
	require.Equal(t, chefs.StatusSuccess, result.Status, "err: %v", result.Err)

	assert.Contains(t, result.Document.Content, "decrypted text")
	assert.Equal(t, []string{"hunter2"}, rasterizer.passwords)
}

func TestPDFChef_OCRDisabled(t *testing.T) {
	log, _ := logger.NewTestLogger(t)
	cfg := pdf.NewPDFChefConfig()
	cfg.Update(map[string]any{"ocr_enabled": false})

	engine := fake.NewEngine("unused")
	chef := pdf.NewPDFChef(log, pdf.WithConfig(cfg), pdf.WithOCREngine(engine))
	path := writePDF(t, scannedPDF())

	result, err := chef.Process(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, chefs.StatusSuccess, result.Status)

	assert.Empty(t, result.Document.Content)
	assert.Zero(t, engine.CallCount())
	assert.Equal(t, 0, result.Document.Metadata["ocr_pages"])
}

func TestPDFChef_OCRWithoutEngine(t *testing.T) {
	log, buf := logger.NewTestLogger(t)
	chef := pdf.NewPDFChef(log, pdf.WithRasterizer(&fakeRasterizer{image: []byte("png")}))
	path := writePDF(t, scannedPDF())

	result, err := chef.Process(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, chefs.StatusSuccess, result.Status)

	assert.Empty(t, result.Document.Content)
	assert.Contains(t, buf.String(), "no engine attached")
}

func TestPDFChef_PartialOnOCRError(t *testing.T) {
	log, _ := logger.NewTestLogger(t)
	engine := fake.NewEngine()
	engine.FailWith(errors.New("tesseract exploded"))
	chef := pdf.NewPDFChef(log,
		pdf.WithOCREngine(engine),
		pdf.WithRasterizer(&fakeRasterizer{image: []byte("png")}),
	)
	path := writePDF(t, mixedPDF())

	result, err := chef.Process(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, chefs.StatusPartial, result.Status)
	require.NoError(t, result.Validate())

	doc := result.Document
	assert.Contains(t, doc.Content, "Printed Page")
	assert.ErrorContains(t, result.Err, "tesseract exploded")
	assert.Equal(t, 1, result.Metadata["pages_failed"])

	require.Len(t, doc.Pages, 2)
	assert.Equal(t, schema.MethodText, doc.Pages[0].Method)
	assert.Empty(t, doc.Pages[1].Content)
}

func TestPDFChef_FailureWhenAllPagesFail(t *testing.T) {
	log, _ := logger.NewTestLogger(t)
	chef := pdf.NewPDFChef(log,
		pdf.WithOCREngine(fake.NewEngine("unreached")),
		pdf.WithRasterizer(&fakeRasterizer{err: errors.New("pdftoppm missing")}),
	)
	path := writePDF(t, scannedPDF())

	result, err := chef.Process(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, chefs.StatusFailure, result.Status)
	require.NoError(t, result.Validate())

	assert.Nil(t, result.Document)
	assert.ErrorContains(t, result.Err, "pdftoppm missing")
}

func TestPDFChef_CorruptFile(t *testing.T) {
	log, _ := logger.NewTestLogger(t)
	chef := pdf.NewPDFChef(log)
	path := writePDF(t, []byte("%PDF-1.4\nthis is not a real pdf"))

	result, err := chef.Process(context.Background(), path)
	require.NoError(t, err, "a corrupt file is a processing failure, not validation")
	require.Equal(t, chefs.StatusFailure, result.Status)
	assert.Error(t, result.Err)
}

func TestPDFChef_ZeroPages(t *testing.T) {
	log, buf := logger.NewTestLogger(t)
	chef := pdf.NewPDFChef(log)
	path := writePDF(t, emptyPDF())

	result, err := chef.Process(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, chefs.StatusSuccess, result.Status, "err: %v", result.Err)
	require.NoError(t, result.Validate())

	assert.Empty(t, result.Document.Content)
	assert.Empty(t, result.Document.Pages)
	assert.Equal(t, 0, result.Document.Metadata["page_count"])
	assert.Contains(t, buf.String(), "no pages")
}

func TestPDFChef_PartialOnMalformedPage(t *testing.T) {
	log, _ := logger.NewTestLogger(t)
	chef := pdf.NewPDFChef(log)
	path := writePDF(t, malformedPagePDF())

	result, err := chef.Process(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, chefs.StatusPartial, result.Status)
	require.NoError(t, result.Validate())

	assert.Contains(t, result.Document.Content, "Printed Page")
	assert.ErrorContains(t, result.Err, "page 2")
	assert.Equal(t, 1, result.Metadata["pages_failed"])
}

func TestPDFChef_SizeLimit(t *testing.T) {
	log, _ := logger.NewTestLogger(t)
	cfg := pdf.NewPDFChefConfig()
	cfg.Update(map[string]any{"max_file_size": 16})

	chef := pdf.NewPDFChef(log, pdf.WithConfig(cfg))
	path := writePDF(t, textPDF())

	result, err := chef.Process(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, chefs.StatusFailure, result.Status)
	assert.ErrorIs(t, result.Err, chefs.ErrFileTooLarge)
}

func TestPDFChef_Validation(t *testing.T) {
	log, _ := logger.NewTestLogger(t)
	chef := pdf.NewPDFChef(log)

	t.Run("MissingFile", func(t *testing.T) {
		_, err := chef.Process(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
		require.Error(t, err)

		var vErr *chefs.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.ErrorIs(t, err, chefs.ErrFileNotFound)
	})

	t.Run("WrongExtension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "doc.txt")
		require.NoError(t, os.WriteFile(path, []byte("text"), 0o600))

		_, err := chef.Process(context.Background(), path)
		assert.ErrorIs(t, err, chefs.ErrUnsupportedFormat)
	})
}

func TestPDFChef_TimeoutCancelsOCR(t *testing.T) {
	log, _ := logger.NewTestLogger(t)
	cfg := pdf.NewPDFChefConfig()
	cfg.Timeout = time.Nanosecond

	chef := pdf.NewPDFChef(log,
		pdf.WithConfig(cfg),
		pdf.WithOCREngine(fake.NewEngine("unreached")),
		pdf.WithRasterizer(&fakeRasterizer{image: []byte("png")}),
	)
	path := writePDF(t, scannedPDF())

	result, err := chef.Process(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, chefs.StatusFailure, result.Status)
	assert.ErrorIs(t, result.Err, context.DeadlineExceeded)
}

func TestPDFChef_CancelledContext(t *testing.T) {
	log, _ := logger.NewTestLogger(t)
	chef := pdf.NewPDFChef(log)
	path := writePDF(t, textPDF())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := chef.Process(ctx, path)
	require.NoError(t, err)
	require.Equal(t, chefs.StatusFailure, result.Status)
	assert.ErrorIs(t, result.Err, context.Canceled)
}

func TestPDFChef_ImageExtractionDisabled(t *testing.T) {
	log, _ := logger.NewTestLogger(t)
	cfg := pdf.NewPDFChefConfig()
	cfg.Update(map[string]any{"extract_images": false})

	chef := pdf.NewPDFChef(log, pdf.WithConfig(cfg))
	path := writePDF(t, textPDF())

	result, err := chef.Process(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, chefs.StatusSuccess, result.Status)

	assert.Empty(t, result.Document.Pages[0].Images)
	assert.NotContains(t, result.Document.Metadata, "image_count")
}
