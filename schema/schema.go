package schema

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Document is the normalized in-memory representation every chef produces.
// Paginated formats populate Pages; flat formats leave it nil and carry the
// full text in Content.
type Document struct {
	// ID uniquely identifies the document for downstream stages.
	ID string
	// Content is the full extracted text of the source file.
	Content string
	// Metadata carries format-specific properties such as page_count,
	// title or word_count. Never nil after construction.
	Metadata map[string]any
	// Pages holds per-page content for paginated formats.
	Pages []Page
}

// Extraction methods recorded on Page.Method.
const (
	MethodText = "text"
	MethodOCR  = "ocr"
)

// Page is a single page of a paginated document.
type Page struct {
	// Number is 1-based.
	Number  int
	Content string
	// Method records how the content was obtained: "text" for a native
	// text layer, "ocr" for recognized raster output.
	Method string
	// Images lists embedded image resources found on the page.
	Images []Image
}

// Image is a lightweight reference to an embedded image resource. The
// framework records what is there without decoding pixel data.
type Image struct {
	Name       string
	Width      int64
	Height     int64
	ColorSpace string
}

// NewDocument creates a document with a fresh ID and a non-nil metadata map.
func NewDocument(content string, metadata map[string]any) *Document {
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return &Document{
		ID:       uuid.NewString(),
		Content:  content,
		Metadata: metadata,
	}
}

func (d *Document) String() string {
	preview := d.Content
	if len(preview) > 60 {
		preview = preview[:57] + "..."
	}
	preview = strings.ReplaceAll(preview, "\n", " ")
	return fmt.Sprintf("Document(%s, %d pages, %q)", d.ID, len(d.Pages), preview)
}

// WordCount reports the number of whitespace-separated tokens in Content.
func (d *Document) WordCount() int {
	return len(strings.Fields(d.Content))
}
