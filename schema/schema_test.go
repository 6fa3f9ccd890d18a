package schema_test

import (
	"strings"
	"testing"

	"github.com/sevigo/gochef/schema"
)

func TestNewDocument(t *testing.T) {
	doc := schema.NewDocument("hello world", nil)

	if doc.ID == "" {
		t.Error("NewDocument() must assign an ID")
	}
	if doc.Content != "hello world" {
		t.Errorf("Content = %q, want %q", doc.Content, "hello world")
	}
	if doc.Metadata == nil {
		t.Error("Metadata must never be nil after construction")
	}

	other := schema.NewDocument("hello world", nil)
	if doc.ID == other.ID {
		t.Error("documents must get unique IDs")
	}
}

func TestNewDocument_KeepsMetadata(t *testing.T) {
	meta := map[string]any{"page_count": 3}
	doc := schema.NewDocument("", meta)

	if got := doc.Metadata["page_count"]; got != 3 {
		t.Errorf("Metadata[page_count] = %v, want 3", got)
	}
}

func TestDocument_WordCount(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"Empty", "", 0},
		{"Simple", "one two three", 3},
		{"ExtraWhitespace", "  one\n\ttwo  ", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := schema.NewDocument(tt.content, nil)
			if got := doc.WordCount(); got != tt.want {
				t.Errorf("WordCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDocument_String(t *testing.T) {
	long := strings.Repeat("word ", 40)
	doc := schema.NewDocument(long, nil)

	s := doc.String()
	if !strings.Contains(s, doc.ID) {
		t.Errorf("String() = %q, want it to contain the document ID", s)
	}
	if strings.Contains(s, "\n") {
		t.Errorf("String() must flatten newlines, got %q", s)
	}
	if len(s) > 150 {
		t.Errorf("String() should preview, not dump; got %d bytes", len(s))
	}
}
