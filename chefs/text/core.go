// Package text implements the chef for plain-text sources. It runs on the
// unmodified base configuration and shows the smallest possible chef:
// validate, read, normalize, count.
package text

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sevigo/gochef/chefs"
	"github.com/sevigo/gochef/schema"
)

const (
	chefName    = "text"
	chefVersion = "1.0.0"
)

// TextChef processes plain-text files into normalized documents.
type TextChef struct {
	chefs.BaseChef

	config *chefs.BaseChefConfig
}

var _ chefs.Chef = (*TextChef)(nil)

// Option configures a TextChef.
type Option func(*TextChef)

// WithConfig replaces the default base configuration.
func WithConfig(cfg *chefs.BaseChefConfig) Option {
	return func(c *TextChef) {
		if cfg != nil {
			c.config = cfg
		}
	}
}

// NewTextChef creates the plain-text chef.
func NewTextChef(logger *slog.Logger, opts ...Option) *TextChef {
	c := &TextChef{
		config: chefs.NewBaseChefConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.BaseChef = chefs.NewBaseChef(chefName, chefVersion, []string{"txt", "text", "log"}, c.config, logger)
	return c
}

// Process reads a text file into a document. Binary payloads (containing
// NUL bytes) fail; line endings are normalized to LF.
func (c *TextChef) Process(ctx context.Context, path string, opts ...chefs.ProcessOption) (*chefs.ProcessingResult, error) {
	if err := c.ValidateFile(path); err != nil {
		return nil, err
	}

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

	data, err := os.ReadFile(path)
	if err != nil {
		finish()
		return chefs.Failure(fmt.Errorf("failed to read file %s: %w", path, err), resultMeta), nil
	}
	if err := ctx.Err(); err != nil {
		finish()
		return chefs.Failure(fmt.Errorf("read %s: %w", path, err), resultMeta), nil
	}

	if idx := bytes.IndexByte(data, 0); idx >= 0 {
		finish()
		return chefs.Failure(
			fmt.Errorf("file %s contains binary content (NUL byte at offset %d)", path, idx),
			resultMeta,
		), nil
	}

	content := normalizeNewlines(string(data))

	lineCount := 0
	if content != "" {
		lineCount = len(strings.Split(content, "\n"))
	}

	docMeta := map[string]any{
		"line_count":      lineCount,
		"word_count":      len(strings.Fields(content)),
		"char_count":      utf8.RuneCountInString(content),
		"file_size_bytes": info.Size(),
		"mod_time":        info.ModTime().Format(time.RFC3339),
	}

	finish()
	c.Logger().Debug("Processed text file",
		"path", path,
		"lines", lineCount,
		"chars", docMeta["char_count"],
		"duration_ms", resultMeta["duration_ms"],
	)
	return chefs.Success(schema.NewDocument(content, docMeta), resultMeta), nil
}

// normalizeNewlines rewrites CRLF and bare CR line endings to LF.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
