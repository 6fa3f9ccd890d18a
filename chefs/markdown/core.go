// Package markdown implements the chef for Markdown sources using
// goldmark: frontmatter-aware, with a title chain and structure stats.
package markdown

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/sevigo/gochef/chefs"
	"github.com/sevigo/gochef/schema"
)

const (
	chefName    = "markdown"
	chefVersion = "1.0.0"
)

const frontMatterSeparator = "---"

// MarkdownChef processes Markdown files into normalized documents.
type MarkdownChef struct {
	chefs.BaseChef

	config *chefs.BaseChefConfig
	md     goldmark.Markdown
}

var _ chefs.Chef = (*MarkdownChef)(nil)

// Option configures a MarkdownChef.
type Option func(*MarkdownChef)

// WithConfig replaces the default base configuration.
func WithConfig(cfg *chefs.BaseChefConfig) Option {
	return func(c *MarkdownChef) {
		if cfg != nil {
			c.config = cfg
		}
	}
}

// NewMarkdownChef creates the Markdown chef.
func NewMarkdownChef(logger *slog.Logger, opts ...Option) *MarkdownChef {
	c := &MarkdownChef{
		config: chefs.NewBaseChefConfig(),
		md:     initGoldmark(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.BaseChef = chefs.NewBaseChef(chefName, chefVersion, []string{"md", "markdown"}, c.config, logger)
	return c
}

func initGoldmark() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Table,
			extension.Strikethrough,
			extension.Linkify,
			extension.TaskList,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
}

// Process reads a Markdown file into a document. Frontmatter is split off
// the content and merged into document metadata; the title falls back from
// frontmatter over the first H1 to the filename.
func (c *MarkdownChef) Process(ctx context.Context, path string, opts ...chefs.ProcessOption) (*chefs.ProcessingResult, error) {
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

	content := normalizeNewlines(string(data))
	lines := strings.Split(content, "\n")

	body := content
	fm, endIdx := c.parseFrontMatter(lines)
	if fm != nil {
		if endIdx+1 < len(lines) {
			body = strings.Join(lines[endIdx+1:], "\n")
		} else {
			body = ""
		}
		body = strings.TrimLeft(body, "\n")
	}

	structure := c.analyzeBody(body)

	title := ""
	if fm != nil {
		title = fm.Properties["title"]
	}
	if title == "" {
		title = structure.FirstH1
	}
	if title == "" {
		title = deriveTitleFromFilename(path)
	}

	lineCount := 0
	if body != "" {
		lineCount = len(strings.Split(body, "\n"))
	}

	docMeta := make(map[string]any)
	if fm != nil {
		for key, value := range fm.Properties {
			docMeta[key] = value
		}
	}
	docMeta["title"] = title
	docMeta["heading_count"] = structure.HeadingCount
	if len(structure.CodeLanguages) > 0 {
		docMeta["code_languages"] = structure.CodeLanguages
	}
	docMeta["line_count"] = lineCount
	docMeta["word_count"] = len(strings.Fields(body))
	docMeta["char_count"] = utf8.RuneCountInString(body)
	docMeta["file_size_bytes"] = info.Size()
	docMeta["mod_time"] = info.ModTime().Format(time.RFC3339)

	finish()
	c.Logger().Debug("Processed markdown file",
		"path", path,
		"title", title,
		"headings", structure.HeadingCount,
		"duration_ms", resultMeta["duration_ms"],
	)
	return chefs.Success(schema.NewDocument(body, docMeta), resultMeta), nil
}

// normalizeNewlines rewrites CRLF and bare CR line endings to LF.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
