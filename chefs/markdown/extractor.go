package markdown

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// frontMatter is the parsed leading `---` block of a Markdown file.
type frontMatter struct {
	// Properties holds the stringified frontmatter values.
	Properties map[string]string
}

// bodyStructure summarizes what the goldmark AST walk found.
type bodyStructure struct {
	FirstH1       string
	HeadingCount  int
	CodeLanguages []string
}

// parseFrontMatter extracts the YAML frontmatter, if any. Returns the
// parsed block and the line index of the closing separator, or (nil, -1).
func (c *MarkdownChef) parseFrontMatter(lines []string) (*frontMatter, int) {
	if len(lines) < 3 || lines[0] != frontMatterSeparator {
		return nil, -1
	}

	endIdx := -1
	for i := 1; i < len(lines); i++ {
		if lines[i] == frontMatterSeparator {
			endIdx = i
			break
		}
	}
	if endIdx <= 1 {
		c.Logger().Debug("Invalid frontmatter structure, no closing separator found")
		return nil, -1
	}

	fm := &frontMatter{
		Properties: make(map[string]string),
	}

	yamlContent := strings.Join(lines[1:endIdx], "\n")
	var yamlData map[string]any

	if err := yaml.Unmarshal([]byte(yamlContent), &yamlData); err != nil {
		c.Logger().Debug("Failed to parse YAML frontmatter", "error", err)
		parseSimpleFrontMatter(lines[1:endIdx], fm)
	} else {
		for key, value := range yamlData {
			fm.Properties[key] = fmt.Sprintf("%v", value)
		}
	}

	return fm, endIdx
}

// parseSimpleFrontMatter is the fallback for frontmatter the YAML parser
// rejects: plain `key: value` lines, quotes stripped.
func parseSimpleFrontMatter(lines []string, fm *frontMatter) {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}

		if (strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"")) ||
			(strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'")) {
			if len(value) >= 2 {
				value = value[1 : len(value)-1]
			}
		}

		fm.Properties[key] = value
	}
}

// analyzeBody walks the goldmark AST of the frontmatter-free body and
// collects the first H1, the heading count and fenced code languages.
func (c *MarkdownChef) analyzeBody(body string) bodyStructure {
	var structure bodyStructure
	if body == "" {
		return structure
	}

	source := []byte(body)
	root := c.md.Parser().Parse(gtext.NewReader(source))

	seenLangs := make(map[string]bool)
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			structure.HeadingCount++
			if node.Level == 1 && structure.FirstH1 == "" {
				structure.FirstH1 = extractNodeText(node, source)
			}
		case *ast.FencedCodeBlock:
			if node.Info != nil {
				lang := strings.TrimSpace(string(node.Info.Text(source))) //nolint:staticcheck // SA1019
				if lang != "" && !seenLangs[lang] {
					seenLangs[lang] = true
					structure.CodeLanguages = append(structure.CodeLanguages, lang)
				}
			}
		}
		return ast.WalkContinue, nil
	})

	return structure
}

// extractNodeText collects the plain text below an AST node.
func extractNodeText(node ast.Node, source []byte) string {
	var buf bytes.Buffer

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == ast.KindText {
			segment := n.(*ast.Text).Segment //nolint:errcheck //ok
			buf.Write(segment.Value(source))
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(buf.String())
}

// deriveTitleFromFilename creates a readable title from the filename.
func deriveTitleFromFilename(path string) string {
	filename := filepath.Base(path)
	title := strings.TrimSuffix(filename, filepath.Ext(filename))

	if title == "" {
		return "Document"
	}

	title = strings.ReplaceAll(title, "_", " ")
	title = strings.ReplaceAll(title, "-", " ")

	return cases.Title(language.English).String(title)
}
