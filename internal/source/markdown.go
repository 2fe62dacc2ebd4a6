package source

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/ccowmu/minutes/internal/logger"
	"github.com/ccowmu/minutes/internal/model"
)

// MarkdownSource reads a Hugo content directory of minutes
type MarkdownSource struct {
	location
}

// FrontMatter is the YAML header of a minutes file
type FrontMatter struct {
	Title string `yaml:"title"`
	Date  string `yaml:"date"`
	Slug  string `yaml:"slug"`
	Year  string `yaml:"year"`
	Draft bool   `yaml:"draft"`
}

type markdownFile struct {
	path string
	raw  model.RawDocument
	skip bool
}

// Load parses every minutes file, newest first
func (s *MarkdownSource) Load(ctx context.Context) ([]model.RawDocument, error) {
	paths, err := listMarkdown(s.path)
	if err != nil {
		return nil, err
	}

	files := make([]markdownFile, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			raw, draft, err := ParseMinutes(filepath.Base(path), data)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}
			files[i] = markdownFile{path: path, raw: raw, skip: draft}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].raw.Date != files[j].raw.Date {
			return files[i].raw.Date > files[j].raw.Date
		}
		return files[i].path < files[j].path
	})

	raws := make([]model.RawDocument, 0, len(files))
	for _, f := range files {
		if f.skip {
			logger.Debug("Skipping draft %s", f.path)
			continue
		}
		raws = append(raws, f.raw)
	}

	return finish(raws, s.baseURL), nil
}

// listMarkdown returns the minutes files under dir, skipping section indexes
func listMarkdown(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if filepath.Ext(name) != ".md" || strings.HasPrefix(name, "_index") {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// ParseMinutes splits front matter from body and converts the body to plain text.
// The slug defaults to the file name without extension.
func ParseMinutes(name string, data []byte) (model.RawDocument, bool, error) {
	header, body := splitFrontMatter(data)

	var fm FrontMatter
	if len(header) > 0 {
		if err := yaml.Unmarshal(header, &fm); err != nil {
			return model.RawDocument{}, false, fmt.Errorf("invalid front matter: %w", err)
		}
	}

	slug := strings.TrimSpace(fm.Slug)
	if slug == "" {
		slug = strings.TrimSuffix(name, filepath.Ext(name))
	}
	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = slug
	}

	return model.RawDocument{
		Slug:    slug,
		Title:   title,
		Content: CleanMarkdown(string(body)),
		Date:    strings.TrimSpace(fm.Date),
		Year:    strings.TrimSpace(fm.Year),
	}, fm.Draft, nil
}

var frontMatterDelim = []byte("---")

// splitFrontMatter returns the YAML between leading "---" lines and the rest
func splitFrontMatter(data []byte) ([]byte, []byte) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if !bytes.HasPrefix(trimmed, frontMatterDelim) {
		return nil, data
	}

	rest := trimmed[len(frontMatterDelim):]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 || len(bytes.TrimSpace(rest[:nl])) != 0 {
		return nil, data
	}
	rest = rest[nl+1:]

	for offset := 0; offset < len(rest); {
		end := bytes.IndexByte(rest[offset:], '\n')
		line := rest[offset:]
		if end >= 0 {
			line = rest[offset : offset+end]
		}
		if bytes.Equal(bytes.TrimSpace(line), frontMatterDelim) {
			body := []byte{}
			if end >= 0 {
				body = rest[offset+end+1:]
			}
			return rest[:offset], body
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}

	// Unterminated header is treated as body
	return nil, data
}

// CleanMarkdown removes Markdown formatting and extracts plain text.
// Headings, paragraphs and lists are kept; code, images, link targets and
// raw HTML are dropped.
func CleanMarkdown(md string) string {
	doc := markdown.Parse([]byte(md), nil)

	var buf bytes.Buffer
	ast.Walk(doc, &textExtractor{buf: &buf})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	cleaned := make([]string, 0, len(lines))
	prevEmpty := false

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !prevEmpty {
				cleaned = append(cleaned, "")
				prevEmpty = true
			}
			continue
		}
		cleaned = append(cleaned, line)
		prevEmpty = false
	}

	return strings.Join(cleaned, "\n")
}

// textExtractor collects text nodes while walking the markdown AST
type textExtractor struct {
	buf *bytes.Buffer
}

// Visit implements ast.NodeVisitor
func (te *textExtractor) Visit(node ast.Node, entering bool) ast.WalkStatus {
	switch n := node.(type) {
	case *ast.Heading:
		te.buf.WriteString("\n")

	case *ast.Paragraph, *ast.List:
		if !entering {
			te.buf.WriteString("\n")
		}

	case *ast.ListItem:
		if entering {
			te.buf.WriteString("\n• ")
		}

	case *ast.Text:
		if entering {
			te.buf.Write(n.Literal)
		}

	case *ast.Softbreak, *ast.Hardbreak:
		te.buf.WriteString(" ")

	case *ast.Link:
		if !entering {
			te.buf.WriteString(" ")
		}

	case *ast.CodeBlock, *ast.Code, *ast.Image, *ast.HTMLBlock, *ast.HTMLSpan:
		return ast.SkipChildren
	}

	return ast.GoToNext
}
