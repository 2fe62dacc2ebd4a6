package source

import (
	"bytes"
	"context"
	"fmt"
	stdhtml "html"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/ccowmu/minutes/internal/model"
)

// Markup class names and attributes of the rendered minutes listing
const (
	cardClass    = "minutes-card"
	linkClass    = "card-link"
	excerptClass = "card-excerpt"
)

// HTMLSource reads records from a rendered minutes listing page.
// Each element with class minutes-card carries data-slug, data-title,
// data-content, data-year and data-date attributes; cards without a slug
// are identified by their position as "#<pos>", which no slug can spell.
type HTMLSource struct {
	location
}

// Load parses the page
func (s *HTMLSource) Load(ctx context.Context) ([]model.RawDocument, error) {
	data, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	raws, err := ParseCards(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return finish(raws, s.baseURL), nil
}

// ParseCards extracts one record per minutes card in document order
func ParseCards(data []byte) ([]model.RawDocument, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	strip := bluemonday.StrictPolicy()
	var raws []model.RawDocument

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, cardClass) {
			raws = append(raws, parseCard(n, len(raws), strip))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return raws, nil
}

// positionalID is the id of a card without a slug
func positionalID(pos int) string {
	return "#" + strconv.Itoa(pos)
}

func parseCard(card *html.Node, pos int, strip *bluemonday.Policy) model.RawDocument {
	raw := model.RawDocument{
		Slug:    attr(card, "data-slug"),
		Title:   plain(strip, attr(card, "data-title")),
		Content: plain(strip, attr(card, "data-content")),
		Year:    attr(card, "data-year"),
		Date:    attr(card, "data-date"),
	}
	if raw.Slug == "" {
		raw.ID = positionalID(pos)
	}

	if link := findClass(card, linkClass); link != nil {
		raw.URL = attr(link, "href")
		if raw.Title == "" {
			raw.Title = model.CollapseSpace(textContent(link))
		}
	}
	if excerpt := findClass(card, excerptClass); excerpt != nil {
		raw.Excerpt = model.CollapseSpace(textContent(excerpt))
	}
	if raw.Date == "" {
		if t := findTag(card, "time"); t != nil {
			raw.Date = attr(t, "datetime")
		}
	}

	return raw
}

// plain removes any markup left inside an attribute value
func plain(strip *bluemonday.Policy, s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	// The policy escapes entities in its output
	return strings.TrimSpace(stdhtml.UnescapeString(strip.Sanitize(s)))
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && match(c) {
			return c
		}
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func findClass(n *html.Node, class string) *html.Node {
	return find(n, func(c *html.Node) bool { return hasClass(c, class) })
}

func findTag(n *html.Node, tag string) *html.Node {
	return find(n, func(c *html.Node) bool { return c.Data == tag })
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
