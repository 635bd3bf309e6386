package pages

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/playwright-community/playwright-go"
	"golang.org/x/net/html"
)

// Snapshot captures a reduced copy of the failing page's DOM alongside the
// screenshot and trace. Scripts, styles, and presentational noise are
// stripped so the artifact stays small and diffable while keeping the
// structure and attributes an engineer needs to repair a locator.
type Snapshot struct {
	page playwright.Page
	dir  string
}

// NewSnapshot creates a snapshot writer that persists under dir.
func NewSnapshot(page playwright.Page, dir string) *Snapshot {
	return &Snapshot{page: page, dir: dir}
}

// Write captures the current DOM, cleans it, and writes it to
// <dir>/<name>.html. Returns the written path.
func (s *Snapshot) Write(name string) (string, error) {
	content, err := s.page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}

	cleaned, err := CleanHTML(content)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	path := filepath.Join(s.dir, name+".html")
	if err := os.WriteFile(path, []byte(cleaned), 0600); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	return path, nil
}

// CleanHTML parses raw HTML and re-renders it without script, style, or
// media subtrees and with only locator-relevant attributes kept.
func CleanHTML(raw string) (string, error) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to parse page HTML: %w", err)
	}

	var sb strings.Builder
	renderNode(&sb, doc)
	return sb.String(), nil
}

func renderNode(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			sb.WriteString(html.EscapeString(text))
		}
	case html.ElementNode:
		if isStrippedElement(n.Data) {
			return
		}
		sb.WriteString("<" + n.Data)
		for _, attr := range n.Attr {
			if keepAttribute(n.Data, attr.Key) {
				sb.WriteString(fmt.Sprintf(" %s=%q", attr.Key, attr.Val))
			}
		}
		if isVoidElement(n.Data) {
			sb.WriteString("/>")
			return
		}
		sb.WriteString(">")
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderNode(sb, c)
		}
		sb.WriteString("</" + n.Data + ">")
		if isBlockElement(n.Data) {
			sb.WriteString("\n")
		}
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderNode(sb, c)
		}
	}
}

// isStrippedElement reports whether the tag's whole subtree is dropped.
func isStrippedElement(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "iframe", "embed", "object", "svg", "link", "meta":
		return true
	}
	return false
}

func isBlockElement(tag string) bool {
	switch tag {
	case "div", "p", "section", "article", "header", "footer", "nav", "main",
		"table", "thead", "tbody", "tr", "ul", "ol", "li", "form",
		"h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}

func isVoidElement(tag string) bool {
	switch tag {
	case "br", "hr", "img", "input", "area", "base", "col", "source", "track", "wbr":
		return true
	}
	return false
}

// keepAttribute reports whether an attribute survives cleaning. Identity,
// role, aria, data-* and a few tag-specific attributes are what locator
// repair needs; everything presentational goes.
func keepAttribute(tag, key string) bool {
	switch key {
	case "id", "class", "role", "name", "aria-label", "aria-describedby", "aria-expanded":
		return true
	}
	if strings.HasPrefix(key, "data-") {
		return true
	}
	switch tag {
	case "a":
		return key == "href"
	case "input":
		return key == "type" || key == "placeholder" || key == "value"
	case "textarea":
		return key == "placeholder"
	case "button":
		return key == "type"
	case "img":
		return key == "alt"
	case "th", "td":
		return key == "colspan" || key == "rowspan"
	}
	return false
}
