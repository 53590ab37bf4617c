package fetch

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Article is the readable part of a page
type Article struct {
	Title      string
	Paragraphs []string
}

// skipped elements never contribute text
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Nav:      true,
	atom.Header:   true,
	atom.Footer:   true,
	atom.Aside:    true,
	atom.Form:     true,
}

// ExtractArticle pulls the title (og:title first) and the text of <p>
// elements outside navigation and scripts
func ExtractArticle(doc string) (*Article, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, err
	}

	var (
		title, ogTitle string
		paragraphs     []string
	)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skipped[n.DataAtom] {
				return
			}
			switch n.DataAtom {
			case atom.Title:
				if title == "" {
					title = collapse(textOf(n))
				}
				return
			case atom.Meta:
				if attr(n, "property") == "og:title" && ogTitle == "" {
					ogTitle = collapse(attr(n, "content"))
				}
			case atom.P:
				if text := collapse(textOf(n)); text != "" {
					paragraphs = append(paragraphs, text)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	if ogTitle != "" {
		title = ogTitle
	}
	return &Article{Title: title, Paragraphs: paragraphs}, nil
}

// Excerpt joins paragraphs until maxChars runes, cutting the last one if needed
func (a *Article) Excerpt(maxChars int) string {
	var b strings.Builder
	remaining := maxChars
	for _, p := range a.Paragraphs {
		if maxChars > 0 && remaining <= 0 {
			break
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		if maxChars > 0 && utf8.RuneCountInString(p) > remaining {
			p = string([]rune(p)[:remaining]) + "..."
		}
		b.WriteString(p)
		remaining -= utf8.RuneCountInString(p)
	}
	return b.String()
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		if n.Type == html.ElementNode && skipped[n.DataAtom] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
