package search

import (
	"strings"

	"golang.org/x/net/html"
)

// CleanSnippet strips markup that SerpAPI leaves in snippets and collapses whitespace
func CleanSnippet(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return collapseSpace(s)
	}

	tokenizer := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return collapseSpace(b.String())
		case html.TextToken:
			b.Write(tokenizer.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
