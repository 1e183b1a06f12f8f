package settings

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// emptyParagraph is the trailing paragraph rich-text editors append to
// their content. The first one is dropped on save.
const emptyParagraph = "<p>&nbsp;</p>"

// Tidy cleans an edited template body: the first empty paragraph, scripts,
// styles and comments are removed. A body with nothing to remove is
// returned as written, placeholder tokens included.
func Tidy(body string) (string, error) {
	body = strings.Replace(body, emptyParagraph, "", 1)
	if strings.TrimSpace(body) == "" {
		return "", nil
	}

	parent := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(body), parent)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}
	if !anySkipped(nodes) {
		return body, nil
	}

	var b strings.Builder
	for _, n := range nodes {
		if skip(n) {
			continue
		}
		prune(n)
		if err := html.Render(&b, n); err != nil {
			return "", fmt.Errorf("failed to render template: %w", err)
		}
	}

	// The renderer writes non-breaking spaces raw.
	return strings.ReplaceAll(b.String(), "\u00a0", "&nbsp;"), nil
}

func anySkipped(nodes []*html.Node) bool {
	for _, n := range nodes {
		if skip(n) || anySkipped(children(n)) {
			return true
		}
	}
	return false
}

func children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

func prune(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if skip(c) {
			n.RemoveChild(c)
		} else {
			prune(c)
		}
		c = next
	}
}

func skip(n *html.Node) bool {
	switch n.Type {
	case html.CommentNode:
		return true
	case html.ElementNode:
		return isSkippedElement(n.DataAtom)
	}
	return false
}

// isSkippedElement returns true for elements that never belong in a note
func isSkippedElement(a atom.Atom) bool {
	switch a {
	case atom.Script, atom.Style, atom.Noscript, atom.Iframe, atom.Embed, atom.Object:
		return true
	}
	return false
}
