package page

import (
	"strings"

	"golang.org/x/net/html"
)

// walk visits n and its descendants depth-first. Returning false from fn
// skips the children of the node just visited.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) bool {
		if found != nil {
			return false
		}
		if match(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// matchSelector supports ".class" and "#id" selectors
func matchSelector(selector string) func(*html.Node) bool {
	switch {
	case strings.HasPrefix(selector, "."):
		class := selector[1:]
		return func(n *html.Node) bool { return hasClass(n, class) }
	case strings.HasPrefix(selector, "#"):
		id := selector[1:]
		return func(n *html.Node) bool { return n.Type == html.ElementNode && attr(n, "id") == id }
	default:
		return func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == selector }
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func setClass(n *html.Node, class string, on bool) {
	var classes []string
	for _, c := range strings.Fields(attr(n, "class")) {
		if c != class {
			classes = append(classes, c)
		}
	}
	if on {
		classes = append(classes, class)
	}

	value := strings.Join(classes, " ")
	for i, a := range n.Attr {
		if a.Key == "class" {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: value})
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}

// textContent returns the text under n with whitespace collapsed
func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteByte(' ')
		}
		return true
	})
	return strings.Join(strings.Fields(b.String()), " ")
}
