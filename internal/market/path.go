package market

import (
	"strings"

	"golang.org/x/net/html"
)

// Step selects the Index-th element child of a node. A non-empty Kind
// restricts the candidates to elements with that tag name.
type Step struct {
	Kind  string
	Index int
}

// Path is an ordered descent through element children.
type Path []Step

// Resolve walks p from n and returns the node reached, or nil as soon as a
// step has no matching child.
func (p Path) Resolve(n *html.Node) *html.Node {
	for _, s := range p {
		if n == nil {
			return nil
		}
		n = childElement(n, s.Kind, s.Index)
	}
	return n
}

func childElement(n *html.Node, kind string, index int) *html.Node {
	if index < 0 {
		return nil
	}
	i := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if kind != "" && c.Data != kind {
			continue
		}
		if i == index {
			return c
		}
		i++
	}
	return nil
}

// soleText returns the data of n's only direct text child. It fails when n
// has zero or several text children.
func soleText(n *html.Node) (string, bool) {
	var text string
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			text = c.Data
			count++
		}
	}
	return text, count == 1
}

// firstClass returns the first value of n's class attribute.
func firstClass(n *html.Node) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == "class" {
			if f := strings.Fields(a.Val); len(f) > 0 {
				return f[0]
			}
			return ""
		}
	}
	return ""
}
