// Package market recovers point-spread observations from betting-site markup
// and reduces them to a per-team margin estimate.
package market

import (
	"iter"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Observation is one point-spread market found in a document.
type Observation struct {
	Team  string  `json:"team"`
	Point float64 `json:"point"`
	More  float64 `json:"more"`
	Less  float64 `json:"less"`
}

// Extractor finds market labels and their paired ratings. The rating probe
// starts at the label's grandparent, descends AnchorPath, then descends
// each of RatingPaths to a numeric leaf.
type Extractor struct {
	Class       string
	Prefix      string
	Suffix      string
	AnchorPath  Path
	RatingPaths [2]Path
}

// DefaultExtractor matches the full-time "Plus / Moins Point(s)" markets of
// the FDJ ParionsSport match pages.
func DefaultExtractor() *Extractor {
	return &Extractor{
		Class:      "psel-title-market__label",
		Prefix:     "plus / moins point(s) -",
		Suffix:     "- 80 mins",
		AnchorPath: Path{{Index: 1}, {Index: 0}, {Index: 0}, {Index: 0}},
		RatingPaths: [2]Path{
			{{Index: 0}, {Index: 1}, {Index: 0}, {Index: 0}},
			{{Index: 1}, {Index: 1}, {Index: 0}, {Index: 0}},
		},
	}
}

// Extract walks the tree under root depth-first and yields one Observation
// per well-formed label and rating pair, in document order. Malformed
// nodes are skipped.
func (e *Extractor) Extract(root *html.Node) iter.Seq[Observation] {
	return func(yield func(Observation) bool) {
		if root == nil {
			return
		}
		lower := cases.Lower(language.French)
		e.walk(root, lower, yield)
	}
}

// ExtractDocument runs Extract over every root node of doc.
func (e *Extractor) ExtractDocument(doc *goquery.Document) iter.Seq[Observation] {
	return func(yield func(Observation) bool) {
		for _, n := range doc.Nodes {
			for obs := range e.Extract(n) {
				if !yield(obs) {
					return
				}
			}
		}
	}
}

func (e *Extractor) walk(n *html.Node, lower cases.Caser, yield func(Observation) bool) bool {
	if n.Type == html.ElementNode {
		if obs, ok := e.observe(n, lower); ok {
			if !yield(obs) {
				return false
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if !e.walk(c, lower, yield) {
			return false
		}
	}
	return true
}

func (e *Extractor) observe(n *html.Node, lower cases.Caser) (Observation, bool) {
	team, point, ok := e.label(n, lower)
	if !ok {
		return Observation{}, false
	}
	if n.Parent == nil || n.Parent.Parent == nil {
		return Observation{}, false
	}
	more, less, ok := e.ratings(n.Parent.Parent)
	if !ok {
		return Observation{}, false
	}
	return Observation{Team: team, Point: point, More: more, Less: less}, true
}

// label parses "<prefix> <team words> <point> <suffix>".
func (e *Extractor) label(n *html.Node, lower cases.Caser) (string, float64, bool) {
	if firstClass(n) != e.Class {
		return "", 0, false
	}
	text, ok := soleText(n)
	if !ok {
		return "", 0, false
	}
	text = lower.String(text)
	if !strings.HasPrefix(text, e.Prefix) || !strings.HasSuffix(text, e.Suffix) {
		return "", 0, false
	}
	if len(text) < len(e.Prefix)+len(e.Suffix) {
		return "", 0, false
	}

	tokens := strings.Fields(text[len(e.Prefix) : len(text)-len(e.Suffix)])
	if len(tokens) < 2 {
		return "", 0, false
	}
	point, ok := ParseDecimal(tokens[len(tokens)-1])
	if !ok {
		return "", 0, false
	}
	return strings.Join(tokens[:len(tokens)-1], "-"), point, true
}

func (e *Extractor) ratings(n *html.Node) (float64, float64, bool) {
	anchor := e.AnchorPath.Resolve(n)
	if anchor == nil {
		return 0, 0, false
	}

	var values [2]float64
	for i, p := range e.RatingPaths {
		leaf := p.Resolve(anchor)
		if leaf == nil {
			return 0, 0, false
		}
		text, ok := soleText(leaf)
		if !ok {
			return 0, 0, false
		}
		v, ok := ParseDecimal(text)
		if !ok {
			return 0, 0, false
		}
		values[i] = v
	}
	return values[0], values[1], true
}
