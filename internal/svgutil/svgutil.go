// Package svgutil works on the SVG wireframes produced by the pipeline:
// the fallback screen for failed generations and snippet highlighting
// for task-flow playback.
package svgutil

import (
	"bytes"
	"errors"
	"strings"

	"golang.org/x/net/html"
)

// ErrorScreenSVG replaces a screen whose wireframe generation failed.
const ErrorScreenSVG = `<svg width="400" height="300" xmlns="http://www.w3.org/2000/svg">
    <rect width="400" height="300" fill="#f0f0f0"/>
    <text x="200" y="150" text-anchor="middle" dy=".3em" font-family="Arial" font-size="16" fill="#666">
        Error generating UI code
    </text>
</svg>`

const highlightClass = "svg-highlight"

// Highlight marks the elements of uiCode that match the given snippet
// by appending the svg-highlight class. Matching compares tag name,
// x/y, and every other snippet attribute except class. Text elements
// are never highlighted; a container with text children gets the class
// itself so the text stays untouched.
func Highlight(uiCode, snippet string) (string, error) {
	if strings.TrimSpace(uiCode) == "" || strings.TrimSpace(snippet) == "" {
		return "", errors.New("svgutil: both uiCode and snippet are required")
	}
	uiRoot, err := parseSVG(uiCode)
	if err != nil {
		return "", err
	}
	snippetRoot, err := parseSVG("<svg>" + snippet + "</svg>")
	if err != nil {
		return "", err
	}

	for _, snip := range elementsUnder(snippetRoot) {
		if snip.Data == "svg" {
			continue
		}
		for _, cand := range elementsByTag(uiRoot, snip.Data) {
			if !attributesMatch(snip, cand) {
				continue
			}
			if cand.Data != "text" {
				addHighlightClass(cand)
			}
			break
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, uiRoot); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func parseSVG(s string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return nil, err
	}
	root := findSVG(doc)
	if root == nil {
		return nil, errors.New("svgutil: no svg element found")
	}
	return root, nil
}

func findSVG(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "svg" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findSVG(c); found != nil {
			return found
		}
	}
	return nil
}

// elementsUnder returns every element node below root in document
// order, excluding root itself.
func elementsUnder(root *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				out = append(out, c)
				walk(c)
			}
		}
	}
	walk(root)
	return out
}

func elementsByTag(root *html.Node, tag string) []*html.Node {
	var out []*html.Node
	if root.Type == html.ElementNode && root.Data == tag {
		out = append(out, root)
	}
	for _, el := range elementsUnder(root) {
		if el.Data == tag {
			out = append(out, el)
		}
	}
	return out
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func attributesMatch(snip, cand *html.Node) bool {
	if snip.Data != cand.Data {
		return false
	}
	if x, ok := attr(snip, "x"); ok {
		if v, ok := attr(cand, "x"); !ok || v != x {
			return false
		}
	}
	if y, ok := attr(snip, "y"); ok {
		if v, ok := attr(cand, "y"); !ok || v != y {
			return false
		}
	}
	for _, a := range snip.Attr {
		if a.Key == "x" || a.Key == "y" || a.Key == "class" {
			continue
		}
		if v, ok := attr(cand, a.Key); !ok || v != a.Val {
			return false
		}
	}
	return true
}

func addHighlightClass(n *html.Node) {
	for i, a := range n.Attr {
		if a.Key == "class" {
			if strings.Contains(a.Val, highlightClass) {
				return
			}
			n.Attr[i].Val = strings.TrimSpace(a.Val + " " + highlightClass)
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: highlightClass})
}
