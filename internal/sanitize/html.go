package sanitize

import (
	"bytes"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DisallowedElements are removed together with their whole subtree
var DisallowedElements = map[string]bool{
	"script": true,
	"style":  true,
	"iframe": true,
	"object": true,
	"embed":  true,
	"link":   true,
	"meta":   true,
}

var scriptSchemes = []string{"javascript:", "vbscript:"}

// HTMLEngine cleans fragments with the golang.org/x/net/html parser
type HTMLEngine struct {
	disallowed map[string]bool
}

// NewHTMLEngine creates an engine using DisallowedElements
func NewHTMLEngine() *HTMLEngine {
	return &HTMLEngine{disallowed: DisallowedElements}
}

// Clean parses the fragment in a <body> context, filters it and renders it back
func (e *HTMLEngine) Clean(fragment string) (string, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		if e.drop(n) {
			continue
		}
		e.filter(n)
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func (e *HTMLEngine) drop(n *html.Node) bool {
	switch n.Type {
	case html.ElementNode:
		return e.disallowed[strings.ToLower(n.Data)]
	case html.CommentNode, html.DoctypeNode:
		return true
	}
	return false
}

func (e *HTMLEngine) filter(n *html.Node) {
	if n.Type == html.ElementNode {
		n.Attr = safeAttributes(n.Attr)
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if e.drop(c) {
			n.RemoveChild(c)
		} else {
			e.filter(c)
		}
		c = next
	}
}

func safeAttributes(attrs []html.Attribute) []html.Attribute {
	kept := attrs[:0]
	for _, a := range attrs {
		if isEventHandler(a.Key) || hasScriptScheme(a.Val) {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

func isEventHandler(name string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(name)), "on")
}

// hasScriptScheme ignores whitespace and control characters browsers skip when resolving URLs
func hasScriptScheme(value string) bool {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, value)

	for _, scheme := range scriptSchemes {
		if strings.Contains(compact, scheme) {
			return true
		}
	}
	return false
}
