package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads an HTML fragment and returns it as the children of a Document.
// The fragment is parsed in a <body> context, so <html>, <head> and <body>
// tags are dropped.
func Parse(r io.Reader) (*Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := NewDocument()
	for _, n := range nodes {
		if child := fromHTML(n); child != nil {
			doc.AppendChild(child)
		}
	}
	return doc, nil
}

func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}

func fromHTML(n *html.Node) *Node {
	var out *Node
	switch n.Type {
	case html.ElementNode:
		out = NewElement(n.Data)
		for _, a := range n.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			out.Attrs = append(out.Attrs, Attr{Name: name, Value: a.Val})
		}
	case html.TextNode:
		return NewText(n.Data)
	case html.CommentNode:
		return NewComment(n.Data)
	default:
		return nil
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if child := fromHTML(c); child != nil {
			out.AppendChild(child)
		}
	}
	return out
}
