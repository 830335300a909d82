package dom

import (
	"bytes"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/valyala/quicktemplate"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Render writes n as HTML. A value property that was set on a node is
// written in place of its value attribute.
func Render(w io.Writer, n *Node) error {
	_, err := w.Write(render(n))
	return err
}

func RenderString(n *Node) string {
	return string(render(n))
}

func render(n *Node) []byte {
	var buf bytes.Buffer
	qw := quicktemplate.AcquireWriter(&buf)
	writeNode(qw, n)
	quicktemplate.ReleaseWriter(qw)
	return buf.Bytes()
}

// Digest is the xxhash of the rendered subtree.
func Digest(n *Node) uint64 {
	return xxhash.Sum64(render(n))
}

func writeNode(qw *quicktemplate.Writer, n *Node) {
	switch n.Type {
	case DocumentNode:
		writeChildren(qw, n)
	case TextNode:
		qw.E().S(n.Data)
	case CommentNode:
		qw.N().S("<!--")
		qw.N().S(n.Data)
		qw.N().S("-->")
	case ElementNode:
		qw.N().S("<")
		qw.N().S(n.Tag)
		for _, a := range n.Attrs {
			if a.Name == "value" && n.hasValue {
				continue
			}
			writeAttr(qw, a.Name, a.Value)
		}
		if n.hasValue {
			writeAttr(qw, "value", n.value)
		}
		qw.N().S(">")
		if voidElements[n.Tag] {
			return
		}
		writeChildren(qw, n)
		qw.N().S("</")
		qw.N().S(n.Tag)
		qw.N().S(">")
	}
}

func writeChildren(qw *quicktemplate.Writer, n *Node) {
	for _, child := range n.children {
		writeNode(qw, child)
	}
}

func writeAttr(qw *quicktemplate.Writer, name, value string) {
	qw.N().S(" ")
	qw.N().S(name)
	qw.N().S(`="`)
	qw.E().S(value)
	qw.N().S(`"`)
}
