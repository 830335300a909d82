package dom

import (
	"slices"
	"strconv"
	"strings"
)

// NodeType is the node discriminator.
type NodeType uint8

const (
	DocumentNode NodeType = iota
	ElementNode
	TextNode
	CommentNode
)

func (t NodeType) String() string {
	switch t {
	case DocumentNode:
		return "Document"
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	default:
		return "Unknown"
	}
}

type Attr struct {
	Name  string
	Value string
}

// Event is delivered to listeners by DispatchEvent.
type Event struct {
	Type   string
	Target *Node
}

type Listener func(e *Event)

// Disposer is released when the node owning it is detached.
type Disposer interface {
	Dispose()
}

// Node is a minimal DOM node: documents, elements, text and comments.
type Node struct {
	Type   NodeType
	Tag    string
	Data   string
	Attrs  []Attr
	Parent *Node

	children  []*Node
	value     string
	hasValue  bool
	listeners map[string][]Listener
	owned     []Disposer
}

func NewDocument() *Node {
	return &Node{Type: DocumentNode}
}

func NewElement(tag string, attrs ...Attr) *Node {
	return &Node{Type: ElementNode, Tag: strings.ToLower(tag), Attrs: attrs}
}

func NewText(data string) *Node {
	return &Node{Type: TextNode, Data: data}
}

func NewComment(data string) *Node {
	return &Node{Type: CommentNode, Data: data}
}

// Children returns a snapshot of the child list.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

func (n *Node) HasChildren() bool {
	return len(n.children) > 0
}

func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// AppendChild moves child under n, detaching it from its previous parent
// without disposing it.
func (n *Node) AppendChild(children ...*Node) *Node {
	for _, child := range children {
		if child.Parent != nil {
			child.Parent.unlink(child)
		}
		child.Parent = n
		n.children = append(n.children, child)
	}
	return n
}

// RemoveChild detaches child and disposes everything owned by the removed
// subtree. It reports whether child was a child of n.
func (n *Node) RemoveChild(child *Node) bool {
	if !n.unlink(child) {
		return false
	}
	child.dispose()
	return true
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

func (n *Node) unlink(child *Node) bool {
	i := slices.Index(n.children, child)
	if i < 0 {
		return false
	}
	n.children = slices.Delete(n.children, i, i+1)
	child.Parent = nil
	return true
}

// Own ties d to the lifetime of n.
func (n *Node) Own(d Disposer) {
	n.owned = append(n.owned, d)
}

func (n *Node) Owned() int {
	return len(n.owned)
}

func (n *Node) dispose() {
	for _, d := range n.owned {
		d.Dispose()
	}
	n.owned = nil
	n.listeners = nil
	for _, child := range n.children {
		child.dispose()
	}
}

func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (n *Node) SetAttr(name, value string) {
	for i, a := range n.Attrs {
		if a.Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// TextContent is the node's own data for text and comments and the
// concatenated text of all descendants otherwise.
func (n *Node) TextContent() string {
	switch n.Type {
	case TextNode, CommentNode:
		return n.Data
	}
	var sb strings.Builder
	n.appendText(&sb)
	return sb.String()
}

func (n *Node) appendText(sb *strings.Builder) {
	for _, child := range n.children {
		switch child.Type {
		case TextNode:
			sb.WriteString(child.Data)
		case ElementNode:
			child.appendText(sb)
		}
	}
}

// SetTextContent replaces the data of a text node, or replaces every child
// of an element with a single text node.
func (n *Node) SetTextContent(text string) {
	switch n.Type {
	case TextNode, CommentNode:
		n.Data = text
		return
	}
	for _, child := range n.Children() {
		n.RemoveChild(child)
	}
	if text != "" {
		n.AppendChild(NewText(text))
	}
}

// Value is the live value property of a form control. Until it is set it
// reflects the value attribute.
func (n *Node) Value() string {
	if n.hasValue {
		return n.value
	}
	v, _ := n.Attr("value")
	return v
}

func (n *Node) SetValue(v string) {
	n.value = v
	n.hasValue = true
}

func (n *Node) AddEventListener(kind string, l Listener) {
	if n.listeners == nil {
		n.listeners = map[string][]Listener{}
	}
	n.listeners[kind] = append(n.listeners[kind], l)
}

// DispatchEvent calls the listeners registered for kind in order and reports
// whether any were called.
func (n *Node) DispatchEvent(kind string) bool {
	ls := slices.Clone(n.listeners[kind])
	e := &Event{Type: kind, Target: n}
	for _, l := range ls {
		l(e)
	}
	return len(ls) > 0
}

// Path describes where n sits in its tree, e.g. "div#app > p[1]".
func (n *Node) Path() string {
	var parts []string
	for cur := n; cur != nil && cur.Type != DocumentNode; cur = cur.Parent {
		parts = append(parts, cur.describe())
	}
	slices.Reverse(parts)
	return strings.Join(parts, " > ")
}

func (n *Node) describe() string {
	var sb strings.Builder
	switch n.Type {
	case ElementNode:
		sb.WriteString(n.Tag)
		if id, ok := n.Attr("id"); ok {
			sb.WriteByte('#')
			sb.WriteString(id)
			return sb.String()
		}
	default:
		sb.WriteString("#")
		sb.WriteString(strings.ToLower(n.Type.String()))
	}
	if n.Parent != nil {
		sb.WriteByte('[')
		sb.WriteString(strconv.Itoa(slices.Index(n.Parent.children, n)))
		sb.WriteByte(']')
	}
	return sb.String()
}
