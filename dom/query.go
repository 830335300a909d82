package dom

import (
	"slices"
	"strings"
)

// QuerySelector returns the first element in document order below n that
// matches sel. Supported selectors are "#id", ".class" and a bare tag name.
func (n *Node) QuerySelector(sel string) *Node {
	sel = strings.TrimSpace(sel)
	if sel == "" {
		return nil
	}
	var match func(*Node) bool
	switch sel[0] {
	case '#':
		id := sel[1:]
		match = func(el *Node) bool {
			v, ok := el.Attr("id")
			return ok && v == id
		}
	case '.':
		class := sel[1:]
		match = func(el *Node) bool {
			v, _ := el.Attr("class")
			return slices.Contains(strings.Fields(v), class)
		}
	default:
		tag := strings.ToLower(sel)
		match = func(el *Node) bool {
			return el.Tag == tag
		}
	}
	return n.find(match)
}

func (n *Node) GetElementByID(id string) *Node {
	return n.QuerySelector("#" + id)
}

func (n *Node) find(match func(*Node) bool) *Node {
	for _, child := range n.children {
		if child.Type != ElementNode {
			continue
		}
		if match(child) {
			return child
		}
		if found := child.find(match); found != nil {
			return found
		}
	}
	return nil
}
