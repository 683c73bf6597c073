package ast

import (
	"fmt"
	"strings"
)

// Walk visits n and its descendants in document order. Returning false
// from fn skips the children of the visited node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children() {
		Walk(child, fn)
	}
}

// Links returns every Link in the tree in document order
func Links(n Node) []*Link {
	var links []*Link
	Walk(n, func(n Node) bool {
		if l, ok := n.(*Link); ok {
			links = append(links, l)
		}
		return true
	})
	return links
}

// TextContent concatenates the text of every Text leaf below n
func TextContent(n Node) string {
	var b strings.Builder
	Walk(n, func(n Node) bool {
		switch n := n.(type) {
		case *Text:
			b.WriteString(n.Text)
		case *Link:
			b.WriteString(n.Title)
		case *InlineCode:
			b.WriteString(n.Text)
		}
		return true
	})
	return b.String()
}

// Validate checks the structural invariants of a built tree: block
// children only appear under nodes that can contain them, escaped text
// siblings are merged and lists nest at most MaxListDepth deep.
func Validate(n Node) error {
	return validate(n, 0)
}

func validate(n Node, listDepth int) error {
	switch n.(type) {
	case *OrderedList, *UnorderedList:
		listDepth++
		if listDepth > MaxListDepth {
			return fmt.Errorf("list nested %d deep, limit is %d", listDepth, MaxListDepth)
		}
	}

	var prev Node
	for _, child := range n.Children() {
		if child == nil {
			return fmt.Errorf("%T has a nil child", n)
		}
		if !n.CanContainBlock() && child.IsBlock() {
			return fmt.Errorf("%T cannot contain block %T", n, child)
		}
		if isPlaintext(prev) && isPlaintext(child) {
			return fmt.Errorf("%T has adjacent plaintext children", n)
		}
		if err := validate(child, listDepth); err != nil {
			return err
		}
		prev = child
	}
	return nil
}

func isPlaintext(n Node) bool {
	t, ok := n.(*Text)
	return ok && t.Escaped
}
