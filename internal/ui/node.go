// Package ui provides the render tree shared by brewdesk's views.
//
// Views are pure functions from props to a tree of Nodes. A Node carries
// class names (styled by a Stylesheet owned elsewhere), text, and optional
// click and keydown handlers. Events are dispatched DOM-style: the target's
// handler runs first, then each ancestor's, until a handler stops
// propagation.
package ui

import "strings"

// Tag determines how a node is laid out by the renderer.
type Tag int

const (
	// TagBlock stacks its children vertically.
	TagBlock Tag = iota
	// TagRow lays out its children on one line, separated by a space.
	TagRow
	// TagText renders Text as a single inline segment.
	TagText
	// TagPre renders Text verbatim, preserving line breaks and tabs.
	TagPre
	// TagButton renders Text as an activatable control.
	TagButton
)

// RoleButton marks a non-button node that behaves like a button.
const RoleButton = "button"

// Handler reacts to an event dispatched to a node or one of its descendants.
type Handler func(e *Event)

// Node is one element of a rendered view.
type Node struct {
	Tag       Tag
	Key       string // stable identity, required for hit testing and dispatch
	Classes   []string
	Text      string
	Title     string // tooltip-style description, shown by the status line
	Role      string
	Focusable bool
	Children  []*Node
	OnClick   Handler
	OnKeyDown Handler
}

// Block returns a vertical container. Nil children are dropped so views can
// write conditional sections inline.
func Block(class string, children ...*Node) *Node {
	return &Node{Tag: TagBlock, Classes: classList(class), Children: compact(children)}
}

// Row returns a horizontal container.
func Row(class string, children ...*Node) *Node {
	return &Node{Tag: TagRow, Classes: classList(class), Children: compact(children)}
}

// Text returns an inline text node.
func Text(class, text string) *Node {
	return &Node{Tag: TagText, Classes: classList(class), Text: text}
}

// Pre returns a preformatted text node.
func Pre(class, text string) *Node {
	return &Node{Tag: TagPre, Classes: classList(class), Text: text}
}

// Button returns a focusable control that invokes onClick when clicked or
// activated from the keyboard.
func Button(key, class, label string, onClick Handler) *Node {
	return &Node{
		Tag:       TagButton,
		Key:       key,
		Classes:   classList(class),
		Text:      label,
		Focusable: true,
		OnClick:   onClick,
	}
}

// WithKey sets the node's key and returns the node.
func (n *Node) WithKey(key string) *Node {
	n.Key = key
	return n
}

// HasClass reports whether the node carries the given class name.
func (n *Node) HasClass(class string) bool {
	if n == nil {
		return false
	}
	for _, c := range n.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// ClassName joins the node's classes the way a className attribute would.
func (n *Node) ClassName() string {
	return strings.Join(n.Classes, " ")
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the node's children.
func Walk(n *Node, fn func(n *Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Find returns the first node with the given key, or nil.
func Find(root *Node, key string) *Node {
	var found *Node
	Walk(root, func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.Key == key {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node carrying class, in document order.
func FindAll(root *Node, class string) []*Node {
	var nodes []*Node
	Walk(root, func(n *Node) bool {
		if n.HasClass(class) {
			nodes = append(nodes, n)
		}
		return true
	})
	return nodes
}

// Focusables returns the keys of focusable nodes in document order.
func Focusables(root *Node) []string {
	var keys []string
	Walk(root, func(n *Node) bool {
		if n.Focusable && n.Key != "" {
			keys = append(keys, n.Key)
		}
		return true
	})
	return keys
}

// pathTo returns the chain of nodes from root to the node with key,
// or nil when no such node exists.
func pathTo(root *Node, key string) []*Node {
	if root == nil {
		return nil
	}
	if root.Key == key {
		return []*Node{root}
	}
	for _, c := range root.Children {
		if p := pathTo(c, key); p != nil {
			return append([]*Node{root}, p...)
		}
	}
	return nil
}

func classList(class string) []string {
	return strings.Fields(class)
}

func compact(nodes []*Node) []*Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
