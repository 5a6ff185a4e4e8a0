// Package source models semi-structured input documents as a read-only node
// tree and extracts attribute values from it.
package source

import "strings"

// Node is one node of a parsed source document.
type Node interface {
	// Name returns the tag name of the node.
	Name() string
	// Children returns the child nodes in document order.
	Children() []Node
	// Text returns the text value of the node.
	Text() string
}

// Element is an in-memory Node.
type Element struct {
	name     string
	text     string
	children []Node
}

// NewElement builds an Element with the given children.
func NewElement(name, text string, children ...Node) *Element {
	return &Element{name: name, text: text, children: children}
}

func (e *Element) Name() string     { return e.name }
func (e *Element) Text() string     { return e.text }
func (e *Element) Children() []Node { return e.children }

// Find returns the nodes reached from root by following path, a slash
// separated list of child names. An empty path yields root itself.
func Find(root Node, path string) []Node {
	nodes := []Node{root}
	for _, step := range strings.Split(path, "/") {
		if step == "" {
			continue
		}
		var next []Node
		for _, n := range nodes {
			for _, c := range n.Children() {
				if c.Name() == step {
					next = append(next, c)
				}
			}
		}
		nodes = next
	}
	return nodes
}
