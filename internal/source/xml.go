package source

import (
	"fmt"

	"github.com/beevik/etree"
)

// ParseXML parses an XML document into a Node tree rooted at the document
// element. Attributes appear as leaf children of their element, ahead of the
// child elements; namespace declarations are left out.
func ParseXML(data []byte) (Node, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse xml: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("parse xml: document has no root element")
	}
	return newXMLNode(root), nil
}

type xmlNode struct {
	el       *etree.Element
	children []Node
}

func newXMLNode(el *etree.Element) *xmlNode {
	n := &xmlNode{el: el}
	for _, a := range el.Attr {
		if a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns") {
			continue
		}
		n.children = append(n.children, NewElement(a.Key, a.Value))
	}
	for _, c := range el.ChildElements() {
		n.children = append(n.children, newXMLNode(c))
	}
	return n
}

func (n *xmlNode) Name() string     { return n.el.Tag }
func (n *xmlNode) Text() string     { return n.el.Text() }
func (n *xmlNode) Children() []Node { return n.children }
