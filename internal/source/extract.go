package source

import "strings"

// MultiValueSeparator joins repeated hits of one attribute into a single
// multi-valued field.
const MultiValueSeparator = `\\`

// ExtractAll walks root depth first and returns the text of every node named
// attr, root included, in document order. Text is returned as found; nodes
// with empty text are skipped.
func ExtractAll(root Node, attr string) []string {
	values := []string{}
	if root == nil {
		return values
	}
	var walk func(n Node)
	walk = func(n Node) {
		if n.Name() == attr {
			if text := n.Text(); text != "" {
				values = append(values, text)
			}
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(root)
	return values
}

// ChildValues returns the text of the direct children of n named attr, in
// document order, without descending further. Empty texts are skipped.
func ChildValues(n Node, attr string) []string {
	values := []string{}
	if n == nil {
		return values
	}
	for _, c := range n.Children() {
		if c.Name() == attr && c.Text() != "" {
			values = append(values, c.Text())
		}
	}
	return values
}

// ExtractSingle returns every value of attr below root joined with
// MultiValueSeparator, or "" when there is none.
func ExtractSingle(root Node, attr string) string {
	return strings.Join(ExtractAll(root, attr), MultiValueSeparator)
}

// SplitValues undoes ExtractSingle.
func SplitValues(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, MultiValueSeparator)
}
