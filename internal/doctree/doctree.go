package doctree

// DocTree is the heading outline of a converted document.
type DocTree struct {
	Title    string     `json:"title"`    // Document title (from the upload's filename)
	Children []*DocNode `json:"sections"` // Top-level sections
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string     `json:"title,omitempty"` // Heading text, numbering included (empty for leaf text)
	Level    int        `json:"level,omitempty"` // Markdown heading level, 0 for leaf text
	Text     string     `json:"text,omitempty"`  // Body text under the heading
	Children []*DocNode `json:"sections,omitempty"`
}

// Count returns the number of nodes in the tree.
func (t *DocTree) Count() int {
	n := 0
	var walk func([]*DocNode)
	walk = func(nodes []*DocNode) {
		for _, c := range nodes {
			n++
			walk(c.Children)
		}
	}
	walk(t.Children)
	return n
}
