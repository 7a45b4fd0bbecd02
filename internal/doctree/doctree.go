package doctree

import "strings"

// MaxLevel is the deepest header level the marker syntax can express.
const MaxLevel = 6

// Node is one section header in the document tree. The root is synthetic:
// level 0, titled after the document.
type Node struct {
	Level    int     // Header level (0 for the root, 1-6 otherwise)
	Title    string  // Trimmed header text
	Line     int     // Source line index (-1 for the root)
	Children []*Node // Subsections in document order
}

// NewRoot returns an empty synthetic root for a document name.
func NewRoot(name string) *Node {
	return &Node{Level: 0, Title: name, Line: -1}
}

// IsRoot reports whether n is the synthetic document root.
func (n *Node) IsRoot() bool {
	return n.Level == 0
}

// MaxDepth returns the longest root-to-leaf path length. The root counts as
// depth 0, so a tree with only top-level headers has depth 1.
func (n *Node) MaxDepth() int {
	deepest := 0
	for _, c := range n.Children {
		if d := c.MaxDepth() + 1; d > deepest {
			deepest = d
		}
	}
	return deepest
}

// Walk visits n and its descendants in preorder. Returning false from fn
// skips the node's subtree.
func (n *Node) Walk(fn func(node *Node, path []int) bool) {
	n.walk(nil, fn)
}

func (n *Node) walk(path []int, fn func(*Node, []int) bool) {
	if !fn(n, path) {
		return
	}
	for i, c := range n.Children {
		child := make([]int, len(path)+1)
		copy(child, path)
		child[len(path)] = i
		c.walk(child, fn)
	}
}

// At returns the node reached by following child indices from n, or nil if
// the path leaves the tree.
func (n *Node) At(path []int) *Node {
	cur := n
	for _, i := range path {
		if i < 0 || i >= len(cur.Children) {
			return nil
		}
		cur = cur.Children[i]
	}
	return cur
}

// FindTitle returns the first non-root node in preorder with the given title,
// together with its path.
func (n *Node) FindTitle(title string) (*Node, []int) {
	var found *Node
	var foundPath []int
	n.Walk(func(node *Node, path []int) bool {
		if found != nil {
			return false
		}
		if !node.IsRoot() && node.Title == title {
			found = node
			foundPath = path
			return false
		}
		return true
	})
	return found, foundPath
}

// Resolve locates a node by path, verifying the title, and falls back to the
// first title match when the path no longer points at it.
func (n *Node) Resolve(path []int, title string) (*Node, []int) {
	if len(path) > 0 {
		if node := n.At(path); node != nil && node.Title == title {
			return node, path
		}
	}
	return n.FindTitle(title)
}

// Occurrence counts the headers that precede target in document order and
// share its level and title. It returns -1 if target is not in the tree.
func (n *Node) Occurrence(target *Node) int {
	count := 0
	found := false
	n.Walk(func(node *Node, _ []int) bool {
		if found {
			return false
		}
		if node == target {
			found = true
			return false
		}
		if !node.IsRoot() && node.Level == target.Level && node.Title == target.Title {
			count++
		}
		return true
	})
	if !found {
		return -1
	}
	return count
}

// Markdown renders the header skeleton back to marker text, one line per
// header. Body text is not part of the tree and is not reproduced.
func (n *Node) Markdown() string {
	var b strings.Builder
	n.Walk(func(node *Node, _ []int) bool {
		if node.IsRoot() {
			return true
		}
		b.WriteString(strings.Repeat("#", node.Level))
		b.WriteByte(' ')
		b.WriteString(node.Title)
		b.WriteByte('\n')
		return true
	})
	return b.String()
}
