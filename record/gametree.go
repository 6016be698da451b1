// Package record keeps move history for laskan games: an in-memory tree of
// played variations and a plain-text archive of finished games.
package record

// Node is a single position in the move tree.
type Node struct {
	Move     string // wire-encoded move, "" for root
	Parent   *Node
	Children []*Node // first child = main line
}

// Tree tracks the moves of a game including variations created by undoing
// and playing a different move.
type Tree struct {
	Root    *Node
	Current *Node
}

// NewTree creates a tree with an empty root node.
func NewTree() *Tree {
	root := &Node{}
	return &Tree{Root: root, Current: root}
}

// AddMove adds a child move to the current node and advances to it. If a
// child with the same move already exists, navigates to it instead of
// creating a duplicate.
func (t *Tree) AddMove(move string) *Node {
	for _, child := range t.Current.Children {
		if child.Move == move {
			t.Current = child
			return child
		}
	}
	node := &Node{Move: move, Parent: t.Current}
	t.Current.Children = append(t.Current.Children, node)
	t.Current = node
	return node
}

// Back moves current to its parent. Returns false if already at root.
func (t *Tree) Back() bool {
	if t.Current == t.Root {
		return false
	}
	t.Current = t.Current.Parent
	return true
}

// Forward moves current into the child holding the given move. Returns
// false if no child matches.
func (t *Tree) Forward(move string) bool {
	for _, child := range t.Current.Children {
		if child.Move == move {
			t.Current = child
			return true
		}
	}
	return false
}

// Path returns the moves from root to current.
func (t *Tree) Path() []string {
	var path []string
	for node := t.Current; node != t.Root; node = node.Parent {
		path = append(path, node.Move)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// NumVariations returns how many siblings exist at the current node's
// level, 0 at root.
func (t *Tree) NumVariations() int {
	if t.Current.Parent == nil {
		return 0
	}
	return len(t.Current.Parent.Children)
}

// VariationIndex returns which child of its parent the current node is,
// -1 at root.
func (t *Tree) VariationIndex() int {
	if t.Current.Parent == nil {
		return -1
	}
	for i, child := range t.Current.Parent.Children {
		if child == t.Current {
			return i
		}
	}
	return -1
}

// HasChildren reports whether any move follows the current position.
func (t *Tree) HasChildren() bool {
	return len(t.Current.Children) > 0
}
