package art

import "github.com/aretw0/randomart/pkg/domain"

// Node is one operator in a tree. A node owns its children exclusively.
// Once built, a tree is never mutated, so it can be evaluated from many goroutines.
type Node struct {
	Kind     *Kind
	Children []*Node
	Params   Params
}

// Eval computes the color at (x, y). Children are evaluated first, at the same coordinates.
func (n *Node) Eval(x, y float64) domain.Color {
	var buf [MaxArity]domain.Color
	in := buf[:len(n.Children)]
	for i, child := range n.Children {
		in[i] = child.Eval(x, y)
	}
	return n.Kind.eval(&n.Params, in, x, y)
}

// Size counts the nodes in the tree.
func (n *Node) Size() int {
	size := 1
	for _, child := range n.Children {
		size += child.Size()
	}
	return size
}

// Depth is 0 for a leaf.
func (n *Node) Depth() int {
	depth := 0
	for _, child := range n.Children {
		if d := child.Depth() + 1; d > depth {
			depth = d
		}
	}
	return depth
}

// Composites counts the non-terminal nodes. A generated tree has exactly as many as its complexity.
func (n *Node) Composites() int {
	if n.Kind.Terminal() {
		return 0
	}
	count := 1
	for _, child := range n.Children {
		count += child.Composites()
	}
	return count
}

func (n *Node) String() string {
	return Format(n)
}
