// Package paneset implements the pane layout tree: a pure, tree-recursive
// binary split tree whose leaves reference pane ids rather than pane
// objects, so split/collapse/resize operations stay simple and crash-free
// (see spec design note on cyclic/back-pointing structures).
package paneset

const (
	MinRatio = 0.1
	MaxRatio = 0.9
)

// Kind identifies a node's shape.
type Kind int

const (
	KindLeaf Kind = iota
	KindHSplit
	KindVSplit
)

// Rect is an axis-aligned pixel rectangle, top-left origin.
type Rect struct {
	X, Y, W, H float64
}

// Node is a layout tree node: a Leaf(pane_id), or an HSplit/VSplit of two
// children with a ratio giving the first child's share of the extent.
type Node struct {
	Kind     Kind
	PaneID   uint64
	Ratio    float64
	Children [2]*Node
}

// Leaf creates a leaf node for the given pane id.
func Leaf(id uint64) *Node { return &Node{Kind: KindLeaf, PaneID: id} }

func clampRatio(r float64) float64 {
	if r < MinRatio {
		return MinRatio
	}
	if r > MaxRatio {
		return MaxRatio
	}
	return r
}

// split creates a Kind split of two leaves at the given ratio.
func split(kind Kind, left, right *Node, ratio float64) *Node {
	return &Node{Kind: kind, Ratio: clampRatio(ratio), Children: [2]*Node{left, right}}
}

// PaneRect pairs a pane id with its computed on-screen rectangle.
type PaneRect struct {
	PaneID uint64
	Rect   Rect
}

// ComputeRects walks the tree, splitting rect by each node's ratio, and
// returns the rectangle assigned to every leaf.
func (n *Node) ComputeRects(rect Rect) []PaneRect {
	if n == nil {
		return nil
	}
	if n.Kind == KindLeaf {
		return []PaneRect{{PaneID: n.PaneID, Rect: rect}}
	}
	left, right := n.splitRect(rect)
	out := n.Children[0].ComputeRects(left)
	out = append(out, n.Children[1].ComputeRects(right)...)
	return out
}

func (n *Node) splitRect(rect Rect) (first, second Rect) {
	switch n.Kind {
	case KindHSplit:
		w0 := rect.W * n.Ratio
		return Rect{X: rect.X, Y: rect.Y, W: w0, H: rect.H},
			Rect{X: rect.X + w0, Y: rect.Y, W: rect.W - w0, H: rect.H}
	case KindVSplit:
		h0 := rect.H * n.Ratio
		return Rect{X: rect.X, Y: rect.Y, W: rect.W, H: h0},
			Rect{X: rect.X, Y: rect.Y + h0, W: rect.W, H: rect.H - h0}
	default:
		return rect, rect
	}
}

// PaneIDs returns every leaf's pane id in depth-first order.
func (n *Node) PaneIDs() []uint64 {
	if n == nil {
		return nil
	}
	if n.Kind == KindLeaf {
		return []uint64{n.PaneID}
	}
	ids := n.Children[0].PaneIDs()
	return append(ids, n.Children[1].PaneIDs()...)
}

// findPath locates the leaf for id and its parent chain, innermost last.
func (n *Node) findPath(id uint64, path []*Node) ([]*Node, bool) {
	if n == nil {
		return nil, false
	}
	if n.Kind == KindLeaf {
		if n.PaneID == id {
			return path, true
		}
		return nil, false
	}
	if p, ok := n.Children[0].findPath(id, append(path, n)); ok {
		return p, true
	}
	if p, ok := n.Children[1].findPath(id, append(path, n)); ok {
		return p, true
	}
	return nil, false
}

// SplitLeaf replaces the Leaf(targetID) with an HSplit/VSplit of itself
// and a new Leaf(newID), sharing the space evenly. Returns a new tree
// root (the tree is never mutated in place) and false if targetID isn't
// present.
func (n *Node) SplitLeaf(targetID, newID uint64, kind Kind) (*Node, bool) {
	return n.replace(targetID, func(leaf *Node) *Node {
		return split(kind, Leaf(targetID), Leaf(newID), 0.5)
	})
}

// replace rebuilds the tree, substituting the leaf matching targetID with
// the node returned by fn. Returns (nil, false) if not found.
func (n *Node) replace(targetID uint64, fn func(leaf *Node) *Node) (*Node, bool) {
	if n == nil {
		return nil, false
	}
	if n.Kind == KindLeaf {
		if n.PaneID == targetID {
			return fn(n), true
		}
		return n, false
	}
	left, okL := n.Children[0].replace(targetID, fn)
	if okL {
		return &Node{Kind: n.Kind, Ratio: n.Ratio, Children: [2]*Node{left, n.Children[1]}}, true
	}
	right, okR := n.Children[1].replace(targetID, fn)
	if okR {
		return &Node{Kind: n.Kind, Ratio: n.Ratio, Children: [2]*Node{n.Children[0], right}}, true
	}
	return n, false
}

// Remove drops the leaf for targetID and collapses its parent split into
// the surviving sibling. Returns the new root (nil if the tree becomes
// empty) and false if targetID wasn't present.
func (n *Node) Remove(targetID uint64) (*Node, bool) {
	if n == nil {
		return nil, false
	}
	if n.Kind == KindLeaf {
		if n.PaneID == targetID {
			return nil, true
		}
		return n, false
	}
	if n.Children[0].Kind == KindLeaf && n.Children[0].PaneID == targetID {
		return n.Children[1], true
	}
	if n.Children[1].Kind == KindLeaf && n.Children[1].PaneID == targetID {
		return n.Children[0], true
	}
	if left, ok := n.Children[0].Remove(targetID); ok {
		return &Node{Kind: n.Kind, Ratio: n.Ratio, Children: [2]*Node{left, n.Children[1]}}, true
	}
	if right, ok := n.Children[1].Remove(targetID); ok {
		return &Node{Kind: n.Kind, Ratio: n.Ratio, Children: [2]*Node{n.Children[0], right}}, true
	}
	return n, false
}

// NudgeRatioFor adjusts the ratio of the innermost split containing
// targetID as a direct child by ±delta, clamped to [0.1, 0.9]. Returns a
// new root and false if targetID has no direct-parent split (e.g. it is
// the whole tree).
func (n *Node) NudgeRatioFor(targetID uint64, delta float64) (*Node, bool) {
	if n == nil || n.Kind == KindLeaf {
		return n, false
	}
	isDirectChild := (n.Children[0].Kind == KindLeaf && n.Children[0].PaneID == targetID) ||
		(n.Children[1].Kind == KindLeaf && n.Children[1].PaneID == targetID)
	if isDirectChild {
		return &Node{Kind: n.Kind, Ratio: clampRatio(n.Ratio + delta), Children: n.Children}, true
	}
	if left, ok := n.Children[0].NudgeRatioFor(targetID, delta); ok {
		return &Node{Kind: n.Kind, Ratio: n.Ratio, Children: [2]*Node{left, n.Children[1]}}, true
	}
	if right, ok := n.Children[1].NudgeRatioFor(targetID, delta); ok {
		return &Node{Kind: n.Kind, Ratio: n.Ratio, Children: [2]*Node{n.Children[0], right}}, true
	}
	return n, false
}
