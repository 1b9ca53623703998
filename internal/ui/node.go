// Package ui is a minimal retained element tree: the host HUD, its minimap
// widget and any overlay attached to it are Nodes.
package ui

import "github.com/Garsondee/Better-Minimap/internal/draw"

// Actor gives a node behaviour. Act runs every update before the node's
// children; Draw runs before the children are drawn.
type Actor interface {
	Act(n *Node, dt float64)
	Draw(n *Node, c draw.Canvas)
}

// Node is an element in the tree. Children are drawn in order, so the last
// child is top-most.
type Node struct {
	Name      string
	Bounds    draw.Rect
	Visible   bool
	Touchable bool
	Actor     Actor

	parent   *Node
	children []*Node
}

// NewNode returns a visible, touchable node.
func NewNode(name string) *Node {
	return &Node{Name: name, Visible: true, Touchable: true}
}

// Parent returns the node's parent, or nil at the root or when detached.
func (n *Node) Parent() *Node { return n.parent }

// ChildCount is the number of direct children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th child, or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// AddChild appends c as the top-most child, detaching it from any previous
// parent first.
func (n *Node) AddChild(c *Node) {
	if c == nil || c == n {
		return
	}
	if c.parent != nil {
		c.Remove()
	}
	c.parent = n
	n.children = append(n.children, c)
}

// Remove detaches n from its parent. It reports whether n had a parent.
func (n *Node) Remove() bool {
	p := n.parent
	if p == nil {
		return false
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
	return true
}

// ToFront moves n to the top of its parent's children.
func (n *Node) ToFront() {
	p := n.parent
	if p == nil {
		return
	}
	last := len(p.children) - 1
	if last >= 0 && p.children[last] == n {
		return
	}
	n.Remove()
	p.AddChild(n)
}

// Find returns the first node named name in a depth-first walk that starts
// at n itself.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}

// Act runs the actor then every child. Children added during the walk are
// not visited until the next call.
func (n *Node) Act(dt float64) {
	if n.Actor != nil {
		n.Actor.Act(n, dt)
	}
	for _, c := range n.Children() {
		c.Act(dt)
	}
}

// Draw draws visible nodes, parents before children.
func (n *Node) Draw(c draw.Canvas) {
	if !n.Visible {
		return
	}
	if n.Actor != nil {
		n.Actor.Draw(n, c)
	}
	for _, ch := range n.children {
		ch.Draw(c)
	}
}
