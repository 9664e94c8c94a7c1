package dynamo

import "fmt"

// --- Node ---

// Node is an element of an in-memory scene graph. Attributes are kept the way
// a document stores them, as strings; typed values written by the engine are
// kept beside them so that reads return exactly what was written.
type Node struct {
	// Identity
	ID   string
	Type string

	// Hierarchy
	Parent   *Node
	children []*Node

	attrs  map[string]string
	values map[string]Value

	scene    *Scene
	disposed bool

	// anonymous nodes were created without an id; the scene they join names
	// them and the name never takes part in group matching.
	anonymous bool
}

// NewNode creates a detached node of the given element type. A node with an
// empty id is anonymous: it is given a generated id when it joins a scene.
func NewNode(id, typ string) *Node {
	return &Node{ID: id, Type: typ, anonymous: id == ""}
}

// Anonymous reports whether n was created without an id of its own.
func (n *Node) Anonymous() bool {
	return n.anonymous
}

// SetAttr sets the raw string form of an attribute, discarding any typed
// value previously written to it.
func (n *Node) SetAttr(name, raw string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = raw
	delete(n.values, name)
}

// Attr returns the raw string form of an attribute.
func (n *Node) Attr(name string) (string, bool) {
	raw, ok := n.attrs[name]
	return raw, ok
}

// AttrNames returns the names of the attributes set on n in sorted order.
func (n *Node) AttrNames() []string {
	return sortedKeys(n.attrs)
}

// Value returns the typed value of an attribute. Attributes that were only
// set in raw form are parsed with ParseValue.
func (n *Node) Value(name string) (Value, error) {
	if v, ok := n.values[name]; ok {
		return v.Clone(), nil
	}
	raw, ok := n.attrs[name]
	if !ok {
		return Value{}, nil
	}
	return ParseValue(raw)
}

// SetValue writes a typed attribute value and refreshes its raw form.
func (n *Node) SetValue(name string, v Value) {
	if n.values == nil {
		n.values = make(map[string]Value)
	}
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.values[name] = v.Clone()
	n.attrs[name] = v.String()
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("dynamo: cannot add nil child")
	}
	s := n.scene
	if s != nil && s.debug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("dynamo: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	if s != nil {
		s.attach(child)
		if s.debug {
			s.debugCheckTreeDepth(child)
			s.debugCheckChildCount(n)
		}
	}
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if n.scene != nil && n.scene.debug {
		debugCheckDisposed(n, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.Parent != n {
		panic("dynamo: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	if child.scene != nil {
		child.scene.detach(child)
	}
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.attrs = nil
	n.values = nil
	n.scene = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

func (n *Node) String() string {
	return fmt.Sprintf("<%s id=%q children=%d>", n.Type, n.ID, len(n.children))
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
