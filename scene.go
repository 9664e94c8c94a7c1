package dynamo

import (
	"fmt"
	"log/slog"
	"strconv"
)

var _ Graph = (*Scene)(nil)

// RootType is the element type of the node created by NewScene.
const RootType = "Scene"

// Scene is the top-level object that owns an in-memory node tree and an
// index of its nodes by id. It implements Graph, so an Engine can resolve
// groups against it and write values into it.
type Scene struct {
	root   *Node
	index  map[string]*Node
	logger *slog.Logger
	debug  bool

	// lastID numbers the ids generated for anonymous nodes.
	lastID uint32
}

// NewScene creates a new scene with a pre-created root node of type RootType
// and id "root".
func NewScene() *Scene {
	return NewSceneWithRoot(NewNode("root", RootType))
}

// NewSceneWithRoot creates a scene owning the tree under root.
func NewSceneWithRoot(root *Node) *Scene {
	s := &Scene{
		root:   root,
		index:  make(map[string]*Node),
		logger: slog.Default(),
	}
	s.attach(root)
	return s
}

// Root returns the scene's root node.
func (s *Scene) Root() *Node {
	return s.root
}

// Node returns the node with the given id.
func (s *Scene) Node(id string) (*Node, bool) {
	n, ok := s.index[id]
	return n, ok
}

// Len returns the number of indexed nodes, root included.
func (s *Scene) Len() int {
	return len(s.index)
}

// SetLogger replaces the logger used for tree warnings.
func (s *Scene) SetLogger(l *slog.Logger) {
	s.logger = l
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics and tree depth and child count warnings are logged.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// Walk visits every node depth-first in document order. Returning false from
// fn skips the node's children.
func (s *Scene) Walk(fn func(*Node) bool) {
	var visit func(n *Node)
	visit = func(n *Node) {
		if !fn(n) {
			return
		}
		for _, c := range n.children {
			visit(c)
		}
	}
	visit(s.root)
}

// generateID returns an unused id of the form node#N.
func (s *Scene) generateID() string {
	for {
		s.lastID++
		id := "node#" + strconv.FormatUint(uint64(s.lastID), 10)
		if _, taken := s.index[id]; !taken {
			return id
		}
	}
}

// attach indexes n and its subtree. The first node to claim an id keeps it.
// Anonymous nodes are named on the way in.
func (s *Scene) attach(n *Node) {
	if n.anonymous && (n.ID == "" || n.scene != s) {
		n.ID = s.generateID()
	}
	n.scene = s
	if prev, dup := s.index[n.ID]; dup && prev != n {
		s.logger.Warn("duplicate node id; keeping first", "node", n.ID)
	} else {
		s.index[n.ID] = n
	}
	for _, c := range n.children {
		s.attach(c)
	}
}

func (s *Scene) detach(n *Node) {
	if s.index[n.ID] == n {
		delete(s.index, n.ID)
	}
	if n.anonymous {
		n.ID = ""
	}
	n.scene = nil
	for _, c := range n.children {
		s.detach(c)
	}
}

// RootID implements Tree.
func (s *Scene) RootID() string {
	return s.root.ID
}

// Has implements Tree.
func (s *Scene) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// ChildIDs implements Tree.
func (s *Scene) ChildIDs(id string) []string {
	n, ok := s.index[id]
	if !ok {
		return nil
	}
	ids := make([]string, len(n.children))
	for i, c := range n.children {
		ids[i] = c.ID
	}
	return ids
}

// Anonymous implements Tree.
func (s *Scene) Anonymous(id string) bool {
	n, ok := s.index[id]
	return ok && n.anonymous
}

// RawAttribute implements Tree.
func (s *Scene) RawAttribute(id, name string) (string, bool) {
	n, ok := s.index[id]
	if !ok {
		return "", false
	}
	return n.Attr(name)
}

// Attribute implements Accessor. Attributes whose text does not parse are
// reported as absent.
func (s *Scene) Attribute(id, field string) (Value, bool) {
	n, ok := s.index[id]
	if !ok {
		return Value{}, false
	}
	if _, ok := n.Attr(field); !ok {
		return Value{}, false
	}
	v, err := n.Value(field)
	if err != nil {
		s.logger.Warn("unparsable attribute", "node", id, "field", field, "err", err)
		return Value{}, false
	}
	return v, true
}

// SetAttribute implements Accessor.
func (s *Scene) SetAttribute(id, field string, v Value) error {
	n, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownNode, id)
	}
	n.SetValue(field, v)
	return nil
}

// Values returns the parsed value of every listed field on every node that
// has it, keyed like a Snapshot.
func (s *Scene) Values(fields []string) Snapshot {
	snap := make(Snapshot)
	s.Walk(func(n *Node) bool {
		for _, f := range fields {
			if v, ok := s.Attribute(n.ID, f); ok {
				snap.set(n.ID, f, v)
			}
		}
		return true
	})
	return snap
}
