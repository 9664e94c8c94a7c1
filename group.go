package dynamo

import (
	"errors"
	"fmt"
	"regexp"
)

// DefaultMatchAttribute is the attribute tested when a node's id does not
// match a group pattern.
const DefaultMatchAttribute = "DEF"

//go:generate go tool mockgen -destination=./mocks/dynamo_mock.go -package=mocks . Tree,Accessor,EventSink

// Tree is the read-only view of a scene hierarchy used to resolve groups.
// Node ids are opaque strings; every node reachable from RootID has one.
// Anonymous reports ids the host generated for nodes the author left unnamed.
type Tree interface {
	RootID() string
	Has(id string) bool
	ChildIDs(id string) []string
	Anonymous(id string) bool
	RawAttribute(id, name string) (string, bool)
}

// Accessor reads and writes named attributes of scene nodes. It is the only
// place the engine mutates visible state.
type Accessor interface {
	Attribute(id, field string) (Value, bool)
	SetAttribute(id, field string, v Value) error
}

// Graph is a scene that can both be walked and mutated.
type Graph interface {
	Tree
	Accessor
}

// ResolveOptions tunes group resolution.
type ResolveOptions struct {
	// Namespace is prefixed to Parent and Root names before lookup, matching
	// hosts that map DEF names to ids with a prefix.
	Namespace string
}

// GroupTable holds resolved group members and the save-state captured for
// each member. It is read-only once built.
type GroupTable struct {
	members map[string][]string
	saved   map[string]map[string]Value
}

// NewGroupTable returns an empty table for hosts with their own resolver.
func NewGroupTable() *GroupTable {
	return &GroupTable{
		members: make(map[string][]string),
		saved:   make(map[string]map[string]Value),
	}
}

// Add appends ids to the named group, creating it if needed.
func (gt *GroupTable) Add(group string, ids ...string) {
	gt.members[group] = append(gt.members[group], ids...)
}

// Save records the initial value of field on node id.
func (gt *GroupTable) Save(id, field string, v Value) {
	m := gt.saved[id]
	if m == nil {
		m = make(map[string]Value)
		gt.saved[id] = m
	}
	m[field] = v.Clone()
}

// Members returns the ordered member ids of group. The returned slice MUST
// NOT be mutated.
func (gt *GroupTable) Members(group string) ([]string, bool) {
	ids, ok := gt.members[group]
	return ids, ok
}

// Saved returns the captured initial value of field on node id.
func (gt *GroupTable) Saved(id, field string) (Value, bool) {
	v, ok := gt.saved[id][field]
	return v, ok
}

// Names returns the group names in sorted order.
func (gt *GroupTable) Names() []string {
	return sortedKeys(gt.members)
}

// ResolveGroups matches every group of spec against tree and captures the
// save-state of each member from acc, restricted to spec.Fields(). A node in
// several groups is captured once.
func ResolveGroups(spec *Spec, tree Tree, acc Accessor, opts ResolveOptions) (*GroupTable, error) {
	gt := NewGroupTable()
	fields := spec.Fields()
	var errs []error
	for _, name := range spec.GroupNames() {
		ids, err := resolveGroup(spec.Groups[name], tree, opts)
		if err != nil {
			errs = append(errs, fmt.Errorf("group %q: %w", name, err))
			continue
		}
		gt.members[name] = ids
		for _, id := range ids {
			if _, done := gt.saved[id]; done {
				continue
			}
			gt.saved[id] = captureSaveState(acc, id, fields)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return gt, nil
}

// captureSaveState reads the initial value of every field on node id.
// A rotation with a zero axis carries no orientation and is skipped.
func captureSaveState(acc Accessor, id string, fields []string) map[string]Value {
	state := make(map[string]Value)
	for _, field := range fields {
		v, ok := acc.Attribute(id, field)
		if !ok || v.Kind == KindNone {
			continue
		}
		if field == FieldRotation && isZeroAxis(v) {
			continue
		}
		state[field] = v.Clone()
	}
	return state
}

func isZeroAxis(v Value) bool {
	if v.Kind != KindTuple || len(v.Tuple) < 3 {
		return false
	}
	return v.Tuple[0] == 0 && v.Tuple[1] == 0 && v.Tuple[2] == 0
}

// resolveGroup returns the ordered ids selected by g.
func resolveGroup(g *GroupDef, tree Tree, opts ResolveOptions) ([]string, error) {
	expr, err := g.pattern()
	if err != nil {
		return nil, err
	}
	attr := g.Attribute
	if attr == "" {
		attr = DefaultMatchAttribute
	}
	invert := g.Modifier == ModifierNot

	var ids []string
	if g.Parent != "" {
		parent := opts.Namespace + g.Parent
		if !tree.Has(parent) {
			return nil, fmt.Errorf("%w: parent %q", ErrMissingRoot, parent)
		}
		for _, child := range tree.ChildIDs(parent) {
			m := matchNode(tree, child, expr, attr)
			if m == matchUndecided {
				continue
			}
			if (m == matchYes) != invert {
				ids = append(ids, child)
			}
		}
		return ids, nil
	}

	root := tree.RootID()
	if g.Root != "" {
		root = opts.Namespace + g.Root
	}
	if root == "" || !tree.Has(root) {
		return nil, fmt.Errorf("%w: root %q", ErrMissingRoot, root)
	}
	var walk func(id string)
	walk = func(id string) {
		if (matchNode(tree, id, expr, attr) == matchYes) != invert {
			ids = append(ids, id)
			return
		}
		for _, child := range tree.ChildIDs(id) {
			walk(child)
		}
	}
	walk(root)
	return ids, nil
}

type matchResult uint8

const (
	matchNo        matchResult = iota
	matchYes                   // id or attribute matched
	matchUndecided             // neither an id match nor the attribute present
)

// matchNode tests the node id first, then the named attribute. Generated ids
// are never tested.
func matchNode(tree Tree, id string, expr *regexp.Regexp, attr string) matchResult {
	if !tree.Anonymous(id) && expr.MatchString(id) {
		return matchYes
	}
	val, ok := tree.RawAttribute(id, attr)
	if !ok {
		return matchUndecided
	}
	if expr.MatchString(val) {
		return matchYes
	}
	return matchNo
}

func (g *GroupDef) pattern() (*regexp.Regexp, error) {
	if g.expr != nil {
		return g.expr, nil
	}
	if err := g.compile(); err != nil {
		return nil, err
	}
	return g.expr, nil
}
