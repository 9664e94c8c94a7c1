package ecs

import (
	"fmt"
	"maps"

	"github.com/phanxgames/dynamo"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// NodeData holds the animatable fields of one scene node.
type NodeData struct {
	ID     string
	Fields map[string]dynamo.Value
}

// Node is the component type carrying NodeData.
var Node = donburi.NewComponentType[NodeData]()

var nodeQuery = donburi.NewQuery(filter.Contains(Node))

// Store maps node ids to entities and implements dynamo.Accessor on top of
// the Node component.
type Store struct {
	world donburi.World
	ids   map[string]donburi.Entity
}

var _ dynamo.Accessor = (*Store)(nil)

// NewStore returns an empty store over world.
func NewStore(world donburi.World) *Store {
	return &Store{world: world, ids: make(map[string]donburi.Entity)}
}

// World returns the backing world.
func (s *Store) World() donburi.World {
	return s.world
}

// Spawn creates an entity for id holding a copy of fields. Spawning an id
// that already exists replaces its fields and returns the existing entity.
func (s *Store) Spawn(id string, fields map[string]dynamo.Value) donburi.Entity {
	data := NodeData{ID: id, Fields: make(map[string]dynamo.Value, len(fields))}
	for k, v := range fields {
		data.Fields[k] = v.Clone()
	}
	if e, ok := s.Entity(id); ok {
		Node.SetValue(s.world.Entry(e), data)
		return e
	}
	e := s.world.Create(Node)
	Node.SetValue(s.world.Entry(e), data)
	s.ids[id] = e
	return e
}

// SpawnScene spawns one entity per scene node, copying the given fields
// where the node has a parsable value for them. Nodes without any of the
// fields are still spawned so that writes to them succeed.
func (s *Store) SpawnScene(scene *dynamo.Scene, fields []string) int {
	n := 0
	scene.Walk(func(node *dynamo.Node) bool {
		vals := make(map[string]dynamo.Value)
		for _, f := range fields {
			if v, ok := scene.Attribute(node.ID, f); ok {
				vals[f] = v
			}
		}
		s.Spawn(node.ID, vals)
		n++
		return true
	})
	return n
}

// Entity returns the live entity for id.
func (s *Store) Entity(id string) (donburi.Entity, bool) {
	e, ok := s.ids[id]
	if !ok {
		return 0, false
	}
	if !s.world.Valid(e) {
		delete(s.ids, id)
		return 0, false
	}
	return e, true
}

// Despawn removes the entity for id, if any.
func (s *Store) Despawn(id string) {
	if e, ok := s.Entity(id); ok {
		s.world.Remove(e)
		delete(s.ids, id)
	}
}

// Len returns the number of live node entities.
func (s *Store) Len() int {
	return nodeQuery.Count(s.world)
}

// Attribute implements dynamo.Accessor.
func (s *Store) Attribute(id, field string) (dynamo.Value, bool) {
	e, ok := s.Entity(id)
	if !ok {
		return dynamo.Value{}, false
	}
	v, ok := Node.Get(s.world.Entry(e)).Fields[field]
	if !ok {
		return dynamo.Value{}, false
	}
	return v.Clone(), true
}

// SetAttribute implements dynamo.Accessor.
func (s *Store) SetAttribute(id, field string, v dynamo.Value) error {
	e, ok := s.Entity(id)
	if !ok {
		return fmt.Errorf("%w %q", dynamo.ErrUnknownNode, id)
	}
	data := Node.Get(s.world.Entry(e))
	if data.Fields == nil {
		data.Fields = make(map[string]dynamo.Value)
	}
	data.Fields[field] = v.Clone()
	return nil
}

// Values returns a copy of every entity's fields keyed by node id.
func (s *Store) Values() map[string]map[string]dynamo.Value {
	out := make(map[string]map[string]dynamo.Value, len(s.ids))
	nodeQuery.Each(s.world, func(entry *donburi.Entry) {
		data := Node.Get(entry)
		fields := maps.Clone(data.Fields)
		for k, v := range fields {
			fields[k] = v.Clone()
		}
		out[data.ID] = fields
	})
	return out
}
