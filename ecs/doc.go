// Package ecs connects a dynamo Engine to a [Donburi] world.
//
// [NewEventSink] forwards engine lifecycle events (state changes, finished
// transitions, animation enable/wrap/finish/disable) into the world as typed
// events. Subscribe to [EventType] in your ECS systems to receive them.
//
// [Store] keeps animatable node fields on entities instead of a scene tree.
// It implements [dynamo.Accessor], so an engine can write straight into
// components while groups are still resolved against the authored scene:
//
//	store := ecs.NewStore(world)
//	store.SpawnScene(scene, spec.Fields())
//	groups, err := dynamo.ResolveGroups(spec, scene, store, opts)
//	eng, err := dynamo.NewWithGroups(spec, store, groups)
//	eng.SetEventSink(ecs.NewEventSink(world))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
