// Package dynamo is a declarative state-animation engine for 3D scene graphs.
//
// A [Spec] names scene states, node groups and looping animations. Each state
// is a list of keyframes that set a field on a node or on every member of a
// group. The engine resolves groups against a scene once, captures the
// initial value of every member, and folds all contributions of a state into
// one resolved [Snapshot]. Blending two snapshots gives a transition; a
// sequence of timed transitions gives an animation.
//
// # Quick start
//
//	spec, err := dynamo.LoadSpecFile("house.yaml")
//	scene, err := dynamo.LoadSceneFile("house.x3d", dynamo.X3DOptions{})
//	eng, err := dynamo.New(spec, scene, dynamo.X3DOptions{}.ResolveOptions())
//
//	eng.SetState("closed")
//	eng.DoStateTransition("closed", "open", 1.5, nil)
//	eng.EnableAnimation("flicker")
//	for range ticker.C {
//		if err := eng.Tick(); err != nil {
//			log.Println(err)
//		}
//	}
//
// # Accumulation
//
// When several keyframes touch the same field of the same node, the values
// are reduced by field name: translation and center are summed, rotation is
// composed as quaternions from axis-angle form, meanvalue is averaged and
// render is the logical AND. Any other field must be set at most once per
// state. A group member's captured initial value takes part as the first
// contribution, so states are expressed relative to the authored scene.
//
// # Scheduling
//
// [Engine.Tick] samples its [Clock] once and then runs one-shot transitions
// followed by active animations in id order. An animation step whose
// timeline completes moves on to the next step at t = 0; the remainder of
// the elapsed time is dropped. Non-cyclic animations are removed after one
// full pass. Removal is lazy and happens after the pass completes.
//
// Engines are single-threaded. Other goroutines hand work to the tick loop
// with [Engine.Inject].
//
// # Hosts
//
// Any scene that implements [Graph] can be driven. [Scene] is an in-memory
// implementation loaded from X3D or JSON/YAML node documents. The ebitenhost
// package runs an engine inside an Ebitengine game loop, wsbridge streams
// applied values to websocket clients, and the ecs sub-module forwards
// engine events into a [Donburi] world.
//
// [Donburi]: https://github.com/yohamta/donburi
package dynamo
