package ecs

import (
	"github.com/phanxgames/dynamo"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EventType is the Donburi event type for dynamo lifecycle events.
var EventType = events.NewEventType[dynamo.Event]()

type donburiSink struct {
	world donburi.World
}

// NewEventSink creates an EventSink backed by a Donburi world. Events are
// queued on EventType and delivered by ProcessEvents or
// events.ProcessAllEvents.
func NewEventSink(world donburi.World) dynamo.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event dynamo.Event) {
	EventType.Publish(s.world, event)
}
