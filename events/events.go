// Package events is the notification surface toward the UI collaborator.
// Change events carry no state snapshot: consumers re-read the controller
// after receiving one, so a dropped or coalesced delivery can never leave
// them with stale data.
package events

import (
	"github.com/kelindar/event"
)

// Event type constants for kelindar/event.
const (
	TypeDeviceListChanged uint32 = iota + 1
	TypeDefaultOutputChanged
	TypeSelectionChanged
	TypeGateTriggered
)

// Event is the interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// DeviceListChangedEvent fires after the available-device list was
// reconciled against fresh hardware.
type DeviceListChangedEvent struct{}

func (DeviceListChangedEvent) Type() uint32 { return TypeDeviceListChanged }

// DefaultOutputChangedEvent fires when the OS default output moved.
type DefaultOutputChangedEvent struct{}

func (DefaultOutputChangedEvent) Type() uint32 { return TypeDefaultOutputChanged }

// SelectionChangedEvent fires when the selected device changed, by policy
// or by explicit user choice.
type SelectionChangedEvent struct{}

func (SelectionChangedEvent) Type() uint32 { return TypeSelectionChanged }

// GateTriggeredEvent fires after a pulse was scheduled.
type GateTriggeredEvent struct {
	Channels []int
}

func (GateTriggeredEvent) Type() uint32 { return TypeGateTriggered }

// Bus wraps the kelindar/event dispatcher for the event set above.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates an event bus.
func New() *Bus {
	return &Bus{dispatcher: event.NewDispatcher()}
}

// Publish delivers an event to all subscribers of its type.
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case DeviceListChangedEvent:
		event.Publish(b.dispatcher, e)
	case DefaultOutputChangedEvent:
		event.Publish(b.dispatcher, e)
	case SelectionChangedEvent:
		event.Publish(b.dispatcher, e)
	case GateTriggeredEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers a handler; the handler's parameter type selects which
// events it receives. Returns an unsubscribe function. Unrecognized handler
// types get a no-op unsubscriber.
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(DeviceListChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(DefaultOutputChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(SelectionChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(GateTriggeredEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
