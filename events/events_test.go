package events

import (
	"testing"
	"time"
)

func TestPublishReachesSubscriber(t *testing.T) {
	bus := New()

	received := make(chan SelectionChangedEvent, 1)
	unsub := bus.Subscribe(func(e SelectionChangedEvent) {
		received <- e
	})
	defer unsub()

	bus.Publish(SelectionChangedEvent{})

	select {
	case <-received:
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the event")
	}
}

func TestSubscriberOnlySeesItsType(t *testing.T) {
	bus := New()

	selections := make(chan struct{}, 4)
	unsub := bus.Subscribe(func(e SelectionChangedEvent) {
		selections <- struct{}{}
	})
	defer unsub()

	bus.Publish(DeviceListChangedEvent{})
	bus.Publish(GateTriggeredEvent{Channels: []int{1}})

	select {
	case <-selections:
		t.Fatal("selection subscriber received a foreign event type")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestGateTriggeredCarriesChannels(t *testing.T) {
	bus := New()

	received := make(chan GateTriggeredEvent, 1)
	unsub := bus.Subscribe(func(e GateTriggeredEvent) {
		received <- e
	})
	defer unsub()

	bus.Publish(GateTriggeredEvent{Channels: []int{2, 5}})

	select {
	case e := <-received:
		if len(e.Channels) != 2 || e.Channels[0] != 2 || e.Channels[1] != 5 {
			t.Fatalf("channels = %v, want [2 5]", e.Channels)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the event")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := New()

	received := make(chan struct{}, 4)
	unsub := bus.Subscribe(func(e DeviceListChangedEvent) {
		received <- struct{}{}
	})
	unsub()

	bus.Publish(DeviceListChangedEvent{})

	select {
	case <-received:
		t.Fatal("unsubscribed handler still received an event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnknownHandlerTypeIsNoop(t *testing.T) {
	bus := New()
	unsub := bus.Subscribe(func(s string) {})
	unsub()
}
