//go:build darwin && cgo

package devices

/*
int gatecv_listen_start(void);
int gatecv_listen_stop(void);
*/
import "C"
import (
	"fmt"
	"sync"
)

// ChangeKind is a bitmask describing what the HAL reported.
type ChangeKind uint32

const (
	DeviceListChanged ChangeKind = 1 << iota
	DefaultOutputChanged
)

func (k ChangeKind) String() string {
	switch {
	case k&DeviceListChanged != 0 && k&DefaultOutputChanged != 0:
		return "device list and default output changed"
	case k&DeviceListChanged != 0:
		return "device list changed"
	case k&DefaultOutputChanged != 0:
		return "default output changed"
	default:
		return "no change"
	}
}

// Listener is an owned handle on the HAL's hot-plug notifications. Each OS
// callback invocation is delivered exactly once as a single ChangeKind on
// Changes; consumers re-query the catalog after draining. StartListening
// and StopListening are idempotent.
//
// The HAL invokes property listeners on its own thread. Delivery through a
// buffered channel is what moves the signal onto the consumer's control
// goroutine; no catalog call may happen on the HAL thread.
type Listener struct {
	mu        sync.Mutex
	listening bool
	changes   chan ChangeKind
}

// registration routes the C trampoline to the single active listener.
var (
	activeMu       sync.Mutex
	activeListener *Listener
)

// NewListener creates an inactive listener.
func NewListener() *Listener {
	return &Listener{changes: make(chan ChangeKind, 16)}
}

// Changes is the notification stream. It is never closed; stop listening
// and drop the Listener instead.
func (l *Listener) Changes() <-chan ChangeKind {
	return l.changes
}

// IsListening reports whether HAL notifications are registered.
func (l *Listener) IsListening() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.listening
}

// StartListening registers the HAL property listeners. A second call while
// already listening is a no-op.
func (l *Listener) StartListening() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.listening {
		return nil
	}

	activeMu.Lock()
	if activeListener != nil && activeListener != l {
		activeMu.Unlock()
		return fmt.Errorf("another listener is already registered with the HAL")
	}
	activeListener = l
	activeMu.Unlock()

	if status := int(C.gatecv_listen_start()); status != 0 {
		activeMu.Lock()
		activeListener = nil
		activeMu.Unlock()
		return fmt.Errorf("failed to register HAL property listeners (OSStatus %d)", status)
	}

	l.listening = true
	return nil
}

// StopListening removes the HAL property listeners. Calling it while not
// listening is a no-op.
func (l *Listener) StopListening() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.listening {
		return nil
	}

	l.listening = false

	activeMu.Lock()
	activeListener = nil
	activeMu.Unlock()

	if status := int(C.gatecv_listen_stop()); status != 0 {
		return fmt.Errorf("failed to remove HAL property listeners (OSStatus %d)", status)
	}
	return nil
}

// deliver hands a change mask from the HAL thread to the active listener.
// The channel send never blocks; if the consumer is behind, the change is
// dropped because a later refresh observes the same hardware state anyway.
func deliver(mask ChangeKind) {
	activeMu.Lock()
	l := activeListener
	activeMu.Unlock()

	if l == nil {
		return
	}

	select {
	case l.changes <- mask:
	default:
	}
}
