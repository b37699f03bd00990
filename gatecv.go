//go:build darwin && cgo

// Package gatecv emits modular-synthesizer gate pulses on selected channels
// of a multi-channel audio output interface. The Controller wires the
// device catalog, the selection policy and the gate pulse engine together
// and is the single surface the UI collaborator talks to.
//
// Configuration is transient by design: every process start begins from a
// fresh hardware enumeration and a default routing table.
package gatecv

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shaban/gatecv/control"
	"github.com/shaban/gatecv/devices"
	"github.com/shaban/gatecv/events"
	"github.com/shaban/gatecv/pulse"
	"github.com/shaban/gatecv/routing"
	"github.com/shaban/gatecv/selection"
)

// Config holds controller configuration.
type Config struct {
	// Selection tunes the device preference policy.
	Selection selection.Config

	// Catalog overrides the device catalog; nil means the live HAL.
	Catalog selection.Catalog

	// ErrorHandler receives non-fatal conditions; nil means
	// DefaultErrorHandler.
	ErrorHandler ErrorHandler
}

// Controller owns one gate pulse engine, the selection state and the
// routing table. All selection and engine rebinding mutations run on the
// internal control goroutine; hot-plug callbacks are marshaled onto it
// before touching any shared state.
type Controller struct {
	id   uuid.UUID
	name string

	mu        sync.Mutex
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc

	loop     *control.Loop
	policy   *selection.Policy
	engine   *pulse.Engine
	table    *routing.Table
	bus      *events.Bus
	listener *devices.Listener

	errorHandler ErrorHandler
}

// NewController creates a stopped controller. No hardware is touched until
// Start.
func NewController(cfg Config) *Controller {
	if cfg.Catalog == nil {
		cfg.Catalog = devices.System{}
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = DefaultErrorHandler{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := &Controller{
		id:           uuid.New(),
		name:         "GateCV Controller",
		ctx:          ctx,
		cancel:       cancel,
		loop:         control.NewLoop(32),
		policy:       selection.NewPolicy(cfg.Catalog, cfg.Selection),
		table:        routing.NewTable(),
		bus:          events.New(),
		listener:     devices.NewListener(),
		errorHandler: cfg.ErrorHandler,
	}
	c.engine = pulse.NewEngine(pulse.Config{OnWarning: cfg.ErrorHandler.HandleError})
	return c
}

// ID returns the controller's identity.
func (c *Controller) ID() string {
	return c.id.String()
}

// Start runs the initial device reconciliation and begins listening for
// hot-plug events. Hot-plug registration failure degrades to manual
// Refresh calls and is reported, not fatal.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		return fmt.Errorf("controller is already running")
	}

	c.loop.Start()
	c.refreshNow(0)

	if err := c.listener.StartListening(); err != nil {
		c.errorHandler.HandleError(fmt.Errorf("hot-plug notifications unavailable: %w", err))
	} else {
		go c.forwardChanges()
	}

	c.isRunning = true
	return nil
}

// Stop tears everything down: listener, engine, control loop. Idempotent.
// No hardware binding survives this call.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		return nil
	}
	c.isRunning = false

	if err := c.listener.StopListening(); err != nil {
		c.errorHandler.HandleError(err)
	}
	c.cancel()
	c.loop.Close()
	c.engine.Stop()
	return nil
}

// forwardChanges moves HAL callback signals onto the control goroutine.
// One refresh op per delivered change; the consumer drains before the
// hardware is queried again.
func (c *Controller) forwardChanges() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case kind := <-c.listener.Changes():
			if err := c.loop.Enqueue(func(ctx context.Context) {
				c.reconcile(kind)
			}); err != nil {
				return
			}
		}
	}
}

// Refresh re-enumerates devices and reconciles selection and engine
// binding. Runs on the control goroutine; returns the resulting state.
func (c *Controller) Refresh() selection.State {
	return c.refreshNow(devices.DeviceListChanged)
}

func (c *Controller) refreshNow(kind devices.ChangeKind) selection.State {
	var state selection.State
	if err := c.loop.Do(func(ctx context.Context) {
		state = c.reconcile(kind)
	}); err != nil {
		// Loop closed: fall back to the last known state.
		state = c.policy.State()
	}
	return state
}

// reconcile runs on the control goroutine only.
func (c *Controller) reconcile(kind devices.ChangeKind) selection.State {
	before, hadBefore := c.policy.State().SelectedID()
	state := c.policy.Refresh()
	after, hasAfter := state.SelectedID()

	selectionChanged := hadBefore != hasAfter || before != after
	if selectionChanged {
		c.rebind(state)
	}

	c.bus.Publish(events.DeviceListChangedEvent{})
	if kind&devices.DefaultOutputChanged != 0 {
		c.bus.Publish(events.DefaultOutputChangedEvent{})
	}
	if selectionChanged {
		c.bus.Publish(events.SelectionChangedEvent{})
	}
	return state
}

// rebind points the engine at the current selection. Engine failures leave
// triggering disabled until the next lazy setup attempt and are surfaced
// through the error handler.
func (c *Controller) rebind(state selection.State) {
	if state.Selected == nil {
		c.engine.Stop()
		return
	}
	if err := c.engine.Setup(pulse.BindDevice(state.Selected.ID)); err != nil {
		c.errorHandler.HandleError(err)
	}
}

// Devices returns the currently known output devices.
func (c *Controller) Devices() devices.List {
	return c.policy.State().Available
}

// Selected returns the currently selected device.
func (c *Controller) Selected() (devices.Device, bool) {
	state := c.policy.State()
	if state.Selected == nil {
		return devices.Device{}, false
	}
	return *state.Selected, true
}

// SelectDevice is the explicit user override. The descriptor must come
// from a current enumeration. The engine is rebound immediately; a setup
// failure is returned (and the selection kept) so the UI can prompt.
func (c *Controller) SelectDevice(device devices.Device) error {
	var setupErr error
	err := c.loop.Do(func(ctx context.Context) {
		c.policy.Select(device)
		setupErr = c.engine.Setup(pulse.BindDevice(device.ID))
		c.bus.Publish(events.SelectionChangedEvent{})
	})
	if err != nil {
		return err
	}
	return setupErr
}

// Routing returns the channel routing table. The controller never mutates
// it; the UI owns its contents.
func (c *Controller) Routing() *routing.Table {
	return c.table
}

// Trigger emits a gate pulse on every channel the routing table marks as
// Gate. Synthesis happens on the calling goroutine and the call returns as
// soon as the buffer is queued. With no gate channels configured it
// returns pulse.ErrNoActiveChannels and emits nothing.
func (c *Controller) Trigger() error {
	return c.TriggerChannels(c.table.ChannelsWith(routing.SignalGate))
}

// TriggerChannels emits a gate pulse on an explicit channel set, bypassing
// the routing table. Used by alternative trigger sources (MIDI).
func (c *Controller) TriggerChannels(channels []int) error {
	if err := c.engine.TriggerGate(channels); err != nil {
		return err
	}
	c.bus.Publish(events.GateTriggeredEvent{Channels: channels})
	return nil
}

// Bus is the notification stream toward the UI collaborator. Events carry
// no payload; re-read controller state after receiving one.
func (c *Controller) Bus() *events.Bus {
	return c.bus
}
