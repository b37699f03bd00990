//go:build darwin && cgo

// Package pulse owns the live audio output graph and synthesizes the gate
// pulses it schedules. Exactly one graph is bound to hardware at a time:
// Setup tears the previous one down synchronously before constructing the
// next.
package pulse

/*
#cgo CFLAGS: -x objective-c -fobjc-arc
#cgo LDFLAGS: -framework Foundation -framework AVFoundation -framework AudioToolbox -framework CoreAudio
#include "native/pulse.m"
#include <stdlib.h>

PulseGraphResult pulsegraph_new(void);
char* pulsegraph_bind_device(PulseGraph *graph, unsigned int deviceId);
unsigned int pulsegraph_bound_device(PulseGraph *graph);
char* pulsegraph_connect(PulseGraph *graph);
char* pulsegraph_start(PulseGraph *graph);
char* pulsegraph_schedule(PulseGraph *graph, const float *samples, int frames, int channels);
void pulsegraph_stop(PulseGraph *graph);
void pulsegraph_destroy(PulseGraph *graph);
*/
import "C"
import (
	"errors"
	"sync"
	"unsafe"

	"github.com/shaban/gatecv/devices"
)

// State is the engine lifecycle position.
type State int

const (
	Uninitialized State = iota
	Ready
	Stopped
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Config tunes the engine.
type Config struct {
	// OnWarning receives non-fatal conditions (BindingWarning). Optional.
	OnWarning func(error)
}

// Engine is the gate pulse engine. All methods are safe for concurrent use;
// graph mutation is serialized by the internal lock.
type Engine struct {
	mu           sync.Mutex
	graph        *C.PulseGraph
	state        State
	sampleRate   float64
	channelCount int
	lastBinding  Binding
	onWarning    func(error)
}

// NewEngine creates an Uninitialized engine. No hardware is touched until
// Setup or the first trigger.
func NewEngine(cfg Config) *Engine {
	return &Engine{onWarning: cfg.OnWarning}
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Format returns the negotiated sample rate and channel count. Both are
// zero unless the engine is Ready.
func (e *Engine) Format() (sampleRate float64, channelCount int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Ready {
		return 0, 0
	}
	return e.sampleRate, e.channelCount
}

// LastBinding returns the binding of the most recent successful setup.
func (e *Engine) LastBinding() Binding {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastBinding
}

// Setup tears down any existing graph and builds a new one bound per the
// given binding. On failure the engine holds no partial graph and is left
// Uninitialized; the returned error is an *EngineInitError.
func (e *Engine) Setup(binding Binding) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setupLocked(binding)
}

func (e *Engine) setupLocked(binding Binding) error {
	e.teardownLocked()
	e.state = Uninitialized

	result := C.pulsegraph_new()
	if result.error != nil {
		defer C.free(unsafe.Pointer(result.error))
		return &EngineInitError{Stage: "graph creation", Err: errors.New(C.GoString(result.error))}
	}
	graph := result.graph

	// Explicit low-level bind before the format is negotiated, so the
	// endpoint reports the right device's format. A set failure here is a
	// warning, not a setup failure: the graph still runs on whatever
	// device the endpoint holds.
	if id, explicit := binding.Device(); explicit {
		if errStr := C.pulsegraph_bind_device(graph, C.uint(id)); errStr != nil {
			e.warn(BindingWarning{Want: id, Err: errors.New(C.GoString(errStr))})
			C.free(unsafe.Pointer(errStr))
		}
	}

	if errStr := C.pulsegraph_connect(graph); errStr != nil {
		defer C.free(unsafe.Pointer(errStr))
		err := errors.New(C.GoString(errStr))
		C.pulsegraph_destroy(graph)
		return &EngineInitError{Stage: "format connection", Err: err}
	}

	if errStr := C.pulsegraph_start(graph); errStr != nil {
		defer C.free(unsafe.Pointer(errStr))
		err := errors.New(C.GoString(errStr))
		C.pulsegraph_destroy(graph)
		return &EngineInitError{Stage: "graph start", Err: err}
	}

	// Some hardware applies the device property asynchronously, so the
	// bind is re-asserted after start and verified by readback. A
	// mismatch is reported as a warning; the readback is never taken as
	// proof the bind stuck.
	if id, explicit := binding.Device(); explicit {
		if errStr := C.pulsegraph_bind_device(graph, C.uint(id)); errStr != nil {
			C.free(unsafe.Pointer(errStr))
		}
		if got := devices.ID(C.pulsegraph_bound_device(graph)); got != id {
			e.warn(BindingWarning{Want: id, Got: got})
		}
	}

	e.graph = graph
	e.sampleRate = float64(graph.sampleRate)
	e.channelCount = int(graph.channelCount)
	e.lastBinding = binding
	e.state = Ready
	return nil
}

// TriggerGate synthesizes one gate pulse on the given 1-based channel
// numbers and schedules it for immediate playback. Fire and forget: the
// call returns once the buffer is queued, and rapid triggers may overlap.
// An empty channel set returns ErrNoActiveChannels without touching the
// engine. When Uninitialized, the engine sets itself up lazily with the
// last known binding.
func (e *Engine) TriggerGate(channels []int) error {
	if len(channels) == 0 {
		return ErrNoActiveChannels
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Ready {
		if err := e.setupLocked(e.lastBinding); err != nil {
			return err
		}
	}

	samples, frames := RenderGateBuffer(channels, e.sampleRate, e.channelCount)
	if frames == 0 {
		return &EngineInitError{Stage: "synthesis", Err: errors.New("negotiated format has no frames")}
	}

	errStr := C.pulsegraph_schedule(e.graph,
		(*C.float)(unsafe.Pointer(&samples[0])),
		C.int(frames),
		C.int(e.channelCount))
	if errStr != nil {
		defer C.free(unsafe.Pointer(errStr))
		return &EngineInitError{Stage: "scheduling", Err: errors.New(C.GoString(errStr))}
	}
	return nil
}

// Stop stops playback and tears down the graph. Idempotent; a later Setup
// brings the engine back to Ready.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.teardownLocked()
	e.state = Stopped
}

func (e *Engine) teardownLocked() {
	if e.graph == nil {
		return
	}
	C.pulsegraph_destroy(e.graph)
	e.graph = nil
	e.sampleRate = 0
	e.channelCount = 0
}

func (e *Engine) warn(err error) {
	if e.onWarning != nil {
		e.onWarning(err)
	}
}
