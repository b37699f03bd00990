//go:build darwin && cgo

// Package miditrig fires gate pulses from incoming MIDI note-on events, so
// a keyboard or sequencer can drive the outputs without touching the UI.
// Notes within one octave above the base note map onto table channels 1..8;
// everything else is ignored.
package miditrig

import (
	"fmt"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters the driver
)

// DefaultBaseNote is C2, the bottom of the mapped octave.
const DefaultBaseNote = 36

// mappedChannels is the size of the note-to-channel window, matching the
// routing table.
const mappedChannels = 8

// Triggerer is the slice of the controller this source needs.
type Triggerer interface {
	TriggerChannels(channels []int) error
}

// Config tunes the source.
type Config struct {
	// PortName selects the input port by substring match; empty takes the
	// first available port.
	PortName string

	// BaseNote is the note mapped to channel 1; zero means
	// DefaultBaseNote.
	BaseNote uint8

	// OnError receives trigger failures. Optional.
	OnError func(error)
}

// Source listens on one MIDI input port. Start and Stop are idempotent.
type Source struct {
	mu       sync.Mutex
	target   Triggerer
	cfg      Config
	stopFunc func()
}

// NewSource creates a stopped source.
func NewSource(target Triggerer, cfg Config) *Source {
	if cfg.BaseNote == 0 {
		cfg.BaseNote = DefaultBaseNote
	}
	return &Source{target: target, cfg: cfg}
}

// InPorts lists the available MIDI input port names.
func InPorts() []string {
	ports := midi.GetInPorts()
	names := make([]string, 0, len(ports))
	for _, port := range ports {
		names = append(names, port.String())
	}
	return names
}

// Start opens the configured port and begins listening. A second call
// while listening is a no-op.
func (s *Source) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopFunc != nil {
		return nil
	}

	var in drivers.In
	var err error
	if s.cfg.PortName != "" {
		in, err = midi.FindInPort(s.cfg.PortName)
		if err != nil {
			return fmt.Errorf("MIDI input port %q not found: %w", s.cfg.PortName, err)
		}
	} else {
		ports := midi.GetInPorts()
		if len(ports) == 0 {
			return fmt.Errorf("no MIDI input ports available")
		}
		in = ports[0]
	}

	stop, err := midi.ListenTo(in, s.handle)
	if err != nil {
		return fmt.Errorf("failed to listen on MIDI port %q: %w", in.String(), err)
	}
	s.stopFunc = stop
	return nil
}

// Stop ends listening. Safe to call while stopped.
func (s *Source) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopFunc != nil {
		s.stopFunc()
		s.stopFunc = nil
	}
}

func (s *Source) handle(msg midi.Message, timestampms int32) {
	var midiChannel, key, velocity uint8
	if !msg.GetNoteStart(&midiChannel, &key, &velocity) {
		return
	}

	channel, ok := noteChannel(key, s.cfg.BaseNote)
	if !ok {
		return
	}

	if err := s.target.TriggerChannels([]int{channel}); err != nil && s.cfg.OnError != nil {
		s.cfg.OnError(err)
	}
}

// noteChannel maps a note onto a 1-based table channel, ok=false outside
// the mapped window.
func noteChannel(note, base uint8) (int, bool) {
	if note < base || note >= base+mappedChannels {
		return 0, false
	}
	return int(note-base) + 1, true
}
