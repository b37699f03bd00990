// Package routing holds the user-facing channel assignment table: which of
// the eight output channels carries which signal type. The table lives in
// memory only and resets to its defaults on every process start.
package routing

import (
	"fmt"
	"sync"
)

// Signal is the type of control voltage assigned to a channel.
type Signal int

const (
	SignalNone Signal = iota
	SignalGate
)

func (s Signal) String() string {
	switch s {
	case SignalNone:
		return "none"
	case SignalGate:
		return "gate"
	default:
		return fmt.Sprintf("signal(%d)", int(s))
	}
}

// NumChannels is the fixed table size. Channels are numbered 1..NumChannels
// with no gaps and no duplicates.
const NumChannels = 8

// Entry is one row of the table.
type Entry struct {
	Channel int
	Signal  Signal
}

// Table maps channel numbers to signal types. Safe for concurrent use: the
// UI mutates it while the pulse engine reads it at trigger time.
type Table struct {
	mu      sync.RWMutex
	signals [NumChannels]Signal
}

// NewTable returns the default table: every channel set to SignalNone.
func NewTable() *Table {
	return &Table{}
}

// Set assigns a signal to a channel. Channel numbers outside 1..NumChannels
// are rejected.
func (t *Table) Set(channel int, signal Signal) error {
	if channel < 1 || channel > NumChannels {
		return fmt.Errorf("channel %d out of range 1..%d", channel, NumChannels)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.signals[channel-1] = signal
	return nil
}

// Get returns the signal assigned to a channel, with ok=false for channel
// numbers outside the table.
func (t *Table) Get(channel int) (Signal, bool) {
	if channel < 1 || channel > NumChannels {
		return SignalNone, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.signals[channel-1], true
}

// Entries returns all rows in channel order.
func (t *Table) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entries := make([]Entry, NumChannels)
	for i := range t.signals {
		entries[i] = Entry{Channel: i + 1, Signal: t.signals[i]}
	}
	return entries
}

// ChannelsWith returns the channel numbers carrying the given signal, in
// ascending order. This is the read the pulse engine performs on trigger.
func (t *Table) ChannelsWith(signal Signal) []int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var channels []int
	for i := range t.signals {
		if t.signals[i] == signal {
			channels = append(channels, i+1)
		}
	}
	return channels
}

// Reset puts every channel back to SignalNone.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.signals = [NumChannels]Signal{}
}
