// Package selection reconciles which output device the engine should be
// bound to as hardware appears and disappears. The policy is deterministic:
// a named multi-channel interface wins, then the system default, then the
// first enumerated device.
package selection

import (
	"strings"
	"sync"

	"github.com/shaban/gatecv/devices"
)

// DefaultPreferredPattern matches the DC-coupled 8-output interface this
// system was built around.
const DefaultPreferredPattern = "ES-8"

// Catalog is the slice of the device catalog the policy needs. The live HAL
// implementation is devices.System; tests substitute fakes.
type Catalog interface {
	Outputs() (devices.List, error)
	DefaultOutputID() (devices.ID, bool)
	SetDefaultOutput(id devices.ID) bool
}

// Config tunes the policy.
type Config struct {
	// PreferredPattern is a case-insensitive substring matched against
	// device names in preference step one. Empty means
	// DefaultPreferredPattern.
	PreferredPattern string
}

// State is the reconciled view handed to consumers. Invariant: when
// Selected is non-nil it is an element of Available.
type State struct {
	Available devices.List
	Selected  *devices.Device
}

// SelectedID returns the selected device handle, or false when nothing is
// selected.
func (s State) SelectedID() (devices.ID, bool) {
	if s.Selected == nil {
		return 0, false
	}
	return s.Selected.ID, true
}

// Policy owns the selection state. All methods take the internal lock; the
// controller serializes calls on its control goroutine anyway, the lock
// only covers direct reads from other goroutines.
type Policy struct {
	mu      sync.Mutex
	catalog Catalog
	pattern string
	state   State
}

// NewPolicy creates a policy with an empty state; call Refresh to populate.
func NewPolicy(catalog Catalog, cfg Config) *Policy {
	pattern := cfg.PreferredPattern
	if pattern == "" {
		pattern = DefaultPreferredPattern
	}
	return &Policy{catalog: catalog, pattern: pattern}
}

// State returns the current reconciled state.
func (p *Policy) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Refresh re-enumerates and reconciles. A previously selected device whose
// handle vanished from the fresh list is treated as unplugged and cleared
// before the preference order runs. Never fails: no hardware at all yields
// an empty state.
func (p *Policy) Refresh() State {
	available, err := p.catalog.Outputs()
	if err != nil {
		available = devices.List{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.Selected != nil && !available.Contains(p.state.Selected.ID) {
		p.state.Selected = nil
	}

	if p.state.Selected == nil {
		p.state.Selected = p.choose(available)
	} else {
		// Re-point at the fresh descriptor so Selected stays an element
		// of Available (channel counts may have changed).
		p.state.Selected = available.ByID(p.state.Selected.ID)
	}

	p.state.Available = available
	return p.state
}

// choose applies the preference order against a fresh enumeration.
func (p *Policy) choose(available devices.List) *devices.Device {
	if len(available) == 0 {
		return nil
	}

	for i := range available {
		if strings.Contains(strings.ToLower(available[i].Name), strings.ToLower(p.pattern)) {
			// The preferred interface also becomes the system default so
			// other audio follows it.
			p.catalog.SetDefaultOutput(available[i].ID)
			return &available[i]
		}
	}

	if id, ok := p.catalog.DefaultOutputID(); ok {
		if match := available.ByID(id); match != nil {
			return match
		}
	}

	return &available[0]
}

// Select is the explicit user override: the descriptor is taken as-is (the
// caller got it from a current enumeration) and pushed as system default.
// The override holds until a later Refresh observes the device gone.
func (p *Policy) Select(device devices.Device) State {
	p.mu.Lock()
	defer p.mu.Unlock()

	selected := device
	p.state.Selected = &selected
	p.catalog.SetDefaultOutput(device.ID)
	return p.state
}
