package selection

import (
	"testing"

	"github.com/shaban/gatecv/devices"
)

// fakeCatalog scripts the hardware the policy observes.
type fakeCatalog struct {
	outputs       devices.List
	defaultID     devices.ID
	hasDefault    bool
	setDefaultIDs []devices.ID
}

func (f *fakeCatalog) Outputs() (devices.List, error) {
	return append(devices.List{}, f.outputs...), nil
}

func (f *fakeCatalog) DefaultOutputID() (devices.ID, bool) {
	return f.defaultID, f.hasDefault
}

func (f *fakeCatalog) SetDefaultOutput(id devices.ID) bool {
	f.setDefaultIDs = append(f.setDefaultIDs, id)
	return true
}

func device(id devices.ID, name string, channels int) devices.Device {
	return devices.Device{ID: id, Name: name, OutputChannelCount: channels}
}

func TestRefreshPrefersNamedInterface(t *testing.T) {
	catalog := &fakeCatalog{
		outputs: devices.List{
			device(10, "MacBook Pro Speakers", 2),
			device(20, "Expert Sleepers ES-8", 8),
		},
		defaultID:  10,
		hasDefault: true,
	}
	policy := NewPolicy(catalog, Config{})

	state := policy.Refresh()

	if state.Selected == nil || state.Selected.ID != 20 {
		t.Fatalf("expected ES-8 selected, got %+v", state.Selected)
	}
	if len(catalog.setDefaultIDs) != 1 || catalog.setDefaultIDs[0] != 20 {
		t.Errorf("preferred interface not pushed as system default: %v", catalog.setDefaultIDs)
	}
}

func TestRefreshFallsBackToSystemDefault(t *testing.T) {
	catalog := &fakeCatalog{
		outputs: devices.List{
			device(10, "MacBook Pro Speakers", 2),
			device(30, "Studio Display Speakers", 2),
		},
		defaultID:  30,
		hasDefault: true,
	}
	policy := NewPolicy(catalog, Config{})

	state := policy.Refresh()

	if state.Selected == nil || state.Selected.ID != 30 {
		t.Fatalf("expected system default selected, got %+v", state.Selected)
	}
	if len(catalog.setDefaultIDs) != 0 {
		t.Errorf("non-preferred selection must not touch the system default: %v", catalog.setDefaultIDs)
	}
}

func TestRefreshFallsBackToFirstDevice(t *testing.T) {
	catalog := &fakeCatalog{
		outputs: devices.List{
			device(10, "MacBook Pro Speakers", 2),
			device(30, "Studio Display Speakers", 2),
		},
		// Default reported but not in the available set.
		defaultID:  77,
		hasDefault: true,
	}
	policy := NewPolicy(catalog, Config{})

	state := policy.Refresh()

	if state.Selected == nil || state.Selected.ID != 10 {
		t.Fatalf("expected first device selected, got %+v", state.Selected)
	}
}

func TestRefreshWithNoDevices(t *testing.T) {
	policy := NewPolicy(&fakeCatalog{}, Config{})

	state := policy.Refresh()

	if state.Selected != nil {
		t.Errorf("expected no selection, got %+v", state.Selected)
	}
	if len(state.Available) != 0 {
		t.Errorf("expected empty available list, got %v", state.Available)
	}
}

func TestUnplugClearsSelection(t *testing.T) {
	catalog := &fakeCatalog{
		outputs: devices.List{device(20, "Expert Sleepers ES-8", 8)},
	}
	policy := NewPolicy(catalog, Config{})
	policy.Refresh()

	if id, ok := policy.State().SelectedID(); !ok || id != 20 {
		t.Fatalf("setup: expected ES-8 selected")
	}

	// Simulate unplugging the selected device.
	catalog.outputs = devices.List{}
	state := policy.Refresh()

	if state.Selected != nil {
		t.Errorf("selection survived unplug: %+v", state.Selected)
	}
}

func TestUnplugThenPolicyReselects(t *testing.T) {
	catalog := &fakeCatalog{
		outputs: devices.List{
			device(10, "MacBook Pro Speakers", 2),
			device(20, "Expert Sleepers ES-8", 8),
		},
	}
	policy := NewPolicy(catalog, Config{})
	policy.Refresh()

	catalog.outputs = devices.List{device(10, "MacBook Pro Speakers", 2)}
	state := policy.Refresh()

	if state.Selected == nil || state.Selected.ID != 10 {
		t.Fatalf("expected reselection of remaining device, got %+v", state.Selected)
	}
}

func TestExplicitSelectOverridesPolicy(t *testing.T) {
	catalog := &fakeCatalog{
		outputs: devices.List{
			device(10, "MacBook Pro Speakers", 2),
			device(20, "Expert Sleepers ES-8", 8),
		},
	}
	policy := NewPolicy(catalog, Config{})
	policy.Refresh()

	state := policy.Select(device(10, "MacBook Pro Speakers", 2))

	if state.Selected == nil || state.Selected.ID != 10 {
		t.Fatalf("explicit selection not applied: %+v", state.Selected)
	}
	if last := catalog.setDefaultIDs[len(catalog.setDefaultIDs)-1]; last != 10 {
		t.Errorf("explicit selection not pushed as system default: %v", catalog.setDefaultIDs)
	}

	// The override survives a refresh with an unchanged device set.
	state = policy.Refresh()
	if state.Selected == nil || state.Selected.ID != 10 {
		t.Errorf("override lost on refresh with unchanged devices: %+v", state.Selected)
	}
}

func TestCustomPreferredPattern(t *testing.T) {
	catalog := &fakeCatalog{
		outputs: devices.List{
			device(10, "MacBook Pro Speakers", 2),
			device(40, "MOTU UltraLite mk5", 10),
		},
	}
	policy := NewPolicy(catalog, Config{PreferredPattern: "ultralite"})

	state := policy.Refresh()

	if state.Selected == nil || state.Selected.ID != 40 {
		t.Fatalf("case-insensitive pattern match failed: %+v", state.Selected)
	}
}
