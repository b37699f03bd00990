package devices

// ID is the CoreAudio object handle of a device. Handles are stable for a
// boot session only; never persist them across reboots.
type ID uint32

// Device describes one output-capable audio device at enumeration time.
// Identity is the handle: two Device values refer to the same hardware iff
// their IDs match. Values are rebuilt on every enumeration and never cached.
type Device struct {
	ID                 ID     `json:"deviceId"`
	Name               string `json:"name"`
	OutputChannelCount int    `json:"outputChannelCount"`
	IsDefaultOutput    bool   `json:"isDefaultOutput"`
}

// List is an ordered device sequence in OS enumeration order. The order is
// not guaranteed stable across calls.
type List []Device

// ByID returns the device with the given handle, or nil if absent.
func (l List) ByID(id ID) *Device {
	for i := range l {
		if l[i].ID == id {
			return &l[i]
		}
	}
	return nil
}

// Contains reports whether a device with the given handle is in the list.
func (l List) Contains(id ID) bool {
	return l.ByID(id) != nil
}

// IDs returns the handles of all devices in enumeration order.
func (l List) IDs() []ID {
	ids := make([]ID, len(l))
	for i := range l {
		ids[i] = l[i].ID
	}
	return ids
}

// enumerationResult mirrors the JSON document produced by the native bridge.
type enumerationResult struct {
	Success     bool     `json:"success"`
	Error       string   `json:"error,omitempty"`
	ErrorCode   int      `json:"errorCode,omitempty"`
	Devices     []Device `json:"devices"`
	DeviceCount int      `json:"deviceCount"`
}
