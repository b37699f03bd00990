package pulse

import (
	"fmt"

	"github.com/shaban/gatecv/devices"
)

// Binding names the device the output graph attaches to. The two cases are
// explicit at the type level: BindDevice performs a low-level hardware-unit
// bind during setup, SystemDefault leaves the endpoint on whatever the OS
// routes to.
type Binding struct {
	id       devices.ID
	explicit bool
}

// BindDevice binds the graph to a specific device handle.
func BindDevice(id devices.ID) Binding {
	return Binding{id: id, explicit: true}
}

// SystemDefault follows the OS default output.
func SystemDefault() Binding {
	return Binding{}
}

// Device returns the bound handle, with ok=false for SystemDefault.
func (b Binding) Device() (devices.ID, bool) {
	return b.id, b.explicit
}

func (b Binding) String() string {
	if b.explicit {
		return fmt.Sprintf("device %d", b.id)
	}
	return "system default"
}
