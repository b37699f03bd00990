//go:build darwin && cgo

package devices

import "C"

// gatecvDeviceChange is the trampoline the native property listener calls
// once per HAL invocation, with the selectors collapsed into a mask.
//
//export gatecvDeviceChange
func gatecvDeviceChange(mask C.uint) {
	deliver(ChangeKind(mask))
}
