//go:build darwin && cgo

// Package devices is the output-device catalog. It queries the CoreAudio
// HAL directly and never caches: every call observes the hardware as it is
// right now. Transient HAL unavailability degrades to empty or optional
// results instead of errors, because devices come and go at any time.
package devices

/*
#cgo CFLAGS: -x objective-c -fobjc-arc
#cgo LDFLAGS: -framework Foundation -framework CoreAudio
#include "native/devices.m"
#include "native/listener.m"
#include <stdlib.h>

char* gatecv_copy_output_devices(void);
int gatecv_output_channel_count(unsigned int deviceId);
unsigned int gatecv_default_output_device(void);
int gatecv_set_default_output_device(unsigned int deviceId);
int gatecv_listen_start(void);
int gatecv_listen_stop(void);
*/
import "C"
import (
	"encoding/json"
	"fmt"
	"unsafe"
)

// Outputs enumerates all output-capable devices in HAL order. Devices with
// no readable name or zero output channels are skipped. When the HAL itself
// cannot be reached the result is an empty list, not an error; the error is
// reserved for a malformed bridge response.
func Outputs() (List, error) {
	result := C.gatecv_copy_output_devices()
	defer C.free(unsafe.Pointer(result))

	var enumeration enumerationResult
	if err := json.Unmarshal([]byte(C.GoString(result)), &enumeration); err != nil {
		return nil, fmt.Errorf("failed to parse device result: %v", err)
	}

	if !enumeration.Success {
		// HAL unreachable is expected (sandbox, teardown during logout);
		// callers get the degraded empty list.
		return List{}, nil
	}

	return List(enumeration.Devices), nil
}

// OutputChannelCount resolves the device's total output channel count by
// decoding its stream configuration descriptor. The descriptor is variable
// length: the HAL is asked for the exact byte size before allocation, and
// channel counts are summed across every buffer in the list. Returns false
// for unknown or unplugged handles.
func OutputChannelCount(id ID) (int, bool) {
	channels := int(C.gatecv_output_channel_count(C.uint(id)))
	if channels < 0 {
		return 0, false
	}
	return channels, true
}

// DefaultOutputID returns the system default output device, or false when
// the HAL reports none.
func DefaultOutputID() (ID, bool) {
	id := ID(C.gatecv_default_output_device())
	if id == 0 {
		return 0, false
	}
	return id, true
}

// SetDefaultOutput asks the OS to make the device the system default
// output. Best effort: a stale handle (device unplugged between enumeration
// and this call) yields false, never a crash.
func SetDefaultOutput(id ID) bool {
	return C.gatecv_set_default_output_device(C.uint(id)) == 0
}

// System is the live HAL catalog. It exists so consumers can depend on the
// catalog interface they declare and substitute fakes in tests.
type System struct{}

func (System) Outputs() (List, error)               { return Outputs() }
func (System) OutputChannelCount(id ID) (int, bool) { return OutputChannelCount(id) }
func (System) DefaultOutputID() (ID, bool)          { return DefaultOutputID() }
func (System) SetDefaultOutput(id ID) bool          { return SetDefaultOutput(id) }
