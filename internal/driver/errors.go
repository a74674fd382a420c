package driver

import (
	"errors"
	"fmt"
)

// ErrDeviceNotFound is returned when a device id does not resolve during
// lookup. Check with errors.Is.
var ErrDeviceNotFound = errors.New("device not found")

// NotFound wraps ErrDeviceNotFound with the offending device id.
func NotFound(deviceID string) error {
	return fmt.Errorf("device %q: %w", deviceID, ErrDeviceNotFound)
}

// ConstructionError reports that a device driver could not be constructed
// because its per-device backing data could not be read or parsed. It is
// fatal for that device instance.
type ConstructionError struct {
	DeviceID string
	Err      error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("constructing driver for device %q: %v", e.DeviceID, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// TransmissionError reports that a transmission channel failed to deliver a
// signal at execute time.
type TransmissionError struct {
	DeviceID string
	Key      string
	Err      error
}

func (e *TransmissionError) Error() string {
	return fmt.Sprintf("transmitting %q to device %q: %v", e.Key, e.DeviceID, e.Err)
}

func (e *TransmissionError) Unwrap() error {
	return e.Err
}
