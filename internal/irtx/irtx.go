// Package irtx transmits raw infrared pulse trains.
package irtx

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
)

// Transmitter sends one raw IR pattern. A pattern is a sequence of
// pulse/space durations in microseconds, starting and ending with a pulse.
type Transmitter interface {
	Transmit(ctx context.Context, pattern []int) error
}

// DeviceTransmitter writes pulse trains to a Linux rc-core lirc character
// device (/dev/lircN). The kernel expects a buffer of unsigned 32-bit
// durations in host byte order; all supported targets are little-endian.
type DeviceTransmitter struct {
	path string
}

// NewDeviceTransmitter creates a transmitter for the given device node.
func NewDeviceTransmitter(path string) *DeviceTransmitter {
	return &DeviceTransmitter{path: path}
}

// Transmit opens the device, writes the pattern in one buffer and closes
// the device again. The kernel blocks until the train has been emitted.
func (t *DeviceTransmitter) Transmit(ctx context.Context, pattern []int) error {
	if err := ValidatePattern(pattern); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.OpenFile(t.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("irtx: opening %s: %w", t.path, err)
	}
	defer f.Close()

	buf := new(bytes.Buffer)
	for _, d := range pattern {
		if err := binary.Write(buf, binary.LittleEndian, uint32(d)); err != nil {
			return fmt.Errorf("irtx: encoding pattern: %w", err)
		}
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("irtx: writing to %s: %w", t.path, err)
	}
	return nil
}

// ValidatePattern checks a pulse train for shape errors before they reach
// the kernel.
func ValidatePattern(pattern []int) error {
	if len(pattern) == 0 {
		return fmt.Errorf("irtx: empty pattern")
	}
	if len(pattern)%2 == 0 {
		return fmt.Errorf("irtx: pattern must end with a pulse, got %d entries", len(pattern))
	}
	for i, d := range pattern {
		if d <= 0 {
			return fmt.Errorf("irtx: duration %d at index %d must be positive", d, i)
		}
	}
	return nil
}
