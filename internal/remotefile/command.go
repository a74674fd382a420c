package remotefile

import (
	"context"
	"encoding/json"

	"ir-hub-bridge/internal/driver"
	"ir-hub-bridge/internal/irtx"
)

// Command transmits one key's raw code through the IR transmitter. Unlike
// the daemon back-end, transmission failures here are surfaced: the
// transmitter is local hardware, not a possibly-offline daemon.
type Command struct {
	id       int
	title    string
	icon     []byte
	key      string
	deviceID string
	code     json.RawMessage
	tx       irtx.Transmitter
}

func (c *Command) ID() int          { return c.id }
func (c *Command) Title() string    { return c.title }
func (c *Command) Icon() []byte     { return c.icon }
func (c *Command) Key() string      { return c.key }
func (c *Command) DeviceID() string { return c.deviceID }

// Execute decodes the key's code data as a pulse/space pattern and sends
// it. Any failure is a TransmissionError.
func (c *Command) Execute(ctx context.Context) error {
	var pattern []int
	if err := json.Unmarshal(c.code, &pattern); err != nil {
		return &driver.TransmissionError{DeviceID: c.deviceID, Key: c.key, Err: err}
	}

	if err := c.tx.Transmit(ctx, pattern); err != nil {
		return &driver.TransmissionError{DeviceID: c.deviceID, Key: c.key, Err: err}
	}
	return nil
}
