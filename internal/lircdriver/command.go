package lircdriver

import (
	"context"

	"github.com/sirupsen/logrus"

	"ir-hub-bridge/internal/driver"
	"ir-hub-bridge/internal/lirc"
)

// Command sends one key press through the daemon. Each execution opens and
// closes its own daemon connection; connections are deliberately not
// reused across commands, which avoids stale-connection bugs at the cost
// of a dial per press.
type Command struct {
	id         int
	title      string
	icon       []byte
	key        string
	deviceID   string
	socketPath string
	logger     *logrus.Logger
}

func (c *Command) ID() int          { return c.id }
func (c *Command) Title() string    { return c.title }
func (c *Command) Icon() []byte     { return c.icon }
func (c *Command) Key() string      { return c.key }
func (c *Command) DeviceID() string { return c.deviceID }

// Execute transmits the key once. A daemon that cannot be reached makes
// Execute a silent no-op: the device may simply be offline and the press
// is best-effort. A reachable daemon that refuses the send does fail, as
// a TransmissionError.
func (c *Command) Execute(ctx context.Context) error {
	client, err := lirc.Dial(ctx, c.socketPath)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"device_id": c.deviceID,
			"key":       c.key,
		}).Debug("lircd unreachable, dropping key press")
		return nil
	}
	defer client.Close()

	if err := client.SendOnce(ctx, c.deviceID, c.key); err != nil {
		return &driver.TransmissionError{DeviceID: c.deviceID, Key: c.key, Err: err}
	}
	return nil
}
