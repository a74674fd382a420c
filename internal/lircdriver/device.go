package lircdriver

import (
	"context"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"ir-hub-bridge/internal/driver"
	"ir-hub-bridge/internal/icons"
	"ir-hub-bridge/internal/lirc"
)

// Device drives one lircd remote. The daemon connection opened at
// construction is the driver's channel for its entire lifetime; if the
// dial failed the driver stays alive but reports not ready and lists no
// commands.
type Device struct {
	device     driver.DeviceInfo
	socketPath string
	icons      *icons.Resolver
	logger     *logrus.Logger

	mu     sync.Mutex
	client *lirc.Client
}

func newDevice(ctx context.Context, device driver.DeviceInfo, socketPath string, resolver *icons.Resolver, logger *logrus.Logger) *Device {
	d := &Device{
		device:     device,
		socketPath: socketPath,
		icons:      resolver,
		logger:     logger,
	}

	client, err := lirc.Dial(ctx, socketPath)
	if err != nil {
		logger.WithError(err).WithField("device_id", device.DeviceID).
			Warn("lircd unreachable, device driver not ready")
	} else {
		d.client = client
	}

	return d
}

// DeviceID returns the bound device identity.
func (d *Device) DeviceID() string {
	return d.device.DeviceID
}

// Commands lists the remote's keys as commands, sorted lexicographically
// with ids 0..n-1. A driver without a daemon connection lists nothing.
func (d *Device) Commands(ctx context.Context) ([]driver.Command, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client == nil {
		return []driver.Command{}, nil
	}

	keys, err := d.client.ListKeys(ctx, d.device.DeviceID)
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)

	commands := make([]driver.Command, 0, len(keys))
	for i, key := range keys {
		commands = append(commands, &Command{
			id:         i,
			title:      key,
			icon:       d.icons.Resolve(key),
			key:        key,
			deviceID:   d.device.DeviceID,
			socketPath: d.socketPath,
			logger:     d.logger,
		})
	}
	return commands, nil
}

// RemoteLayoutSize is always (0, 0); lircd carries no layout metadata.
func (d *Device) RemoteLayoutSize() (int, int) {
	return 0, 0
}

// RemoteLayout is always empty; lircd carries no layout metadata.
func (d *Device) RemoteLayout() [][]int {
	return [][]int{}
}

// Execute dispatches to the command.
func (d *Device) Execute(ctx context.Context, cmd driver.Command) error {
	return cmd.Execute(ctx)
}

// Ready reports whether the construction-time daemon connection exists.
func (d *Device) Ready(ctx context.Context) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.client != nil
}

// Close releases the driver's daemon connection.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client == nil {
		return nil
	}
	err := d.client.Close()
	d.client = nil
	return err
}
