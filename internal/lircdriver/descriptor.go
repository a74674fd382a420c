// Package lircdriver implements the IR driver contract on top of a running
// lircd daemon. The daemon's remote database is the device enumeration
// source and SEND_ONCE is the transmission channel.
package lircdriver

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"ir-hub-bridge/internal/config"
	"ir-hub-bridge/internal/driver"
	"ir-hub-bridge/internal/icons"
	"ir-hub-bridge/internal/lirc"
)

// BackendName is the registry name of this back-end.
const BackendName = config.BackendLirc

const driverID = "4f6c2d8a-9b1e-4c53-8f2a-d1e7b64a0c91"

// Descriptor enumerates the daemon's remotes and constructs bound device
// drivers. An unreachable daemon degrades to zero devices; it is never an
// enumeration error.
type Descriptor struct {
	driver.NoPairing

	socketPath string
	icons      *icons.Resolver
	logger     *logrus.Logger

	mu     sync.Mutex
	client *lirc.Client
}

// New creates the lirc descriptor. The daemon connection is attempted once
// here; a failure leaves the descriptor functional but empty.
func New(cfg *config.Config, logger *logrus.Logger) (driver.Descriptor, error) {
	d := &Descriptor{
		socketPath: cfg.LircSocket,
		icons:      icons.NewResolver(cfg.IconsDir),
		logger:     logger,
	}

	client, err := lirc.Dial(context.Background(), cfg.LircSocket)
	if err != nil {
		logger.WithError(err).WithField("socket", cfg.LircSocket).
			Warn("lircd unreachable, descriptor will report no devices")
	} else {
		d.client = client
	}

	return d, nil
}

// Info identifies the lirc driver family.
func (d *Descriptor) Info() driver.DescriptorInfo {
	return driver.DescriptorInfo{
		DriverID:    driverID,
		DisplayName: "IR Controlled Devices (lircd)",
		Description: "Controls IR devices through the lircd daemon's remote database",
	}
}

// Devices lists the daemon's remotes, one device per remote. The remote
// name doubles as device id and display name.
func (d *Descriptor) Devices(ctx context.Context) ([]driver.DeviceInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client == nil {
		return []driver.DeviceInfo{}, nil
	}

	remotes, err := d.client.ListRemotes(ctx)
	if err != nil {
		return nil, err
	}

	devices := make([]driver.DeviceInfo, 0, len(remotes))
	for _, remote := range remotes {
		devices = append(devices, driver.DeviceInfo{DeviceID: remote, Name: remote})
	}
	return devices, nil
}

// Device resolves a device id against Devices.
func (d *Descriptor) Device(ctx context.Context, deviceID string) (driver.DeviceInfo, error) {
	devices, err := d.Devices(ctx)
	if err != nil {
		return driver.DeviceInfo{}, err
	}
	for _, device := range devices {
		if device.DeviceID == deviceID {
			return device, nil
		}
	}
	return driver.DeviceInfo{}, driver.NotFound(deviceID)
}

// CreateDevice constructs a driver bound to the given device. The driver
// opens its own daemon connection; a connection failure yields a driver
// that reports not ready rather than an error.
func (d *Descriptor) CreateDevice(ctx context.Context, deviceID string) (driver.DeviceDriver, error) {
	device, err := d.Device(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	return newDevice(ctx, device, d.socketPath, d.icons, d.logger), nil
}

// Close releases the descriptor's daemon connection. Devices reports
// nothing afterwards.
func (d *Descriptor) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client == nil {
		return nil
	}
	err := d.client.Close()
	d.client = nil
	return err
}
