// Package remotefile implements the IR driver contract on top of
// per-device remote definition files. A configuration directory holds one
// .remote JSON document per device; transmission goes through a raw IR
// transmitter instead of a daemon.
package remotefile

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"ir-hub-bridge/internal/config"
	"ir-hub-bridge/internal/driver"
	"ir-hub-bridge/internal/icons"
	"ir-hub-bridge/internal/irtx"
)

// BackendName is the registry name of this back-end.
const BackendName = config.BackendFiles

const driverID = "9d3e41b7-52c6-4a8f-b0d9-7e2f18c5a364"

// Descriptor enumerates remote definition files and constructs bound
// device drivers. A missing directory degrades to zero devices.
type Descriptor struct {
	driver.NoPairing

	dir    string
	icons  *icons.Resolver
	tx     irtx.Transmitter
	logger *logrus.Logger
}

// New creates the files descriptor with the rc-core device transmitter
// from configuration.
func New(cfg *config.Config, logger *logrus.Logger) (driver.Descriptor, error) {
	return NewWithTransmitter(cfg, irtx.NewDeviceTransmitter(cfg.TransmitDevice), logger), nil
}

// NewWithTransmitter creates the files descriptor with an explicit
// transmitter.
func NewWithTransmitter(cfg *config.Config, tx irtx.Transmitter, logger *logrus.Logger) *Descriptor {
	return &Descriptor{
		dir:    cfg.RemotesDir,
		icons:  icons.NewResolver(cfg.IconsDir),
		tx:     tx,
		logger: logger,
	}
}

// Info identifies the remote-definition driver family.
func (d *Descriptor) Info() driver.DescriptorInfo {
	return driver.DescriptorInfo{
		DriverID:    driverID,
		DisplayName: "IR Controlled Devices (remote files)",
		Description: "Controls IR devices from per-device remote definition files",
	}
}

// Devices lists the directory's .remote files, one device per file, the
// filename stem as both id and display name.
func (d *Descriptor) Devices(ctx context.Context) ([]driver.DeviceInfo, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []driver.DeviceInfo{}, nil
		}
		return nil, err
	}

	devices := make([]driver.DeviceInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), Extension)
		devices = append(devices, driver.DeviceInfo{DeviceID: id, Name: id})
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

// CreateDevice resolves the device and parses its definition file.
// Unreadable or malformed files fail construction with a
// ConstructionError; there is no degraded not-ready driver in this
// back-end.
func (d *Descriptor) CreateDevice(ctx context.Context, deviceID string) (driver.DeviceDriver, error) {
	device, err := d.Device(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(d.dir, device.DeviceID+Extension)
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, &driver.ConstructionError{DeviceID: deviceID, Err: err}
	}

	return newDevice(device, doc, d.icons, d.tx, d.logger), nil
}
