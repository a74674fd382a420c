package remotefile

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"ir-hub-bridge/internal/driver"
	"ir-hub-bridge/internal/icons"
	"ir-hub-bridge/internal/irtx"
)

// Device drives one remote definition document. The parsed document is the
// driver's channel for its lifetime; construction already failed if it
// could not be loaded, so a constructed driver is always ready.
type Device struct {
	device driver.DeviceInfo
	doc    *Document
	icons  *icons.Resolver
	tx     irtx.Transmitter
	logger *logrus.Logger
}

func newDevice(device driver.DeviceInfo, doc *Document, resolver *icons.Resolver, tx irtx.Transmitter, logger *logrus.Logger) *Device {
	return &Device{
		device: device,
		doc:    doc,
		icons:  resolver,
		tx:     tx,
		logger: logger,
	}
}

// DeviceID returns the bound device identity.
func (d *Device) DeviceID() string {
	return d.device.DeviceID
}

// Commands lists the document's keys as commands, sorted lexicographically
// with ids 0..n-1.
func (d *Device) Commands(ctx context.Context) ([]driver.Command, error) {
	keys := make([]string, 0, len(d.doc.Keys))
	for key := range d.doc.Keys {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	commands := make([]driver.Command, 0, len(keys))
	for i, key := range keys {
		commands = append(commands, &Command{
			id:       i,
			title:    key,
			icon:     d.icons.Resolve(key),
			key:      key,
			deviceID: d.device.DeviceID,
			code:     d.doc.Keys[key],
			tx:       d.tx,
		})
	}
	return commands, nil
}

// RemoteLayoutSize reports the document's layout dimensions, (0, 0) when
// the document carries none.
func (d *Device) RemoteLayoutSize() (int, int) {
	return d.doc.Remote.Width, d.doc.Remote.Height
}

// RemoteLayout is empty even when the document carries layout data;
// decoding the matrix is an incomplete feature.
func (d *Device) RemoteLayout() [][]int {
	return [][]int{}
}

// Execute dispatches to the command.
func (d *Device) Execute(ctx context.Context, cmd driver.Command) error {
	return cmd.Execute(ctx)
}

// Ready is true for every constructed driver: the backing document was
// loaded at construction or the driver would not exist.
func (d *Device) Ready(ctx context.Context) bool {
	return d.doc != nil
}
