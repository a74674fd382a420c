package driver

import (
	"context"
)

// AuthenticationMethod describes the credential exchange a device family
// requires during pairing.
type AuthenticationMethod string

const (
	// AuthNone means no credentials are exchanged. IR transmission is
	// unidirectional and unauthenticated, so every back-end in this
	// bridge uses it.
	AuthNone AuthenticationMethod = "none"
	AuthPIN  AuthenticationMethod = "pin"
)

// DeviceInfo identifies a controllable device. Instances are produced only
// by enumeration and carry no lifecycle of their own; a fresh set is built
// on every Devices call.
type DeviceInfo struct {
	DeviceID string `json:"device_id"`
	Name     string `json:"name"`
}

// DescriptorInfo identifies a driver descriptor to the hub.
type DescriptorInfo struct {
	DriverID    string `json:"driver_id"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

// Command is a single remote-control action bound to one device. A command
// is owned by the caller that listed it; ids are stable only within one
// Commands call.
type Command interface {
	// ID is the command's enumeration index, assigned in sorted key order.
	ID() int

	// Title is the human-readable command name shown by the hub.
	Title() string

	// Icon returns the icon bytes annotated at enumeration time.
	Icon() []byte

	// Key is the transmit key the back-end channel uses for this command.
	Key() string

	// DeviceID is the owning device's identity.
	DeviceID() string

	// Execute sends exactly one signal for (DeviceID, Key). Back-ends
	// differ in failure policy: see the lircdriver and remotefile
	// packages.
	Execute(ctx context.Context) error
}

// DeviceDriver controls a single device. A driver is bound to one device
// identity at construction and holds its transmission channel for its
// entire lifetime; it becomes non-functional, but is not destroyed, when
// that channel is unavailable.
type DeviceDriver interface {
	// DeviceID returns the identity the driver was constructed for.
	DeviceID() string

	// Commands enumerates the device's supported commands. Keys are
	// sorted lexicographically and ids assigned 0..n-1, so repeated
	// calls are deterministic while the underlying key set is
	// unchanged. A driver that is not ready returns an empty list,
	// never an error.
	Commands(ctx context.Context) ([]Command, error)

	// RemoteLayoutSize reports the physical button layout dimensions,
	// (0, 0) when layout metadata is unavailable.
	RemoteLayoutSize() (width, height int)

	// RemoteLayout reports the button placement matrix.
	RemoteLayout() [][]int

	// Execute dispatches to cmd.Execute. The driver adds no validation
	// of its own.
	Execute(ctx context.Context, cmd Command) error

	// Ready reports whether the driver's transmission channel or
	// backing data is usable.
	Ready(ctx context.Context) bool
}

// Descriptor is the plugin entry point the hub loads. It enumerates
// devices, answers pairing formalities, and constructs DeviceDriver
// instances. A descriptor never holds device-specific transmission state.
type Descriptor interface {
	// Info identifies this driver family to the hub.
	Info() DescriptorInfo

	// Devices enumerates the devices the back-end source currently
	// knows. An entirely absent source (no daemon, no directory)
	// yields an empty list, not an error.
	Devices(ctx context.Context) ([]DeviceInfo, error)

	// Device resolves a device id against Devices. Unknown ids fail
	// with ErrDeviceNotFound.
	Device(ctx context.Context, deviceID string) (DeviceInfo, error)

	// AuthenticationMethod reports the credentials needed for pairing.
	AuthenticationMethod() AuthenticationMethod

	// RequiresPairing reports whether pairing is needed before use.
	RequiresPairing() bool

	// StartPairing begins a pairing handshake with the device. It
	// returns an opaque pairing request id and whether the device will
	// present a PIN.
	StartPairing(ctx context.Context, device DeviceInfo, remoteName string) (requestID string, providesPIN bool, err error)

	// FinalizePairing completes a pairing handshake.
	FinalizePairing(ctx context.Context, requestID, credentials string, devicePIN bool) (bool, error)

	// CreateDevice resolves deviceID and constructs a bound
	// DeviceDriver for it. ErrDeviceNotFound propagates from
	// resolution; back-ends whose per-device data must be loaded may
	// fail with a ConstructionError.
	CreateDevice(ctx context.Context, deviceID string) (DeviceDriver, error)
}
