package driver

import (
	"context"

	"github.com/google/uuid"
)

// NoPairing implements the pairing half of Descriptor for driver families
// that need no credential exchange. IR is unidirectional: there is no
// acknowledgment channel to authenticate against, so pairing is a pure
// formality the hub walks through for UI consistency.
type NoPairing struct{}

// AuthenticationMethod reports that no credentials are exchanged.
func (NoPairing) AuthenticationMethod() AuthenticationMethod {
	return AuthNone
}

// RequiresPairing reports that devices are usable without pairing.
func (NoPairing) RequiresPairing() bool {
	return false
}

// StartPairing hands out a fresh request id and reports that the device
// provides no PIN. Every call returns a new id.
func (NoPairing) StartPairing(ctx context.Context, device DeviceInfo, remoteName string) (string, bool, error) {
	return uuid.NewString(), false, nil
}

// FinalizePairing succeeds unconditionally. The request id is not
// validated; there is no pairing state to check it against.
func (NoPairing) FinalizePairing(ctx context.Context, requestID, credentials string, devicePIN bool) (bool, error) {
	return true, nil
}
