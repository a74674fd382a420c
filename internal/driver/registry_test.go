package driver

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"

	"ir-hub-bridge/internal/config"
)

func TestRegistryUnknownBackend(t *testing.T) {
	registry := NewRegistry()

	if _, err := registry.New("bluetooth", config.DefaultConfig(), logrus.New()); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestRegistryRegisterAndNew(t *testing.T) {
	registry := NewRegistry()
	registry.Register("stub", func(cfg *config.Config, logger *logrus.Logger) (Descriptor, error) {
		return nil, nil
	})

	if _, err := registry.New("stub", config.DefaultConfig(), logrus.New()); err != nil {
		t.Errorf("expected stub backend to resolve, got %v", err)
	}

	backends := registry.Backends()
	if len(backends) != 1 || backends[0] != "stub" {
		t.Errorf("expected [stub], got %v", backends)
	}
}

func TestRegistryFactoryErrorIsWrapped(t *testing.T) {
	registry := NewRegistry()
	factoryErr := errors.New("socket missing")
	registry.Register("failing", func(cfg *config.Config, logger *logrus.Logger) (Descriptor, error) {
		return nil, factoryErr
	})

	_, err := registry.New("failing", config.DefaultConfig(), logrus.New())
	if !errors.Is(err, factoryErr) {
		t.Errorf("expected wrapped factory error, got %v", err)
	}
}

func TestNotFoundWrapsSentinel(t *testing.T) {
	err := NotFound("kitchen_tv")

	if !errors.Is(err, ErrDeviceNotFound) {
		t.Error("NotFound should wrap ErrDeviceNotFound")
	}
}

func TestConstructionErrorUnwraps(t *testing.T) {
	cause := errors.New("corrupt json")
	err := &ConstructionError{DeviceID: "kitchen_tv", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("ConstructionError should unwrap to its cause")
	}

	var ce *ConstructionError
	if !errors.As(error(err), &ce) {
		t.Error("errors.As should match *ConstructionError")
	}
}

func TestTransmissionErrorUnwraps(t *testing.T) {
	cause := errors.New("device busy")
	err := &TransmissionError{DeviceID: "kitchen_tv", Key: "POWER", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("TransmissionError should unwrap to its cause")
	}
}
