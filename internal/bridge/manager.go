// Package bridge wires configuration, the selected IR back-end and the
// local API server into one runnable unit.
package bridge

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"ir-hub-bridge/internal/api"
	"ir-hub-bridge/internal/config"
	"ir-hub-bridge/internal/driver"
	"ir-hub-bridge/internal/history"
	"ir-hub-bridge/internal/lircdriver"
	"ir-hub-bridge/internal/logging"
	"ir-hub-bridge/internal/remotefile"
)

// NewRegistry returns the registry with both built-in back-ends.
func NewRegistry() *driver.Registry {
	registry := driver.NewRegistry()
	registry.Register(lircdriver.BackendName, lircdriver.New)
	registry.Register(remotefile.BackendName, remotefile.New)
	return registry
}

// NewDescriptor builds the configured back-end's descriptor.
func NewDescriptor(cfg *config.Config, logger *logrus.Logger) (driver.Descriptor, error) {
	return NewRegistry().New(cfg.Backend, cfg, logger)
}

// Manager runs the bridge: one descriptor, optional history, the API
// server.
type Manager struct {
	mu     sync.Mutex
	config *config.Config
	logger *logrus.Logger

	descriptor driver.Descriptor
	store      *history.Store
	apiServer  *api.Server
	events     *api.EventBroadcaster

	isRunning bool
	startTime time.Time
}

// NewManager creates a bridge manager from configuration.
func NewManager(cfg *config.Config) (*Manager, error) {
	logger := logging.Initialize(cfg.LogLevel)

	m := &Manager{
		config: cfg,
		logger: logger,
	}

	descriptor, err := NewDescriptor(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize backend: %w", err)
	}
	m.descriptor = descriptor

	if cfg.HistoryEnabled {
		store, err := history.Open(cfg.HistoryPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open history store: %w", err)
		}
		m.store = store
	}

	m.events = api.NewEventBroadcaster(logger)

	var store api.HistoryStore
	if m.store != nil {
		store = m.store
	}
	handlers := api.NewHandlers(logger, descriptor, cfg.Backend, store, m.events)
	m.apiServer = api.NewServer(cfg, logger, handlers, m.events)

	return m, nil
}

// Descriptor exposes the active back-end descriptor.
func (m *Manager) Descriptor() driver.Descriptor {
	return m.descriptor
}

// Run starts the API server and blocks until ctx is cancelled or the
// server fails.
func (m *Manager) Run(ctx context.Context) error {
	m.mu.Lock()
	if m.isRunning {
		m.mu.Unlock()
		return fmt.Errorf("bridge is already running")
	}
	m.isRunning = true
	m.startTime = time.Now()
	m.mu.Unlock()

	m.logger.WithFields(logrus.Fields{
		"backend": m.config.Backend,
		"driver":  m.descriptor.Info().DisplayName,
	}).Info("Bridge starting")

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.apiServer.Start()
	}()

	select {
	case <-ctx.Done():
		m.logger.Info("Shutdown requested")
		return m.shutdown()
	case err := <-errCh:
		if err != nil {
			m.logger.WithError(err).Error("API server failed")
		}
		m.shutdown()
		return err
	}
}

func (m *Manager) shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.isRunning {
		return nil
	}
	m.isRunning = false

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := m.apiServer.Stop(shutdownCtx); err != nil {
		m.logger.WithError(err).Warn("API server shutdown failed")
	}

	if m.store != nil {
		if err := m.store.Close(); err != nil {
			m.logger.WithError(err).Warn("History store close failed")
		}
	}

	if c, ok := m.descriptor.(io.Closer); ok {
		if err := c.Close(); err != nil {
			m.logger.WithError(err).Warn("Descriptor close failed")
		}
	}

	m.logger.Info("Bridge stopped")
	return nil
}
