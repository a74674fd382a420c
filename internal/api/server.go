package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"ir-hub-bridge/internal/config"
)

// Server is the bridge's local HTTP API server.
type Server struct {
	logger     *logrus.Logger
	router     *mux.Router
	httpServer *http.Server
	events     *EventBroadcaster
}

// NewServer creates the API server around the given handlers.
func NewServer(cfg *config.Config, logger *logrus.Logger, handlers *Handlers, events *EventBroadcaster) *Server {
	s := &Server{
		logger: logger,
		router: mux.NewRouter(),
		events: events,
	}

	s.router.Use(s.requestLogging)

	v1 := s.router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/devices", handlers.ListDevices).Methods(http.MethodGet)
	v1.HandleFunc("/devices/{deviceId}/commands", handlers.ListCommands).Methods(http.MethodGet)
	v1.HandleFunc("/devices/{deviceId}/commands/{commandId}", handlers.ExecuteCommand).Methods(http.MethodPost)
	v1.HandleFunc("/status", handlers.Status).Methods(http.MethodGet)
	v1.HandleFunc("/history", handlers.History).Methods(http.MethodGet)
	v1.HandleFunc("/events", events.HandleWS).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort),
		Handler:      s.router,
		ReadTimeout:  time.Duration(cfg.APIReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.APIWriteTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the server until it fails or Stop is called.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("Starting API server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server failed: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server")
	s.events.Close()
	return s.httpServer.Shutdown(ctx)
}

// requestLogging logs one line per request.
func (s *Server) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"remote_addr": r.RemoteAddr,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("Request handled")
	})
}
