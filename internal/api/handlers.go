package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"ir-hub-bridge/internal/driver"
	"ir-hub-bridge/internal/history"
)

// HistoryStore is the slice of the history package the handlers need.
type HistoryStore interface {
	Record(entry *history.Entry) error
	Recent(deviceID string, limit int) ([]*history.Entry, error)
	GetStats() (*history.Stats, error)
}

// Handlers serves the bridge's local HTTP API on top of one descriptor.
type Handlers struct {
	logger     *logrus.Logger
	descriptor driver.Descriptor
	backend    string
	store      HistoryStore // nil when history is disabled
	events     *EventBroadcaster
	startTime  time.Time
}

// NewHandlers creates the API handlers. store may be nil.
func NewHandlers(logger *logrus.Logger, descriptor driver.Descriptor, backend string, store HistoryStore, events *EventBroadcaster) *Handlers {
	return &Handlers{
		logger:     logger,
		descriptor: descriptor,
		backend:    backend,
		store:      store,
		events:     events,
		startTime:  time.Now(),
	}
}

// ListDevices handles GET /api/v1/devices.
func (h *Handlers) ListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.descriptor.Devices(r.Context())
	if err != nil {
		h.writeError(w, http.StatusBadGateway, err)
		return
	}
	h.writeJSON(w, http.StatusOK, DeviceListResponse{Devices: devices})
}

// ListCommands handles GET /api/v1/devices/{deviceId}/commands.
func (h *Handlers) ListCommands(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["deviceId"]

	dev, err := h.descriptor.CreateDevice(r.Context(), deviceID)
	if err != nil {
		h.writeDriverError(w, err)
		return
	}
	defer h.closeDevice(dev)

	commands, err := dev.Commands(r.Context())
	if err != nil {
		h.writeError(w, http.StatusBadGateway, err)
		return
	}

	width, height := dev.RemoteLayoutSize()
	resp := CommandListResponse{
		DeviceID: deviceID,
		Ready:    dev.Ready(r.Context()),
		Width:    width,
		Height:   height,
		Commands: make([]CommandResponse, 0, len(commands)),
	}
	for _, cmd := range commands {
		resp.Commands = append(resp.Commands, CommandResponse{
			ID:       cmd.ID(),
			Title:    cmd.Title(),
			Key:      cmd.Key(),
			DeviceID: cmd.DeviceID(),
			Icon:     cmd.Icon(),
		})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// ExecuteCommand handles POST /api/v1/devices/{deviceId}/commands/{commandId}.
func (h *Handlers) ExecuteCommand(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	deviceID := vars["deviceId"]

	commandID, err := strconv.Atoi(vars["commandId"])
	if err != nil || commandID < 0 {
		h.writeError(w, http.StatusBadRequest, errors.New("command id must be a non-negative integer"))
		return
	}

	dev, err := h.descriptor.CreateDevice(r.Context(), deviceID)
	if err != nil {
		h.writeDriverError(w, err)
		return
	}
	defer h.closeDevice(dev)

	commands, err := dev.Commands(r.Context())
	if err != nil {
		h.writeError(w, http.StatusBadGateway, err)
		return
	}
	if commandID >= len(commands) {
		h.writeError(w, http.StatusNotFound, errors.New("unknown command id"))
		return
	}
	cmd := commands[commandID]

	execErr := dev.Execute(r.Context(), cmd)
	executedAt := time.Now().UTC()

	h.record(cmd, execErr, executedAt)
	h.broadcast(cmd, execErr, executedAt)

	if execErr != nil {
		h.writeError(w, http.StatusBadGateway, execErr)
		return
	}

	h.writeJSON(w, http.StatusOK, ExecuteResponse{
		DeviceID:   deviceID,
		CommandID:  commandID,
		Key:        cmd.Key(),
		ExecutedAt: executedAt,
	})
}

// Status handles GET /api/v1/status.
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	devices, err := h.descriptor.Devices(r.Context())
	if err != nil {
		h.writeError(w, http.StatusBadGateway, err)
		return
	}

	h.writeJSON(w, http.StatusOK, StatusResponse{
		Backend:    h.backend,
		Descriptor: h.descriptor.Info(),
		Devices:    len(devices),
		UptimeSecs: int64(time.Since(h.startTime).Seconds()),
	})
}

// History handles GET /api/v1/history.
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.writeError(w, http.StatusNotFound, errors.New("history is disabled"))
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.writeError(w, http.StatusBadRequest, errors.New("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	entries, err := h.store.Recent(r.URL.Query().Get("device_id"), limit)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if entries == nil {
		entries = []*history.Entry{}
	}
	h.writeJSON(w, http.StatusOK, entries)
}

func (h *Handlers) record(cmd driver.Command, execErr error, executedAt time.Time) {
	if h.store == nil {
		return
	}

	entry := &history.Entry{
		DeviceID:   cmd.DeviceID(),
		Key:        cmd.Key(),
		Backend:    h.backend,
		Success:    execErr == nil,
		ExecutedAt: executedAt,
	}
	if execErr != nil {
		entry.Error = execErr.Error()
	}

	if err := h.store.Record(entry); err != nil {
		h.logger.WithError(err).Warn("Failed to record command execution")
	}
}

func (h *Handlers) broadcast(cmd driver.Command, execErr error, executedAt time.Time) {
	if h.events == nil {
		return
	}

	event := ExecutionEvent{
		Type:       EventTypeExecution,
		DeviceID:   cmd.DeviceID(),
		Key:        cmd.Key(),
		CommandID:  cmd.ID(),
		Success:    execErr == nil,
		ExecutedAt: executedAt,
	}
	if execErr != nil {
		event.Error = execErr.Error()
	}
	h.events.Broadcast(event)
}

// closeDevice releases a per-request device driver. Drivers that hold a
// daemon connection expose io.Closer; the rest have nothing to release.
func (h *Handlers) closeDevice(dev driver.DeviceDriver) {
	c, ok := dev.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		h.logger.WithError(err).Warn("Failed to close device driver")
	}
}

func (h *Handlers) writeDriverError(w http.ResponseWriter, err error) {
	var ce *driver.ConstructionError
	switch {
	case errors.Is(err, driver.ErrDeviceNotFound):
		h.writeError(w, http.StatusNotFound, err)
	case errors.As(err, &ce):
		h.writeError(w, http.StatusInternalServerError, err)
	default:
		h.writeError(w, http.StatusBadGateway, err)
	}
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.WithError(err).Error("Failed to encode response")
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
