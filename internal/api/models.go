package api

import (
	"time"

	"ir-hub-bridge/internal/driver"
)

// CommandResponse describes one command of a device. Icon bytes are
// base64-encoded by the JSON marshaller.
type CommandResponse struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Key      string `json:"key"`
	DeviceID string `json:"device_id"`
	Icon     []byte `json:"icon,omitempty"`
}

// DeviceListResponse is the body of GET /devices.
type DeviceListResponse struct {
	Devices []driver.DeviceInfo `json:"devices"`
}

// CommandListResponse is the body of GET /devices/{id}/commands.
type CommandListResponse struct {
	DeviceID string            `json:"device_id"`
	Ready    bool              `json:"ready"`
	Width    int               `json:"layout_width"`
	Height   int               `json:"layout_height"`
	Commands []CommandResponse `json:"commands"`
}

// ExecuteResponse is the body of a successful command execution.
type ExecuteResponse struct {
	DeviceID   string    `json:"device_id"`
	CommandID  int       `json:"command_id"`
	Key        string    `json:"key"`
	ExecutedAt time.Time `json:"executed_at"`
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Backend    string                `json:"backend"`
	Descriptor driver.DescriptorInfo `json:"descriptor"`
	Devices    int                   `json:"devices"`
	UptimeSecs int64                 `json:"uptime_seconds"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ExecutionEvent is broadcast to websocket subscribers after every command
// execution attempt.
type ExecutionEvent struct {
	Type       string    `json:"type"`
	DeviceID   string    `json:"device_id"`
	Key        string    `json:"key"`
	CommandID  int       `json:"command_id"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	ExecutedAt time.Time `json:"executed_at"`
}

// EventTypeExecution is the Type of ExecutionEvent messages.
const EventTypeExecution = "command_execution"
