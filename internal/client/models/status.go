package models

import "time"

// ConnectionState classifies the remote service's reachability.
type ConnectionState string

const (
	StateUnknown      ConnectionState = "unknown"
	StateConnected    ConnectionState = "connected"
	StateDisconnected ConnectionState = "disconnected"
)

// ConnectionStatus is the outcome of a health probe.
type ConnectionStatus struct {
	State     ConnectionState `json:"state"`
	CheckedAt time.Time       `json:"checkedAt"`
	// FallbackActive is true whenever State is not StateConnected.
	FallbackActive bool `json:"fallbackActive"`
	// Detail explains a disconnected classification (timeout, HTTP status...).
	Detail string `json:"detail,omitempty"`
}

// NewConnectionStatus builds a status with FallbackActive derived from state.
func NewConnectionStatus(state ConnectionState, at time.Time, detail string) ConnectionStatus {
	return ConnectionStatus{
		State:          state,
		CheckedAt:      at,
		FallbackActive: state != StateConnected,
		Detail:         detail,
	}
}

// Connected reports whether the remote service was reachable.
func (s ConnectionStatus) Connected() bool {
	return s.State == StateConnected
}
