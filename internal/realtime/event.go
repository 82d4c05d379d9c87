package realtime

import "encoding/json"

// Inbound event names.
const (
	EventSetup      = "setup"
	EventJoinChat   = "join chat"
	EventTyping     = "typing"
	EventStopTyping = "stop typing"
	EventNewMessage = "new message"
)

// Outbound event names.
const (
	EventConnected       = "connected"
	EventMessageReceived = "message received"
)

// Event is the wire envelope for both directions of the relay connection.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}
