package ws

import "encoding/json"

// Message type constants for WebSocket frames.
const (
	// MessageTypeEvent carries one live event.
	MessageTypeEvent = "event.created"
	// MessageTypeHistory carries the replay batch sent once after connect,
	// newest first.
	MessageTypeHistory = "event.history"
)

// Message is the envelope for all WebSocket messages.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// encodeMessage marshals a typed envelope around payload.
func encodeMessage(typ string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: typ, Payload: data})
}
