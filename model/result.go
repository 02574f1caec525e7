package model

// Outcome of a submission as reported by the collector
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeError   Outcome = "error"
)

// SubmitResult is the collector's reply to an append, delivered either as a
// response body or as a message from the nested context.
type SubmitResult struct {
	Outcome Outcome `json:"result"`
	Message string  `json:"message,omitempty"`
}

// MessageTypeReady is sent by the bridge page once it can accept a record
const MessageTypeReady = "ready"

// BridgeMessage is the union of every payload the bridge posts to its parent
type BridgeMessage struct {
	Type    string  `json:"type,omitempty"`
	Outcome Outcome `json:"result,omitempty"`
	Message string  `json:"message,omitempty"`
}

// IsReady reports whether the message is the readiness signal
func (m BridgeMessage) IsReady() bool {
	return m.Type == MessageTypeReady
}

// IsResult reports whether the message carries a success or error result
func (m BridgeMessage) IsResult() bool {
	return m.Outcome == OutcomeSuccess || m.Outcome == OutcomeError
}
