// Package models defines the data structures for transcript events.
package models

// Event types carried in the eventType field.
const (
	EventTypePartial = "stt.transcript.partial"
	EventTypeFinal   = "stt.transcript.final"
)

// TranscriptPartial represents an interim hypothesis from the backend.
// Partials are never sent to the caller; they are only published.
type TranscriptPartial struct {
	EventType string `json:"eventType"`
	SessionID string `json:"sessionId"`
	Provider  string `json:"provider"`
	Timestamp int64  `json:"timestamp"`
	Text      string `json:"text"`
}

// TranscriptFinal represents a final transcript forwarded to the caller.
type TranscriptFinal struct {
	EventType  string  `json:"eventType"`
	SessionID  string  `json:"sessionId"`
	Provider   string  `json:"provider"`
	Timestamp  int64   `json:"timestamp"`
	Sequence   int     `json:"sequence"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	// AudioOffsetMs is the amount of audio forwarded when the final arrived.
	AudioOffsetMs int64 `json:"audioOffsetMs"`
}
