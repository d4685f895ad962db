// Package transcript decodes backend recognition messages into transcript
// events and decides which of them reach the caller.
package transcript

import (
	"fmt"
	"strings"
)

// Kind tags a decoded backend message.
type Kind int

const (
	// KindEmpty - no recognition result in the message.
	KindEmpty Kind = iota
	// KindPartial - interim hypothesis. Treated as Empty by the caller-facing filter.
	KindPartial
	// KindFinal - completed recognition result.
	KindFinal
	// KindMalformed - the message did not match the backend schema.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindPartial:
		return "partial"
	case KindFinal:
		return "final"
	case KindMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Event is the decoded form of one backend message.
type Event struct {
	Kind       Kind
	Text       string
	Confidence float64
	// Raw holds the original payload for Malformed events.
	Raw []byte
}

// Final builds a final event.
func Final(text string, confidence float64) Event {
	return Event{Kind: KindFinal, Text: text, Confidence: confidence}
}

// Partial builds a partial event.
func Partial(text string) Event {
	return Event{Kind: KindPartial, Text: text}
}

// Empty builds an empty event.
func Empty() Event {
	return Event{Kind: KindEmpty}
}

// Malformed builds a malformed event around raw.
func Malformed(raw []byte) Event {
	return Event{Kind: KindMalformed, Raw: raw}
}

// Forwardable reports whether the event is surfaced to the caller: only
// finals with non-blank text are.
func (e Event) Forwardable() bool {
	return e.Kind == KindFinal && strings.TrimSpace(e.Text) != ""
}
