package transcript

import (
	"bytes"
	"encoding/json"
)

// Decode parses one backend message (Vosk JSON schema) into an Event.
//
//	{"result": [...], "text": "..."}  -> Final (confidence from an optional
//	                                     numeric "confidence" field, else 0)
//	{"partial": "..."}                -> Partial
//	any other object                  -> Empty
//	invalid JSON or wrong field types -> Malformed
//
// Decode never panics and never returns an error: schema problems are data.
func Decode(raw []byte) Event {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Malformed(raw)
	}

	if result, ok := fields["result"]; ok {
		return decodeResult(raw, result, fields)
	}

	if partial, ok := fields["partial"]; ok {
		var text string
		if err := json.Unmarshal(partial, &text); err != nil {
			return Malformed(raw)
		}
		return Partial(text)
	}

	return Empty()
}

func decodeResult(raw, result json.RawMessage, fields map[string]json.RawMessage) Event {
	if !isNull(result) {
		var tokens []map[string]json.RawMessage
		if err := json.Unmarshal(result, &tokens); err != nil {
			return Malformed(raw)
		}
	}

	textField, ok := fields["text"]
	if !ok {
		return Malformed(raw)
	}
	var text string
	if err := json.Unmarshal(textField, &text); err != nil {
		return Malformed(raw)
	}

	var confidence float64
	if c, ok := fields["confidence"]; ok {
		// a non-numeric confidence is ignored rather than rejected
		_ = json.Unmarshal(c, &confidence)
	}

	return Final(text, confidence)
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
