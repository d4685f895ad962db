// Package schema validates caller session configs and outbound transcript events.
package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"stt-gateway/internal/models"
	"stt-gateway/internal/service/session"
)

// Accepted audio formats.
const (
	MinSampleRateHz = 8000
	MaxSampleRateHz = 48000
	MaxChannels     = 2
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid")

var supportedEncodings = map[string]bool{
	"LINEAR16": true,
}

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateConfig checks the audio format a caller asked for.
func (v *Validator) ValidateConfig(cfg session.Config) error {
	var problems []string
	if cfg.SampleRateHz < MinSampleRateHz || cfg.SampleRateHz > MaxSampleRateHz {
		problems = append(problems, fmt.Sprintf("sample rate %d Hz outside %d-%d", cfg.SampleRateHz, MinSampleRateHz, MaxSampleRateHz))
	}
	if cfg.Channels < 1 || cfg.Channels > MaxChannels {
		problems = append(problems, fmt.Sprintf("channels %d outside 1-%d", cfg.Channels, MaxChannels))
	}
	if !supportedEncodings[cfg.Encoding] {
		problems = append(problems, fmt.Sprintf("unsupported encoding %q", cfg.Encoding))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w config: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Validate checks a transcript event before it is published.
func (v *Validator) Validate(event any) error {
	switch ev := event.(type) {
	case models.TranscriptFinal:
		return checkEnvelope(ev.EventType, ev.SessionID, ev.Text, ev.Confidence)
	case *models.TranscriptFinal:
		return checkEnvelope(ev.EventType, ev.SessionID, ev.Text, ev.Confidence)
	case models.TranscriptPartial:
		return checkEnvelope(ev.EventType, ev.SessionID, ev.Text, 0)
	case *models.TranscriptPartial:
		return checkEnvelope(ev.EventType, ev.SessionID, ev.Text, 0)
	default:
		log.Debug().Str("type", fmt.Sprintf("%T", event)).Msg("No schema for event, skipping validation")
		return nil
	}
}

func checkEnvelope(eventType, sessionID, text string, confidence float64) error {
	switch {
	case eventType == "":
		return fmt.Errorf("%w event: missing eventType", ErrInvalid)
	case sessionID == "":
		return fmt.Errorf("%w event: missing sessionId", ErrInvalid)
	case strings.TrimSpace(text) == "":
		return fmt.Errorf("%w event: empty text", ErrInvalid)
	case confidence < 0 || confidence > 1:
		return fmt.Errorf("%w event: confidence %v outside 0-1", ErrInvalid, confidence)
	}
	return nil
}
