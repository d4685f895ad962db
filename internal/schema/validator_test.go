package schema

import (
	"errors"
	"testing"

	"stt-gateway/internal/models"
	"stt-gateway/internal/service/session"
)

func TestValidateConfig(t *testing.T) {
	v := New()
	tests := []struct {
		name    string
		cfg     session.Config
		wantErr bool
	}{
		{"default", session.Config{SampleRateHz: 16000, Channels: 1, Encoding: "LINEAR16"}, false},
		{"stereo 48k", session.Config{SampleRateHz: 48000, Channels: 2, Encoding: "LINEAR16"}, false},
		{"8k lower bound", session.Config{SampleRateHz: 8000, Channels: 1, Encoding: "LINEAR16"}, false},
		{"rate too low", session.Config{SampleRateHz: 4000, Channels: 1, Encoding: "LINEAR16"}, true},
		{"rate too high", session.Config{SampleRateHz: 96000, Channels: 1, Encoding: "LINEAR16"}, true},
		{"no channels", session.Config{SampleRateHz: 16000, Channels: 0, Encoding: "LINEAR16"}, true},
		{"too many channels", session.Config{SampleRateHz: 16000, Channels: 6, Encoding: "LINEAR16"}, true},
		{"wrong encoding", session.Config{SampleRateHz: 16000, Channels: 1, Encoding: "FLAC"}, true},
		{"lowercase encoding", session.Config{SampleRateHz: 16000, Channels: 1, Encoding: "linear16"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateConfig(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateConfig(%+v) error = %v, wantErr %v", tt.cfg, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestValidate_Events(t *testing.T) {
	v := New()
	good := models.TranscriptFinal{EventType: models.EventTypeFinal, SessionID: "s1", Text: "hi", Confidence: 0.5}
	if err := v.Validate(good); err != nil {
		t.Errorf("expected valid final, got %v", err)
	}
	if err := v.Validate(&good); err != nil {
		t.Errorf("expected valid final pointer, got %v", err)
	}

	bad := []any{
		models.TranscriptFinal{SessionID: "s1", Text: "hi"},
		models.TranscriptFinal{EventType: models.EventTypeFinal, Text: "hi"},
		models.TranscriptFinal{EventType: models.EventTypeFinal, SessionID: "s1", Text: "  "},
		models.TranscriptFinal{EventType: models.EventTypeFinal, SessionID: "s1", Text: "hi", Confidence: 1.5},
		models.TranscriptPartial{EventType: models.EventTypePartial, SessionID: "s1"},
	}
	for _, ev := range bad {
		if err := v.Validate(ev); !errors.Is(err, ErrInvalid) {
			t.Errorf("expected ErrInvalid for %+v, got %v", ev, err)
		}
	}

	if err := v.Validate(map[string]string{"x": "y"}); err != nil {
		t.Errorf("unknown event types are not validated, got %v", err)
	}
}
