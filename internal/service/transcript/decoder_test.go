package transcript

import (
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		kind       Kind
		text       string
		confidence float64
	}{
		{"final with words", `{"result":[{"conf":1.0,"end":1.2,"start":0.9,"word":"hi"}],"text":"hi"}`, KindFinal, "hi", 0},
		{"final with unknown token fields", `{"result":[{"word":"hello","speaker":2}],"text":"hello world"}`, KindFinal, "hello world", 0},
		{"final empty result", `{"result":[],"text":""}`, KindFinal, "", 0},
		{"final null result", `{"result":null,"text":"ok"}`, KindFinal, "ok", 0},
		{"final with confidence", `{"result":[],"text":"yes","confidence":0.87}`, KindFinal, "yes", 0.87},
		{"final with non-numeric confidence", `{"result":[],"text":"yes","confidence":"high"}`, KindFinal, "yes", 0},
		{"text only is empty", `{"text":""}`, KindEmpty, "", 0},
		{"unknown object is empty", `{"foo":"bar"}`, KindEmpty, "", 0},
		{"partial", `{"partial":"hel"}`, KindPartial, "hel", 0},
		{"partial wrong type", `{"partial":5}`, KindMalformed, "", 0},
		{"result missing text", `{"result":[]}`, KindMalformed, "", 0},
		{"result wrong type", `{"result":"nope","text":"x"}`, KindMalformed, "", 0},
		{"result token not object", `{"result":[1,2],"text":"x"}`, KindMalformed, "", 0},
		{"text wrong type", `{"result":[],"text":42}`, KindMalformed, "", 0},
		{"not json", `not json at all`, KindMalformed, "", 0},
		{"json array", `[1,2,3]`, KindMalformed, "", 0},
		{"json null", `null`, KindMalformed, "", 0},
		{"empty payload", ``, KindMalformed, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Decode([]byte(tt.raw))
			if ev.Kind != tt.kind {
				t.Fatalf("Decode(%s) kind = %v, want %v", tt.raw, ev.Kind, tt.kind)
			}
			if ev.Text != tt.text {
				t.Errorf("Decode(%s) text = %q, want %q", tt.raw, ev.Text, tt.text)
			}
			if ev.Confidence != tt.confidence {
				t.Errorf("Decode(%s) confidence = %v, want %v", tt.raw, ev.Confidence, tt.confidence)
			}
			if tt.kind == KindMalformed && string(ev.Raw) != tt.raw {
				t.Errorf("expected raw payload to be kept, got %q", ev.Raw)
			}
		})
	}
}

func TestEvent_Forwardable(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want bool
	}{
		{"final with text", Final("hello world", 0), true},
		{"final blank", Final("   ", 0), false},
		{"final empty", Final("", 0), false},
		{"partial", Partial("hello"), false},
		{"empty", Empty(), false},
		{"malformed", Malformed([]byte("x")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.Forwardable(); got != tt.want {
				t.Errorf("Forwardable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecode_MessageWithoutResultNeverForwarded(t *testing.T) {
	for _, raw := range []string{`{"text":"hello"}`, `{"partial":"hello"}`, `{}`} {
		if Decode([]byte(raw)).Forwardable() {
			t.Errorf("message without result must not be forwarded: %s", raw)
		}
	}
}

func TestKind_String(t *testing.T) {
	if KindFinal.String() != "final" || KindMalformed.String() != "malformed" {
		t.Errorf("unexpected kind names: %s %s", KindFinal, KindMalformed)
	}
	if Kind(42).String() != "unknown(42)" {
		t.Errorf("unexpected name for unknown kind: %s", Kind(42))
	}
}
