package google

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/rs/zerolog"
	statuspb "google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/grpc"

	"stt-gateway/internal/service/session"
	"stt-gateway/internal/service/stt"
	"stt-gateway/internal/service/transcript"
)

// fakeRecognizeStream replays scripted responses and records what was sent.
type fakeRecognizeStream struct {
	grpc.ClientStream

	responses []*speechpb.StreamingRecognizeResponse
	endErr    error // returned once responses run out; io.EOF when nil

	sent       []*speechpb.StreamingRecognizeRequest
	closedSend bool
}

func (f *fakeRecognizeStream) Send(req *speechpb.StreamingRecognizeRequest) error {
	f.sent = append(f.sent, req)
	return nil
}

func (f *fakeRecognizeStream) Recv() (*speechpb.StreamingRecognizeResponse, error) {
	if len(f.responses) == 0 {
		if f.endErr != nil {
			return nil, f.endErr
		}
		return nil, io.EOF
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func (f *fakeRecognizeStream) CloseSend() error {
	f.closedSend = true
	return nil
}

func result(text string, confidence float32, final bool) *speechpb.StreamingRecognitionResult {
	return &speechpb.StreamingRecognitionResult{
		IsFinal:      final,
		Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: text, Confidence: confidence}},
	}
}

func startConn(stream *fakeRecognizeStream) *conn {
	c := &conn{stream: stream, cancel: func() {}, events: make(chan transcript.Event, 64)}
	go c.listen(zerolog.Nop())
	return c
}

func pollAll(t *testing.T, c *conn) ([]transcript.Event, error) {
	t.Helper()
	var events []transcript.Event
	for {
		ev, err := c.Poll(context.Background(), time.Second)
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.LanguageCode != "en-US" || cfg.SampleRateHz != 16000 || !cfg.InterimResults || cfg.AudioEncoding != "LINEAR16" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestParseAudioEncoding(t *testing.T) {
	tests := []struct {
		input    string
		expected speechpb.RecognitionConfig_AudioEncoding
	}{
		{"LINEAR16", speechpb.RecognitionConfig_LINEAR16},
		{"MULAW", speechpb.RecognitionConfig_MULAW},
		{"FLAC", speechpb.RecognitionConfig_FLAC},
		{"OGG_OPUS", speechpb.RecognitionConfig_OGG_OPUS},
		{"WEBM_OPUS", speechpb.RecognitionConfig_WEBM_OPUS},
		{"ENCODING_UNSPECIFIED", speechpb.RecognitionConfig_LINEAR16},
		{"linear16", speechpb.RecognitionConfig_LINEAR16},
		{"invalid", speechpb.RecognitionConfig_LINEAR16},
		{"", speechpb.RecognitionConfig_LINEAR16},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseAudioEncoding(tt.input); got != tt.expected {
				t.Errorf("parseAudioEncoding(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestStreamingConfig_SessionOverridesDefaults(t *testing.T) {
	b := &Backend{cfg: DefaultConfig()}

	req := b.streamingConfig(session.Config{SessionID: "s1", SampleRateHz: 44100, Channels: 2, Encoding: "MULAW"})
	sc := req.GetStreamingConfig()
	if sc == nil {
		t.Fatal("expected streaming config request")
	}
	if sc.Config.SampleRateHertz != 44100 {
		t.Errorf("expected session sample rate, got %d", sc.Config.SampleRateHertz)
	}
	if sc.Config.AudioChannelCount != 2 {
		t.Errorf("expected 2 channels, got %d", sc.Config.AudioChannelCount)
	}
	if sc.Config.Encoding != speechpb.RecognitionConfig_MULAW {
		t.Errorf("expected MULAW, got %v", sc.Config.Encoding)
	}
	if !sc.InterimResults || sc.Config.LanguageCode != "en-US" {
		t.Errorf("expected backend defaults for language and interim results, got %+v", sc)
	}
}

func TestStreamingConfig_FallsBackToBackendRate(t *testing.T) {
	b := &Backend{cfg: Config{LanguageCode: "de-DE", SampleRateHz: 8000, AudioEncoding: "LINEAR16"}}

	sc := b.streamingConfig(session.Config{SessionID: "s1"}).GetStreamingConfig()
	if sc.Config.SampleRateHertz != 8000 {
		t.Errorf("expected backend sample rate 8000, got %d", sc.Config.SampleRateHertz)
	}
	if sc.Config.LanguageCode != "de-DE" {
		t.Errorf("expected de-DE, got %s", sc.Config.LanguageCode)
	}
}

func TestListen_MapsResults(t *testing.T) {
	stream := &fakeRecognizeStream{responses: []*speechpb.StreamingRecognizeResponse{
		{Results: []*speechpb.StreamingRecognitionResult{result("hel", 0, false)}},
		{Results: []*speechpb.StreamingRecognitionResult{{IsFinal: true}}}, // no alternatives
		{Results: []*speechpb.StreamingRecognitionResult{result("hello there", 0.87, true)}},
	}}
	c := startConn(stream)

	events, err := pollAll(t, c)
	if !errors.Is(err, stt.ErrClosed) {
		t.Fatalf("expected a clean close, got %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %+v", len(events), events)
	}
	if events[0].Kind != transcript.KindPartial || events[0].Text != "hel" {
		t.Errorf("first event = %+v", events[0])
	}
	if events[1].Kind != transcript.KindFinal || events[1].Text != "hello there" {
		t.Errorf("second event = %+v", events[1])
	}
	if events[1].Confidence < 0.86 || events[1].Confidence > 0.88 {
		t.Errorf("confidence = %v", events[1].Confidence)
	}
}

func TestListen_ResponseErrorEndsStream(t *testing.T) {
	stream := &fakeRecognizeStream{responses: []*speechpb.StreamingRecognizeResponse{
		{Error: &statuspb.Status{Code: 11, Message: "audio timeout"}},
	}}
	c := startConn(stream)

	_, err := pollAll(t, c)
	if err == nil || errors.Is(err, stt.ErrClosed) {
		t.Fatalf("expected a backend error, got %v", err)
	}
}

func TestListen_TransportErrorEndsStream(t *testing.T) {
	c := startConn(&fakeRecognizeStream{endErr: errors.New("connection reset")})

	_, err := pollAll(t, c)
	if err == nil || errors.Is(err, stt.ErrClosed) {
		t.Fatalf("expected a backend error, got %v", err)
	}
}

func TestConn_SendAudioAndFinish(t *testing.T) {
	stream := &fakeRecognizeStream{}
	c := &conn{stream: stream, cancel: func() {}, events: make(chan transcript.Event)}

	if err := c.SendAudio(context.Background(), []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(stream.sent) != 1 || string(stream.sent[0].GetAudioContent()) != "\x01\x02\x03\x04" {
		t.Fatalf("unexpected requests %+v", stream.sent)
	}
	if err := c.Finish(context.Background()); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if !stream.closedSend {
		t.Error("Finish should half-close the stream")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.SendAudio(ctx, []byte{0}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
