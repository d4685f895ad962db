package proto

import (
	"testing"

	gproto "google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoregistry"
)

func TestEndRequest_PresenceSurvivesEncoding(t *testing.T) {
	data, err := gproto.Marshal(EndRequest())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty encoding for EndOfStream request")
	}

	var got STTRequest
	if err := gproto.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.GetEnd() == nil {
		t.Errorf("expected end variant, got %T", got.GetRequest())
	}
}

func TestFinalResponse_RoundTrip(t *testing.T) {
	data, err := gproto.Marshal(FinalResponse("hello world", 0.75))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got STTResponse
	if err := gproto.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.GetFinal().GetText() != "hello world" || got.GetFinal().GetConfidence() != 0.75 {
		t.Errorf("unexpected final %v", got.GetFinal())
	}
	if got.GetError() != nil {
		t.Error("final response must not carry an error")
	}
}

func TestDescriptor_RegisteredForReflection(t *testing.T) {
	fd, err := protoregistry.GlobalFiles.FindFileByPath("stt.proto")
	if err != nil {
		t.Fatalf("stt.proto not registered: %v", err)
	}
	svc := fd.Services().ByName("SpeechToText")
	if svc == nil {
		t.Fatal("service SpeechToText missing from descriptor")
	}
	m := svc.Methods().ByName("StreamTranscribe")
	if m == nil || !m.IsStreamingClient() || !m.IsStreamingServer() {
		t.Fatalf("StreamTranscribe should be bidirectional, got %v", m)
	}
	if string(svc.FullName()) != SpeechToText_ServiceDesc.ServiceName {
		t.Errorf("service name %s, desc %s", svc.FullName(), SpeechToText_ServiceDesc.ServiceName)
	}
	if got := m.Input().FullName(); got != "stt.STTRequest" {
		t.Errorf("input type %s", got)
	}
}
