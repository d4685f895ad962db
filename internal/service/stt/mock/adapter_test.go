package mock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"stt-gateway/internal/service/session"
	"stt-gateway/internal/service/stt"
	"stt-gateway/internal/service/transcript"
)

// drain polls until the stream ends and returns everything received.
func drain(t *testing.T, c stt.Conn) ([]transcript.Event, error) {
	t.Helper()
	var events []transcript.Event
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		ev, err := c.Poll(context.Background(), 20*time.Millisecond)
		if errors.Is(err, stt.ErrNoData) {
			continue
		}
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
	t.Fatal("stream did not end before deadline")
	return nil, nil
}

func connect(t *testing.T, b *Backend) *Conn {
	t.Helper()
	c, err := b.Connect(context.Background(), session.DefaultConfig(16000))
	if err != nil {
		t.Fatalf("unexpected connect error: %v", err)
	}
	return c.(*Conn)
}

func TestBackend_Name(t *testing.T) {
	if New(Options{}).Name() != "mock" {
		t.Error("expected name mock")
	}
}

func TestConn_PartialsThenFinal(t *testing.T) {
	b := New(Options{Utterances: []SimulatedUtterance{{Partials: []string{"he", "hel"}, Final: "hello", Confidence: 0.9}}})
	c := connect(t, b)
	defer c.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := c.SendAudio(ctx, []byte{byte(i)}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := c.Finish(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events, err := drain(t, c)
	if !errors.Is(err, stt.ErrClosed) {
		t.Fatalf("expected clean close, got %v", err)
	}

	var kinds []transcript.Kind
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
	}
	want := []transcript.Kind{transcript.KindPartial, transcript.KindPartial, transcript.KindFinal}
	if len(kinds) != len(want) {
		t.Fatalf("expected %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, kinds)
		}
	}
	if events[2].Text != "hello" || events[2].Confidence != 0.9 {
		t.Errorf("unexpected final: %+v", events[2])
	}
}

func TestConn_FinishFlushesOpenUtterance(t *testing.T) {
	b := New(Options{})
	c := connect(t, b)
	defer c.Close()

	_ = c.SendAudio(context.Background(), []byte("audio"))
	_ = c.Finish(context.Background())

	events, _ := drain(t, c)
	finals := 0
	for _, ev := range events {
		if ev.Forwardable() {
			finals++
		}
	}
	if finals != 1 {
		t.Errorf("expected exactly 1 final, got %d", finals)
	}
}

func TestConn_FinishWithoutAudioSendsNothing(t *testing.T) {
	c := connect(t, New(Options{}))
	defer c.Close()

	_ = c.Finish(context.Background())
	events, err := drain(t, c)
	if !errors.Is(err, stt.ErrClosed) {
		t.Fatalf("expected clean close, got %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %v", events)
	}
}

func TestConn_RecordsFramesInOrder(t *testing.T) {
	c := connect(t, New(Options{}))
	defer c.Close()

	for i := 0; i < 5; i++ {
		_ = c.SendAudio(context.Background(), []byte{byte(i)})
	}

	frames := c.Frames()
	if len(frames) != 5 {
		t.Fatalf("expected 5 frames, got %d", len(frames))
	}
	for i, f := range frames {
		if f[0] != byte(i) {
			t.Errorf("frame %d out of order: %v", i, f)
		}
	}
}

func TestConn_DropAfter(t *testing.T) {
	boom := errors.New("connection reset")
	c := connect(t, New(Options{DropAfter: 2, DropErr: boom}))
	defer c.Close()

	_ = c.SendAudio(context.Background(), []byte{1})
	_ = c.SendAudio(context.Background(), []byte{2})

	if _, err := drain(t, c); !errors.Is(err, boom) {
		t.Fatalf("expected drop error, got %v", err)
	}
	if err := c.SendAudio(context.Background(), []byte{3}); !errors.Is(err, boom) {
		t.Errorf("expected send after drop to fail, got %v", err)
	}
}

func TestBackend_ConnectErr(t *testing.T) {
	refused := errors.New("connection refused")
	if _, err := New(Options{ConnectErr: refused}).Connect(context.Background(), session.DefaultConfig(16000)); !errors.Is(err, refused) {
		t.Fatalf("expected connect error, got %v", err)
	}
}

func TestBackend_CyclesThroughUtterances(t *testing.T) {
	b := New(Options{})
	c1 := connect(t, b)
	c2 := connect(t, b)
	defer c1.Close()
	defer c2.Close()

	if c1.uttIdx == c2.uttIdx {
		t.Error("expected consecutive connections to start on different utterances")
	}
	if len(b.Conns()) != 2 {
		t.Errorf("expected 2 recorded connections, got %d", len(b.Conns()))
	}
}

func TestConn_CloseIdempotent(t *testing.T) {
	c := connect(t, New(Options{}))
	_ = c.Close()
	if err := c.Close(); err != nil {
		t.Fatalf("unexpected error on second close: %v", err)
	}
	if !c.Closed() {
		t.Error("expected Closed to report true")
	}
}

func TestDefaultUtterances(t *testing.T) {
	if len(DefaultUtterances) != 5 {
		t.Errorf("expected 5 default utterances, got %d", len(DefaultUtterances))
	}

	for i, utt := range DefaultUtterances {
		if len(utt.Partials) == 0 {
			t.Errorf("utterance %d has no partials", i)
		}
		if utt.Final == "" {
			t.Errorf("utterance %d has empty final", i)
		}
		if utt.Confidence <= 0 || utt.Confidence > 1 {
			t.Errorf("utterance %d has invalid confidence %f", i, utt.Confidence)
		}
	}
}

func TestConn_ThreadSafety(t *testing.T) {
	c := connect(t, New(Options{Delay: time.Millisecond}))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				_ = c.SendAudio(context.Background(), []byte("audio"))
				_, _ = c.Poll(context.Background(), 0)
			}
		}()
	}

	wg.Wait()
	_ = c.Finish(context.Background())
	_ = c.Close()
	// Should not panic - just verify it completes
}
