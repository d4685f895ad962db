package session

import (
	"errors"
	"sync"
	"testing"
)

func TestLifecycle_InitialState(t *testing.T) {
	lc := NewLifecycle("sess-1")

	if lc.State() != StateCreated {
		t.Errorf("expected StateCreated, got %v", lc.State())
	}
	if lc.SessionId() != "sess-1" {
		t.Errorf("expected sess-1, got %v", lc.SessionId())
	}
	if lc.IsTerminal() {
		t.Error("expected IsTerminal to be false")
	}
}

func TestLifecycle_FullCycle(t *testing.T) {
	lc := NewLifecycle("sess-1")

	if err := lc.Configure(); err != nil {
		t.Fatalf("configure failed: %v", err)
	}
	if err := lc.StartStreaming(); err != nil {
		t.Fatalf("start streaming failed: %v", err)
	}
	if err := lc.Drain(); err != nil {
		t.Fatalf("drain failed: %v", err)
	}
	if !lc.Close("backend closed") {
		t.Fatal("expected Close to succeed from DRAINING")
	}

	if lc.State() != StateClosed {
		t.Errorf("expected StateClosed, got %v", lc.State())
	}
	if lc.Reason() != "backend closed" {
		t.Errorf("expected reason 'backend closed', got %q", lc.Reason())
	}
}

func TestLifecycle_DrainFromConfigured(t *testing.T) {
	lc := NewLifecycle("sess-1")
	lc.Configure()

	if err := lc.Drain(); err != nil {
		t.Errorf("expected drain from CONFIGURED to succeed, got %v", err)
	}
}

func TestLifecycle_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		prep func(*Lifecycle)
		step func(*Lifecycle) error
	}{
		{"stream before configure", func(*Lifecycle) {}, (*Lifecycle).StartStreaming},
		{"drain before configure", func(*Lifecycle) {}, (*Lifecycle).Drain},
		{"configure twice", func(l *Lifecycle) { l.Configure() }, (*Lifecycle).Configure},
		{"stream after drain", func(l *Lifecycle) { l.Configure(); l.Drain() }, (*Lifecycle).StartStreaming},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := NewLifecycle("sess-1")
			tt.prep(lc)
			before := lc.State()

			err := tt.step(lc)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("expected ErrInvalidTransition, got %v", err)
			}
			if lc.State() != before {
				t.Errorf("state changed on invalid transition: %v -> %v", before, lc.State())
			}
		})
	}
}

func TestLifecycle_NoTransitionsAfterTerminal(t *testing.T) {
	for _, terminate := range []func(*Lifecycle) bool{
		func(l *Lifecycle) bool { return l.Close("done") },
		func(l *Lifecycle) bool { return l.Fail("boom") },
	} {
		lc := NewLifecycle("sess-1")
		lc.Configure()
		terminate(lc)
		final := lc.State()

		if err := lc.StartStreaming(); !errors.Is(err, ErrTerminal) {
			t.Errorf("StartStreaming: expected ErrTerminal, got %v", err)
		}
		if err := lc.Drain(); !errors.Is(err, ErrTerminal) {
			t.Errorf("Drain: expected ErrTerminal, got %v", err)
		}
		if lc.Close("again") {
			t.Error("expected Close to return false after terminal")
		}
		if lc.Fail("again") {
			t.Error("expected Fail to return false after terminal")
		}
		if lc.State() != final {
			t.Errorf("expected state to remain %v, got %v", final, lc.State())
		}
	}
}

func TestLifecycle_Fail_KeepsFirstReason(t *testing.T) {
	lc := NewLifecycle("sess-1")

	if !lc.Fail("caller cancelled") {
		t.Fatal("expected first Fail to succeed")
	}
	lc.Fail("backend error")

	if lc.Reason() != "caller cancelled" {
		t.Errorf("expected first reason to stick, got %q", lc.Reason())
	}
}

func TestLifecycle_ConcurrentTerminate_ExactlyOneWins(t *testing.T) {
	lc := NewLifecycle("sess-1")
	lc.Configure()
	lc.StartStreaming()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var ok bool
			if i%2 == 0 {
				ok = lc.Close("close")
			} else {
				ok = lc.Fail("fail")
			}
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("expected exactly one terminal transition, got %d", wins)
	}
}

func TestLifecycle_SetSessionId(t *testing.T) {
	lc := NewLifecycle("generated")

	if err := lc.SetSessionId("caller-id"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lc.SessionId() != "caller-id" {
		t.Errorf("expected caller-id, got %s", lc.SessionId())
	}

	lc.Configure()
	if err := lc.SetSessionId("late"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition after configure, got %v", err)
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateCreated, "CREATED"},
		{StateConfigured, "CONFIGURED"},
		{StateStreaming, "STREAMING"},
		{StateDraining, "DRAINING"},
		{StateClosed, "CLOSED"},
		{StateFailed, "FAILED"},
		{State(99), "UNKNOWN(99)"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("State(%d).String() = %v, want %v", tt.state, got, tt.expected)
		}
	}
}

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state      State
		isTerminal bool
	}{
		{StateCreated, false},
		{StateConfigured, false},
		{StateStreaming, false},
		{StateDraining, false},
		{StateClosed, true},
		{StateFailed, true},
	}

	for _, tt := range tests {
		if got := tt.state.IsTerminal(); got != tt.isTerminal {
			t.Errorf("State(%s).IsTerminal() = %v, want %v", tt.state, got, tt.isTerminal)
		}
	}
}
