// Package mock provides a mock STT backend for testing without a recognition
// server. It simulates realistic speech-to-text behavior with progressive
// partial results and exactly one final result per utterance.
package mock

import (
	"context"
	"errors"
	"sync"
	"time"

	"stt-gateway/internal/service/session"
	"stt-gateway/internal/service/stt"
	"stt-gateway/internal/service/transcript"
)

// Name is the provider name used in config and metrics.
const Name = "mock"

// SimulatedUtterance represents a mock utterance with progressive transcripts.
type SimulatedUtterance struct {
	Partials   []string // Progressive partial transcripts
	Final      string   // Final transcript text
	Confidence float64  // Confidence score for final
}

// DefaultUtterances provides sample utterances for simulation.
var DefaultUtterances = []SimulatedUtterance{
	{
		Partials:   []string{"I want", "I want to", "I want to cancel"},
		Final:      "I want to cancel my subscription",
		Confidence: 0.94,
	},
	{
		Partials:   []string{"Yes", "Yes please"},
		Final:      "Yes please go ahead",
		Confidence: 0.97,
	},
	{
		Partials:   []string{"Can you", "Can you help", "Can you help me with"},
		Final:      "Can you help me with my account",
		Confidence: 0.91,
	},
	{
		Partials:   []string{"I've been", "I've been waiting", "I've been waiting for"},
		Final:      "I've been waiting for over an hour",
		Confidence: 0.89,
	},
	{
		Partials:   []string{"Thank you"},
		Final:      "Thank you very much",
		Confidence: 0.98,
	},
}

// Options tune the simulation.
type Options struct {
	// Utterances to cycle through; DefaultUtterances when empty.
	Utterances []SimulatedUtterance
	// Delay before each result becomes visible to Poll.
	Delay time.Duration
	// ConnectErr makes Connect fail, like an unreachable server.
	ConnectErr error
	// DropAfter closes the backend stream after this many frames (0 = never).
	// DropErr is reported by Poll; nil means a clean close.
	DropAfter int
	DropErr   error
	// Silent suppresses all results, like a server that never recognises anything.
	Silent bool
}

// Backend implements stt.Backend with simulated results.
type Backend struct {
	opts Options

	mu    sync.Mutex
	next  int
	conns []*Conn
}

// New creates a mock backend.
func New(opts Options) *Backend {
	if len(opts.Utterances) == 0 {
		opts.Utterances = DefaultUtterances
	}
	return &Backend{opts: opts}
}

// Name implements stt.Backend.
func (b *Backend) Name() string { return Name }

// Connect opens a simulated connection. Each connection starts on the next
// utterance in the cycle.
func (b *Backend) Connect(ctx context.Context, cfg session.Config) (stt.Conn, error) {
	if b.opts.ConnectErr != nil {
		return nil, b.opts.ConnectErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	start := b.next
	b.next++
	c := &Conn{
		cfg:    cfg,
		opts:   b.opts,
		uttIdx: start % len(b.opts.Utterances),
		queue:  make(chan transcript.Event, 1024),
		events: make(chan transcript.Event, 1024),
		done:   make(chan struct{}),
	}
	b.conns = append(b.conns, c)
	b.mu.Unlock()

	go c.emit()
	return c, nil
}

// Conns returns every connection opened so far.
func (b *Backend) Conns() []*Conn {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Conn{}, b.conns...)
}

// Conn is one simulated session. It records what the bridge sent so tests
// can assert on it.
type Conn struct {
	cfg  session.Config
	opts Options

	queue  chan transcript.Event
	events chan transcript.Event
	done   chan struct{}

	mu           sync.Mutex
	frames       [][]byte
	uttIdx       int
	partialIndex int
	finished     bool
	queueClosed  bool
	dropErr      error
	closeOnce    sync.Once
}

// emit forwards queued results to Poll after the configured delay.
func (c *Conn) emit() {
	defer close(c.events)
	for ev := range c.queue {
		if c.opts.Delay > 0 {
			select {
			case <-time.After(c.opts.Delay):
			case <-c.done:
				return
			}
		}
		select {
		case c.events <- ev:
		case <-c.done:
			return
		}
	}
}

// push must be called with c.mu held.
func (c *Conn) push(ev transcript.Event) {
	if c.queueClosed || c.opts.Silent {
		return
	}
	select {
	case c.queue <- ev:
	default:
		// nobody is polling; drop like a server would on a dead socket
	}
}

// endStream must be called with c.mu held.
func (c *Conn) endStream(err error) {
	if c.queueClosed {
		return
	}
	c.dropErr = err
	c.queueClosed = true
	close(c.queue)
}

// SendAudio records the frame and emits the next partial, or the final once
// all partials of the current utterance are out.
func (c *Conn) SendAudio(ctx context.Context, audio []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.finished {
		return errors.New("mock: audio after finish")
	}
	if c.queueClosed {
		if c.dropErr != nil {
			return c.dropErr
		}
		return stt.ErrClosed
	}

	c.frames = append(c.frames, append([]byte(nil), audio...))

	utt := c.opts.Utterances[c.uttIdx]
	if c.partialIndex < len(utt.Partials) {
		c.push(transcript.Partial(utt.Partials[c.partialIndex]))
		c.partialIndex++
	} else {
		c.push(transcript.Final(utt.Final, utt.Confidence))
		c.uttIdx = (c.uttIdx + 1) % len(c.opts.Utterances)
		c.partialIndex = 0
	}

	if c.opts.DropAfter > 0 && len(c.frames) >= c.opts.DropAfter {
		c.endStream(c.opts.DropErr)
	}
	return nil
}

// Finish flushes the current utterance as a final, then closes cleanly.
func (c *Conn) Finish(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.finished {
		return nil
	}
	c.finished = true
	if c.partialIndex > 0 {
		utt := c.opts.Utterances[c.uttIdx]
		c.push(transcript.Final(utt.Final, utt.Confidence))
	}
	c.endStream(nil)
	return nil
}

// Poll returns the next simulated result.
func (c *Conn) Poll(ctx context.Context, timeout time.Duration) (transcript.Event, error) {
	return stt.Receive(ctx, c.events, timeout, c.closeErr)
}

func (c *Conn) closeErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropErr
}

// Close ends the simulation. Safe to call more than once.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	return nil
}

// Frames returns copies of the frames received, in order.
func (c *Conn) Frames() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte{}, c.frames...)
}

// Finished reports whether Finish was called.
func (c *Conn) Finished() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finished
}

// Closed reports whether Close was called.
func (c *Conn) Closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Config returns the session config passed to Connect.
func (c *Conn) Config() session.Config {
	return c.cfg
}
