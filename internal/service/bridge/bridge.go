// Package bridge runs one transcription session: it reads caller messages,
// forwards their audio to the recognition backend in order, and sends final
// transcripts back to the caller.
//
// Each session has two activities. Ingestion reads the caller stream and
// fills the session's bounded buffer. Egestion, running in the caller of Run,
// moves frames from the buffer to the backend, polls the backend for results,
// and is the only writer of caller responses. They share only the buffer and
// the session lifecycle.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"stt-gateway/internal/events"
	"stt-gateway/internal/models"
	"stt-gateway/internal/observability/logging"
	"stt-gateway/internal/observability/metrics"
	"stt-gateway/internal/schema"
	"stt-gateway/internal/service/session"
	"stt-gateway/internal/service/stt"
	"stt-gateway/internal/service/transcript"
	pb "stt-gateway/proto"
)

// Limits bound a session's buffering and polling.
type Limits struct {
	BufferFrames   int           // audio buffer capacity
	EnqueueTimeout time.Duration // back-pressure wait step
	EnqueueCeiling time.Duration // give up enqueueing after this long
	AudioPoll      time.Duration // egestion wait for the next frame
	EventPoll      time.Duration // egestion wait for the next backend result
	DrainTimeout   time.Duration // maximum time spent DRAINING
	// BackendLossIsError reports an unexpected backend close to the caller as
	// an error. By default it ends the session cleanly.
	BackendLossIsError bool
}

// DefaultLimits returns sensible default limits.
func DefaultLimits() Limits {
	return Limits{
		BufferFrames:   256,
		EnqueueTimeout: 100 * time.Millisecond,
		EnqueueCeiling: 5 * time.Second,
		AudioPoll:      100 * time.Millisecond,
		EventPoll:      50 * time.Millisecond,
		DrainTimeout:   10 * time.Second,
	}
}

// Stream is the caller side of a session. pb.SpeechToText_StreamTranscribeServer
// satisfies it.
type Stream interface {
	Context() context.Context
	Recv() (*pb.STTRequest, error)
	Send(*pb.STTResponse) error
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLimits overrides DefaultLimits.
func WithLimits(l Limits) Option {
	return func(b *Bridge) { b.limits = l }
}

// WithPublisher publishes partial and final transcripts.
func WithPublisher(p *events.Publisher) Option {
	return func(b *Bridge) { b.publisher = p }
}

// WithMetrics overrides metrics.DefaultMetrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Bridge) { b.metrics = m }
}

// WithDefaultSampleRate sets the rate used when the caller sends no config.
func WithDefaultSampleRate(hz int32) Option {
	return func(b *Bridge) { b.defaultRate = hz }
}

// Info is a snapshot of a session for operators.
type Info struct {
	SessionID    string    `json:"sessionId"`
	State        string    `json:"state"`
	Provider     string    `json:"provider"`
	StartedAt    time.Time `json:"startedAt"`
	SampleRateHz int32     `json:"sampleRateHz"`
	FramesIn     uint64    `json:"framesIn"`
	FramesOut    uint64    `json:"framesOut"`
	Finals       uint64    `json:"finals"`
}

// Bridge mediates one session. Create it with New and call Run once.
type Bridge struct {
	stream    Stream
	backend   stt.Backend
	limits    Limits
	publisher *events.Publisher
	metrics   *metrics.Metrics
	validator *schema.Validator

	defaultRate int32
	events      *eventQueue
	lifecycle   *session.Lifecycle
	buffer      *Buffer
	startedAt   time.Time
	logger      zerolog.Logger

	cfgMu sync.RWMutex
	cfg   session.Config

	// set by ingestion, read by egestion
	inputDone chan struct{}
	ingestErr chan error
	callerErr chan error

	framesIn  atomic.Uint64
	framesOut atomic.Uint64
	finals    atomic.Uint64
	bytesOut  atomic.Uint64
	lastSend  time.Time

	// sendErr is the caller transport error that ended the session, if any.
	sendErr error
}

// New creates a bridge for one caller stream.
func New(stream Stream, backend stt.Backend, opts ...Option) *Bridge {
	b := &Bridge{
		stream:      stream,
		backend:     backend,
		limits:      DefaultLimits(),
		metrics:     metrics.DefaultMetrics,
		validator:   schema.New(),
		defaultRate: session.DefaultSampleRateHz,
		lifecycle:   session.NewLifecycle(""),
		startedAt:   time.Now(),
		inputDone:   make(chan struct{}),
		ingestErr:   make(chan error, 1),
		callerErr:   make(chan error, 1),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.buffer = NewBuffer(b.limits.BufferFrames)
	b.logger = logging.WithComponent("bridge")
	return b
}

// State returns the session state.
func (b *Bridge) State() session.State {
	return b.lifecycle.State()
}

// SessionID returns the session id, empty until the config is known.
func (b *Bridge) SessionID() string {
	return b.lifecycle.SessionId()
}

// Info returns a snapshot of the session.
func (b *Bridge) Info() Info {
	b.cfgMu.RLock()
	cfg := b.cfg
	b.cfgMu.RUnlock()
	return Info{
		SessionID:    b.lifecycle.SessionId(),
		State:        b.lifecycle.State().String(),
		Provider:     b.backend.Name(),
		StartedAt:    b.startedAt,
		SampleRateHz: cfg.SampleRateHz,
		FramesIn:     b.framesIn.Load(),
		FramesOut:    b.framesOut.Load(),
		Finals:       b.finals.Load(),
	}
}

// Run drives the session to CLOSED or FAILED. It returns nil unless the
// caller cancelled or a response could not be sent, in which case it returns
// that error. Backend failures are reported to the caller as one error
// response, not returned.
func (b *Bridge) Run() error {
	ctx := b.stream.Context()
	b.metrics.RecordSessionStart()
	defer func() {
		b.metrics.RecordSessionEnd(b.lifecycle.State().String(), time.Since(b.startedAt).Seconds())
	}()

	first, err := b.stream.Recv()
	if err != nil {
		if errors.Is(err, io.EOF) {
			b.lifecycle.Close("caller closed before sending anything")
			b.logger.Info().Msg("Caller closed stream without sending a message")
			return nil
		}
		return b.cancelled(ctx, err)
	}

	cfg, pending, ended := b.configFrom(first)
	b.cfgMu.Lock()
	b.cfg = cfg
	b.cfgMu.Unlock()
	b.logger = logging.WithBackend(cfg.SessionID, b.backend.Name())
	if err := b.lifecycle.SetSessionId(cfg.SessionID); err != nil {
		b.logger.Warn().Err(err).Msg("Keeping generated session id")
	}

	if err := b.validator.ValidateConfig(cfg); err != nil {
		b.metrics.RecordSessionRejected("invalid_config")
		b.fail(ctx, fmt.Sprintf("invalid config: %v", err))
		return b.sendErr
	}

	// log-only publishers go through the queue too, so events are still logged
	if b.publisher != nil {
		b.events = newEventQueue(b.publisher, b.metrics, b.logger)
		defer b.events.close(publishTimeout)
	}

	connectStart := time.Now()
	conn, err := b.backend.Connect(ctx, cfg)
	b.metrics.RecordBackendConnect(b.backend.Name(), time.Since(connectStart).Seconds())
	if err != nil {
		if ctx.Err() != nil {
			return b.cancelled(ctx, ctx.Err())
		}
		b.metrics.RecordBackendError(b.backend.Name(), "connect")
		b.fail(ctx, fmt.Sprintf("backend connection failed: %v", err))
		return b.sendErr
	}
	defer conn.Close()

	if err := b.lifecycle.Configure(); err != nil {
		return b.cancelled(ctx, err)
	}
	b.logger.Info().
		Int32("sampleRateHz", cfg.SampleRateHz).
		Int32("channels", cfg.Channels).
		Str("encoding", cfg.Encoding).
		Msg("Session configured")

	if err := b.lifecycle.StartStreaming(); err != nil {
		return b.cancelled(ctx, err)
	}

	if pending != nil {
		b.enqueue(ctx, pending)
	}

	ingestCtx, stopIngest := context.WithCancel(ctx)
	defer stopIngest()
	if ended {
		close(b.inputDone)
	} else {
		go b.ingest(ingestCtx)
	}

	if err := b.egest(ctx, conn); err != nil {
		return err
	}
	return b.sendErr
}

// configFrom derives the session config from the first caller message. A
// missing config is synthesised; a leading audio chunk becomes the first frame.
func (b *Bridge) configFrom(first *pb.STTRequest) (cfg session.Config, pending []byte, ended bool) {
	if c := first.GetConfig(); c != nil {
		cfg = session.Config{
			SessionID:    c.GetSessionId(),
			SampleRateHz: c.GetSampleRateHz(),
			Channels:     c.GetChannels(),
			Encoding:     c.GetEncoding(),
		}
		return cfg.WithDefaults(b.defaultRate), nil, false
	}

	cfg = session.DefaultConfig(b.defaultRate)
	switch {
	case first.GetAudio() != nil:
		pending = first.GetAudio().GetAudio()
	case first.GetEnd() != nil:
		ended = true
	}
	b.logger.Debug().Str("sessionId", cfg.SessionID).Msg("No config from caller, using defaults")
	return cfg, pending, ended
}

// ingest reads caller messages until end of input or a caller error.
func (b *Bridge) ingest(ctx context.Context) {
	for {
		req, err := b.stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				close(b.inputDone)
				return
			}
			b.callerErr <- err
			return
		}

		switch {
		case req.GetAudio() != nil:
			if err := b.enqueue(ctx, req.GetAudio().GetAudio()); err != nil {
				if errors.Is(err, ErrBackpressure) {
					b.ingestErr <- err
				}
				return
			}
		case req.GetEnd() != nil:
			close(b.inputDone)
			return
		case req.GetConfig() != nil:
			b.logger.Warn().Msg("Ignoring config sent after the session started")
		default:
			b.logger.Debug().Msg("Ignoring empty caller message")
		}
	}
}

func (b *Bridge) enqueue(ctx context.Context, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	err := b.buffer.Put(ctx, data, b.limits.EnqueueTimeout, b.limits.EnqueueCeiling, func(waited time.Duration) {
		b.logger.Debug().Dur("waited", waited).Msg("Audio buffer full, waiting")
	})
	if err != nil {
		return err
	}
	b.framesIn.Add(1)
	b.metrics.RecordAudioReceived(len(data))
	b.metrics.RecordBufferDepth(b.buffer.Len())
	return nil
}

func (b *Bridge) inputEnded() bool {
	select {
	case <-b.inputDone:
		return true
	default:
		return false
	}
}

// egest moves audio to the backend and results to the caller until the
// session is terminal.
func (b *Bridge) egest(ctx context.Context, conn stt.Conn) error {
	var (
		finished      bool
		drainDeadline time.Time
	)

	for !b.lifecycle.IsTerminal() {
		select {
		case err := <-b.callerErr:
			return b.cancelled(ctx, err)
		case err := <-b.ingestErr:
			b.metrics.RecordBackpressure()
			b.fail(ctx, fmt.Sprintf("backend not keeping up: %v", err))
			return nil
		default:
		}
		if ctx.Err() != nil {
			return b.cancelled(ctx, ctx.Err())
		}

		ended := b.inputEnded()
		if ended && b.lifecycle.State() == session.StateStreaming {
			_ = b.lifecycle.Drain()
			drainDeadline = time.Now().Add(b.limits.DrainTimeout)
			b.logger.Info().Int("buffered", b.buffer.Len()).Msg("Caller ended input, draining")
		}
		if !drainDeadline.IsZero() && time.Now().After(drainDeadline) {
			b.close(fmt.Sprintf("drain timeout after %s", b.limits.DrainTimeout))
			return nil
		}

		sent := false
		if !finished {
			wait := b.limits.AudioPoll
			if ended {
				wait = 0
			}
			if frame, ok := b.buffer.Get(ctx, wait); ok {
				if err := conn.SendAudio(ctx, frame.Data); err != nil {
					return b.backendFailed(ctx, err, ended)
				}
				sent = true
				b.lastSend = time.Now()
				b.framesOut.Add(1)
				b.bytesOut.Add(uint64(len(frame.Data)))
				b.metrics.RecordAudioSent()
			} else if ended && b.buffer.Len() == 0 {
				if err := conn.Finish(ctx); err != nil {
					return b.backendFailed(ctx, err, ended)
				}
				finished = true
				b.logger.Debug().Uint64("frames", b.framesOut.Load()).Msg("Sent end of stream to backend")
			}
		}

		poll := b.limits.EventPoll
		if sent {
			poll = 0
		}
		ev, err := conn.Poll(ctx, poll)
		switch {
		case err == nil:
			b.handleEvent(ctx, ev)
		case errors.Is(err, stt.ErrNoData):
		default:
			return b.backendFailed(ctx, err, ended)
		}
	}
	return nil
}

// backendFailed ends the session after a backend send or poll error.
func (b *Bridge) backendFailed(ctx context.Context, err error, ended bool) error {
	if ctx.Err() != nil {
		return b.cancelled(ctx, ctx.Err())
	}
	if errors.Is(err, stt.ErrClosed) {
		if ended {
			b.close("backend closed after end of input")
			return nil
		}
		if b.limits.BackendLossIsError {
			b.metrics.RecordBackendError(b.backend.Name(), "closed")
			b.fail(ctx, "backend closed the stream unexpectedly")
			return nil
		}
		b.close("backend closed the stream")
		return nil
	}
	b.metrics.RecordBackendError(b.backend.Name(), "io")
	b.fail(ctx, fmt.Sprintf("backend error: %v", err))
	return nil
}

func (b *Bridge) handleEvent(ctx context.Context, ev transcript.Event) {
	switch ev.Kind {
	case transcript.KindFinal:
		if !ev.Forwardable() {
			b.metrics.RecordDiscarded("empty_final")
			b.logger.Debug().Msg("Discarding final with empty text")
			return
		}
		if !b.send(ctx, pb.FinalResponse(ev.Text, float32(ev.Confidence))) {
			return
		}
		seq := int(b.finals.Add(1))
		b.metrics.RecordFinalTranscript()
		if !b.lastSend.IsZero() {
			b.metrics.RecordFinalLatency(time.Since(b.lastSend).Seconds())
		}
		b.logger.Info().Str("text", ev.Text).Float64("confidence", ev.Confidence).Msg("Final transcript")
		b.publishFinal(ev, seq)
	case transcript.KindPartial:
		b.metrics.RecordPartialTranscript()
		// vosk sends an empty partial on every silent chunk
		if strings.TrimSpace(ev.Text) != "" {
			b.publishPartial(ev)
		}
	case transcript.KindEmpty:
		b.metrics.RecordDiscarded("empty")
	case transcript.KindMalformed:
		b.metrics.RecordDiscarded("malformed")
		b.logger.Warn().Bytes("raw", ev.Raw).Msg("Discarding malformed backend message")
	}
}

// send writes one response unless the session is terminal or the caller gone.
// A failed write fails the session and is kept in sendErr for Run to return.
func (b *Bridge) send(ctx context.Context, resp *pb.STTResponse) bool {
	if b.lifecycle.IsTerminal() || ctx.Err() != nil {
		return false
	}
	if err := b.stream.Send(resp); err != nil {
		b.sendErr = b.cancelled(ctx, err)
		return false
	}
	return true
}

// fail sends one error response, if the caller can still take it, and fails
// the session.
func (b *Bridge) fail(ctx context.Context, reason string) {
	b.send(ctx, pb.ErrorResponse(reason))
	if b.lifecycle.Fail(reason) {
		dropped := b.buffer.Discard()
		b.logger.Error().Str("reason", reason).Int("discardedFrames", dropped).Msg("Session failed")
	}
}

func (b *Bridge) close(reason string) {
	if b.lifecycle.Close(reason) {
		b.logger.Info().
			Str("reason", reason).
			Uint64("framesForwarded", b.framesOut.Load()).
			Uint64("finals", b.finals.Load()).
			Msg("Session closed")
	}
}

// cancelled fails the session without a response: the caller is gone.
func (b *Bridge) cancelled(ctx context.Context, err error) error {
	if b.lifecycle.Fail("caller cancelled") {
		dropped := b.buffer.Discard()
		b.logger.Info().Err(err).Int("discardedFrames", dropped).Msg("Caller cancelled session")
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (b *Bridge) publishPartial(ev transcript.Event) {
	if b.events == nil {
		return
	}
	b.events.offer(models.TranscriptPartial{
		EventType: models.EventTypePartial,
		SessionID: b.lifecycle.SessionId(),
		Provider:  b.backend.Name(),
		Timestamp: time.Now().UnixMilli(),
		Text:      ev.Text,
	}, "partial")
}

func (b *Bridge) publishFinal(ev transcript.Event, seq int) {
	if b.events == nil {
		return
	}
	b.events.offer(models.TranscriptFinal{
		EventType:     models.EventTypeFinal,
		SessionID:     b.lifecycle.SessionId(),
		Provider:      b.backend.Name(),
		Timestamp:     time.Now().UnixMilli(),
		Sequence:      seq,
		Text:          ev.Text,
		Confidence:    ev.Confidence,
		AudioOffsetMs: b.audioOffsetMs(),
	}, "final")
}

// audioOffsetMs converts forwarded PCM16 bytes to milliseconds of audio.
func (b *Bridge) audioOffsetMs() int64 {
	b.cfgMu.RLock()
	cfg := b.cfg
	b.cfgMu.RUnlock()
	bytesPerSecond := int64(cfg.SampleRateHz) * int64(cfg.Channels) * 2
	if bytesPerSecond == 0 {
		return 0
	}
	return int64(b.bytesOut.Load()) * 1000 / bytesPerSecond
}
