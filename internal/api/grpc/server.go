// Package grpcapi exposes the SpeechToText gRPC service. Each stream gets
// its own bridge; the server bounds how many run at once and tracks them so
// shutdown can cancel whatever outlives the grace period.
package grpcapi

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"stt-gateway/internal/events"
	"stt-gateway/internal/observability/logging"
	"stt-gateway/internal/observability/metrics"
	"stt-gateway/internal/service/bridge"
	"stt-gateway/internal/service/stt"
	pb "stt-gateway/proto"
)

// Options configure the server.
type Options struct {
	MaxConcurrent     int // sessions bridged at once; extra streams wait
	Limits            bridge.Limits
	DefaultSampleRate int32
	Metrics           *metrics.Metrics
}

// DefaultOptions returns defaults matching the process configuration.
func DefaultOptions() Options {
	return Options{
		MaxConcurrent: 10,
		Limits:        bridge.DefaultLimits(),
		Metrics:       metrics.DefaultMetrics,
	}
}

type Server struct {
	pb.UnimplementedSpeechToTextServer

	backend   stt.Backend
	publisher *events.Publisher
	opts      Options
	workers   *semaphore.Weighted
	logger    zerolog.Logger

	closing atomic.Bool

	mu       sync.Mutex
	sessions map[*liveSession]struct{}
}

type liveSession struct {
	bridge *bridge.Bridge
	cancel context.CancelFunc
}

// NewServer creates the service without registering it.
func NewServer(backend stt.Backend, publisher *events.Publisher, opts Options) *Server {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultOptions().MaxConcurrent
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.DefaultMetrics
	}
	return &Server{
		backend:   backend,
		publisher: publisher,
		opts:      opts,
		workers:   semaphore.NewWeighted(int64(opts.MaxConcurrent)),
		logger:    logging.WithComponent("grpc"),
		sessions:  make(map[*liveSession]struct{}),
	}
}

// Register creates the service and registers it on g.
func Register(g *grpc.Server, backend stt.Backend, publisher *events.Publisher, opts Options) *Server {
	s := NewServer(backend, publisher, opts)
	pb.RegisterSpeechToTextServer(g, s)
	return s
}

// sessionStream overrides the stream context so the server can cancel a
// session on shutdown.
type sessionStream struct {
	pb.SpeechToText_StreamTranscribeServer
	ctx context.Context
}

func (s *sessionStream) Context() context.Context { return s.ctx }

// StreamTranscribe bridges one caller stream to the backend.
func (s *Server) StreamTranscribe(stream pb.SpeechToText_StreamTranscribeServer) error {
	if s.closing.Load() {
		s.opts.Metrics.RecordSessionRejected("shutting_down")
		return status.Error(codes.Unavailable, "server is shutting down")
	}

	ctx, cancel := context.WithCancel(stream.Context())
	defer cancel()

	s.opts.Metrics.RecordWaiting(1)
	err := s.workers.Acquire(ctx, 1)
	s.opts.Metrics.RecordWaiting(-1)
	if err != nil {
		return toStatus(err)
	}
	defer s.workers.Release(1)

	b := bridge.New(&sessionStream{SpeechToText_StreamTranscribeServer: stream, ctx: ctx}, s.backend,
		bridge.WithLimits(s.opts.Limits),
		bridge.WithPublisher(s.publisher),
		bridge.WithMetrics(s.opts.Metrics),
		bridge.WithDefaultSampleRate(s.opts.DefaultSampleRate),
	)
	live := &liveSession{bridge: b, cancel: cancel}
	s.track(live)
	defer s.untrack(live)

	return toStatus(b.Run())
}

// toStatus keeps status errors from the transport and maps context errors
// to Canceled or DeadlineExceeded.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.FromContextError(err).Err()
}

func (s *Server) track(l *liveSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[l] = struct{}{}
}

func (s *Server) untrack(l *liveSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, l)
}

// Sessions returns a snapshot of every live session.
func (s *Server) Sessions() []bridge.Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]bridge.Info, 0, len(s.sessions))
	for l := range s.sessions {
		out = append(out, l.bridge.Info())
	}
	return out
}

// CancelAll cancels every live session and returns how many there were.
func (s *Server) CancelAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for l := range s.sessions {
		l.cancel()
	}
	return len(s.sessions)
}

// Shutdown stops accepting sessions, gives live ones up to grace to finish,
// then cancels the rest and stops g. It reports whether sessions had to be
// cancelled.
func (s *Server) Shutdown(g *grpc.Server, grace time.Duration) bool {
	s.closing.Store(true)

	done := make(chan struct{})
	go func() {
		g.GracefulStop()
		close(done)
	}()

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-done:
		s.logger.Info().Msg("All sessions finished within the grace period")
		return false
	case <-timer.C:
	}

	n := s.CancelAll()
	s.logger.Warn().Int("sessions", n).Dur("grace", grace).Msg("Grace period elapsed, cancelling sessions")
	g.Stop()
	<-done
	return true
}
