package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"stt-gateway/internal/observability/logging"
	"stt-gateway/internal/service/session"
	pb "stt-gateway/proto"
)

// SessionConfig is the Config message the client opens its session with.
type SessionConfig struct {
	SessionID    string // generated when empty
	SampleRateHz int32
	Channels     int32
	// DrainTimeout bounds the wait for the last transcripts after
	// EndOfStream. Zero uses DefaultDrainTimeout.
	DrainTimeout time.Duration
}

const (
	DefaultDrainTimeout = 15 * time.Second
	frameQueue          = 64
)

// RenderFunc is called for every response the gateway sends.
type RenderFunc func(*pb.STTResponse)

// Client drives one SpeechToText session from a Source.
type Client struct {
	stt    pb.SpeechToTextClient
	logger zerolog.Logger
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{
		stt:    pb.NewSpeechToTextClient(cc),
		logger: logging.WithComponent("capture"),
	}
}

// Run sends Config, then every frame src produces, then exactly one
// EndOfStream, while rendering responses as they arrive. Cancelling ctx is
// the stop signal: capture stops, EndOfStream is sent and Run waits for the
// gateway to close the session. Run returns nil when the session ended
// normally, whether or not it carried an Error response.
func (c *Client) Run(ctx context.Context, src Source, cfg SessionConfig, render RenderFunc) error {
	if cfg.SessionID == "" {
		cfg.SessionID = session.NewID()
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = DefaultDrainTimeout
	}
	logger := c.logger.With().Str("sessionId", cfg.SessionID).Logger()

	// the stream outlives the stop signal so the last transcripts arrive
	streamCtx, cancelStream := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelStream()

	stream, err := c.stt.StreamTranscribe(streamCtx)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	captureCtx, stopCapture := context.WithCancel(gctx)
	defer stopCapture()

	frames := make(chan []byte, frameQueue)
	var drainTimer *time.Timer

	g.Go(func() error {
		defer close(frames)
		if err := src.Start(captureCtx, frames); err != nil {
			return fmt.Errorf("capture: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		drain := func() {
			stopCapture()
			for range frames {
			}
		}

		err := stream.Send(pb.ConfigRequest(&pb.STTConfig{
			SessionId:    cfg.SessionID,
			SampleRateHz: cfg.SampleRateHz,
			Channels:     cfg.Channels,
			Encoding:     session.DefaultEncoding,
		}))
		if err != nil {
			// the receive side reports why the stream broke
			drain()
			return nil
		}
		logger.Info().Int32("sampleRateHz", cfg.SampleRateHz).Msg("Session config sent")

		var sent int
		for frame := range frames {
			if err := stream.Send(pb.AudioRequest(frame)); err != nil {
				drain()
				return nil
			}
			sent++
		}

		logger.Info().Int("frames", sent).Msg("Sending end of stream")
		_ = stream.Send(pb.EndRequest())
		_ = stream.CloseSend()
		drainTimer = time.AfterFunc(cfg.DrainTimeout, cancelStream)
		return nil
	})

	g.Go(func() error {
		defer stopCapture()
		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				logger.Info().Msg("Session closed by gateway")
				return nil
			}
			if err != nil {
				return fmt.Errorf("receive: %w", err)
			}
			if render != nil {
				render(resp)
			}
		}
	})

	err = g.Wait()
	if drainTimer != nil {
		drainTimer.Stop()
	}
	return err
}
