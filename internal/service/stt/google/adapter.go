// Package google provides a Google Cloud Speech-to-Text backend.
package google

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"stt-gateway/internal/observability/logging"
	"stt-gateway/internal/service/session"
	"stt-gateway/internal/service/stt"
	"stt-gateway/internal/service/transcript"
)

// Name is the provider name used in config and metrics.
const Name = "google"

// Config holds Google recognition settings.
type Config struct {
	LanguageCode    string
	SampleRateHz    int32
	InterimResults  bool
	AudioEncoding   string
	CredentialsFile string
}

// DefaultConfig returns defaults matching the gateway's PCM16 mono input.
func DefaultConfig() Config {
	return Config{
		LanguageCode:   "en-US",
		SampleRateHz:   session.DefaultSampleRateHz,
		InterimResults: true,
		AudioEncoding:  "LINEAR16",
	}
}

// parseAudioEncoding maps an encoding name to the API enum, defaulting to
// LINEAR16. Names are matched exactly.
func parseAudioEncoding(s string) speechpb.RecognitionConfig_AudioEncoding {
	if v, ok := speechpb.RecognitionConfig_AudioEncoding_value[s]; ok && v != int32(speechpb.RecognitionConfig_ENCODING_UNSPECIFIED) {
		return speechpb.RecognitionConfig_AudioEncoding(v)
	}
	return speechpb.RecognitionConfig_LINEAR16
}

// Backend opens one StreamingRecognize call per session over a shared client.
type Backend struct {
	client *speech.Client
	cfg    Config
}

// New creates a Google STT backend. Without a credentials file the client
// uses GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, cfg Config) (*Backend, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	c, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create speech client: %w", err)
	}
	return &Backend{client: c, cfg: cfg}, nil
}

// Name implements stt.Backend.
func (b *Backend) Name() string { return Name }

// Close releases the shared client.
func (b *Backend) Close() error {
	return b.client.Close()
}

func (b *Backend) streamingConfig(cfg session.Config) *speechpb.StreamingRecognizeRequest {
	rate := cfg.SampleRateHz
	if rate == 0 {
		rate = b.cfg.SampleRateHz
	}
	encoding := b.cfg.AudioEncoding
	if cfg.Encoding != "" {
		encoding = cfg.Encoding
	}
	return &speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:          parseAudioEncoding(encoding),
					SampleRateHertz:   rate,
					AudioChannelCount: cfg.Channels,
					LanguageCode:      b.cfg.LanguageCode,
				},
				InterimResults: b.cfg.InterimResults,
			},
		},
	}
}

// Connect starts a streaming recognition call and sends the config.
func (b *Backend) Connect(ctx context.Context, cfg session.Config) (stt.Conn, error) {
	streamCtx, cancel := context.WithCancel(ctx)
	stream, err := b.client.StreamingRecognize(streamCtx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("start streaming recognize: %w", err)
	}
	if err := stream.Send(b.streamingConfig(cfg)); err != nil {
		cancel()
		return nil, fmt.Errorf("send streaming config: %w", err)
	}

	c := &conn{
		stream: stream,
		cancel: cancel,
		events: make(chan transcript.Event, 64),
	}
	go c.listen(logging.WithBackend(cfg.SessionID, Name))
	return c, nil
}

type conn struct {
	stream speechpb.Speech_StreamingRecognizeClient
	cancel context.CancelFunc
	events chan transcript.Event

	once    sync.Once
	errMu   sync.Mutex
	recvErr error
}

// listen receives results and maps them to transcript events until the
// stream ends. Should be called in a separate goroutine after Connect.
func (c *conn) listen(logger zerolog.Logger) {
	defer close(c.events)
	for {
		resp, err := c.stream.Recv()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.errMu.Lock()
				c.recvErr = fmt.Errorf("google recognize: %w", err)
				c.errMu.Unlock()
			}
			logger.Debug().Err(err).Msg("Google stream ended")
			return
		}
		if st := resp.GetError(); st != nil {
			c.errMu.Lock()
			c.recvErr = fmt.Errorf("google recognize: %s", st.GetMessage())
			c.errMu.Unlock()
			return
		}

		for _, r := range resp.Results {
			if len(r.Alternatives) == 0 {
				continue
			}
			alt := r.Alternatives[0]
			if r.IsFinal {
				c.events <- transcript.Final(alt.Transcript, float64(alt.Confidence))
			} else {
				c.events <- transcript.Partial(alt.Transcript)
			}
		}
	}
}

func (c *conn) closeErr() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.recvErr
}

// SendAudio sends audio bytes to Google Speech-to-Text.
func (c *conn) SendAudio(ctx context.Context, audio []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
			AudioContent: audio,
		},
	})
}

// Finish half-closes the stream; Google then flushes its last result.
func (c *conn) Finish(ctx context.Context) error {
	return c.stream.CloseSend()
}

// Poll returns the next recognition event.
func (c *conn) Poll(ctx context.Context, timeout time.Duration) (transcript.Event, error) {
	return stt.Receive(ctx, c.events, timeout, c.closeErr)
}

// Close cancels the call.
func (c *conn) Close() error {
	c.once.Do(func() {
		c.cancel()
		// unblock listen if nobody polls any more
		go func() {
			for range c.events {
			}
		}()
	})
	return nil
}
