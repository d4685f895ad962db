// Package vosk connects sessions to a Vosk recognition server over websocket.
//
// Protocol: one JSON config message, then binary PCM16 frames, then the text
// message {"eof" : 1}. The server answers with partial and final JSON results
// and closes the socket after the last one.
package vosk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"stt-gateway/internal/observability/logging"
	"stt-gateway/internal/service/session"
	"stt-gateway/internal/service/stt"
	"stt-gateway/internal/service/transcript"
)

// Name is the provider name used in config and metrics.
const Name = "vosk"

// DefaultURI is the websocket address of a local Vosk server.
const DefaultURI = "ws://localhost:2700"

const eofMessage = `{"eof" : 1}`

// eventBuffer bounds decoded results waiting for the session to poll them.
const eventBuffer = 64

// Config holds Vosk connection settings.
type Config struct {
	URI            string
	ConnectTimeout time.Duration
	WriteTimeout   time.Duration
}

// DefaultConfig returns defaults for a local Vosk server.
func DefaultConfig() Config {
	return Config{
		URI:            DefaultURI,
		ConnectTimeout: 10 * time.Second,
		WriteTimeout:   5 * time.Second,
	}
}

// Backend dials one websocket per session.
type Backend struct {
	cfg    Config
	dialer *websocket.Dialer
}

// New creates a Vosk backend.
func New(cfg Config) (*Backend, error) {
	if cfg.URI == "" {
		cfg.URI = DefaultURI
	}
	u, err := url.Parse(cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("invalid vosk uri: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("invalid vosk uri %q: scheme must be ws or wss", cfg.URI)
	}
	return &Backend{
		cfg: cfg,
		dialer: &websocket.Dialer{
			HandshakeTimeout: cfg.ConnectTimeout,
			Proxy:            websocket.DefaultDialer.Proxy,
		},
	}, nil
}

// Name implements stt.Backend.
func (b *Backend) Name() string { return Name }

type configMessage struct {
	Config struct {
		SampleRate int32 `json:"sample_rate"`
	} `json:"config"`
}

// Connect dials the server and sends the config message.
func (b *Backend) Connect(ctx context.Context, cfg session.Config) (stt.Conn, error) {
	dialCtx := ctx
	if b.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, b.cfg.ConnectTimeout)
		defer cancel()
	}

	ws, _, err := b.dialer.DialContext(dialCtx, b.cfg.URI, nil)
	if err != nil {
		return nil, fmt.Errorf("connect vosk %s: %w", b.cfg.URI, err)
	}

	c := &conn{
		ws:           ws,
		writeTimeout: b.cfg.WriteTimeout,
		events:       make(chan transcript.Event, eventBuffer),
		done:         make(chan struct{}),
		logger:       logging.WithBackend(cfg.SessionID, Name),
	}

	var msg configMessage
	msg.Config.SampleRate = cfg.SampleRateHz
	payload, err := json.Marshal(msg)
	if err != nil {
		_ = ws.Close()
		return nil, fmt.Errorf("encode vosk config: %w", err)
	}
	if err := c.write(websocket.TextMessage, payload); err != nil {
		_ = ws.Close()
		return nil, fmt.Errorf("send vosk config: %w", err)
	}

	go c.readLoop()

	c.logger.Debug().
		Str("uri", b.cfg.URI).
		Int32("sampleRateHz", cfg.SampleRateHz).
		Msg("Connected to Vosk")

	return c, nil
}

type conn struct {
	ws           *websocket.Conn
	writeTimeout time.Duration
	logger       zerolog.Logger

	events chan transcript.Event
	done   chan struct{}

	writeMu sync.Mutex
	once    sync.Once

	errMu   sync.Mutex
	readErr error
}

func (c *conn) readLoop() {
	defer close(c.events)
	for {
		messageType, payload, err := c.ws.ReadMessage()
		if err != nil {
			c.setReadErr(classify(err))
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		select {
		case c.events <- transcript.Decode(payload):
		case <-c.done:
			return
		}
	}
}

// classify maps clean closes to nil so Poll reports stt.ErrClosed.
func classify(err error) error {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil
	}
	return fmt.Errorf("vosk connection: %w", err)
}

func (c *conn) setReadErr(err error) {
	c.errMu.Lock()
	c.readErr = err
	c.errMu.Unlock()
}

func (c *conn) closeErr() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.readErr
}

func (c *conn) write(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.writeTimeout > 0 {
		_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	return c.ws.WriteMessage(messageType, data)
}

// SendAudio sends one binary frame.
func (c *conn) SendAudio(ctx context.Context, audio []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.write(websocket.BinaryMessage, audio); err != nil {
		return fmt.Errorf("send audio to vosk: %w", err)
	}
	return nil
}

// Finish sends the end-of-stream marker.
func (c *conn) Finish(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.write(websocket.TextMessage, []byte(eofMessage)); err != nil {
		return fmt.Errorf("send eof to vosk: %w", err)
	}
	return nil
}

// Poll returns the next decoded result.
func (c *conn) Poll(ctx context.Context, timeout time.Duration) (transcript.Event, error) {
	return stt.Receive(ctx, c.events, timeout, c.closeErr)
}

// Close sends a close frame and releases the socket.
func (c *conn) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.ws.Close()
	})
	return err
}
