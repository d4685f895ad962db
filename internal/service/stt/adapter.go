// Package stt defines the contract for speech recognition backends
// (Vosk websocket, Google, mock).
package stt

import (
	"context"
	"errors"
	"time"

	"stt-gateway/internal/service/session"
	"stt-gateway/internal/service/transcript"
)

var (
	// ErrNoData is returned by Conn.Poll when nothing arrived within the timeout.
	ErrNoData = errors.New("stt: no data")
	// ErrClosed is returned by Conn.Poll once the backend closed its stream cleanly.
	ErrClosed = errors.New("stt: backend closed the stream")
)

// Backend opens one streaming connection per session.
type Backend interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// Connect opens the connection and sends the configuration message.
	// No audio may be sent before Connect returns.
	Connect(ctx context.Context, cfg session.Config) (Conn, error)
}

// Conn is one session's connection to the backend. SendAudio and Finish are
// called from a single goroutine; Poll from the same goroutine; Close may be
// called from anywhere and is idempotent.
type Conn interface {
	// SendAudio sends raw PCM16 bytes.
	SendAudio(ctx context.Context, audio []byte) error

	// Finish signals end of audio so the backend flushes its last result and
	// closes the stream.
	Finish(ctx context.Context) error

	// Poll waits up to timeout for the next decoded event. It returns
	// ErrNoData on timeout, ErrClosed after a clean backend close, and any
	// other error for connection or protocol failures. A zero timeout
	// checks without waiting.
	Poll(ctx context.Context, timeout time.Duration) (transcript.Event, error)

	// Close releases the connection.
	Close() error
}

// Receive waits up to timeout for an event from events. It implements the
// Poll contract for connectors that pump backend messages into a channel
// from a reader goroutine; closeErr is consulted once events is closed.
func Receive(ctx context.Context, events <-chan transcript.Event, timeout time.Duration, closeErr func() error) (transcript.Event, error) {
	if timeout <= 0 {
		select {
		case ev, ok := <-events:
			return received(ev, ok, closeErr)
		default:
			return transcript.Event{}, ErrNoData
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev, ok := <-events:
		return received(ev, ok, closeErr)
	case <-timer.C:
		return transcript.Event{}, ErrNoData
	case <-ctx.Done():
		return transcript.Event{}, ctx.Err()
	}
}

func received(ev transcript.Event, ok bool, closeErr func() error) (transcript.Event, error) {
	if ok {
		return ev, nil
	}
	if err := closeErr(); err != nil {
		return transcript.Event{}, err
	}
	return transcript.Event{}, ErrClosed
}
