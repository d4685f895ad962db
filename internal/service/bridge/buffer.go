package bridge

import (
	"context"
	"errors"
	"time"

	"stt-gateway/internal/service/session"
)

// ErrBackpressure is returned by Buffer.Put when the buffer stayed full for
// the whole ceiling.
var ErrBackpressure = errors.New("bridge: audio buffer full")

// Buffer is the bounded FIFO between ingestion and egestion of one session.
// Put is called by one producer, Get by one consumer.
type Buffer struct {
	frames chan session.AudioFrame
	seq    uint64
}

// NewBuffer creates a buffer holding up to capacity frames.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{frames: make(chan session.AudioFrame, capacity)}
}

// Put enqueues data, waiting in steps of step while the buffer is full. It
// never drops audio: after ceiling it gives up with ErrBackpressure. onWait
// is called after each step that found the buffer still full.
func (b *Buffer) Put(ctx context.Context, data []byte, step, ceiling time.Duration, onWait func(waited time.Duration)) error {
	b.seq++
	frame := session.AudioFrame{Seq: b.seq, Data: data}

	select {
	case b.frames <- frame:
		return nil
	default:
	}

	if step <= 0 {
		step = ceiling
	}
	start := time.Now()
	timer := time.NewTimer(step)
	defer timer.Stop()

	for {
		select {
		case b.frames <- frame:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			waited := time.Since(start)
			if waited >= ceiling {
				return ErrBackpressure
			}
			if onWait != nil {
				onWait(waited)
			}
			timer.Reset(step)
		}
	}
}

// Get dequeues the oldest frame, waiting up to timeout. A zero timeout
// checks without waiting.
func (b *Buffer) Get(ctx context.Context, timeout time.Duration) (session.AudioFrame, bool) {
	select {
	case f := <-b.frames:
		return f, true
	default:
	}
	if timeout <= 0 {
		return session.AudioFrame{}, false
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case f := <-b.frames:
		return f, true
	case <-timer.C:
	case <-ctx.Done():
	}
	return session.AudioFrame{}, false
}

// Len returns the number of frames waiting.
func (b *Buffer) Len() int {
	return len(b.frames)
}

// Discard drops every waiting frame and returns how many were dropped.
func (b *Buffer) Discard() int {
	n := 0
	for {
		select {
		case <-b.frames:
			n++
		default:
			return n
		}
	}
}
