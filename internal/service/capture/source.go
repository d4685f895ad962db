// Package capture produces PCM16 audio frames on the caller side and drives
// a SpeechToText session with them.
package capture

import (
	"context"
	"time"
)

// Defaults shared by every source.
const (
	DefaultSampleRate      = 16000
	DefaultChannels        = 1
	DefaultFramesPerBuffer = 1024
)

// Source produces fixed-size PCM16 frames until it is stopped or exhausted.
//
// Start blocks while capturing and returns nil when ctx is cancelled or the
// source has no more audio. Frames are never shared: the receiver owns each
// slice it gets.
type Source interface {
	Start(ctx context.Context, frames chan<- []byte) error
	Close() error
}

// frameDuration is the playback time of one frame.
func frameDuration(framesPerBuffer, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(framesPerBuffer) * time.Second / time.Duration(sampleRate)
}

// Deliver hands frame to frames unless ctx ends first.
func Deliver(ctx context.Context, frames chan<- []byte, frame []byte) bool {
	select {
	case frames <- frame:
		return true
	case <-ctx.Done():
		return false
	}
}
