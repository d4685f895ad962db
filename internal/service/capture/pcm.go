package capture

import (
	"encoding/binary"
)

// Float32ToPCM16 scales samples in [-1, 1] to 16-bit PCM. Out of range
// samples are clamped instead of wrapping.
func Float32ToPCM16(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		switch {
		case s > 1:
			s = 1
		case s < -1:
			s = -1
		}
		out[i] = int16(s * 32767)
	}
	return out
}

// Int16ToBytes encodes samples as little-endian bytes.
func Int16ToBytes(samples []int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}
