package capture

import (
	"bytes"
	"testing"
)

func TestFloat32ToPCM16(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want int16
	}{
		{"silence", 0, 0},
		{"full scale positive", 1, 32767},
		{"full scale negative", -1, -32767},
		{"half", 0.5, 16383},
		{"clamped high", 1.7, 32767},
		{"clamped low", -3, -32767},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Float32ToPCM16([]float32{tt.in})
			if got[0] != tt.want {
				t.Errorf("Float32ToPCM16(%v) = %d, want %d", tt.in, got[0], tt.want)
			}
		})
	}
}

func TestInt16ToBytes_LittleEndian(t *testing.T) {
	got := Int16ToBytes([]int16{1, -1, 0x1234})
	want := []byte{0x01, 0x00, 0xff, 0xff, 0x34, 0x12}
	if !bytes.Equal(got, want) {
		t.Errorf("Int16ToBytes = %x, want %x", got, want)
	}
}

func TestInt16ToBytes_Empty(t *testing.T) {
	if got := Int16ToBytes(nil); len(got) != 0 {
		t.Errorf("expected no bytes, got %d", len(got))
	}
}
