package audio

import (
	"math"
	"testing"
	"time"
)

func TestDecodePCM16Mono(t *testing.T) {
	// Samples: 0, 16384, -16384, -32768
	data := []byte{0x00, 0x00, 0x00, 0x40, 0x00, 0xC0, 0x00, 0x80}
	b := DecodePCM16(data, 24000, 1)
	if b.FrameCount() != 4 {
		t.Fatalf("frames = %d, want 4", b.FrameCount())
	}
	want := []float32{0, 0.5, -0.5, -1.0}
	for i, w := range want {
		if got := b.Channel(0)[i]; got != w {
			t.Errorf("sample %d = %v, want %v", i, got, w)
		}
	}
}

func TestDecodePCM16OddLength(t *testing.T) {
	data := []byte{0x00, 0x40, 0xFF} // one full sample plus a stray byte
	b := DecodePCM16(data, 24000, 1)
	if b.FrameCount() != 1 {
		t.Errorf("frames = %d, want 1 (trailing byte dropped)", b.FrameCount())
	}
}

func TestDecodePCM16PartialFrame(t *testing.T) {
	// Three samples of stereo data is one full frame plus half a frame.
	data := []byte{0x01, 0x00, 0x02, 0x00, 0x03, 0x00}
	b := DecodePCM16(data, 24000, 2)
	if b.FrameCount() != 1 {
		t.Errorf("frames = %d, want 1 (partial frame dropped)", b.FrameCount())
	}
	if b.Channels != 2 {
		t.Errorf("channels = %d, want 2", b.Channels)
	}
}

func TestDecodePCM16Empty(t *testing.T) {
	for _, data := range [][]byte{nil, {}, {0x7F}} {
		b := DecodePCM16(data, 24000, 1)
		if b.FrameCount() != 0 {
			t.Errorf("frames = %d for %d bytes, want 0", b.FrameCount(), len(data))
		}
	}
}

func TestPCM16RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		channels int
		data     []byte
	}{
		{name: "mono", channels: 1, data: []byte{0x00, 0x80, 0xFF, 0x7F, 0x34, 0x12, 0xCC, 0xED}},
		{name: "stereo", channels: 2, data: []byte{0x00, 0x80, 0xFF, 0x7F, 0x34, 0x12, 0xCC, 0xED}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded := DecodePCM16(tt.data, 24000, tt.channels)
			encoded := EncodePCM16(decoded)
			if len(encoded) != len(tt.data) {
				t.Fatalf("len = %d, want %d", len(encoded), len(tt.data))
			}
			for i := 0; i < len(tt.data); i += 2 {
				orig := int16(tt.data[i]) | int16(tt.data[i+1])<<8
				got := int16(encoded[i]) | int16(encoded[i+1])<<8
				if diff := math.Abs(float64(orig) - float64(got)); diff > 1 {
					t.Errorf("sample %d: %d -> %d", i/2, orig, got)
				}
			}
		})
	}
}

func TestEncodePCM16Clamps(t *testing.T) {
	b := Buffer{SampleRate: 24000, Channels: 1, data: [][]float32{{1.5, -1.5}}}
	out := EncodePCM16(b)
	hi := int16(out[0]) | int16(out[1])<<8
	lo := int16(out[2]) | int16(out[3])<<8
	if hi != 32767 {
		t.Errorf("over-range sample = %d, want 32767", hi)
	}
	if lo != -32768 {
		t.Errorf("under-range sample = %d, want -32768", lo)
	}
}

func TestBufferDuration(t *testing.T) {
	b := SineTone(440, 24000, 500*time.Millisecond, 0.2)
	if got := b.Duration(); got != 500*time.Millisecond {
		t.Errorf("duration = %v, want 500ms", got)
	}
}

func TestRMSAndPeak(t *testing.T) {
	if got := RMSEnergy(nil); got != 0 {
		t.Errorf("RMS of empty = %v, want 0", got)
	}
	tone := EncodePCM16(SineTone(440, 24000, 100*time.Millisecond, 0.5))
	rms := RMSEnergy(tone)
	// A sine at amplitude 0.5 has RMS 0.5/sqrt(2).
	if want := 0.5 / math.Sqrt2; math.Abs(rms-want) > 0.01 {
		t.Errorf("RMS = %v, want ~%v", rms, want)
	}
	peak := PeakAmplitude(tone)
	if math.Abs(peak-0.5) > 0.01 {
		t.Errorf("peak = %v, want ~0.5", peak)
	}
	silence := make([]byte, 480)
	if got := PeakAmplitude(silence); got != 0 {
		t.Errorf("peak of silence = %v, want 0", got)
	}
}
