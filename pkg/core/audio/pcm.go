// Package audio handles the narration pipeline: decoding the raw PCM16LE
// bytes the speech model returns, re-encoding for the output device, and a
// single-slot Player that streams through an ffplay subprocess.
package audio

import (
	"math"
	"time"
)

// Narration audio arrives as 16-bit little-endian mono at 24 kHz.
const (
	DefaultSampleRate = 24000
	DefaultChannels   = 1
)

// Buffer is decoded audio: one float32 slice per channel, samples normalized
// to [-1.0, 1.0).
type Buffer struct {
	SampleRate int
	Channels   int

	data [][]float32
}

// FrameCount returns the number of frames per channel.
func (b Buffer) FrameCount() int {
	if len(b.data) == 0 {
		return 0
	}
	return len(b.data[0])
}

// Duration returns the playback length of the buffer.
func (b Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.FrameCount()) * time.Second / time.Duration(b.SampleRate)
}

// Channel returns the samples for one channel.
func (b Buffer) Channel(i int) []float32 {
	return b.data[i]
}

// DecodePCM16 converts interleaved 16-bit little-endian PCM into a Buffer.
// A trailing odd byte is dropped, as is a trailing partial frame when the
// data is multi-channel. Malformed or empty input yields a zero-frame
// buffer, never an error.
func DecodePCM16(data []byte, sampleRate, channels int) Buffer {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if channels <= 0 {
		channels = DefaultChannels
	}

	samples := len(data) / 2
	frames := samples / channels

	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, frames)
	}
	for f := 0; f < frames; f++ {
		for c := 0; c < channels; c++ {
			i := (f*channels + c) * 2
			sample := int16(data[i]) | int16(data[i+1])<<8
			out[c][f] = float32(sample) / 32768.0
		}
	}
	return Buffer{SampleRate: sampleRate, Channels: channels, data: out}
}

// EncodePCM16 converts a Buffer back to interleaved 16-bit little-endian
// PCM. Samples are clamped to the int16 range.
func EncodePCM16(b Buffer) []byte {
	frames := b.FrameCount()
	channels := len(b.data)
	out := make([]byte, frames*channels*2)
	for f := 0; f < frames; f++ {
		for c := 0; c < channels; c++ {
			v := int(math.Round(float64(b.data[c][f]) * 32768.0))
			if v > 32767 {
				v = 32767
			}
			if v < -32768 {
				v = -32768
			}
			i := (f*channels + c) * 2
			out[i] = byte(v)
			out[i+1] = byte(v >> 8)
		}
	}
	return out
}

// RMSEnergy computes the root-mean-square energy of raw PCM16LE audio.
// Returns a value between 0.0 and 1.0.
func RMSEnergy(pcm []byte) float64 {
	samples := len(pcm) / 2
	if samples == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < len(pcm)-1; i += 2 {
		sample := int16(pcm[i]) | int16(pcm[i+1])<<8
		normalized := float64(sample) / 32768.0
		sum += normalized * normalized
	}
	return math.Sqrt(sum / float64(samples))
}

// PeakAmplitude returns the maximum absolute amplitude in raw PCM16LE audio.
// Returns a value between 0.0 and 1.0.
func PeakAmplitude(pcm []byte) float64 {
	if len(pcm) < 2 {
		return 0
	}
	var maxAbs float64
	for i := 0; i < len(pcm)-1; i += 2 {
		sample := int16(pcm[i]) | int16(pcm[i+1])<<8
		// float64 to avoid overflow when negating -32768
		abs := math.Abs(float64(sample))
		if abs > maxAbs {
			maxAbs = abs
		}
	}
	return maxAbs / 32768.0
}

// SineTone generates a mono test tone as a decoded Buffer.
func SineTone(freqHz, sampleRate int, d time.Duration, amp float64) Buffer {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if amp <= 0 {
		amp = 0.2
	}
	if amp > 1.0 {
		amp = 1.0
	}
	frames := 0
	if freqHz > 0 && d > 0 {
		frames = int(float64(sampleRate) * d.Seconds())
	}
	samples := make([]float32, frames)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		samples[i] = float32(amp * math.Sin(2*math.Pi*float64(freqHz)*t))
	}
	return Buffer{SampleRate: sampleRate, Channels: 1, data: [][]float32{samples}}
}
