package audio

import (
	"context"
	"sync"
	"time"
)

// Sink is the output device the Player streams raw PCM16LE into. The real
// implementation is the ffplay subprocess; tests substitute their own.
type Sink interface {
	// EnsureRunning starts the device if it is not already up.
	EnsureRunning() error
	// Write pushes raw PCM bytes to the device.
	Write(pcm []byte) error
	// Restart drops any device-buffered audio by cycling the device.
	Restart() error
	// Close shuts the device down.
	Close() error
}

// Player streams decoded audio to a Sink in realtime-sized chunks. It holds
// a single playback slot: while narration is speaking, further Play calls
// are ignored until Stop or natural completion.
type Player struct {
	sink Sink
	tick time.Duration

	mu       sync.Mutex
	speaking bool
	cancel   context.CancelFunc
	done     chan struct{}

	errCh chan error
}

// NewPlayer wraps a sink. The tick controls chunk pacing; zero means 20ms.
func NewPlayer(sink Sink, tick time.Duration) *Player {
	if tick <= 0 {
		tick = 20 * time.Millisecond
	}
	return &Player{
		sink:  sink,
		tick:  tick,
		errCh: make(chan error, 1),
	}
}

// Err reports asynchronous sink failures. At most one error is retained;
// later failures during the same playback are dropped.
func (p *Player) Err() <-chan error {
	return p.errCh
}

// Speaking reports whether a playback is in flight.
func (p *Player) Speaking() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speaking
}

// Play starts streaming the buffer and returns immediately. If a playback
// is already in flight the call is a no-op; callers that want to replace
// the narration must Stop first.
func (p *Player) Play(b Buffer) error {
	pcm := EncodePCM16(b)
	if len(pcm) == 0 {
		return nil
	}

	p.mu.Lock()
	if p.speaking {
		p.mu.Unlock()
		return nil
	}
	if err := p.sink.EnsureRunning(); err != nil {
		p.mu.Unlock()
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.speaking = true
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	bytesPerSecond := b.SampleRate * b.Channels * 2
	go p.stream(ctx, pcm, bytesPerSecond, done)
	return nil
}

func (p *Player) stream(ctx context.Context, pcm []byte, bytesPerSecond int, done chan struct{}) {
	defer func() {
		p.mu.Lock()
		if p.done == done {
			p.speaking = false
			p.cancel = nil
			p.done = nil
		}
		p.mu.Unlock()
		close(done)
	}()

	if bytesPerSecond <= 0 {
		bytesPerSecond = DefaultSampleRate * 2
	}
	chunk := bytesPerSecond * int(p.tick) / int(time.Second)
	if chunk <= 0 {
		chunk = 2
	}

	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	for off := 0; off < len(pcm); off += chunk {
		end := off + chunk
		if end > len(pcm) {
			end = len(pcm)
		}
		if err := p.sink.Write(pcm[off:end]); err != nil {
			p.emitErr(err)
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Stop halts the active playback and flushes the device. A no-op when idle.
func (p *Player) Stop() {
	p.mu.Lock()
	if !p.speaking {
		p.mu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.mu.Unlock()

	cancel()
	<-done
	if err := p.sink.Restart(); err != nil {
		p.emitErr(err)
	}
}

// Wait blocks until the active playback finishes. Returns immediately when
// idle.
func (p *Player) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

// PlayTone plays a short diagnostic tone through the same path narration
// takes.
func (p *Player) PlayTone(d time.Duration) error {
	return p.Play(SineTone(440, DefaultSampleRate, d, 0.2))
}

// Close stops playback and shuts the sink down.
func (p *Player) Close() error {
	p.Stop()
	return p.sink.Close()
}

func (p *Player) emitErr(err error) {
	select {
	case p.errCh <- err:
	default:
	}
}
