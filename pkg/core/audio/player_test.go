package audio

import (
	"sync"
	"testing"
	"time"
)

type fakeSink struct {
	mu        sync.Mutex
	written   []byte
	restarts  int
	closed    bool
	ensureErr error
}

func (f *fakeSink) EnsureRunning() error { return f.ensureErr }

func (f *fakeSink) Write(pcm []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, pcm...)
	return nil
}

func (f *fakeSink) Restart() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restarts++
	return nil
}

func (f *fakeSink) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSink) bytesWritten() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.written)
}

func shortBuffer(frames int) Buffer {
	samples := make([]float32, frames)
	return Buffer{SampleRate: 24000, Channels: 1, data: [][]float32{samples}}
}

func TestPlayerStreamsWholeBuffer(t *testing.T) {
	sink := &fakeSink{}
	p := NewPlayer(sink, time.Millisecond)

	buf := shortBuffer(240) // 10ms of audio
	if err := p.Play(buf); err != nil {
		t.Fatal(err)
	}
	p.Wait()

	if got, want := sink.bytesWritten(), 480; got != want {
		t.Errorf("wrote %d bytes, want %d", got, want)
	}
	if p.Speaking() {
		t.Error("speaking flag not cleared after natural completion")
	}
}

func TestPlayerSingleSlot(t *testing.T) {
	sink := &fakeSink{}
	p := NewPlayer(sink, 5*time.Millisecond)

	long := shortBuffer(24000) // 1s of audio, streams slowly
	if err := p.Play(long); err != nil {
		t.Fatal(err)
	}
	if !p.Speaking() {
		t.Fatal("expected speaking after Play")
	}

	before := sink.bytesWritten()
	if err := p.Play(shortBuffer(240)); err != nil {
		t.Fatalf("second Play should be a silent no-op, got %v", err)
	}
	// The second buffer must not have been queued.
	time.Sleep(2 * time.Millisecond)
	if got := sink.bytesWritten(); got < before {
		t.Errorf("bytes went backwards: %d -> %d", before, got)
	}

	p.Stop()
	if p.Speaking() {
		t.Error("speaking flag survived Stop")
	}
}

func TestPlayerStopFlushesSink(t *testing.T) {
	sink := &fakeSink{}
	p := NewPlayer(sink, 5*time.Millisecond)

	if err := p.Play(shortBuffer(24000)); err != nil {
		t.Fatal(err)
	}
	p.Stop()
	if sink.restarts != 1 {
		t.Errorf("restarts = %d, want 1", sink.restarts)
	}
	if total := sink.bytesWritten(); total >= 48000 {
		t.Errorf("stop did not interrupt the stream: %d bytes written", total)
	}
}

func TestPlayerStopWhenIdle(t *testing.T) {
	sink := &fakeSink{}
	p := NewPlayer(sink, time.Millisecond)
	p.Stop() // must not panic or restart
	if sink.restarts != 0 {
		t.Errorf("idle Stop restarted the sink %d times", sink.restarts)
	}
}

func TestPlayerEmptyBuffer(t *testing.T) {
	sink := &fakeSink{}
	p := NewPlayer(sink, time.Millisecond)
	if err := p.Play(Buffer{SampleRate: 24000, Channels: 1}); err != nil {
		t.Fatal(err)
	}
	if p.Speaking() {
		t.Error("empty buffer should not start a playback")
	}
}

func TestPlayerClose(t *testing.T) {
	sink := &fakeSink{}
	p := NewPlayer(sink, time.Millisecond)
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if !sink.closed {
		t.Error("sink not closed")
	}
}

func TestPlayerWaitWhenIdle(t *testing.T) {
	p := NewPlayer(&fakeSink{}, time.Millisecond)
	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait blocked with no playback")
	}
}
