package progress

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time)}
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }

func (m *manualTicker) Stop() {
	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()
}

func (m *manualTicker) isStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// tick blocks until the cycle goroutine has received the tick.
func (m *manualTicker) tick() { m.ch <- time.Now() }

type recorder struct {
	mu      sync.Mutex
	phrases []string
}

func (r *recorder) add(p string) {
	r.mu.Lock()
	r.phrases = append(r.phrases, p)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.phrases...)
}

func TestCycleWrapsAround(t *testing.T) {
	ticker := newManualTicker()
	var interval time.Duration
	c := Cycle{
		Phrases:  []string{"a", "b", "c"},
		Interval: 3500 * time.Millisecond,
		NewTicker: func(d time.Duration) Ticker {
			interval = d
			return ticker
		},
	}
	rec := &recorder{}

	stop := c.Start(rec.add)
	for i := 0; i < 4; i++ {
		ticker.tick()
	}
	stop()

	assert.Equal(t, 3500*time.Millisecond, interval)
	assert.Equal(t, []string{"a", "b", "c", "a", "b"}, rec.snapshot())
	assert.True(t, ticker.isStopped())
}

func TestCycleNoPhraseAfterStop(t *testing.T) {
	ticker := newManualTicker()
	c := Cycle{
		Phrases:   []string{"a", "b"},
		Interval:  time.Second,
		NewTicker: func(time.Duration) Ticker { return ticker },
	}
	rec := &recorder{}

	stop := c.Start(rec.add)
	ticker.tick()
	stop()
	stop()

	before := rec.snapshot()
	select {
	case ticker.ch <- time.Now():
		t.Fatalf("tick was consumed after stop")
	case <-time.After(20 * time.Millisecond):
	}
	assert.Equal(t, before, rec.snapshot())
	assert.Equal(t, []string{"a", "b"}, before)
}

func TestCycleWithoutPhrasesIsNoop(t *testing.T) {
	called := false
	stop := Cycle{Interval: time.Second}.Start(func(string) { called = true })
	stop()
	assert.False(t, called)
}

func TestCycleRealTicker(t *testing.T) {
	rec := &recorder{}
	stop := Cycle{Phrases: []string{"x", "y"}, Interval: time.Millisecond}.Start(rec.add)
	require.Eventually(t, func() bool { return len(rec.snapshot()) >= 3 }, time.Second, time.Millisecond)
	stop()

	n := len(rec.snapshot())
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, n, len(rec.snapshot()))
}
