// Package progress drives the cosmetic status phrases shown while a guide is
// being generated. It is unrelated to the real request's progress.
package progress

import (
	"sync"
	"time"
)

// Ticker is the subset of *time.Ticker the cycle needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// NewRealTicker wraps time.NewTicker.
func NewRealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Cycle advances through Phrases every Interval, wrapping after the last.
type Cycle struct {
	Phrases   []string
	Interval  time.Duration
	NewTicker func(time.Duration) Ticker
}

// Start emits the first phrase immediately and then one phrase per tick.
// The returned stop func is idempotent; once it returns, onPhrase is never
// called again. stop must not be called from inside onPhrase.
func (c Cycle) Start(onPhrase func(string)) (stop func()) {
	if len(c.Phrases) == 0 || onPhrase == nil {
		return func() {}
	}
	onPhrase(c.Phrases[0])

	newTicker := c.NewTicker
	if newTicker == nil {
		newTicker = NewRealTicker
	}
	ticker := newTicker(c.Interval)
	done := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		defer close(exited)
		idx := 0
		for {
			select {
			case <-done:
				return
			case <-ticker.C():
				// A tick and stop can be ready together; stop wins.
				select {
				case <-done:
					return
				default:
				}
				idx = (idx + 1) % len(c.Phrases)
				onPhrase(c.Phrases[idx])
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
			<-exited
		})
	}
}
