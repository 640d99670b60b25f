package live

import (
	"sync"
	"sync/atomic"
	"testing"
	"tennis-dashboard/internal/domain"
	"time"

	"github.com/rs/zerolog"
)

type fakeTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop() { f.stopped.Store(true) }

type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 9, 7, 20, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func (c *fakeClock) NewTicker(time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time)}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *fakeClock) tickerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

func (c *fakeClock) latest() *fakeTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.tickers) == 0 {
		return nil
	}
	return c.tickers[len(c.tickers)-1]
}

// fire blocks until the engine's run loop has accepted the tick.
func (c *fakeClock) fire(t *testing.T) {
	t.Helper()
	tk := c.latest()
	if tk == nil {
		t.Fatal("no ticker started")
	}
	select {
	case tk.ch <- time.Now():
	case <-time.After(time.Second):
		t.Fatal("ticker was not consumed")
	}
}

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

type scriptedRand struct {
	mu   sync.Mutex
	vals []float64
	i    int
}

func script(vals ...float64) *scriptedRand { return &scriptedRand{vals: vals} }

func (s *scriptedRand) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func newTestEngine(rnd RandomSource) (*Engine, *fakeClock) {
	clock := newFakeClock()
	return NewEngine(NewStore(domain.NewSeedMatch()), clock, rnd, time.Second, zerolog.Nop()), clock
}

func receive(t *testing.T, ch <-chan domain.Match) domain.Match {
	t.Helper()
	select {
	case m := <-ch:
		return m
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return domain.Match{}
	}
}

func assertSilent(t *testing.T, ch <-chan domain.Match) {
	t.Helper()
	select {
	case m := <-ch:
		t.Fatalf("unexpected snapshot at match time %d", m.MatchTime)
	case <-time.After(50 * time.Millisecond):
	}
}
