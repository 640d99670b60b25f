package live

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"tennis-dashboard/internal/constants"
	"tennis-dashboard/internal/domain"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type Subscriber func(snapshot domain.Match)

type subscription struct {
	id     uint64
	fn     Subscriber
	active atomic.Bool
}

// Engine advances the canonical match on a fixed cadence and pushes a
// snapshot to every subscriber after each tick. The ticker only runs while
// at least one subscriber is registered.
type Engine struct {
	store    *Store
	clock    Clock
	rnd      RandomSource
	interval time.Duration
	logger   zerolog.Logger
	metrics  engineMetrics

	// held for a whole tick: mutation plus broadcast
	tickMu sync.Mutex

	mu     sync.Mutex
	subs   []*subscription
	nextID uint64
	ticker Ticker
	done   chan struct{}
}

func NewEngine(store *Store, clock Clock, rnd RandomSource, interval time.Duration, logger zerolog.Logger) *Engine {
	if interval <= 0 {
		interval = constants.TickInterval
	}
	logger = logger.With().Str("component", "live_engine").Logger()
	metrics, err := newEngineMetrics()
	if err != nil {
		logger.Warn().Err(err).Msg("failed to register engine metrics")
	}
	return &Engine{
		store:    store,
		clock:    clock,
		rnd:      rnd,
		interval: interval,
		logger:   logger,
		metrics:  metrics,
	}
}

func (e *Engine) Snapshot() domain.Match {
	return e.store.Snapshot()
}

// Subscribe registers fn for every subsequent tick. The returned function
// cancels the subscription; calling it more than once is a no-op.
func (e *Engine) Subscribe(fn Subscriber) func() {
	sub := &subscription{fn: fn}
	sub.active.Store(true)

	e.mu.Lock()
	e.nextID++
	sub.id = e.nextID
	e.subs = append(e.subs, sub)
	if e.ticker == nil {
		e.startLocked()
	}
	count := len(e.subs)
	e.mu.Unlock()

	e.metrics.subscribers.Add(context.Background(), 1)
	e.logger.Debug().Uint64("subscriber", sub.id).Int("subscribers", count).Msg("subscriber added")

	var once sync.Once
	return func() {
		once.Do(func() { e.unsubscribe(sub) })
	}
}

func (e *Engine) unsubscribe(sub *subscription) {
	sub.active.Store(false)

	e.mu.Lock()
	i := slices.Index(e.subs, sub)
	if i < 0 {
		// already dropped by Close
		e.mu.Unlock()
		return
	}
	e.subs = slices.Delete(e.subs, i, i+1)
	count := len(e.subs)
	if count == 0 {
		e.stopLocked()
	}
	e.mu.Unlock()

	e.metrics.subscribers.Add(context.Background(), -1)
	e.logger.Debug().Uint64("subscriber", sub.id).Int("subscribers", count).Msg("subscriber removed")
}

func (e *Engine) Subscribers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs)
}

func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticker != nil
}

// Close drops every subscriber and releases the ticker.
func (e *Engine) Close() {
	e.mu.Lock()
	dropped := len(e.subs)
	for _, sub := range e.subs {
		sub.active.Store(false)
	}
	e.subs = nil
	e.stopLocked()
	e.mu.Unlock()

	if dropped > 0 {
		e.metrics.subscribers.Add(context.Background(), int64(-dropped))
	}
	e.logger.Info().Int("dropped_subscribers", dropped).Msg("engine closed")
}

func (e *Engine) startLocked() {
	t := e.clock.NewTicker(e.interval)
	done := make(chan struct{})
	e.ticker = t
	e.done = done
	go e.run(t, done)
	e.logger.Info().Dur("interval", e.interval).Msg("simulation ticker started")
}

func (e *Engine) stopLocked() {
	if e.ticker == nil {
		return
	}
	e.ticker.Stop()
	close(e.done)
	e.ticker = nil
	e.done = nil
	e.logger.Info().Msg("simulation ticker stopped")
}

func (e *Engine) run(t Ticker, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-t.C():
			select {
			case <-done:
				return
			default:
			}
			e.tickObserved(done)
		}
	}
}

// Tick runs one simulation step and broadcasts the result. It returns the
// snapshot that was delivered.
func (e *Engine) Tick() domain.Match {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	snapshot, event, rescored := e.advance()
	e.finish(snapshot, event, rescored)
	return snapshot
}

// tickObserved is the ticker path. The step only runs while the ticker
// that fired is still current and someone is subscribed; unsubscribe
// cannot slip in between the check and the mutation because both happen
// under mu.
func (e *Engine) tickObserved(done <-chan struct{}) bool {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	e.mu.Lock()
	select {
	case <-done:
		e.mu.Unlock()
		return false
	default:
	}
	if len(e.subs) == 0 {
		e.mu.Unlock()
		return false
	}
	snapshot, event, rescored := e.advance()
	e.mu.Unlock()

	e.finish(snapshot, event, rescored)
	return true
}

func (e *Engine) advance() (domain.Match, *domain.MatchEvent, bool) {
	var event *domain.MatchEvent
	var rescored bool
	snapshot := e.store.update(func(m *domain.Match) {
		event, rescored = e.step(m)
	})
	return snapshot, event, rescored
}

func (e *Engine) finish(snapshot domain.Match, event *domain.MatchEvent, rescored bool) {
	ctx := context.Background()
	e.metrics.ticks.Add(ctx, 1)
	if event != nil {
		e.metrics.events.Add(ctx, 1)
		e.logger.Debug().
			Str("event_id", event.ID).
			Str("type", string(event.Type)).
			Str("player", event.Player).
			Int("match_time", snapshot.MatchTime).
			Msg("match event")
	}
	if rescored {
		e.logger.Debug().
			Str("points1", snapshot.Score1.Points).
			Str("points2", snapshot.Score2.Points).
			Int("win_probability1", snapshot.WinProbability.Player1).
			Msg("score redrawn")
	}

	e.broadcast(snapshot)
}

// step mutates m in place. The draw order is fixed so a scripted
// RandomSource can select exact branches.
func (e *Engine) step(m *domain.Match) (*domain.MatchEvent, bool) {
	var event *domain.MatchEvent
	rescored := false

	r := e.rnd.Float64()

	if r > constants.EventThreshold {
		kind := eventTypes[pick(len(eventTypes), e.rnd.Float64())]
		slot, player := 2, m.Player2
		if e.rnd.Float64() > 0.5 {
			slot, player = 1, m.Player1
		}
		pool := eventDescriptions[kind]

		ev := domain.MatchEvent{
			ID:          e.newEventID(),
			Timestamp:   e.clock.Now(),
			Type:        kind,
			Player:      player.Name,
			Description: pool[pick(len(pool), e.rnd.Float64())],
		}
		m.Events = prependEvent(m.Events, ev)
		applyEvent(m.StatsFor(slot), kind)
		event = &ev
	}

	if r > constants.ScoreThreshold {
		for slot := 1; slot <= 2; slot++ {
			m.ScoreFor(slot).Points = domain.PointLabels[pick(len(domain.PointLabels), e.rnd.Float64())]
		}

		p1 := constants.WinProbabilityFloor + pick(constants.WinProbabilitySpan, e.rnd.Float64())
		m.WinProbability = domain.WinProbability{Player1: p1, Player2: 100 - p1}
		rescored = true
	}

	m.MatchTime++
	return event, rescored
}

func (e *Engine) newEventID() string {
	id, err := gonanoid.New()
	if err != nil {
		e.logger.Warn().Err(err).Msg("failed to generate nanoid, falling back to clock id")
		return fmt.Sprintf("event-%d", e.clock.Now().UnixNano())
	}
	return "event-" + id
}

func (e *Engine) broadcast(snapshot domain.Match) {
	e.mu.Lock()
	subs := slices.Clone(e.subs)
	e.mu.Unlock()

	for _, sub := range subs {
		if !sub.active.Load() {
			continue
		}
		e.deliver(sub, snapshot.Clone())
	}
}

// deliver isolates a failing subscriber so the rest of the broadcast and
// the shared ticker keep going.
func (e *Engine) deliver(sub *subscription, snapshot domain.Match) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().
				Uint64("subscriber", sub.id).
				Interface("panic", r).
				Int("match_time", snapshot.MatchTime).
				Msg("subscriber panicked")
		}
	}()
	sub.fn(snapshot)
}
