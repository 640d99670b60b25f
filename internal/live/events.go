package live

import (
	"tennis-dashboard/internal/domain"
)

var eventTypes = []domain.EventType{
	domain.EventAce,
	domain.EventWinner,
	domain.EventDoubleFault,
	domain.EventBreakPoint,
}

var eventDescriptions = map[domain.EventType][]string{
	domain.EventAce:         {"Powerful ace down the middle", "Ace out wide", "Service ace unreturnable"},
	domain.EventWinner:      {"Forehand winner down the line", "Backhand cross-court winner", "Volley winner at the net"},
	domain.EventDoubleFault: {"Double fault under pressure", "Second serve into the net"},
	domain.EventBreakPoint:  {"Break point saved!", "Break point converted!", "Critical break point"},
}

// descriptions returns the fixed description pool for an event type.
func descriptions(t domain.EventType) []string {
	return append([]string(nil), eventDescriptions[t]...)
}

// pick maps a uniform draw onto an index of a slice of length n.
func pick(n int, r float64) int {
	idx := int(r * float64(n))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// applyEvent bumps the counter matching the event. Break points are logged
// on the timeline only and leave breakPointsWon/Missed untouched.
func applyEvent(stats *domain.PlayerStats, t domain.EventType) {
	switch t {
	case domain.EventAce:
		stats.Aces++
	case domain.EventDoubleFault:
		stats.DoubleFaults++
	case domain.EventWinner:
		stats.Winners++
	}
}

func prependEvent(events []domain.MatchEvent, ev domain.MatchEvent) []domain.MatchEvent {
	keep := min(len(events), domain.MaxEvents-1)
	out := make([]domain.MatchEvent, 0, keep+1)
	out = append(out, ev)
	return append(out, events[:keep]...)
}
