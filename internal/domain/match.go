package domain

import (
	"errors"
	"fmt"
)

var PointLabels = []string{"0", "15", "30", "40", "AD"}

// Clone returns a deep copy; mutating the copy never reaches the receiver.
func (m Match) Clone() Match {
	out := m
	out.Score1 = m.Score1.clone()
	out.Score2 = m.Score2.clone()
	if m.Events != nil {
		out.Events = make([]MatchEvent, len(m.Events))
		copy(out.Events, m.Events)
	}
	return out
}

func (s MatchScore) clone() MatchScore {
	if s.Sets != nil {
		sets := make([]int, len(s.Sets))
		copy(sets, s.Sets)
		s.Sets = sets
	}
	return s
}

// StatsFor and ScoreFor address a competitor by slot, 1 or 2.
func (m *Match) StatsFor(slot int) *PlayerStats {
	if slot == 2 {
		return &m.Stats2
	}
	return &m.Stats1
}

func (m *Match) ScoreFor(slot int) *MatchScore {
	if slot == 2 {
		return &m.Score2
	}
	return &m.Score1
}

func (m *Match) Validate() error {
	if m.WinProbability.Player1+m.WinProbability.Player2 != 100 {
		return fmt.Errorf("win probability must sum to 100, got %d+%d",
			m.WinProbability.Player1, m.WinProbability.Player2)
	}
	if len(m.Events) > MaxEvents {
		return fmt.Errorf("too many events: %d > %d", len(m.Events), MaxEvents)
	}
	for i := 1; i < len(m.Events); i++ {
		if m.Events[i].Timestamp.After(m.Events[i-1].Timestamp) {
			return errors.New("events must be ordered newest first")
		}
	}
	if m.CurrentServer != m.Player1.ID && m.CurrentServer != m.Player2.ID {
		return fmt.Errorf("current server %q is not a competitor", m.CurrentServer)
	}
	if m.MatchTime < 0 {
		return errors.New("match time must not be negative")
	}
	for _, st := range []PlayerStats{m.Stats1, m.Stats2} {
		if st.Aces < 0 || st.DoubleFaults < 0 || st.Winners < 0 || st.UnforcedErrors < 0 ||
			st.BreakPointsWon < 0 || st.BreakPointsMissed < 0 || st.TotalPoints < 0 ||
			st.FirstServePercentage < 0 {
			return errors.New("stat counters must not be negative")
		}
	}
	return nil
}

// MaxEvents bounds the trailing event window kept on a match.
const MaxEvents = 20

var (
	Alcaraz = Player{
		ID:          "1",
		Name:        "Carlos Alcaraz",
		Country:     "Spain",
		CountryFlag: "🇪🇸",
		Ranking:     2,
		Photo:       "https://images.pexels.com/photos/209977/pexels-photo-209977.jpeg?auto=compress&cs=tinysrgb&w=400",
	}
	Djokovic = Player{
		ID:          "2",
		Name:        "Novak Djokovic",
		Country:     "Serbia",
		CountryFlag: "🇷🇸",
		Ranking:     1,
		Photo:       "https://images.pexels.com/photos/1103833/pexels-photo-1103833.jpeg?auto=compress&cs=tinysrgb&w=400",
	}
)

func NewSeedMatch() Match {
	return Match{
		ID:      "match-1",
		Player1: Alcaraz,
		Player2: Djokovic,
		Score1:  MatchScore{Sets: []int{6, 4, 3}, Games: 3, Points: "30"},
		Score2:  MatchScore{Sets: []int{4, 6, 2}, Games: 2, Points: "40"},
		Stats1: PlayerStats{
			Aces:                 12,
			DoubleFaults:         3,
			FirstServePercentage: 68,
			BreakPointsWon:       4,
			BreakPointsMissed:    2,
			Winners:              28,
			UnforcedErrors:       15,
			TotalPoints:          142,
		},
		Stats2: PlayerStats{
			Aces:                 8,
			DoubleFaults:         5,
			FirstServePercentage: 72,
			BreakPointsWon:       3,
			BreakPointsMissed:    3,
			Winners:              31,
			UnforcedErrors:       18,
			TotalPoints:          138,
		},
		CurrentServer:  Alcaraz.ID,
		Status:         StatusLive,
		Surface:        SurfaceHard,
		MatchTime:      8234,
		Events:         []MatchEvent{},
		WinProbability: WinProbability{Player1: 62, Player2: 38},
	}
}
