package catalog

import (
	"strings"
	"tennis-dashboard/internal/domain"
)

// SurfaceAll disables surface filtering.
const SurfaceAll = "all"

func HistoricalMatches() []domain.HistoricalMatch {
	return []domain.HistoricalMatch{
		{Date: "2025-09-15", Tournament: "US Open", Winner: domain.Alcaraz.Name, Score: "6-4, 6-3", Surface: domain.SurfaceHard},
		{Date: "2025-07-20", Tournament: "Wimbledon", Winner: domain.Djokovic.Name, Score: "7-6, 6-4, 6-3", Surface: domain.SurfaceGrass},
		{Date: "2025-06-10", Tournament: "French Open", Winner: domain.Alcaraz.Name, Score: "6-2, 7-5, 6-4", Surface: domain.SurfaceClay},
		{Date: "2025-01-28", Tournament: "Australian Open", Winner: domain.Djokovic.Name, Score: "6-4, 3-6, 6-3, 7-6", Surface: domain.SurfaceHard},
	}
}

func PredictionPolls() []domain.PredictionPoll {
	return []domain.PredictionPoll{
		{
			ID:         "poll-1",
			Question:   "Who will win this set?",
			Options:    []string{domain.Alcaraz.Name, domain.Djokovic.Name},
			Votes:      []int{3245, 2876},
			TotalVotes: 6121,
		},
		{
			ID:         "poll-2",
			Question:   "Will there be a tiebreak?",
			Options:    []string{"Yes", "No"},
			Votes:      []int{1823, 2456},
			TotalVotes: 4279,
		},
	}
}

func Leaderboard() []domain.LeaderboardEntry {
	return []domain.LeaderboardEntry{
		{Rank: 1, Username: "TennisKing", Country: "🇺🇸", Points: 8945, CorrectPredictions: 127},
		{Rank: 2, Username: "AceMaster", Country: "🇬🇧", Points: 8721, CorrectPredictions: 124},
		{Rank: 3, Username: "CourtCrusher", Country: "🇫🇷", Points: 8456, CorrectPredictions: 119},
		{Rank: 4, Username: "NetNinja", Country: "🇦🇺", Points: 8234, CorrectPredictions: 116},
		{Rank: 5, Username: "BaselineBoss", Country: "🇩🇪", Points: 7998, CorrectPredictions: 113},
	}
}

// FilterBySurface keeps matches played on surface. An empty surface or
// "all" returns every match; an unknown surface returns none.
func FilterBySurface(matches []domain.HistoricalMatch, surface string) []domain.HistoricalMatch {
	surface = strings.ToLower(strings.TrimSpace(surface))
	out := make([]domain.HistoricalMatch, 0, len(matches))
	for _, m := range matches {
		if surface == "" || surface == SurfaceAll || string(m.Surface) == surface {
			out = append(out, m)
		}
	}
	return out
}

// Percentage is the share of votes option idx holds, 0 when nobody voted.
func Percentage(poll domain.PredictionPoll, idx int) float64 {
	if poll.TotalVotes <= 0 || idx < 0 || idx >= len(poll.Votes) {
		return 0
	}
	return float64(poll.Votes[idx]) / float64(poll.TotalVotes) * 100
}
