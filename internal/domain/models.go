package domain

import (
	"time"
)

type EventType string

const (
	EventAce         EventType = "ace"
	EventWinner      EventType = "winner"
	EventDoubleFault EventType = "double_fault"
	EventBreakPoint  EventType = "break_point"
	EventGame        EventType = "game"
	EventSet         EventType = "set"
)

type MatchStatus string

const (
	StatusLive      MatchStatus = "live"
	StatusCompleted MatchStatus = "completed"
	StatusUpcoming  MatchStatus = "upcoming"
)

type Surface string

const (
	SurfaceHard  Surface = "hard"
	SurfaceClay  Surface = "clay"
	SurfaceGrass Surface = "grass"
)

type Player struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Country     string `json:"country"`
	CountryFlag string `json:"countryFlag"`
	Ranking     int    `json:"ranking"`
	Photo       string `json:"photo"`
}

type MatchScore struct {
	Sets   []int  `json:"sets"`
	Games  int    `json:"games"`
	Points string `json:"points"` // "0", "15", "30", "40" or "AD"
}

type PlayerStats struct {
	Aces                 int `json:"aces"`
	DoubleFaults         int `json:"doubleFaults"`
	FirstServePercentage int `json:"firstServePercentage"`
	BreakPointsWon       int `json:"breakPointsWon"`
	BreakPointsMissed    int `json:"breakPointsMissed"`
	Winners              int `json:"winners"`
	UnforcedErrors       int `json:"unforcedErrors"`
	TotalPoints          int `json:"totalPoints"`
}

type MatchEvent struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Type        EventType `json:"type"`
	Player      string    `json:"player"` // display name, not id
	Description string    `json:"description"`
}

type WinProbability struct {
	Player1 int `json:"player1"`
	Player2 int `json:"player2"`
}

type Match struct {
	ID             string         `json:"id"`
	Player1        Player         `json:"player1"`
	Player2        Player         `json:"player2"`
	Score1         MatchScore     `json:"score1"`
	Score2         MatchScore     `json:"score2"`
	Stats1         PlayerStats    `json:"stats1"`
	Stats2         PlayerStats    `json:"stats2"`
	CurrentServer  string         `json:"currentServer"`
	Status         MatchStatus    `json:"status"`
	Surface        Surface        `json:"surface"`
	MatchTime      int            `json:"matchTime"` // elapsed seconds
	Events         []MatchEvent   `json:"events"`    // newest first
	WinProbability WinProbability `json:"winProbability"`
}

type PredictionPoll struct {
	ID         string   `json:"id"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Votes      []int    `json:"votes"`
	TotalVotes int      `json:"totalVotes"`
}

type LeaderboardEntry struct {
	Rank               int    `json:"rank"`
	Username           string `json:"username"`
	Country            string `json:"country"`
	Points             int    `json:"points"`
	CorrectPredictions int    `json:"correctPredictions"`
}

type HistoricalMatch struct {
	Date       string  `json:"date"`
	Tournament string  `json:"tournament"`
	Winner     string  `json:"winner"`
	Score      string  `json:"score"`
	Surface    Surface `json:"surface"`
}

// Ranking and MatchStats mirror the external tennis API payloads.
type Ranking struct {
	Rank              int    `json:"rank"`
	PlayerName        string `json:"playerName"`
	Country           string `json:"country"`
	Points            int    `json:"points"`
	TournamentsPlayed int    `json:"tournamentsPlayed"`
	PointsToDefend    string `json:"pointsToDefend"`
}

type MatchStats struct {
	MatchID        string           `json:"matchId"`
	TournamentName string           `json:"tournamentName"`
	Player1Name    string           `json:"player1Name"`
	Player2Name    string           `json:"player2Name"`
	Player1Score   int              `json:"player1Score"`
	Player2Score   int              `json:"player2Score"`
	CurrentSet     string           `json:"currentSet"`
	CurrentGame    string           `json:"currentGame"`
	Player1Stats   MatchStatDetails `json:"player1Stats"`
	Player2Stats   MatchStatDetails `json:"player2Stats"`
}

type MatchStatDetails struct {
	Aces                 int `json:"aces"`
	DoubleFaults         int `json:"doubleFaults"`
	FirstServePercentage int `json:"firstServePercentage"`
	WinningOnFirstServe  int `json:"winningOnFirstServe"`
	WinningOnSecondServe int `json:"winningOnSecondServe"`
	BreakPointsConverted int `json:"breakPointsConverted"`
	NetPointsWon         int `json:"netPointsWon"`
	TotalPointsWon       int `json:"totalPointsWon"`
}
