package constants

import "time"

const TickInterval = 2000 * time.Millisecond

// Per-tick branch thresholds. Both may fire on the same draw.
const (
	EventThreshold = 0.7
	ScoreThreshold = 0.85
)

const (
	WinProbabilityFloor = 45
	WinProbabilitySpan  = 30
)

const (
	CacheTTL       = 5 * time.Minute
	CachePurgeTick = 10 * time.Minute
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 2
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	WatchBufferSize = 8
)
