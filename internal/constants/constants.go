package constants

import "time"

const (
	DefaultCacheTTL = 8 * time.Second
	StatusCacheTTL  = 8 * time.Second
	GamesCacheTTL   = 5 * time.Second
	ReportsCacheTTL = 5 * time.Second
	PlayersCacheTTL = 60 * time.Second
	ProfileCacheTTL = 30 * time.Second
	LeaderboardTTL  = 60 * time.Second
	CachePurgeEvery = 1 * time.Minute
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	HistoryLimit     = 10
	LeaderboardTopN  = 5
	GamesFeedLimit   = 30
	DayMillis        = 86_400_000
	UnknownName      = "Unknown"
	StatusFinished   = "Finished"
	StatusInProgress = "In Progress"
)

// Multi-mode versions serve status from their own ports.
const (
	NHL14StatusPort     = "8082"
	NHLLegacyStatusPort = "8083"
)
