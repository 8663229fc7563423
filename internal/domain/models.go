package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidSession = errors.New("invalid session")

// Side is the home flag carried by a report. Upstream omits it for some games.
type Side int

const (
	SideUnset Side = iota
	SideHome
	SideAway
)

type APIVersion string

const (
	VersionNHL10     APIVersion = "nhl10"
	VersionNHL11     APIVersion = "nhl11"
	VersionNHL14     APIVersion = "nhl14"
	VersionNHLLegacy APIVersion = "nhllegacy"
)

// MultiMode reports whether the version splits its payloads by game mode.
func (v APIVersion) MultiMode() bool {
	return v == VersionNHL11 || v == VersionNHL14 || v == VersionNHLLegacy
}

func (v APIVersion) Valid() bool {
	return v == VersionNHL10 || v.MultiMode()
}

const (
	ModeVS  = "VS"
	ModeSO  = "SO"
	ModeOTP = "OTP"
)

// Session is the caller-owned selection of API version and game mode.
type Session struct {
	Version APIVersion `json:"version"`
	Mode    string     `json:"mode"`
}

// ModeKey is the lowercase key multi-mode payloads are grouped under.
func (s Session) ModeKey() string {
	if s.Mode == "" {
		return strings.ToLower(ModeVS)
	}
	return strings.ToLower(s.Mode)
}

// Normalize fills in defaults and rejects unknown versions or modes.
// Single-mode versions ignore the mode entirely.
func (s Session) Normalize(fallback APIVersion) (Session, error) {
	out := Session{Version: APIVersion(strings.ToLower(strings.TrimSpace(string(s.Version))))}
	if out.Version == "" {
		out.Version = fallback
	}
	if !out.Version.Valid() {
		return Session{}, fmt.Errorf("%w: unknown version %q", ErrInvalidSession, s.Version)
	}
	if !out.Version.MultiMode() {
		out.Mode = ModeVS
		return out, nil
	}

	out.Mode = strings.ToUpper(strings.TrimSpace(s.Mode))
	switch out.Mode {
	case "":
		out.Mode = ModeVS
	case ModeVS, ModeSO:
	case ModeOTP:
		if out.Version != VersionNHL11 {
			return Session{}, fmt.Errorf("%w: %s has no OTP mode", ErrInvalidSession, out.Version)
		}
	default:
		return Session{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidSession, s.Mode)
	}
	return out, nil
}

type FetchOptions struct {
	Force bool
	TTL   time.Duration
}

type RawReport struct {
	GameID     string  `json:"game_id"`
	Gamertag   string  `json:"gamertag"`
	TeamName   string  `json:"team_name"`
	Score      int     `json:"score"`
	Side       Side    `json:"side"`
	Shots      int     `json:"shots"`
	Faceoff    int     `json:"faceoff"`
	PenMin     int     `json:"penmin"`
	Hits       int     `json:"hits"`
	FPSAvg     float64 `json:"fpsavg"`
	LatencyAvg float64 `json:"lateavgnet"`
	CreatedAt  string  `json:"created_at"`
}

type RawGame struct {
	GameID    string `json:"game_id"`
	CreatedAt string `json:"created_at"`
	Finished  bool   `json:"fnsh"`
	GameType  string `json:"gtyp"`
	Venue     string `json:"venue"`
}

type DerivedGame struct {
	GameID         string `json:"gameId"`
	PlayedAt       string `json:"playedAt"`
	HomeTeam       string `json:"homeTeam"`
	AwayTeam       string `json:"awayTeam"`
	HomeScore      int    `json:"homeScore"`
	AwayScore      int    `json:"awayScore"`
	HomePlayerName string `json:"homePlayerName"`
	AwayPlayerName string `json:"awayPlayerName"`
	Solo           bool   `json:"solo"`

	Players    int         `json:"players"`
	TotalGoals int         `json:"totalGoals"`
	AvgFPS     float64     `json:"avgFps"`
	AvgLatency float64     `json:"avgLatency"`
	Status     string      `json:"status"`
	Venue      string      `json:"venue,omitempty"`
	GameType   string      `json:"gameType,omitempty"`
	Reports    []RawReport `json:"reports"`
}

type MatchOutcome string

const (
	OutcomeWin  MatchOutcome = "Win"
	OutcomeLoss MatchOutcome = "Loss"
	OutcomeDraw MatchOutcome = "Draw"
)

type HistoryEntry struct {
	DerivedGame
	MyPlayer       string       `json:"myPlayer"`
	OpponentPlayer string       `json:"opponentPlayer"`
	MyTeam         string       `json:"myTeam"`
	OpponentTeam   string       `json:"opponentTeam"`
	MyScore        int          `json:"myScore"`
	OppScore       int          `json:"oppScore"`
	Outcome        MatchOutcome `json:"outcome"`
}

type PlayerAggregate struct {
	Gamertag     string  `json:"gamertag"`
	GamesPlayed  int     `json:"gamesPlayed"`
	GoalsFor     int     `json:"goalsFor"`
	GoalsAgainst int     `json:"goalsAgainst"`
	GoalDiff     int     `json:"goalDiff"`
	GoalsPerGame float64 `json:"goalsPerGame"`
	Winrate      float64 `json:"winrate"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Shots        int     `json:"shots"`
	Faceoffs     int     `json:"faceoffs"`
	PenMin       int     `json:"penmin"`
}

// Range is a leaderboard window.
type Range string

const (
	RangeDay     Range = "day"
	RangeWeekly  Range = "weekly"
	RangeMonthly Range = "monthly"
	RangeAllTime Range = "all time"
)

// ParseRange maps user input onto a Range. Unknown input is all time.
func ParseRange(s string) Range {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "daily":
		return RangeDay
	case "weekly", "week":
		return RangeWeekly
	case "monthly", "month":
		return RangeMonthly
	default:
		return RangeAllTime
	}
}

type Leaderboards struct {
	Range        Range             `json:"range"`
	Goals        []PlayerAggregate `json:"goals"`
	GoalsPerGame []PlayerAggregate `json:"goalsPerGame"`
	Winrate      []PlayerAggregate `json:"winrate"`
	Wins         []PlayerAggregate `json:"wins"`
	GoalDiff     []PlayerAggregate `json:"goalDiff"`
	GamesPlayed  []PlayerAggregate `json:"gamesPlayed"`
}

type LeaderboardCategory struct {
	Key     string                       `json:"key"`
	Label   string                       `json:"label"`
	Players []PlayerAggregate            `json:"players"`
	Value   func(PlayerAggregate) string `json:"-"`
}

type ModeTotals struct {
	Games int `json:"games"`
	Goals int `json:"goals"`
}

type Profile struct {
	PlayerName string      `json:"playerName"`
	UserID     string      `json:"userId"`
	TotalGames int         `json:"totalGames"`
	TotalGoals int         `json:"totalGoals"`
	VS         *ModeTotals `json:"VS,omitempty"`
	SO         *ModeTotals `json:"SO,omitempty"`
	OTP        *ModeTotals `json:"OTP,omitempty"`
}

// AvgGoals is goals per game, 0 when no games were played.
func (p Profile) AvgGoals() float64 {
	if p.TotalGames <= 0 {
		return 0
	}
	return float64(p.TotalGoals) / float64(p.TotalGames)
}

type ServerStatus struct {
	ServerVersion    string `json:"serverVersion"`
	OnlineUsersCount int    `json:"onlineUsersCount"`
	OnlineUsers      string `json:"onlineUsers"`
	QueuedUsers      int    `json:"queuedUsers"`
	ActiveGames      int    `json:"activeGames"`
}
