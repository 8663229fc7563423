package server

import "zamboni-stats/internal/domain"

// SessionRequest is carried by every stats request.
type SessionRequest struct {
	Version string `json:"version"`
	Mode    string `json:"mode"`
	Force   bool   `json:"force"`
}

func (r SessionRequest) session() domain.Session {
	return domain.Session{Version: domain.APIVersion(r.Version), Mode: r.Mode}
}

type GamesRequest struct {
	SessionRequest
}

type GamesResponse struct {
	Games []domain.DerivedGame `json:"games"`
}

type PlayerHistoryRequest struct {
	SessionRequest
	Gamertag string `json:"gamertag"`
}

type PlayerHistoryResponse struct {
	Gamertag string                `json:"gamertag"`
	Entries  []domain.HistoryEntry `json:"entries"`
	Wins     int                   `json:"wins"`
	Losses   int                   `json:"losses"`
	Draws    int                   `json:"draws"`
}

type LeaderboardsRequest struct {
	SessionRequest
	Range string `json:"range"`
}

type LeaderboardsResponse struct {
	Leaderboards domain.Leaderboards          `json:"leaderboards"`
	Categories   []domain.LeaderboardCategory `json:"categories"`
}

type ListPlayersRequest struct {
	SessionRequest
	Query string `json:"query"`
}

type ListPlayersResponse struct {
	Players []string `json:"players"`
}

type ProfileRequest struct {
	SessionRequest
	Gamertag string `json:"gamertag"`
}

type ProfileResponse struct {
	Profile  *domain.Profile `json:"profile"`
	AvgGoals float64         `json:"avgGoals"`
}

type StatusRequest struct {
	SessionRequest
}

type StatusResponse struct {
	Status *domain.ServerStatus `json:"status"`
}
