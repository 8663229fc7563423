package api

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"zamboni-stats/internal/domain"

	json "github.com/goccy/go-json"
)

type row = map[string]any

// reportAdapter maps one upstream report row onto the canonical shape.
type reportAdapter func(row) domain.RawReport

var reportAdapters = map[domain.APIVersion]reportAdapter{
	domain.VersionNHL10:     adaptNHL10Report,
	domain.VersionNHL11:     adaptModernReport,
	domain.VersionNHL14:     adaptModernReport,
	domain.VersionNHLLegacy: adaptModernReport,
}

func adaptNHL10Report(r row) domain.RawReport {
	return domain.RawReport{
		GameID:     asString(r["game_id"]),
		Gamertag:   asString(r["gamertag"]),
		TeamName:   asString(r["team_name"]),
		Score:      asInt(r["score"]),
		Side:       asSide(r["home"]),
		Shots:      asInt(r["shots"]),
		Faceoff:    asInt(r["faceoff"]),
		PenMin:     asInt(r["penmin"]),
		Hits:       asInt(r["hits"]),
		FPSAvg:     asFloat(r["fpsavg"]),
		LatencyAvg: asFloat(r["lateavgnet"]),
		CreatedAt:  asTimestamp(r["created_at"]),
	}
}

// Modern titles abbreviate score and team name (scor, tnam) on most rows.
func adaptModernReport(r row) domain.RawReport {
	rep := adaptNHL10Report(r)
	if v, ok := r["scor"]; ok && v != nil {
		rep.Score = asInt(v)
	}
	if v, ok := r["tnam"]; ok && v != nil {
		rep.TeamName = asString(v)
	}
	return rep
}

// DecodeReports decodes a raw reports payload for the session's version and mode.
func DecodeReports(body []byte, s domain.Session) ([]domain.RawReport, error) {
	rows, err := decodeRows(body, s)
	if err != nil {
		return nil, err
	}
	adapt, ok := reportAdapters[s.Version]
	if !ok {
		adapt = adaptNHL10Report
	}
	reports := make([]domain.RawReport, 0, len(rows))
	for _, r := range rows {
		reports = append(reports, adapt(r))
	}
	return reports, nil
}

// DecodeGames decodes a raw games payload. Every version shares the game schema.
func DecodeGames(body []byte, s domain.Session) ([]domain.RawGame, error) {
	rows, err := decodeRows(body, s)
	if err != nil {
		return nil, err
	}
	games := make([]domain.RawGame, 0, len(rows))
	for _, r := range rows {
		games = append(games, domain.RawGame{
			GameID:    asString(r["game_id"]),
			CreatedAt: asTimestamp(r["created_at"]),
			Finished:  asBool(r["fnsh"]),
			GameType:  asString(r["gtyp"]),
			Venue:     asString(r["venue"]),
		})
	}
	return games, nil
}

func DecodePlayers(body []byte) ([]string, error) {
	var raw []any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: players: %v", ErrDecode, err)
	}
	players := make([]string, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(row); ok {
			v = m["gamertag"]
		}
		if name := asString(v); name != "" {
			players = append(players, name)
		}
	}
	return players, nil
}

func DecodeProfile(body []byte) (*domain.Profile, error) {
	var r row
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("%w: profile: %v", ErrDecode, err)
	}
	return &domain.Profile{
		PlayerName: asString(r["playerName"]),
		UserID:     asString(r["userId"]),
		TotalGames: asInt(r["totalGames"]),
		TotalGoals: asInt(r["totalGoals"]),
		VS:         asModeTotals(r["VS"]),
		SO:         asModeTotals(r["SO"]),
		OTP:        asModeTotals(r["OTP"]),
	}, nil
}

func DecodeStatus(body []byte) (*domain.ServerStatus, error) {
	var r row
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("%w: status: %v", ErrDecode, err)
	}
	online := r["onlineUsers"]
	if list, ok := online.([]any); ok {
		names := make([]string, 0, len(list))
		for _, n := range list {
			names = append(names, asString(n))
		}
		online = strings.Join(names, ", ")
	}
	return &domain.ServerStatus{
		ServerVersion:    asString(r["serverVersion"]),
		OnlineUsersCount: asInt(r["onlineUsersCount"]),
		OnlineUsers:      asString(online),
		QueuedUsers:      asInt(r["queuedUsers"]),
		ActiveGames:      asInt(r["activeGames"]),
	}, nil
}

// decodeRows picks the row array out of a payload. Multi-mode versions group
// rows under the lowercase mode key; a shape mismatch yields no rows.
func decodeRows(body []byte, s domain.Session) ([]row, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	var list []any
	if s.Version.MultiMode() {
		if obj, ok := payload.(row); ok {
			list, _ = obj[s.ModeKey()].([]any)
		}
	} else {
		list, _ = payload.([]any)
	}

	rows := make([]row, 0, len(list))
	for _, item := range list {
		if r, ok := item.(row); ok {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	case bool:
		if t {
			return 1
		}
	}
	return 0
}

func asInt(v any) int {
	return int(asFloat(v))
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != "" && t != "0" && !strings.EqualFold(t, "false")
	}
	return false
}

// asSide reads the home flag: 1/true is home, 0/false is away, absent is unset.
func asSide(v any) domain.Side {
	switch t := v.(type) {
	case bool:
		if t {
			return domain.SideHome
		}
		return domain.SideAway
	case float64:
		if t == 1 {
			return domain.SideHome
		}
		if t == 0 {
			return domain.SideAway
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "true":
			return domain.SideHome
		case "0", "false":
			return domain.SideAway
		}
	}
	return domain.SideUnset
}

// asTimestamp keeps strings as-is and renders epoch numbers (seconds or
// milliseconds) as RFC 3339.
func asTimestamp(v any) string {
	f, ok := v.(float64)
	if !ok {
		return asString(v)
	}
	if f > 1e11 {
		return time.UnixMilli(int64(f)).UTC().Format(time.RFC3339)
	}
	return time.Unix(int64(f), 0).UTC().Format(time.RFC3339)
}

func asModeTotals(v any) *domain.ModeTotals {
	m, ok := v.(row)
	if !ok {
		return nil
	}
	return &domain.ModeTotals{Games: asInt(m["games"]), Goals: asInt(m["goals"])}
}
