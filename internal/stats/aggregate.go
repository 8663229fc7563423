// Package stats rebuilds games, match histories and leaderboards from the flat
// per-player report rows served by the status APIs. Everything here is pure:
// inputs are never mutated and no call does I/O.
package stats

import (
	"sort"

	"zamboni-stats/internal/constants"
	"zamboni-stats/internal/domain"
)

// AggregateGames groups reports by game id and derives each game's sides and
// scores. Reports without a game id are dropped. games is optional and only
// supplies the authoritative timestamp and metadata.
func AggregateGames(reports []domain.RawReport, games []domain.RawGame) map[string]domain.DerivedGame {
	gamesMap := make(map[string]domain.RawGame, len(games))
	for _, g := range games {
		gamesMap[g.GameID] = g
	}

	grouped, order := groupByGame(reports)

	derived := make(map[string]domain.DerivedGame, len(order))
	for _, id := range order {
		reps := grouped[id]
		if len(reps) == 0 {
			continue
		}
		game, ok := gamesMap[id]
		derived[id] = deriveGame(id, reps, game, ok)
	}
	return derived
}

// RecentGames orders derived games newest first and keeps at most limit of them.
// A non-positive limit keeps everything.
func RecentGames(derived map[string]domain.DerivedGame, limit int) []domain.DerivedGame {
	out := make([]domain.DerivedGame, 0, len(derived))
	for _, g := range derived {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := ParseTimestamp(out[i].PlayedAt), ParseTimestamp(out[j].PlayedAt)
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].GameID < out[j].GameID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func groupByGame(reports []domain.RawReport) (map[string][]domain.RawReport, []string) {
	grouped := make(map[string][]domain.RawReport)
	var order []string
	for _, r := range reports {
		if r.GameID == "" {
			continue
		}
		if _, ok := grouped[r.GameID]; !ok {
			order = append(order, r.GameID)
		}
		grouped[r.GameID] = append(grouped[r.GameID], r)
	}
	return grouped, order
}

func deriveGame(id string, reps []domain.RawReport, game domain.RawGame, hasGame bool) domain.DerivedGame {
	playedAt := reps[0].CreatedAt
	if hasGame && game.CreatedAt != "" {
		playedAt = game.CreatedAt
	}

	// teams keeps insertion order for the fallbacks below.
	teamScores := make(map[string]int)
	var teams []string
	var totalGoals int
	var fps, latency float64
	for _, r := range reps {
		name := teamOf(r)
		if _, ok := teamScores[name]; !ok {
			teams = append(teams, name)
		}
		teamScores[name] += r.Score
		totalGoals += r.Score
		fps += r.FPSAvg
		latency += r.LatencyAvg
	}

	homeTeam := flaggedTeam(reps, domain.SideHome)
	awayTeam := flaggedTeam(reps, domain.SideAway)
	if homeTeam == "" {
		// An away flag alone still pins the other team as home.
		homeTeam = firstOtherTeam(teams, awayTeam)
		if homeTeam == "" {
			homeTeam = teams[0]
		}
	}
	if awayTeam == "" || awayTeam == homeTeam {
		awayTeam = firstOtherTeam(teams, homeTeam)
	}
	if awayTeam == "" {
		awayTeam = homeTeam
	}
	solo := len(teams) == 1

	var homeSide, awaySide []domain.RawReport
	for _, r := range reps {
		if teamOf(r) == homeTeam {
			homeSide = append(homeSide, r)
		} else {
			awaySide = append(awaySide, r)
		}
	}
	if solo {
		awaySide = homeSide
	}

	status := constants.StatusInProgress
	if hasGame && game.Finished {
		status = constants.StatusFinished
	}

	return domain.DerivedGame{
		GameID:         id,
		PlayedAt:       playedAt,
		HomeTeam:       homeTeam,
		AwayTeam:       awayTeam,
		HomeScore:      teamScores[homeTeam],
		AwayScore:      teamScores[awayTeam],
		HomePlayerName: representative(homeSide),
		AwayPlayerName: representative(awaySide),
		Solo:           solo,
		Players:        len(reps),
		TotalGoals:     totalGoals,
		AvgFPS:         fps / float64(len(reps)),
		AvgLatency:     latency / float64(len(reps)),
		Status:         status,
		Venue:          game.Venue,
		GameType:       game.GameType,
		Reports:        reps,
	}
}

// flaggedTeam is the team of the first row carrying side, or "" if none does.
func flaggedTeam(reps []domain.RawReport, side domain.Side) string {
	for _, r := range reps {
		if r.Side == side {
			return teamOf(r)
		}
	}
	return ""
}

// firstOtherTeam is the first team in insertion order that is not exclude.
func firstOtherTeam(teams []string, exclude string) string {
	for _, t := range teams {
		if t != exclude {
			return t
		}
	}
	return ""
}

// representative picks the side's top scorer, then top shooter, then the
// earliest row.
func representative(side []domain.RawReport) string {
	if len(side) == 0 {
		return constants.UnknownName
	}
	best := side[0]
	for _, r := range side[1:] {
		if r.Score > best.Score || (r.Score == best.Score && r.Shots > best.Shots) {
			best = r
		}
	}
	return nameOf(best.Gamertag)
}

func teamOf(r domain.RawReport) string {
	return nameOf(r.TeamName)
}

func nameOf(s string) string {
	if s == "" {
		return constants.UnknownName
	}
	return s
}
