package stats

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"zamboni-stats/internal/constants"
	"zamboni-stats/internal/domain"
)

// WindowStart is the earliest report time a leaderboard range includes.
func WindowStart(rng domain.Range, now time.Time) time.Time {
	day := time.Duration(constants.DayMillis) * time.Millisecond
	switch rng {
	case domain.RangeDay:
		return now.Add(-day)
	case domain.RangeWeekly:
		return now.Add(-7 * day)
	case domain.RangeMonthly:
		return now.Add(-30 * day)
	default:
		return time.Unix(0, 0).UTC()
	}
}

// AggregatePlayers totals every player's games inside the window. A player's
// goals against in a game is the sum over every other report of that game,
// whichever team filed it. Players come back in first-seen order.
func AggregatePlayers(reports []domain.RawReport, rng domain.Range, now time.Time) []domain.PlayerAggregate {
	minTime := WindowStart(rng, now)

	filtered := make([]domain.RawReport, 0, len(reports))
	for _, r := range reports {
		if ParseTimestamp(r.CreatedAt).Before(minTime) {
			continue
		}
		filtered = append(filtered, r)
	}

	grouped, order := groupByGame(filtered)

	index := make(map[string]int)
	var players []domain.PlayerAggregate
	for _, id := range order {
		reps := grouped[id]
		counted := make(map[string]bool, len(reps))
		for _, own := range reps {
			if own.Gamertag == "" || counted[own.Gamertag] {
				continue
			}
			counted[own.Gamertag] = true

			oppScore := 0
			for _, other := range reps {
				if other.Gamertag != own.Gamertag {
					oppScore += other.Score
				}
			}

			i, ok := index[own.Gamertag]
			if !ok {
				i = len(players)
				index[own.Gamertag] = i
				players = append(players, domain.PlayerAggregate{Gamertag: own.Gamertag})
			}
			p := &players[i]
			p.GamesPlayed++
			p.GoalsFor += own.Score
			p.GoalsAgainst += oppScore
			p.Shots += own.Shots
			p.Faceoffs += own.Faceoff
			p.PenMin += own.PenMin
			switch ClassifyOutcome(own.Score, oppScore) {
			case domain.OutcomeWin:
				p.Wins++
			case domain.OutcomeLoss:
				p.Losses++
			}
		}
	}

	for i := range players {
		p := &players[i]
		p.GoalDiff = p.GoalsFor - p.GoalsAgainst
		if p.GamesPlayed > 0 {
			p.GoalsPerGame = float64(p.GoalsFor) / float64(p.GamesPlayed)
			p.Winrate = float64(p.Wins) / float64(p.GamesPlayed) * 100
		}
	}
	return players
}

// ComputeLeaderboards ranks the players of a window in six categories, top
// constants.LeaderboardTopN each. Equal values are ordered by gamertag.
func ComputeLeaderboards(reports []domain.RawReport, rng domain.Range, now time.Time) domain.Leaderboards {
	players := AggregatePlayers(reports, rng, now)
	return domain.Leaderboards{
		Range:        rng,
		Goals:        topN(players, func(p domain.PlayerAggregate) float64 { return float64(p.GoalsFor) }),
		GoalsPerGame: topN(players, func(p domain.PlayerAggregate) float64 { return p.GoalsPerGame }),
		Winrate:      topN(players, func(p domain.PlayerAggregate) float64 { return p.Winrate }),
		Wins:         topN(players, func(p domain.PlayerAggregate) float64 { return float64(p.Wins) }),
		GoalDiff:     topN(players, func(p domain.PlayerAggregate) float64 { return float64(p.GoalDiff) }),
		GamesPlayed:  topN(players, func(p domain.PlayerAggregate) float64 { return float64(p.GamesPlayed) }),
	}
}

func topN(players []domain.PlayerAggregate, metric func(domain.PlayerAggregate) float64) []domain.PlayerAggregate {
	ranked := make([]domain.PlayerAggregate, len(players))
	copy(ranked, players)
	sort.Slice(ranked, func(i, j int) bool {
		mi, mj := metric(ranked[i]), metric(ranked[j])
		if mi != mj {
			return mi > mj
		}
		return ranked[i].Gamertag < ranked[j].Gamertag
	})
	if len(ranked) > constants.LeaderboardTopN {
		ranked = ranked[:constants.LeaderboardTopN]
	}
	return ranked
}

// Categories lists the boards in display order with their value formatting.
func Categories(lb domain.Leaderboards) []domain.LeaderboardCategory {
	return []domain.LeaderboardCategory{
		{Key: "goals", Label: "Total Goals", Players: lb.Goals, Value: func(p domain.PlayerAggregate) string { return strconv.Itoa(p.GoalsFor) }},
		{Key: "goals_per_game", Label: "Goals / Game", Players: lb.GoalsPerGame, Value: func(p domain.PlayerAggregate) string { return fmt.Sprintf("%.2f", p.GoalsPerGame) }},
		{Key: "winrate", Label: "Win Rate", Players: lb.Winrate, Value: func(p domain.PlayerAggregate) string { return fmt.Sprintf("%.1f%%", p.Winrate) }},
		{Key: "wins", Label: "Wins", Players: lb.Wins, Value: func(p domain.PlayerAggregate) string { return strconv.Itoa(p.Wins) }},
		{Key: "goal_diff", Label: "Goal Differential", Players: lb.GoalDiff, Value: func(p domain.PlayerAggregate) string { return fmt.Sprintf("%+d", p.GoalDiff) }},
		{Key: "games_played", Label: "Games Played", Players: lb.GamesPlayed, Value: func(p domain.PlayerAggregate) string { return strconv.Itoa(p.GamesPlayed) }},
	}
}

// FilterPlayers keeps names containing query (case-insensitive), sorted.
func FilterPlayers(names []string, query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if q == "" || strings.Contains(strings.ToLower(n), q) {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
