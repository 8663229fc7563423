package stats

import (
	"sort"

	"zamboni-stats/internal/constants"
	"zamboni-stats/internal/domain"
)

// BuildPlayerHistory lists the games gamertag took part in, newest first,
// capped at constants.HistoryLimit. reports are re-grouped to find the
// player's own row and an opponent per game.
func BuildPlayerHistory(gamertag string, games map[string]domain.DerivedGame, reports []domain.RawReport) []domain.HistoryEntry {
	grouped, order := groupByGame(reports)

	entries := make([]domain.HistoryEntry, 0)
	for _, id := range order {
		game, ok := games[id]
		if !ok {
			continue
		}
		reps := grouped[id]

		mine, found := findPlayer(reps, gamertag)
		if !found {
			continue
		}

		myTeam := teamOf(mine)
		myScore, oppScore, oppTeam := game.HomeScore, game.AwayScore, game.AwayTeam
		if !game.Solo && myTeam != game.HomeTeam {
			myScore, oppScore, oppTeam = game.AwayScore, game.HomeScore, game.HomeTeam
		}

		opponent := constants.UnknownName
		for _, r := range reps {
			if r.Gamertag != gamertag {
				opponent = nameOf(r.Gamertag)
				break
			}
		}

		entries = append(entries, domain.HistoryEntry{
			DerivedGame:    game,
			MyPlayer:       gamertag,
			OpponentPlayer: opponent,
			MyTeam:         myTeam,
			OpponentTeam:   oppTeam,
			MyScore:        myScore,
			OppScore:       oppScore,
			Outcome:        ClassifyOutcome(myScore, oppScore),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		ti, tj := ParseTimestamp(entries[i].PlayedAt), ParseTimestamp(entries[j].PlayedAt)
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return entries[i].GameID < entries[j].GameID
	})

	if len(entries) > constants.HistoryLimit {
		entries = entries[:constants.HistoryLimit]
	}
	return entries
}

func findPlayer(reps []domain.RawReport, gamertag string) (domain.RawReport, bool) {
	for _, r := range reps {
		if r.Gamertag == gamertag {
			return r, true
		}
	}
	return domain.RawReport{}, false
}
