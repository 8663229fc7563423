package stats

import (
	"reflect"
	"testing"

	"zamboni-stats/internal/domain"
)

// report builds a RawReport with the fields the aggregator reads.
func report(gameID, gamertag, team string, score int, side domain.Side) domain.RawReport {
	return domain.RawReport{
		GameID:    gameID,
		Gamertag:  gamertag,
		TeamName:  team,
		Score:     score,
		Side:      side,
		CreatedAt: "2025-01-01T12:00:00Z",
	}
}

func TestAggregateGamesScenarioA(t *testing.T) {
	reports := []domain.RawReport{
		report("1", "Al", "Red", 3, domain.SideHome),
		report("1", "Bo", "Blue", 2, domain.SideAway),
	}

	games := AggregateGames(reports, nil)
	g, ok := games["1"]
	if !ok {
		t.Fatalf("game 1 missing from %v", games)
	}
	if g.HomeTeam != "Red" || g.AwayTeam != "Blue" {
		t.Errorf("teams = %s vs %s, want Red vs Blue", g.HomeTeam, g.AwayTeam)
	}
	if g.HomeScore != 3 || g.AwayScore != 2 {
		t.Errorf("score = %d-%d, want 3-2", g.HomeScore, g.AwayScore)
	}
	if g.HomePlayerName != "Al" || g.AwayPlayerName != "Bo" {
		t.Errorf("players = %s vs %s, want Al vs Bo", g.HomePlayerName, g.AwayPlayerName)
	}
	if g.Solo {
		t.Error("two-team game reported as solo")
	}
}

func TestAggregateGamesSoloScenarioC(t *testing.T) {
	reports := []domain.RawReport{report("7", "Cy", "Green", 4, domain.SideUnset)}

	g := AggregateGames(reports, nil)["7"]
	if !g.Solo {
		t.Error("expected solo game")
	}
	if g.AwayTeam != g.HomeTeam {
		t.Errorf("awayTeam = %q, want %q", g.AwayTeam, g.HomeTeam)
	}
	if g.AwayScore != g.HomeScore || g.HomeScore != 4 {
		t.Errorf("score = %d-%d, want 4-4", g.HomeScore, g.AwayScore)
	}
	if g.AwayPlayerName != "Cy" {
		t.Errorf("away player = %q, want Cy", g.AwayPlayerName)
	}
}

func TestAggregateGamesSideFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		reports  []domain.RawReport
		wantHome string
		wantAway string
	}{
		{
			name: "no flags uses insertion order",
			reports: []domain.RawReport{
				report("1", "A", "Blue", 1, domain.SideUnset),
				report("1", "B", "Red", 2, domain.SideUnset),
			},
			wantHome: "Blue",
			wantAway: "Red",
		},
		{
			name: "home flag on second row",
			reports: []domain.RawReport{
				report("1", "A", "Blue", 1, domain.SideUnset),
				report("1", "B", "Red", 2, domain.SideHome),
			},
			wantHome: "Red",
			wantAway: "Blue",
		},
		{
			name: "away flag only",
			reports: []domain.RawReport{
				report("1", "A", "Blue", 1, domain.SideAway),
				report("1", "B", "Red", 2, domain.SideUnset),
			},
			wantHome: "Red",
			wantAway: "Blue",
		},
		{
			name: "away flag only with unflagged teammate",
			reports: []domain.RawReport{
				report("1", "A", "Blue", 1, domain.SideUnset),
				report("1", "B", "Red", 2, domain.SideAway),
				report("1", "C", "Blue", 3, domain.SideUnset),
			},
			wantHome: "Blue",
			wantAway: "Red",
		},
		{
			name: "both flags on one team",
			reports: []domain.RawReport{
				report("1", "A", "Blue", 1, domain.SideHome),
				report("1", "B", "Blue", 1, domain.SideAway),
				report("1", "C", "Red", 2, domain.SideUnset),
			},
			wantHome: "Blue",
			wantAway: "Red",
		},
		{
			name: "missing team names",
			reports: []domain.RawReport{
				report("1", "A", "", 1, domain.SideHome),
				report("1", "B", "Red", 2, domain.SideUnset),
			},
			wantHome: "Unknown",
			wantAway: "Red",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := AggregateGames(tt.reports, nil)["1"]
			if g.HomeTeam != tt.wantHome || g.AwayTeam != tt.wantAway {
				t.Errorf("got %q vs %q, want %q vs %q", g.HomeTeam, g.AwayTeam, tt.wantHome, tt.wantAway)
			}
			if g.Solo {
				t.Error("two-team game reported as solo")
			}
		})
	}
}

func TestAggregateGamesMultiPlayerTeams(t *testing.T) {
	reports := []domain.RawReport{
		report("9", "A", "Red", 2, domain.SideHome),
		report("9", "B", "Red", 1, domain.SideHome),
		report("9", "C", "Blue", 0, domain.SideAway),
		report("9", "D", "Blue", 4, domain.SideAway),
	}

	g := AggregateGames(reports, nil)["9"]
	if g.HomeScore != 3 || g.AwayScore != 4 {
		t.Errorf("score = %d-%d, want 3-4", g.HomeScore, g.AwayScore)
	}
	if g.HomePlayerName != "A" || g.AwayPlayerName != "D" {
		t.Errorf("representatives = %s / %s, want A / D", g.HomePlayerName, g.AwayPlayerName)
	}
	if g.Players != 4 || g.TotalGoals != 7 {
		t.Errorf("players=%d goals=%d, want 4 and 7", g.Players, g.TotalGoals)
	}
}

func TestRepresentativeTieBreak(t *testing.T) {
	a := report("1", "First", "Red", 2, domain.SideHome)
	a.Shots = 5
	b := report("1", "MoreShots", "Red", 2, domain.SideHome)
	b.Shots = 9
	c := report("1", "SameShots", "Red", 2, domain.SideHome)
	c.Shots = 9

	g := AggregateGames([]domain.RawReport{a, b, c}, nil)["1"]
	if g.HomePlayerName != "MoreShots" {
		t.Errorf("home player = %q, want MoreShots", g.HomePlayerName)
	}
}

func TestAggregateGamesDropsMissingIDs(t *testing.T) {
	reports := []domain.RawReport{
		report("", "Ghost", "Red", 9, domain.SideHome),
		report("2", "Al", "Red", 1, domain.SideHome),
	}
	games := AggregateGames(reports, nil)
	if len(games) != 1 {
		t.Fatalf("len(games) = %d, want 1", len(games))
	}
	if _, ok := games[""]; ok {
		t.Error("report without game id was grouped")
	}
}

func TestAggregateGamesPlayedAt(t *testing.T) {
	reports := []domain.RawReport{
		{GameID: "1", Gamertag: "Al", TeamName: "Red", CreatedAt: "2025-01-01T10:00:00Z"},
		{GameID: "1", Gamertag: "Bo", TeamName: "Blue", CreatedAt: "2025-01-01T09:00:00Z"},
		{GameID: "2", Gamertag: "Al", TeamName: "Red", CreatedAt: "2025-01-02T10:00:00Z"},
	}
	games := []domain.RawGame{
		{GameID: "1", CreatedAt: "2024-12-31T23:00:00Z", Finished: true},
		{GameID: "1", CreatedAt: "2025-01-01T08:00:00Z", Finished: true, Venue: "Rink"},
	}

	derived := AggregateGames(reports, games)
	if got := derived["1"].PlayedAt; got != "2025-01-01T08:00:00Z" {
		t.Errorf("game 1 playedAt = %q, want last raw game timestamp", got)
	}
	if got := derived["1"].Venue; got != "Rink" {
		t.Errorf("game 1 venue = %q, want Rink", got)
	}
	if got := derived["1"].Status; got != "Finished" {
		t.Errorf("game 1 status = %q, want Finished", got)
	}
	if got := derived["2"].PlayedAt; got != "2025-01-02T10:00:00Z" {
		t.Errorf("game 2 playedAt = %q, want first report timestamp", got)
	}
	if got := derived["2"].Status; got != "In Progress" {
		t.Errorf("game 2 status = %q, want In Progress", got)
	}
}

func TestAggregateGamesConservesGoals(t *testing.T) {
	reports := []domain.RawReport{
		report("1", "A", "Red", 3, domain.SideHome),
		report("1", "B", "Blue", 2, domain.SideAway),
		report("1", "C", "Blue", 1, domain.SideAway),
		report("2", "A", "Red", 0, domain.SideUnset),
		report("2", "D", "Green", 5, domain.SideUnset),
		report("3", "E", "", 2, domain.SideUnset),
		report("3", "F", "Gold", 2, domain.SideUnset),
		report("4", "A", "Blue", 1, domain.SideAway),
		report("4", "B", "Red", 2, domain.SideUnset),
		report("5", "C", "Red", 4, domain.SideUnset),
		report("5", "D", "Blue", 1, domain.SideAway),
		report("5", "E", "Red", 1, domain.SideUnset),
		report("5", "F", "Blue", 2, domain.SideUnset),
	}

	want := make(map[string]int)
	teams := make(map[string]map[string]bool)
	for _, r := range reports {
		want[r.GameID] += r.Score
		if teams[r.GameID] == nil {
			teams[r.GameID] = make(map[string]bool)
		}
		teams[r.GameID][teamOf(r)] = true
	}

	for id, g := range AggregateGames(reports, nil) {
		if len(teams[id]) >= 2 && g.HomeTeam == g.AwayTeam {
			t.Errorf("game %s: %d teams but home == away == %q", id, len(teams[id]), g.HomeTeam)
		}
		if g.Solo {
			continue
		}
		if got := g.HomeScore + g.AwayScore; got != want[id] {
			t.Errorf("game %s: home+away = %d, want %d", id, got, want[id])
		}
	}
}

func TestAggregateGamesIdempotent(t *testing.T) {
	reports := []domain.RawReport{
		report("1", "Al", "Red", 3, domain.SideHome),
		report("1", "Bo", "Blue", 2, domain.SideAway),
		report("2", "Al", "Red", 1, domain.SideUnset),
	}
	before := make([]domain.RawReport, len(reports))
	copy(before, reports)

	first := AggregateGames(reports, nil)
	second := AggregateGames(reports, nil)
	if !reflect.DeepEqual(first, second) {
		t.Error("AggregateGames is not idempotent")
	}
	if !reflect.DeepEqual(before, reports) {
		t.Error("AggregateGames mutated its input")
	}
}

func TestAggregateGamesEmpty(t *testing.T) {
	if got := AggregateGames(nil, nil); len(got) != 0 {
		t.Errorf("AggregateGames(nil) = %v, want empty", got)
	}
}

func TestRecentGames(t *testing.T) {
	derived := map[string]domain.DerivedGame{
		"a": {GameID: "a", PlayedAt: "2025-01-01T00:00:00Z"},
		"b": {GameID: "b", PlayedAt: "2025-03-01T00:00:00Z"},
		"c": {GameID: "c", PlayedAt: "not a date"},
		"d": {GameID: "d", PlayedAt: "2025-02-01 00:00:00"},
	}

	got := RecentGames(derived, 3)
	var ids []string
	for _, g := range got {
		ids = append(ids, g.GameID)
	}
	want := []string{"b", "d", "a"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("RecentGames order = %v, want %v", ids, want)
	}
}
