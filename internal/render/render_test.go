package render

import (
	"bytes"
	"strings"
	"testing"
	"zamboni-stats/internal/domain"
)

func TestRenderers(t *testing.T) {
	lb := domain.Leaderboards{
		Range:       domain.RangeWeekly,
		Goals:       []domain.PlayerAggregate{{Gamertag: "Al", GoalsFor: 7, GamesPlayed: 2}},
		GoalDiff:    []domain.PlayerAggregate{{Gamertag: "Al", GoalDiff: 3, GamesPlayed: 2}},
		GamesPlayed: []domain.PlayerAggregate{{Gamertag: "Al", GamesPlayed: 2}},
	}

	tests := []struct {
		name string
		run  func(*bytes.Buffer)
		want []string
	}{
		{
			name: "games",
			run: func(b *bytes.Buffer) {
				Games(b, []domain.DerivedGame{
					{GameID: "1", HomeTeam: "Red", AwayTeam: "Blue", HomeScore: 3, AwayScore: 1, HomePlayerName: "Al", AwayPlayerName: "Bo", Status: "Finished"},
					{GameID: "2", HomeTeam: "Solo", HomeScore: 2, HomePlayerName: "Cy", Solo: true, Status: "In Progress"},
				})
			},
			want: []string{"Red", "3 - 1", "Bo", "Finished", "In Progress", dash},
		},
		{
			name: "no games",
			run:  func(b *bytes.Buffer) { Games(b, nil) },
			want: []string{"No games found."},
		},
		{
			name: "history",
			run: func(b *bytes.Buffer) {
				History(b, "Al", []domain.HistoryEntry{
					{MyTeam: "Red", OpponentPlayer: "Bo", OpponentTeam: "Blue", MyScore: 3, OppScore: 1, Outcome: domain.OutcomeWin},
					{MyTeam: "Red", OpponentPlayer: "Cy", OpponentTeam: "Green", MyScore: 2, OppScore: 2, Outcome: domain.OutcomeDraw},
				})
			},
			want: []string{"Win", "Draw", "Al: 1 W / 0 L / 1 D over last 2 games"},
		},
		{
			name: "leaderboards",
			run:  func(b *bytes.Buffer) { Leaderboards(b, lb) },
			want: []string{"Leaderboards (weekly)", "Total Goals", "Goal Differential", "+3", "Games Played"},
		},
		{
			name: "empty leaderboards",
			run:  func(b *bytes.Buffer) { Leaderboards(b, domain.Leaderboards{Range: domain.RangeDay}) },
			want: []string{"No games in this range."},
		},
		{
			name: "players",
			run:  func(b *bytes.Buffer) { Players(b, []string{"Al", "Bo"}) },
			want: []string{"GAMERTAG", "Bo", "(2 players)"},
		},
		{
			name: "profile",
			run: func(b *bytes.Buffer) {
				Profile(b, &domain.Profile{PlayerName: "Al", UserID: "7", TotalGames: 4, TotalGoals: 10, SO: &domain.ModeTotals{Games: 2, Goals: 1}})
			},
			want: []string{"Al  (id 7)", "2.50", "SO", "0.50"},
		},
		{
			name: "status online",
			run: func(b *bytes.Buffer) {
				Status(b, domain.VersionNHL11, &domain.ServerStatus{ServerVersion: "1.2", OnlineUsersCount: 2, OnlineUsers: "Al, Bo"})
			},
			want: []string{"nhl11: Online", "1.2", "Online: Al, Bo"},
		},
		{
			name: "status offline",
			run:  func(b *bytes.Buffer) { Status(b, domain.VersionNHL14, nil) },
			want: []string{"nhl14: Offline"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.run(&buf)
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestWhen(t *testing.T) {
	if got := When(""); got != dash {
		t.Errorf("When(\"\") = %q, want dash", got)
	}
	if got := When("not a date"); got != "not a date" {
		t.Errorf("When(garbage) = %q, want input echoed", got)
	}
	if got := When("2025-06-15T10:00:00Z"); !strings.HasPrefix(got, "2025-06-1") {
		t.Errorf("When(rfc3339) = %q", got)
	}
}
