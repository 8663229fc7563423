// Package render prints stats results as terminal tables.
package render

import (
	"fmt"
	"io"
	"strconv"
	"zamboni-stats/internal/domain"
	"zamboni-stats/internal/stats"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

const dash = "—"

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// When formats a timestamp for display, or a dash when it cannot be parsed.
func When(s string) string {
	t := stats.ParseTimestamp(s)
	if t.Unix() == 0 {
		if s == "" {
			return dash
		}
		return s
	}
	return t.Local().Format("2006-01-02 15:04")
}

func val(s string) string {
	if s == "" {
		return dash
	}
	return s
}

// Games prints the recent-games feed.
func Games(w io.Writer, games []domain.DerivedGame) {
	if len(games) == 0 {
		fmt.Fprintln(w, "No games found.")
		return
	}

	table := newTable(w)
	table.Header("PLAYED", "HOME", "SCORE", "AWAY", "HOME PLAYER", "AWAY PLAYER", "STATUS", "FPS", "LATENCY")
	for _, g := range games {
		away, awayPlayer := g.AwayTeam, g.AwayPlayerName
		if g.Solo {
			away, awayPlayer = dash, dash
		}
		table.Append(
			When(g.PlayedAt),
			g.HomeTeam,
			fmt.Sprintf("%d - %d", g.HomeScore, g.AwayScore),
			away,
			g.HomePlayerName,
			awayPlayer,
			g.Status,
			fmt.Sprintf("%.1f", g.AvgFPS),
			fmt.Sprintf("%.1f", g.AvgLatency),
		)
	}
	table.Render()
}

// History prints a player's recent games with a win/loss/draw summary line.
func History(w io.Writer, gamertag string, entries []domain.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintf(w, "No games found for %s.\n", gamertag)
		return
	}

	var wins, losses, draws int
	table := newTable(w)
	table.Header("PLAYED", "TEAM", "SCORE", "OPPONENT", "OPP TEAM", "RESULT")
	for _, e := range entries {
		switch e.Outcome {
		case domain.OutcomeWin:
			wins++
		case domain.OutcomeLoss:
			losses++
		default:
			draws++
		}
		table.Append(
			When(e.PlayedAt),
			e.MyTeam,
			fmt.Sprintf("%d - %d", e.MyScore, e.OppScore),
			e.OpponentPlayer,
			e.OpponentTeam,
			string(e.Outcome),
		)
	}
	table.Render()
	fmt.Fprintf(w, "\n%s: %d W / %d L / %d D over last %d games\n", gamertag, wins, losses, draws, len(entries))
}

// Leaderboards prints one ranked table per category.
func Leaderboards(w io.Writer, lb domain.Leaderboards) {
	fmt.Fprintf(w, "Leaderboards (%s)\n", lb.Range)
	if len(lb.GamesPlayed) == 0 {
		fmt.Fprintln(w, "No games in this range.")
		return
	}

	for _, cat := range stats.Categories(lb) {
		fmt.Fprintf(w, "\n%s\n", cat.Label)
		table := newTable(w)
		table.Header("#", "PLAYER", "VALUE", "GP")
		for i, p := range cat.Players {
			table.Append(strconv.Itoa(i+1), p.Gamertag, cat.Value(p), strconv.Itoa(p.GamesPlayed))
		}
		table.Render()
	}
}

func Players(w io.Writer, players []string) {
	if len(players) == 0 {
		fmt.Fprintln(w, "No players found.")
		return
	}
	table := newTable(w)
	table.Header("#", "GAMERTAG")
	for i, p := range players {
		table.Append(strconv.Itoa(i+1), p)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d players)\n", len(players))
}

// Profile prints the headline totals followed by any per-mode splits.
func Profile(w io.Writer, p *domain.Profile) {
	fmt.Fprintf(w, "%s  (id %s)\n\n", val(p.PlayerName), val(p.UserID))

	table := newTable(w)
	table.Header("MODE", "GAMES", "GOALS", "GOALS/GAME")
	table.Append("ALL", strconv.Itoa(p.TotalGames), strconv.Itoa(p.TotalGoals), fmt.Sprintf("%.2f", p.AvgGoals()))
	modes := []struct {
		name   string
		totals *domain.ModeTotals
	}{
		{domain.ModeVS, p.VS},
		{domain.ModeSO, p.SO},
		{domain.ModeOTP, p.OTP},
	}
	for _, m := range modes {
		if m.totals == nil {
			continue
		}
		perGame := 0.0
		if m.totals.Games > 0 {
			perGame = float64(m.totals.Goals) / float64(m.totals.Games)
		}
		table.Append(m.name, strconv.Itoa(m.totals.Games), strconv.Itoa(m.totals.Goals), fmt.Sprintf("%.2f", perGame))
	}
	table.Render()
}

// Status prints the server status. A nil status renders as offline.
func Status(w io.Writer, version domain.APIVersion, status *domain.ServerStatus) {
	if status == nil {
		fmt.Fprintf(w, "%s: Offline\n", version)
		return
	}
	fmt.Fprintf(w, "%s: Online\n\n", version)

	table := newTable(w)
	table.Header("SERVER VERSION", "ONLINE", "QUEUED", "ACTIVE GAMES")
	table.Append(val(status.ServerVersion), strconv.Itoa(status.OnlineUsersCount), strconv.Itoa(status.QueuedUsers), strconv.Itoa(status.ActiveGames))
	table.Render()
	if status.OnlineUsers != "" {
		fmt.Fprintf(w, "\nOnline: %s\n", status.OnlineUsers)
	}
}
