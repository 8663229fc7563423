package stats

import "zamboni-stats/internal/domain"

// ClassifyOutcome compares a player's score against the opposing score.
func ClassifyOutcome(myScore, oppScore int) domain.MatchOutcome {
	switch {
	case myScore > oppScore:
		return domain.OutcomeWin
	case myScore < oppScore:
		return domain.OutcomeLoss
	default:
		return domain.OutcomeDraw
	}
}
