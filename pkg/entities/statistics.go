package entities

import "time"

// SessionStats are the cumulative results of a session
type SessionStats struct {
	TotalHands       int       `json:"totalHands"`
	HandsWon         int       `json:"handsWon"`
	HandsLost        int       `json:"handsLost"`
	HandsPushed      int       `json:"handsPushed"`
	Blackjacks       int       `json:"blackjacks"`
	TotalWagered     Amount    `json:"totalWagered"`
	TotalWon         Amount    `json:"totalWon"`
	BiggestWin       Amount    `json:"biggestWin"`
	BiggestLoss      Amount    `json:"biggestLoss"`
	CurrentStreak    int       `json:"currentStreak"`
	LongestWinStreak int       `json:"longestWinStreak"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

// Record folds one settled hand into the stats.
//
// CurrentStreak is signed: positive while winning, negative while losing.
// A push leaves it alone.
func (s *SessionStats) Record(r HandRecord) {
	s.TotalHands++
	s.TotalWagered += r.Bet
	s.TotalWon += r.Payout

	switch r.Outcome {
	case OutcomeWin, OutcomeBlackjack:
		s.HandsWon++
		if r.Outcome == OutcomeBlackjack {
			s.Blackjacks++
		}
		if s.CurrentStreak >= 0 {
			s.CurrentStreak++
		} else {
			s.CurrentStreak = 1
		}
		if s.CurrentStreak > s.LongestWinStreak {
			s.LongestWinStreak = s.CurrentStreak
		}
	case OutcomeLoss:
		s.HandsLost++
		if s.CurrentStreak <= 0 {
			s.CurrentStreak--
		} else {
			s.CurrentStreak = -1
		}
	case OutcomePush:
		s.HandsPushed++
	}

	profit := r.Profit()
	if profit > s.BiggestWin {
		s.BiggestWin = profit
	}
	if profit < s.BiggestLoss {
		s.BiggestLoss = profit
	}
	s.LastUpdated = r.RecordedAt
}

// NetProfit calculates the session's net profit
func (s *SessionStats) NetProfit() Amount {
	return s.TotalWon - s.TotalWagered
}

// WinRate calculates the win rate as a percentage
func (s *SessionStats) WinRate() float64 {
	if s.TotalHands == 0 {
		return 0.0
	}
	return float64(s.HandsWon) / float64(s.TotalHands) * 100.0
}
