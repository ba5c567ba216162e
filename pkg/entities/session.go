package entities

import "time"

// Session is one player's bankroll and running stats
type Session struct {
	ID          string       `json:"id"`
	PlayerID    string       `json:"playerId"`
	Balance     Amount       `json:"balance"`
	CurrentBet  Amount       `json:"currentBet"`
	StartedAt   time.Time    `json:"startedAt"`
	LastUpdated time.Time    `json:"lastUpdated"`
	Stats       SessionStats `json:"stats"`
}

// HandRecord is the settled result of a single hand
type HandRecord struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"sessionId"`
	RoundID     string    `json:"roundId"`
	SeatID      string    `json:"seatId"`
	HandIndex   int       `json:"handIndex"`
	Bet         Amount    `json:"bet"`
	Payout      Amount    `json:"payout"`
	Outcome     Outcome   `json:"outcome"`
	PlayerValue int       `json:"playerValue"`
	DealerValue int       `json:"dealerValue"`
	IsDouble    bool      `json:"isDouble"`
	IsSplit     bool      `json:"isSplit"`
	RecordedAt  time.Time `json:"recordedAt"`
}

// Profit is payout minus the amount staked
func (r HandRecord) Profit() Amount {
	return r.Payout - r.Bet
}

// LeaderboardEntry is a ranked row of the leaderboard
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	SessionID   string `json:"sessionId"`
	PlayerID    string `json:"playerId"`
	Balance     Amount `json:"balance"`
	NetProfit   Amount `json:"netProfit"`
	HandsPlayed int    `json:"handsPlayed"`
}
