package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionStatsRecord(t *testing.T) {
	var stats SessionStats
	play := func(outcome Outcome, bet, payout Amount) {
		stats.Record(HandRecord{Outcome: outcome, Bet: bet, Payout: payout})
	}

	play(OutcomeWin, 100, 200)
	play(OutcomeBlackjack, 100, 250)
	assert.Equal(t, 2, stats.CurrentStreak)
	assert.Equal(t, 2, stats.LongestWinStreak)

	play(OutcomePush, 100, 100)
	assert.Equal(t, 2, stats.CurrentStreak, "push leaves the streak alone")

	play(OutcomeLoss, 100, 0)
	assert.Equal(t, -1, stats.CurrentStreak)
	play(OutcomeLoss, 200, 0)
	assert.Equal(t, -2, stats.CurrentStreak)

	play(OutcomeWin, 100, 200)
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 2, stats.LongestWinStreak)

	assert.Equal(t, 6, stats.TotalHands)
	assert.Equal(t, 3, stats.HandsWon)
	assert.Equal(t, 2, stats.HandsLost)
	assert.Equal(t, 1, stats.HandsPushed)
	assert.Equal(t, 1, stats.Blackjacks)
	assert.Equal(t, Amount(700), stats.TotalWagered)
	assert.Equal(t, Amount(750), stats.TotalWon)
	assert.Equal(t, Amount(50), stats.NetProfit())
	assert.Equal(t, Amount(150), stats.BiggestWin)
	assert.Equal(t, Amount(-200), stats.BiggestLoss)
	assert.InDelta(t, 50.0, stats.WinRate(), 0.001)
}

func TestAmountTimes(t *testing.T) {
	v, ok := Amount(100).Times(5, 2)
	assert.True(t, ok)
	assert.Equal(t, Amount(250), v)

	_, ok = Amount(5).Times(5, 2)
	assert.False(t, ok, "odd stake has no exact 5/2")

	assert.Equal(t, Amount(50), Amount(100).Half())
}
