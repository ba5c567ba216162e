package session

import (
	"context"
	"fmt"

	"github.com/fadedpez/tablejack/pkg/entities"
	"github.com/fadedpez/tablejack/pkg/services/blackjack"
)

// Recorder books a table's settlements against one session
type Recorder struct {
	service   *Service
	sessionID string
}

// Recorder returns a blackjack.SettlementRecorder for sessionID
func (s *Service) Recorder(sessionID string) *Recorder {
	return &Recorder{service: s, sessionID: sessionID}
}

// RecordSettlement stakes and settles each hand in turn, then lines the
// session balance up with the table's, which also covers insurance.
func (r *Recorder) RecordSettlement(ctx context.Context, settlement blackjack.Settlement) error {
	for _, hand := range settlement.Hands {
		if _, err := r.service.PlaceBet(ctx, r.sessionID, hand.Bet); err != nil {
			return fmt.Errorf("staking %s hand %d: %w", hand.SeatID, hand.HandIndex, err)
		}

		_, _, err := r.service.RecordResult(ctx, r.sessionID, entities.HandRecord{
			RoundID:     settlement.RoundID,
			SeatID:      hand.SeatID,
			HandIndex:   hand.HandIndex,
			Bet:         hand.Bet,
			Payout:      hand.Payout,
			Outcome:     hand.Outcome,
			PlayerValue: hand.PlayerValue,
			DealerValue: settlement.DealerValue,
			IsDouble:    hand.IsDouble,
			IsSplit:     hand.IsSplit,
		})
		if err != nil {
			return fmt.Errorf("settling %s hand %d: %w", hand.SeatID, hand.HandIndex, err)
		}
	}

	return r.service.SyncBalance(ctx, r.sessionID, settlement.BalanceAfter)
}
