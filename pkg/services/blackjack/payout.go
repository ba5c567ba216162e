package blackjack

import (
	"fmt"

	"github.com/fadedpez/tablejack/internal/types"
	"github.com/fadedpez/tablejack/pkg/entities"
)

// payoutRatios are the amounts returned per unit staked, stake included
var payoutRatios = map[entities.Outcome][2]int64{
	entities.OutcomeBlackjack: {5, 2},
	entities.OutcomeWin:       {2, 1},
	entities.OutcomePush:      {1, 1},
	entities.OutcomeLoss:      {0, 1},
}

// Payout returns what a settled hand gets back, stake included
func Payout(h Hand, outcome entities.Outcome) (entities.Amount, error) {
	ratio, ok := payoutRatios[outcome]
	if !ok {
		return 0, types.NewGameError(types.ErrInvariant, fmt.Sprintf("unknown outcome %q", outcome))
	}

	amount, exact := h.Bet.Times(ratio[0], ratio[1])
	if !exact {
		return 0, types.NewGameError(types.ErrInvariant,
			fmt.Sprintf("bet %d has no exact %d/%d payout", h.Bet, ratio[0], ratio[1]))
	}
	return amount, nil
}

// InsurancePayout pays twice the stake when the dealer has blackjack
func InsurancePayout(stake entities.Amount, dealerBlackjack bool) entities.Amount {
	if !dealerBlackjack {
		return 0
	}
	return stake * 2
}
