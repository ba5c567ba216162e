package blackjack

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadedpez/tablejack/internal/types"
	"github.com/fadedpez/tablejack/pkg/entities"
)

// checkDealerBlackjack settles insurance and ends the round early when the
// dealer holds a natural. Otherwise play passes to the first open hand.
func (g *Game) checkDealerBlackjack() {
	next := g.state.Clone()
	dealerBlackjack := Evaluate(next.DealerHand).IsBlackjack

	for _, id := range next.SeatOrder {
		stake, ok := next.InsuranceBets[id]
		if !ok {
			continue
		}
		paid := InsurancePayout(stake, dealerBlackjack)
		next.InsurancePaid += paid
		next.Balance += paid
	}
	next.DealerChecked = true
	next.Busy = false

	if dealerBlackjack {
		revealDealer(&next)
		if err := g.settle(&next); err != nil {
			g.abort(err)
			return
		}
		next.Message = "Dealer Blackjack! " + next.Message
		g.transition(next)
		return
	}

	g.moveToPlayable(&next, 0)
	g.transition(next)
}

func (g *Game) enterDealerTurn(next *RoundState) {
	next.ActiveSeatID = ""
	next.Phase = entities.PhaseDealerTurn
	next.Message = "Dealer playing"
	revealDealer(next)
}

func revealDealer(next *RoundState) {
	for i, card := range next.DealerHand {
		next.DealerHand[i] = card.Revealed()
	}
}

// dealerStep draws one dealer card per call until the dealer stands, then
// settles the round.
func (g *Game) dealerStep() {
	next := g.state.Clone()

	if ShouldDealerHit(next.DealerHand) {
		card, shoe, err := entities.Deal(next.Shoe, true)
		if err != nil {
			g.abort(err)
			return
		}
		next.Shoe = shoe
		next.DealerHand = append(next.DealerHand, card)
		next.Message = fmt.Sprintf("Dealer draws %s", card)
		g.commit(next)
		g.schedule("dealer-draw", g.opts.DealerDelay, entities.PhaseDealerTurn, g.dealerStep)
		return
	}

	if err := g.settle(&next); err != nil {
		g.abort(err)
		return
	}
	g.transition(next)
}

// settle pays every active hand against the dealer. It runs at most once per
// round.
func (g *Game) settle(next *RoundState) error {
	if next.Settled {
		return nil
	}

	dealer := Evaluate(next.DealerHand)
	settlement := Settlement{
		RoundID:       next.RoundID,
		DealerCards:   append([]entities.Card(nil), next.DealerHand...),
		DealerValue:   dealer.Value,
		InsurancePaid: next.InsurancePaid,
		SettledAt:     g.clock.Now(),
	}

	for _, seat := range next.ActiveSeats() {
		if len(seat.Hands) == 0 {
			return types.NewGameError(types.ErrInvariant, fmt.Sprintf("seat %s has no hands", seat.ID))
		}
		for i, hand := range seat.Hands {
			if len(hand.Cards) == 0 {
				return types.NewGameError(types.ErrInvariant,
					fmt.Sprintf("seat %s hand %d has no cards", seat.ID, i))
			}
			outcome := Compare(hand, next.DealerHand)
			amount, err := Payout(hand, outcome)
			if err != nil {
				return err
			}
			settlement.Hands = append(settlement.Hands, SettledHand{
				SeatID:      seat.ID,
				HandIndex:   i,
				Bet:         hand.Bet,
				Payout:      amount,
				Outcome:     outcome,
				PlayerValue: hand.Value().Value,
				IsDouble:    hand.IsDouble,
				IsSplit:     hand.IsSplit,
			})
			settlement.TotalPayout += amount
		}
	}

	next.Balance += settlement.TotalPayout
	settlement.BalanceAfter = next.Balance
	next.Settlement = &settlement
	next.Settled = true
	next.Phase = entities.PhaseComplete
	next.ActiveSeatID = ""
	next.Busy = false
	next.Message = fmt.Sprintf("Round complete. Payout: %d", settlement.TotalPayout)
	return nil
}

// afterSettlement reports the settled round and arms the optional auto
// reset. Callers hold g.mu.
func (g *Game) afterSettlement() {
	settlement := g.state.Settlement
	if settlement == nil {
		return
	}
	g.log.Info("round %s settled: payout %d, balance %d", settlement.RoundID, settlement.TotalPayout, settlement.BalanceAfter)

	if g.opts.Recorder != nil {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		err := g.opts.Recorder.RecordSettlement(ctx, *settlement)
		cancel()
		if err != nil {
			g.log.LogError(types.WrapError(types.ErrDatabaseError, "recording settlement", err))
		}
	}

	if g.opts.AutoResetDelay > 0 {
		g.schedule("auto-reset", g.opts.AutoResetDelay, entities.PhaseComplete, g.resetLocked)
	}
}

// abort ends a round that cannot continue. Unsettled stakes are refunded
// and the table is reset.
func (g *Game) abort(cause error) (RoundState, error) {
	err := roundError(cause)

	balance := g.state.Balance
	if !g.state.Settled {
		balance += g.state.committedStake()
	}
	next := newRoundState(balance, g.state.Generation+1)
	next.Message = "Round aborted: " + err.Message

	g.log.LogError(err)
	g.commit(next)
	return g.state.Clone(), err
}

func roundError(err error) *types.GameError {
	var gameErr *types.GameError
	if types.As(err, &gameErr) {
		return gameErr
	}
	if errors.Is(err, entities.ErrEmptyShoe) {
		return types.WrapError(types.ErrShoeExhausted, "shoe exhausted", err)
	}
	return types.WrapError(types.ErrInvariant, "round invariant violated", err)
}
