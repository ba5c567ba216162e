package blackjack

import (
	"github.com/fadedpez/tablejack/pkg/entities"
)

// IsEligibleForDoubleDown checks if the active hand can be doubled with the
// current balance
func (g *Game) IsEligibleForDoubleDown() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, _, hand, reason := g.actionableHand()
	return reason == "" && CanDouble(hand) && g.state.Balance >= hand.Bet
}

// IsEligibleForSplit checks if the active hand can be split with the current
// balance
func (g *Game) IsEligibleForSplit() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, _, hand, reason := g.actionableHand()
	return reason == "" && CanSplit(hand) && g.state.Balance >= hand.Bet
}

// IsEligibleForInsurance checks if seatID still has an insurance decision
// to make
func (g *Game) IsEligibleForInsurance(seatID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, reason := g.insurableSeat(seatID)
	return reason == ""
}

// Double doubles the active hand's bet, deals it exactly one card and stands
// it whatever the card was.
func (g *Game) Double() (RoundState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	seatID, index, hand, reason := g.actionableHand()
	if reason != "" {
		return g.reject(reason), nil
	}
	if !CanDouble(hand) {
		return g.reject("Cannot double this hand"), nil
	}
	if g.state.Balance < hand.Bet {
		return g.reject("Insufficient balance to double"), nil
	}

	next := g.state.Clone()
	next.Balance -= hand.Bet

	doubled, err := DoubleDown(hand)
	if err != nil {
		return g.abort(err)
	}
	card, shoe, err := entities.Deal(next.Shoe, true)
	if err != nil {
		return g.abort(err)
	}
	next.Shoe = shoe
	if doubled, err = AddCard(doubled, card); err != nil {
		return g.abort(err)
	}
	doubled.Status = StatusStand
	next.Seats[seatID].Hands[index] = doubled
	next.Message = "Doubled down"

	g.log.Debug("%s doubled to %d, drew %s", seatID, doubled.Bet, card)
	g.advance(&next)
	g.transition(next)
	return g.state.Clone(), nil
}

// Split turns the active pair into two hands, deals one card to each and
// keeps the cursor on the first.
func (g *Game) Split() (RoundState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	seatID, index, hand, reason := g.actionableHand()
	if reason != "" {
		return g.reject(reason), nil
	}
	if !CanSplit(hand) {
		return g.reject("Cannot split this hand"), nil
	}
	if g.state.Balance < hand.Bet {
		return g.reject("Insufficient balance to split"), nil
	}

	next := g.state.Clone()
	next.Balance -= hand.Bet

	first, second, err := Split(hand)
	if err != nil {
		return g.abort(err)
	}
	cards, shoe, err := entities.DealMany(next.Shoe, 2, true)
	if err != nil {
		return g.abort(err)
	}
	next.Shoe = shoe
	if first, err = AddCard(first, cards[0]); err != nil {
		return g.abort(err)
	}
	if second, err = AddCard(second, cards[1]); err != nil {
		return g.abort(err)
	}

	seat := next.Seats[seatID]
	hands := make([]Hand, 0, len(seat.Hands)+1)
	hands = append(hands, seat.Hands[:index]...)
	hands = append(hands, first, second)
	hands = append(hands, seat.Hands[index+1:]...)
	seat.Hands = hands
	seat.CurrentHandIndex = index
	next.Message = "Hand split"

	g.commit(next)
	return g.state.Clone(), nil
}

// PlaceInsurance stakes half the seat's bet against a dealer blackjack
func (g *Game) PlaceInsurance(seatID string) (RoundState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	seat, reason := g.insurableSeat(seatID)
	if reason != "" {
		return g.reject(reason), nil
	}
	stake := seat.Hands[0].Bet.Half()
	if stake <= 0 {
		return g.reject("Bet too small for insurance"), nil
	}
	if stake > g.state.Balance {
		return g.reject("Insufficient balance for insurance"), nil
	}

	next := g.state.Clone()
	next.Balance -= stake
	next.InsuranceBets[seat.ID] = stake
	next.InsuranceDecided[seat.ID] = true
	next.Message = "Insurance placed"

	g.finishInsurance(next)
	return g.state.Clone(), nil
}

// DeclineInsurance records that seatID takes no insurance
func (g *Game) DeclineInsurance(seatID string) (RoundState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	seat, reason := g.insurableSeat(seatID)
	if reason != "" {
		return g.reject(reason), nil
	}

	next := g.state.Clone()
	next.InsuranceDecided[seat.ID] = true
	next.Message = "Insurance declined"

	g.finishInsurance(next)
	return g.state.Clone(), nil
}

func (g *Game) insurableSeat(seatID string) (*Seat, string) {
	if g.state.Phase != entities.PhaseInsurance {
		return nil, "Insurance is not offered"
	}
	if seatID == "" {
		seatID = g.state.ActiveSeatID
	}
	seat, ok := g.state.Seats[seatID]
	if !ok || !seat.Active {
		return nil, "Seat has no bet"
	}
	if g.state.InsuranceDecided[seatID] {
		return nil, "Insurance already decided"
	}
	return seat, ""
}

// finishInsurance commits next and, once every active seat has decided,
// moves to play and checks the dealer's hand straight away.
func (g *Game) finishInsurance(next RoundState) {
	for _, seat := range next.ActiveSeats() {
		if !next.InsuranceDecided[seat.ID] {
			g.commit(next)
			return
		}
	}

	next.Phase = entities.PhasePlaying
	g.commit(next)
	g.checkDealerBlackjack()
}
