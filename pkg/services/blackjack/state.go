package blackjack

import (
	"time"

	"github.com/fadedpez/tablejack/pkg/entities"
)

// Seat is one betting position
type Seat struct {
	ID               string `json:"id"`
	Hands            []Hand `json:"hands"`
	Active           bool   `json:"active"`
	CurrentHandIndex int    `json:"currentHandIndex"`
}

// CurrentHand returns the hand under the seat's cursor
func (s *Seat) CurrentHand() (Hand, bool) {
	if s.CurrentHandIndex < 0 || s.CurrentHandIndex >= len(s.Hands) {
		return Hand{}, false
	}
	return s.Hands[s.CurrentHandIndex], true
}

// Stake is the total committed across the seat's hands
func (s *Seat) Stake() entities.Amount {
	var total entities.Amount
	for _, h := range s.Hands {
		total += h.Bet
	}
	return total
}

func (s *Seat) clone() *Seat {
	c := *s
	c.Hands = make([]Hand, len(s.Hands))
	for i, h := range s.Hands {
		c.Hands[i] = h.clone()
	}
	return &c
}

// SettledHand is the settlement line for one hand
type SettledHand struct {
	SeatID      string           `json:"seatId"`
	HandIndex   int              `json:"handIndex"`
	Bet         entities.Amount  `json:"bet"`
	Payout      entities.Amount  `json:"payout"`
	Outcome     entities.Outcome `json:"outcome"`
	PlayerValue int              `json:"playerValue"`
	IsDouble    bool             `json:"isDouble"`
	IsSplit     bool             `json:"isSplit"`
}

// Settlement is the report produced once per completed round
type Settlement struct {
	RoundID       string          `json:"roundId"`
	Hands         []SettledHand   `json:"hands"`
	DealerCards   []entities.Card `json:"dealerCards"`
	DealerValue   int             `json:"dealerValue"`
	InsurancePaid entities.Amount `json:"insurancePaid"`
	TotalPayout   entities.Amount `json:"totalPayout"`
	BalanceAfter  entities.Amount `json:"balanceAfter"`
	SettledAt     time.Time       `json:"settledAt"`
}

// RoundState is the full state of the table. Values handed out by Game are
// deep copies.
type RoundState struct {
	RoundID          string                     `json:"roundId"`
	Generation       uint64                     `json:"generation"`
	Phase            entities.RoundPhase        `json:"phase"`
	Shoe             entities.Shoe              `json:"-"`
	DealerHand       []entities.Card            `json:"dealerHand"`
	Seats            map[string]*Seat           `json:"seats"`
	SeatOrder        []string                   `json:"seatOrder"`
	ActiveSeatID     string                     `json:"activeSeatId,omitempty"`
	InsuranceBets    map[string]entities.Amount `json:"insuranceBets"`
	InsuranceDecided map[string]bool            `json:"insuranceDecided"`
	InsurancePaid    entities.Amount            `json:"insurancePaid"`
	Balance          entities.Amount            `json:"balance"`
	Message          string                     `json:"message"`
	DealerChecked    bool                       `json:"dealerChecked"`
	Busy             bool                       `json:"busy"`
	Settled          bool                       `json:"settled"`
	Settlement       *Settlement                `json:"settlement,omitempty"`
}

func newRoundState(balance entities.Amount, generation uint64) RoundState {
	return RoundState{
		Generation:       generation,
		Phase:            entities.PhaseIdle,
		Shoe:             entities.Shoe{},
		DealerHand:       []entities.Card{},
		Seats:            map[string]*Seat{DefaultSeatID: {ID: DefaultSeatID, Hands: []Hand{NewHand(0)}}},
		SeatOrder:        []string{DefaultSeatID},
		InsuranceBets:    map[string]entities.Amount{},
		InsuranceDecided: map[string]bool{},
		Balance:          balance,
		Message:          "Place your bets",
	}
}

// Clone returns a deep copy of the state
func (s RoundState) Clone() RoundState {
	c := s
	c.Shoe = append(entities.Shoe(nil), s.Shoe...)
	c.DealerHand = append([]entities.Card{}, s.DealerHand...)
	c.SeatOrder = append([]string(nil), s.SeatOrder...)

	c.Seats = make(map[string]*Seat, len(s.Seats))
	for id, seat := range s.Seats {
		c.Seats[id] = seat.clone()
	}
	c.InsuranceBets = make(map[string]entities.Amount, len(s.InsuranceBets))
	for id, amt := range s.InsuranceBets {
		c.InsuranceBets[id] = amt
	}
	c.InsuranceDecided = make(map[string]bool, len(s.InsuranceDecided))
	for id, ok := range s.InsuranceDecided {
		c.InsuranceDecided[id] = ok
	}
	if s.Settlement != nil {
		settlement := *s.Settlement
		settlement.Hands = append([]SettledHand(nil), s.Settlement.Hands...)
		settlement.DealerCards = append([]entities.Card(nil), s.Settlement.DealerCards...)
		c.Settlement = &settlement
	}
	return c
}

// ActiveSeats returns the seats with a bet this round, in seat order
func (s RoundState) ActiveSeats() []*Seat {
	seats := make([]*Seat, 0, len(s.SeatOrder))
	for _, id := range s.SeatOrder {
		if seat, ok := s.Seats[id]; ok && seat.Active {
			seats = append(seats, seat)
		}
	}
	return seats
}

// ActiveHand returns the hand awaiting player action
func (s RoundState) ActiveHand() (Hand, bool) {
	seat, ok := s.Seats[s.ActiveSeatID]
	if !ok {
		return Hand{}, false
	}
	return seat.CurrentHand()
}

// DealerValue evaluates the dealer's face-up cards only
func (s RoundState) DealerValue() HandValue {
	visible := make([]entities.Card, 0, len(s.DealerHand))
	for _, c := range s.DealerHand {
		if c.FaceUp {
			visible = append(visible, c)
		}
	}
	return Evaluate(visible)
}

// DealerUpCard returns the dealer's first card
func (s RoundState) DealerUpCard() (entities.Card, bool) {
	if len(s.DealerHand) == 0 {
		return entities.Card{}, false
	}
	return s.DealerHand[0], true
}

// Masked returns a copy with the shoe dropped and face-down cards hidden,
// suitable for sending to a client.
func (s RoundState) Masked() RoundState {
	c := s.Clone()
	c.Shoe = nil
	for i, card := range c.DealerHand {
		c.DealerHand[i] = card.Hidden()
	}
	return c
}

// committedStake sums every stake still riding on the table
func (s RoundState) committedStake() entities.Amount {
	var total entities.Amount
	for _, seat := range s.ActiveSeats() {
		total += seat.Stake()
	}
	if !s.DealerChecked {
		for _, amt := range s.InsuranceBets {
			total += amt
		}
	}
	return total
}
