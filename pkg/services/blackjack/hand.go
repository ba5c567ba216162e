package blackjack

import (
	"errors"

	"github.com/fadedpez/tablejack/pkg/entities"
)

var (
	ErrHandFinished = errors.New("hand is finished")
	ErrCannotSplit  = errors.New("hand cannot be split")
	ErrCannotDouble = errors.New("hand cannot be doubled")
)

// Status represents the current state of the hand
type Status string

const (
	StatusPlaying   Status = "playing"
	StatusStand     Status = "stand"
	StatusBust      Status = "bust"
	StatusBlackjack Status = "blackjack"
)

// Hand is one player hand. Hands are values: every operation returns a new
// hand and leaves its input alone.
type Hand struct {
	Cards    []entities.Card `json:"cards"`
	Bet      entities.Amount `json:"bet"`
	Status   Status          `json:"status"`
	IsDouble bool            `json:"isDouble"`
	IsSplit  bool            `json:"isSplit"`
}

// NewHand creates an empty hand carrying bet
func NewHand(bet entities.Amount) Hand {
	return Hand{
		Cards:  []entities.Card{},
		Bet:    bet,
		Status: StatusPlaying,
	}
}

// Value returns the evaluated total of the hand
func (h Hand) Value() HandValue {
	return Evaluate(h.Cards)
}

// Finished reports whether the hand takes no more actions
func (h Hand) Finished() bool {
	return h.Status != StatusPlaying
}

func (h Hand) clone() Hand {
	cards := make([]entities.Card, len(h.Cards))
	copy(cards, h.Cards)
	h.Cards = cards
	return h
}

// AddCard appends card and moves the status to bust or blackjack when the
// new total calls for it. A doubled hand accepts exactly one card.
func AddCard(h Hand, card entities.Card) (Hand, error) {
	if h.Finished() {
		return h, ErrHandFinished
	}
	if h.IsDouble && len(h.Cards) >= 3 {
		return h, ErrHandFinished
	}

	next := h.clone()
	next.Cards = append(next.Cards, card)

	value := next.Value()
	switch {
	case value.IsBust:
		next.Status = StatusBust
	case value.IsBlackjack && !next.IsSplit:
		next.Status = StatusBlackjack
	}
	return next, nil
}

// CanSplit reports whether h is an unsplit pair
func CanSplit(h Hand) bool {
	return len(h.Cards) == 2 && h.Cards[0].Rank == h.Cards[1].Rank && !h.IsSplit
}

// CanDouble reports whether h holds exactly its first two cards
func CanDouble(h Hand) bool {
	return len(h.Cards) == 2
}

// Split breaks a pair into two one-card hands with the same bet
func Split(h Hand) (Hand, Hand, error) {
	if !CanSplit(h) {
		return h, Hand{}, ErrCannotSplit
	}

	first := NewHand(h.Bet)
	first.Cards = append(first.Cards, h.Cards[0])
	first.IsSplit = true

	second := NewHand(h.Bet)
	second.Cards = append(second.Cards, h.Cards[1])
	second.IsSplit = true

	return first, second, nil
}

// DoubleDown doubles the bet. The caller deals the single extra card and
// then stands the hand.
func DoubleDown(h Hand) (Hand, error) {
	if !CanDouble(h) {
		return h, ErrCannotDouble
	}

	next := h.clone()
	next.Bet *= 2
	next.IsDouble = true
	return next, nil
}

// Stand marks the hand as stood
func Stand(h Hand) (Hand, error) {
	if h.Finished() {
		return h, ErrHandFinished
	}
	next := h.clone()
	next.Status = StatusStand
	return next, nil
}
