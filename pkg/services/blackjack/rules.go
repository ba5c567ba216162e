package blackjack

import (
	"strconv"

	"github.com/fadedpez/tablejack/pkg/entities"
)

const (
	StandardDecks    = 6  // Standard number of decks in the shoe
	MaxSeats         = 7  // Max number of seats at a table
	DealerStandValue = 17 // Dealer stands on this value, soft or hard
	DefaultSeatID    = "seat1"
)

// HandValue is the evaluated total of a sequence of cards
type HandValue struct {
	Value       int  `json:"value"`
	IsSoft      bool `json:"isSoft"`
	IsBlackjack bool `json:"isBlackjack"`
	IsBust      bool `json:"isBust"`
}

// GetCardValue returns the pip value of a card with aces counted as 11
func GetCardValue(card entities.Card) int {
	switch card.Rank {
	case entities.Ace:
		return 11
	case entities.Jack, entities.Queen, entities.King:
		return 10
	default:
		val, _ := strconv.Atoi(string(card.Rank))
		return val
	}
}

func IsAce(card entities.Card) bool {
	return card.Rank == entities.Ace
}

// Evaluate scores cards. Every ace starts at 11 and aces are demoted to 1
// one at a time while the total is over 21.
func Evaluate(cards []entities.Card) HandValue {
	total := 0
	softAces := 0
	for _, card := range cards {
		total += GetCardValue(card)
		if IsAce(card) {
			softAces++
		}
	}

	for total > 21 && softAces > 0 {
		total -= 10
		softAces--
	}

	return HandValue{
		Value:       total,
		IsSoft:      softAces > 0,
		IsBlackjack: len(cards) == 2 && total == 21,
		IsBust:      total > 21,
	}
}

// GetBestScore returns the evaluated total of cards
func GetBestScore(cards []entities.Card) int {
	return Evaluate(cards).Value
}

func IsBlackjack(cards []entities.Card) bool {
	return Evaluate(cards).IsBlackjack
}

// IsBust checks if a hand exceeds 21
func IsBust(cards []entities.Card) bool {
	return Evaluate(cards).IsBust
}

// ShouldDealerHit reports whether the dealer draws. Soft 17 stands.
func ShouldDealerHit(cards []entities.Card) bool {
	return Evaluate(cards).Value < DealerStandValue
}

// Compare settles a player hand against the dealer's cards. A two-card 21
// on a split hand is not a natural and settles on its value.
func Compare(hand Hand, dealerCards []entities.Card) entities.Outcome {
	player := Evaluate(hand.Cards)
	dealer := Evaluate(dealerCards)

	switch {
	case player.IsBust:
		return entities.OutcomeLoss
	case player.IsBlackjack && !hand.IsSplit && !dealer.IsBlackjack:
		return entities.OutcomeBlackjack
	case player.IsBlackjack && !hand.IsSplit && dealer.IsBlackjack:
		return entities.OutcomePush
	case dealer.IsBust:
		return entities.OutcomeWin
	case player.Value > dealer.Value:
		return entities.OutcomeWin
	case player.Value < dealer.Value:
		return entities.OutcomeLoss
	}
	return entities.OutcomePush
}
