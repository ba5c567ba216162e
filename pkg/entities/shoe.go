package entities

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

var (
	ErrEmptyShoe        = errors.New("shoe is empty")
	ErrInvalidDeckCount = errors.New("deck count must be positive")
)

// Shoe is the ordered supply of undealt cards, consumed from the front.
type Shoe []Card

// BuildShoe returns numDecks standard decks, face-down, in deck order
func BuildShoe(numDecks int) (Shoe, error) {
	if numDecks <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDeckCount, numDecks)
	}

	shoe := make(Shoe, 0, 52*numDecks)
	for d := 0; d < numDecks; d++ {
		for _, suit := range Suits {
			for _, rank := range Ranks {
				shoe = append(shoe, NewCard(suit, rank))
			}
		}
	}
	return shoe, nil
}

// Shuffle returns a random permutation of shoe without touching the input.
// A nil rng is seeded from the clock.
func Shuffle(shoe Shoe, rng *rand.Rand) Shoe {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	shuffled := make(Shoe, len(shoe))
	copy(shuffled, shoe)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// Deal removes the front card, sets its visibility, and returns it with the
// remaining shoe.
func Deal(shoe Shoe, faceUp bool) (Card, Shoe, error) {
	if len(shoe) == 0 {
		return Card{}, shoe, ErrEmptyShoe
	}
	card := shoe[0]
	card.FaceUp = faceUp
	return card, shoe[1:], nil
}

// DealMany deals n cards. Either all n are dealt or the shoe is returned
// untouched with ErrEmptyShoe.
func DealMany(shoe Shoe, n int, faceUp bool) ([]Card, Shoe, error) {
	if n > len(shoe) {
		return nil, shoe, fmt.Errorf("%w: need %d cards, have %d", ErrEmptyShoe, n, len(shoe))
	}

	cards := make([]Card, 0, n)
	rest := shoe
	for i := 0; i < n; i++ {
		var card Card
		card, rest, _ = Deal(rest, faceUp)
		cards = append(cards, card)
	}
	return cards, rest, nil
}

// Len returns the number of undealt cards
func (s Shoe) Len() int {
	return len(s)
}
