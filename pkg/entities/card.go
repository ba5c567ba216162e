package entities

import "fmt"

// Suit represents a card suit
type Suit string

const (
	Hearts   Suit = "HEARTS"
	Diamonds Suit = "DIAMONDS"
	Clubs    Suit = "CLUBS"
	Spades   Suit = "SPADES"
)

// Rank represents a card rank
type Rank string

const (
	Ace   Rank = "A"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
)

// Suits lists every suit in deck order
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// Ranks lists every rank in deck order
var Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

// Card is a playing card. Cards are values; FaceUp is the only field that
// changes after a card is dealt, and only from false to true.
type Card struct {
	Suit   Suit `json:"suit"`
	Rank   Rank `json:"rank"`
	FaceUp bool `json:"faceUp"`
}

// NewCard creates a new face-down card
func NewCard(suit Suit, rank Rank) Card {
	return Card{
		Suit: suit,
		Rank: rank,
	}
}

// Revealed returns a face-up copy of the card
func (c Card) Revealed() Card {
	c.FaceUp = true
	return c
}

// Hidden returns the card as a viewer should see it: face-down cards lose
// their rank and suit.
func (c Card) Hidden() Card {
	if c.FaceUp {
		return c
	}
	return Card{}
}

// String returns the string representation of the card
func (c Card) String() string {
	if c.Rank == "" {
		return "??"
	}
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}
