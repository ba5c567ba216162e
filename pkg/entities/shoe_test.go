package entities

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ShoeTestSuite struct {
	suite.Suite
}

func TestShoeSuite(t *testing.T) {
	suite.Run(t, new(ShoeTestSuite))
}

func (s *ShoeTestSuite) TestBuildShoe() {
	for _, decks := range []int{1, 2, 6} {
		shoe, err := BuildShoe(decks)
		s.Require().NoError(err)
		s.Len(shoe, 52*decks)

		counts := make(map[Card]int)
		for _, c := range shoe {
			s.False(c.FaceUp, "cards start face-down")
			counts[c]++
		}
		s.Len(counts, 52)
		for card, n := range counts {
			s.Equal(decks, n, "multiplicity of %s", card)
		}
	}
}

func (s *ShoeTestSuite) TestBuildShoeRejectsNonPositive() {
	for _, decks := range []int{0, -1} {
		_, err := BuildShoe(decks)
		s.True(errors.Is(err, ErrInvalidDeckCount))
	}
}

func (s *ShoeTestSuite) TestShuffleDoesNotMutateInput() {
	shoe, err := BuildShoe(1)
	s.Require().NoError(err)
	original := make(Shoe, len(shoe))
	copy(original, shoe)

	shuffled := Shuffle(shoe, rand.New(rand.NewSource(42)))

	s.Equal(original, shoe)
	s.ElementsMatch(original, shuffled)
	s.NotEqual(original, shuffled)
}

func (s *ShoeTestSuite) TestDeal() {
	shoe := Shoe{NewCard(Spades, Ace), NewCard(Hearts, King)}

	card, rest, err := Deal(shoe, true)
	s.Require().NoError(err)
	s.Equal(Ace, card.Rank)
	s.True(card.FaceUp)
	s.Len(rest, 1)
	s.False(shoe[0].FaceUp, "input shoe is untouched")

	card, rest, err = Deal(rest, false)
	s.Require().NoError(err)
	s.Equal(King, card.Rank)
	s.False(card.FaceUp)
	s.Empty(rest)

	_, _, err = Deal(rest, true)
	s.ErrorIs(err, ErrEmptyShoe)
}

func (s *ShoeTestSuite) TestDealMany() {
	shoe, _ := BuildShoe(1)

	cards, rest, err := DealMany(shoe, 4, true)
	s.Require().NoError(err)
	s.Len(cards, 4)
	s.Len(rest, 48)
	for _, c := range cards {
		s.True(c.FaceUp)
	}

	_, same, err := DealMany(rest[:3], 4, true)
	s.ErrorIs(err, ErrEmptyShoe)
	s.Len(same, 3, "failed batch leaves the shoe as it was")
}

func (s *ShoeTestSuite) TestCardVisibility() {
	card := NewCard(Clubs, Seven)
	s.Equal("??", card.Hidden().String())
	s.Equal("7 of CLUBS", card.Revealed().Hidden().String())
}
