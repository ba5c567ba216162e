package blackjack

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fadedpez/tablejack/internal/logging"
	"github.com/fadedpez/tablejack/internal/types"
	"github.com/fadedpez/tablejack/pkg/entities"
)

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) RecordSettlement(ctx context.Context, settlement Settlement) error {
	args := m.Called(ctx, settlement)
	return args.Error(0)
}

// stacked deals the given ranks in order
func stacked(ranks ...entities.Rank) ShoeFactory {
	return func() (entities.Shoe, error) {
		shoe := make(entities.Shoe, 0, len(ranks))
		for _, r := range ranks {
			shoe = append(shoe, entities.NewCard(entities.Diamonds, r))
		}
		return shoe, nil
	}
}

// instantOptions plays every continuation inline
func instantOptions(shoe ShoeFactory) Options {
	opts := DefaultOptions()
	opts.PeekDelay = 0
	opts.ActionDelay = 0
	opts.DealerDelay = 0
	opts.Logger = logging.Discard()
	opts.NewShoe = shoe
	return opts
}

type GameTestSuite struct {
	suite.Suite
	ctx    context.Context
	cancel context.CancelFunc
}

func TestGameSuite(t *testing.T) {
	suite.Run(t, new(GameTestSuite))
}

func (s *GameTestSuite) SetupTest() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 5*time.Second)
}

func (s *GameTestSuite) TearDownTest() {
	s.cancel()
}

func (s *GameTestSuite) newGame(opts Options) *Game {
	g := NewGame(opts)
	s.T().Cleanup(g.Close)
	return g
}

func (s *GameTestSuite) pacedGame(shoe ShoeFactory) (*Game, *quartz.Mock) {
	clk := quartz.NewMock(s.T())
	opts := DefaultOptions()
	opts.Clock = clk
	opts.Logger = logging.Discard()
	opts.NewShoe = shoe
	return s.newGame(opts), clk
}

func (s *GameTestSuite) mustBet(g *Game, seat string, amount entities.Amount) {
	state, err := g.PlaceBet(seat, amount)
	s.Require().NoError(err)
	s.Require().Equal(entities.PhaseBetting, state.Phase, state.Message)
}

func (s *GameTestSuite) TestInitialState() {
	g := s.newGame(instantOptions(nil))
	state := g.Snapshot()

	s.Equal(entities.PhaseIdle, state.Phase)
	s.Equal(entities.Amount(10000), state.Balance)
	s.Equal([]string{DefaultSeatID}, state.SeatOrder)
	s.Len(state.Seats[DefaultSeatID].Hands, 1)
	s.False(state.Seats[DefaultSeatID].Active)
	s.Empty(state.Shoe)
	s.Empty(state.DealerHand)
}

func (s *GameTestSuite) TestNaturalBlackjackPaysThreeToTwo() {
	g := s.newGame(instantOptions(stacked(
		entities.Ace, entities.King, // player
		entities.Nine, entities.Seven, // dealer 16
		entities.Two, // dealer draws to 18
	)))

	s.mustBet(g, "", 100)
	state, err := g.Deal()
	s.Require().NoError(err)

	s.Equal(entities.PhaseComplete, state.Phase)
	s.Require().NotNil(state.Settlement)
	s.Require().Len(state.Settlement.Hands, 1)
	s.Equal(entities.OutcomeBlackjack, state.Settlement.Hands[0].Outcome)
	s.Equal(entities.Amount(250), state.Settlement.TotalPayout)
	s.Equal(entities.Amount(10150), state.Balance)
	s.Equal("Round complete. Payout: 250", state.Message)
}

func (s *GameTestSuite) TestBustAutoAdvances() {
	g, clk := s.pacedGame(stacked(
		entities.Ten, entities.Five, // player 15
		entities.Nine, entities.Eight, // dealer 17
		entities.Ten, // player hit
	))

	s.mustBet(g, "", 100)
	state, err := g.Deal()
	s.Require().NoError(err)
	s.True(state.Busy, "player waits for the dealer peek")

	state, err = g.Hit()
	s.Require().NoError(err)
	s.Equal("Please wait", state.Message)
	s.Len(state.Seats[DefaultSeatID].Hands[0].Cards, 2)

	clk.Advance(100 * time.Millisecond).MustWait(s.ctx)
	s.False(g.Snapshot().Busy)

	state, err = g.Hit()
	s.Require().NoError(err)
	s.Equal(StatusBust, state.Seats[DefaultSeatID].Hands[0].Status)
	s.Equal("Bust!", state.Message)
	s.Equal(entities.PhasePlaying, state.Phase)

	_, w := clk.AdvanceNext()
	w.MustWait(s.ctx)
	state = g.Snapshot()
	s.Equal(entities.PhaseDealerTurn, state.Phase, "advanced past the bust hand without input")
	s.True(state.DealerHand[1].FaceUp)

	_, w = clk.AdvanceNext()
	w.MustWait(s.ctx)
	state = g.Snapshot()
	s.Equal(entities.PhaseComplete, state.Phase)
	s.Equal(entities.OutcomeLoss, state.Settlement.Hands[0].Outcome)
	s.Equal(entities.Amount(9900), state.Balance)
}

func (s *GameTestSuite) TestInsuranceAgainstDealerBlackjack() {
	g := s.newGame(instantOptions(stacked(
		entities.Ten, entities.Nine, // player 19
		entities.Ace, entities.King, // dealer natural
	)))

	s.mustBet(g, "", 100)
	state, err := g.Deal()
	s.Require().NoError(err)
	s.Equal(entities.PhaseInsurance, state.Phase)
	s.Equal("Dealer showing Ace. Insurance?", state.Message)
	s.True(g.IsEligibleForInsurance(DefaultSeatID))

	state, err = g.PlaceInsurance(DefaultSeatID)
	s.Require().NoError(err)

	s.Equal(entities.PhaseComplete, state.Phase)
	s.Equal(entities.Amount(100), state.InsurancePaid)
	s.Equal(entities.OutcomeLoss, state.Settlement.Hands[0].Outcome)
	s.Equal(StatusPlaying, state.Seats[DefaultSeatID].Hands[0].Status, "the hand was never played")
	s.Len(state.Seats[DefaultSeatID].Hands[0].Cards, 2)
	// 10000 - 100 bet - 50 insurance + 100 insurance payout
	s.Equal(entities.Amount(9950), state.Balance)
	s.Contains(state.Message, "Dealer Blackjack!")
	for _, c := range state.DealerHand {
		s.True(c.FaceUp)
	}
}

func (s *GameTestSuite) TestDeclinedInsuranceDealerHasNoBlackjack() {
	g := s.newGame(instantOptions(stacked(
		entities.Ten, entities.Nine, // player 19
		entities.Ace, entities.Six, // dealer soft 17
	)))

	s.mustBet(g, "", 100)
	_, err := g.Deal()
	s.Require().NoError(err)

	state, err := g.DeclineInsurance("")
	s.Require().NoError(err)
	s.Equal(entities.PhasePlaying, state.Phase)
	s.Equal("Your turn", state.Message)
	s.False(g.IsEligibleForInsurance(DefaultSeatID))

	state, err = g.Stand()
	s.Require().NoError(err)
	s.Equal(entities.PhaseComplete, state.Phase)
	s.Equal(entities.OutcomeWin, state.Settlement.Hands[0].Outcome)
	s.Len(state.DealerHand, 2, "soft 17 stands")
	s.Equal(entities.Amount(10100), state.Balance)
}

func (s *GameTestSuite) TestLostInsuranceWhenDealerHasNoBlackjack() {
	g := s.newGame(instantOptions(stacked(
		entities.Ten, entities.Nine,
		entities.Ace, entities.Seven,
	)))

	s.mustBet(g, "", 100)
	_, err := g.Deal()
	s.Require().NoError(err)
	state, err := g.PlaceInsurance("")
	s.Require().NoError(err)
	s.Equal(entities.PhasePlaying, state.Phase)
	s.Equal(entities.Amount(0), state.InsurancePaid)
	s.Equal(entities.Amount(9850), state.Balance)

	state, err = g.Stand()
	s.Require().NoError(err)
	s.Equal(entities.OutcomeWin, state.Settlement.Hands[0].Outcome)
	s.Equal(entities.Amount(10050), state.Balance)
}

func (s *GameTestSuite) TestDealerBlackjackUnderTenEndsRound() {
	g := s.newGame(instantOptions(stacked(
		entities.Ten, entities.Nine,
		entities.King, entities.Ace,
	)))

	s.mustBet(g, "", 100)
	state, err := g.Deal()
	s.Require().NoError(err)
	s.Equal(entities.PhaseComplete, state.Phase)
	s.Equal(entities.Amount(9900), state.Balance)
	s.Contains(state.Message, "Dealer Blackjack!")
}

func (s *GameTestSuite) TestDoubleDown() {
	g := s.newGame(instantOptions(stacked(
		entities.Five, entities.Six, // player 11
		entities.Nine, entities.Eight, // dealer 17
		entities.Ten, // double card
	)))

	s.mustBet(g, "", 100)
	_, err := g.Deal()
	s.Require().NoError(err)
	s.True(g.IsEligibleForDoubleDown())

	state, err := g.Double()
	s.Require().NoError(err)

	hand := state.Seats[DefaultSeatID].Hands[0]
	s.True(hand.IsDouble)
	s.Len(hand.Cards, 3)
	s.Equal(StatusStand, hand.Status)
	s.Equal(entities.PhaseComplete, state.Phase)
	s.Equal(entities.Amount(400), state.Settlement.TotalPayout)
	s.Equal(entities.Amount(10200), state.Balance)
}

func (s *GameTestSuite) TestDoubleStandsEvenOnLowTotal() {
	g := s.newGame(instantOptions(stacked(
		entities.Two, entities.Three,
		entities.Ten, entities.Eight,
		entities.Two,
	)))

	s.mustBet(g, "", 100)
	_, err := g.Deal()
	s.Require().NoError(err)
	state, err := g.Double()
	s.Require().NoError(err)
	s.Equal(StatusStand, state.Seats[DefaultSeatID].Hands[0].Status)
	s.Equal(entities.Amount(9800), state.Balance)
}

func (s *GameTestSuite) TestDoubleStandsOnBust() {
	g := s.newGame(instantOptions(stacked(
		entities.Six, entities.Six, // player 12
		entities.Ten, entities.Seven, // dealer 17
		entities.King, // double card
	)))

	s.mustBet(g, "", 100)
	_, err := g.Deal()
	s.Require().NoError(err)
	state, err := g.Double()
	s.Require().NoError(err)

	hand := state.Seats[DefaultSeatID].Hands[0]
	s.True(hand.IsDouble)
	s.Equal(StatusStand, hand.Status)
	s.Equal(22, hand.Value().Value)
	s.True(hand.Value().IsBust)
	s.Equal(entities.PhaseComplete, state.Phase)
	s.Require().NotNil(state.Settlement)
	s.Equal(entities.OutcomeLoss, state.Settlement.Hands[0].Outcome)
	s.Equal(entities.Amount(9800), state.Balance)
}

func (s *GameTestSuite) TestDoubleRejectedWithoutFunds() {
	opts := instantOptions(stacked(entities.Five, entities.Six, entities.Nine, entities.Eight, entities.Ten))
	opts.StartingBalance = 100
	g := s.newGame(opts)

	s.mustBet(g, "", 100)
	before, err := g.Deal()
	s.Require().NoError(err)
	s.False(g.IsEligibleForDoubleDown())

	state, err := g.Double()
	s.Require().NoError(err)
	s.Equal("Insufficient balance to double", state.Message)
	s.Equal(before.Seats, state.Seats)
	s.Equal(before.Balance, state.Balance)
	s.Equal(before.Shoe, state.Shoe)
}

func (s *GameTestSuite) TestSplitPlaysBothHands() {
	g := s.newGame(instantOptions(stacked(
		entities.Eight, entities.Eight, // player pair
		entities.Ten, entities.Seven, // dealer 17
		entities.Three, entities.Ten, // one card to each split hand
		entities.Ten, // hit first hand to 21
	)))

	s.mustBet(g, "", 100)
	_, err := g.Deal()
	s.Require().NoError(err)
	s.True(g.IsEligibleForSplit())

	state, err := g.Split()
	s.Require().NoError(err)
	seat := state.Seats[DefaultSeatID]
	s.Require().Len(seat.Hands, 2)
	s.Equal(0, seat.CurrentHandIndex)
	s.Equal(entities.Amount(9800), state.Balance)
	s.Equal("Hand split", state.Message)

	state, err = g.Hit()
	s.Require().NoError(err)
	s.Equal(1, state.Seats[DefaultSeatID].CurrentHandIndex)
	s.Equal("Next hand", state.Message)

	state, err = g.Stand()
	s.Require().NoError(err)
	s.Equal(entities.PhaseComplete, state.Phase)

	var sum entities.Amount
	for _, h := range state.Settlement.Hands {
		s.Equal(entities.OutcomeWin, h.Outcome)
		s.True(h.IsSplit)
		sum += h.Payout
	}
	s.Equal(state.Settlement.TotalPayout, sum)
	s.Equal(entities.Amount(10200), state.Balance)
}

func (s *GameTestSuite) TestSplitRejectsMismatchedRanks() {
	g := s.newGame(instantOptions(stacked(entities.Eight, entities.Nine, entities.Ten, entities.Seven)))

	s.mustBet(g, "", 100)
	_, err := g.Deal()
	s.Require().NoError(err)

	state, err := g.Split()
	s.Require().NoError(err)
	s.Equal("Cannot split this hand", state.Message)
	s.Len(state.Seats[DefaultSeatID].Hands, 1)
	s.Equal(entities.Amount(9900), state.Balance)
}

func (s *GameTestSuite) TestBetValidation() {
	opts := instantOptions(nil)
	opts.MaxBet = 1000
	g := s.newGame(opts)

	testCases := []struct {
		name    string
		amount  entities.Amount
		message string
	}{
		{name: "zero", amount: 0, message: "Invalid bet amount"},
		{name: "negative", amount: -10, message: "Invalid bet amount"},
		{name: "odd", amount: 101, message: "Invalid bet amount"},
		{name: "over table max", amount: 2000, message: "Maximum bet is 1000"},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			state, err := g.PlaceBet("", tc.amount)
			s.Require().NoError(err)
			s.Equal(tc.message, state.Message)
			s.Equal(entities.PhaseIdle, state.Phase)
			s.Equal(entities.Amount(10000), state.Balance)
		})
	}

	opts = instantOptions(nil)
	opts.StartingBalance = 50
	poor := s.newGame(opts)
	state, err := poor.PlaceBet("", 100)
	s.Require().NoError(err)
	s.Equal("Insufficient balance", state.Message)
}

func (s *GameTestSuite) TestRebetReplacesStake() {
	g := s.newGame(instantOptions(nil))

	s.mustBet(g, "", 100)
	s.mustBet(g, "", 300)
	state := g.Snapshot()
	s.Equal(entities.Amount(9700), state.Balance)
	s.Equal(entities.Amount(300), state.Seats[DefaultSeatID].Hands[0].Bet)

	opts := instantOptions(nil)
	opts.StartingBalance = 100
	allIn := s.newGame(opts)
	s.mustBet(allIn, "", 100)
	s.mustBet(allIn, "", 100)
	s.Equal(entities.Amount(0), allIn.Snapshot().Balance)
}

func (s *GameTestSuite) TestDealRequiresBet() {
	g := s.newGame(instantOptions(nil))
	state, err := g.Deal()
	s.Require().NoError(err)
	s.Equal("Please place a bet first", state.Message)
	s.Equal(entities.PhaseIdle, state.Phase)
}

func (s *GameTestSuite) TestActionsOutsidePlayAreRejected() {
	g := s.newGame(instantOptions(nil))
	for _, act := range []func() (RoundState, error){g.Hit, g.Stand, g.Double, g.Split} {
		state, err := act()
		s.Require().NoError(err)
		s.Equal("No hand in play", state.Message)
	}
	state, err := g.PlaceInsurance("")
	s.Require().NoError(err)
	s.Equal("Insurance is not offered", state.Message)
}

func (s *GameTestSuite) TestSeatsPlayInOrder() {
	g := s.newGame(instantOptions(stacked(
		entities.Ten, entities.Eight, // seat1 18
		entities.Ten, entities.Nine, // seat2 19
		entities.Ten, entities.Seven, // dealer 17
	)))

	s.mustBet(g, DefaultSeatID, 100)
	s.mustBet(g, "seat2", 200)
	state, err := g.Deal()
	s.Require().NoError(err)
	s.Equal(DefaultSeatID, state.ActiveSeatID)

	state, err = g.Stand()
	s.Require().NoError(err)
	s.Equal("seat2", state.ActiveSeatID)
	s.Equal("Your turn", state.Message)

	state, err = g.Stand()
	s.Require().NoError(err)
	s.Equal(entities.PhaseComplete, state.Phase)
	s.Len(state.Settlement.Hands, 2)
	s.Equal(entities.Amount(600), state.Settlement.TotalPayout)
	s.Equal(entities.Amount(10300), state.Balance)
}

func (s *GameTestSuite) TestTableFull() {
	opts := instantOptions(nil)
	opts.MaxSeats = 2
	g := s.newGame(opts)

	s.mustBet(g, "seat2", 100)
	state, err := g.PlaceBet("seat3", 100)
	s.Require().NoError(err)
	s.Equal("Table is full", state.Message)
	s.NotContains(state.SeatOrder, "seat3")
}

func (s *GameTestSuite) TestBetAfterSettlementStartsNewRound() {
	g := s.newGame(instantOptions(stacked(
		entities.Ace, entities.King,
		entities.Nine, entities.Seven,
		entities.Two,
	)))

	s.mustBet(g, "", 100)
	done, err := g.Deal()
	s.Require().NoError(err)
	s.Require().Equal(entities.PhaseComplete, done.Phase)

	state, err := g.PlaceBet("", 100)
	s.Require().NoError(err)
	s.Equal(entities.PhaseBetting, state.Phase)
	s.Equal(done.Generation+1, state.Generation)
	s.Nil(state.Settlement)
	s.Empty(state.DealerHand)
	s.Equal(entities.Amount(10050), state.Balance)
}

func (s *GameTestSuite) TestResetRefundsUndealtBets() {
	g := s.newGame(instantOptions(nil))

	s.mustBet(g, "", 100)
	s.mustBet(g, "seat-2", 200)
	s.Equal(entities.Amount(9700), g.Snapshot().Balance)

	state := g.Reset()
	s.Equal(entities.PhaseIdle, state.Phase)
	s.Equal(entities.Amount(10000), state.Balance)
	s.Equal("Place your bets", state.Message)
}

func (s *GameTestSuite) TestResetForfeitsDealtStakes() {
	g := s.newGame(instantOptions(stacked(
		entities.Eight, entities.Eight,
		entities.Ten, entities.Seven,
		entities.Three, entities.Four,
	)))

	s.mustBet(g, "", 100)
	_, err := g.Deal()
	s.Require().NoError(err)
	_, err = g.Split()
	s.Require().NoError(err)
	s.Equal(entities.Amount(9800), g.Snapshot().Balance)

	state := g.Reset()
	s.Equal(entities.PhaseIdle, state.Phase)
	s.Equal(entities.Amount(9800), state.Balance)
	s.Equal("Place your bets", state.Message)
}

func (s *GameTestSuite) TestResetAfterBustKeepsLoss() {
	g, clk := s.pacedGame(stacked(
		entities.Ten, entities.Six,
		entities.Nine, entities.Eight,
		entities.Ten,
	))

	s.mustBet(g, "", 100)
	_, err := g.Deal()
	s.Require().NoError(err)
	clk.Advance(100 * time.Millisecond).MustWait(s.ctx)

	state, err := g.Hit()
	s.Require().NoError(err)
	s.Require().Equal(StatusBust, state.Seats[DefaultSeatID].Hands[0].Status)
	s.Require().False(state.Settled)

	state = g.Reset()
	s.Equal(entities.PhaseIdle, state.Phase)
	s.Equal(entities.Amount(9900), state.Balance)
}

func (s *GameTestSuite) TestShoeExhaustedOnDealIsFatal() {
	g := s.newGame(instantOptions(stacked(entities.Ten, entities.Nine)))

	s.mustBet(g, "", 100)
	state, err := g.Deal()
	s.Require().Error(err)
	s.True(types.IsGameError(err, types.ErrShoeExhausted))
	s.ErrorIs(err, entities.ErrEmptyShoe)
	s.Equal(entities.PhaseIdle, state.Phase)
	s.Equal(entities.Amount(10000), state.Balance)
	s.Empty(state.DealerHand)
}

func (s *GameTestSuite) TestShoeExhaustedOnHitIsFatal() {
	g := s.newGame(instantOptions(stacked(entities.Ten, entities.Six, entities.Nine, entities.Eight)))

	s.mustBet(g, "", 100)
	_, err := g.Deal()
	s.Require().NoError(err)

	state, err := g.Hit()
	s.True(types.IsGameError(err, types.ErrShoeExhausted))
	s.Equal(entities.PhaseIdle, state.Phase)
	s.Equal(entities.Amount(10000), state.Balance)
	s.Contains(state.Message, "Round aborted")
}

func (s *GameTestSuite) TestStalePeekIsIgnoredAfterReset() {
	g, clk := s.pacedGame(stacked(
		entities.Ten, entities.Six,
		entities.Nine, entities.Eight,
	))

	s.mustBet(g, "", 100)
	_, err := g.Deal()
	s.Require().NoError(err)

	g.Reset()
	clk.Advance(100 * time.Millisecond).MustWait(s.ctx)

	state := g.Snapshot()
	s.Equal(entities.PhaseIdle, state.Phase)
	s.False(state.Busy)
	s.Equal("Place your bets", state.Message)
	s.Equal(entities.Amount(9900), state.Balance)
}

func (s *GameTestSuite) TestStaleAdvanceIsIgnoredInNextRound() {
	g, clk := s.pacedGame(stacked(
		entities.Ten, entities.Six,
		entities.Nine, entities.Eight,
		entities.Ten,
	))

	s.mustBet(g, "", 100)
	_, err := g.Deal()
	s.Require().NoError(err)
	clk.Advance(100 * time.Millisecond).MustWait(s.ctx)
	state, err := g.Hit()
	s.Require().NoError(err)
	s.Require().Equal(StatusBust, state.Seats[DefaultSeatID].Hands[0].Status)

	g.Reset()
	s.mustBet(g, "", 200)

	clk.Advance(time.Second).MustWait(s.ctx)
	state = g.Snapshot()
	s.Equal(entities.PhaseBetting, state.Phase, "the old round's advance did nothing")
	s.Equal(entities.Amount(200), state.Seats[DefaultSeatID].Hands[0].Bet)
}

func (s *GameTestSuite) TestAutoReset() {
	clk := quartz.NewMock(s.T())
	opts := instantOptions(stacked(entities.Ace, entities.King, entities.Nine, entities.Eight))
	opts.Clock = clk
	opts.AutoResetDelay = 3 * time.Second
	g := s.newGame(opts)

	s.mustBet(g, "", 100)
	state, err := g.Deal()
	s.Require().NoError(err)
	s.Require().Equal(entities.PhaseComplete, state.Phase)

	clk.Advance(3 * time.Second).MustWait(s.ctx)
	state = g.Snapshot()
	s.Equal(entities.PhaseIdle, state.Phase)
	s.Equal(entities.Amount(10150), state.Balance)
}

func (s *GameTestSuite) TestRecorderCalledOncePerRound() {
	rec := &mockRecorder{}
	rec.On("RecordSettlement", mock.Anything, mock.MatchedBy(func(st Settlement) bool {
		return st.TotalPayout == 250 && st.BalanceAfter == 10150 && len(st.Hands) == 1
	})).Return(nil).Once()

	opts := instantOptions(stacked(entities.Ace, entities.King, entities.Nine, entities.Eight))
	opts.Recorder = rec
	g := s.newGame(opts)

	s.mustBet(g, "", 100)
	_, err := g.Deal()
	s.Require().NoError(err)
	g.Reset()

	rec.AssertExpectations(s.T())
	rec.AssertNumberOfCalls(s.T(), "RecordSettlement", 1)
}

func (s *GameTestSuite) TestSubscribeReceivesSnapshots() {
	g := s.newGame(instantOptions(nil))
	updates, unsubscribe := g.Subscribe(8)

	_, err := g.PlaceBet("", 100)
	s.Require().NoError(err)
	g.SetMessage("hello")

	first := <-updates
	s.Equal(entities.PhaseBetting, first.Phase)
	second := <-updates
	s.Equal("hello", second.Message)

	first.Seats[DefaultSeatID].Hands[0].Bet = 1
	s.Equal(entities.Amount(100), g.Snapshot().Seats[DefaultSeatID].Hands[0].Bet, "snapshots are copies")

	unsubscribe()
	_, open := <-updates
	s.False(open)
}

func (s *GameTestSuite) TestMaskedHidesHoleCard() {
	g := s.newGame(instantOptions(stacked(entities.Ten, entities.Six, entities.Nine, entities.Eight)))
	s.mustBet(g, "", 100)
	state, err := g.Deal()
	s.Require().NoError(err)

	masked := state.Masked()
	s.Nil(masked.Shoe)
	s.Equal(entities.Nine, masked.DealerHand[0].Rank)
	s.Equal(entities.Rank(""), masked.DealerHand[1].Rank)
	s.Equal(9, state.DealerValue().Value)
}
