package blackjack

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/fadedpez/tablejack/internal/logging"
	"github.com/fadedpez/tablejack/pkg/entities"
	"github.com/fadedpez/tablejack/pkg/scheduler"
)

// SettlementRecorder receives the report of every settled round
type SettlementRecorder interface {
	RecordSettlement(ctx context.Context, settlement Settlement) error
}

// Recorders reports a settlement to each recorder in turn
type Recorders []SettlementRecorder

// RecordSettlement implements SettlementRecorder. Every recorder is called
// even when an earlier one fails.
func (rs Recorders) RecordSettlement(ctx context.Context, settlement Settlement) error {
	var errs []error
	for _, r := range rs {
		if err := r.RecordSettlement(ctx, settlement); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ShoeFactory builds the shoe for a new round
type ShoeFactory func() (entities.Shoe, error)

// Options configures a Game
type Options struct {
	NumDecks        int
	StartingBalance entities.Amount
	MinBet          entities.Amount
	MaxBet          entities.Amount // zero means no table maximum
	MaxSeats        int

	PeekDelay      time.Duration
	ActionDelay    time.Duration
	DealerDelay    time.Duration
	AutoResetDelay time.Duration // zero leaves a settled round on the table

	Clock    quartz.Clock
	Logger   *logging.Logger
	Recorder SettlementRecorder
	NewShoe  ShoeFactory
	Seed     int64
}

// DefaultOptions returns a six-deck table with a 10000 starting balance
func DefaultOptions() Options {
	return Options{
		NumDecks:        StandardDecks,
		StartingBalance: 10000,
		MinBet:          2,
		MaxSeats:        MaxSeats,
		PeekDelay:       100 * time.Millisecond,
		ActionDelay:     time.Second,
		DealerDelay:     time.Second,
	}
}

const recordTimeout = 5 * time.Second

// Game owns the round state for one table and serializes every change to it
type Game struct {
	mu    sync.Mutex
	opts  Options
	state RoundState

	clock quartz.Clock
	pacer *scheduler.Pacer
	log   *logging.Logger
	rng   *rand.Rand

	subs    map[int]chan RoundState
	nextSub int
}

// NewGame creates an idle table
func NewGame(opts Options) *Game {
	if opts.NumDecks <= 0 {
		opts.NumDecks = StandardDecks
	}
	if opts.MaxSeats <= 0 {
		opts.MaxSeats = MaxSeats
	}
	if opts.MinBet <= 0 {
		opts.MinBet = 2
	}
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger := opts.Logger.WithPrefix("blackjack")
	return &Game{
		opts:  opts,
		state: newRoundState(opts.StartingBalance, 0),
		clock: opts.Clock,
		pacer: scheduler.NewPacer(opts.Clock, logger),
		log:   logger,
		rng:   rand.New(rand.NewSource(seed)),
		subs:  make(map[int]chan RoundState),
	}
}

// Snapshot returns a copy of the current state
func (g *Game) Snapshot() RoundState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Clone()
}

// Subscribe returns a channel that receives a snapshot after every
// transition. A subscriber that falls behind misses snapshots rather than
// stalling the table. The returned func unsubscribes.
func (g *Game) Subscribe(buffer int) (<-chan RoundState, func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if buffer < 1 {
		buffer = 1
	}
	id := g.nextSub
	g.nextSub++
	ch := make(chan RoundState, buffer)
	g.subs[id] = ch

	return ch, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if sub, ok := g.subs[id]; ok {
			delete(g.subs, id)
			close(sub)
		}
	}
}

// Close cancels pending continuations and closes every subscription
func (g *Game) Close() {
	g.pacer.Stop()

	g.mu.Lock()
	defer g.mu.Unlock()
	for id, ch := range g.subs {
		delete(g.subs, id)
		close(ch)
	}
}

// PlaceBet stakes amount on a seat. Unknown seats are opened while the table
// has room. Betting again on the same seat replaces the earlier bet. A bet
// on a settled round clears the table first.
func (g *Game) PlaceBet(seatID string, amount entities.Amount) (RoundState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	base := g.state
	if base.Phase == entities.PhaseComplete {
		base = newRoundState(base.Balance, base.Generation+1)
	}
	if base.Phase != entities.PhaseIdle && base.Phase != entities.PhaseBetting {
		return g.reject("Round in progress"), nil
	}
	if seatID == "" {
		seatID = DefaultSeatID
	}
	if amount <= 0 || amount%2 != 0 {
		return g.reject("Invalid bet amount"), nil
	}
	if amount < g.opts.MinBet {
		return g.reject(fmt.Sprintf("Minimum bet is %d", g.opts.MinBet)), nil
	}
	if g.opts.MaxBet > 0 && amount > g.opts.MaxBet {
		return g.reject(fmt.Sprintf("Maximum bet is %d", g.opts.MaxBet)), nil
	}

	seat, exists := base.Seats[seatID]
	if !exists && len(base.Seats) >= g.opts.MaxSeats {
		return g.reject("Table is full"), nil
	}
	available := base.Balance
	if exists && seat.Active {
		available += seat.Stake()
	}
	if amount > available {
		return g.reject("Insufficient balance"), nil
	}

	next := base.Clone()
	if !exists {
		next.Seats[seatID] = &Seat{ID: seatID}
		next.SeatOrder = append(next.SeatOrder, seatID)
	}
	s := next.Seats[seatID]
	s.Hands = []Hand{NewHand(amount)}
	s.Active = true
	s.CurrentHandIndex = 0
	next.Balance = available - amount
	next.Phase = entities.PhaseBetting
	next.Message = "Bet placed. Click Deal to start"

	g.log.Debug("bet %d on %s, balance %d", amount, seatID, next.Balance)
	g.commit(next)
	return g.state.Clone(), nil
}

// Deal builds a fresh shoe and deals the opening cards
func (g *Game) Deal() (RoundState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Phase != entities.PhaseBetting || len(g.state.ActiveSeats()) == 0 {
		return g.reject("Please place a bet first"), nil
	}

	shoe, err := g.buildShoe()
	if err != nil {
		return g.abort(err)
	}

	next := g.state.Clone()
	next.RoundID = uuid.New().String()

	for _, seat := range next.ActiveSeats() {
		var cards []entities.Card
		cards, shoe, err = entities.DealMany(shoe, 2, true)
		if err != nil {
			return g.abort(err)
		}
		hand := seat.Hands[0]
		for _, card := range cards {
			if hand, err = AddCard(hand, card); err != nil {
				return g.abort(err)
			}
		}
		seat.Hands = []Hand{hand}
		seat.CurrentHandIndex = 0
	}

	up, shoe, err := entities.Deal(shoe, true)
	if err != nil {
		return g.abort(err)
	}
	hole, shoe, err := entities.Deal(shoe, false)
	if err != nil {
		return g.abort(err)
	}
	next.DealerHand = []entities.Card{up, hole}
	next.Shoe = shoe
	next.ActiveSeatID = next.ActiveSeats()[0].ID

	g.log.Info("round %s dealt, dealer shows %s", next.RoundID, up)

	if IsAce(up) {
		next.Phase = entities.PhaseInsurance
		next.Message = "Dealer showing Ace. Insurance?"
		g.commit(next)
		return g.state.Clone(), nil
	}

	next.Phase = entities.PhasePlaying
	next.Busy = true
	next.Message = "Your turn"
	g.commit(next)
	g.schedule("dealer-peek", g.opts.PeekDelay, entities.PhasePlaying, g.checkDealerBlackjack)
	return g.state.Clone(), nil
}

// Hit deals one card to the active hand. A hand that busts or reaches 21
// moves on by itself after the action delay.
func (g *Game) Hit() (RoundState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	seatID, index, hand, reason := g.actionableHand()
	if reason != "" {
		return g.reject(reason), nil
	}

	next := g.state.Clone()
	card, shoe, err := entities.Deal(next.Shoe, true)
	if err != nil {
		return g.abort(err)
	}
	next.Shoe = shoe
	if hand, err = AddCard(hand, card); err != nil {
		return g.abort(err)
	}

	value := hand.Value()
	switch {
	case value.IsBust:
		next.Message = "Bust!"
		next.Busy = true
	case value.Value == 21:
		hand.Status = StatusStand
		next.Message = "Hand value: 21"
		next.Busy = true
	default:
		next.Message = fmt.Sprintf("Hand value: %d", value.Value)
	}
	next.Seats[seatID].Hands[index] = hand

	g.commit(next)
	if next.Busy {
		g.schedule("advance", g.opts.ActionDelay, entities.PhasePlaying, g.advanceAfterAction)
	}
	return g.state.Clone(), nil
}

// Stand ends the active hand
func (g *Game) Stand() (RoundState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	seatID, index, hand, reason := g.actionableHand()
	if reason != "" {
		return g.reject(reason), nil
	}

	next := g.state.Clone()
	hand, err := Stand(hand)
	if err != nil {
		return g.abort(err)
	}
	next.Seats[seatID].Hands[index] = hand
	next.Message = "Standing"
	g.advance(&next)

	g.transition(next)
	return g.state.Clone(), nil
}

// Reset clears the table. Bets that have not been dealt go back to the
// balance; stakes of a dealt round that has not settled are forfeit.
func (g *Game) Reset() RoundState {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.resetLocked()
	return g.state.Clone()
}

// SetMessage replaces the status message
func (g *Game) SetMessage(text string) RoundState {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state.Message = text
	g.publish()
	return g.state.Clone()
}

func (g *Game) resetLocked() {
	balance := g.state.Balance
	switch {
	case g.state.Settled:
	case g.state.Phase == entities.PhaseBetting:
		balance += g.state.committedStake()
	case g.state.Phase != entities.PhaseIdle:
		g.log.Info("round %s reset before settlement, %d forfeit", g.state.RoundID, g.state.committedStake())
	}
	g.commit(newRoundState(balance, g.state.Generation+1))
}

// actionableHand finds the hand a player action applies to, or the reason
// there is none.
func (g *Game) actionableHand() (string, int, Hand, string) {
	if g.state.Phase != entities.PhasePlaying {
		return "", 0, Hand{}, "No hand in play"
	}
	if g.state.Busy {
		return "", 0, Hand{}, "Please wait"
	}
	seat, ok := g.state.Seats[g.state.ActiveSeatID]
	if !ok {
		return "", 0, Hand{}, "No hand in play"
	}
	hand, ok := seat.CurrentHand()
	if !ok || hand.Finished() {
		return "", 0, Hand{}, "No hand in play"
	}
	return seat.ID, seat.CurrentHandIndex, hand, ""
}

// advance moves the cursor to the next unfinished hand, first within the
// active seat and then across later seats. With none left the dealer plays.
func (g *Game) advance(next *RoundState) {
	if seat, ok := next.Seats[next.ActiveSeatID]; ok {
		for i := seat.CurrentHandIndex + 1; i < len(seat.Hands); i++ {
			if !seat.Hands[i].Finished() {
				seat.CurrentHandIndex = i
				next.Message = "Next hand"
				return
			}
		}
	}

	from := 0
	for i, id := range next.SeatOrder {
		if id == next.ActiveSeatID {
			from = i + 1
			break
		}
	}
	g.moveToPlayable(next, from)
}

func (g *Game) moveToPlayable(next *RoundState, from int) {
	for _, id := range next.SeatOrder[from:] {
		seat := next.Seats[id]
		if !seat.Active {
			continue
		}
		for i, h := range seat.Hands {
			if !h.Finished() {
				next.ActiveSeatID = id
				seat.CurrentHandIndex = i
				next.Message = "Your turn"
				return
			}
		}
	}
	g.enterDealerTurn(next)
}

func (g *Game) advanceAfterAction() {
	next := g.state.Clone()
	next.Busy = false
	g.advance(&next)
	g.transition(next)
}

func (g *Game) buildShoe() (entities.Shoe, error) {
	if g.opts.NewShoe != nil {
		return g.opts.NewShoe()
	}
	shoe, err := entities.BuildShoe(g.opts.NumDecks)
	if err != nil {
		return nil, err
	}
	return entities.Shuffle(shoe, g.rng), nil
}

// schedule runs fn after delay, provided the round is still in the same
// generation and phase when it fires. A non-positive delay runs fn now.
// Callers hold g.mu.
func (g *Game) schedule(name string, delay time.Duration, phase entities.RoundPhase, fn func()) {
	generation := g.state.Generation
	if delay <= 0 {
		fn()
		return
	}

	g.pacer.After(name, delay, func() {
		g.mu.Lock()
		defer g.mu.Unlock()

		if g.state.Generation != generation || g.state.Phase != phase {
			g.log.Debug("skipping stale %s (generation %d/%d, phase %s/%s)",
				name, generation, g.state.Generation, phase, g.state.Phase)
			return
		}
		fn()
	})
}

// transition commits next and starts whatever the new phase runs on its own
func (g *Game) transition(next RoundState) {
	prev := g.state.Phase
	g.commit(next)

	switch {
	case next.Phase == entities.PhaseDealerTurn && prev != entities.PhaseDealerTurn:
		g.schedule("dealer-draw", g.opts.DealerDelay, entities.PhaseDealerTurn, g.dealerStep)
	case next.Phase == entities.PhaseComplete && prev != entities.PhaseComplete:
		g.afterSettlement()
	}
}

func (g *Game) commit(next RoundState) {
	g.state = next
	g.publish()
}

func (g *Game) reject(message string) RoundState {
	g.log.Debug("rejected in %s: %s", g.state.Phase, message)
	g.state.Message = message
	g.publish()
	return g.state.Clone()
}

func (g *Game) publish() {
	for _, ch := range g.subs {
		select {
		case ch <- g.state.Clone():
		default:
		}
	}
}
