package simulator

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fadedpez/tablejack/internal/logging"
	"github.com/fadedpez/tablejack/internal/types"
	"github.com/fadedpez/tablejack/pkg/entities"
	"github.com/fadedpez/tablejack/pkg/services/blackjack"
)

// maxStepsPerRound bounds the actions taken in one round. No legal round
// comes close; hitting it means an action was rejected and the state never moved.
const maxStepsPerRound = 64

// Action is a player decision
type Action string

const (
	ActionHit    Action = "hit"
	ActionStand  Action = "stand"
	ActionDouble Action = "double"
	ActionSplit  Action = "split"
)

// Strategy picks the action for the active hand. canDouble and canSplit
// already account for the balance.
type Strategy func(hand blackjack.Hand, canDouble, canSplit bool) Action

// BasicStrategy splits aces and eights, doubles hard 10 and 11, and draws
// to 17 (soft 17 included).
func BasicStrategy(hand blackjack.Hand, canDouble, canSplit bool) Action {
	if canSplit && (hand.Cards[0].Rank == entities.Ace || hand.Cards[0].Rank == entities.Eight) {
		return ActionSplit
	}

	value := hand.Value()
	if canDouble && !value.IsSoft && (value.Value == 10 || value.Value == 11) {
		return ActionDouble
	}
	if value.Value < 17 || (value.IsSoft && value.Value <= 17) {
		return ActionHit
	}
	return ActionStand
}

// Config describes a simulation run
type Config struct {
	Rounds   int
	Workers  int
	Seats    int
	Bet      entities.Amount
	NumDecks int
	Seed     int64
	Strategy Strategy
	Logger   *logging.Logger
}

// DefaultConfig plays 10000 single-seat rounds at 100 a hand
func DefaultConfig() Config {
	return Config{
		Rounds:   10000,
		Seats:    1,
		Bet:      100,
		NumDecks: blackjack.StandardDecks,
	}
}

// Report aggregates the results of a run
type Report struct {
	Rounds   int                      `json:"rounds"`
	Hands    int                      `json:"hands"`
	Outcomes map[entities.Outcome]int `json:"outcomes"`
	Doubles  int                      `json:"doubles"`
	Splits   int                      `json:"splits"`
	Wagered  entities.Amount          `json:"wagered"`
	Returned entities.Amount          `json:"returned"`
	Net      entities.Amount          `json:"net"`
	Aborted  int                      `json:"aborted"`
	Duration time.Duration            `json:"duration"`
}

func newReport() Report {
	return Report{Outcomes: make(map[entities.Outcome]int)}
}

func (r *Report) merge(other Report) {
	r.Rounds += other.Rounds
	r.Hands += other.Hands
	r.Doubles += other.Doubles
	r.Splits += other.Splits
	r.Wagered += other.Wagered
	r.Returned += other.Returned
	r.Net += other.Net
	r.Aborted += other.Aborted
	for outcome, n := range other.Outcomes {
		r.Outcomes[outcome] += n
	}
}

// HouseEdge returns the house's share of the amount wagered, in percent
func (r Report) HouseEdge() float64 {
	if r.Wagered == 0 {
		return 0
	}
	return -float64(r.Net) / float64(r.Wagered) * 100
}

// Run plays cfg.Rounds rounds spread across cfg.Workers tables. Every
// settled round is checked for conservation of chips; a violation stops the
// run with an ErrInvariant GameError. Rounds aborted on an empty shoe are
// counted and skipped.
func Run(ctx context.Context, cfg Config) (Report, error) {
	if cfg.Rounds <= 0 {
		return Report{}, types.NewGameError(types.ErrInvalidArgument, "rounds must be positive")
	}
	if cfg.Bet <= 0 || cfg.Bet%2 != 0 {
		return Report{}, types.NewGameError(types.ErrInvalidAmount, "bet must be a positive even amount")
	}
	if cfg.Seats <= 0 {
		cfg.Seats = 1
	}
	if cfg.Seats > blackjack.MaxSeats {
		return Report{}, types.NewGameError(types.ErrTooManySeats, fmt.Sprintf("at most %d seats", blackjack.MaxSeats))
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Workers > cfg.Rounds {
		cfg.Workers = cfg.Rounds
	}
	if cfg.Strategy == nil {
		cfg.Strategy = BasicStrategy
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default
	}
	logger := cfg.Logger.WithPrefix("simulator")

	start := time.Now()
	roundsPerWorker := cfg.Rounds / cfg.Workers
	remainder := cfg.Rounds % cfg.Workers

	g, ctx := errgroup.WithContext(ctx)
	results := make(chan Report, cfg.Workers)

	for w := 0; w < cfg.Workers; w++ {
		rounds := roundsPerWorker
		if w < remainder {
			rounds++
		}
		seed := cfg.Seed + int64(w)

		g.Go(func() error {
			report, err := runWorker(ctx, cfg, rounds, seed)
			if err != nil {
				return err
			}
			results <- report
			return nil
		})
	}

	err := g.Wait()
	close(results)

	total := newReport()
	for report := range results {
		total.merge(report)
	}
	total.Duration = time.Since(start)
	if err != nil {
		return total, err
	}

	logger.Info("%d rounds, %d hands, net %d, house edge %.2f%%",
		total.Rounds, total.Hands, total.Net, total.HouseEdge())
	return total, nil
}

func runWorker(ctx context.Context, cfg Config, rounds int, seed int64) (Report, error) {
	opts := blackjack.DefaultOptions()
	opts.NumDecks = cfg.NumDecks
	opts.MaxSeats = cfg.Seats
	opts.PeekDelay = 0
	opts.ActionDelay = 0
	opts.DealerDelay = 0
	opts.Seed = seed
	opts.Logger = logging.Discard()
	// a split with both halves doubled risks four bets per seat
	opts.StartingBalance = cfg.Bet * 4 * entities.Amount(cfg.Seats) * entities.Amount(rounds+1)

	game := blackjack.NewGame(opts)
	defer game.Close()

	report := newReport()
	seats := make([]string, cfg.Seats)
	for i := range seats {
		seats[i] = fmt.Sprintf("seat%d", i+1)
	}

	for i := 0; i < rounds; i++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		settlement, err := playRound(game, seats, cfg.Bet, cfg.Strategy)
		if types.IsGameError(err, types.ErrShoeExhausted) {
			report.Aborted++
			continue
		}
		if err != nil {
			return report, err
		}

		report.Rounds++
		for _, hand := range settlement.Hands {
			report.Hands++
			report.Outcomes[hand.Outcome]++
			report.Wagered += hand.Bet
			report.Returned += hand.Payout
			report.Net += hand.Payout - hand.Bet
			if hand.IsDouble {
				report.Doubles++
			}
			if hand.IsSplit && hand.HandIndex == 0 {
				report.Splits++
			}
		}
	}
	return report, nil
}

// playRound bets, deals and plays one round to settlement. Insurance is
// always declined.
func playRound(game *blackjack.Game, seats []string, bet entities.Amount, strategy Strategy) (blackjack.Settlement, error) {
	state := game.Snapshot()
	before := state.Balance

	var err error
	for _, seat := range seats {
		if state, err = game.PlaceBet(seat, bet); err != nil {
			return blackjack.Settlement{}, err
		}
		if s, ok := state.Seats[seat]; !ok || !s.Active || s.Stake() != bet {
			return blackjack.Settlement{}, invariant("bet on %s rejected: %s", seat, state.Message)
		}
	}
	if state, err = game.Deal(); err != nil {
		return blackjack.Settlement{}, err
	}

	for step := 0; state.Phase != entities.PhaseComplete; step++ {
		if step >= maxStepsPerRound {
			return blackjack.Settlement{}, invariant("round %s stuck in %s: %s", state.RoundID, state.Phase, state.Message)
		}

		switch state.Phase {
		case entities.PhaseInsurance:
			for _, seat := range state.ActiveSeats() {
				if state.InsuranceDecided[seat.ID] {
					continue
				}
				if state, err = game.DeclineInsurance(seat.ID); err != nil {
					return blackjack.Settlement{}, err
				}
				break
			}
		case entities.PhasePlaying:
			hand, ok := state.ActiveHand()
			if !ok {
				return blackjack.Settlement{}, invariant("round %s has no active hand", state.RoundID)
			}
			canDouble := blackjack.CanDouble(hand) && state.Balance >= hand.Bet
			canSplit := blackjack.CanSplit(hand) && state.Balance >= hand.Bet
			if state, err = act(game, strategy(hand, canDouble, canSplit)); err != nil {
				return blackjack.Settlement{}, err
			}
		default:
			return blackjack.Settlement{}, invariant("round %s left in %s with zero delays", state.RoundID, state.Phase)
		}
	}

	settlement := state.Settlement
	if settlement == nil {
		return blackjack.Settlement{}, invariant("round %s completed without a settlement", state.RoundID)
	}
	if err := checkSettlement(*settlement, before); err != nil {
		return blackjack.Settlement{}, err
	}
	return *settlement, nil
}

func act(game *blackjack.Game, action Action) (blackjack.RoundState, error) {
	switch action {
	case ActionHit:
		return game.Hit()
	case ActionDouble:
		return game.Double()
	case ActionSplit:
		return game.Split()
	default:
		return game.Stand()
	}
}

// checkSettlement verifies that the hands add up to the total payout and
// that no chips were created or lost between the bet and the settlement.
func checkSettlement(settlement blackjack.Settlement, before entities.Amount) error {
	var payouts, stakes entities.Amount
	for _, hand := range settlement.Hands {
		payouts += hand.Payout
		stakes += hand.Bet
	}
	if payouts != settlement.TotalPayout {
		return invariant("round %s hands pay %d, total says %d", settlement.RoundID, payouts, settlement.TotalPayout)
	}
	if want := before - stakes + payouts; want != settlement.BalanceAfter {
		return invariant("round %s balance %d, expected %d", settlement.RoundID, settlement.BalanceAfter, want)
	}
	return nil
}

func invariant(format string, args ...any) error {
	return types.NewGameError(types.ErrInvariant, fmt.Sprintf(format, args...))
}
