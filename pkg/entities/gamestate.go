package entities

// RoundPhase is the phase of a round
type RoundPhase string

const (
	PhaseIdle       RoundPhase = "idle"
	PhaseBetting    RoundPhase = "betting"
	PhaseInsurance  RoundPhase = "insurance"
	PhasePlaying    RoundPhase = "playing"
	PhaseDealerTurn RoundPhase = "dealerTurn"
	PhaseComplete   RoundPhase = "complete"
)

// Outcome is the settled result of one player hand against the dealer
type Outcome string

const (
	OutcomeWin       Outcome = "win"
	OutcomeLoss      Outcome = "loss"
	OutcomePush      Outcome = "push"
	OutcomeBlackjack Outcome = "blackjack"
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	return string(o)
}

// IsWin returns true if this outcome represents a win
func (o Outcome) IsWin() bool {
	return o == OutcomeWin || o == OutcomeBlackjack
}

// Valid reports whether o is one of the known outcomes
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeWin, OutcomeLoss, OutcomePush, OutcomeBlackjack:
		return true
	}
	return false
}
