package server

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/fadedpez/tablejack/internal/types"
	"github.com/fadedpez/tablejack/pkg/entities"
	"github.com/fadedpez/tablejack/pkg/services/blackjack"
)

const subscriptionBuffer = 32

// Table socket actions
const (
	ActionBet              = "bet"
	ActionDeal             = "deal"
	ActionHit              = "hit"
	ActionStand            = "stand"
	ActionDouble           = "double"
	ActionSplit            = "split"
	ActionInsurance        = "insurance"
	ActionDeclineInsurance = "decline_insurance"
	ActionReset            = "reset"
	ActionMessage          = "message"
)

// Frame types sent to the client
const (
	FrameState = "state"
	FrameError = "error"
)

// Intent is a player action received over the table socket
type Intent struct {
	Action string          `json:"action"`
	SeatID string          `json:"seatId,omitempty"`
	Amount entities.Amount `json:"amount,omitempty"`
	Text   string          `json:"text,omitempty"`
}

// Frame is a message sent over the table socket. State frames never carry
// the shoe or the dealer's hole card.
type Frame struct {
	Type    string                `json:"type"`
	State   *blackjack.RoundState `json:"state,omitempty"`
	Code    types.ErrorCode       `json:"code,omitempty"`
	Message string                `json:"message,omitempty"`
}

func stateFrame(state blackjack.RoundState) Frame {
	masked := state.Masked()
	return Frame{Type: FrameState, State: &masked}
}

func errorFrame(err error) Frame {
	frame := Frame{Type: FrameError, Code: types.CodeOf(err), Message: err.Error()}
	var gameErr *types.GameError
	if types.As(err, &gameErr) {
		frame.Message = gameErr.Message
	}
	return frame
}

// socket serializes writes to one websocket connection
type socket struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *socket) send(frame Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(frame)
}

// handleTable streams the session's table to the client and applies the
// intents it sends back
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	sessionID := SessionIDFrom(r.Context())
	game, release, err := s.tables.Acquire(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	defer release()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade for %s failed: %v", sessionID, err)
		return
	}
	defer conn.Close()
	sock := &socket{conn: conn}

	updates, unsubscribe := game.Subscribe(subscriptionBuffer)
	defer unsubscribe()

	if err := sock.send(stateFrame(game.Snapshot())); err != nil {
		return
	}
	s.log.Debug("table socket opened for %s", sessionID)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// unblocks the read loop once the table goes away
		defer conn.Close()
		for state := range updates {
			if err := sock.send(stateFrame(state)); err != nil {
				return
			}
		}
	}()

	for {
		var intent Intent
		if err := conn.ReadJSON(&intent); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("table socket for %s: %v", sessionID, err)
			}
			break
		}
		if _, err := applyIntent(game, intent); err != nil {
			s.log.Debug("intent %s for %s failed: %v", intent.Action, sessionID, err)
			if err := sock.send(errorFrame(err)); err != nil {
				break
			}
		}
	}

	unsubscribe()
	<-done
	s.log.Debug("table socket closed for %s", sessionID)
}

func applyIntent(game *blackjack.Game, intent Intent) (blackjack.RoundState, error) {
	switch intent.Action {
	case ActionBet:
		return game.PlaceBet(intent.SeatID, intent.Amount)
	case ActionDeal:
		return game.Deal()
	case ActionHit:
		return game.Hit()
	case ActionStand:
		return game.Stand()
	case ActionDouble:
		return game.Double()
	case ActionSplit:
		return game.Split()
	case ActionInsurance:
		return game.PlaceInsurance(intent.SeatID)
	case ActionDeclineInsurance:
		return game.DeclineInsurance(intent.SeatID)
	case ActionReset:
		return game.Reset(), nil
	case ActionMessage:
		return game.SetMessage(intent.Text), nil
	default:
		return blackjack.RoundState{}, types.NewGameError(types.ErrInvalidAction, fmt.Sprintf("Unknown action %q", intent.Action))
	}
}
