package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/fadedpez/tablejack/internal/logging"
	"github.com/fadedpez/tablejack/internal/types"
	"github.com/fadedpez/tablejack/pkg/entities"
	"github.com/fadedpez/tablejack/pkg/services/blackjack"
)

// OutcomeEmoji maps hand outcomes to the emoji shown in announcements
var OutcomeEmoji = map[entities.Outcome]string{
	entities.OutcomeBlackjack: "🃏",
	entities.OutcomeWin:       "💰",
	entities.OutcomePush:      "🤝",
	entities.OutcomeLoss:      "💸",
}

// Session is the part of a Discord session the announcer uses
type Session interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	Open() error
	Close() error
}

// DiscordSession implements Session using discordgo.Session
type DiscordSession struct {
	*discordgo.Session
}

// NewSession creates a bot session for token
func NewSession(token string) (*DiscordSession, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	return &DiscordSession{Session: s}, nil
}

// Announcer posts a line per settled round to a Discord channel
type Announcer struct {
	session   Session
	channelID string
	log       *logging.Logger
}

// NewAnnouncer creates an announcer posting to channelID
func NewAnnouncer(session Session, channelID string, logger *logging.Logger) *Announcer {
	if logger == nil {
		logger = logging.Default
	}
	return &Announcer{
		session:   session,
		channelID: channelID,
		log:       logger.WithPrefix("announcer"),
	}
}

// Open connects the underlying session
func (a *Announcer) Open() error {
	if err := a.session.Open(); err != nil {
		return types.WrapError(types.ErrNetworkError, "opening discord session", err)
	}
	return nil
}

// Close disconnects the underlying session
func (a *Announcer) Close() error {
	return a.session.Close()
}

// RecordSettlement implements blackjack.SettlementRecorder
func (a *Announcer) RecordSettlement(ctx context.Context, settlement blackjack.Settlement) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line := Summary(settlement)
	if _, err := a.session.ChannelMessageSend(a.channelID, line); err != nil {
		return types.WrapError(types.ErrNetworkError, "announcing round "+settlement.RoundID, err)
	}
	a.log.Debug("announced round %s", settlement.RoundID)
	return nil
}

// Summary renders a settlement as a single line, e.g.
// "Round 1a2b3c4d | dealer 18 | seat1 💰 20 +100 | payout 200, balance 10100"
func Summary(settlement blackjack.Settlement) string {
	parts := []string{
		"Round " + shortID(settlement.RoundID),
		fmt.Sprintf("dealer %d", settlement.DealerValue),
	}
	for _, hand := range settlement.Hands {
		label := hand.SeatID
		if hand.IsSplit {
			label = fmt.Sprintf("%s#%d", hand.SeatID, hand.HandIndex+1)
		}
		if hand.IsDouble {
			label += " (x2)"
		}
		emoji := OutcomeEmoji[hand.Outcome]
		if emoji == "" {
			emoji = "❔"
		}
		parts = append(parts, fmt.Sprintf("%s %s %d %s", label, emoji, hand.PlayerValue, signed(hand.Payout-hand.Bet)))
	}
	if settlement.InsurancePaid > 0 {
		parts = append(parts, fmt.Sprintf("insurance %d", settlement.InsurancePaid))
	}
	parts = append(parts, fmt.Sprintf("payout %d, balance %d", settlement.TotalPayout, settlement.BalanceAfter))
	return strings.Join(parts, " | ")
}

func signed(a entities.Amount) string {
	if a > 0 {
		return "+" + a.String()
	}
	return a.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
