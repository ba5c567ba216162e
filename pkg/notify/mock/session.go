package mock

import (
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"
)

// Session is a mock implementation of notify.Session
type Session struct {
	mock.Mock
}

// ChannelMessageSend implements notify.Session
func (s *Session) ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := s.Called(channelID, content)
	msg, _ := args.Get(0).(*discordgo.Message)
	return msg, args.Error(1)
}

// Open implements notify.Session
func (s *Session) Open() error {
	args := s.Called()
	return args.Error(0)
}

// Close implements notify.Session
func (s *Session) Close() error {
	args := s.Called()
	return args.Error(0)
}
