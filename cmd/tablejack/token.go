package main

import (
	"fmt"
	"time"

	"github.com/fadedpez/tablejack/internal/logging"
	"github.com/fadedpez/tablejack/internal/server"
)

// TokenCmd mints a session token signed with the server's secret
type TokenCmd struct {
	SessionID string        `arg:"" name:"session-id" help:"Session to issue the token for"`
	Secret    string        `kong:"required,env='JWT_SECRET',help='Signing secret'"`
	TTL       time.Duration `kong:"default='24h',env='TOKEN_TTL',help='Token lifetime'"`
}

func (c *TokenCmd) Run(logger *logging.Logger) error {
	token, expiresAt, err := server.NewTokenIssuer([]byte(c.Secret), c.TTL, nil).Mint(c.SessionID)
	if err != nil {
		return err
	}
	logger.Debug("token for %s expires at %s", c.SessionID, expiresAt.Format(time.RFC3339))
	fmt.Println(token)
	return nil
}
