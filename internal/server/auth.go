package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/coder/quartz"
	"github.com/golang-jwt/jwt/v4"

	"github.com/fadedpez/tablejack/internal/types"
)

type contextKey string

const sessionIDKey = contextKey("sessionID")

// Claims identify the session a token was issued for
type Claims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and checks HS256 session tokens
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  quartz.Clock
	parser *jwt.Parser
}

// NewTokenIssuer creates an issuer. Expiry is checked against clock.
func NewTokenIssuer(secret []byte, ttl time.Duration, clock quartz.Clock) *TokenIssuer {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &TokenIssuer{
		secret: secret,
		ttl:    ttl,
		clock:  clock,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
}

// Mint returns a signed token for sessionID and its expiry
func (t *TokenIssuer) Mint(sessionID string) (string, time.Time, error) {
	now := t.clock.Now()
	expiresAt := now.Add(t.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, types.WrapError(types.ErrInternalError, "signing token", err)
	}
	return signed, expiresAt, nil
}

// Parse validates tokenStr and returns the session it was issued for
func (t *TokenIssuer) Parse(tokenStr string) (string, error) {
	claims := &Claims{}
	_, err := t.parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil {
		return "", types.WrapError(types.ErrUnauthorized, "Invalid token", err)
	}
	if !claims.VerifyExpiresAt(t.clock.Now(), true) {
		return "", types.NewGameError(types.ErrUnauthorized, "Token expired")
	}
	if claims.SessionID == "" {
		return "", types.NewGameError(types.ErrUnauthorized, "Missing session_id in token")
	}
	return claims.SessionID, nil
}

// Middleware rejects requests without a valid token. The token is read from
// the Authorization header, or from the token query parameter for clients
// that cannot set headers on a websocket upgrade.
func (t *TokenIssuer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var tokenStr string
		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			tokenStr = strings.TrimPrefix(auth, "Bearer ")
		} else {
			tokenStr = r.URL.Query().Get("token")
		}
		if tokenStr == "" {
			writeError(w, types.NewGameError(types.ErrUnauthorized, "Missing token"))
			return
		}

		sessionID, err := t.Parse(tokenStr)
		if err != nil {
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionIDFrom returns the authenticated session, if any
func SessionIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}
