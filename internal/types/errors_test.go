package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (s *ErrorTestSuite) TestNewGameError() {
	err := NewGameError(ErrShoeExhausted, "shoe is empty")

	s.Equal(ErrShoeExhausted, err.Code, "Error code should match")
	s.Equal("shoe is empty", err.Message, "Error message should match")
	s.Nil(err.Err, "Underlying error should be nil")
}

func (s *ErrorTestSuite) TestWrapError() {
	underlying := errors.New("connection failed")

	err := WrapError(ErrDatabaseError, "saving session", underlying)

	s.Equal(ErrDatabaseError, err.Code)
	s.Equal("saving session", err.Message)
	s.ErrorIs(err, underlying, "Wrapped error should unwrap to the cause")
}

func (s *ErrorTestSuite) TestErrorString() {
	testCases := []struct {
		name     string
		err      *GameError
		expected string
	}{
		{
			name:     "Simple error",
			err:      NewGameError(ErrSessionNotFound, "session not found"),
			expected: "SESSION_NOT_FOUND: session not found",
		},
		{
			name:     "Wrapped error",
			err:      WrapError(ErrInternalError, "database error", errors.New("connection failed")),
			expected: "INTERNAL_ERROR: database error (connection failed)",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, tc.err.Error(), "Error string should match expected format")
		})
	}
}

func (s *ErrorTestSuite) TestIsGameError() {
	gameErr := NewGameError(ErrInvariant, "seat has no hands")
	wrapped := fmt.Errorf("settling round: %w", gameErr)

	testCases := []struct {
		name     string
		err      error
		code     ErrorCode
		expected bool
	}{
		{name: "Matching game error", err: gameErr, code: ErrInvariant, expected: true},
		{name: "Matching wrapped game error", err: wrapped, code: ErrInvariant, expected: true},
		{name: "Non-matching game error", err: gameErr, code: ErrInternalError, expected: false},
		{name: "Regular error", err: errors.New("regular error"), code: ErrInvariant, expected: false},
		{name: "Nil error", err: nil, code: ErrInvariant, expected: false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, IsGameError(tc.err, tc.code))
		})
	}
}

func (s *ErrorTestSuite) TestAs() {
	gameErr := NewGameError(ErrSessionNotFound, "session not found")

	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "Game error", err: gameErr, expected: true},
		{name: "Wrapped game error", err: fmt.Errorf("lookup: %w", gameErr), expected: true},
		{name: "Regular error", err: errors.New("regular error"), expected: false},
		{name: "Nil error", err: nil, expected: false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			var target *GameError
			result := As(tc.err, &target)
			s.Equal(tc.expected, result)
			if tc.expected {
				s.Equal(gameErr, target, "Target should be set to the game error")
			}
		})
	}
}

func (s *ErrorTestSuite) TestCodeOf() {
	s.Equal(ErrShoeExhausted, CodeOf(fmt.Errorf("deal: %w", NewGameError(ErrShoeExhausted, "empty"))))
	s.Equal(ErrInternalError, CodeOf(errors.New("plain")))
}
