package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/fadedpez/tablejack/internal/types"
	"github.com/fadedpez/tablejack/pkg/entities"
)

// CreateSessionRequest is the body of POST /api/sessions
type CreateSessionRequest struct {
	PlayerID       string          `json:"playerId"`
	InitialBalance entities.Amount `json:"initialBalance"`
}

// CreateSessionResponse carries the new session and its token
type CreateSessionResponse struct {
	Session   *entities.Session `json:"session"`
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Code    types.ErrorCode `json:"code"`
	Message string          `json:"message"`
}

var statusByCode = map[types.ErrorCode]int{
	types.ErrInvalidArgument:   http.StatusBadRequest,
	types.ErrInvalidAmount:     http.StatusBadRequest,
	types.ErrInsufficientFunds: http.StatusBadRequest,
	types.ErrInvalidAction:     http.StatusBadRequest,
	types.ErrUnauthorized:      http.StatusUnauthorized,
	types.ErrSessionNotFound:   http.StatusNotFound,
	types.ErrTableNotFound:     http.StatusNotFound,
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, types.WrapError(types.ErrInvalidArgument, "Invalid request body", err))
		return
	}

	session, err := s.sessions.CreateSession(r.Context(), req.PlayerID, req.InitialBalance)
	if err != nil {
		writeError(w, err)
		return
	}
	token, expiresAt, err := s.tokens.Mint(session.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreateSessionResponse{
		Session:   session,
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := authorizedSession(w, r)
	if !ok {
		return
	}

	stats, err := s.sessions.GetStats(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := authorizedSession(w, r)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}

	history, err := s.sessions.GetHistory(r.Context(), sessionID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}

	entries, err := s.sessions.GetLeaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"tables": s.tables.Len()})
}

// authorizedSession returns the {id} route variable when the request's
// token was issued for it
func authorizedSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := mux.Vars(r)["id"]
	if sessionID == "" || sessionID != SessionIDFrom(r.Context()) {
		writeError(w, types.NewGameError(types.ErrUnauthorized, "Token does not grant access to this session"))
		return "", false
	}
	return sessionID, true
}

// queryInt reads an optional integer query parameter. Missing means zero.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, types.WrapError(types.ErrInvalidArgument, "Invalid "+name, err)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Code: types.ErrInternalError, Message: "Internal error"}
	var gameErr *types.GameError
	if types.As(err, &gameErr) {
		resp = ErrorResponse{Code: gameErr.Code, Message: gameErr.Message}
	}

	status, ok := statusByCode[resp.Code]
	if !ok {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, resp)
}
