package server

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/anicrunch/anicrunch/internal/domain"
)

// DefaultHashCost is the bcrypt cost for new passwords
const DefaultHashCost = 10

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	User string `json:"user"`
}

type meUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type meResponse struct {
	User *meUser `json:"user"`
}

// readCredentials decodes and normalizes a login or signup body.
// ok is false when either field is missing.
func readCredentials(w http.ResponseWriter, r *http.Request) (credentials, bool) {
	var c credentials
	if err := decodeJSON(w, r, &c); err != nil {
		return c, false
	}
	c.Username = domain.NormalizeUsername(c.Username)
	return c, c.Username != "" && c.Password != ""
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	c, ok := readCredentials(w, r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Missing fields")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		writeMessage(w, http.StatusBadRequest, "Password too long")
		return
	}
	if err != nil {
		s.serverError(w, r, "failed to hash password", err)
		return
	}

	user, err := s.store.CreateUser(r.Context(), c.Username, string(hash))
	if errors.Is(err, domain.ErrUserExists) {
		writeMessage(w, http.StatusConflict, "User already exists")
		return
	}
	if err != nil {
		s.serverError(w, r, "failed to create user", err)
		return
	}

	if err := s.sessions.start(w, r, Session{UserID: user.ID, Username: user.Username}); err != nil {
		s.serverError(w, r, "failed to start session", err)
		return
	}

	s.logger.Info("user signed up", "request_id", RequestID(r.Context()), "user", user.Username)
	writeJSON(w, http.StatusOK, userResponse{User: user.Username})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	c, ok := readCredentials(w, r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Missing fields")
		return
	}

	user, err := s.store.UserByName(r.Context(), c.Username)
	if errors.Is(err, domain.ErrNotFound) {
		// Spend the same time as a wrong password
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(c.Password))
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		s.serverError(w, r, "failed to look up user", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(c.Password)); err != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := s.sessions.start(w, r, Session{UserID: user.ID, Username: user.Username}); err != nil {
		s.serverError(w, r, "failed to start session", err)
		return
	}

	s.logger.Info("user logged in", "request_id", RequestID(r.Context()), "user", user.Username)
	writeJSON(w, http.StatusOK, userResponse{User: user.Username})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.destroy(w, r); err != nil {
		s.logger.Warn("failed to delete session", "request_id", RequestID(r.Context()), "error", err)
	}
	writeSuccess(w)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess, _, err := s.sessions.load(r)
	if err != nil {
		s.logger.Warn("failed to load session", "request_id", RequestID(r.Context()), "error", err)
	}
	if sess == nil {
		writeJSON(w, http.StatusOK, meResponse{})
		return
	}
	writeJSON(w, http.StatusOK, meResponse{User: &meUser{ID: sess.UserID, Username: sess.Username}})
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.logger.Error(msg, "request_id", RequestID(r.Context()), "error", err)
	writeMessage(w, http.StatusInternalServerError, "Server error")
}
