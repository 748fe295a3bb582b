package http

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"cartflow/internal/order"
	"cartflow/internal/user"
)

type CredentialsRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	OK   bool        `json:"ok"`
	User user.Public `json:"user"`
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing fields: email, password")
		return
	}

	u, err := h.users.Signup(req.Email, req.Password, h.now())
	if err != nil {
		statusCode := mapErrorToStatusCode(err)

		var clientMessage string
		switch {
		case errors.Is(err, user.ErrEmailExists):
			clientMessage = "Email already exists"
		case errors.Is(err, user.ErrInvalidEmail):
			clientMessage = "Invalid email address"
		case errors.Is(err, user.ErrWeakPassword):
			clientMessage = "Password must be at least 8 characters"
		default:
			log.Error().Err(err).Msg("Failed to sign up via service")
			clientMessage = "Failed to sign up"
		}

		respondWithError(w, statusCode, clientMessage)
		return
	}

	s := sessionFrom(r.Context())
	s.User = u
	h.sessions.Rotate(s)
	h.setSessionCookie(w, s)
	h.logEvent(r, s, "signup", map[string]any{"email": u.Email})
	respondWithJSON(w, http.StatusOK, AuthResponse{OK: true, User: u.Public()})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing fields: email, password")
		return
	}

	u, err := h.users.Login(req.Email, req.Password)
	if err != nil {
		// one message for unknown email and wrong password alike; the
		// session is left exactly as it was
		respondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	s := sessionFrom(r.Context())
	s.User = u
	h.sessions.Rotate(s)
	h.setSessionCookie(w, s)
	h.logEvent(r, s, "login", nil)
	respondWithJSON(w, http.StatusOK, AuthResponse{OK: true, User: u.Public()})
}

// handleLogout clears the identity and the cart: logging out abandons the
// in-progress order.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())
	s.User = nil
	s.Order = order.New(h.now())
	h.sessions.Rotate(s)
	h.setSessionCookie(w, s)
	h.logEvent(r, s, "logout", nil)
	respondWithJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())
	var u *user.Public
	if s.User != nil {
		pub := s.User.Public()
		u = &pub
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"user": u})
}
