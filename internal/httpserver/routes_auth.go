package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numberguess/internal/auth"
	"github.com/robalobadob/numberguess/internal/daily"
	"github.com/robalobadob/numberguess/internal/ledger"
	"github.com/robalobadob/numberguess/internal/store"
)

// credentials is the payload for signup and login.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// mountAuthRoutes registers authentication, gated profile routes and the
// public leaderboard.
func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)
	s.r.Get("/leaderboard", s.handleLeaderboard)

	s.r.Group(func(r chi.Router) {
		r.Use(s.auth.Require)
		r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, auth.FromContext(r.Context()))
		})
		r.Get("/stats/me", s.handleStats)
		r.Get("/rounds/mine", s.handleMyRounds)
	})
}

// handleSignup creates a user, sets the auth cookie and claims the
// session's anonymous rounds.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.auth.Signup(r.Context(), body.Username, body.Password)
	switch {
	case errors.Is(err, auth.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username_taken")
		return
	case err != nil:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_signup", "detail": err.Error()})
		return
	}
	s.signIn(w, r, u)
}

// handleLogin authenticates, sets the cookie and claims anonymous rounds.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.auth.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			log.Error().Err(err).Msg("login")
		}
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	s.signIn(w, r, u)
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request, u *auth.User) {
	tok, exp, err := s.auth.SignToken(u)
	if err != nil {
		log.Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.auth.SetCookie(w, tok, exp)

	if sid := sessionID(r); sid != "" {
		n, err := s.ledger.ClaimAnonymous(r.Context(), sid, u.ID)
		if err != nil {
			log.Warn().Err(err).Msg("claim anonymous rounds")
		} else if n > 0 {
			log.Info().Int64("rounds", n).Str("user", u.ID).Msg("claimed anonymous rounds")
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username, "token": tok})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.ClearCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	me := auth.FromContext(r.Context())
	st, err := s.ledger.Stats(r.Context(), me.ID)
	if err != nil {
		log.Error().Err(err).Str("user", me.ID).Msg("load stats")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		ID string `json:"id"`
		ledger.Stats
	}{me.ID, st})
}

func (s *Server) handleMyRounds(w http.ResponseWriter, r *http.Request) {
	me := auth.FromContext(r.Context())
	rows, err := s.ledger.Recent(r.Context(), me.ID, 50)
	if err != nil {
		log.Error().Err(err).Str("user", me.ID).Msg("load rounds")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// lbRes is returned by /leaderboard.
type lbRes struct {
	Mode store.Mode     `json:"mode"`
	Day  string         `json:"day,omitempty"`
	Top  []ledger.LBRow `json:"top"`
}

// handleLeaderboard returns the best won rounds.
// Query: mode=classic|daily (default classic), date=YYYY-MM-DD (daily
// only, default today), limit=N (default 20).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := ledger.Filter{Mode: store.Mode(q.Get("mode"))}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil {
		f.Limit = n
	}

	switch f.Mode {
	case "", store.ModeClassic:
		f.Mode = store.ModeClassic
	case store.ModeDaily:
		f.Day = q.Get("date")
		if f.Day == "" {
			f.Day = daily.DateKey(s.now())
		} else if _, err := daily.ParseDateKey(f.Day); err != nil {
			writeError(w, http.StatusBadRequest, "bad_date")
			return
		}
	default:
		writeError(w, http.StatusBadRequest, "bad_mode")
		return
	}

	rows, err := s.ledger.Leaderboard(r.Context(), f)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Mode: f.Mode, Day: f.Day, Top: rows})
}
