// internal/httpserver/routes_daily.go
//
// HTTP route for the daily challenge:
//   - POST /daily/new → start (or resume) today's daily round
//
// A daily round plays by the normal rules, but its secret is the same for
// every player on a given UTC date (HMAC of the date with DAILY_SALT).
// Each player gets one daily round per day:
//   - the session keeps it (parked) while classic rounds are played;
//   - a finished daily round in the ledger refuses another one;
//   - registered players are also limited across sessions (daily_starts).

package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numberguess/internal/auth"
	"github.com/robalobadob/numberguess/internal/daily"
	"github.com/robalobadob/numberguess/internal/game"
	"github.com/robalobadob/numberguess/internal/store"
)

// errDailyStarted means a registered player already has today's round
// in another session.
var errDailyStarted = errors.New("daily round already started")

// mountDaily registers the /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Post("/daily/new", s.handleDailyNew)
}

// handleDailyNew makes today's daily round the session's active round.
//   - If the player already finished today's round (ledger) → 409 already_played.
//   - If the session holds today's daily round, active or parked → it is resumed.
//   - If a registered player started it in another session → 409 already_started.
//   - Otherwise a new daily round becomes active; a classic round is dropped.
func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	sid := s.ensureSessionID(w, r)
	now := s.now()
	day := daily.DateKey(now)

	var userID string
	if me := auth.FromContext(r.Context()); me != nil {
		userID = me.ID
	}

	if s.ledger != nil {
		played, err := s.ledger.AlreadyPlayed(r.Context(), userID, sid, day)
		if err != nil {
			log.Warn().Err(err).Msg("daily already played")
		} else if played {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "already_played", "day": day})
			return
		}
	}

	s.mu.Lock()
	sess, err := s.dailySession(r, sid, userID, day)
	var fb game.Feedback
	if err == nil {
		fb = sess.Round.Feedback()
	}
	s.mu.Unlock()

	switch {
	case errors.Is(err, errDailyStarted):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "already_started", "day": day})
		return
	case err != nil:
		log.Error().Err(err).Msg("save daily round")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, s.render(w, r, sess, fb))
}

// dailySession returns the session with today's daily round active,
// resuming the one the session already holds. Callers hold s.mu.
func (s *Server) dailySession(r *http.Request, sid, userID, day string) (*store.Session, error) {
	prev, err := s.store.Get(r.Context(), sid)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if prev != nil && prev.Mode == store.ModeDaily && prev.Day == day {
		return prev, nil
	}

	var round *game.Round
	if prev != nil {
		round = prev.DailyFor(day)
	}
	if round == nil {
		round = game.StartWithSecret(s.newRand(), daily.Secret(s.now(), s.salt))
		if userID != "" && s.ledger != nil {
			fresh, err := s.ledger.StartDaily(r.Context(), userID, day, round.ID, s.now())
			if err != nil {
				return nil, err
			}
			if !fresh {
				return nil, errDailyStarted
			}
		}
		log.Debug().Str("session", sid).Str("round", round.ID).Str("day", day).Msg("daily round started")
	}

	sess := &store.Session{Round: round, Mode: store.ModeDaily, Day: day}
	if err := s.store.Save(r.Context(), sid, sess); err != nil {
		return nil, err
	}
	return sess, nil
}
