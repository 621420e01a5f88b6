package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numberguess/internal/auth"
	"github.com/robalobadob/numberguess/internal/game"
	"github.com/robalobadob/numberguess/internal/i18n"
	"github.com/robalobadob/numberguess/internal/ledger"
	"github.com/robalobadob/numberguess/internal/store"
)

// roundView is what the shell renders after every action.
type roundView struct {
	RoundID      string       `json:"roundId"`
	Mode         store.Mode   `json:"mode"`
	Day          string       `json:"day,omitempty"`
	Outcome      game.Outcome `json:"outcome"`
	Message      string       `json:"message"`
	Hint         string       `json:"hint,omitempty"`
	Attempts     int          `json:"attempts"`
	MaxAttempts  int          `json:"maxAttempts"`
	Score        int          `json:"score"`
	Status       game.Status  `json:"status"`
	InputEnabled bool         `json:"inputEnabled"`
}

// mountRounds registers the /round routes.
func (s *Server) mountRounds(r chi.Router) {
	r.Get("/round", s.handleCurrent)
	r.Post("/round/new", s.handleNewRound)
	r.Post("/round/guess", s.handleGuess)
}

// render localizes fb for the request's language.
func (s *Server) render(w http.ResponseWriter, r *http.Request, sess *store.Session, fb game.Feedback) roundView {
	tag, persist := i18n.ResolveTag(r, s.lang)
	if persist {
		i18n.SetLanguageCookie(w, tag)
	}
	p := i18n.Printer(tag)
	return roundView{
		RoundID:      sess.Round.ID,
		Mode:         sess.Mode,
		Day:          sess.Day,
		Outcome:      fb.Outcome,
		Message:      i18n.Message(p, fb),
		Hint:         i18n.Hint(p, fb.Hint),
		Attempts:     fb.Attempts,
		MaxAttempts:  fb.MaxAttempts,
		Score:        fb.Score,
		Status:       fb.Status,
		InputEnabled: fb.InputEnabled(),
	}
}

// startRound replaces the session's active round with a fresh classic
// one. A daily round held by prev is parked, not discarded.
func (s *Server) startRound(r *http.Request, sid string, prev *store.Session) (*store.Session, error) {
	sess := &store.Session{Round: game.Start(s.newRand()), Mode: store.ModeClassic}
	if prev != nil {
		sess.Daily = prev.ParkDaily()
	}
	if err := s.store.Save(r.Context(), sid, sess); err != nil {
		return nil, err
	}
	log.Debug().Str("session", sid).Str("round", sess.Round.ID).Msg("round started")
	return sess, nil
}

// handleCurrent returns the session's round, starting one if the session
// has none yet.
func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	sid := s.ensureSessionID(w, r)

	s.mu.Lock()
	sess, err := s.store.Get(r.Context(), sid)
	if errors.Is(err, store.ErrNotFound) {
		sess, err = s.startRound(r, sid, nil)
	}
	var fb game.Feedback
	if err == nil {
		fb = sess.Round.Feedback()
	}
	s.mu.Unlock()
	if err != nil {
		log.Error().Err(err).Msg("load round")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return
	}
	writeJSON(w, http.StatusOK, s.render(w, r, sess, fb))
}

// handleNewRound maps the shell's "new round" action.
func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	sid := s.ensureSessionID(w, r)

	s.mu.Lock()
	prev, _ := s.store.Get(r.Context(), sid)
	sess, err := s.startRound(r, sid, prev)
	var fb game.Feedback
	if err == nil {
		fb = sess.Round.Feedback()
	}
	s.mu.Unlock()
	if err != nil {
		log.Error().Err(err).Msg("save round")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, s.render(w, r, sess, fb))
}

// guessReq carries the raw text of the input field, unvalidated.
type guessReq struct {
	Input string `json:"input"`
}

// handleGuess maps both the submit button and the Enter key.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sid := sessionID(r)
	if sid == "" {
		writeError(w, http.StatusConflict, "no_round")
		return
	}

	s.mu.Lock()
	sess, err := s.store.Get(r.Context(), sid)
	if err != nil {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "no_round")
		return
	}
	wasFinished := sess.Round.Finished()
	fb := sess.Round.Submit(req.Input)
	justFinished := !wasFinished && sess.Round.Finished()
	saveErr := s.store.Save(r.Context(), sid, sess) // refresh idle timer
	s.mu.Unlock()

	if saveErr != nil {
		log.Warn().Err(saveErr).Str("session", sid).Msg("touch session")
	}
	if fb.Outcome == game.OutcomeInvalid {
		log.Debug().Str("session", sid).Msg("invalid guess input")
	}
	if justFinished {
		// A finished round is never mutated again; safe to read unlocked.
		s.recordFinished(r, sid, sess)
	}
	writeJSON(w, http.StatusOK, s.render(w, r, sess, fb))
}

// recordFinished writes a just-finished round to the ledger (best effort).
func (s *Server) recordFinished(r *http.Request, sid string, sess *store.Session) {
	log.Info().
		Str("round", sess.Round.ID).
		Str("mode", string(sess.Mode)).
		Str("status", string(sess.Round.Status())).
		Int("attempts", sess.Round.Attempts()).
		Int("score", sess.Round.Score()).
		Msg("round finished")

	if s.ledger == nil {
		return
	}
	res, err := ledger.ResultFromSession(sess)
	if err != nil {
		log.Warn().Err(err).Msg("build ledger result")
		return
	}
	if me := auth.FromContext(r.Context()); me != nil {
		res.UserID = me.ID
	} else {
		res.AnonymousID = sid
	}
	if err := s.ledger.Record(r.Context(), res); err != nil {
		log.Warn().Err(err).Str("round", res.RoundID).Msg("record round")
	}
}
