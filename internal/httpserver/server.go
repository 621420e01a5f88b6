// internal/httpserver/server.go
//
// HTTP server wiring for the number-guessing backend.
// Responsibilities:
//   - Router + middleware (request IDs, logging, panic recovery, timeouts, JSON, CORS).
//   - Public endpoints: "/", "/health".
//   - Round endpoints (optional auth): GET /round, POST /round/new, POST /round/guess.
//   - Daily challenge (optional auth): POST /daily/new.
//   - Accounts, stats and leaderboard when a database is configured.
//
// Notes:
//   - Every session (cookie ng_session) owns one live round; /round/new replaces it.
//   - Submissions are serialized by Server.mu so a stale double submit behaves
//     like a guess on a finished round (no-op).
//   - Ledger writes are best effort: failures are logged, never surfaced.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"github.com/robalobadob/numberguess/internal/auth"
	"github.com/robalobadob/numberguess/internal/game"
	"github.com/robalobadob/numberguess/internal/i18n"
	"github.com/robalobadob/numberguess/internal/ledger"
	"github.com/robalobadob/numberguess/internal/logging"
	"github.com/robalobadob/numberguess/internal/random"
	"github.com/robalobadob/numberguess/internal/store"
)

const sessionCookieName = "ng_session"

// Options wires a Server. Ledger and Auth are optional: when nil the
// server runs without accounts, stats or leaderboard.
type Options struct {
	Store        store.Store
	Ledger       *ledger.Store
	Auth         *auth.Service
	NewRand      func() game.Rand // defaults to random.New
	Now          func() time.Time // defaults to time.Now
	DefaultLang  language.Tag
	DailySalt    string
	ClientOrigin string
	Secure       bool // production cookies
}

// Server bundles router, session store and optional persistence.
type Server struct {
	r       *chi.Mux
	store   store.Store
	ledger  *ledger.Store
	auth    *auth.Service
	newRand func() game.Rand
	now     func() time.Time
	lang    language.Tag
	salt    string
	secure  bool

	mu sync.Mutex // guards read-modify-save of session rounds
}

// New constructs a Server, installs middleware, and registers routes.
func New(o Options) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		store:   o.Store,
		ledger:  o.Ledger,
		auth:    o.Auth,
		newRand: o.NewRand,
		now:     o.Now,
		lang:    o.DefaultLang,
		salt:    o.DailySalt,
		secure:  o.Secure,
	}
	if s.store == nil {
		s.store = store.NewMemoryStore()
	}
	if s.newRand == nil {
		s.newRand = func() game.Rand { return random.New() }
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.lang == language.Und {
		s.lang = i18n.Default()
	}
	origin := o.ClientOrigin
	if origin == "" {
		origin = "http://localhost:5173"
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(logging.Requests)                // one debug line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(origin))                    // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "numberguess",
			"endpoints": []string{"/health", "GET /round", "POST /round/new", "POST /round/guess", "POST /daily/new"},
			"accounts":  s.auth != nil,
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	// Rounds: optional auth, guests can play
	s.r.Group(func(r chi.Router) {
		if s.auth != nil {
			r.Use(s.auth.Optional)
		}
		s.mountRounds(r)
		s.mountDaily(r)
	})

	// Accounts, stats, leaderboard
	if s.auth != nil && s.ledger != nil {
		s.mountAuthRoutes()
	}

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler { return s.r }

// PruneIdle drops sessions idle for longer than ttl, checking every
// interval until ctx is done.
func (s *Server) PruneIdle(ctx context.Context, interval, ttl time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.store.Prune(ctx, s.now().Add(-ttl)); n > 0 {
				log.Debug().Int("sessions", n).Msg("pruned idle sessions")
			}
		}
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------- sessions ----------------------------------

// sessionID returns the session cookie value, or "" if none.
func sessionID(r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// ensureSessionID returns the existing session cookie or sets a new one.
func (s *Server) ensureSessionID(w http.ResponseWriter, r *http.Request) string {
	if id := sessionID(r); id != "" {
		return id
	}
	id := uuid.NewString()
	sameSite := http.SameSiteLaxMode
	if s.secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: sameSite,
		Expires:  s.now().Add(180 * 24 * time.Hour),
	})
	return id
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// decodeJSON reads a small JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 4<<10)
	return json.NewDecoder(r.Body).Decode(v)
}
