// internal/store/memory.go
//
// In-memory implementation of the session Store.
// Each session (identified by its cookie value) owns at most one live
// round; saving a new Session for an ID replaces the old round wholesale.
//
// Characteristics:
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Idle sessions can be dropped with Prune.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/numberguess/internal/game"
)

// ErrNotFound is returned by Get when the session has no round.
var ErrNotFound = errors.New("not found")

// Mode tells how a round's secret was chosen.
type Mode string

const (
	ModeClassic Mode = "classic" // uniform random secret
	ModeDaily   Mode = "daily"   // secret derived from the date
)

// Session is the live state held for one session: its current round and
// how that round was started.
type Session struct {
	Round *game.Round
	Mode  Mode
	Day   string // YYYY-MM-DD for daily rounds

	// Daily holds the session's daily round while a classic round is
	// active, so starting a classic round never discards it.
	Daily *DailyRound
}

// DailyRound is a daily round together with its date key.
type DailyRound struct {
	Round *game.Round
	Day   string
}

// DailyFor returns the session's daily round for day, active or parked,
// or nil if the session has none.
func (s *Session) DailyFor(day string) *game.Round {
	if s.Mode == ModeDaily && s.Day == day {
		return s.Round
	}
	if s.Daily != nil && s.Daily.Day == day {
		return s.Daily.Round
	}
	return nil
}

// ParkDaily returns the daily round to carry over when the active round
// is replaced by a classic one.
func (s *Session) ParkDaily() *DailyRound {
	if s.Mode == ModeDaily && s.Round != nil {
		return &DailyRound{Round: s.Round, Day: s.Day}
	}
	return s.Daily
}

// Store defines the persistence interface for live rounds.
type Store interface {
	// Save stores sess under sessionID, replacing any previous round.
	Save(ctx context.Context, sessionID string, sess *Session) error

	// Get retrieves the session or ErrNotFound.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Prune drops sessions not saved since before and reports how many.
	Prune(ctx context.Context, before time.Time) int
}

type entry struct {
	sess    *Session
	touched time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex
	sessions map[string]entry // keyed by session ID
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]entry), now: time.Now}
}

func (m *memory) Save(ctx context.Context, sessionID string, sess *Session) error {
	if sessionID == "" {
		return errors.New("empty session id")
	}
	if sess == nil || sess.Round == nil {
		return errors.New("session has no round")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = entry{sess: sess, touched: m.now()}
	return nil
}

func (m *memory) Get(ctx context.Context, sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.sessions[sessionID]; ok {
		return e.sess, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Prune(ctx context.Context, before time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.sessions {
		if e.touched.Before(before) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
