// Package ledger persists finished rounds and per-player statistics.
//
// Only terminal rounds are written; a round in progress never touches
// the database. Rows belong either to a registered user or to an
// anonymous cookie ID, and anonymous rows can later be claimed.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/numberguess/internal/game"
	"github.com/robalobadob/numberguess/internal/store"
)

// Result is one finished round.
type Result struct {
	RoundID     string      `json:"id"`
	UserID      string      `json:"-"`
	AnonymousID string      `json:"-"`
	Mode        store.Mode  `json:"mode"`
	Day         string      `json:"day,omitempty"`
	Status      game.Status `json:"status"`
	Attempts    int         `json:"attempts"`
	Score       int         `json:"score"`
	Secret      int         `json:"secret"`
	StartedAt   time.Time   `json:"startedAt"`
	FinishedAt  time.Time   `json:"finishedAt"`
}

// ResultFromSession builds the ledger row for a session's finished round.
func ResultFromSession(sess *store.Session) (Result, error) {
	r := sess.Round
	if !r.Finished() {
		return Result{}, errors.New("round not finished")
	}
	mode := sess.Mode
	if mode == "" {
		mode = store.ModeClassic
	}
	return Result{
		Mode:       mode,
		Day:        sess.Day,
		RoundID:    r.ID,
		Status:     r.Status(),
		Attempts:   r.Attempts(),
		Score:      r.Score(),
		Secret:     r.Secret(),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}, nil
}

// Stats are a player's aggregate counters.
type Stats struct {
	GamesPlayed int `json:"gamesPlayed"`
	Wins        int `json:"wins"`
	Streak      int `json:"streak"`
	BestScore   int `json:"bestScore"`
}

// LBRow is one leaderboard entry.
type LBRow struct {
	Username   string    `json:"username"`
	Score      int       `json:"score"`
	Attempts   int       `json:"attempts"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Store reads and writes the ledger tables.
type Store struct{ db *sql.DB }

// NewStore returns a Store over an already migrated database.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts r and, for registered players, bumps their stats in
// the same transaction. Recording a round twice is a no-op.
func (s *Store) Record(ctx context.Context, r Result) error {
	if r.UserID == "" && r.AnonymousID == "" {
		return errors.New("result has no owner")
	}
	if r.Mode == "" {
		r.Mode = store.ModeClassic
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO rounds
			(id, user_id, anonymous_id, mode, day, status, attempts, score, secret, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RoundID, nullable(r.UserID), nullable(r.AnonymousID), string(r.Mode), nullable(r.Day), string(r.Status),
		r.Attempts, r.Score, r.Secret,
		r.StartedAt.UTC().Format(time.RFC3339), r.FinishedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert round: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil
	}

	if r.UserID != "" {
		if err := bumpStats(ctx, tx, r.UserID, r.Status == game.StatusWon, r.Score); err != nil {
			return fmt.Errorf("bump stats: %w", err)
		}
	}
	return tx.Commit()
}

// bumpStats increments games played; updates wins, streak and best score.
func bumpStats(ctx context.Context, tx *sql.Tx, userID string, won bool, score int) error {
	var st Stats
	row := tx.QueryRowContext(ctx, `SELECT games_played, wins, streak, best_score FROM users WHERE id=?`, userID)
	if err := row.Scan(&st.GamesPlayed, &st.Wins, &st.Streak, &st.BestScore); err != nil {
		return err
	}
	st.GamesPlayed++
	if won {
		st.Wins++
		st.Streak++
		st.BestScore = max(st.BestScore, score)
	} else {
		st.Streak = 0
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE users SET games_played=?, wins=?, streak=?, best_score=? WHERE id=?`,
		st.GamesPlayed, st.Wins, st.Streak, st.BestScore, userID)
	return err
}

// Stats loads a registered player's counters.
func (s *Store) Stats(ctx context.Context, userID string) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT games_played, wins, streak, best_score FROM users WHERE id=?`, userID,
	).Scan(&st.GamesPlayed, &st.Wins, &st.Streak, &st.BestScore)
	return st, err
}

// Recent returns the player's latest finished rounds, newest first.
func (s *Store) Recent(ctx context.Context, userID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, mode, COALESCE(day, ''), status, attempts, score, secret, started_at, finished_at
		FROM rounds
		WHERE user_id=?
		ORDER BY finished_at DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Result{}
	for rows.Next() {
		var r Result
		var mode, status, started, finished string
		if err := rows.Scan(&r.RoundID, &mode, &r.Day, &status, &r.Attempts, &r.Score, &r.Secret, &started, &finished); err != nil {
			return nil, err
		}
		r.UserID = userID
		r.Mode = store.Mode(mode)
		r.Status = game.Status(status)
		r.StartedAt = parseTime(started)
		r.FinishedAt = parseTime(finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Filter narrows a leaderboard query. An empty Mode means classic; Day
// only applies to daily rounds.
type Filter struct {
	Mode  store.Mode
	Day   string
	Limit int
}

// Leaderboard returns the best won rounds of registered players.
//
//   - Ordered by score DESC, then attempts ASC, then finished_at ASC.
//   - Default limit is 20, capped at 100.
func (s *Store) Leaderboard(ctx context.Context, f Filter) ([]LBRow, error) {
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	mode := f.Mode
	if mode == "" {
		mode = store.ModeClassic
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.username, r.score, r.attempts, r.finished_at
		FROM rounds r
		JOIN users u ON u.id = r.user_id
		WHERE r.status = 'won' AND r.mode = ? AND (? = '' OR r.day = ?)
		ORDER BY r.score DESC, r.attempts ASC, r.finished_at ASC
		LIMIT ?`, string(mode), f.Day, f.Day, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		var finished string
		if err := rows.Scan(&r.Username, &r.Score, &r.Attempts, &finished); err != nil {
			return nil, err
		}
		r.FinishedAt = parseTime(finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

// AlreadyPlayed reports whether the owner (user ID, else anonymous ID)
// has finished a daily round on day.
func (s *Store) AlreadyPlayed(ctx context.Context, userID, anonID, day string) (bool, error) {
	col, owner := "user_id", userID
	if userID == "" {
		col, owner = "anonymous_id", anonID
	}
	if owner == "" {
		return false, nil
	}
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM rounds WHERE mode = 'daily' AND day = ? AND `+col+` = ?`,
		day, owner,
	).Scan(&cnt)
	return cnt > 0, err
}

// StartDaily records that userID was handed daily round roundID on day.
// It reports false when the player already had a daily round for that
// day, in which case nothing is written.
func (s *Store) StartDaily(ctx context.Context, userID, day, roundID string, at time.Time) (bool, error) {
	if userID == "" {
		return false, errors.New("daily start has no user")
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_starts (user_id, day, round_id, started_at) VALUES (?, ?, ?, ?)`,
		userID, day, roundID, at.UTC().Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("insert daily start: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ClaimAnonymous transfers anonymous rounds to userID after sign-in.
// Claimed rounds do not retroactively change the player's stats; a
// daily round clashing with one the user already has for that day stays
// anonymous.
func (s *Store) ClaimAnonymous(ctx context.Context, anonID, userID string) (int64, error) {
	if anonID == "" || userID == "" {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE OR IGNORE rounds SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// parseTime parses RFC3339 timestamps; on error returns zero time.
func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
