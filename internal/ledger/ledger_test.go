package ledger

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/robalobadob/numberguess/internal/db"
	"github.com/robalobadob/numberguess/internal/game"
	"github.com/robalobadob/numberguess/internal/store"
)

type zeroRand struct{}

func (zeroRand) IntN(int) int { return 0 }

func newTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	conn, err := db.OpenMigrated(db.MemoryDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	for _, u := range []string{"alice", "bob"} {
		if _, err := conn.Exec(`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
			"id-"+u, u, "x", time.Now().UTC().Format(time.RFC3339)); err != nil {
			t.Fatalf("insert user: %v", err)
		}
	}
	return NewStore(conn), conn
}

func result(id, user string, status game.Status, score, attempts int, finished time.Time) Result {
	return Result{
		RoundID: id, UserID: user, Status: status,
		Score: score, Attempts: attempts, Secret: 50,
		StartedAt: finished.Add(-time.Minute), FinishedAt: finished,
	}
}

func TestResultFromSession(t *testing.T) {
	g := game.StartWithSecret(zeroRand{}, 50)
	sess := &store.Session{Round: g}
	if _, err := ResultFromSession(sess); err == nil {
		t.Fatal("ResultFromSession accepted an unfinished round")
	}
	g.Submit("10")
	g.Submit("50")
	r, err := ResultFromSession(sess)
	if err != nil {
		t.Fatalf("ResultFromSession: %v", err)
	}
	if r.RoundID != g.ID || r.Status != game.StatusWon || r.Attempts != 2 || r.Score != 900 || r.Secret != 50 {
		t.Fatalf("result = %+v", r)
	}
	if r.Mode != store.ModeClassic {
		t.Errorf("mode = %q, want classic", r.Mode)
	}
}

func TestRecordBumpsStats(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	steps := []Result{
		result("r1", "id-alice", game.StatusWon, 700, 4, now),
		result("r2", "id-alice", game.StatusWon, 900, 2, now.Add(time.Minute)),
		result("r3", "id-alice", game.StatusLost, 400, 7, now.Add(2*time.Minute)),
	}
	for _, r := range steps {
		if err := st.Record(ctx, r); err != nil {
			t.Fatalf("Record(%s): %v", r.RoundID, err)
		}
	}
	// Duplicate writes are ignored, stats unchanged.
	if err := st.Record(ctx, steps[0]); err != nil {
		t.Fatalf("Record duplicate: %v", err)
	}

	got, err := st.Stats(ctx, "id-alice")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := Stats{GamesPlayed: 3, Wins: 2, Streak: 0, BestScore: 900}
	if got != want {
		t.Fatalf("stats = %+v, want %+v", got, want)
	}

	recent, err := st.Recent(ctx, "id-alice", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 3 || recent[0].RoundID != "r3" || recent[2].RoundID != "r1" {
		t.Fatalf("recent = %+v", recent)
	}
	if !recent[0].FinishedAt.Equal(now.Add(2 * time.Minute)) {
		t.Errorf("finishedAt = %v", recent[0].FinishedAt)
	}
}

func TestRecordRequiresOwner(t *testing.T) {
	st, _ := newTestStore(t)
	r := result("r1", "", game.StatusWon, 1000, 1, time.Now())
	if err := st.Record(context.Background(), r); err == nil {
		t.Fatal("Record accepted a result without owner")
	}
}

func TestLeaderboard(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	rows := []Result{
		result("a1", "id-alice", game.StatusWon, 800, 3, now),
		result("b1", "id-bob", game.StatusWon, 800, 3, now.Add(time.Second)),
		result("b2", "id-bob", game.StatusWon, 1000, 1, now),
		result("a2", "id-alice", game.StatusLost, 400, 7, now),
	}
	anon := result("x1", "", game.StatusWon, 1000, 1, now)
	anon.AnonymousID = "anon-1"
	rows = append(rows, anon)

	for _, r := range rows {
		if err := st.Record(ctx, r); err != nil {
			t.Fatalf("Record(%s): %v", r.RoundID, err)
		}
	}

	lb, err := st.Leaderboard(ctx, Filter{Limit: 10})
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(lb) != 3 {
		t.Fatalf("len(lb) = %d, want 3: %+v", len(lb), lb)
	}
	if lb[0].Username != "bob" || lb[0].Score != 1000 {
		t.Errorf("lb[0] = %+v", lb[0])
	}
	if lb[1].Username != "alice" || lb[2].Username != "bob" {
		t.Errorf("tie order = %s, %s; want alice, bob", lb[1].Username, lb[2].Username)
	}
}

func TestClaimAnonymous(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)

	r := result("x1", "", game.StatusWon, 1000, 1, time.Now())
	r.AnonymousID = "anon-1"
	if err := st.Record(ctx, r); err != nil {
		t.Fatalf("Record: %v", err)
	}

	n, err := st.ClaimAnonymous(ctx, "anon-1", "id-bob")
	if err != nil || n != 1 {
		t.Fatalf("ClaimAnonymous = %d, %v", n, err)
	}
	recent, err := st.Recent(ctx, "id-bob", 0)
	if err != nil || len(recent) != 1 {
		t.Fatalf("Recent = %+v, %v", recent, err)
	}
	if n, _ := st.ClaimAnonymous(ctx, "", "id-bob"); n != 0 {
		t.Errorf("empty anon id claimed %d rows", n)
	}
}

func TestDailyRounds(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	d := result("d1", "id-alice", game.StatusWon, 900, 2, now)
	d.Mode, d.Day = store.ModeDaily, "2025-03-01"
	if err := st.Record(ctx, d); err != nil {
		t.Fatalf("Record daily: %v", err)
	}
	if err := st.Record(ctx, result("c1", "id-bob", game.StatusWon, 1000, 1, now)); err != nil {
		t.Fatalf("Record classic: %v", err)
	}

	played, err := st.AlreadyPlayed(ctx, "id-alice", "", "2025-03-01")
	if err != nil || !played {
		t.Fatalf("AlreadyPlayed(alice) = %v, %v", played, err)
	}
	if played, _ := st.AlreadyPlayed(ctx, "id-alice", "", "2025-03-02"); played {
		t.Error("AlreadyPlayed true for another day")
	}
	if played, _ := st.AlreadyPlayed(ctx, "id-bob", "", "2025-03-01"); played {
		t.Error("classic round counted as daily")
	}
	if played, _ := st.AlreadyPlayed(ctx, "", "", "2025-03-01"); played {
		t.Error("ownerless lookup returned true")
	}

	lb, err := st.Leaderboard(ctx, Filter{Mode: store.ModeDaily, Day: "2025-03-01"})
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(lb) != 1 || lb[0].Username != "alice" {
		t.Fatalf("daily lb = %+v", lb)
	}
	classic, _ := st.Leaderboard(ctx, Filter{})
	if len(classic) != 1 || classic[0].Username != "bob" {
		t.Fatalf("classic lb = %+v", classic)
	}

	// A second daily round for the same day is dropped and not counted.
	again := result("d2", "id-alice", game.StatusLost, 400, 7, now)
	again.Mode, again.Day = store.ModeDaily, "2025-03-01"
	if err := st.Record(ctx, again); err != nil {
		t.Fatalf("Record second daily: %v", err)
	}
	stats, _ := st.Stats(ctx, "id-alice")
	if stats.GamesPlayed != 1 || stats.Streak != 1 {
		t.Errorf("stats after duplicate daily = %+v", stats)
	}
}

func TestAlreadyPlayedAnonymous(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)

	d := result("d1", "", game.StatusLost, 400, 7, time.Now())
	d.AnonymousID, d.Mode, d.Day = "anon-9", store.ModeDaily, "2025-03-01"
	if err := st.Record(ctx, d); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if played, err := st.AlreadyPlayed(ctx, "", "anon-9", "2025-03-01"); err != nil || !played {
		t.Fatalf("AlreadyPlayed(anon) = %v, %v", played, err)
	}
}

func TestStartDailyOncePerDay(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)
	now := time.Now().UTC()

	fresh, err := st.StartDaily(ctx, "id-alice", "2026-10-19", "d1", now)
	if err != nil || !fresh {
		t.Fatalf("first StartDaily = %v, %v", fresh, err)
	}
	fresh, err = st.StartDaily(ctx, "id-alice", "2026-10-19", "d2", now)
	if err != nil || fresh {
		t.Errorf("second StartDaily same day = %v, %v; want false", fresh, err)
	}
	if fresh, _ := st.StartDaily(ctx, "id-alice", "2026-10-20", "d3", now); !fresh {
		t.Error("next day's start was refused")
	}
	if fresh, _ := st.StartDaily(ctx, "id-bob", "2026-10-19", "d4", now); !fresh {
		t.Error("another player's start was refused")
	}
	if _, err := st.StartDaily(ctx, "", "2026-10-19", "d5", now); err == nil {
		t.Error("StartDaily accepted an empty user")
	}
}
