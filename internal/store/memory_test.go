package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/numberguess/internal/game"
	"github.com/robalobadob/numberguess/internal/random"
)

func TestSaveReplacesRound(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	first := game.Start(random.Seeded(1, 1))
	second := game.Start(random.Seeded(2, 2))

	if err := st.Save(ctx, "s1", &Session{Round: first, Mode: ModeClassic}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := st.Save(ctx, "s1", &Session{Round: second, Mode: ModeDaily, Day: "2025-01-01"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := st.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Round != second || got.Mode != ModeDaily {
		t.Fatalf("Get returned round %s (%s), want %s (daily)", got.Round.ID, got.Mode, second.ID)
	}
}

func TestGetMissing(t *testing.T) {
	_, err := NewMemoryStore().Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSaveRejectsBadInput(t *testing.T) {
	st := NewMemoryStore()
	sess := &Session{Round: game.Start(random.Seeded(1, 1))}
	if err := st.Save(context.Background(), "", sess); err == nil {
		t.Error("Save accepted empty session id")
	}
	if err := st.Save(context.Background(), "s1", &Session{}); err == nil {
		t.Error("Save accepted a session without round")
	}
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := &memory{sessions: make(map[string]entry), now: func() time.Time { return clock }}

	_ = m.Save(ctx, "old", &Session{Round: game.Start(random.Seeded(1, 1))})
	clock = clock.Add(time.Hour)
	_ = m.Save(ctx, "new", &Session{Round: game.Start(random.Seeded(1, 1))})

	if n := m.Prune(ctx, clock.Add(-time.Minute)); n != 1 {
		t.Fatalf("pruned %d, want 1", n)
	}
	if _, err := m.Get(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("old session survived prune")
	}
	if _, err := m.Get(ctx, "new"); err != nil {
		t.Errorf("new session pruned: %v", err)
	}
}

func TestDailyForAndPark(t *testing.T) {
	d := game.Start(random.Seeded(1, 1))
	c := game.Start(random.Seeded(2, 2))

	active := &Session{Round: d, Mode: ModeDaily, Day: "2026-10-19"}
	if got := active.DailyFor("2026-10-19"); got != d {
		t.Errorf("DailyFor on active daily = %v", got)
	}
	if got := active.DailyFor("2026-10-20"); got != nil {
		t.Errorf("DailyFor other day = %v, want nil", got)
	}

	parked := &Session{Round: c, Mode: ModeClassic, Daily: active.ParkDaily()}
	if got := parked.DailyFor("2026-10-19"); got != d {
		t.Errorf("DailyFor on parked daily = %v", got)
	}
	// Parking again carries the same daily round forward.
	next := &Session{Round: game.Start(random.Seeded(3, 3)), Mode: ModeClassic, Daily: parked.ParkDaily()}
	if got := next.DailyFor("2026-10-19"); got != d {
		t.Errorf("daily round lost after second classic round: %v", got)
	}
	if (&Session{Round: c, Mode: ModeClassic}).ParkDaily() != nil {
		t.Error("ParkDaily invented a daily round")
	}
}
