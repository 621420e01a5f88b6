package daily

import (
	"testing"
	"time"
)

func TestDateKeyIsUTC(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)
	ts := time.Date(2025, 3, 2, 1, 0, 0, 0, loc) // 2025-03-01 16:00 UTC
	if got := DateKey(ts); got != "2025-03-01" {
		t.Fatalf("DateKey = %q, want 2025-03-01", got)
	}
}

func TestSecretIsStablePerDay(t *testing.T) {
	morning := time.Date(2025, 3, 1, 0, 5, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 1, 23, 55, 0, 0, time.UTC)
	if Secret(morning, "salt") != Secret(evening, "salt") {
		t.Fatal("secret changed within a day")
	}
}

func TestSecretRange(t *testing.T) {
	day := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	seen := map[int]bool{}
	for i := 0; i < 400; i++ {
		s := Secret(day.AddDate(0, 0, i), "salt")
		if s < 1 || s > 100 {
			t.Fatalf("secret %d out of range", s)
		}
		seen[s] = true
	}
	if len(seen) < 50 {
		t.Fatalf("only %d distinct secrets over 400 days", len(seen))
	}
}

func TestSecretDependsOnSalt(t *testing.T) {
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	differ := false
	for i := 0; i < 10 && !differ; i++ {
		d := day.AddDate(0, 0, i)
		differ = Secret(d, "a") != Secret(d, "b")
	}
	if !differ {
		t.Fatal("salt has no effect on secrets")
	}
}

func TestParseDateKey(t *testing.T) {
	d, err := ParseDateKey("2025-03-01")
	if err != nil || DateKey(d) != "2025-03-01" {
		t.Fatalf("ParseDateKey = %v, %v", d, err)
	}
	if _, err := ParseDateKey("yesterday"); err == nil {
		t.Fatal("ParseDateKey accepted garbage")
	}
}
