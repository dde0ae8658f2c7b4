package progression

import (
	"testing"
	"time"

	"github.com/wikaquest/backend/internal/models"
)

var regenEpoch = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func TestRegenerateLivesFullNoWindow(t *testing.T) {
	got := RegenerateLives(models.MaxLives, nil, regenEpoch)
	if got.Lives != models.MaxLives {
		t.Errorf("Lives = %d, want %d", got.Lives, models.MaxLives)
	}
	if got.NextLifeIn != nil {
		t.Errorf("NextLifeIn = %v, want nil", *got.NextLifeIn)
	}

	// A stale window on a full account is ignored.
	start := regenEpoch.Add(-10 * time.Minute)
	got = RegenerateLives(models.MaxLives, &start, regenEpoch)
	if got.Lives != models.MaxLives || got.NextLifeIn != nil {
		t.Errorf("full account with stale window: got %+v", got)
	}
}

func TestRegenerateLivesPartial(t *testing.T) {
	start := regenEpoch

	// 90 seconds in: no life yet, 30 seconds to go.
	got := RegenerateLives(2, &start, regenEpoch.Add(90*time.Second))
	if got.Lives != 2 {
		t.Errorf("Lives = %d, want 2", got.Lives)
	}
	if got.NextLifeIn == nil || *got.NextLifeIn != 30 {
		t.Errorf("NextLifeIn = %v, want 30", got.NextLifeIn)
	}

	// 130 seconds in: one life back, window advanced, 110 seconds to go.
	got = RegenerateLives(2, &start, regenEpoch.Add(130*time.Second))
	if got.Lives != 3 {
		t.Errorf("Lives = %d, want 3", got.Lives)
	}
	if got.NextLifeIn == nil || *got.NextLifeIn != 110 {
		t.Errorf("NextLifeIn = %v, want 110", got.NextLifeIn)
	}
	if got.RegenStart == nil || !got.RegenStart.Equal(start.Add(120*time.Second)) {
		t.Errorf("RegenStart = %v, want advanced by one interval", got.RegenStart)
	}
}

func TestRegenerateLivesReachesCap(t *testing.T) {
	// 3 lives, 301 seconds elapsed: two full intervals bring the account to
	// the cap and clear the window.
	start := regenEpoch
	got := RegenerateLives(3, &start, regenEpoch.Add(301*time.Second))
	if got.Lives != models.MaxLives {
		t.Errorf("Lives = %d, want %d", got.Lives, models.MaxLives)
	}
	if got.RegenStart != nil {
		t.Errorf("RegenStart = %v, want nil after reaching cap", got.RegenStart)
	}
	if got.NextLifeIn != nil {
		t.Errorf("NextLifeIn = %v, want nil after reaching cap", *got.NextLifeIn)
	}
}

func TestRegenerateLivesClockSkew(t *testing.T) {
	// Window start in the future earns nothing and reports a full interval.
	start := regenEpoch.Add(time.Minute)
	got := RegenerateLives(1, &start, regenEpoch)
	if got.Lives != 1 {
		t.Errorf("Lives = %d, want 1", got.Lives)
	}
	if got.NextLifeIn == nil || *got.NextLifeIn != 120 {
		t.Errorf("NextLifeIn = %v, want 120", got.NextLifeIn)
	}
}

func TestLoseLife(t *testing.T) {
	// Spending from full starts a regen window.
	lives, start := LoseLife(models.MaxLives, nil, regenEpoch)
	if lives != models.MaxLives-1 {
		t.Errorf("lives = %d, want %d", lives, models.MaxLives-1)
	}
	if start == nil || !start.Equal(regenEpoch) {
		t.Errorf("regen start = %v, want %v", start, regenEpoch)
	}

	// Spending again keeps the existing window.
	lives, start2 := LoseLife(lives, start, regenEpoch.Add(time.Minute))
	if lives != models.MaxLives-2 {
		t.Errorf("lives = %d, want %d", lives, models.MaxLives-2)
	}
	if start2 != start {
		t.Errorf("regen start moved on second loss: %v", start2)
	}

	// Zero is the floor.
	lives, _ = LoseLife(0, start, regenEpoch)
	if lives != 0 {
		t.Errorf("lives = %d, want 0", lives)
	}
}
