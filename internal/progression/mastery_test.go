package progression

import (
	"testing"

	"github.com/wikaquest/backend/internal/models"
)

func freshProgress() *models.Progress {
	return &models.Progress{
		UserID:          1,
		Lesson:          "tagalog",
		HighestUnlocked: 1,
		LevelMastery:    map[int]*models.MasteryStat{},
		BossRewards:     map[int]int{},
		BossExpRewards:  map[int]int{},
	}
}

func TestApplyAttemptImperfect(t *testing.T) {
	p := freshProgress()
	got := ApplyAttempt(p, 1, 7, 10, false)

	if got.Mastered {
		t.Error("Mastered = true, want false for 7/10")
	}
	if got.NewlyUnlocked {
		t.Error("NewlyUnlocked = true, want false")
	}
	if p.HighestUnlocked != 1 {
		t.Errorf("HighestUnlocked = %d, want 1", p.HighestUnlocked)
	}

	stat := p.LevelMastery[1]
	if stat.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", stat.Attempts)
	}
	if stat.BestScore != 70.0 {
		t.Errorf("BestScore = %f, want 70.0", stat.BestScore)
	}
	if stat.PerfectAttempts != 0 {
		t.Errorf("PerfectAttempts = %d, want 0", stat.PerfectAttempts)
	}
}

func TestApplyAttemptPerfectUnlocksFrontier(t *testing.T) {
	p := freshProgress()
	got := ApplyAttempt(p, 1, 10, 10, true)

	if !got.Mastered {
		t.Error("Mastered = false, want true")
	}
	if !got.NewlyUnlocked {
		t.Error("NewlyUnlocked = false, want true")
	}
	if got.HighestUnlocked != 2 || p.HighestUnlocked != 2 {
		t.Errorf("HighestUnlocked = %d/%d, want 2", got.HighestUnlocked, p.HighestUnlocked)
	}

	stat := p.LevelMastery[1]
	if stat.PerfectAttempts != 1 || !stat.Mastered {
		t.Errorf("stat = %+v, want 1 perfect attempt and mastered", stat)
	}
}

func TestApplyAttemptPerfectBehindFrontier(t *testing.T) {
	// A perfect run on an already-cleared level masters it but never moves
	// the frontier.
	p := freshProgress()
	p.HighestUnlocked = 4

	got := ApplyAttempt(p, 2, 10, 10, true)
	if !got.Mastered {
		t.Error("Mastered = false, want true")
	}
	if got.NewlyUnlocked {
		t.Error("NewlyUnlocked = true, want false behind the frontier")
	}
	if p.HighestUnlocked != 4 {
		t.Errorf("HighestUnlocked = %d, want 4", p.HighestUnlocked)
	}
}

func TestApplyAttemptServerRecomputeWins(t *testing.T) {
	// Counts say perfect even though the client claim does not; the
	// recomputed result unlocks anyway.
	p := freshProgress()
	got := ApplyAttempt(p, 1, 5, 5, false)
	if !got.Mastered || !got.NewlyUnlocked {
		t.Errorf("got %+v, want mastered and newly unlocked from recomputed counts", got)
	}

	// Client claim alone also counts (zero totals carry no counts).
	p2 := freshProgress()
	got = ApplyAttempt(p2, 1, 0, 0, true)
	if !got.Mastered || !got.NewlyUnlocked {
		t.Errorf("got %+v, want mastered on client claim with no counts", got)
	}
}

func TestApplyAttemptZeroTotalNotPerfect(t *testing.T) {
	p := freshProgress()
	got := ApplyAttempt(p, 1, 0, 0, false)
	if got.Mastered || got.NewlyUnlocked {
		t.Errorf("got %+v, want nothing from a zero-question attempt", got)
	}
	if p.LevelMastery[1].Attempts != 1 {
		t.Errorf("Attempts = %d, want 1 (attempt still recorded)", p.LevelMastery[1].Attempts)
	}
}

func TestApplyAttemptMasteredLatch(t *testing.T) {
	p := freshProgress()
	ApplyAttempt(p, 1, 10, 10, true)

	// A later worse run keeps mastered set and best score intact.
	ApplyAttempt(p, 1, 3, 10, false)
	stat := p.LevelMastery[1]
	if !stat.Mastered {
		t.Error("Mastered cleared by a later imperfect attempt")
	}
	if stat.BestScore != 100.0 {
		t.Errorf("BestScore = %f, want 100.0", stat.BestScore)
	}
	if stat.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", stat.Attempts)
	}
}

func TestApplyAttemptAheadOfFrontier(t *testing.T) {
	// Perfect on a level past the frontier records stats but cannot skip
	// the frontier forward.
	p := freshProgress()
	got := ApplyAttempt(p, 3, 10, 10, true)
	if got.NewlyUnlocked {
		t.Error("NewlyUnlocked = true for a level past the frontier")
	}
	if p.HighestUnlocked != 1 {
		t.Errorf("HighestUnlocked = %d, want 1", p.HighestUnlocked)
	}
}
