package progression

import (
	"math"
	"testing"
)

func TestLevelReward(t *testing.T) {
	tests := []struct {
		level           int
		highestUnlocked int
		want            int
	}{
		{1, 1, 10},
		{2, 2, 12}, // 11.5 rounds up
		{3, 3, 13},
		{5, 5, 17},
		{10, 10, 35},
		// One level behind the frontier still pays full value.
		{4, 5, 15},
		// Two or more behind pays half.
		{3, 5, 7},
		{1, 5, 5},
		{1, 10, 5},
	}

	for _, tt := range tests {
		got := LevelReward(tt.level, tt.highestUnlocked)
		if got != tt.want {
			t.Errorf("LevelReward(%d, %d) = %d, want %d", tt.level, tt.highestUnlocked, got, tt.want)
		}
	}
}

func TestNextBossReward(t *testing.T) {
	// First boss pays the base, each later boss 30% over the stored one.
	first := NextBossReward(0, BossCoinBase)
	if first != 200 {
		t.Errorf("NextBossReward(0, base) = %d, want 200", first)
	}
	second := NextBossReward(first, BossCoinBase)
	if second != 260 {
		t.Errorf("NextBossReward(200, base) = %d, want 260", second)
	}
	third := NextBossReward(second, BossCoinBase)
	if third != 338 {
		t.Errorf("NextBossReward(260, base) = %d, want 338", third)
	}

	if got := NextBossReward(0, BossExpBase); got != 300 {
		t.Errorf("NextBossReward(0, exp base) = %d, want 300", got)
	}
	if got := NextBossReward(300, BossExpBase); got != 390 {
		t.Errorf("NextBossReward(300, exp base) = %d, want 390", got)
	}
}

func TestStreakBonus(t *testing.T) {
	tests := []struct {
		streak int
		want   int
	}{
		{-3, 0},
		{0, 0},
		{1, 1},
		{7, 7},
		{25, 25},
	}

	for _, tt := range tests {
		if got := StreakBonus(tt.streak); got != tt.want {
			t.Errorf("StreakBonus(%d) = %d, want %d", tt.streak, got, tt.want)
		}
	}
}

func TestExpGain(t *testing.T) {
	tests := []struct {
		level      int
		wrongCount int
		want       float64
	}{
		{1, 0, 50.0},
		{3, 0, 70.0},
		{3, 2, 56.0}, // 70 - 2*7
		{5, 0, 90.0},
		{1, 10, 0.0},
		// Enough wrong answers floors the gain at zero.
		{1, 15, 0.0},
	}

	for _, tt := range tests {
		got := ExpGain(tt.level, tt.wrongCount)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ExpGain(%d, %d) = %f, want %f", tt.level, tt.wrongCount, got, tt.want)
		}
	}
}
