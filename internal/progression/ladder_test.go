package progression

import (
	"math"
	"testing"
)

func TestRequiredExp(t *testing.T) {
	tests := []struct {
		level int
		want  float64
	}{
		{1, 50.0},
		{2, 52.5},
		{3, 55.125},
	}

	for _, tt := range tests {
		got := RequiredExp(tt.level)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("RequiredExp(%d) = %f, want %f", tt.level, got, tt.want)
		}
	}
}

func TestApplyExperienceNoLevelUp(t *testing.T) {
	got := ApplyExperience(1, 10, 100, 30)
	if got.LeveledUp {
		t.Error("expected no level-up for 40/50 exp")
	}
	if got.AccountLevel != 1 {
		t.Errorf("AccountLevel = %d, want 1", got.AccountLevel)
	}
	if math.Abs(got.CurrentExp-40) > 1e-9 {
		t.Errorf("CurrentExp = %f, want 40", got.CurrentExp)
	}
	if got.Coins != 100 {
		t.Errorf("Coins = %d, want 100 (unchanged)", got.Coins)
	}
	if got.LevelUpCoins != 0 {
		t.Errorf("LevelUpCoins = %d, want 0", got.LevelUpCoins)
	}
}

func TestApplyExperienceSingleLevelUp(t *testing.T) {
	got := ApplyExperience(1, 45, 0, 10)
	if !got.LeveledUp {
		t.Fatal("expected a level-up from 55/50 exp")
	}
	if got.AccountLevel != 2 {
		t.Errorf("AccountLevel = %d, want 2", got.AccountLevel)
	}
	if math.Abs(got.CurrentExp-5) > 1e-9 {
		t.Errorf("CurrentExp = %f, want 5", got.CurrentExp)
	}
	// Bonus for reaching level 2 is round(50 * 1.2) = 60.
	if got.LevelUpCoins != 60 {
		t.Errorf("LevelUpCoins = %d, want 60", got.LevelUpCoins)
	}
	if got.Coins != 60 {
		t.Errorf("Coins = %d, want 60", got.Coins)
	}
}

func TestApplyExperienceMultiLevelJump(t *testing.T) {
	// 120 exp at level 1 clears levels 1 (50) and 2 (52.5), landing at
	// level 3 with 17.5 left over and 60+72 in level-up coins.
	got := ApplyExperience(1, 0, 0, 120)
	if got.AccountLevel != 3 {
		t.Errorf("AccountLevel = %d, want 3", got.AccountLevel)
	}
	if math.Abs(got.CurrentExp-17.5) > 1e-9 {
		t.Errorf("CurrentExp = %f, want 17.5", got.CurrentExp)
	}
	if got.LevelUpCoins != 132 {
		t.Errorf("LevelUpCoins = %d, want 132", got.LevelUpCoins)
	}
	if got.Coins != 132 {
		t.Errorf("Coins = %d, want 132", got.Coins)
	}
	if !got.LeveledUp {
		t.Error("LeveledUp = false, want true")
	}
	if got.CurrentExp >= RequiredExp(got.AccountLevel) {
		t.Errorf("leftover %f not below requirement %f", got.CurrentExp, RequiredExp(got.AccountLevel))
	}
}

func TestApplyExperienceBonusAddedOnce(t *testing.T) {
	// Starting balance carries through; the bonus is Coins minus the start.
	got := ApplyExperience(1, 0, 500, 120)
	if got.Coins-500 != got.LevelUpCoins {
		t.Errorf("Coins delta %d != LevelUpCoins %d", got.Coins-500, got.LevelUpCoins)
	}
}

func TestApplyExperienceSplitEquivalence(t *testing.T) {
	// Granting exp in two installments ends at the same ladder state as one
	// combined grant.
	once := ApplyExperience(1, 0, 0, 90)
	first := ApplyExperience(1, 0, 0, 40)
	second := ApplyExperience(first.AccountLevel, first.CurrentExp, first.Coins, 50)

	if once.AccountLevel != second.AccountLevel {
		t.Errorf("AccountLevel: combined %d, split %d", once.AccountLevel, second.AccountLevel)
	}
	if math.Abs(once.CurrentExp-second.CurrentExp) > 1e-9 {
		t.Errorf("CurrentExp: combined %f, split %f", once.CurrentExp, second.CurrentExp)
	}
	if once.Coins != second.Coins {
		t.Errorf("Coins: combined %d, split %d", once.Coins, second.Coins)
	}
}
