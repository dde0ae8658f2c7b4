package progression

import "math"

// RequiredExp returns the experience needed to advance past the given account
// level: 50 at level 1, growing 5% per level.
func RequiredExp(accountLevel int) float64 {
	return 50.0 * math.Pow(1.05, float64(accountLevel-1))
}

// LadderResult is the outcome of granting experience to an account.
type LadderResult struct {
	AccountLevel int
	CurrentExp   float64
	Coins        int
	LeveledUp    bool
	LevelUpCoins int
}

// ApplyExperience adds gained experience and resolves any level-ups. Each
// level-up pays a coin bonus of round(50 * 1.2^(newLevel-1)); the loop
// handles multi-level jumps from a single large grant, leaving CurrentExp
// below the final level's requirement.
func ApplyExperience(accountLevel int, currentExp float64, coins int, gained float64) LadderResult {
	required := RequiredExp(accountLevel)
	currentExp += gained

	bonus := 0
	leveledUp := false
	for currentExp >= required {
		currentExp -= required
		accountLevel++
		required *= 1.05
		leveledUp = true
		bonus += int(math.Round(50.0 * math.Pow(1.2, float64(accountLevel-1))))
	}

	return LadderResult{
		AccountLevel: accountLevel,
		CurrentExp:   currentExp,
		Coins:        coins + bonus,
		LeveledUp:    leveledUp,
		LevelUpCoins: bonus,
	}
}
