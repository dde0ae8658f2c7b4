package progression

import "math"

// Boss reward bases. A boss with no stored predecessor pays the base; every
// later boss pays 30% over the previous stored reward.
const (
	BossCoinBase = 200
	BossExpBase  = 300
)

const (
	levelRewardBase   = 10.0
	levelRewardGrowth = 1.15
	repeatMultiplier  = 0.5
	bossRewardGrowth  = 1.3
)

// LevelReward returns the coin reward for completing a level. An attempt more
// than one level behind the frontier counts as a repeat and pays half.
func LevelReward(level, highestUnlocked int) int {
	reward := levelRewardBase * math.Pow(levelRewardGrowth, float64(level-1))
	if level < highestUnlocked-1 {
		reward *= repeatMultiplier
	}
	if reward < 0 {
		return 0
	}
	return int(math.Round(reward))
}

// NextBossReward escalates a boss reward track: base when no previous reward
// was stored, otherwise 30% over the previous one.
func NextBossReward(previous, base int) int {
	if previous > 0 {
		return int(math.Round(float64(previous) * bossRewardGrowth))
	}
	return base
}

// StreakBonus pays one coin per item in a correct-answer streak.
func StreakBonus(streak int) int {
	if streak <= 0 {
		return 0
	}
	return streak
}

// ExpGain returns experience for a level completion: 50 plus 10 per level
// past the first, minus a 10% penalty per wrong answer, floored at zero.
func ExpGain(level, wrongCount int) float64 {
	baseExp := 50.0 + float64(level-1)*10.0
	penalty := baseExp * 0.10 * float64(wrongCount)
	gained := baseExp - penalty
	if gained < 0 {
		return 0
	}
	return gained
}
