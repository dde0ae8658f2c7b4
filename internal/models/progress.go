package models

import (
	"encoding/json"
	"log"
)

// MasteryStat tracks one level's completion history inside a progress record.
// mastered is a one-way latch: once a perfect attempt happens it never resets.
type MasteryStat struct {
	Attempts        int     `json:"attempts"`
	BestScore       float64 `json:"best_score"`
	PerfectAttempts int     `json:"perfect_attempts"`
	Mastered        bool    `json:"mastered"`
}

// Progress is the per-(user, lesson) progression record. The mapping fields are
// persisted as JSON text columns and parsed on read.
type Progress struct {
	ID              int64                `json:"id"`
	UserID          int64                `json:"user_id"`
	Lesson          string               `json:"lesson"`
	HighestUnlocked int                  `json:"highest_unlocked"`
	LevelMastery    map[int]*MasteryStat `json:"level_mastery"`
	BossRewards     map[int]int          `json:"boss_rewards"`
	BossExpRewards  map[int]int          `json:"boss_exp_rewards"`
}

// ParseMasteryMap decodes a level_mastery text column. Malformed JSON yields an
// empty map rather than an error; the corruption is logged so it can be told
// apart from a record that genuinely has no mastery data yet.
func ParseMasteryMap(raw string) map[int]*MasteryStat {
	m := make(map[int]*MasteryStat)
	if raw == "" {
		return m
	}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		log.Printf("[progress] malformed level_mastery column, treating as empty: %v", err)
		return make(map[int]*MasteryStat)
	}
	return m
}

// ParseRewardMap decodes a boss_rewards or boss_exp_rewards text column with
// the same lenient recovery as ParseMasteryMap.
func ParseRewardMap(raw string) map[int]int {
	m := make(map[int]int)
	if raw == "" {
		return m
	}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		log.Printf("[progress] malformed reward map column, treating as empty: %v", err)
		return make(map[int]int)
	}
	return m
}

// EncodeJSONMap serializes a mapping field back to its text column form.
// Integer-keyed maps marshal with string keys, matching what the clients and
// the original data already store.
func EncodeJSONMap(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// ── Request Types ─────────────────────────────────────────

type CompleteLevelRequest struct {
	Lesson         string `json:"lesson"`
	Level          int    `json:"level"`
	PerfectScore   bool   `json:"perfect_score"`
	TotalQuestions int    `json:"total_questions"`
	CorrectAnswers int    `json:"correct_answers"`
}

type LevelRewardRequest struct {
	Lesson string `json:"lesson"`
	Level  int    `json:"level"`
}

type BossRewardRequest struct {
	Boss   int    `json:"boss"`
	Lesson string `json:"lesson"`
}

type StreakRewardRequest struct {
	Streak int `json:"streak"`
}

type GainExpRequest struct {
	Level      int `json:"level"`
	WrongCount int `json:"wrong_count"`
}

type SelectLessonRequest struct {
	LessonLanguage string `json:"lesson_language"`
}

// ── Response Types ────────────────────────────────────────

type MasteryResult struct {
	Message           string       `json:"message"`
	LevelMastered     bool         `json:"level_mastered"`
	CanUnlockNext     bool         `json:"can_unlock_next"`
	NextLevelUnlocked *int         `json:"next_level_unlocked"`
	MasteryStats      *MasteryStat `json:"mastery_stats"`
	HighestUnlocked   int          `json:"highest_unlocked"`
}

type LevelRewardResponse struct {
	Message         string `json:"message"`
	Reward          int    `json:"reward"`
	NewBalance      int    `json:"new_balance"`
	DiscoveredWords int    `json:"discovered_words"`
}

type BossRewardResponse struct {
	Message        string `json:"message"`
	Reward         int    `json:"reward"`
	NewBalance     int    `json:"new_balance"`
	PreviousReward int    `json:"previous_reward"`
}

type BossExpRewardResponse struct {
	Message      string  `json:"message"`
	ExpReward    int     `json:"exp_reward"`
	PreviousExp  int     `json:"previous_exp"`
	AccountLevel int     `json:"account_level"`
	CurrentExp   float64 `json:"current_exp"`
	RequiredExp  float64 `json:"required_exp"`
	LeveledUp    bool    `json:"leveled_up"`
	LevelUpCoins int     `json:"level_up_coins"`
	NewBalance   int     `json:"new_coin_balance"`
}

type StreakRewardResponse struct {
	Message     string `json:"message"`
	StreakBonus int    `json:"streak_bonus"`
	NewBalance  int    `json:"new_balance"`
}

type GainExpResponse struct {
	Message      string  `json:"message"`
	GainedExp    float64 `json:"gained_exp"`
	AccountLevel int     `json:"account_level"`
	CurrentExp   float64 `json:"current_exp"`
	RequiredExp  float64 `json:"required_exp"`
	LeveledUp    bool    `json:"leveled_up"`
	LevelUpCoins int     `json:"level_up_coins"`
	NewBalance   int     `json:"new_coin_balance"`
}

type LivesResponse struct {
	Lives      int  `json:"lives"`
	NextLifeIn *int `json:"next_life_in"`
}

type ProgressResponse struct {
	HighestUnlocked int                  `json:"highest_unlocked"`
	LevelMastery    map[int]*MasteryStat `json:"level_mastery"`
}

type DashboardStats struct {
	UserStats struct {
		AccountLevel int     `json:"account_level"`
		CurrentExp   float64 `json:"current_exp"`
		RequiredExp  float64 `json:"required_exp"`
		Coins        int     `json:"coins"`
		Lives        int     `json:"lives"`
		TotalWords   int     `json:"total_words"`
	} `json:"user_stats"`
	Progress map[string]int `json:"progress"`
	MaxLevel int            `json:"max_level"`
}

type LeaderboardResponse struct {
	Lessons  map[string][]LessonRankEntry `json:"lessons"`
	ByLevel  []AccountRankEntry           `json:"by_level"`
	ByCoins  []AccountRankEntry           `json:"by_coins"`
}

type LessonRankEntry struct {
	Username        string `json:"username"`
	HighestUnlocked int    `json:"highest_unlocked"`
}

type AccountRankEntry struct {
	Username     string `json:"username"`
	AccountLevel int    `json:"account_level,omitempty"`
	Coins        int    `json:"coins,omitempty"`
}
