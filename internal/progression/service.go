package progression

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/wikaquest/backend/internal/models"
)

var (
	// ErrNotFound means the referenced user or record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable means the database could not serve the operation even
	// after a retry. Handlers map it to 503 with a zero-valued payload.
	ErrUnavailable = errors.New("service temporarily unavailable")
)

// WordSource reports distinct vocabulary counts for lesson content. The quiz
// package provides the implementation; progression only needs the numbers.
type WordSource interface {
	WordsForLevel(level int, lesson string) (int, error)
	WordsThroughLevel(maxLevel int, lesson string) (int, error)
}

type Service struct {
	store *Store
	words WordSource
	now   func() time.Time
}

func NewService(store *Store, words WordSource) *Service {
	return &Service{store: store, words: words, now: time.Now}
}

// withRetry runs a mutating operation a second time after a connectivity
// check when the first run fails. Reward grants are not idempotent from the
// client's side, so a second failure surfaces as ErrUnavailable rather than
// a generic 500: the client knows nothing was granted.
func (s *Service) withRetry(name string, op func() error) error {
	err := op()
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	log.Printf("[progression] %s failed, retrying after ping: %v", name, err)
	if pingErr := s.store.Ping(); pingErr != nil {
		log.Printf("[progression] database unreachable: %v", pingErr)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err = op(); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *Service) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.store.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func newProgress(userID int64, lesson string) *models.Progress {
	return &models.Progress{
		UserID:          userID,
		Lesson:          lesson,
		HighestUnlocked: 1,
		LevelMastery:    map[int]*models.MasteryStat{},
		BossRewards:     map[int]int{},
		BossExpRewards:  map[int]int{},
	}
}

// CompleteLevel records one attempt in the mastery ledger and advances the
// frontier when the attempt earns it.
func (s *Service) CompleteLevel(userID int64, req models.CompleteLevelRequest) (*models.MasteryResult, error) {
	var result *models.MasteryResult
	err := s.withRetry("complete level", func() error {
		return s.inTx(func(tx *sql.Tx) error {
			p, err := s.store.getProgressForUpdate(tx, userID, req.Lesson)
			if err != nil {
				return err
			}
			if p == nil {
				p = newProgress(userID, req.Lesson)
			}

			outcome := ApplyAttempt(p, req.Level, req.CorrectAnswers, req.TotalQuestions, req.PerfectScore)
			if err := s.store.upsertProgress(tx, p); err != nil {
				return err
			}

			result = &models.MasteryResult{
				Message:         "Progress recorded",
				LevelMastered:   outcome.Mastered,
				CanUnlockNext:   outcome.NewlyUnlocked,
				MasteryStats:    outcome.Stats,
				HighestUnlocked: outcome.HighestUnlocked,
			}
			if outcome.NewlyUnlocked {
				next := outcome.HighestUnlocked
				result.Message = fmt.Sprintf("Level %d mastered, level %d unlocked", req.Level, next)
				result.NextLevelUnlocked = &next
			} else if outcome.Mastered {
				result.Message = fmt.Sprintf("Level %d mastered", req.Level)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// LevelReward pays the coin reward for completing a level. Attempts more than
// one level behind the frontier pay half.
func (s *Service) LevelReward(userID int64, req models.LevelRewardRequest) (*models.LevelRewardResponse, error) {
	var result *models.LevelRewardResponse
	var frontier int
	err := s.withRetry("level reward", func() error {
		return s.inTx(func(tx *sql.Tx) error {
			highest := 1
			p, err := s.store.getProgressForUpdate(tx, userID, req.Lesson)
			if err != nil {
				return err
			}
			if p != nil {
				highest = p.HighestUnlocked
			}
			frontier = highest

			e, err := s.store.getEconomyForUpdate(tx, userID)
			if err != nil {
				return err
			}

			reward := LevelReward(req.Level, highest)
			e.Coins += reward
			if err := s.store.updateEconomy(tx, userID, e); err != nil {
				return err
			}

			message := "Level reward granted"
			if req.Level < highest-1 {
				message = "Repeat level reward granted"
			}
			result = &models.LevelRewardResponse{
				Message:    message,
				Reward:     reward,
				NewBalance: e.Coins,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	// Words count as newly discovered only for the level just cleared at the
	// frontier. The lookup is cosmetic; a failure should not void the coins
	// already granted.
	if req.Level == frontier-1 {
		if words, err := s.words.WordsForLevel(req.Level, req.Lesson); err != nil {
			log.Printf("[progression] word count for level %d: %v", req.Level, err)
		} else {
			result.DiscoveredWords = words
		}
	}
	return result, nil
}

// BossReward pays escalating boss coins: base for the first boss, then 30%
// over the reward stored for the boss before it.
func (s *Service) BossReward(userID int64, req models.BossRewardRequest) (*models.BossRewardResponse, error) {
	var result *models.BossRewardResponse
	err := s.withRetry("boss reward", func() error {
		return s.inTx(func(tx *sql.Tx) error {
			p, err := s.store.getProgressForUpdate(tx, userID, req.Lesson)
			if err != nil {
				return err
			}
			if p == nil {
				p = newProgress(userID, req.Lesson)
			}

			previous := 0
			if req.Boss > 1 {
				previous = p.BossRewards[req.Boss-1]
			}
			reward := NextBossReward(previous, BossCoinBase)
			p.BossRewards[req.Boss] = reward

			e, err := s.store.getEconomyForUpdate(tx, userID)
			if err != nil {
				return err
			}
			e.Coins += reward

			if err := s.store.upsertProgress(tx, p); err != nil {
				return err
			}
			if err := s.store.updateEconomy(tx, userID, e); err != nil {
				return err
			}

			result = &models.BossRewardResponse{
				Message:        "Boss coins rewarded",
				Reward:         reward,
				NewBalance:     e.Coins,
				PreviousReward: previous,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BossExpReward pays escalating boss experience and runs it through the
// account ladder, so a single claim can level the account up.
func (s *Service) BossExpReward(userID int64, req models.BossRewardRequest) (*models.BossExpRewardResponse, error) {
	var result *models.BossExpRewardResponse
	err := s.withRetry("boss exp reward", func() error {
		return s.inTx(func(tx *sql.Tx) error {
			p, err := s.store.getProgressForUpdate(tx, userID, req.Lesson)
			if err != nil {
				return err
			}
			if p == nil {
				p = newProgress(userID, req.Lesson)
			}

			previous := 0
			if req.Boss > 1 {
				previous = p.BossExpRewards[req.Boss-1]
			}
			expReward := NextBossReward(previous, BossExpBase)
			p.BossExpRewards[req.Boss] = expReward

			e, err := s.store.getEconomyForUpdate(tx, userID)
			if err != nil {
				return err
			}
			ladder := ApplyExperience(e.AccountLevel, e.CurrentExp, e.Coins, float64(expReward))
			e.AccountLevel = ladder.AccountLevel
			e.CurrentExp = ladder.CurrentExp
			e.Coins = ladder.Coins

			if err := s.store.upsertProgress(tx, p); err != nil {
				return err
			}
			if err := s.store.updateEconomy(tx, userID, e); err != nil {
				return err
			}

			result = &models.BossExpRewardResponse{
				Message:      "Boss experience rewarded",
				ExpReward:    expReward,
				PreviousExp:  previous,
				AccountLevel: ladder.AccountLevel,
				CurrentExp:   ladder.CurrentExp,
				RequiredExp:  RequiredExp(ladder.AccountLevel),
				LeveledUp:    ladder.LeveledUp,
				LevelUpCoins: ladder.LevelUpCoins,
				NewBalance:   ladder.Coins,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GainExp grants level-completion experience and resolves ladder level-ups.
func (s *Service) GainExp(userID int64, req models.GainExpRequest) (*models.GainExpResponse, error) {
	var result *models.GainExpResponse
	err := s.withRetry("gain exp", func() error {
		return s.inTx(func(tx *sql.Tx) error {
			e, err := s.store.getEconomyForUpdate(tx, userID)
			if err != nil {
				return err
			}

			gained := ExpGain(req.Level, req.WrongCount)
			ladder := ApplyExperience(e.AccountLevel, e.CurrentExp, e.Coins, gained)
			e.AccountLevel = ladder.AccountLevel
			e.CurrentExp = ladder.CurrentExp
			e.Coins = ladder.Coins

			if err := s.store.updateEconomy(tx, userID, e); err != nil {
				return err
			}

			result = &models.GainExpResponse{
				Message:      "Experience gained",
				GainedExp:    gained,
				AccountLevel: ladder.AccountLevel,
				CurrentExp:   ladder.CurrentExp,
				RequiredExp:  RequiredExp(ladder.AccountLevel),
				LeveledUp:    ladder.LeveledUp,
				LevelUpCoins: ladder.LevelUpCoins,
				NewBalance:   ladder.Coins,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// StreakReward pays one coin per answer in a correct-answer streak.
func (s *Service) StreakReward(userID int64, req models.StreakRewardRequest) (*models.StreakRewardResponse, error) {
	var result *models.StreakRewardResponse
	err := s.withRetry("streak reward", func() error {
		bonus := StreakBonus(req.Streak)
		balance, err := s.store.AddCoins(userID, bonus)
		if err != nil {
			return err
		}
		result = &models.StreakRewardResponse{
			Message:     "Streak bonus granted",
			StreakBonus: bonus,
			NewBalance:  balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Lives resolves pending regeneration and returns the current lives state.
func (s *Service) Lives(userID int64) (*models.LivesResponse, error) {
	var result *models.LivesResponse
	err := s.withRetry("lives", func() error {
		return s.inTx(func(tx *sql.Tx) error {
			e, err := s.store.getEconomyForUpdate(tx, userID)
			if err != nil {
				return err
			}

			state := RegenerateLives(e.Lives, e.RegenStart, s.now())
			if state.Lives != e.Lives || !equalTimePtr(state.RegenStart, e.RegenStart) {
				e.Lives = state.Lives
				e.RegenStart = state.RegenStart
				if err := s.store.updateEconomy(tx, userID, e); err != nil {
					return err
				}
			}

			result = &models.LivesResponse{Lives: state.Lives, NextLifeIn: state.NextLifeIn}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// LoseLife spends one life, starting a regen window when one is not running.
func (s *Service) LoseLife(userID int64) (*models.LivesResponse, error) {
	var result *models.LivesResponse
	err := s.withRetry("lose life", func() error {
		return s.inTx(func(tx *sql.Tx) error {
			e, err := s.store.getEconomyForUpdate(tx, userID)
			if err != nil {
				return err
			}

			now := s.now()
			// Settle any regen earned so far before spending.
			state := RegenerateLives(e.Lives, e.RegenStart, now)
			lives, start := LoseLife(state.Lives, state.RegenStart, now)
			e.Lives = lives
			e.RegenStart = start
			if err := s.store.updateEconomy(tx, userID, e); err != nil {
				return err
			}

			resolved := RegenerateLives(lives, start, now)
			result = &models.LivesResponse{Lives: lives, NextLifeIn: resolved.NextLifeIn}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Progress returns the mastery ledger for one lesson, creating the default
// record on first read.
func (s *Service) Progress(userID int64, lesson string) (*models.ProgressResponse, error) {
	p, err := s.store.GetProgress(userID, lesson)
	if err != nil {
		return nil, err
	}
	if p == nil {
		if err := s.store.EnsureProgress(userID, lesson); err != nil {
			return nil, err
		}
		p = newProgress(userID, lesson)
	}
	return &models.ProgressResponse{
		HighestUnlocked: p.HighestUnlocked,
		LevelMastery:    p.LevelMastery,
	}, nil
}

// SelectLesson switches the user's active lesson language.
func (s *Service) SelectLesson(userID int64, lesson string) error {
	return s.withRetry("select lesson", func() error {
		if err := s.store.SetLessonLanguage(userID, lesson); err != nil {
			return err
		}
		return s.store.EnsureProgress(userID, lesson)
	})
}

// Dashboard aggregates account stats and per-lesson frontiers.
func (s *Service) Dashboard(userID int64) (*models.DashboardStats, error) {
	e, err := s.store.getEconomy(userID)
	if err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{Progress: map[string]int{}}
	stats.UserStats.AccountLevel = e.AccountLevel
	stats.UserStats.CurrentExp = e.CurrentExp
	stats.UserStats.RequiredExp = RequiredExp(e.AccountLevel)
	stats.UserStats.Coins = e.Coins
	stats.UserStats.Lives = e.Lives

	totalWords := 0
	for _, lesson := range models.Lessons {
		frontier := 1
		p, err := s.store.GetProgress(userID, lesson)
		if err != nil {
			return nil, err
		}
		if p != nil {
			frontier = p.HighestUnlocked
		}
		stats.Progress[lesson] = frontier

		if frontier > 1 {
			words, err := s.words.WordsThroughLevel(frontier-1, lesson)
			if err != nil {
				log.Printf("[progression] word count for %s: %v", lesson, err)
				continue
			}
			totalWords += words
		}
	}
	stats.UserStats.TotalWords = totalWords

	// Each boss gates a block of ten levels.
	maxBoss, err := s.store.MaxBoss()
	if err != nil {
		return nil, err
	}
	stats.MaxLevel = maxBoss * 10
	return stats, nil
}

// Leaderboard returns the per-lesson frontier rankings plus account-level and
// coin rankings.
func (s *Service) Leaderboard(limit int) (*models.LeaderboardResponse, error) {
	if limit <= 0 {
		limit = 10
	}

	resp := &models.LeaderboardResponse{Lessons: map[string][]models.LessonRankEntry{}}
	for _, lesson := range models.Lessons {
		entries, err := s.store.LessonLeaders(lesson, limit)
		if err != nil {
			return nil, err
		}
		resp.Lessons[lesson] = entries
	}

	byLevel, err := s.store.TopByAccountLevel(limit)
	if err != nil {
		return nil, err
	}
	resp.ByLevel = byLevel

	byCoins, err := s.store.TopByCoins(limit)
	if err != nil {
		return nil, err
	}
	resp.ByCoins = byCoins
	return resp, nil
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
