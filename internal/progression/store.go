package progression

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/wikaquest/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping() error {
	return s.db.Ping()
}

func (s *Store) Begin() (*sql.Tx, error) {
	return s.db.Begin()
}

// economy is the slice of the users row the progression engine reads and
// mutates. Always fetched FOR UPDATE inside a transaction so concurrent
// grants for the same user serialize.
type economy struct {
	Coins        int
	Lives        int
	RegenStart   *time.Time
	AccountLevel int
	CurrentExp   float64
}

func (s *Store) getEconomyForUpdate(tx *sql.Tx, userID int64) (*economy, error) {
	var e economy
	var regen sql.NullTime
	err := tx.QueryRow(
		`SELECT coins, lives, life_regen_start, account_level, current_exp
		 FROM users WHERE id = $1 FOR UPDATE`,
		userID,
	).Scan(&e.Coins, &e.Lives, &regen, &e.AccountLevel, &e.CurrentExp)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user economy: %w", err)
	}
	if regen.Valid {
		t := regen.Time.UTC()
		e.RegenStart = &t
	}
	return &e, nil
}

func (s *Store) getEconomy(userID int64) (*economy, error) {
	var e economy
	var regen sql.NullTime
	err := s.db.QueryRow(
		`SELECT coins, lives, life_regen_start, account_level, current_exp
		 FROM users WHERE id = $1`,
		userID,
	).Scan(&e.Coins, &e.Lives, &regen, &e.AccountLevel, &e.CurrentExp)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user economy: %w", err)
	}
	if regen.Valid {
		t := regen.Time.UTC()
		e.RegenStart = &t
	}
	return &e, nil
}

func (s *Store) updateEconomy(tx *sql.Tx, userID int64, e *economy) error {
	var regen interface{}
	if e.RegenStart != nil {
		regen = e.RegenStart.UTC()
	}
	_, err := tx.Exec(
		`UPDATE users SET
		    coins = $2, lives = $3, life_regen_start = $4,
		    account_level = $5, current_exp = $6, updated_at = NOW()
		 WHERE id = $1`,
		userID, e.Coins, e.Lives, regen, e.AccountLevel, e.CurrentExp,
	)
	if err != nil {
		return fmt.Errorf("update user economy: %w", err)
	}
	return nil
}

// getProgressForUpdate locks and returns the progress row for (user, lesson),
// or nil when the user has not touched the lesson yet.
func (s *Store) getProgressForUpdate(tx *sql.Tx, userID int64, lesson string) (*models.Progress, error) {
	return scanProgress(tx.QueryRow(
		`SELECT id, user_id, lesson, highest_unlocked, level_mastery, boss_rewards, boss_exp_rewards
		 FROM user_progress WHERE user_id = $1 AND lesson = $2 FOR UPDATE`,
		userID, lesson,
	))
}

// GetProgress is the read-only variant of getProgressForUpdate.
func (s *Store) GetProgress(userID int64, lesson string) (*models.Progress, error) {
	return scanProgress(s.db.QueryRow(
		`SELECT id, user_id, lesson, highest_unlocked, level_mastery, boss_rewards, boss_exp_rewards
		 FROM user_progress WHERE user_id = $1 AND lesson = $2`,
		userID, lesson,
	))
}

func scanProgress(row *sql.Row) (*models.Progress, error) {
	var p models.Progress
	var mastery, bossCoins, bossExp string
	err := row.Scan(&p.ID, &p.UserID, &p.Lesson, &p.HighestUnlocked, &mastery, &bossCoins, &bossExp)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan progress: %w", err)
	}
	p.LevelMastery = models.ParseMasteryMap(mastery)
	p.BossRewards = models.ParseRewardMap(bossCoins)
	p.BossExpRewards = models.ParseRewardMap(bossExp)
	return &p, nil
}

// upsertProgress writes a progress record back. The GREATEST guard keeps
// highest_unlocked monotonic even if two attempts race past the row lock.
func (s *Store) upsertProgress(tx *sql.Tx, p *models.Progress) error {
	_, err := tx.Exec(
		`INSERT INTO user_progress (user_id, lesson, highest_unlocked, level_mastery, boss_rewards, boss_exp_rewards)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id, lesson) DO UPDATE SET
		    highest_unlocked = GREATEST(user_progress.highest_unlocked, EXCLUDED.highest_unlocked),
		    level_mastery = EXCLUDED.level_mastery,
		    boss_rewards = EXCLUDED.boss_rewards,
		    boss_exp_rewards = EXCLUDED.boss_exp_rewards,
		    updated_at = NOW()`,
		p.UserID, p.Lesson, p.HighestUnlocked,
		models.EncodeJSONMap(p.LevelMastery),
		models.EncodeJSONMap(p.BossRewards),
		models.EncodeJSONMap(p.BossExpRewards),
	)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

// EnsureProgress lazily creates the default progress record for a lesson.
func (s *Store) EnsureProgress(userID int64, lesson string) error {
	_, err := s.db.Exec(
		`INSERT INTO user_progress (user_id, lesson) VALUES ($1, $2)
		 ON CONFLICT (user_id, lesson) DO NOTHING`,
		userID, lesson,
	)
	if err != nil {
		return fmt.Errorf("ensure progress: %w", err)
	}
	return nil
}

func (s *Store) SetLessonLanguage(userID int64, lesson string) error {
	_, err := s.db.Exec(
		`UPDATE users SET lesson_language = $2, updated_at = NOW() WHERE id = $1`,
		userID, lesson,
	)
	if err != nil {
		return fmt.Errorf("set lesson language: %w", err)
	}
	return nil
}

// AddCoins atomically credits coins and returns the new balance.
func (s *Store) AddCoins(userID int64, amount int) (int, error) {
	var balance int
	err := s.db.QueryRow(
		`UPDATE users SET coins = coins + $2, updated_at = NOW()
		 WHERE id = $1 RETURNING coins`,
		userID, amount,
	).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("add coins: %w", err)
	}
	return balance, nil
}

func (s *Store) GetLives(userID int64) (int, error) {
	var lives int
	err := s.db.QueryRow(`SELECT lives FROM users WHERE id = $1`, userID).Scan(&lives)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get lives: %w", err)
	}
	return lives, nil
}

// MaxBoss returns the highest boss number with configured content, or 1 when
// the table is empty.
func (s *Store) MaxBoss() (int, error) {
	var boss int
	err := s.db.QueryRow(`SELECT COALESCE(MAX(boss), 1) FROM boss_levels`).Scan(&boss)
	if err != nil {
		return 0, fmt.Errorf("max boss: %w", err)
	}
	return boss, nil
}

// ── Leaderboards ────────────────────────────────────────

func (s *Store) LessonLeaders(lesson string, limit int) ([]models.LessonRankEntry, error) {
	rows, err := s.db.Query(
		`SELECT u.username, p.highest_unlocked
		 FROM user_progress p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.lesson = $1
		 ORDER BY p.highest_unlocked DESC
		 LIMIT $2`,
		lesson, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("lesson leaders: %w", err)
	}
	defer rows.Close()

	var entries []models.LessonRankEntry
	for rows.Next() {
		var e models.LessonRankEntry
		if err := rows.Scan(&e.Username, &e.HighestUnlocked); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if entries == nil {
		entries = []models.LessonRankEntry{}
	}
	return entries, rows.Err()
}

func (s *Store) TopByAccountLevel(limit int) ([]models.AccountRankEntry, error) {
	rows, err := s.db.Query(
		`SELECT username, account_level FROM users ORDER BY account_level DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top by level: %w", err)
	}
	defer rows.Close()

	var entries []models.AccountRankEntry
	for rows.Next() {
		var e models.AccountRankEntry
		if err := rows.Scan(&e.Username, &e.AccountLevel); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if entries == nil {
		entries = []models.AccountRankEntry{}
	}
	return entries, rows.Err()
}

func (s *Store) TopByCoins(limit int) ([]models.AccountRankEntry, error) {
	rows, err := s.db.Query(
		`SELECT username, coins FROM users ORDER BY coins DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top by coins: %w", err)
	}
	defer rows.Close()

	var entries []models.AccountRankEntry
	for rows.Next() {
		var e models.AccountRankEntry
		if err := rows.Scan(&e.Username, &e.Coins); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if entries == nil {
		entries = []models.AccountRankEntry{}
	}
	return entries, rows.Err()
}
