package database

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func Connect() (*sql.DB, error) {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "wikaquest_user")
	password := getEnv("DB_PASSWORD", "wikaquest_password")
	dbname := getEnv("DB_NAME", "wikaquest")
	sslmode := getEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func Migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id                 BIGSERIAL PRIMARY KEY,
		email              VARCHAR(255) UNIQUE NOT NULL,
		username           VARCHAR(50) NOT NULL,
		password           VARCHAR(255) NOT NULL,
		role               VARCHAR(20) NOT NULL DEFAULT 'user',
		profile_picture    VARCHAR(255),
		coins              INT NOT NULL DEFAULT 0 CHECK (coins >= 0),
		lives              INT NOT NULL DEFAULT 5 CHECK (lives >= 0 AND lives <= 5),
		life_regen_start   TIMESTAMP WITH TIME ZONE,
		account_level      INT NOT NULL DEFAULT 1 CHECK (account_level >= 1),
		current_exp        DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (current_exp >= 0),
		preferred_language VARCHAR(20) NOT NULL DEFAULT 'tagalog',
		lesson_language    VARCHAR(20),
		created_at         TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at         TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	CREATE TABLE IF NOT EXISTS user_progress (
		id               BIGSERIAL PRIMARY KEY,
		user_id          BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		lesson           VARCHAR(20) NOT NULL,
		highest_unlocked INT NOT NULL DEFAULT 1 CHECK (highest_unlocked >= 1),
		level_mastery    TEXT NOT NULL DEFAULT '{}',
		boss_rewards     TEXT NOT NULL DEFAULT '{}',
		boss_exp_rewards TEXT NOT NULL DEFAULT '{}',
		created_at       TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at       TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(user_id, lesson)
	);

	CREATE INDEX IF NOT EXISTS idx_progress_user_lesson ON user_progress(user_id, lesson);
	CREATE INDEX IF NOT EXISTS idx_progress_lesson_rank ON user_progress(lesson, highest_unlocked DESC);

	CREATE TABLE IF NOT EXISTS questionanswer (
		id      BIGSERIAL PRIMARY KEY,
		level   INT NOT NULL CHECK (level >= 1),
		itemnum INT NOT NULL,
		type    VARCHAR(20) NOT NULL,
		english TEXT NOT NULL DEFAULT '',
		tagalog TEXT NOT NULL DEFAULT '',
		waray   TEXT NOT NULL DEFAULT '',
		cebuano TEXT NOT NULL DEFAULT '',
		UNIQUE(level, itemnum)
	);

	CREATE INDEX IF NOT EXISTS idx_questions_level ON questionanswer(level, itemnum);

	CREATE TABLE IF NOT EXISTS distractor (
		id      BIGSERIAL PRIMARY KEY,
		level   INT NOT NULL CHECK (level >= 1),
		itemnum INT NOT NULL,
		english TEXT NOT NULL DEFAULT '',
		tagalog TEXT NOT NULL DEFAULT '',
		waray   TEXT NOT NULL DEFAULT '',
		cebuano TEXT NOT NULL DEFAULT '',
		UNIQUE(level, itemnum)
	);

	CREATE INDEX IF NOT EXISTS idx_distractors_level ON distractor(level, itemnum);

	CREATE TABLE IF NOT EXISTS boss_levels (
		id          BIGSERIAL PRIMARY KEY,
		boss        INT NOT NULL UNIQUE CHECK (boss >= 1),
		description TEXT
	);

	CREATE TABLE IF NOT EXISTS items (
		id             BIGSERIAL PRIMARY KEY,
		name           VARCHAR(100) NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		filename       VARCHAR(255) NOT NULL,
		price          INT NOT NULL CHECK (price >= 0),
		required_level INT NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS avatars (
		id       BIGSERIAL PRIMARY KEY,
		name     VARCHAR(100) NOT NULL,
		filename VARCHAR(255) NOT NULL,
		price    INT NOT NULL CHECK (price >= 0)
	);

	CREATE TABLE IF NOT EXISTS user_items (
		id       BIGSERIAL PRIMARY KEY,
		user_id  BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		item_id  BIGINT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
		quantity INT NOT NULL DEFAULT 1 CHECK (quantity >= 1),
		UNIQUE(user_id, item_id)
	);

	CREATE TABLE IF NOT EXISTS user_avatars (
		id        BIGSERIAL PRIMARY KEY,
		user_id   BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		avatar_id BIGINT NOT NULL REFERENCES avatars(id) ON DELETE CASCADE,
		UNIQUE(user_id, avatar_id)
	);

	CREATE INDEX IF NOT EXISTS idx_user_items_user ON user_items(user_id);
	CREATE INDEX IF NOT EXISTS idx_user_avatars_user ON user_avatars(user_id);
	`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	// Idempotent column additions for databases created before these fields existed.
	alterStatements := []string{
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS profile_picture VARCHAR(255)`,
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS lesson_language VARCHAR(20)`,
		`ALTER TABLE user_progress ADD COLUMN IF NOT EXISTS boss_rewards TEXT NOT NULL DEFAULT '{}'`,
		`ALTER TABLE user_progress ADD COLUMN IF NOT EXISTS boss_exp_rewards TEXT NOT NULL DEFAULT '{}'`,
		`ALTER TABLE items ADD COLUMN IF NOT EXISTS required_level INT NOT NULL DEFAULT 1`,
	}
	for _, stmt := range alterStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("alter table failed: %w", err)
		}
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
