package quiz

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/wikaquest/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) QuestionsForLevel(level int) ([]models.Question, error) {
	rows, err := s.db.Query(
		`SELECT id, level, itemnum, type, english, tagalog, waray, cebuano
		 FROM questionanswer WHERE level = $1 ORDER BY itemnum`,
		level,
	)
	if err != nil {
		return nil, fmt.Errorf("questions for level %d: %w", level, err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.Level, &q.ItemNum, &q.Type, &q.English, &q.Tagalog, &q.Waray, &q.Cebuano); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *Store) DistractorsForLevel(level int) ([]models.Distractor, error) {
	rows, err := s.db.Query(
		`SELECT id, level, itemnum, english, tagalog, waray, cebuano
		 FROM distractor WHERE level = $1 ORDER BY itemnum`,
		level,
	)
	if err != nil {
		return nil, fmt.Errorf("distractors for level %d: %w", level, err)
	}
	defer rows.Close()

	var distractors []models.Distractor
	for rows.Next() {
		var d models.Distractor
		if err := rows.Scan(&d.ID, &d.Level, &d.ItemNum, &d.English, &d.Tagalog, &d.Waray, &d.Cebuano); err != nil {
			return nil, err
		}
		distractors = append(distractors, d)
	}
	return distractors, rows.Err()
}

// UserLanguages returns the user's answer language and active lesson, with
// the signup defaults standing in for unset columns.
func (s *Store) UserLanguages(userID int64) (preferred, lesson string, err error) {
	var pref, less sql.NullString
	err = s.db.QueryRow(
		`SELECT preferred_language, lesson_language FROM users WHERE id = $1`,
		userID,
	).Scan(&pref, &less)
	if err != nil {
		return "", "", fmt.Errorf("user languages: %w", err)
	}

	preferred = "tagalog"
	if pref.Valid && pref.String != "" {
		preferred = pref.String
	}
	lesson = "tagalog"
	if less.Valid && less.String != "" {
		lesson = less.String
	}
	return preferred, lesson, nil
}

// WordsForLevel counts the distinct vocabulary words taught by one level in
// one lesson language.
func (s *Store) WordsForLevel(level int, lesson string) (int, error) {
	return s.countWords(`SELECT `+lessonColumn(lesson)+` FROM questionanswer WHERE level = $1`, level, lesson)
}

// WordsThroughLevel counts the distinct words across all levels up to and
// including maxLevel.
func (s *Store) WordsThroughLevel(maxLevel int, lesson string) (int, error) {
	return s.countWords(`SELECT `+lessonColumn(lesson)+` FROM questionanswer WHERE level <= $1`, maxLevel, lesson)
}

// LearnedWords lists the distinct normalized words across all completed
// levels, sorted for stable display.
func (s *Store) LearnedWords(maxLevel int, lesson string) ([]string, error) {
	if !models.ValidLesson(lesson) {
		return nil, fmt.Errorf("unknown lesson %q", lesson)
	}

	rows, err := s.db.Query(
		`SELECT `+lessonColumn(lesson)+` FROM questionanswer WHERE level <= $1`,
		maxLevel,
	)
	if err != nil {
		return nil, fmt.Errorf("learned words: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, err
		}
		for _, w := range NormalizeWords(text) {
			seen[w] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	words := make([]string, 0, len(seen))
	for w := range seen {
		words = append(words, w)
	}
	sort.Strings(words)
	return words, nil
}

// LessonFrontier returns the user's highest unlocked level for a lesson, 1
// when the lesson is untouched.
func (s *Store) LessonFrontier(userID int64, lesson string) (int, error) {
	var frontier int
	err := s.db.QueryRow(
		`SELECT highest_unlocked FROM user_progress WHERE user_id = $1 AND lesson = $2`,
		userID, lesson,
	).Scan(&frontier)
	if err == sql.ErrNoRows {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("lesson frontier: %w", err)
	}
	return frontier, nil
}

func (s *Store) countWords(query string, arg int, lesson string) (int, error) {
	if !models.ValidLesson(lesson) {
		return 0, fmt.Errorf("unknown lesson %q", lesson)
	}

	rows, err := s.db.Query(query, arg)
	if err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return 0, err
		}
		for _, w := range NormalizeWords(text) {
			seen[w] = true
		}
	}
	return len(seen), rows.Err()
}

// lessonColumn maps a validated lesson name to its column. Callers must check
// ValidLesson first; the fallback keeps an unvalidated value out of the SQL.
func lessonColumn(lesson string) string {
	switch lesson {
	case "tagalog", "waray", "cebuano":
		return lesson
	}
	return "tagalog"
}

// NormalizeWords strips punctuation and case so "Kumusta," and "kumusta"
// count as one discovered word.
func NormalizeWords(text string) []string {
	var b strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	fields := strings.Fields(b.String())
	words := make([]string, len(fields))
	for i, f := range fields {
		words[i] = titleWord(f)
	}
	return words
}

func titleWord(w string) string {
	runes := []rune(strings.ToLower(w))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
