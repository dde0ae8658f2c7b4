package feedback

import (
	"database/sql"
	"fmt"
	"strings"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

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

// WordContext finds the English phrase whose lesson-language sentence
// contains the word, preferring an exact containing match over the first row.
func (s *Store) WordContext(word, lessonLang string) (string, bool, error) {
	column := "tagalog"
	switch lessonLang {
	case "tagalog", "waray", "cebuano":
		column = lessonLang
	}

	rows, err := s.db.Query(
		`SELECT english, ` + column + ` FROM questionanswer ORDER BY level, itemnum`,
	)
	if err != nil {
		return "", false, fmt.Errorf("word context: %w", err)
	}
	defer rows.Close()

	needle := strings.ToLower(word)
	first := ""
	for rows.Next() {
		var english, lessonText string
		if err := rows.Scan(&english, &lessonText); err != nil {
			return "", false, err
		}
		if first == "" {
			first = english
		}
		if strings.Contains(strings.ToLower(lessonText), needle) {
			return english, true, nil
		}
	}
	if err := rows.Err(); err != nil {
		return "", false, err
	}
	if first == "" {
		return "", false, nil
	}
	return first, true, nil
}
