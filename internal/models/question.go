package models

// Question type tags select one of the five quiz-item templates.
const (
	TypeFillBlankTarget    = "fillblank-t"
	TypeChoiceTargetToPref = "choice-t2p"
	TypeChoicePrefToTarget = "choice-p2t"
	TypeAudioChoice        = "audio-choice"
	TypeAudioInput         = "audio-input"
)

// Question is one quiz row: parallel text in English and the three target
// languages, keyed by (level, itemnum).
type Question struct {
	ID      int64  `json:"id"`
	Level   int    `json:"level"`
	ItemNum int    `json:"itemnum"`
	Type    string `json:"type"`
	English string `json:"english"`
	Tagalog string `json:"tagalog"`
	Waray   string `json:"waray"`
	Cebuano string `json:"cebuano"`
}

// Text returns the question text in the given language, or "" for an unknown
// language name.
func (q Question) Text(lang string) string {
	switch lang {
	case "english":
		return q.English
	case "tagalog":
		return q.Tagalog
	case "waray":
		return q.Waray
	case "cebuano":
		return q.Cebuano
	}
	return ""
}

// Distractor supplies wrong-answer candidate text for a question with the same
// (level, itemnum) key. Only choice-style templates consume it.
type Distractor struct {
	ID      int64  `json:"id"`
	Level   int    `json:"level"`
	ItemNum int    `json:"itemnum"`
	English string `json:"english"`
	Tagalog string `json:"tagalog"`
	Waray   string `json:"waray"`
	Cebuano string `json:"cebuano"`
}

func (d Distractor) Text(lang string) string {
	switch lang {
	case "english":
		return d.English
	case "tagalog":
		return d.Tagalog
	case "waray":
		return d.Waray
	case "cebuano":
		return d.Cebuano
	}
	return ""
}

// QuizItem is one playable assembled question. Choices is empty for free-text
// items; Audio carries the target-language text for client-side synthesis.
type QuizItem struct {
	Question            string   `json:"question"`
	Answer              []string `json:"answer"`
	Choices             []string `json:"choices"`
	Audio               *string  `json:"audio"`
	Type                string   `json:"type"`
	ChoicesLanguage     string   `json:"choices_language"`
	PreferredEquivalent string   `json:"preferred_equivalent,omitempty"`
}
