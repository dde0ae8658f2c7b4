package quiz

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/wikaquest/backend/internal/models"
)

// Rendered item kinds. These are what clients dispatch on; the source rows
// carry the finer-grained template tags.
const (
	itemFillBlank = "fillblank"
	itemChoice    = "choice"
	itemInput     = "input"
)

const blankToken = "_____"

// Assemble turns a level's question and distractor rows into playable quiz
// items. Item order follows question order; choice order within an item is
// shuffled per call.
func Assemble(questions []models.Question, distractors []models.Distractor, targetLang, preferredLang string) []models.QuizItem {
	byItem := make(map[int]models.Distractor, len(distractors))
	for _, d := range distractors {
		byItem[d.ItemNum] = d
	}

	items := make([]models.QuizItem, 0, len(questions))
	for _, q := range questions {
		d := byItem[q.ItemNum]

		switch q.Type {
		case models.TypeFillBlankTarget:
			if item, ok := fillBlankItem(q, d, targetLang, preferredLang); ok {
				items = append(items, item)
			}

		case models.TypeChoiceTargetToPref:
			items = append(items, models.QuizItem{
				Question:        fmt.Sprintf("Translate this phrase: \"%s\"", q.Text(targetLang)),
				Answer:          strings.Fields(q.Text(preferredLang)),
				Choices:         choicePool(d.Text(preferredLang), q.Text(preferredLang)),
				Type:            itemChoice,
				ChoicesLanguage: preferredLang,
			})

		case models.TypeChoicePrefToTarget:
			items = append(items, models.QuizItem{
				Question:        fmt.Sprintf("Translate this phrase: \"%s\"", q.Text(preferredLang)),
				Answer:          strings.Fields(q.Text(targetLang)),
				Choices:         choicePool(d.Text(targetLang), q.Text(targetLang)),
				Type:            itemChoice,
				ChoicesLanguage: targetLang,
			})

		case models.TypeAudioChoice:
			audio := q.Text(targetLang)
			items = append(items, models.QuizItem{
				Question:        "Listen and choose the correct word:",
				Answer:          strings.Fields(audio),
				Choices:         choicePool(d.Text(targetLang), audio),
				Audio:           &audio,
				Type:            itemChoice,
				ChoicesLanguage: targetLang,
			})

		case models.TypeAudioInput:
			audio := q.Text(targetLang)
			items = append(items, models.QuizItem{
				Question:        "Listen and type what you hear:",
				Answer:          []string{audio},
				Choices:         []string{},
				Audio:           &audio,
				Type:            itemInput,
				ChoicesLanguage: targetLang,
			})
		}
	}
	return items
}

// fillBlankItem blanks one random word of the target-language sentence.
// Sentences under two words have nothing meaningful to blank and are skipped.
func fillBlankItem(q models.Question, d models.Distractor, targetLang, preferredLang string) (models.QuizItem, bool) {
	words := strings.Fields(q.Text(targetLang))
	if len(words) < 2 {
		return models.QuizItem{}, false
	}

	blankIndex := rand.Intn(len(words))
	correct := words[blankIndex]

	blanked := make([]string, len(words))
	copy(blanked, words)
	blanked[blankIndex] = blankToken

	return models.QuizItem{
		Question:            fmt.Sprintf("Fill in the blank: \"%s\"", strings.Join(blanked, " ")),
		Answer:              []string{correct},
		Choices:             choicePool(d.Text(targetLang), correct),
		Type:                itemFillBlank,
		ChoicesLanguage:     targetLang,
		PreferredEquivalent: q.Text(preferredLang),
	}, true
}

// choicePool merges distractor words with the correct answer's words,
// collapses duplicates, and shuffles.
func choicePool(distractorText, answerText string) []string {
	pool := append(strings.Fields(distractorText), strings.Fields(answerText)...)

	seen := make(map[string]bool, len(pool))
	choices := make([]string, 0, len(pool))
	for _, w := range pool {
		if seen[w] {
			continue
		}
		seen[w] = true
		choices = append(choices, w)
	}

	rand.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
	return choices
}
