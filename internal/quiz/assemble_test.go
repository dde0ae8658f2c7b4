package quiz

import (
	"strings"
	"testing"

	"github.com/wikaquest/backend/internal/models"
)

func sampleQuestion(itemnum int, qtype string) models.Question {
	return models.Question{
		ID:      int64(itemnum),
		Level:   1,
		ItemNum: itemnum,
		Type:    qtype,
		English: "good morning to you",
		Tagalog: "magandang umaga sa iyo",
		Waray:   "maupay nga aga ha imo",
		Cebuano: "maayong buntag kanimo",
	}
}

func sampleDistractor(itemnum int) models.Distractor {
	return models.Distractor{
		ID:      int64(itemnum),
		Level:   1,
		ItemNum: itemnum,
		English: "night house dog",
		Tagalog: "gabi bahay aso",
		Waray:   "gab-i balay ayam",
		Cebuano: "gabii balay iro",
	}
}

func TestAssembleFillBlank(t *testing.T) {
	qs := []models.Question{sampleQuestion(1, models.TypeFillBlankTarget)}
	ds := []models.Distractor{sampleDistractor(1)}

	items := Assemble(qs, ds, "waray", "english")
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	item := items[0]
	if item.Type != itemFillBlank {
		t.Errorf("Type = %q, want %q", item.Type, itemFillBlank)
	}
	if !strings.Contains(item.Question, blankToken) {
		t.Errorf("question %q missing blank token", item.Question)
	}
	if len(item.Answer) != 1 {
		t.Fatalf("Answer = %v, want a single word", item.Answer)
	}

	// The blanked word must come from the target sentence and appear among
	// the choices.
	sentence := strings.Fields("maupay nga aga ha imo")
	found := false
	for _, w := range sentence {
		if w == item.Answer[0] {
			found = true
		}
	}
	if !found {
		t.Errorf("answer %q is not a word of the target sentence", item.Answer[0])
	}
	if !contains(item.Choices, item.Answer[0]) {
		t.Errorf("choices %v missing answer %q", item.Choices, item.Answer[0])
	}
	if item.ChoicesLanguage != "waray" {
		t.Errorf("ChoicesLanguage = %q, want waray", item.ChoicesLanguage)
	}
	if item.PreferredEquivalent != "good morning to you" {
		t.Errorf("PreferredEquivalent = %q", item.PreferredEquivalent)
	}
}

func TestAssembleSkipsShortFillBlank(t *testing.T) {
	q := sampleQuestion(1, models.TypeFillBlankTarget)
	q.Waray = "maupay"

	items := Assemble([]models.Question{q}, nil, "waray", "english")
	if len(items) != 0 {
		t.Fatalf("got %d items, want single-word fillblank skipped", len(items))
	}
}

func TestAssembleChoiceDirections(t *testing.T) {
	qs := []models.Question{
		sampleQuestion(1, models.TypeChoiceTargetToPref),
		sampleQuestion(2, models.TypeChoicePrefToTarget),
	}
	ds := []models.Distractor{sampleDistractor(1), sampleDistractor(2)}

	items := Assemble(qs, ds, "cebuano", "english")
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	t2p := items[0]
	if !strings.Contains(t2p.Question, "maayong buntag kanimo") {
		t.Errorf("t2p prompt %q missing target phrase", t2p.Question)
	}
	if strings.Join(t2p.Answer, " ") != "good morning to you" {
		t.Errorf("t2p answer = %v", t2p.Answer)
	}
	if t2p.ChoicesLanguage != "english" {
		t.Errorf("t2p ChoicesLanguage = %q, want english", t2p.ChoicesLanguage)
	}
	for _, w := range t2p.Answer {
		if !contains(t2p.Choices, w) {
			t.Errorf("t2p choices %v missing answer word %q", t2p.Choices, w)
		}
	}

	p2t := items[1]
	if !strings.Contains(p2t.Question, "good morning to you") {
		t.Errorf("p2t prompt %q missing preferred phrase", p2t.Question)
	}
	if strings.Join(p2t.Answer, " ") != "maayong buntag kanimo" {
		t.Errorf("p2t answer = %v", p2t.Answer)
	}
	if p2t.ChoicesLanguage != "cebuano" {
		t.Errorf("p2t ChoicesLanguage = %q, want cebuano", p2t.ChoicesLanguage)
	}
}

func TestAssembleAudioItems(t *testing.T) {
	qs := []models.Question{
		sampleQuestion(1, models.TypeAudioChoice),
		sampleQuestion(2, models.TypeAudioInput),
	}
	ds := []models.Distractor{sampleDistractor(1)}

	items := Assemble(qs, ds, "tagalog", "english")
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	ac := items[0]
	if ac.Type != itemChoice {
		t.Errorf("audio-choice Type = %q, want %q", ac.Type, itemChoice)
	}
	if ac.Audio == nil || *ac.Audio != "magandang umaga sa iyo" {
		t.Errorf("audio-choice Audio = %v", ac.Audio)
	}

	ai := items[1]
	if ai.Type != itemInput {
		t.Errorf("audio-input Type = %q, want %q", ai.Type, itemInput)
	}
	if len(ai.Answer) != 1 || ai.Answer[0] != "magandang umaga sa iyo" {
		t.Errorf("audio-input Answer = %v, want the full sentence", ai.Answer)
	}
	if len(ai.Choices) != 0 {
		t.Errorf("audio-input Choices = %v, want none", ai.Choices)
	}
	if ai.Audio == nil || *ai.Audio != "magandang umaga sa iyo" {
		t.Errorf("audio-input Audio = %v", ai.Audio)
	}
}

func TestChoicePoolDeduplicates(t *testing.T) {
	choices := choicePool("aso aso bahay", "aso pusa")
	counts := map[string]int{}
	for _, c := range choices {
		counts[c]++
	}

	for w, n := range counts {
		if n != 1 {
			t.Errorf("choice %q appears %d times", w, n)
		}
	}
	for _, w := range []string{"aso", "bahay", "pusa"} {
		if counts[w] != 1 {
			t.Errorf("choices %v missing %q", choices, w)
		}
	}
	if len(choices) != 3 {
		t.Errorf("got %d choices, want 3", len(choices))
	}
}

func TestNormalizeWords(t *testing.T) {
	got := NormalizeWords("Kumusta, ka na?  KUMUSTA!")
	want := []string{"Kumusta", "Ka", "Na", "Kumusta"}
	if len(got) != len(want) {
		t.Fatalf("NormalizeWords = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
