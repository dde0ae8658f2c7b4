package feedback

import (
	"strings"
	"testing"
)

func TestBuildFeedbackPrompt(t *testing.T) {
	prompt := BuildFeedbackPrompt("cebuano", "Translate: maayong buntag", "good morning", "good evening")

	for _, want := range []string{
		"[Language: cebuano]",
		"Translate: maayong buntag",
		"Correct Answer: good morning",
		"Student's Answer: good evening",
		"feedback in cebuano",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildWordInfoPrompt(t *testing.T) {
	prompt := BuildWordInfoPrompt("english", "waray", "maupay", "good morning to you")

	for _, want := range []string{
		"[Target Language: english]",
		`the word "maupay"`,
		"from the waray language",
		`"good morning to you"`,
		"definition of the word in english",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
