package feedback

import "fmt"

const tutorSystemPrompt = "You are a friendly language tutor for Filipino regional languages. Answer concisely in the language the learner asked for."

// BuildFeedbackPrompt asks the tutor to react to one quiz answer in the
// learner's preferred language.
func BuildFeedbackPrompt(language, question, correctAnswer, userAnswer string) string {
	return fmt.Sprintf(`[Language: %s]
A student just answered a language quiz.
Question: %s
Correct Answer: %s
Student's Answer: %s

Give friendly, educational feedback in %s. Help the student understand why their answer is correct or not, and give a tip to improve.`,
		language, question, correctAnswer, userAnswer, language)
}

// BuildWordInfoPrompt asks for a definition and example sentence for a word
// the learner tapped, anchored to the English phrase it appeared in.
func BuildWordInfoPrompt(preferredLang, lessonLang, word, englishContext string) string {
	return fmt.Sprintf(`[Target Language: %s]
The learner is studying the word "%s" from the %s language.
It appears in this English phrase: "%s"

Based on that context, give:
1. A short definition of the word in %s.
2. A simple example sentence using the word (translated to %s if possible).`,
		preferredLang, word, lessonLang, englishContext, preferredLang, preferredLang)
}
