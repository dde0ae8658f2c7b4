package feedback

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/wikaquest/backend/internal/models"
)

// Degrade strings returned when the tutor backend is unreachable. The quiz
// flow keeps going without AI feedback, so these are 200s, not errors.
const (
	feedbackUnavailable   = "AI feedback is unavailable at the moment."
	definitionUnavailable = "Definition unavailable at the moment."
)

type Handler struct {
	store *Store
	llm   LLMClient
}

func NewHandler(store *Store, llm LLMClient) *Handler {
	return &Handler{store: store, llm: llm}
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

type feedbackRequest struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correct_answer"`
	UserAnswer    string `json:"user_answer"`
}

// GetFeedback asks the tutor to comment on one quiz answer in the user's
// preferred language.
func (h *Handler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	preferred, _, err := h.store.UserLanguages(userID)
	if err != nil {
		log.Printf("[feedback] user languages: %v", err)
		preferred = "tagalog"
	}

	prompt := BuildFeedbackPrompt(preferred, req.Question, req.CorrectAnswer, req.UserAnswer)
	text, err := h.llm.Generate(r.Context(), tutorSystemPrompt, prompt)
	if err != nil {
		log.Printf("[feedback] generate feedback: %v", err)
		writeJSON(w, http.StatusOK, map[string]string{"feedback": feedbackUnavailable})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"feedback": text})
}

type wordInfoRequest struct {
	Word string `json:"word"`
}

// GetWordInfo defines a tapped word using the English phrase it appears in
// as grounding context.
func (h *Handler) GetWordInfo(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req wordInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Word == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Missing word"})
		return
	}

	preferred, lesson, err := h.store.UserLanguages(userID)
	if err != nil {
		log.Printf("[feedback] user languages: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load user settings"})
		return
	}

	englishContext, found, err := h.store.WordContext(req.Word, lesson)
	if err != nil {
		log.Printf("[feedback] word context: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to look up word"})
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Word not found in lesson content"})
		return
	}

	prompt := BuildWordInfoPrompt(preferred, lesson, req.Word, englishContext)
	text, err := h.llm.Generate(r.Context(), tutorSystemPrompt, prompt)
	if err != nil {
		log.Printf("[feedback] generate word info: %v", err)
		writeJSON(w, http.StatusOK, map[string]string{"definition": definitionUnavailable})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"definition": text})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
