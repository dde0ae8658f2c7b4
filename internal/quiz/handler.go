package quiz

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/wikaquest/backend/internal/models"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

// GetQuestions assembles the playable quiz for one level in the user's
// current lesson language.
func (h *Handler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	level, err := strconv.Atoi(mux.Vars(r)["level"])
	if err != nil || level < 1 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid level"})
		return
	}

	preferred, lesson, err := h.store.UserLanguages(userID)
	if err != nil {
		log.Printf("[quiz] user languages: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load user settings"})
		return
	}

	questions, err := h.store.QuestionsForLevel(level)
	if err != nil {
		log.Printf("[quiz] questions for level %d: %v", level, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load questions"})
		return
	}
	distractors, err := h.store.DistractorsForLevel(level)
	if err != nil {
		log.Printf("[quiz] distractors for level %d: %v", level, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load questions"})
		return
	}

	writeJSON(w, http.StatusOK, Assemble(questions, distractors, lesson, preferred))
}

// GetMyWords lists the vocabulary the user has unlocked: every distinct word
// from levels below the current frontier in the active lesson.
func (h *Handler) GetMyWords(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	_, lesson, err := h.store.UserLanguages(userID)
	if err != nil {
		log.Printf("[quiz] user languages: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load user settings"})
		return
	}

	frontier, err := h.store.LessonFrontier(userID, lesson)
	if err != nil {
		log.Printf("[quiz] lesson frontier: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load progress"})
		return
	}

	words := []string{}
	lastLevel := frontier - 1
	if lastLevel >= 1 {
		words, err = h.store.LearnedWords(lastLevel, lesson)
		if err != nil {
			log.Printf("[quiz] learned words: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load words"})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"lesson": lesson,
		"level":  lastLevel,
		"words":  words,
	})
}

// WordsDiscovered acknowledges a client-side word-discovery event. The count
// echoes back so the client can render the toast without a second request.
func (h *Handler) WordsDiscovered(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserID(r); !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req struct {
		Level int      `json:"level"`
		Words []string `json:"words"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"new_words":   len(req.Words),
		"total_words": len(req.Words),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
