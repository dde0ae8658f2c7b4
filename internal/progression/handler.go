package progression

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/wikaquest/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

// ── Mastery Ledger ──────────────────────────────────────

func (h *Handler) CompleteLevel(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.CompleteLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if !models.ValidLesson(req.Lesson) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Unknown lesson"})
		return
	}
	if req.Level < 1 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Level must be at least 1"})
		return
	}
	if req.TotalQuestions < 0 || req.CorrectAnswers < 0 || req.CorrectAnswers > req.TotalQuestions {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid answer counts"})
		return
	}

	resp, err := h.service.CompleteLevel(userID, req)
	if err != nil {
		h.writeServiceError(w, "complete level", err, &models.MasteryResult{})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	lesson := mux.Vars(r)["lesson"]
	if !models.ValidLesson(lesson) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Unknown lesson"})
		return
	}

	resp, err := h.service.Progress(userID, lesson)
	if err != nil {
		h.writeServiceError(w, "get progress", err, &models.ProgressResponse{})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) SelectLesson(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.SelectLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if !models.ValidLesson(req.LessonLanguage) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Unknown lesson"})
		return
	}

	if err := h.service.SelectLesson(userID, req.LessonLanguage); err != nil {
		h.writeServiceError(w, "select lesson", err, models.ErrorResponse{})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"lesson_language": req.LessonLanguage})
}

// ── Rewards ─────────────────────────────────────────────

func (h *Handler) LevelReward(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.LevelRewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if !models.ValidLesson(req.Lesson) || req.Level < 1 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Missing lesson or level"})
		return
	}

	resp, err := h.service.LevelReward(userID, req)
	if err != nil {
		h.writeServiceError(w, "level reward", err, &models.LevelRewardResponse{})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) BossReward(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.BossRewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if !models.ValidLesson(req.Lesson) || req.Boss < 1 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Missing boss number or lesson"})
		return
	}

	resp, err := h.service.BossReward(userID, req)
	if err != nil {
		h.writeServiceError(w, "boss reward", err, &models.BossRewardResponse{})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) BossExpReward(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.BossRewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if !models.ValidLesson(req.Lesson) || req.Boss < 1 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Missing boss number or lesson"})
		return
	}

	resp, err := h.service.BossExpReward(userID, req)
	if err != nil {
		h.writeServiceError(w, "boss exp reward", err, &models.BossExpRewardResponse{})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GainExp(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.GainExpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Level < 1 || req.WrongCount < 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid level or wrong count"})
		return
	}

	resp, err := h.service.GainExp(userID, req)
	if err != nil {
		h.writeServiceError(w, "gain exp", err, &models.GainExpResponse{})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) StreakReward(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.StreakRewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Streak < 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Streak must not be negative"})
		return
	}

	resp, err := h.service.StreakReward(userID, req)
	if err != nil {
		h.writeServiceError(w, "streak reward", err, &models.StreakRewardResponse{})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ── Lives ───────────────────────────────────────────────

func (h *Handler) GetLives(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.Lives(userID)
	if err != nil {
		h.writeServiceError(w, "get lives", err, &models.LivesResponse{})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) LoseLife(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.LoseLife(userID)
	if err != nil {
		h.writeServiceError(w, "lose life", err, &models.LivesResponse{})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ── Stats ───────────────────────────────────────────────

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.Dashboard(userID)
	if err != nil {
		h.writeServiceError(w, "dashboard", err, &models.DashboardStats{})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	resp, err := h.service.Leaderboard(limit)
	if err != nil {
		h.writeServiceError(w, "leaderboard", err, &models.LeaderboardResponse{})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeServiceError maps service failures to status codes. Unavailability
// answers 503 with a zero-valued payload of the endpoint's normal shape, so
// clients can tell "nothing was granted" from a malformed response.
func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error, zero interface{}) {
	switch {
	case errors.Is(err, ErrUnavailable):
		log.Printf("[progression] %s unavailable: %v", op, err)
		writeJSON(w, http.StatusServiceUnavailable, zero)
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "User not found"})
	default:
		log.Printf("[progression] %s: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
