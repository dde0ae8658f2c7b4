package shop

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

func (h *Handler) GetShop(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	listing, err := h.service.Listing(userID)
	if err != nil {
		log.Printf("[shop] listing: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load shop"})
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *Handler) GetInventory(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	items, err := h.service.Inventory(userID)
	if err != nil {
		log.Printf("[shop] inventory: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load inventory"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (h *Handler) GetItemsByLevel(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserID(r); !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	level, err := strconv.Atoi(mux.Vars(r)["level"])
	if err != nil || level < 1 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid level"})
		return
	}

	items, err := h.service.ItemsByLevel(level)
	if err != nil {
		log.Printf("[shop] items by level: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load items"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "items": items})
}

func (h *Handler) GetOwnedAvatars(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	avatars, err := h.service.OwnedAvatars(userID)
	if err != nil {
		log.Printf("[shop] owned avatars: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load avatars"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"avatars": avatars})
}

func (h *Handler) BuyLives(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.BuyLivesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	result, err := h.service.BuyLives(userID, req.Amount)
	if err != nil {
		h.writeServiceError(w, "buy lives", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) BuyFullHealth(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	result, err := h.service.BuyFullHealth(userID)
	if err != nil {
		h.writeServiceError(w, "buy full health", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) BuyAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	avatarID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid avatar id"})
		return
	}

	result, err := h.service.BuyAvatar(userID, avatarID)
	if err != nil {
		h.writeServiceError(w, "buy avatar", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) BuyItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	itemID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid item id"})
		return
	}

	req := models.BuyItemRequest{Quantity: 1}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	result, err := h.service.BuyItem(userID, itemID, req.Quantity)
	if err != nil {
		h.writeServiceError(w, "buy item", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) SelectAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.SelectAvatarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.service.SelectAvatar(userID, req.AvatarID); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Avatar not owned"})
			return
		}
		h.writeServiceError(w, "select avatar", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) UpdatePreferredLanguage(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.PreferredLanguageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if !models.ValidLanguage(req.Language) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid language"})
		return
	}

	if err := h.service.SetPreferredLanguage(userID, req.Language); err != nil {
		h.writeServiceError(w, "update preferred language", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Not found"})
		return
	}
	log.Printf("[shop] %s: %v", op, err)
	writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
