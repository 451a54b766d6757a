package room

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	identityent "github.com/vijay7733/roomgate/internal/identity/entity"
	"github.com/vijay7733/roomgate/internal/session"
)

// Handler exposes HTTP endpoints for rooms.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// List returns all rooms to any authenticated session.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Errorw("list rooms failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "rooms": rooms})
}

// CreateRequest payload for registering a room.
type CreateRequest struct {
	RoomID   string   `json:"room_id"`
	Type     string   `json:"type"`
	Features []string `json:"features"`
}

// Create registers a room; admin sessions only.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := session.FromContext(r.Context())
	if !ok || claims.Role != string(identityent.RoleAdmin) {
		h.writeJSON(w, http.StatusForbidden, map[string]string{"error": "Admin access required"})
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	rm, err := h.svc.Create(r.Context(), req.RoomID, req.Type, req.Features)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Room ID and type are required"})
		case errors.Is(err, ErrRoomExists):
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Room already exists"})
		default:
			h.logger.Errorw("create room failed", "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Room created successfully",
		"room_id": rm.RoomID,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
