package identity

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/vijay7733/roomgate/internal/session"
)

// Handler exposes HTTP endpoints for login, invitation, and registration.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// LoginRequest login payload.
type LoginRequest struct {
	Email string `json:"email"`
	PIN   string `json:"pin"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if req.Email == "" || req.PIN == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Email and PIN are required"})
		return
	}

	token, ident, err := h.svc.Login(r.Context(), req.Email, req.PIN)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
			return
		}
		h.logger.Errorw("login failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
		"user": map[string]any{
			"id":             ident.ID,
			"name":           ident.Name,
			"email":          ident.Email,
			"role":           ident.Role,
			"assigned_rooms": ident.AssignedRooms,
		},
	})
}

// InviteRequest payload for inviting a manager.
type InviteRequest struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	AssignedRooms []string `json:"assigned_rooms"`
}

func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	claims, ok := session.FromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	var req InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	id, err := h.svc.Invite(r.Context(), claims, req.Name, req.Email, req.AssignedRooms)
	if err != nil {
		switch {
		case errors.Is(err, ErrAdminOnly):
			h.writeJSON(w, http.StatusForbidden, map[string]string{"error": "Admin access required"})
		case errors.Is(err, ErrMissingFields):
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Name and email are required"})
		case errors.Is(err, ErrEmailTaken):
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "User with this email already exists"})
		default:
			h.logger.Errorw("invite failed", "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Manager invited successfully",
		"user_id": id,
	})
}

// RegisterRequest payload for completing registration.
type RegisterRequest struct {
	Email string `json:"email"`
	PIN   string `json:"pin"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if req.Email == "" || req.PIN == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Email and PIN are required"})
		return
	}

	if err := h.svc.CompleteRegistration(r.Context(), req.Email, req.PIN); err != nil {
		switch {
		case errors.Is(err, ErrInvalidPIN):
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "PIN must be exactly 4 digits"})
		case errors.Is(err, ErrNotInvitable):
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid invitation or user already registered"})
		default:
			h.logger.Errorw("registration failed", "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Registration completed successfully",
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
