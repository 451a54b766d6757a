package audit

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/vijay7733/roomgate/internal/audit/entity"
	identityent "github.com/vijay7733/roomgate/internal/identity/entity"
	"github.com/vijay7733/roomgate/internal/session"
)

// Lister is the log query surface the handler needs. An empty
// managerID returns entries for every manager.
type Lister interface {
	ListRecent(ctx context.Context, managerID string, limit int) ([]*entity.Entry, error)
}

// Handler exposes the access-log reporting surface. Admins see every
// entry; managers only their own.
type Handler struct {
	logs   Lister
	logger *zap.SugaredLogger
}

func NewHandler(logs Lister, logger *zap.SugaredLogger) *Handler {
	return &Handler{logs: logs, logger: logger}
}

// List returns the 100 most recent entries visible to the session.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := session.FromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	managerID := ""
	if claims.Role == string(identityent.RoleManager) {
		managerID = claims.IdentityID
	}

	logs, err := h.logs.ListRecent(r.Context(), managerID, 100)
	if err != nil {
		h.logger.Errorw("list access logs failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "logs": logs})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
