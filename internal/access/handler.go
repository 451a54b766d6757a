package access

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"

	identityent "github.com/vijay7733/roomgate/internal/identity/entity"
	"github.com/vijay7733/roomgate/internal/session"
)

// Handler exposes HTTP endpoints for minting access tokens and requesting
// room access.
type Handler struct {
	engine *Engine
	codec  *Codec
	logger *zap.SugaredLogger
}

func NewHandler(engine *Engine, codec *Codec, logger *zap.SugaredLogger) *Handler {
	return &Handler{engine: engine, codec: codec, logger: logger}
}

// MintToken issues a fresh access token bound to the session's identity.
// Meant to be called immediately before RequestAccess; the token is stale
// in 30 seconds.
func (h *Handler) MintToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := session.FromContext(r.Context())
	if !ok || claims.Role != string(identityent.RoleManager) {
		h.writeJSON(w, http.StatusForbidden, map[string]string{"error": "Manager access required"})
		return
	}

	tok, err := h.codec.Mint(claims.IdentityID)
	if err != nil {
		h.logger.Errorw("mint access token failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "token": tok})
}

// RequestAccessBody is the request payload for a room-access attempt.
type RequestAccessBody struct {
	Token  Token  `json:"token"`
	RoomID string `json:"room_id"`
}

// RequestAccess runs the authorization pipeline for the session identity.
func (h *Handler) RequestAccess(w http.ResponseWriter, r *http.Request) {
	claims, ok := session.FromContext(r.Context())
	if !ok || claims.Role != string(identityent.RoleManager) {
		h.writeJSON(w, http.StatusForbidden, map[string]string{"error": "Manager access required"})
		return
	}

	var body RequestAccessBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if body.RoomID == "" || body.Token.Signature == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Token and room_id are required"})
		return
	}

	decision, err := h.engine.Authorize(r.Context(), Request{
		IdentityID: claims.IdentityID,
		RoomID:     body.RoomID,
		Token:      body.Token,
		Origin:     remoteIP(r),
	})
	if err != nil {
		h.logger.Errorw("authorize failed", "err", err, "manager_id", claims.IdentityID)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	if !decision.Granted {
		h.writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"reason":  callerReason(decision.Reason),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Access granted to %s", decision.Room.ID),
		"room":    decision.Room,
	})
}

// callerReason maps audit reasons to caller-safe messages. Distinguishing
// an unassigned room from a nonexistent one would let a caller enumerate
// valid room ids, so both collapse; token-freshness reasons pass through
// since the client needs them to know to re-mint.
func callerReason(reason string) string {
	switch reason {
	case ReasonRoomNotAssigned, ReasonRoomNotFound:
		return "Access denied"
	default:
		return reason
	}
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
