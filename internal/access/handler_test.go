package access

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vijay7733/roomgate/internal/session"
)

func TestCallerReasonCollapsesRoomTopology(t *testing.T) {
	// a caller must not be able to tell an unassigned room from a
	// nonexistent one
	assert.Equal(t, "Access denied", callerReason(ReasonRoomNotAssigned))
	assert.Equal(t, "Access denied", callerReason(ReasonRoomNotFound))

	assert.Equal(t, ReasonTokenExpired, callerReason(ReasonTokenExpired))
	assert.Equal(t, ReasonBadSignature, callerReason(ReasonBadSignature))
	assert.Equal(t, ReasonTokenReplayed, callerReason(ReasonTokenReplayed))
}

func managerContext(r *http.Request) *http.Request {
	claims := &session.Claims{IdentityID: "mgr-1", Role: "manager", Name: "John Manager"}
	return r.WithContext(session.NewContext(r.Context(), claims))
}

func TestMintTokenHandler(t *testing.T) {
	engine, codec, _ := newTestEngine(time.Now())
	h := NewHandler(engine, codec, zap.NewNop().Sugar())

	rec := httptest.NewRecorder()
	h.MintToken(rec, managerContext(httptest.NewRequest(http.MethodGet, "/roomgate/access/token", nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success bool  `json:"success"`
		Token   Token `json:"token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "mgr-1", body.Token.IdentityID)
	assert.True(t, codec.Verify(body.Token).OK)
}

func TestMintTokenRequiresManagerRole(t *testing.T) {
	engine, codec, _ := newTestEngine(time.Now())
	h := NewHandler(engine, codec, zap.NewNop().Sugar())

	r := httptest.NewRequest(http.MethodGet, "/roomgate/access/token", nil)
	claims := &session.Claims{IdentityID: "adm-1", Role: "admin"}
	r = r.WithContext(session.NewContext(r.Context(), claims))

	rec := httptest.NewRecorder()
	h.MintToken(rec, r)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequestAccessResponseHidesPreciseDenial(t *testing.T) {
	engine, codec, audit := newTestEngine(time.Now())
	h := NewHandler(engine, codec, zap.NewNop().Sugar())

	tok, err := codec.Mint("mgr-1")
	require.NoError(t, err)

	payload, err := json.Marshal(RequestAccessBody{Token: tok, RoomID: "R102"})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/roomgate/access/request", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	h.RequestAccess(rec, managerContext(r))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success bool   `json:"success"`
		Reason  string `json:"reason"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "Access denied", body.Reason)

	// the audit log keeps the precise reason
	entries := audit.all()
	require.Len(t, entries, 1)
	assert.Equal(t, ReasonRoomNotAssigned, entries[0].Reason)
}

func TestRequestAccessGranted(t *testing.T) {
	engine, codec, _ := newTestEngine(time.Now())
	h := NewHandler(engine, codec, zap.NewNop().Sugar())

	tok, err := codec.Mint("mgr-1")
	require.NoError(t, err)

	payload, err := json.Marshal(RequestAccessBody{Token: tok, RoomID: "R101"})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/roomgate/access/request", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	h.RequestAccess(rec, managerContext(r))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		Room    RoomInfo `json:"room"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "Access granted to R101", body.Message)
	assert.Equal(t, []string{"Wi-Fi", "AC"}, body.Room.Features)
}

func TestRequestAccessRoomProjection(t *testing.T) {
	engine, codec, _ := newTestEngine(time.Now())
	h := NewHandler(engine, codec, zap.NewNop().Sugar())

	tok, err := codec.Mint("mgr-1")
	require.NoError(t, err)

	payload, err := json.Marshal(RequestAccessBody{Token: tok, RoomID: "R101"})
	require.NoError(t, err)
	r := httptest.NewRequest(http.MethodPost, "/roomgate/access/request", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	h.RequestAccess(rec, managerContext(r))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Room map[string]json.RawMessage `json:"room"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	// the checkpoint exposes the room code, type, and features only,
	// nothing about the room's operational state
	assert.Equal(t, json.RawMessage(`"R101"`), body.Room["id"])
	assert.Contains(t, body.Room, "type")
	assert.Contains(t, body.Room, "features")
	assert.NotContains(t, body.Room, "status")
}

func TestRequestAccessValidation(t *testing.T) {
	engine, codec, _ := newTestEngine(time.Now())
	h := NewHandler(engine, codec, zap.NewNop().Sugar())

	r := httptest.NewRequest(http.MethodPost, "/roomgate/access/request", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	h.RequestAccess(rec, managerContext(r))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
