package audit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vijay7733/roomgate/internal/audit/entity"
	"github.com/vijay7733/roomgate/internal/session"
)

type fakeLister struct {
	entries []*entity.Entry
	err     error

	gotManagerID string
	gotLimit     int
}

func (f *fakeLister) ListRecent(_ context.Context, managerID string, limit int) ([]*entity.Entry, error) {
	f.gotManagerID = managerID
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if managerID == "" {
		return f.entries, nil
	}
	var out []*entity.Entry
	for _, e := range f.entries {
		if e.ManagerID == managerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func sampleEntries() []*entity.Entry {
	now := time.Now().UTC()
	return []*entity.Entry{
		{ID: "1", ManagerID: "mgr-1", ManagerName: "Priya", RoomID: "R101", Timestamp: now, Status: entity.OutcomeSuccess, Reason: "Access granted", Method: "PIN + Token"},
		{ID: "2", ManagerID: "mgr-2", ManagerName: "Arun", RoomID: "R201", Timestamp: now, Status: entity.OutcomeFail, Reason: "Token expired", Method: "PIN + Token"},
	}
}

func listWithClaims(t *testing.T, lister Lister, claims *session.Claims) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(lister, zap.NewNop().Sugar())
	req := httptest.NewRequest(http.MethodGet, "/roomgate/logs", nil)
	if claims != nil {
		req = req.WithContext(session.NewContext(req.Context(), claims))
	}
	rec := httptest.NewRecorder()
	h.List(rec, req)
	return rec
}

func TestListScopesManagerToOwnEntries(t *testing.T) {
	lister := &fakeLister{entries: sampleEntries()}
	rec := listWithClaims(t, lister, &session.Claims{IdentityID: "mgr-1", Role: "manager"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mgr-1", lister.gotManagerID)
	assert.Equal(t, 100, lister.gotLimit)

	var body struct {
		Success bool            `json:"success"`
		Logs    []*entity.Entry `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Logs, 1)
	assert.Equal(t, "mgr-1", body.Logs[0].ManagerID)
}

func TestListAdminSeesAllEntries(t *testing.T) {
	lister := &fakeLister{entries: sampleEntries()}
	rec := listWithClaims(t, lister, &session.Claims{IdentityID: "adm-1", Role: "admin"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", lister.gotManagerID)

	var body struct {
		Logs []*entity.Entry `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Logs, 2)
}

func TestListWithoutSession(t *testing.T) {
	lister := &fakeLister{entries: sampleEntries()}
	rec := listWithClaims(t, lister, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "", lister.gotManagerID)
	assert.Zero(t, lister.gotLimit)
}

func TestListStoreError(t *testing.T) {
	lister := &fakeLister{err: errors.New("connection reset")}
	rec := listWithClaims(t, lister, &session.Claims{IdentityID: "adm-1", Role: "admin"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}
