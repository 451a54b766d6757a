package access

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	auditent "github.com/vijay7733/roomgate/internal/audit/entity"
	identityent "github.com/vijay7733/roomgate/internal/identity/entity"
	rooment "github.com/vijay7733/roomgate/internal/room/entity"
)

// Audit reason strings. These are the precise reasons recorded per
// attempt; the transport collapses some of them before they reach a
// caller (see handler.go).
const (
	ReasonGranted         = "Access granted"
	ReasonTokenExpired    = "Token expired"
	ReasonBadSignature    = "Invalid signature"
	ReasonTokenReplayed   = "Token already used"
	ReasonRoomNotAssigned = "Access denied - Room not assigned"
	ReasonRoomNotFound    = "Room not found"
	ReasonManagerNotFound = "Manager not found"
)

// methodLabel identifies how the attempt was authenticated in the log.
const methodLabel = "PIN + Token"

// IdentityStore resolves the requesting identity. Missing rows surface as
// sql.ErrNoRows.
type IdentityStore interface {
	GetActiveByID(ctx context.Context, id string) (*identityent.Identity, error)
}

// RoomStore resolves the target room. Missing rows surface as
// sql.ErrNoRows.
type RoomStore interface {
	GetByRoomID(ctx context.Context, roomID string) (*rooment.Room, error)
}

// AuditStore appends one entry per authorization attempt.
type AuditStore interface {
	Record(ctx context.Context, e *auditent.Entry) error
}

// Request is one room-access attempt by an authenticated session.
type Request struct {
	IdentityID string // from the verified session, never the client body
	RoomID     string
	Token      Token
	Origin     string // caller network address, for the audit trail
}

// RoomInfo is the public projection of a granted room. Internal fields
// (status, storage id) are never exposed here.
type RoomInfo struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Features []string `json:"features"`
}

// Decision is the structured outcome of an authorization attempt.
type Decision struct {
	Granted bool
	Reason  string
	Room    *RoomInfo
}

// Engine evaluates room-access requests end to end. Every attempt writes
// exactly one audit entry before the decision is returned; a non-nil
// error means infrastructure failed (repository or guard), in which case
// the decision is meaningless and the audit row is not guaranteed.
type Engine struct {
	codec      *Codec
	guard      ReplayGuard
	identities IdentityStore
	rooms      RoomStore
	audit      AuditStore
	logger     *zap.SugaredLogger
	now        func() time.Time
}

func NewEngine(codec *Codec, guard ReplayGuard, identities IdentityStore, rooms RoomStore, audit AuditStore, logger *zap.SugaredLogger) *Engine {
	return &Engine{
		codec:      codec,
		guard:      guard,
		identities: identities,
		rooms:      rooms,
		audit:      audit,
		logger:     logger,
		now:        time.Now,
	}
}

// Authorize runs the fixed decision pipeline: identity, token freshness
// and signature, single-use, room assignment, room existence. The first
// failing check is terminal and its reason is what gets logged.
func (e *Engine) Authorize(ctx context.Context, req Request) (Decision, error) {
	entry := &auditent.Entry{
		ManagerID: req.IdentityID,
		RoomID:    req.RoomID,
		Timestamp: e.now().UTC(),
		Status:    auditent.OutcomeFail,
		Reason:    "Unknown error",
		Method:    methodLabel,
		Origin:    req.Origin,
	}

	ident, err := e.identities.GetActiveByID(ctx, req.IdentityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e.deny(ctx, entry, ReasonManagerNotFound)
		}
		return Decision{}, fmt.Errorf("resolve manager: %w", err)
	}
	entry.ManagerName = ident.Name

	// A token signed for a different identity is one this manager could
	// not have minted; it fails exactly as a forged signature does.
	if req.Token.IdentityID != ident.ID {
		return e.deny(ctx, entry, ReasonBadSignature)
	}

	if res := e.codec.Verify(req.Token); !res.OK {
		return e.deny(ctx, entry, res.Reason)
	}

	first, err := e.guard.MarkUsed(ctx, req.Token.Signature)
	if err != nil {
		return Decision{}, fmt.Errorf("replay guard: %w", err)
	}
	if !first {
		return e.deny(ctx, entry, ReasonTokenReplayed)
	}

	if !ident.HasRoom(req.RoomID) {
		return e.deny(ctx, entry, ReasonRoomNotAssigned)
	}

	room, err := e.rooms.GetByRoomID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e.deny(ctx, entry, ReasonRoomNotFound)
		}
		return Decision{}, fmt.Errorf("resolve room: %w", err)
	}

	entry.Status = auditent.OutcomeSuccess
	entry.Reason = ReasonGranted
	if err := e.audit.Record(ctx, entry); err != nil {
		return Decision{}, fmt.Errorf("record access attempt: %w", err)
	}

	e.logger.Infow("access granted",
		"manager_id", ident.ID,
		"room_id", room.RoomID,
	)

	return Decision{
		Granted: true,
		Reason:  ReasonGranted,
		Room: &RoomInfo{
			ID:       room.RoomID,
			Type:     room.Type,
			Features: append([]string(nil), room.Features...),
		},
	}, nil
}

func (e *Engine) deny(ctx context.Context, entry *auditent.Entry, reason string) (Decision, error) {
	entry.Reason = reason
	if err := e.audit.Record(ctx, entry); err != nil {
		return Decision{}, fmt.Errorf("record access attempt: %w", err)
	}

	e.logger.Infow("access denied",
		"manager_id", entry.ManagerID,
		"room_id", entry.RoomID,
		"reason", reason,
	)

	return Decision{Granted: false, Reason: reason}, nil
}
