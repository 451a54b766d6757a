package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/vijay7733/roomgate/internal/credential"
	"github.com/vijay7733/roomgate/internal/identity/entity"
	"github.com/vijay7733/roomgate/internal/identity/repo"
	"github.com/vijay7733/roomgate/internal/session"
	"github.com/vijay7733/roomgate/pkg/utilities"
)

var (
	// ErrInvalidCredentials is the single login failure: missing identity,
	// inactive status, and PIN mismatch are indistinguishable to avoid
	// account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrAdminOnly     = errors.New("admin role required")
	ErrEmailTaken    = errors.New("email already registered")
	ErrMissingFields = errors.New("name and email are required")
	ErrInvalidPIN    = errors.New("pin must be exactly 4 digits")
	// ErrNotInvitable covers unknown email, already-registered identity,
	// or anything else that makes the single-row activation match nothing.
	ErrNotInvitable = errors.New("invalid invitation or already registered")
)

var pinPattern = regexp.MustCompile(`^[0-9]{4}$`)

// Store is the identity repository surface the service needs.
type Store interface {
	Create(ctx context.Context, id *entity.Identity) error
	GetByEmail(ctx context.Context, email string) (*entity.Identity, error)
	GetActiveByEmail(ctx context.Context, email string) (*entity.Identity, error)
	Activate(ctx context.Context, email, pinHash string) (int64, error)
}

// Service orchestrates login, invitation, and registration completion.
type Service struct {
	store    Store
	hasher   credential.Hasher
	sessions *session.Issuer
	logger   *zap.SugaredLogger
}

func NewService(store Store, hasher credential.Hasher, sessions *session.Issuer, logger *zap.SugaredLogger) *Service {
	if hasher == nil {
		hasher = credential.BcryptHasher{Cost: credential.DefaultCost}
	}
	return &Service{store: store, hasher: hasher, sessions: sessions, logger: logger}
}

// Login authenticates an email + PIN pair and issues a session credential.
// Every failure path resolves to ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, pin string) (string, *entity.Identity, error) {
	email = normalizeEmail(email)
	if email == "" || pin == "" {
		return "", nil, ErrInvalidCredentials
	}

	ident, err := s.store.GetActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("lookup identity: %w", err)
	}

	if !s.hasher.Verify(pin, ident.PINHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(session.Claims{
		IdentityID: ident.ID,
		Email:      ident.Email,
		Role:       string(ident.Role),
		Name:       ident.Name,
	})
	if err != nil {
		return "", nil, fmt.Errorf("issue session: %w", err)
	}

	s.logger.Infow("login", "identity_id", ident.ID, "role", ident.Role)
	return token, ident, nil
}

// Invite creates an inactive manager identity with no PIN. Only an admin
// session may invite, and the email must be unused (case-insensitive).
func (s *Service) Invite(ctx context.Context, inviter *session.Claims, name, email string, rooms []string) (string, error) {
	if inviter == nil || inviter.Role != string(entity.RoleAdmin) {
		return "", ErrAdminOnly
	}
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" {
		return "", ErrMissingFields
	}

	if _, err := s.store.GetByEmail(ctx, email); err == nil {
		return "", ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("lookup identity: %w", err)
	}

	if rooms == nil {
		rooms = []string{}
	}
	invitedBy := inviter.Email
	ident := &entity.Identity{
		ID:            utilities.NewKSUID(),
		Role:          entity.RoleManager,
		Name:          name,
		Email:         email,
		Status:        entity.StatusInactive,
		AssignedRooms: rooms,
		InvitedBy:     &invitedBy,
	}
	if err := s.store.Create(ctx, ident); err != nil {
		// Two concurrent invites can both pass the lookup above; the
		// unique constraint settles the race.
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return "", ErrEmailTaken
		}
		return "", fmt.Errorf("create identity: %w", err)
	}

	s.logger.Infow("manager invited", "identity_id", ident.ID, "invited_by", invitedBy)
	return ident.ID, nil
}

// CompleteRegistration accepts the one-time PIN setup for an invited
// identity. The hash and the status transition land in a single guarded
// update, so a partially registered identity is never observable.
func (s *Service) CompleteRegistration(ctx context.Context, email, pin string) error {
	email = normalizeEmail(email)
	if !pinPattern.MatchString(pin) {
		return ErrInvalidPIN
	}

	hash, err := s.hasher.Hash(pin)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}

	rows, err := s.store.Activate(ctx, email, hash)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotInvitable
	}

	s.logger.Infow("registration completed", "email", email)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
