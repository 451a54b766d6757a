package room

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/vijay7733/roomgate/internal/room/entity"
	"github.com/vijay7733/roomgate/pkg/utilities"
)

var (
	ErrRoomExists    = errors.New("room already exists")
	ErrMissingFields = errors.New("room_id and type are required")
)

// Store is the room repository surface the service needs.
type Store interface {
	Create(ctx context.Context, rm *entity.Room) error
	GetByRoomID(ctx context.Context, roomID string) (*entity.Room, error)
	List(ctx context.Context) ([]*entity.Room, error)
}

// Service encapsulates room creation and listing. Rooms are immutable
// once created; there is no update or delete.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create registers a new room. New rooms always start available.
func (s *Service) Create(ctx context.Context, roomID, roomType string, features []string) (*entity.Room, error) {
	roomID = strings.TrimSpace(roomID)
	roomType = strings.TrimSpace(roomType)
	if roomID == "" || roomType == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.store.GetByRoomID(ctx, roomID); err == nil {
		return nil, ErrRoomExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lookup room: %w", err)
	}

	if features == nil {
		features = []string{}
	}
	rm := &entity.Room{
		ID:       utilities.NewKSUID(),
		RoomID:   roomID,
		Type:     roomType,
		Features: features,
		Status:   entity.StatusAvailable,
	}
	if err := s.store.Create(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

// List returns all rooms.
func (s *Service) List(ctx context.Context) ([]*entity.Room, error) {
	return s.store.List(ctx)
}
