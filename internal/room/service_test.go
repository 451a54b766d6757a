package room_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay7733/roomgate/internal/room"
	"github.com/vijay7733/roomgate/internal/room/entity"
)

// fakeStore keeps rooms in memory, keyed by room_id.
type fakeStore struct {
	rooms map[string]*entity.Room
}

func newFakeStore() *fakeStore {
	return &fakeStore{rooms: map[string]*entity.Room{}}
}

func (f *fakeStore) Create(_ context.Context, rm *entity.Room) error {
	f.rooms[rm.RoomID] = rm
	return nil
}

func (f *fakeStore) GetByRoomID(_ context.Context, roomID string) (*entity.Room, error) {
	rm, ok := f.rooms[roomID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return rm, nil
}

func (f *fakeStore) List(_ context.Context) ([]*entity.Room, error) {
	out := make([]*entity.Room, 0, len(f.rooms))
	for _, rm := range f.rooms {
		out = append(out, rm)
	}
	return out, nil
}

func TestCreateRoom(t *testing.T) {
	store := newFakeStore()
	svc := room.NewService(store)

	rm, err := svc.Create(context.Background(), "R101", "Standard", []string{"Wi-Fi", "AC"})
	require.NoError(t, err)

	assert.NotEmpty(t, rm.ID)
	assert.Equal(t, "R101", rm.RoomID)
	assert.Equal(t, "Standard", rm.Type)
	assert.Equal(t, []string{"Wi-Fi", "AC"}, []string(rm.Features))
	// new rooms always start available regardless of caller input
	assert.Equal(t, entity.StatusAvailable, rm.Status)

	stored, err := store.GetByRoomID(context.Background(), "R101")
	require.NoError(t, err)
	assert.Equal(t, rm, stored)
}

func TestCreateRoomNilFeatures(t *testing.T) {
	svc := room.NewService(newFakeStore())

	rm, err := svc.Create(context.Background(), "R102", "Deluxe", nil)
	require.NoError(t, err)
	assert.NotNil(t, rm.Features)
	assert.Empty(t, rm.Features)
}

func TestCreateRoomDuplicate(t *testing.T) {
	store := newFakeStore()
	svc := room.NewService(store)

	_, err := svc.Create(context.Background(), "R101", "Standard", nil)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "R101", "Deluxe", nil)
	assert.ErrorIs(t, err, room.ErrRoomExists)
	require.Len(t, store.rooms, 1)
	assert.Equal(t, "Standard", store.rooms["R101"].Type)
}

func TestCreateRoomMissingFields(t *testing.T) {
	svc := room.NewService(newFakeStore())

	cases := map[string]struct{ roomID, roomType string }{
		"empty room_id":    {"", "Standard"},
		"empty type":       {"R101", ""},
		"whitespace only":  {"  ", "Standard"},
		"both missing":     {"", ""},
		"whitespace type":  {"R101", "\t"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.roomID, tc.roomType, nil)
			assert.ErrorIs(t, err, room.ErrMissingFields)
		})
	}
}

func TestListRooms(t *testing.T) {
	store := newFakeStore()
	svc := room.NewService(store)

	_, err := svc.Create(context.Background(), "R101", "Standard", nil)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "R102", "Deluxe", nil)
	require.NoError(t, err)

	rooms, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, rooms, 2)
}
