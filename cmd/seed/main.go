// Command seed resets the database and loads bootstrap data: one active
// admin, sample rooms, and one invited (not yet registered) manager.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	auditrepo "github.com/vijay7733/roomgate/internal/audit/repo"
	"github.com/vijay7733/roomgate/internal/credential"
	identityent "github.com/vijay7733/roomgate/internal/identity/entity"
	identityrepo "github.com/vijay7733/roomgate/internal/identity/repo"
	rooment "github.com/vijay7733/roomgate/internal/room/entity"
	roomrepo "github.com/vijay7733/roomgate/internal/room/repo"
	"github.com/vijay7733/roomgate/pkg/database"
	"github.com/vijay7733/roomgate/pkg/utilities"
)

func main() {
	_ = godotenv.Load()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()
	sugar := lg.Sugar()

	sqlDB, err := database.Connect(database.ConfigFromEnv())
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer sqlDB.Close()
	db := sqlx.NewDb(sqlDB, "postgres")

	ctx := context.Background()

	identities := identityrepo.NewIdentityRepo(db)
	rooms := roomrepo.NewRoomRepo(db)
	logs := auditrepo.NewLogRepo(db)

	for _, ensure := range []func(context.Context) error{
		identities.EnsureTable, rooms.EnsureTable, logs.EnsureTable,
	} {
		if err := ensure(ctx); err != nil {
			sugar.Fatalf("ensure tables: %v", err)
		}
	}

	if _, err := db.ExecContext(ctx, `TRUNCATE identities, rooms, access_logs`); err != nil {
		sugar.Fatalf("clear existing data: %v", err)
	}
	sugar.Info("cleared existing data")

	hasher := credential.BcryptHasher{Cost: credential.DefaultCost}
	adminPIN, err := hasher.Hash("1234")
	if err != nil {
		sugar.Fatalf("hash admin pin: %v", err)
	}

	admin := &identityent.Identity{
		ID:            utilities.NewKSUID(),
		Role:          identityent.RoleAdmin,
		Name:          "Hotel Administrator",
		Email:         "admin@hotel.com",
		PINHash:       adminPIN,
		Status:        identityent.StatusActive,
		AssignedRooms: []string{},
	}
	if err := identities.Create(ctx, admin); err != nil {
		sugar.Fatalf("create admin: %v", err)
	}
	sugar.Infow("created admin", "email", admin.Email, "pin", "1234")

	for _, rm := range []*rooment.Room{
		{RoomID: "R101", Type: "Standard", Features: []string{"Wi-Fi", "AC", "TV"}},
		{RoomID: "R102", Type: "Deluxe", Features: []string{"Wi-Fi", "AC", "TV", "Mini Bar"}},
		{RoomID: "R201", Type: "Suite", Features: []string{"Wi-Fi", "AC", "TV", "Mini Bar", "Balcony"}},
		{RoomID: "R202", Type: "Presidential", Features: []string{"Wi-Fi", "AC", "TV", "Mini Bar", "Balcony", "Jacuzzi"}},
	} {
		rm.ID = utilities.NewKSUID()
		rm.Status = rooment.StatusAvailable
		if err := rooms.Create(ctx, rm); err != nil {
			sugar.Fatalf("create room %s: %v", rm.RoomID, err)
		}
	}
	sugar.Info("created sample rooms")

	invitedBy := admin.Email
	manager := &identityent.Identity{
		ID:            utilities.NewKSUID(),
		Role:          identityent.RoleManager,
		Name:          "John Manager",
		Email:         "manager@hotel.com",
		Status:        identityent.StatusInactive,
		AssignedRooms: []string{"R101", "R102"},
		InvitedBy:     &invitedBy,
	}
	if err := identities.Create(ctx, manager); err != nil {
		sugar.Fatalf("create manager: %v", err)
	}
	sugar.Infow("created invited manager", "email", manager.Email, "rooms", manager.AssignedRooms)

	sugar.Info("seed complete")
}
