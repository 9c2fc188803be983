package service

import (
	"context"
	"testing"
	"time"

	bookingdomain "github.com/DuongHuynhTrung/CamCrew/internal/booking/domain"
	"github.com/DuongHuynhTrung/CamCrew/internal/catalog/domain"
	"github.com/DuongHuynhTrung/CamCrew/internal/catalog/repository"
	"github.com/DuongHuynhTrung/CamCrew/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type catalogEnv struct {
	db   *gorm.DB
	node *snowflake.Node
	svc  domain.Catalog
}

func newCatalogEnv(t *testing.T) *catalogEnv {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Service{}, &bookingdomain.Booking{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:   conn,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})

	return &catalogEnv{db: conn, node: node, svc: svc}
}

func (e *catalogEnv) seedService(t *testing.T, cameramanID snowflake.ID, day time.Time, slots ...string) domain.Service {
	t.Helper()
	item := domain.Service{
		ID:          e.node.Generate(),
		CameramanID: cameramanID,
		Title:       "Chụp ảnh cưới",
		Amount:      500_000,
		DateGetJob:  day,
		TimeOfDay:   datatypes.NewJSONSlice(slots),
		Status:      domain.StatusApproved,
		CreatedAt:   day,
		UpdatedAt:   day,
	}
	require.NoError(t, e.db.Create(&item).Error)
	return item
}

func (e *catalogEnv) seedBooking(t *testing.T, cameramanID snowflake.ID, day time.Time, slot, status string) {
	t.Helper()
	booking := bookingdomain.Booking{
		ID:            e.node.Generate(),
		CustomerID:    e.node.Generate(),
		CameramanID:   cameramanID,
		ServiceID:     e.node.Generate(),
		ScheduledDate: day,
		TimeOfDay:     slot,
		Amount:        500_000,
		Status:        status,
		CreatedAt:     day,
		UpdatedAt:     day,
	}
	require.NoError(t, e.db.Create(&booking).Error)
}

func TestFreeSlots_AllOfferedWhenNothingHeld(t *testing.T) {
	env := newCatalogEnv(t)
	day := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	cameramanID := env.node.Generate()
	item := env.seedService(t, cameramanID, day, domain.SlotMorning, domain.SlotEvening)

	slots, err := env.svc.FreeSlots(context.Background(), domain.FreeSlotsRequest{
		ServiceID: item.ID.String(),
		Date:      "2026-09-12",
	})
	require.NoError(t, err)
	require.Equal(t, []string{domain.SlotMorning, domain.SlotEvening}, slots)
}

func TestFreeSlots_ExcludesActiveBookings(t *testing.T) {
	env := newCatalogEnv(t)
	day := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	cameramanID := env.node.Generate()
	item := env.seedService(t, cameramanID, day,
		domain.SlotMorning, domain.SlotAfternoon, domain.SlotEvening)

	env.seedBooking(t, cameramanID, day, domain.SlotMorning, bookingdomain.StatusPaying)
	env.seedBooking(t, cameramanID, day, domain.SlotAfternoon, bookingdomain.StatusRequested)
	// Released and finished bookings do not hold slots.
	env.seedBooking(t, cameramanID, day, domain.SlotEvening, bookingdomain.StatusPayCancelled)

	slots, err := env.svc.FreeSlots(context.Background(), domain.FreeSlotsRequest{
		ServiceID: item.ID.String(),
		Date:      "2026-09-12",
	})
	require.NoError(t, err)
	require.Equal(t, []string{domain.SlotEvening}, slots)
}

func TestFreeSlots_DayMismatchIsEmptyNotError(t *testing.T) {
	env := newCatalogEnv(t)
	day := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	item := env.seedService(t, env.node.Generate(), day, domain.SlotMorning)

	slots, err := env.svc.FreeSlots(context.Background(), domain.FreeSlotsRequest{
		ServiceID: item.ID.String(),
		Date:      "2026-09-13",
	})
	require.NoError(t, err)
	require.NotNil(t, slots)
	require.Empty(t, slots)
}

func TestFreeSlots_UnknownService(t *testing.T) {
	env := newCatalogEnv(t)

	_, err := env.svc.FreeSlots(context.Background(), domain.FreeSlotsRequest{
		ServiceID: env.node.Generate().String(),
		Date:      "2026-09-12",
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFreeSlots_InvalidInput(t *testing.T) {
	env := newCatalogEnv(t)

	_, err := env.svc.FreeSlots(context.Background(), domain.FreeSlotsRequest{
		ServiceID: "not-a-number",
		Date:      "2026-09-12",
	})
	require.ErrorIs(t, err, domain.ErrInvalidID)

	item := env.seedService(t, env.node.Generate(),
		time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC), domain.SlotMorning)

	_, err = env.svc.FreeSlots(context.Background(), domain.FreeSlotsRequest{
		ServiceID: item.ID.String(),
		Date:      "12/09/2026",
	})
	require.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestGetByID(t *testing.T) {
	env := newCatalogEnv(t)
	item := env.seedService(t, env.node.Generate(),
		time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC), domain.SlotMorning)

	got, err := env.svc.GetByID(context.Background(), domain.GetServiceRequest{ID: item.ID.String()})
	require.NoError(t, err)
	require.Equal(t, item.ID, got.ID)
	require.Equal(t, item.Title, got.Title)

	_, err = env.svc.GetByID(context.Background(), domain.GetServiceRequest{ID: env.node.Generate().String()})
	require.ErrorIs(t, err, domain.ErrNotFound)
}
