package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	"github.com/m04kA/SMC-StadiumBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-StadiumBooking/internal/testutil"
	"github.com/m04kA/SMC-StadiumBooking/internal/testutil/memstore"
	"github.com/m04kA/SMC-StadiumBooking/pkg/ptr"
)

const (
	ownerID    = int64(10)
	operatorID = int64(900)
	userID     = int64(5)
	strangerID = int64(6)
)

var now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *Service
	store    *memstore.Store
	events   *testutil.EventRecorder
	facility domain.Facility
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	events := &testutil.EventRecorder{}
	f := store.SeedFacility(domain.Facility{
		OwnerID: ownerID, Name: "Arena", PricePerHour: 100000,
		DepositType: domain.DepositFixed, DepositValue: 30000, OpenHour: 8, CloseHour: 22, IsActive: true,
	})

	svc := NewService(store.Bookings(), store.Facilities(), store.TxManager(), events,
		domain.NewOperatorSet([]int64{operatorID}), domain.DefaultBookingRules(), testutil.NopLogger{})
	svc.timeProvider = testutil.NewClock(now)

	return &fixture{svc: svc, store: store, events: events, facility: f}
}

func (fx *fixture) seed(date time.Time, hour int, status domain.BookingStatus, createdAt time.Time) domain.Booking {
	return fx.store.SeedBooking(domain.Booking{
		FacilityID: fx.facility.ID, UserID: userID, BookingDate: date, StartHour: hour, EndHour: hour + 1,
		TotalPrice: 100000, DepositPaid: 30000, RemainingAmount: 70000, Status: status, CreatedAt: createdAt,
	})
}

func TestGetByID_Access(t *testing.T) {
	fx := newFixture(t)
	b := fx.seed(now.AddDate(0, 0, 2), 10, domain.StatusPending, now)

	for _, actor := range []int64{userID, ownerID, operatorID} {
		resp, err := fx.svc.GetByID(context.Background(), b.ID, actor)
		require.NoError(t, err)
		assert.Equal(t, b.ID, resp.ID)
	}

	_, err := fx.svc.GetByID(context.Background(), b.ID, strangerID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = fx.svc.GetByID(context.Background(), 999, userID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetUserBookings_EffectiveStatus(t *testing.T) {
	fx := newFixture(t)
	past := fx.seed(now.AddDate(0, 0, -1), 10, domain.StatusConfirmed, now.AddDate(0, 0, -3))
	future := fx.seed(now.AddDate(0, 0, 1), 10, domain.StatusConfirmed, now)

	resp, err := fx.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{ActorID: userID, UserID: userID})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 2)
	assert.Equal(t, future.ID, resp.Bookings[0].ID)
	assert.Equal(t, "completed", resp.Bookings[1].Status)

	resp, err = fx.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		ActorID: userID, UserID: userID, Status: ptr.Ptr("completed"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, past.ID, resp.Bookings[0].ID)

	resp, err = fx.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		ActorID: userID, UserID: userID, Status: ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, future.ID, resp.Bookings[0].ID)
}

func TestGetUserBookings_Rejects(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{ActorID: strangerID, UserID: userID})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = fx.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		ActorID: userID, UserID: userID, Status: ptr.Ptr("no_show"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestGetFacilityBookings(t *testing.T) {
	fx := newFixture(t)
	day := now.AddDate(0, 0, 2)
	fx.seed(day, 10, domain.StatusPending, now)
	cancelled := fx.seed(day, 11, domain.StatusCancelled, now)
	fx.seed(day.AddDate(0, 0, 1), 12, domain.StatusConfirmed, now)

	start, end := domain.DateOnly(day), domain.DateOnly(day)
	resp, err := fx.svc.GetFacilityBookings(context.Background(), &models.GetFacilityBookingsRequest{
		ActorID: ownerID, FacilityID: fx.facility.ID, StartDate: &start, EndDate: &end,
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, 10, resp.Bookings[0].StartHour)

	resp, err = fx.svc.GetFacilityBookings(context.Background(), &models.GetFacilityBookingsRequest{
		ActorID: operatorID, FacilityID: fx.facility.ID, IncludeCancelled: true,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 3)
	assert.Contains(t, bookingIDs(resp), cancelled.ID)

	_, err = fx.svc.GetFacilityBookings(context.Background(), &models.GetFacilityBookingsRequest{
		ActorID: userID, FacilityID: fx.facility.ID,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = fx.svc.GetFacilityBookings(context.Background(), &models.GetFacilityBookingsRequest{
		ActorID: ownerID, FacilityID: 404,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfirm(t *testing.T) {
	fx := newFixture(t)
	b := fx.seed(now.AddDate(0, 0, 2), 10, domain.StatusPending, now.Add(-5*time.Minute))

	_, err := fx.svc.Confirm(context.Background(), b.ID, userID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	resp, err := fx.svc.Confirm(context.Background(), b.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)

	stored, _ := fx.store.Booking(b.ID)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)
	assert.Equal(t, []string{domain.EventBookingConfirmed}, fx.events.Names())

	_, err = fx.svc.Confirm(context.Background(), b.ID, ownerID)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestConfirm_StalePending(t *testing.T) {
	fx := newFixture(t)
	b := fx.seed(now.AddDate(0, 0, 2), 10, domain.StatusPending, now.Add(-time.Hour))

	_, err := fx.svc.Confirm(context.Background(), b.ID, ownerID)

	assert.ErrorIs(t, err, ErrCannotConfirm)
	assert.Empty(t, fx.events.Names())
}

func bookingIDs(resp *models.BookingListResponse) []int64 {
	ids := make([]int64, 0, len(resp.Bookings))
	for _, b := range resp.Bookings {
		ids = append(ids, b.ID)
	}
	return ids
}
