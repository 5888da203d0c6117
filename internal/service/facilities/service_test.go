package facilities

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	"github.com/m04kA/SMC-StadiumBooking/internal/service/facilities/models"
	"github.com/m04kA/SMC-StadiumBooking/internal/testutil"
	"github.com/m04kA/SMC-StadiumBooking/internal/testutil/memstore"
	"github.com/m04kA/SMC-StadiumBooking/pkg/ptr"
)

func newService(t *testing.T) (*Service, domain.Facility) {
	t.Helper()
	store := memstore.New()
	f := store.SeedFacility(domain.Facility{
		OwnerID: 10, Name: "Arena", PricePerHour: 100000,
		DepositType: domain.DepositPercent, DepositValue: 30, OpenHour: 8, CloseHour: 22, IsActive: true,
	})
	s := NewService(store.Facilities(), testutil.NopLogger{})
	s.timeProvider = testutil.NewClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	return s, f
}

func TestGet(t *testing.T) {
	s, f := newService(t)

	resp, err := s.Get(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), resp.DepositAmount)

	_, err = s.Get(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate(t *testing.T) {
	s, f := newService(t)

	resp, err := s.Update(context.Background(), f.ID, &models.UpdateFacilityRequest{
		UserID:       10,
		PricePerHour: ptr.Ptr(int64(200000)),
		CloseHour:    ptr.Ptr(23),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(60000), resp.DepositAmount)
	assert.Equal(t, 23, resp.CloseHour)

	got, err := s.Get(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(200000), got.PricePerHour)
}

func TestUpdate_Rejects(t *testing.T) {
	s, f := newService(t)

	_, err := s.Update(context.Background(), f.ID, &models.UpdateFacilityRequest{UserID: 11, Name: ptr.Ptr("Mine")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = s.Update(context.Background(), f.ID, &models.UpdateFacilityRequest{
		UserID:       10,
		DepositType:  ptr.Ptr("fixed"),
		DepositValue: ptr.Ptr(int64(100001)),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	got, err := s.Get(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Equal(t, "percent", got.DepositType, "rejected update must not be stored")
}
