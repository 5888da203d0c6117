package unblock_slot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	"github.com/m04kA/SMC-StadiumBooking/internal/testutil"
	"github.com/m04kA/SMC-StadiumBooking/internal/testutil/memstore"
)

const (
	ownerID    = int64(10)
	operatorID = int64(900)
)

func setup(t *testing.T) (*UseCase, *memstore.Store, domain.Facility, domain.SlotKey) {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	f := store.SeedFacility(domain.Facility{OwnerID: ownerID, Name: "Arena", OpenHour: 8, CloseHour: 22, IsActive: true})

	date := time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)
	bl, err := store.Blocks().Create(ctx, &domain.BlockedSlot{FacilityID: f.ID, SlotDate: date, StartHour: 15, EndHour: 16, CreatedBy: ownerID})
	require.NoError(t, err)
	require.NoError(t, store.Claims().Claim(ctx, domain.SlotClaim{Key: bl.Key(), OwnerKind: domain.ClaimBlock, OwnerID: bl.ID}))

	uc := NewUseCase(store.Blocks(), store.Facilities(), store.Claims(), store.TxManager(),
		domain.NewOperatorSet([]int64{operatorID}), testutil.NopLogger{})
	return uc, store, f, bl.Key()
}

func TestExecute_Success(t *testing.T) {
	uc, store, f, key := setup(t)

	err := uc.Execute(context.Background(), &Request{FacilityID: f.ID, ActorID: operatorID, Date: key.Date, Hour: key.Hour})
	require.NoError(t, err)

	_, claimed := store.Claim(key)
	assert.False(t, claimed)
	assert.Zero(t, store.Holders(key))

	err = uc.Execute(context.Background(), &Request{FacilityID: f.ID, ActorID: ownerID, Date: key.Date, Hour: key.Hour})
	assert.ErrorIs(t, err, ErrBlockNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExecute_Errors(t *testing.T) {
	uc, store, f, key := setup(t)

	err := uc.Execute(context.Background(), &Request{FacilityID: f.ID, ActorID: 6, Date: key.Date, Hour: key.Hour})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, claimed := store.Claim(key)
	assert.True(t, claimed)

	err = uc.Execute(context.Background(), &Request{FacilityID: 999, ActorID: ownerID, Date: key.Date, Hour: key.Hour})
	assert.ErrorIs(t, err, ErrFacilityNotFound)

	err = uc.Execute(context.Background(), &Request{FacilityID: f.ID, ActorID: ownerID, Date: key.Date, Hour: 24})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
