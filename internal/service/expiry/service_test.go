package expiry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	"github.com/m04kA/SMC-StadiumBooking/internal/service/ledger"
	"github.com/m04kA/SMC-StadiumBooking/internal/testutil"
	"github.com/m04kA/SMC-StadiumBooking/internal/testutil/memstore"
)

var now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc   *Service
	store *memstore.Store
	key   domain.SlotKey
}

func newFixture(t *testing.T, rules domain.BookingRules) *fixture {
	t.Helper()
	store := memstore.New()
	credits := ledger.NewService(store.Credits(), nil, testutil.NopLogger{}).WithTimeProvider(testutil.NewClock(now))
	svc := NewService(store.Bookings(), store.Claims(), credits, rules, testutil.NopLogger{})
	return &fixture{svc: svc, store: store, key: domain.NewSlotKey(1, now.AddDate(0, 0, 2), 18)}
}

// seedPending создает pending-бронь на ключ, оплаченную частично компенсацией creditValue
func (fx *fixture) seedPending(createdAt time.Time, creditValue int64) (domain.Booking, *domain.CompensationCredit) {
	b := domain.Booking{
		FacilityID: fx.key.FacilityID, UserID: 5, BookingDate: fx.key.Date, StartHour: fx.key.Hour, EndHour: fx.key.Hour + 1,
		TotalPrice: 100000, DepositPaid: 30000, RemainingAmount: 70000, Status: domain.StatusPending, CreatedAt: createdAt,
	}
	if creditValue == 0 {
		return fx.store.SeedBooking(b), nil
	}

	credit := fx.store.SeedCredit(domain.CompensationCredit{
		Code: domain.NewCreditCode(), BeneficiaryID: 5, Value: creditValue, ExpiresAt: now.AddDate(0, 0, 7),
	})
	b.CreditCode = &credit.Code
	b.CreditApplied = credit.AppliedTo(b.DepositPaid)
	seeded := fx.store.SeedBooking(b)
	if err := fx.store.Credits().MarkUsed(context.Background(), credit.Code, seeded.ID, createdAt); err != nil {
		panic(err)
	}
	return seeded, &credit
}

func eventNames(events []domain.Event) []string {
	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, e.EventName())
	}
	return names
}

func TestReclaimSlot_RestoresRedeemedCredit(t *testing.T) {
	fx := newFixture(t, domain.DefaultBookingRules())
	stale, credit := fx.seedPending(now.Add(-domain.DefaultPendingTTL-time.Minute), 20000)

	var res *Result
	err := fx.store.TxManager().Do(context.Background(), func(ctx context.Context) error {
		var err error
		res, err = fx.svc.ReclaimSlot(ctx, fx.key, now)
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, domain.TierExpired, res.Outcome.Tier)
	assert.Equal(t, int64(10000), res.Outcome.Refund)
	assert.True(t, res.CreditRestored)
	assert.Equal(t, []string{domain.EventBookingCancelled, domain.EventCreditRestored}, eventNames(res.Events))

	cancelled, ok := res.Events[0].(domain.BookingCancelled)
	require.True(t, ok)
	require.NotNil(t, cancelled.Reason)
	assert.Equal(t, domain.ReasonPendingExpired, *cancelled.Reason)
	assert.Zero(t, cancelled.ActorID)

	stored, _ := fx.store.Booking(stale.ID)
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	_, claimed := fx.store.Claim(fx.key)
	assert.False(t, claimed)

	restored, _ := fx.store.Credit(credit.Code)
	assert.False(t, restored.IsUsed)
	assert.Nil(t, restored.RedeemedBookingID)
}

func TestReclaimSlot_NothingToReclaim(t *testing.T) {
	tests := []struct {
		name  string
		rules domain.BookingRules
		seed  func(fx *fixture)
	}{
		{
			name:  "empty slot",
			rules: domain.DefaultBookingRules(),
			seed:  func(fx *fixture) {},
		},
		{
			name:  "fresh pending",
			rules: domain.DefaultBookingRules(),
			seed:  func(fx *fixture) { fx.seedPending(now.Add(-time.Minute), 0) },
		},
		{
			name:  "expiry disabled",
			rules: domain.BookingRules{Location: time.UTC},
			seed:  func(fx *fixture) { fx.seedPending(now.AddDate(0, 0, -1), 0) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t, tt.rules)
			tt.seed(fx)

			res, err := fx.svc.ReclaimSlot(context.Background(), fx.key, now)
			require.NoError(t, err)
			assert.Nil(t, res)
		})
	}
}

func TestExpire_FailedRestoreRollsBack(t *testing.T) {
	fx := newFixture(t, domain.DefaultBookingRules())
	stale, credit := fx.seedPending(now.Add(-time.Hour), 50000)
	fx.store.FailOnce("credits.Restore", errors.New("connection reset"))

	err := fx.store.TxManager().Do(context.Background(), func(ctx context.Context) error {
		b := stale
		_, err := fx.svc.Expire(ctx, &b, 5, now)
		return err
	})
	require.ErrorIs(t, err, ErrInternal)

	stored, _ := fx.store.Booking(stale.ID)
	assert.Equal(t, domain.StatusPending, stored.Status)
	used, _ := fx.store.Credit(credit.Code)
	assert.True(t, used.IsUsed)
}

func TestExpire_AlreadyCancelled(t *testing.T) {
	fx := newFixture(t, domain.DefaultBookingRules())
	stale, _ := fx.seedPending(now.Add(-time.Hour), 0)
	b := stale
	b.Cancel(5, nil, now)
	require.NoError(t, fx.store.Bookings().Cancel(context.Background(), &b))

	again := stale
	_, err := fx.svc.Expire(context.Background(), &again, 0, now)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}
