package create_booking

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	"github.com/m04kA/SMC-StadiumBooking/internal/service/expiry"
	"github.com/m04kA/SMC-StadiumBooking/internal/service/ledger"
	"github.com/m04kA/SMC-StadiumBooking/internal/testutil"
	"github.com/m04kA/SMC-StadiumBooking/internal/testutil/memstore"
	"github.com/m04kA/SMC-StadiumBooking/pkg/ptr"
)

const userID = int64(5)

var now = time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC)

type fixture struct {
	uc       *UseCase
	store    *memstore.Store
	events   *testutil.EventRecorder
	metrics  *testutil.MetricsRecorder
	facility domain.Facility
	date     time.Time
}

func newFixture(t *testing.T, rules domain.BookingRules) *fixture {
	t.Helper()
	store := memstore.New()
	events := &testutil.EventRecorder{}
	metrics := &testutil.MetricsRecorder{}
	clock := testutil.NewClock(now)

	f := store.SeedFacility(domain.Facility{
		OwnerID: 1, Name: "Arena", PricePerHour: 100000,
		DepositType: domain.DepositFixed, DepositValue: 30000, OpenHour: 8, CloseHour: 22, IsActive: true,
	})

	credits := ledger.NewService(store.Credits(), nil, testutil.NopLogger{}).WithTimeProvider(clock)
	expirer := expiry.NewService(store.Bookings(), store.Claims(), credits, rules, testutil.NopLogger{})
	uc := NewUseCase(store.Bookings(), store.Facilities(), store.Claims(), credits, expirer, store.TxManager(),
		events, metrics, rules, testutil.NopLogger{})
	uc.timeProvider = clock

	return &fixture{
		uc: uc, store: store, events: events, metrics: metrics, facility: f,
		date: domain.DateOnly(now.AddDate(0, 0, 3)),
	}
}

func (fx *fixture) request(hour int) *Request {
	return &Request{UserID: userID, FacilityID: fx.facility.ID, Date: fx.date, StartHour: hour}
}

func (fx *fixture) seedCredit(owner, value int64, expiresAt time.Time, used bool) domain.CompensationCredit {
	return fx.store.SeedCredit(domain.CompensationCredit{
		Code: domain.NewCreditCode(), BeneficiaryID: owner, Value: value,
		IsUsed: used, ExpiresAt: expiresAt, CreatedAt: now.AddDate(0, 0, -1),
	})
}

func TestExecute_Success(t *testing.T) {
	fx := newFixture(t, domain.DefaultBookingRules())

	resp, err := fx.uc.Execute(context.Background(), fx.request(18))
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, 18, resp.StartHour)
	assert.Equal(t, 19, resp.EndHour)
	assert.Equal(t, int64(100000), resp.TotalPrice)
	assert.Equal(t, int64(30000), resp.DepositPaid)
	assert.Equal(t, int64(30000), resp.AmountDue)
	assert.Equal(t, int64(70000), resp.RemainingAmount)
	assert.Zero(t, resp.CreditApplied)
	assert.Nil(t, resp.CreditCode)

	key := domain.NewSlotKey(fx.facility.ID, fx.date, 18)
	claim, ok := fx.store.Claim(key)
	require.True(t, ok)
	assert.Equal(t, domain.ClaimBooking, claim.OwnerKind)
	assert.Equal(t, resp.ID, claim.OwnerID)

	assert.Equal(t, []string{domain.EventBookingCreated}, fx.events.Names())
	assert.Equal(t, 1, fx.metrics.Snapshot().Created)
}

func TestExecute_PercentDeposit(t *testing.T) {
	fx := newFixture(t, domain.DefaultBookingRules())
	f := fx.facility
	f.DepositType = domain.DepositPercent
	f.DepositValue = 25
	f.PricePerHour = 99999
	require.NoError(t, fx.store.Facilities().Update(context.Background(), &f))

	resp, err := fx.uc.Execute(context.Background(), fx.request(9))
	require.NoError(t, err)
	assert.Equal(t, int64(24999), resp.DepositPaid)
	assert.Equal(t, int64(75000), resp.RemainingAmount)
}

func TestExecute_WithCredit(t *testing.T) {
	tests := []struct {
		name        string
		value       int64
		wantApplied int64
	}{
		{name: "partial coverage", value: 20000, wantApplied: 20000},
		{name: "credit exceeds deposit", value: 50000, wantApplied: 30000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t, domain.DefaultBookingRules())
			credit := fx.seedCredit(userID, tt.value, now.AddDate(0, 0, 7), false)

			req := fx.request(18)
			req.CreditCode = ptr.Ptr(credit.Code)
			resp, err := fx.uc.Execute(context.Background(), req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantApplied, resp.CreditApplied)
			assert.Equal(t, int64(30000)-tt.wantApplied, resp.AmountDue)
			assert.Equal(t, int64(30000), resp.DepositPaid)
			require.NotNil(t, resp.CreditCode)
			assert.Equal(t, credit.Code, *resp.CreditCode)

			stored, ok := fx.store.Credit(credit.Code)
			require.True(t, ok)
			assert.True(t, stored.IsUsed)
			require.NotNil(t, stored.RedeemedBookingID)
			assert.Equal(t, resp.ID, *stored.RedeemedBookingID)

			assert.Equal(t, []string{domain.EventBookingCreated, domain.EventCreditRedeemed}, fx.events.Names())
			assert.Equal(t, 1, fx.metrics.Snapshot().Redeemed)
		})
	}
}

func TestExecute_InvalidCredit(t *testing.T) {
	tests := []struct {
		name    string
		seed    func(fx *fixture) string
		wantErr error
	}{
		{
			name:    "unknown code",
			seed:    func(fx *fixture) string { return "no-such-code" },
			wantErr: ledger.ErrCodeNotFound,
		},
		{
			name: "another user's credit",
			seed: func(fx *fixture) string {
				return fx.seedCredit(userID+1, 10000, now.AddDate(0, 0, 7), false).Code
			},
			wantErr: domain.ErrCreditNotOwned,
		},
		{
			name: "already used",
			seed: func(fx *fixture) string {
				return fx.seedCredit(userID, 10000, now.AddDate(0, 0, 7), true).Code
			},
			wantErr: domain.ErrCreditUsed,
		},
		{
			name: "expired",
			seed: func(fx *fixture) string {
				return fx.seedCredit(userID, 10000, now, false).Code
			},
			wantErr: domain.ErrCreditExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t, domain.DefaultBookingRules())
			code := tt.seed(fx)

			req := fx.request(18)
			req.CreditCode = ptr.Ptr(code)
			resp, err := fx.uc.Execute(context.Background(), req)
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrInvalidCode)

			assert.Zero(t, fx.store.Holders(domain.NewSlotKey(fx.facility.ID, fx.date, 18)))
			assert.Empty(t, fx.events.Names())
		})
	}
}

func TestExecute_ConcurrentAdmission(t *testing.T) {
	fx := newFixture(t, domain.DefaultBookingRules())
	const attempts = 20

	var (
		admitted  atomic.Int32
		conflicts atomic.Int32
	)

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < attempts; i++ {
		uid := int64(100 + i)
		g.Go(func() error {
			_, err := fx.uc.Execute(ctx, &Request{UserID: uid, FacilityID: fx.facility.ID, Date: fx.date, StartHour: 20})
			switch {
			case err == nil:
				admitted.Add(1)
			case errors.Is(err, domain.ErrSlotConflict):
				conflicts.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), admitted.Load())
	assert.Equal(t, int32(attempts-1), conflicts.Load())
	assert.Equal(t, 1, fx.store.Holders(domain.NewSlotKey(fx.facility.ID, fx.date, 20)))

	snapshot := fx.metrics.Snapshot()
	assert.Equal(t, 1, snapshot.Created)
	assert.Equal(t, attempts-1, snapshot.Conflicts)
	assert.Len(t, fx.events.Names(), 1)
}

func TestExecute_ForcedRollbackKeepsCreditUnused(t *testing.T) {
	for _, op := range []string{"claims.Claim", "credits.MarkUsed", "tx.Commit"} {
		t.Run(op, func(t *testing.T) {
			fx := newFixture(t, domain.DefaultBookingRules())
			credit := fx.seedCredit(userID, 10000, now.AddDate(0, 0, 7), false)
			fx.store.FailOnce(op, errors.New("connection reset"))

			req := fx.request(18)
			req.CreditCode = ptr.Ptr(credit.Code)
			_, err := fx.uc.Execute(context.Background(), req)
			require.Error(t, err)

			stored, ok := fx.store.Credit(credit.Code)
			require.True(t, ok)
			assert.False(t, stored.IsUsed)
			assert.Nil(t, stored.RedeemedBookingID)

			key := domain.NewSlotKey(fx.facility.ID, fx.date, 18)
			assert.Zero(t, fx.store.Holders(key))
			_, claimed := fx.store.Claim(key)
			assert.False(t, claimed)
			assert.Empty(t, fx.events.Names())

			// после отката тот же запрос проходит
			resp, err := fx.uc.Execute(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, int64(10000), resp.CreditApplied)
		})
	}
}

func TestExecute_StalePendingIsReplaced(t *testing.T) {
	fx := newFixture(t, domain.DefaultBookingRules())
	stale := fx.store.SeedBooking(domain.Booking{
		FacilityID: fx.facility.ID, UserID: 42, BookingDate: fx.date, StartHour: 18, EndHour: 19,
		Status: domain.StatusPending, CreatedAt: now.Add(-domain.DefaultPendingTTL - time.Minute),
	})

	resp, err := fx.uc.Execute(context.Background(), fx.request(18))
	require.NoError(t, err)

	old, ok := fx.store.Booking(stale.ID)
	require.True(t, ok)
	assert.Equal(t, domain.StatusCancelled, old.Status)
	require.NotNil(t, old.CancellationReason)
	assert.Equal(t, domain.ReasonPendingExpired, *old.CancellationReason)

	claim, ok := fx.store.Claim(domain.NewSlotKey(fx.facility.ID, fx.date, 18))
	require.True(t, ok)
	assert.Equal(t, resp.ID, claim.OwnerID)

	assert.Equal(t, []string{domain.EventBookingCancelled, domain.EventBookingCreated}, fx.events.Names())
	assert.Equal(t, 1, fx.metrics.Snapshot().Cancelled[string(domain.TierExpired)])
}

func TestExecute_StaleCreditFundedPendingReturnsCredit(t *testing.T) {
	fx := newFixture(t, domain.DefaultBookingRules())
	clock := testutil.NewClock(now)
	fx.uc.timeProvider = clock
	credit := fx.seedCredit(userID, 30000, now.AddDate(0, 0, 7), false)

	req := fx.request(18)
	req.CreditCode = ptr.Ptr(credit.Code)
	first, err := fx.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, int64(30000), first.CreditApplied)

	// бронь не подтвердили, слот занимает другой пользователь
	clock.Advance(domain.DefaultPendingTTL + time.Minute)
	second, err := fx.uc.Execute(context.Background(), &Request{
		UserID: 77, FacilityID: fx.facility.ID, Date: fx.date, StartHour: 18,
	})
	require.NoError(t, err)

	old, ok := fx.store.Booking(first.ID)
	require.True(t, ok)
	assert.Equal(t, domain.StatusCancelled, old.Status)
	assert.Equal(t, domain.ReasonPendingExpired, *old.CancellationReason)

	restored, ok := fx.store.Credit(credit.Code)
	require.True(t, ok)
	assert.False(t, restored.IsUsed)
	assert.Nil(t, restored.RedeemedBookingID)
	assert.Len(t, fx.store.CreditsOf(userID), 1)

	claim, ok := fx.store.Claim(domain.NewSlotKey(fx.facility.ID, fx.date, 18))
	require.True(t, ok)
	assert.Equal(t, second.ID, claim.OwnerID)

	assert.Equal(t, []string{
		domain.EventBookingCreated, domain.EventCreditRedeemed,
		domain.EventBookingCancelled, domain.EventCreditRestored, domain.EventBookingCreated,
	}, fx.events.Names())

	var cancelled domain.BookingCancelled
	for _, e := range fx.events.Events() {
		if c, ok := e.(domain.BookingCancelled); ok {
			cancelled = c
		}
	}
	assert.Equal(t, first.ID, cancelled.BookingID)
	assert.Equal(t, domain.TierExpired, cancelled.Tier)
	assert.Zero(t, cancelled.Refund)

	// возвращенный код снова можно применить на другой час
	again := fx.request(20)
	again.CreditCode = ptr.Ptr(credit.Code)
	resp, err := fx.uc.Execute(context.Background(), again)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), resp.CreditApplied)
}

func TestExecute_Conflicts(t *testing.T) {
	tests := []struct {
		name string
		seed func(fx *fixture)
	}{
		{
			name: "fresh pending booking",
			seed: func(fx *fixture) {
				fx.store.SeedBooking(domain.Booking{
					FacilityID: fx.facility.ID, UserID: 42, BookingDate: fx.date, StartHour: 18, EndHour: 19,
					Status: domain.StatusPending, CreatedAt: now.Add(-time.Minute),
				})
			},
		},
		{
			name: "confirmed booking",
			seed: func(fx *fixture) {
				fx.store.SeedBooking(domain.Booking{
					FacilityID: fx.facility.ID, UserID: 42, BookingDate: fx.date, StartHour: 18, EndHour: 19,
					Status: domain.StatusConfirmed, CreatedAt: now.AddDate(0, 0, -1),
				})
			},
		},
		{
			name: "blocked slot",
			seed: func(fx *fixture) {
				ctx := context.Background()
				bl, err := fx.store.Blocks().Create(ctx, &domain.BlockedSlot{
					FacilityID: fx.facility.ID, SlotDate: fx.date, StartHour: 18, EndHour: 19, CreatedBy: 1,
				})
				require.NoError(t, err)
				require.NoError(t, fx.store.Claims().Claim(ctx, domain.SlotClaim{
					Key: bl.Key(), OwnerKind: domain.ClaimBlock, OwnerID: bl.ID,
				}))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t, domain.DefaultBookingRules())
			tt.seed(fx)

			_, err := fx.uc.Execute(context.Background(), fx.request(18))
			assert.ErrorIs(t, err, ErrSlotNotAvailable)
			assert.ErrorIs(t, err, domain.ErrSlotConflict)
			assert.Equal(t, 1, fx.metrics.Snapshot().Conflicts)
		})
	}
}

func TestExecute_CancelledBookingFreesSlot(t *testing.T) {
	fx := newFixture(t, domain.DefaultBookingRules())
	fx.store.SeedBooking(domain.Booking{
		FacilityID: fx.facility.ID, UserID: 42, BookingDate: fx.date, StartHour: 18, EndHour: 19,
		Status: domain.StatusCancelled, CreatedAt: now.AddDate(0, 0, -1),
	})

	_, err := fx.uc.Execute(context.Background(), fx.request(18))
	assert.NoError(t, err)
}

func TestExecute_Validation(t *testing.T) {
	today := domain.DateOnly(now)
	limited := domain.BookingRules{Location: time.UTC, AdvanceBookingDays: 7, PendingTTL: domain.DefaultPendingTTL}

	tests := []struct {
		name    string
		rules   domain.BookingRules
		mutate  func(fx *fixture, req *Request)
		wantErr error
		wantIs  error
	}{
		{
			name:    "invalid user",
			mutate:  func(fx *fixture, req *Request) { req.UserID = 0 },
			wantErr: ErrInvalidInput,
			wantIs:  domain.ErrInvalidRequest,
		},
		{
			name:    "hour out of range",
			mutate:  func(fx *fixture, req *Request) { req.StartHour = 24 },
			wantErr: ErrInvalidInput,
			wantIs:  domain.ErrInvalidRequest,
		},
		{
			name:    "blank credit code",
			mutate:  func(fx *fixture, req *Request) { req.CreditCode = ptr.Ptr("  ") },
			wantErr: ErrInvalidInput,
			wantIs:  domain.ErrInvalidRequest,
		},
		{
			name:    "outside operating hours",
			mutate:  func(fx *fixture, req *Request) { req.StartHour = 6 },
			wantErr: ErrInvalidTimeSlot,
			wantIs:  domain.ErrInvalidRequest,
		},
		{
			name:    "slot already started",
			mutate:  func(fx *fixture, req *Request) { req.Date = today; req.StartHour = 10 },
			wantErr: ErrTooLateToBook,
			wantIs:  domain.ErrInvalidRequest,
		},
		{
			name:    "past date",
			mutate:  func(fx *fixture, req *Request) { req.Date = today.AddDate(0, 0, -1) },
			wantErr: ErrInvalidDate,
			wantIs:  domain.ErrInvalidRequest,
		},
		{
			name:    "beyond advance booking limit",
			rules:   limited,
			mutate:  func(fx *fixture, req *Request) { req.Date = today.AddDate(0, 0, 8) },
			wantErr: ErrDateTooFarInFuture,
			wantIs:  domain.ErrInvalidRequest,
		},
		{
			name:    "unknown facility",
			mutate:  func(fx *fixture, req *Request) { req.FacilityID = 999 },
			wantErr: ErrFacilityNotFound,
			wantIs:  domain.ErrNotFound,
		},
		{
			name: "inactive facility",
			mutate: func(fx *fixture, req *Request) {
				f := fx.facility
				f.IsActive = false
				require.NoError(t, fx.store.Facilities().Update(context.Background(), &f))
			},
			wantErr: ErrFacilityNotFound,
			wantIs:  domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := tt.rules
			if rules.Location == nil {
				rules = domain.DefaultBookingRules()
			}
			fx := newFixture(t, rules)
			req := fx.request(18)
			tt.mutate(fx, req)

			resp, err := fx.uc.Execute(context.Background(), req)
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, tt.wantIs)
			assert.Empty(t, fx.events.Names())
		})
	}
}

func TestExecute_TodayUpcomingHour(t *testing.T) {
	fx := newFixture(t, domain.DefaultBookingRules())
	req := fx.request(11)
	req.Date = domain.DateOnly(now)

	_, err := fx.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}
