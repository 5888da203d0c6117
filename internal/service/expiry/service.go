package expiry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/booking"
	claimRepo "github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/claim"
	"github.com/m04kA/SMC-StadiumBooking/internal/service/ledger"
)

// Service истечение неподтвержденных броней.
// Все методы работают в транзакции вызывающего: бронь отменяется, слот освобождается
// и погашенная компенсация возвращается атомарно с основной операцией.
type Service struct {
	bookingRepo BookingRepository
	claimRepo   ClaimRepository
	ledger      Ledger
	pendingTTL  time.Duration
	logger      Logger
}

// NewService создает новый экземпляр сервиса
func NewService(bookingRepo BookingRepository, claimRepo ClaimRepository, ledger Ledger, rules domain.BookingRules, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		claimRepo:   claimRepo,
		ledger:      ledger,
		pendingTTL:  rules.PendingTTL,
		logger:      logger,
	}
}

// Result итог истечения брони
type Result struct {
	Booking        *domain.Booking
	Outcome        domain.CancellationOutcome
	CreditRestored bool
	Events         []domain.Event // публикуются вызывающим после коммита
}

// IsStale returns true if b no longer holds its slot because it was never confirmed
func (s *Service) IsStale(b *domain.Booking, now time.Time) bool {
	return b.IsStalePending(now, s.pendingTTL)
}

// ReclaimSlot истекает устаревшую pending-бронь, удерживающую key
// Возвращает nil, если такой брони нет
func (s *Service) ReclaimSlot(ctx context.Context, key domain.SlotKey, now time.Time) (*Result, error) {
	if s.pendingTTL <= 0 {
		return nil, nil
	}

	booking, err := s.bookingRepo.GetStalePendingForUpdate(ctx, key, now.Add(-s.pendingTTL))
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: ReclaimSlot - failed to get stale booking on %s: %w", ErrInternal, key, err)
	}

	return s.Expire(ctx, booking, 0, now)
}

// Expire отменяет pending-бронь с исходом TierExpired
// actorID 0 = отмена системой при повторном занятии слота
func (s *Service) Expire(ctx context.Context, booking *domain.Booking, actorID int64, now time.Time) (*Result, error) {
	outcome := booking.Expire(actorID, now)

	if err := s.bookingRepo.Cancel(ctx, booking); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusMismatch) {
			return nil, ErrAlreadyCancelled
		}
		return nil, fmt.Errorf("%w: Expire - failed to cancel booking id=%d: %w", ErrInternal, booking.ID, err)
	}

	if err := s.claimRepo.Release(ctx, booking.Key(), domain.ClaimBooking, booking.ID); err != nil {
		if !errors.Is(err, claimRepo.ErrClaimNotFound) {
			return nil, fmt.Errorf("%w: Expire - failed to release claim on %s: %w", ErrInternal, booking.Key(), err)
		}
		s.logger.Warn("Expire: booking id=%d held no claim on %s", booking.ID, booking.Key())
	}

	res := &Result{Booking: booking, Outcome: outcome}
	res.Events = append(res.Events, domain.BookingCancelled{
		Header:     domain.NewEventHeader(now),
		BookingID:  booking.ID,
		FacilityID: booking.FacilityID,
		UserID:     booking.UserID,
		ActorID:    actorID,
		Tier:       outcome.Tier,
		Refund:     outcome.Refund,
		Reason:     booking.CancellationReason,
	})

	if booking.HasRedeemedCredit() {
		err := s.ledger.Restore(ctx, *booking.CreditCode, booking.ID)
		switch {
		case err == nil:
			res.CreditRestored = true
			res.Events = append(res.Events, domain.CreditRestored{
				Header:        domain.NewEventHeader(now),
				Code:          *booking.CreditCode,
				BeneficiaryID: booking.UserID,
				BookingID:     booking.ID,
				Value:         booking.CreditApplied,
			})
		case errors.Is(err, ledger.ErrNotRedeemed):
			s.logger.Warn("Expire: credit of booking id=%d is not linked to it", booking.ID)
		default:
			return nil, fmt.Errorf("%w: Expire - failed to restore credit of booking id=%d: %w", ErrInternal, booking.ID, err)
		}
	}

	s.logger.Info("Expire: booking id=%d on %s expired, refund=%d, credit restored=%t",
		booking.ID, booking.Key(), outcome.Refund, res.CreditRestored)
	return res, nil
}
