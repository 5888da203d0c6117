package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/booking"
	claimRepo "github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/claim"
	"github.com/m04kA/SMC-StadiumBooking/internal/service/expiry"
)

// UseCase use case отмены бронирования с расчетом компенсации
type UseCase struct {
	bookingRepo  BookingRepository
	facilityRepo FacilityRepository
	claimRepo    ClaimRepository
	ledger       Ledger
	expiry       Expiry
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      Metrics
	policy       domain.CancellationPolicy
	operators    domain.OperatorSet
	rules        domain.BookingRules
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	facilityRepo FacilityRepository,
	claimRepo ClaimRepository,
	ledger Ledger,
	expiry Expiry,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	policy domain.CancellationPolicy,
	operators domain.OperatorSet,
	rules domain.BookingRules,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		facilityRepo: facilityRepo,
		claimRepo:    claimRepo,
		ledger:       ledger,
		expiry:       expiry,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
		policy:       policy,
		operators:    operators,
		rules:        rules,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute отменяет бронь и выдает компенсацию по политике отмены.
// Уровень определяется только временем до начала слота.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d, actor=%d", req.BookingID, req.ActorID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var (
		result *Response
		events []domain.Event
	)

	// 2. Все изменения выполняем в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		events = events[:0]
		result = nil

		// 2.1. Блокируем бронь
		booking, err := uc.bookingRepo.GetByIDForUpdate(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}
		if booking.IsCancelled() {
			return ErrBookingNotFound
		}

		// 2.2. Проверяем права
		facility, err := uc.facilityRepo.GetByID(txCtx, booking.FacilityID)
		if err != nil {
			return fmt.Errorf("%w: failed to get facility id=%d: %w", ErrInternal, booking.FacilityID, err)
		}
		if !canCancel(booking, facility, req.ActorID, uc.operators) {
			return ErrAccessDenied
		}

		// 2.3. Завершенную бронь отменить нельзя
		if !booking.CanBeCancelled(now, uc.rules.Loc()) {
			return ErrCannotCancel
		}

		// 2.4. Неподтвержденная бронь, которая уже не держит слот, истекает
		if uc.expiry.IsStale(booking, now) {
			expired, err := uc.expiry.Expire(txCtx, booking, req.ActorID, now)
			if err != nil {
				if errors.Is(err, expiry.ErrAlreadyCancelled) {
					return ErrBookingNotFound
				}
				return fmt.Errorf("%w: failed to expire booking: %w", ErrInternal, err)
			}
			result = &Response{
				BookingID:      booking.ID,
				Status:         string(booking.Status),
				Tier:           string(expired.Outcome.Tier),
				Refund:         expired.Outcome.Refund,
				CreditRestored: expired.CreditRestored,
				CancelledAt:    now,
			}
			events = append(events, expired.Events...)
			return nil
		}

		// 2.5. Определяем уровень политики
		outcome := uc.policy.Resolve(booking, now, uc.rules.Loc())

		// 2.6. Переводим бронь в cancelled
		booking.Cancel(req.ActorID, req.Reason, now)
		if err := uc.bookingRepo.Cancel(txCtx, booking); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusMismatch) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to cancel booking: %w", ErrInternal, err)
		}

		// 2.7. Освобождаем слот
		if err := uc.claimRepo.Release(txCtx, booking.Key(), domain.ClaimBooking, booking.ID); err != nil {
			if !errors.Is(err, claimRepo.ErrClaimNotFound) {
				return fmt.Errorf("%w: failed to release slot: %w", ErrInternal, err)
			}
			uc.logger.Warn("CancelBooking: booking id=%d held no claim on %s", booking.ID, booking.Key())
		}

		result = &Response{
			BookingID:   booking.ID,
			Status:      string(booking.Status),
			Tier:        string(outcome.Tier),
			Refund:      outcome.Refund,
			CancelledAt: now,
		}
		events = append(events, domain.BookingCancelled{
			Header:      domain.NewEventHeader(now),
			BookingID:   booking.ID,
			FacilityID:  booking.FacilityID,
			UserID:      booking.UserID,
			ActorID:     req.ActorID,
			Tier:        outcome.Tier,
			Refund:      outcome.Refund,
			Reason:      req.Reason,
			CreditValue: outcome.CreditValue,
		})

		// 2.8. Выдаем компенсацию автору брони
		if outcome.IssuesCredit() {
			credit, err := uc.ledger.Issue(txCtx, booking.UserID, outcome.CreditValue, uc.policy.CreditTTL, &booking.ID)
			if err != nil {
				return fmt.Errorf("%w: failed to issue credit: %w", ErrInternal, err)
			}

			result.CompensationIssued = true
			result.Credit = &Credit{Code: credit.Code, Value: credit.Value, ExpiresAt: credit.ExpiresAt}
			events = append(events, domain.CreditIssued{
				Header:          domain.NewEventHeader(now),
				Code:            credit.Code,
				BeneficiaryID:   credit.BeneficiaryID,
				Value:           credit.Value,
				ExpiresAt:       credit.ExpiresAt,
				SourceBookingID: credit.SourceBookingID,
			})
		}

		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			uc.logger.Warn("CancelBooking: booking id=%d not found or already cancelled", req.BookingID)
		case errors.Is(err, ErrAccessDenied):
			uc.logger.Warn("CancelBooking: actor=%d denied cancelling booking id=%d", req.ActorID, req.BookingID)
		case errors.Is(err, ErrCannotCancel):
			uc.logger.Warn("CancelBooking: booking id=%d is already completed", req.BookingID)
		default:
			uc.logger.Error("CancelBooking: booking id=%d: %v", req.BookingID, err)
		}
		return nil, err
	}

	uc.metrics.IncBookingCancelled(result.Tier)
	if result.CompensationIssued {
		uc.metrics.IncCreditIssued()
	}
	uc.publisher.Publish(events...)

	uc.logger.Info("CancelBooking: booking id=%d cancelled, tier=%s, refund=%d, credit=%t, restored=%t",
		result.BookingID, result.Tier, result.Refund, result.CompensationIssued, result.CreditRestored)

	return result, nil
}
