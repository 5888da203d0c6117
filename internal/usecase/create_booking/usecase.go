package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/booking"
	claimRepo "github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/claim"
	facilityRepo "github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/facility"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	facilityRepo FacilityRepository
	claimRepo    ClaimRepository
	ledger       Ledger
	expiry       Expiry
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      Metrics
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
		rules:        rules,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Слот захватывается вставкой брони и заявки под ограничениями уникальности,
// поэтому из параллельных запросов на один ключ проходит ровно один.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, facility=%d, date=%s, hour=%d, credit=%t",
		req.UserID, req.FacilityID, req.Date.Format(domain.DateFormat), req.StartHour, req.CreditCode != nil)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время и валидируем дату
	now := uc.timeProvider.Now()
	loc := uc.rules.Loc()
	if err := validateDate(req.Date, now, uc.rules); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	key := domain.NewSlotKey(req.FacilityID, req.Date, req.StartHour)

	var (
		result  *domain.Booking
		expired *domain.Booking
		events  []domain.Event
	)

	// 3. Все изменения выполняем в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		events = events[:0]

		// 3.1. Получаем площадку
		facility, err := uc.facilityRepo.GetByID(txCtx, req.FacilityID)
		if err != nil {
			if errors.Is(err, facilityRepo.ErrFacilityNotFound) {
				uc.logger.Warn("CreateBooking: facility id=%d not found", req.FacilityID)
				return ErrFacilityNotFound
			}
			return fmt.Errorf("%w: failed to get facility: %w", ErrInternal, err)
		}
		if !facility.IsActive {
			uc.logger.Warn("CreateBooking: facility id=%d is inactive", req.FacilityID)
			return ErrFacilityNotFound
		}

		// 3.2. Проверяем час
		if err := validateSlot(facility, req.Date, req.StartHour, now, loc); err != nil {
			uc.logger.Warn("CreateBooking: slot validation failed: %v", err)
			return err
		}

		// 3.3. Освобождаем слот от устаревшей неподтвержденной брони
		expired = nil
		reclaimed, err := uc.expiry.ReclaimSlot(txCtx, key, now)
		if err != nil {
			return fmt.Errorf("%w: failed to expire stale pending booking: %w", ErrInternal, err)
		}
		if reclaimed != nil {
			expired = reclaimed.Booking
			events = append(events, reclaimed.Events...)
			uc.logger.Info("CreateBooking: expired stale pending booking id=%d on %s", expired.ID, key)
		}

		// 3.4. Проверяем компенсацию
		deposit := facility.DepositAmount()
		var credit *domain.CompensationCredit
		if req.CreditCode != nil {
			credit, err = uc.ledger.Redeem(txCtx, *req.CreditCode, req.UserID)
			if err != nil {
				return err
			}
		}

		booking := &domain.Booking{
			FacilityID:      req.FacilityID,
			UserID:          req.UserID,
			BookingDate:     key.Date,
			StartHour:       req.StartHour,
			EndHour:         req.StartHour + domain.SlotDurationHours,
			TotalPrice:      facility.PricePerHour,
			DepositPaid:     deposit,
			RemainingAmount: facility.PricePerHour - deposit,
			Status:          domain.StatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if credit != nil {
			booking.CreditApplied = credit.AppliedTo(deposit)
			booking.CreditCode = &credit.Code
		}

		// 3.5. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				return ErrSlotNotAvailable
			}
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		// 3.6. Захватываем ключ слота
		err = uc.claimRepo.Claim(txCtx, domain.SlotClaim{
			Key:       key,
			OwnerKind: domain.ClaimBooking,
			OwnerID:   created.ID,
			CreatedAt: now,
		})
		if err != nil {
			if errors.Is(err, claimRepo.ErrSlotTaken) {
				return ErrSlotNotAvailable
			}
			return fmt.Errorf("%w: failed to claim slot: %w", ErrInternal, err)
		}

		events = append(events, domain.BookingCreated{
			Header:        domain.NewEventHeader(now),
			BookingID:     created.ID,
			FacilityID:    created.FacilityID,
			UserID:        created.UserID,
			Date:          key.Date.Format(domain.DateFormat),
			StartHour:     created.StartHour,
			TotalPrice:    created.TotalPrice,
			DepositPaid:   created.DepositPaid,
			CreditApplied: created.CreditApplied,
		})

		// 3.7. Погашаем компенсацию
		if credit != nil {
			if err := uc.ledger.MarkUsed(txCtx, credit.Code, created.ID); err != nil {
				return err
			}
			events = append(events, domain.CreditRedeemed{
				Header:        domain.NewEventHeader(now),
				Code:          credit.Code,
				BeneficiaryID: credit.BeneficiaryID,
				BookingID:     created.ID,
				Applied:       created.CreditApplied,
			})
		}

		result = created
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrSlotNotAvailable):
			uc.metrics.IncBookingConflict()
			uc.logger.Warn("CreateBooking: slot %s is not available", key)
		case errors.Is(err, domain.ErrInvalidCode):
			uc.logger.Warn("CreateBooking: credit rejected for user=%d: %v", req.UserID, err)
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidRequest):
		default:
			uc.logger.Error("CreateBooking: failed for %s: %v", key, err)
		}
		return nil, err
	}

	if expired != nil {
		uc.metrics.IncBookingCancelled(string(domain.TierExpired))
	}
	uc.metrics.IncBookingCreated()
	if result.CreditCode != nil {
		uc.metrics.IncCreditRedeemed()
	}
	uc.publisher.Publish(events...)

	uc.logger.Info("CreateBooking: successfully created booking id=%d on %s", result.ID, key)

	return &Response{
		ID:              result.ID,
		UserID:          result.UserID,
		FacilityID:      result.FacilityID,
		Date:            result.BookingDate,
		StartHour:       result.StartHour,
		EndHour:         result.EndHour,
		Status:          string(result.Status),
		TotalPrice:      result.TotalPrice,
		DepositPaid:     result.DepositPaid,
		CreditApplied:   result.CreditApplied,
		AmountDue:       result.DepositPaid - result.CreditApplied,
		RemainingAmount: result.RemainingAmount,
		CreditCode:      result.CreditCode,
		CreatedAt:       result.CreatedAt,
	}, nil
}
