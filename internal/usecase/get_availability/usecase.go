package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	facilityRepo "github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/facility"
)

// UseCase use case для получения свободных часов площадки
type UseCase struct {
	facilityRepo FacilityRepository
	bookingRepo  BookingRepository
	blockRepo    BlockRepository
	txManager    TransactionManager
	periods      domain.PeriodSet
	rules        domain.BookingRules
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	facilityRepo FacilityRepository,
	bookingRepo BookingRepository,
	blockRepo BlockRepository,
	txManager TransactionManager,
	periods domain.PeriodSet,
	rules domain.BookingRules,
	logger Logger,
) *UseCase {
	return &UseCase{
		facilityRepo: facilityRepo,
		bookingRepo:  bookingRepo,
		blockRepo:    blockRepo,
		txManager:    txManager,
		periods:      periods,
		rules:        rules,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения свободных часов
// Без побочных эффектов: результат верен на момент чтения и может устареть сразу после ответа
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: facility=%d, date=%s, period=%q",
		req.FacilityID, req.Date.Format(domain.DateFormat), req.Period)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Определяем период
	period, err := uc.periods.Resolve(req.Period)
	if err != nil {
		uc.logger.Warn("GetAvailability: %v", err)
		return nil, err
	}

	// 3. Валидация даты
	now := uc.timeProvider.Now()
	if err := validateDate(req.Date, now, uc.rules); err != nil {
		uc.logger.Warn("GetAvailability: date validation failed: %v", err)
		return nil, err
	}

	var (
		facility *domain.Facility
		bookings []*domain.Booking
		blocks   []*domain.BlockedSlot
	)

	// 4. Читаем площадку, брони и блокировки из одного снимка
	err = uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		f, err := uc.facilityRepo.GetByID(txCtx, req.FacilityID)
		if err != nil {
			if errors.Is(err, facilityRepo.ErrFacilityNotFound) {
				return ErrFacilityNotFound
			}
			return fmt.Errorf("%w: failed to get facility: %w", ErrInternal, err)
		}
		if !f.IsActive {
			return ErrFacilityNotFound
		}
		facility = f

		day := domain.DateOnly(req.Date)
		bookings, err = uc.bookingRepo.GetByFacilityWithFilter(txCtx, domain.FacilityBookingsFilter{
			FacilityID: req.FacilityID,
			StartDate:  &day,
			EndDate:    &day,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		blocks, err = uc.blockRepo.GetByFacilityAndDate(txCtx, req.FacilityID, day)
		if err != nil {
			return fmt.Errorf("%w: failed to get blocked slots: %w", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrFacilityNotFound) {
			uc.logger.Warn("GetAvailability: facility id=%d not found or inactive", req.FacilityID)
		} else {
			uc.logger.Error("GetAvailability: facility=%d: %v", req.FacilityID, err)
		}
		return nil, err
	}

	// 5. Считаем свободные часы
	candidates := domain.CandidateHours(facility, period)
	free := domain.FreeHours(
		facility,
		req.Date,
		period,
		lo.FromSlicePtr(bookings),
		lo.FromSlicePtr(blocks),
		now,
		uc.rules,
	)

	uc.logger.Info("GetAvailability: facility=%d, date=%s: %d/%d slots free",
		req.FacilityID, req.Date.Format(domain.DateFormat), len(free), len(candidates))

	return &Response{
		FacilityID:     req.FacilityID,
		Date:           domain.DateOnly(req.Date),
		Period:         period.Name,
		AvailableSlots: free,
		AvailableCount: len(free),
		TotalSlots:     len(candidates),
	}, nil
}
