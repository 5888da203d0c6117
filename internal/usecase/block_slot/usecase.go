package block_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	blockRepo "github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/blockedslot"
	claimRepo "github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/claim"
	facilityRepo "github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/facility"
)

// UseCase use case закрытия часа площадки для бронирования
type UseCase struct {
	blockRepo    BlockRepository
	facilityRepo FacilityRepository
	claimRepo    ClaimRepository
	expiry       Expiry
	txManager    TransactionManager
	publisher    EventPublisher
	operators    domain.OperatorSet
	rules        domain.BookingRules
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	blockRepo BlockRepository,
	facilityRepo FacilityRepository,
	claimRepo ClaimRepository,
	expiry Expiry,
	txManager TransactionManager,
	publisher EventPublisher,
	operators domain.OperatorSet,
	rules domain.BookingRules,
	logger Logger,
) *UseCase {
	return &UseCase{
		blockRepo:    blockRepo,
		facilityRepo: facilityRepo,
		claimRepo:    claimRepo,
		expiry:       expiry,
		txManager:    txManager,
		publisher:    publisher,
		operators:    operators,
		rules:        rules,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute блокирует час. Блокировка и бронь делят один ключ слота,
// поэтому час с живой бронью заблокировать нельзя.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BlockSlot: facility=%d, date=%s, hour=%d, actor=%d",
		req.FacilityID, req.Date.Format(domain.DateFormat), req.Hour, req.ActorID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BlockSlot: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if !domain.SlotStart(req.Date, req.Hour, uc.rules.Loc()).After(now) {
		uc.logger.Warn("BlockSlot: slot %s/%02d already started", req.Date.Format(domain.DateFormat), req.Hour)
		return nil, ErrSlotInPast
	}

	key := domain.NewSlotKey(req.FacilityID, req.Date, req.Hour)
	var (
		result *domain.BlockedSlot
		events []domain.Event
	)

	// 2. Блокировка и заявка на слот в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		events = events[:0]

		// 2.1. Проверяем площадку и права
		facility, err := uc.facilityRepo.GetByID(txCtx, req.FacilityID)
		if err != nil {
			if errors.Is(err, facilityRepo.ErrFacilityNotFound) {
				return ErrFacilityNotFound
			}
			return fmt.Errorf("%w: failed to get facility: %w", ErrInternal, err)
		}
		if !facility.IsActive {
			return ErrFacilityNotFound
		}
		if !facility.IsManagedBy(req.ActorID, uc.operators) {
			return ErrAccessDenied
		}
		if !facility.OperatesAt(req.Hour) {
			return fmt.Errorf("%w: facility operates from %02d:00 to %02d:00",
				ErrInvalidTimeSlot, facility.OpenHour, facility.CloseHour)
		}

		// 2.2. Устаревшая неподтвержденная бронь слот не удерживает
		reclaimed, err := uc.expiry.ReclaimSlot(txCtx, key, now)
		if err != nil {
			return fmt.Errorf("%w: failed to expire stale pending booking: %w", ErrInternal, err)
		}
		if reclaimed != nil {
			events = append(events, reclaimed.Events...)
		}

		// 2.3. Сохраняем блокировку
		created, err := uc.blockRepo.Create(txCtx, &domain.BlockedSlot{
			FacilityID: req.FacilityID,
			SlotDate:   key.Date,
			StartHour:  req.Hour,
			EndHour:    req.Hour + domain.SlotDurationHours,
			Reason:     req.Reason,
			CreatedBy:  req.ActorID,
			CreatedAt:  now,
		})
		if err != nil {
			if errors.Is(err, blockRepo.ErrSlotTaken) {
				return ErrSlotNotAvailable
			}
			return fmt.Errorf("%w: failed to create block: %w", ErrInternal, err)
		}

		// 2.4. Захватываем ключ слота
		err = uc.claimRepo.Claim(txCtx, domain.SlotClaim{
			Key:       key,
			OwnerKind: domain.ClaimBlock,
			OwnerID:   created.ID,
			CreatedAt: now,
		})
		if err != nil {
			if errors.Is(err, claimRepo.ErrSlotTaken) {
				return ErrSlotNotAvailable
			}
			return fmt.Errorf("%w: failed to claim slot: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrForbidden),
			errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrSlotConflict):
			uc.logger.Warn("BlockSlot: %s rejected: %v", key, err)
		default:
			uc.logger.Error("BlockSlot: %s: %v", key, err)
		}
		return nil, err
	}

	uc.publisher.Publish(events...)

	uc.logger.Info("BlockSlot: blocked %s, id=%d", key, result.ID)

	return &Response{
		ID:         result.ID,
		FacilityID: result.FacilityID,
		Date:       result.SlotDate,
		StartHour:  result.StartHour,
		EndHour:    result.EndHour,
		Reason:     result.Reason,
		CreatedBy:  result.CreatedBy,
		CreatedAt:  result.CreatedAt,
	}, nil
}
