package unblock_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	blockRepo "github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/blockedslot"
	claimRepo "github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/claim"
	facilityRepo "github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/facility"
)

// UseCase use case снятия блокировки часа
type UseCase struct {
	blockRepo    BlockRepository
	facilityRepo FacilityRepository
	claimRepo    ClaimRepository
	txManager    TransactionManager
	operators    domain.OperatorSet
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	blockRepo BlockRepository,
	facilityRepo FacilityRepository,
	claimRepo ClaimRepository,
	txManager TransactionManager,
	operators domain.OperatorSet,
	logger Logger,
) *UseCase {
	return &UseCase{
		blockRepo:    blockRepo,
		facilityRepo: facilityRepo,
		claimRepo:    claimRepo,
		txManager:    txManager,
		operators:    operators,
		logger:       logger,
	}
}

// Execute снимает блокировку и освобождает ключ слота
func (uc *UseCase) Execute(ctx context.Context, req *Request) error {
	if req.FacilityID <= 0 || req.ActorID <= 0 || req.Date.IsZero() || !domain.ValidHour(req.Hour) {
		return fmt.Errorf("%w: facilityID, actorID, date and hour 0..%d are required", ErrInvalidInput, domain.HoursPerDay-1)
	}

	key := domain.NewSlotKey(req.FacilityID, req.Date, req.Hour)
	uc.logger.Info("UnblockSlot: %s, actor=%d", key, req.ActorID)

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		facility, err := uc.facilityRepo.GetByID(txCtx, req.FacilityID)
		if err != nil {
			if errors.Is(err, facilityRepo.ErrFacilityNotFound) {
				return ErrFacilityNotFound
			}
			return fmt.Errorf("%w: failed to get facility: %w", ErrInternal, err)
		}
		if !facility.IsManagedBy(req.ActorID, uc.operators) {
			return ErrAccessDenied
		}

		deleted, err := uc.blockRepo.DeleteByKey(txCtx, key)
		if err != nil {
			if errors.Is(err, blockRepo.ErrBlockNotFound) {
				return ErrBlockNotFound
			}
			return fmt.Errorf("%w: failed to delete block: %w", ErrInternal, err)
		}

		if err := uc.claimRepo.Release(txCtx, key, domain.ClaimBlock, deleted.ID); err != nil && !errors.Is(err, claimRepo.ErrClaimNotFound) {
			return fmt.Errorf("%w: failed to release slot: %w", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrForbidden) {
			uc.logger.Warn("UnblockSlot: %s rejected: %v", key, err)
		} else {
			uc.logger.Error("UnblockSlot: %s: %v", key, err)
		}
		return err
	}

	uc.logger.Info("UnblockSlot: %s released", key)
	return nil
}
