package facilities

import (
	"context"
	"errors"
	"fmt"

	facilityRepo "github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/facility"
	"github.com/m04kA/SMC-StadiumBooking/internal/service/facilities/models"
)

// Service сервис для работы с площадками
type Service struct {
	facilityRepo FacilityRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса площадок
func NewService(facilityRepo FacilityRepository, logger Logger) *Service {
	return &Service{
		facilityRepo: facilityRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Get получает площадку по ID
func (s *Service) Get(ctx context.Context, id int64) (*models.FacilityResponse, error) {
	facility, err := s.facilityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, facilityRepo.ErrFacilityNotFound) {
			s.logger.Warn("Get: facility id=%d not found", id)
			return nil, ErrFacilityNotFound
		}
		s.logger.Error("Get: repository error for facility id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Get - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainFacility(facility), nil
}

// Update обновляет площадку
// Доступно только владельцу площадки, результат проверяется на инварианты (депозит <= цены, часы работы)
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateFacilityRequest) (*models.FacilityResponse, error) {
	s.logger.Info("Update: updating facility id=%d by user=%d", id, req.UserID)

	// 1. Получаем площадку
	facility, err := s.facilityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, facilityRepo.ErrFacilityNotFound) {
			s.logger.Warn("Update: facility id=%d not found", id)
			return nil, ErrFacilityNotFound
		}
		s.logger.Error("Update: repository error for facility id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %w", ErrInternal, err)
	}

	// 2. Проверяем права доступа
	if facility.OwnerID != req.UserID {
		s.logger.Warn("Update: user=%d is not the owner of facility=%d", req.UserID, id)
		return nil, ErrAccessDenied
	}

	// 3. Применяем изменения и валидируем
	req.Apply(facility)
	if err := facility.Validate(); err != nil {
		s.logger.Warn("Update: validation failed for facility=%d: %v", id, err)
		return nil, err
	}
	facility.UpdatedAt = s.timeProvider.Now()

	// 4. Сохраняем
	if err := s.facilityRepo.Update(ctx, facility); err != nil {
		if errors.Is(err, facilityRepo.ErrFacilityNotFound) {
			return nil, ErrFacilityNotFound
		}
		s.logger.Error("Update: repository error for facility id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Update: facility id=%d updated", id)
	return models.FromDomainFacility(facility), nil
}
