package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/booking"
	facilityRepo "github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/facility"
	"github.com/m04kA/SMC-StadiumBooking/internal/service/bookings/models"
)

// Service сервис для чтения и подтверждения бронирований
type Service struct {
	bookingRepo  BookingRepository
	facilityRepo FacilityRepository
	txManager    TransactionManager
	publisher    EventPublisher
	operators    domain.OperatorSet
	rules        domain.BookingRules
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	facilityRepo FacilityRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	operators domain.OperatorSet,
	rules domain.BookingRules,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		facilityRepo: facilityRepo,
		txManager:    txManager,
		publisher:    publisher,
		operators:    operators,
		rules:        rules,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Видеть бронь может ее автор, владелец площадки или оператор
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	if booking.UserID != userID {
		if _, err := s.checkManagerAccess(ctx, booking.FacilityID, userID); err != nil {
			s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
			return nil, err
		}
	}

	return models.FromDomainBooking(booking, s.timeProvider.Now(), s.rules.Loc()), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по эффективному статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d by actor=%d", req.UserID, req.ActorID)

	if req.UserID != req.ActorID && !s.operators.Contains(req.ActorID) {
		s.logger.Warn("GetUserBookings: actor=%d denied access to bookings of user=%d", req.ActorID, req.UserID)
		return nil, ErrAccessDenied
	}

	status, err := parseStatus(req.Status)
	if err != nil {
		s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
		return nil, err
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, domain.UserBookingsFilter{UserID: req.UserID, Status: status})
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %w", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	bookings = s.filterEffective(bookings, status, now)

	s.logger.Info("GetUserBookings: fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings, now, s.rules.Loc()), nil
}

// GetFacilityBookings получает бронирования площадки с фильтрацией
// Доступно только владельцу площадки и операторам
func (s *Service) GetFacilityBookings(ctx context.Context, req *models.GetFacilityBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetFacilityBookings: fetching bookings for facility=%d, actor=%d", req.FacilityID, req.ActorID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	s.logger.Info(logMsg)

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}

	if _, err := s.checkManagerAccess(ctx, req.FacilityID, req.ActorID); err != nil {
		return nil, err
	}

	status, err := parseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.GetByFacilityWithFilter(ctx, req.ToDomainFilter(status))
	if err != nil {
		s.logger.Error("GetFacilityBookings: repository error for facility=%d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: GetFacilityBookings - repository error: %w", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	bookings = s.filterEffective(bookings, status, now)

	s.logger.Info("GetFacilityBookings: fetched %d bookings for facility=%d", len(bookings), req.FacilityID)
	return models.FromDomainBookingList(bookings, now, s.rules.Loc()), nil
}

// Confirm переводит pending-бронь в confirmed
// Доступно владельцу площадки и операторам
func (s *Service) Confirm(ctx context.Context, bookingID, actorID int64) (*models.BookingResponse, error) {
	s.logger.Info("Confirm: confirming booking id=%d by user=%d", bookingID, actorID)

	now := s.timeProvider.Now()
	var confirmed *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByIDForUpdate(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("Confirm: booking id=%d not found", bookingID)
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Confirm - repository error: %w", ErrInternal, err)
		}

		if _, err := s.checkManagerAccess(txCtx, booking.FacilityID, actorID); err != nil {
			return err
		}

		if !booking.CanBeConfirmed(now, s.rules.PendingTTL) {
			s.logger.Warn("Confirm: booking id=%d cannot be confirmed, status=%s", bookingID, booking.Status)
			return ErrCannotConfirm
		}

		if err := s.bookingRepo.Confirm(txCtx, bookingID, now); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusMismatch) {
				return ErrCannotConfirm
			}
			return fmt.Errorf("%w: Confirm - repository error: %w", ErrInternal, err)
		}

		booking.Status = domain.StatusConfirmed
		booking.ConfirmedAt = &now
		booking.UpdatedAt = now
		confirmed = booking
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("Confirm: failed to confirm booking id=%d: %v", bookingID, err)
		}
		return nil, err
	}

	s.publisher.Publish(domain.BookingConfirmed{
		Header:     domain.NewEventHeader(now),
		BookingID:  confirmed.ID,
		FacilityID: confirmed.FacilityID,
		UserID:     confirmed.UserID,
		ActorID:    actorID,
	})

	s.logger.Info("Confirm: booking id=%d confirmed", bookingID)
	return models.FromDomainBooking(confirmed, now, s.rules.Loc()), nil
}

// Вспомогательные методы

// checkManagerAccess проверяет, что пользователь - владелец площадки или оператор
func (s *Service) checkManagerAccess(ctx context.Context, facilityID, userID int64) (*domain.Facility, error) {
	facility, err := s.facilityRepo.GetByID(ctx, facilityID)
	if err != nil {
		if errors.Is(err, facilityRepo.ErrFacilityNotFound) {
			s.logger.Warn("checkManagerAccess: facility id=%d not found", facilityID)
			return nil, ErrFacilityNotFound
		}
		s.logger.Error("checkManagerAccess: failed to get facility id=%d: %v", facilityID, err)
		return nil, fmt.Errorf("%w: checkManagerAccess - failed to get facility: %w", ErrInternal, err)
	}

	if !facility.IsManagedBy(userID, s.operators) {
		s.logger.Warn("checkManagerAccess: user=%d does not manage facility=%d", userID, facilityID)
		return nil, ErrAccessDenied
	}

	return facility, nil
}

// filterEffective отбрасывает брони, чей эффективный статус не совпадает с запрошенным
func (s *Service) filterEffective(bookings []*domain.Booking, status *domain.BookingStatus, now time.Time) []*domain.Booking {
	if status == nil {
		return bookings
	}
	loc := s.rules.Loc()
	return lo.Filter(bookings, func(b *domain.Booking, _ int) bool {
		return b.EffectiveStatus(now, loc) == *status
	})
}

func parseStatus(raw *string) (*domain.BookingStatus, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	status, ok := domain.ParseBookingStatus(*raw)
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *raw)
	}
	return &status, nil
}
