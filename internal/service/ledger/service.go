package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	creditRepo "github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/credit"
)

// Service журнал компенсаций: выдача, проверка и погашение кодов.
// Погашение никогда не выполняется в одиночку: Redeem и MarkUsed вызываются
// бронированием внутри его транзакции.
type Service struct {
	repo         CreditRepository
	operators    domain.OperatorSet
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр журнала компенсаций
func NewService(repo CreditRepository, operators domain.OperatorSet, logger Logger) *Service {
	return &Service{
		repo:         repo,
		operators:    operators,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени, используется сценариями в тестах
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Issue выдает новую неиспользованную компенсацию
func (s *Service) Issue(ctx context.Context, beneficiaryID, value int64, ttl time.Duration, sourceBookingID *int64) (*domain.CompensationCredit, error) {
	if value <= 0 || ttl <= 0 {
		return nil, ErrInvalidValue
	}

	now := s.timeProvider.Now()
	credit := &domain.CompensationCredit{
		Code:            domain.NewCreditCode(),
		BeneficiaryID:   beneficiaryID,
		Value:           value,
		ExpiresAt:       now.Add(ttl),
		SourceBookingID: sourceBookingID,
		CreatedAt:       now,
	}

	created, err := s.repo.Create(ctx, credit)
	if err != nil {
		s.logger.Error("Issue: failed to create credit for user=%d: %v", beneficiaryID, err)
		return nil, fmt.Errorf("%w: Issue - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Issue: issued credit id=%d value=%d to user=%d, expires %s",
		created.ID, created.Value, beneficiaryID, created.ExpiresAt.Format(time.RFC3339))
	return created, nil
}

// Redeem блокирует компенсацию и проверяет, что ее может погасить requesterID
// Любая причина отказа оборачивает domain.ErrInvalidCode
func (s *Service) Redeem(ctx context.Context, code string, requesterID int64) (*domain.CompensationCredit, error) {
	if code == "" {
		return nil, ErrCodeNotFound
	}

	credit, err := s.repo.GetByCodeForUpdate(ctx, code)
	if err != nil {
		if errors.Is(err, creditRepo.ErrCreditNotFound) {
			s.logger.Warn("Redeem: code not found, user=%d", requesterID)
			return nil, ErrCodeNotFound
		}
		s.logger.Error("Redeem: repository error for user=%d: %v", requesterID, err)
		return nil, fmt.Errorf("%w: Redeem - repository error: %w", ErrInternal, err)
	}

	if err := credit.CheckRedeemable(requesterID, s.timeProvider.Now()); err != nil {
		s.logger.Warn("Redeem: credit id=%d rejected for user=%d: %v", credit.ID, requesterID, err)
		return nil, err
	}

	return credit, nil
}

// MarkUsed помечает компенсацию погашенной бронью bookingID
func (s *Service) MarkUsed(ctx context.Context, code string, bookingID int64) error {
	if err := s.repo.MarkUsed(ctx, code, bookingID, s.timeProvider.Now()); err != nil {
		if errors.Is(err, creditRepo.ErrAlreadyUsed) {
			s.logger.Warn("MarkUsed: credit already used, booking=%d", bookingID)
			return domain.ErrCreditUsed
		}
		s.logger.Error("MarkUsed: repository error for booking=%d: %v", bookingID, err)
		return fmt.Errorf("%w: MarkUsed - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("MarkUsed: credit redeemed by booking=%d", bookingID)
	return nil
}

// Restore возвращает владельцу компенсацию, погашенную бронью bookingID
// Вызывается только внутри транзакции, отменяющей эту бронь. Срок действия кода не продлевается
func (s *Service) Restore(ctx context.Context, code string, bookingID int64) error {
	if err := s.repo.Restore(ctx, code, bookingID); err != nil {
		if errors.Is(err, creditRepo.ErrNotRedeemed) {
			s.logger.Warn("Restore: credit is not redeemed by booking=%d", bookingID)
			return ErrNotRedeemed
		}
		s.logger.Error("Restore: repository error for booking=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Restore - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Restore: credit released by booking=%d", bookingID)
	return nil
}

// ListByUser возвращает компенсации пользователя
// Доступно самому пользователю и операторам
func (s *Service) ListByUser(ctx context.Context, userID, actorID int64) ([]*domain.CompensationCredit, error) {
	if userID != actorID && !s.operators.Contains(actorID) {
		s.logger.Warn("ListByUser: user=%d denied access to credits of user=%d", actorID, userID)
		return nil, ErrAccessDenied
	}

	credits, err := s.repo.GetByBeneficiary(ctx, userID)
	if err != nil {
		s.logger.Error("ListByUser: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: ListByUser - repository error: %w", ErrInternal, err)
	}

	return credits, nil
}
