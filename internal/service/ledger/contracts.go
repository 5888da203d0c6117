package ledger

import (
	"context"
	"time"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
)

// CreditRepository интерфейс репозитория компенсаций
type CreditRepository interface {
	Create(ctx context.Context, c *domain.CompensationCredit) (*domain.CompensationCredit, error)
	GetByCodeForUpdate(ctx context.Context, code string) (*domain.CompensationCredit, error)
	MarkUsed(ctx context.Context, code string, bookingID int64, now time.Time) error
	Restore(ctx context.Context, code string, bookingID int64) error
	GetByBeneficiary(ctx context.Context, userID int64) ([]*domain.CompensationCredit, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
