package cancel_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	"github.com/m04kA/SMC-StadiumBooking/internal/service/expiry"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	Cancel(ctx context.Context, booking *domain.Booking) error
}

// FacilityRepository интерфейс репозитория площадок
type FacilityRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Facility, error)
}

// ClaimRepository интерфейс пространства исключения слотов
type ClaimRepository interface {
	Release(ctx context.Context, key domain.SlotKey, kind domain.ClaimKind, ownerID int64) error
}

// Ledger интерфейс журнала компенсаций
type Ledger interface {
	Issue(ctx context.Context, beneficiaryID, value int64, ttl time.Duration, sourceBookingID *int64) (*domain.CompensationCredit, error)
}

// Expiry истечение неподтвержденных броней
type Expiry interface {
	IsStale(booking *domain.Booking, now time.Time) bool
	Expire(ctx context.Context, booking *domain.Booking, actorID int64, now time.Time) (*expiry.Result, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher получает события после коммита
type EventPublisher interface {
	Publish(events ...domain.Event)
}

// Metrics бизнес-счетчики отмен
type Metrics interface {
	IncBookingCancelled(tier string)
	IncCreditIssued()
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
