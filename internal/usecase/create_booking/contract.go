package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	"github.com/m04kA/SMC-StadiumBooking/internal/service/expiry"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// FacilityRepository интерфейс репозитория площадок
type FacilityRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Facility, error)
}

// ClaimRepository интерфейс пространства исключения слотов
type ClaimRepository interface {
	Claim(ctx context.Context, claim domain.SlotClaim) error
}

// Ledger интерфейс журнала компенсаций
type Ledger interface {
	Redeem(ctx context.Context, code string, requesterID int64) (*domain.CompensationCredit, error)
	MarkUsed(ctx context.Context, code string, bookingID int64) error
}

// Expiry истечение устаревших неподтвержденных броней
type Expiry interface {
	ReclaimSlot(ctx context.Context, key domain.SlotKey, now time.Time) (*expiry.Result, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher получает события после коммита
type EventPublisher interface {
	Publish(events ...domain.Event)
}

// Metrics бизнес-счетчики допуска бронирований
type Metrics interface {
	IncBookingCreated()
	IncBookingConflict()
	IncBookingCancelled(tier string)
	IncCreditRedeemed()
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
