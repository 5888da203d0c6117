package expiry

import (
	"context"
	"time"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetStalePendingForUpdate(ctx context.Context, key domain.SlotKey, createdBefore time.Time) (*domain.Booking, error)
	Cancel(ctx context.Context, booking *domain.Booking) error
}

// ClaimRepository интерфейс пространства исключения слотов
type ClaimRepository interface {
	Release(ctx context.Context, key domain.SlotKey, kind domain.ClaimKind, ownerID int64) error
}

// Ledger интерфейс журнала компенсаций
type Ledger interface {
	Restore(ctx context.Context, code string, bookingID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
