package unblock_slot

import (
	"context"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
)

// BlockRepository интерфейс репозитория блокировок
type BlockRepository interface {
	DeleteByKey(ctx context.Context, key domain.SlotKey) (*domain.BlockedSlot, error)
}

// FacilityRepository интерфейс репозитория площадок
type FacilityRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Facility, error)
}

// ClaimRepository интерфейс пространства исключения слотов
type ClaimRepository interface {
	Release(ctx context.Context, key domain.SlotKey, kind domain.ClaimKind, ownerID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
