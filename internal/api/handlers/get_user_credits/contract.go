package get_user_credits

import (
	"context"
	"time"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
)

type CreditLedger interface {
	ListByUser(ctx context.Context, userID, actorID int64) ([]*domain.CompensationCredit, error)
}

type TimeProvider interface {
	Now() time.Time
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
