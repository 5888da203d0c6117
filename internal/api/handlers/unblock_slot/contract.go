package unblock_slot

import (
	"context"

	unblockSlot "github.com/m04kA/SMC-StadiumBooking/internal/usecase/unblock_slot"
)

type UnblockSlotUseCase interface {
	Execute(ctx context.Context, req *unblockSlot.Request) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
