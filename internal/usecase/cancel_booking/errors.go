package cancel_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронь не найдена или уже отменена
	ErrBookingNotFound = fmt.Errorf("%w: cancel_booking: booking not found", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда отменяет не автор, не владелец площадки и не оператор
	ErrAccessDenied = fmt.Errorf("%w: cancel_booking: access denied", domain.ErrForbidden)

	// ErrCannotCancel возвращается для уже завершенной брони
	ErrCannotCancel = fmt.Errorf("%w: cancel_booking: booking cannot be cancelled", domain.ErrInvalidRequest)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: cancel_booking: invalid input data", domain.ErrInvalidRequest)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_booking: internal error")
)
