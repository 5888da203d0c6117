package bookings

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("%w: booking not found", domain.ErrNotFound)

	// ErrFacilityNotFound возвращается, когда площадка не найдена
	ErrFacilityNotFound = fmt.Errorf("%w: facility not found", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = fmt.Errorf("%w: access denied", domain.ErrForbidden)

	// ErrCannotConfirm возвращается, когда бронирование не в статусе pending или истекло
	ErrCannotConfirm = fmt.Errorf("%w: booking cannot be confirmed", domain.ErrInvalidRequest)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrInvalidRequest)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
