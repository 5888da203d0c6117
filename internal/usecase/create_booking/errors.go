package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
)

var (
	// ErrFacilityNotFound возвращается, когда площадка не найдена или неактивна
	ErrFacilityNotFound = fmt.Errorf("%w: create_booking: facility not found", domain.ErrNotFound)

	// ErrInvalidDate возвращается при дате бронирования в прошлом
	ErrInvalidDate = fmt.Errorf("%w: create_booking: invalid booking date", domain.ErrInvalidRequest)

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advance_booking_days
	ErrDateTooFarInFuture = fmt.Errorf("%w: create_booking: date is too far in the future", domain.ErrInvalidRequest)

	// ErrInvalidTimeSlot возвращается, когда час вне часов работы площадки
	ErrInvalidTimeSlot = fmt.Errorf("%w: create_booking: invalid time slot", domain.ErrInvalidRequest)

	// ErrTooLateToBook возвращается, когда слот уже начался
	ErrTooLateToBook = fmt.Errorf("%w: create_booking: too late to book this slot", domain.ErrInvalidRequest)

	// ErrSlotNotAvailable возвращается, когда слот занят живой бронью или блокировкой
	ErrSlotNotAvailable = fmt.Errorf("%w: create_booking: slot is not available", domain.ErrSlotConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: create_booking: invalid input data", domain.ErrInvalidRequest)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
