package block_slot

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
)

var (
	// ErrFacilityNotFound возвращается, когда площадка не найдена
	ErrFacilityNotFound = fmt.Errorf("%w: block_slot: facility not found", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда блокирует не владелец и не оператор
	ErrAccessDenied = fmt.Errorf("%w: block_slot: access denied", domain.ErrForbidden)

	// ErrSlotInPast возвращается, когда час уже начался
	ErrSlotInPast = fmt.Errorf("%w: block_slot: slot is in the past", domain.ErrInvalidRequest)

	// ErrInvalidTimeSlot возвращается, когда час вне часов работы площадки
	ErrInvalidTimeSlot = fmt.Errorf("%w: block_slot: invalid time slot", domain.ErrInvalidRequest)

	// ErrSlotNotAvailable возвращается, когда слот занят живой бронью или блокировкой
	ErrSlotNotAvailable = fmt.Errorf("%w: block_slot: slot is not available", domain.ErrSlotConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: block_slot: invalid input data", domain.ErrInvalidRequest)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("block_slot: internal error")
)
