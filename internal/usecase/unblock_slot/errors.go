package unblock_slot

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
)

var (
	// ErrFacilityNotFound возвращается, когда площадка не найдена
	ErrFacilityNotFound = fmt.Errorf("%w: unblock_slot: facility not found", domain.ErrNotFound)

	// ErrBlockNotFound возвращается, когда час не заблокирован
	ErrBlockNotFound = fmt.Errorf("%w: unblock_slot: blocked slot not found", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда снимает блокировку не владелец и не оператор
	ErrAccessDenied = fmt.Errorf("%w: unblock_slot: access denied", domain.ErrForbidden)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: unblock_slot: invalid input data", domain.ErrInvalidRequest)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("unblock_slot: internal error")
)
