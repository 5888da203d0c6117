package facilities

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
)

var (
	// ErrFacilityNotFound возвращается, когда площадка не найдена
	ErrFacilityNotFound = fmt.Errorf("%w: facility not found", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда пользователь не владелец площадки
	ErrAccessDenied = fmt.Errorf("%w: only the facility owner can change it", domain.ErrForbidden)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("facilities service: internal error")
)
