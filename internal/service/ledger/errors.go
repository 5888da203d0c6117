package ledger

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
)

var (
	// ErrCodeNotFound возвращается, когда код компенсации не существует
	ErrCodeNotFound = fmt.Errorf("%w: ledger: credit code not found", domain.ErrInvalidCode)

	// ErrInvalidValue возвращается при неположительной сумме компенсации
	ErrInvalidValue = fmt.Errorf("%w: ledger: credit value must be positive", domain.ErrInvalidRequest)

	// ErrAccessDenied возвращается при запросе чужих компенсаций
	ErrAccessDenied = fmt.Errorf("%w: ledger: access denied", domain.ErrForbidden)

	// ErrNotRedeemed возвращается, когда компенсация не погашена указанной бронью
	ErrNotRedeemed = errors.New("ledger: credit is not redeemed by booking")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("ledger: internal error")
)
