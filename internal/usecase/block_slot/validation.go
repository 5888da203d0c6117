package block_slot

import (
	"fmt"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.FacilityID <= 0 {
		return fmt.Errorf("%w: facilityID must be positive", ErrInvalidInput)
	}

	if req.ActorID <= 0 {
		return fmt.Errorf("%w: actorID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if !domain.ValidHour(req.Hour) {
		return fmt.Errorf("%w: hour must be between 0 and %d", ErrInvalidInput, domain.HoursPerDay-1)
	}

	if len(req.Reason) > domain.MaxBlockReasonLength {
		return fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, domain.MaxBlockReasonLength)
	}

	return nil
}
