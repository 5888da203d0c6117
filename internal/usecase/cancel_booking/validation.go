package cancel_booking

import (
	"fmt"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.ActorID <= 0 {
		return fmt.Errorf("%w: actorID must be positive", ErrInvalidInput)
	}

	if req.Reason != nil && len(*req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	return nil
}

// canCancel проверяет права: автор брони, владелец площадки или оператор
func canCancel(booking *domain.Booking, facility *domain.Facility, actorID int64, operators domain.OperatorSet) bool {
	return booking.UserID == actorID || facility.IsManagedBy(actorID, operators)
}
