package get_availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.FacilityID <= 0 {
		return fmt.Errorf("%w: facilityID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}

// validateDate проверяет, что дата не в прошлом и не дальше горизонта бронирования
func validateDate(date, now time.Time, rules domain.BookingRules) error {
	today := domain.Today(now, rules.Loc())
	day := domain.DateOnly(date)

	if day.Before(today) {
		return ErrInvalidDate
	}

	if rules.HasAdvanceBookingLimit() && day.After(today.AddDate(0, 0, rules.AdvanceBookingDays)) {
		return fmt.Errorf("%w: max %d days ahead", ErrDateTooFarInFuture, rules.AdvanceBookingDays)
	}

	return nil
}
