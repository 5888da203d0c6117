package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.FacilityID <= 0 {
		return fmt.Errorf("%w: facilityID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if !domain.ValidHour(req.StartHour) {
		return fmt.Errorf("%w: startHour must be between 0 and %d", ErrInvalidInput, domain.HoursPerDay-1)
	}

	if req.CreditCode != nil && strings.TrimSpace(*req.CreditCode) == "" {
		return fmt.Errorf("%w: creditCode must not be blank", ErrInvalidInput)
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
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, rules.AdvanceBookingDays)
	}

	return nil
}

// validateSlot проверяет, что час в пределах работы площадки и еще не начался
func validateSlot(facility *domain.Facility, date time.Time, hour int, now time.Time, loc *time.Location) error {
	if !facility.OperatesAt(hour) {
		return fmt.Errorf("%w: facility operates from %02d:00 to %02d:00",
			ErrInvalidTimeSlot, facility.OpenHour, facility.CloseHour)
	}

	if !domain.SlotStart(date, hour, loc).After(now) {
		return ErrTooLateToBook
	}

	return nil
}
