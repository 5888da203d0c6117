package domain

import "time"

// BookingRules правила допуска бронирований
type BookingRules struct {
	Location           *time.Location // часовой пояс площадок
	AdvanceBookingDays int            // 0 = unlimited
	PendingTTL         time.Duration  // 0 = pending не истекает
}

// DefaultBookingRules returns UTC rules with default pending TTL
func DefaultBookingRules() BookingRules {
	return BookingRules{
		Location:           time.UTC,
		AdvanceBookingDays: DefaultAdvanceBookingDays,
		PendingTTL:         DefaultPendingTTL,
	}
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (r BookingRules) HasAdvanceBookingLimit() bool {
	return r.AdvanceBookingDays > 0
}

// Loc returns the configured location or UTC
func (r BookingRules) Loc() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}
