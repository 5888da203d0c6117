package domain

import "time"

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Slot grid constants
const (
	HoursPerDay       = 24
	SlotDurationHours = 1 // бронирование всегда на один час
)

// Default policy values
const (
	DefaultPendingTTL          = 30 * time.Minute
	DefaultCreditTTL           = 14 * 24 * time.Hour
	DefaultFullRefundThreshold = 48 * time.Hour
	DefaultCreditThreshold     = 24 * time.Hour
	DefaultAdvanceBookingDays  = 0 // 0 = unlimited
)

// Business validation constants
const (
	MaxFacilityNameLength       = 200
	MaxCancellationReasonLength = 500
	MaxBlockReasonLength        = 500
	MaxDepositPercent           = 100
	MaxAdvanceBookingDays       = 365
)

// ReasonPendingExpired причина отмены устаревшей неподтверждённой брони
const ReasonPendingExpired = "pending expired"

// LiveStatuses статусы, удерживающие слот
var LiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
