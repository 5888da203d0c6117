package domain

import (
	"fmt"
	"time"
)

// SlotKey ключ пространства исключения: (площадка, дата, час)
type SlotKey struct {
	FacilityID int64
	Date       time.Time
	Hour       int
}

// NewSlotKey создает ключ с нормализованной датой
func NewSlotKey(facilityID int64, date time.Time, hour int) SlotKey {
	return SlotKey{FacilityID: facilityID, Date: DateOnly(date), Hour: hour}
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%d/%s/%02d", k.FacilityID, k.Date.Format(DateFormat), k.Hour)
}

// ClaimKind тип владельца слота
type ClaimKind string

const (
	ClaimBooking ClaimKind = "booking"
	ClaimBlock   ClaimKind = "block"
)

// SlotClaim запись пространства исключения: каждый ключ принадлежит не более чем одному владельцу
type SlotClaim struct {
	Key       SlotKey
	OwnerKind ClaimKind
	OwnerID   int64
	CreatedAt time.Time
}

// DateOnly returns the calendar date of t as UTC midnight
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected %s", ErrInvalidRequest, s, DateFormat)
	}
	return t, nil
}

// SlotStart returns the moment the hour slot starts in the facility time zone
func SlotStart(date time.Time, hour int, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, 0, 0, 0, loc)
}

// Today returns the current date in the facility time zone
func Today(now time.Time, loc *time.Location) time.Time {
	return DateOnly(now.In(loc))
}

// ValidHour returns true for hours 0..23
func ValidHour(hour int) bool {
	return hour >= 0 && hour < HoursPerDay
}
