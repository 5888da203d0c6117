package domain

import (
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed" // вычисляется, в хранилище не пишется
)

// ParseBookingStatus returns false for unknown statuses
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch status := BookingStatus(s); status {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return status, true
	default:
		return "", false
	}
}

// Booking represents a one-hour slot reservation
type Booking struct {
	ID          int64
	FacilityID  int64
	UserID      int64
	BookingDate time.Time
	StartHour   int
	EndHour     int

	// Суммы в копейках. RemainingAmount = TotalPrice - DepositPaid
	TotalPrice      int64
	DepositPaid     int64
	CreditApplied   int64 // часть депозита, покрытая компенсацией
	RemainingAmount int64

	Status     BookingStatus
	CreditCode *string

	CancellationReason *string
	CancelledAt        *time.Time
	CancelledBy        *int64
	ConfirmedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Key returns the exclusion key of the booking
func (b *Booking) Key() SlotKey {
	return NewSlotKey(b.FacilityID, b.BookingDate, b.StartHour)
}

// SlotStart returns the moment the booked hour starts
func (b *Booking) SlotStart(loc *time.Location) time.Time {
	return SlotStart(b.BookingDate, b.StartHour, loc)
}

// SlotEnd returns the moment the booked hour ends
func (b *Booking) SlotEnd(loc *time.Location) time.Time {
	return SlotStart(b.BookingDate, b.EndHour, loc)
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsStalePending returns true for a pending booking older than ttl, zero ttl disables expiry
func (b *Booking) IsStalePending(now time.Time, ttl time.Duration) bool {
	return b.Status == StatusPending && ttl > 0 && !now.Before(b.CreatedAt.Add(ttl))
}

// IsLive returns true if the booking still holds its slot
func (b *Booking) IsLive(now time.Time, pendingTTL time.Duration) bool {
	return !b.IsCancelled() && !b.IsStalePending(now, pendingTTL)
}

// EffectiveStatus returns completed for a confirmed booking whose hour has passed
func (b *Booking) EffectiveStatus(now time.Time, loc *time.Location) BookingStatus {
	if b.Status == StatusConfirmed && !now.Before(b.SlotEnd(loc)) {
		return StatusCompleted
	}
	return b.Status
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled(now time.Time, loc *time.Location) bool {
	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return false
	}
	return b.EffectiveStatus(now, loc) != StatusCompleted
}

// CanBeConfirmed returns true if the booking is pending and not expired
func (b *Booking) CanBeConfirmed(now time.Time, pendingTTL time.Duration) bool {
	return b.Status == StatusPending && !b.IsStalePending(now, pendingTTL)
}

// Cancel переводит бронь в cancelled
func (b *Booking) Cancel(actorID int64, reason *string, now time.Time) {
	b.Status = StatusCancelled
	b.CancellationReason = reason
	b.CancelledAt = &now
	b.CancelledBy = &actorID
	b.UpdatedAt = now
}

// Expire отменяет устаревшую pending-бронь.
// Деньгами возвращается часть депозита, не покрытая компенсацией, новая компенсация не выдается:
// погашенный код возвращается владельцу (см. HasRedeemedCredit). actorID 0 = отмена системой.
func (b *Booking) Expire(actorID int64, now time.Time) CancellationOutcome {
	reason := ReasonPendingExpired
	b.Status = StatusCancelled
	b.CancellationReason = &reason
	b.CancelledAt = &now
	b.CancelledBy = nil
	if actorID > 0 {
		b.CancelledBy = &actorID
	}
	b.UpdatedAt = now

	return CancellationOutcome{
		Tier:   TierExpired,
		Refund: b.DepositPaid - b.CreditApplied,
	}
}

// HasRedeemedCredit returns true if part of the deposit was paid with a credit
func (b *Booking) HasRedeemedCredit() bool {
	return b.CreditCode != nil && b.CreditApplied > 0
}

// FacilityBookingsFilter фильтр для получения бронирований площадки
type FacilityBookingsFilter struct {
	FacilityID       int64          // Обязательный параметр
	StartDate        *time.Time     // Начало периода (опционально)
	EndDate          *time.Time     // Конец периода включительно (опционально)
	Status           *BookingStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool
}

// UserBookingsFilter фильтр для получения бронирований пользователя
type UserBookingsFilter struct {
	UserID int64
	Status *BookingStatus
}
