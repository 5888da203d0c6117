package models

import (
	"time"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
)

// Request модели

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	ActorID int64   `json:"-"`
	UserID  int64   `json:"userId"`
	Status  *string `json:"status,omitempty"`
}

// GetFacilityBookingsRequest запрос на получение бронирований площадки
type GetFacilityBookingsRequest struct {
	ActorID          int64      `json:"-"`
	FacilityID       int64      `json:"facilityId"`
	StartDate        *time.Time `json:"startDate,omitempty"`        // Начало периода (опционально)
	EndDate          *time.Time `json:"endDate,omitempty"`          // Конец периода (опционально)
	Status           *string    `json:"status,omitempty"`           // Фильтр по статусу (опционально)
	IncludeCancelled bool       `json:"includeCancelled,omitempty"` // Включить отмененные бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetFacilityBookingsRequest) ToDomainFilter(status *domain.BookingStatus) domain.FacilityBookingsFilter {
	return domain.FacilityBookingsFilter{
		FacilityID:       r.FacilityID,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		Status:           status,
		IncludeCancelled: r.IncludeCancelled,
	}
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64   `json:"id"`
	FacilityID      int64   `json:"facilityId"`
	UserID          int64   `json:"userId"`
	BookingDate     string  `json:"bookingDate"` // "2026-05-03"
	StartHour       int     `json:"startHour"`
	EndHour         int     `json:"endHour"`
	TotalPrice      int64   `json:"totalPrice"`
	DepositPaid     int64   `json:"depositPaid"`
	CreditApplied   int64   `json:"creditApplied"`
	RemainingAmount int64   `json:"remainingAmount"`
	Status          string  `json:"status"`
	CreditCode      *string `json:"creditCode,omitempty"`

	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CancelledBy        *int64     `json:"cancelledBy,omitempty"`
	ConfirmedAt        *time.Time `json:"confirmedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
// Статус отдается эффективный: прошедшая подтвержденная бронь видна как completed
func FromDomainBooking(b *domain.Booking, now time.Time, loc *time.Location) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:                 b.ID,
		FacilityID:         b.FacilityID,
		UserID:             b.UserID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartHour:          b.StartHour,
		EndHour:            b.EndHour,
		TotalPrice:         b.TotalPrice,
		DepositPaid:        b.DepositPaid,
		CreditApplied:      b.CreditApplied,
		RemainingAmount:    b.RemainingAmount,
		Status:             string(b.EffectiveStatus(now, loc)),
		CreditCode:         b.CreditCode,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		CancelledBy:        b.CancelledBy,
		ConfirmedAt:        b.ConfirmedAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking, now time.Time, loc *time.Location) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b, now, loc))
	}

	return resp
}
