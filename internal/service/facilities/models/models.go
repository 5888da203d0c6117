package models

import (
	"time"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
)

// UpdateFacilityRequest запрос на обновление площадки
// Все поля опциональны - обновляются только переданные значения
type UpdateFacilityRequest struct {
	UserID       int64   `json:"-"`
	Name         *string `json:"name,omitempty"`
	PricePerHour *int64  `json:"pricePerHour,omitempty"`
	DepositType  *string `json:"depositType,omitempty"`
	DepositValue *int64  `json:"depositValue,omitempty"`
	OpenHour     *int    `json:"openHour,omitempty"`
	CloseHour    *int    `json:"closeHour,omitempty"`
	IsActive     *bool   `json:"isActive,omitempty"`
}

// Apply применяет переданные поля к площадке
func (r *UpdateFacilityRequest) Apply(f *domain.Facility) {
	if r.Name != nil {
		f.Name = *r.Name
	}
	if r.PricePerHour != nil {
		f.PricePerHour = *r.PricePerHour
	}
	if r.DepositType != nil {
		f.DepositType = domain.DepositType(*r.DepositType)
	}
	if r.DepositValue != nil {
		f.DepositValue = *r.DepositValue
	}
	if r.OpenHour != nil {
		f.OpenHour = *r.OpenHour
	}
	if r.CloseHour != nil {
		f.CloseHour = *r.CloseHour
	}
	if r.IsActive != nil {
		f.IsActive = *r.IsActive
	}
}

// FacilityResponse ответ с данными площадки
type FacilityResponse struct {
	ID            int64     `json:"id"`
	OwnerID       int64     `json:"ownerId"`
	Name          string    `json:"name"`
	PricePerHour  int64     `json:"pricePerHour"`
	DepositType   string    `json:"depositType"`
	DepositValue  int64     `json:"depositValue"`
	DepositAmount int64     `json:"depositAmount"`
	OpenHour      int       `json:"openHour"`
	CloseHour     int       `json:"closeHour"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// FromDomainFacility конвертирует domain модель в DTO
func FromDomainFacility(f *domain.Facility) *FacilityResponse {
	if f == nil {
		return nil
	}

	return &FacilityResponse{
		ID:            f.ID,
		OwnerID:       f.OwnerID,
		Name:          f.Name,
		PricePerHour:  f.PricePerHour,
		DepositType:   string(f.DepositType),
		DepositValue:  f.DepositValue,
		DepositAmount: f.DepositAmount(),
		OpenHour:      f.OpenHour,
		CloseHour:     f.CloseHour,
		IsActive:      f.IsActive,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}
