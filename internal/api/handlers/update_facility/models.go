package update_facility

import (
	"github.com/m04kA/SMC-StadiumBooking/internal/service/facilities/models"
)

// UpdateFacilityRequest HTTP request model
// Передаются только изменяемые поля
type UpdateFacilityRequest struct {
	Name         *string `json:"name,omitempty"`
	PricePerHour *int64  `json:"pricePerHour,omitempty"`
	DepositType  *string `json:"depositType,omitempty"`
	DepositValue *int64  `json:"depositValue,omitempty"`
	OpenHour     *int    `json:"openHour,omitempty"`
	CloseHour    *int    `json:"closeHour,omitempty"`
	IsActive     *bool   `json:"isActive,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateFacilityRequest) ToServiceRequest(userID int64) *models.UpdateFacilityRequest {
	return &models.UpdateFacilityRequest{
		UserID:       userID,
		Name:         r.Name,
		PricePerHour: r.PricePerHour,
		DepositType:  r.DepositType,
		DepositValue: r.DepositValue,
		OpenHour:     r.OpenHour,
		CloseHour:    r.CloseHour,
		IsActive:     r.IsActive,
	}
}
