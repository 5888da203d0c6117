package get_availability

import (
	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	getAvailability "github.com/m04kA/SMC-StadiumBooking/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	FacilityID     int64  `json:"facilityId"`
	Date           string `json:"date"`
	Period         string `json:"period"`
	AvailableSlots []int  `json:"availableSlots"`
	AvailableCount int    `json:"availableCount"`
	TotalSlots     int    `json:"totalSlots"`
}

// ToUseCaseRequest формирует запрос к use case из параметров URL
func ToUseCaseRequest(facilityID int64, dateStr, period string) (*getAvailability.Request, error) {
	date, err := domain.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailability.Request{
		FacilityID: facilityID,
		Date:       date,
		Period:     period,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := resp.AvailableSlots
	if slots == nil {
		slots = []int{}
	}

	return &AvailabilityResponse{
		FacilityID:     resp.FacilityID,
		Date:           resp.Date.Format(domain.DateFormat),
		Period:         resp.Period,
		AvailableSlots: slots,
		AvailableCount: resp.AvailableCount,
		TotalSlots:     resp.TotalSlots,
	}
}
