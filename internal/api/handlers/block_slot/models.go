package block_slot

import (
	"time"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	blockSlot "github.com/m04kA/SMC-StadiumBooking/internal/usecase/block_slot"
)

// BlockSlotRequest HTTP request model
type BlockSlotRequest struct {
	Date   string `json:"date"` // "2026-05-03"
	Hour   int    `json:"hour"`
	Reason string `json:"reason,omitempty"`
}

// BlockedSlotResponse HTTP response model
type BlockedSlotResponse struct {
	ID         int64  `json:"id"`
	FacilityID int64  `json:"facilityId"`
	Date       string `json:"date"`
	StartHour  int    `json:"startHour"`
	EndHour    int    `json:"endHour"`
	Reason     string `json:"reason,omitempty"`
	CreatedBy  int64  `json:"createdBy"`
	CreatedAt  string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *BlockSlotRequest) ToUseCaseRequest(facilityID, actorID int64) (*blockSlot.Request, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	return &blockSlot.Request{
		FacilityID: facilityID,
		ActorID:    actorID,
		Date:       date,
		Hour:       r.Hour,
		Reason:     r.Reason,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *blockSlot.Response) *BlockedSlotResponse {
	return &BlockedSlotResponse{
		ID:         resp.ID,
		FacilityID: resp.FacilityID,
		Date:       resp.Date.Format(domain.DateFormat),
		StartHour:  resp.StartHour,
		EndHour:    resp.EndHour,
		Reason:     resp.Reason,
		CreatedBy:  resp.CreatedBy,
		CreatedAt:  resp.CreatedAt.Format(time.RFC3339),
	}
}
