package cancel_booking

import (
	"time"

	cancelBooking "github.com/m04kA/SMC-StadiumBooking/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model, тело запроса опционально
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// CreditResponse выданная компенсация
type CreditResponse struct {
	Code      string `json:"code"`
	Value     int64  `json:"value"`
	ExpiresAt string `json:"expiresAt"`
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	BookingID          int64           `json:"bookingId"`
	Status             string          `json:"status"`
	Tier               string          `json:"tier"`
	Refund             int64           `json:"refund"`
	CompensationIssued bool            `json:"compensationIssued"`
	Credit             *CreditResponse `json:"credit,omitempty"`
	CreditRestored     bool            `json:"creditRestored"`
	CancelledAt        string          `json:"cancelledAt"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *CancelBookingRequest) ToUseCaseRequest(bookingID, actorID int64) *cancelBooking.Request {
	return &cancelBooking.Request{
		BookingID: bookingID,
		ActorID:   actorID,
		Reason:    r.CancellationReason,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	out := &CancelBookingResponse{
		BookingID:          resp.BookingID,
		Status:             resp.Status,
		Tier:               resp.Tier,
		Refund:             resp.Refund,
		CompensationIssued: resp.CompensationIssued,
		CreditRestored:     resp.CreditRestored,
		CancelledAt:        resp.CancelledAt.Format(time.RFC3339),
	}
	if resp.Credit != nil {
		out.Credit = &CreditResponse{
			Code:      resp.Credit.Code,
			Value:     resp.Credit.Value,
			ExpiresAt: resp.Credit.ExpiresAt.Format(time.RFC3339),
		}
	}
	return out
}
