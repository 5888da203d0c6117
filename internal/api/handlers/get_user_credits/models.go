package get_user_credits

import (
	"time"

	"github.com/samber/lo"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
)

// CreditResponse HTTP response model
type CreditResponse struct {
	Code              string  `json:"code"`
	Value             int64   `json:"value"`
	IsUsed            bool    `json:"isUsed"`
	IsExpired         bool    `json:"isExpired"`
	ExpiresAt         string  `json:"expiresAt"`
	SourceBookingID   *int64  `json:"sourceBookingId,omitempty"`
	RedeemedBookingID *int64  `json:"redeemedBookingId,omitempty"`
	RedeemedAt        *string `json:"redeemedAt,omitempty"`
	CreatedAt         string  `json:"createdAt"`
}

// FromDomainCredits конвертирует компенсации в DTO
func FromDomainCredits(credits []*domain.CompensationCredit, now time.Time) []CreditResponse {
	return lo.Map(credits, func(c *domain.CompensationCredit, _ int) CreditResponse {
		resp := CreditResponse{
			Code:              c.Code,
			Value:             c.Value,
			IsUsed:            c.IsUsed,
			IsExpired:         c.IsExpired(now),
			ExpiresAt:         c.ExpiresAt.Format(time.RFC3339),
			SourceBookingID:   c.SourceBookingID,
			RedeemedBookingID: c.RedeemedBookingID,
			CreatedAt:         c.CreatedAt.Format(time.RFC3339),
		}
		if c.RedeemedAt != nil {
			resp.RedeemedAt = lo.ToPtr(c.RedeemedAt.Format(time.RFC3339))
		}
		return resp
	})
}
