package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Причины отказа в погашении компенсации
var (
	ErrCreditNotOwned = fmt.Errorf("%w: credit belongs to another user", ErrInvalidCode)
	ErrCreditUsed     = fmt.Errorf("%w: credit already used", ErrInvalidCode)
	ErrCreditExpired  = fmt.Errorf("%w: credit expired", ErrInvalidCode)
)

// CompensationCredit компенсация, выданная при отмене брони
type CompensationCredit struct {
	ID                int64
	Code              string
	BeneficiaryID     int64
	Value             int64 // в копейках
	IsUsed            bool
	ExpiresAt         time.Time
	SourceBookingID   *int64
	RedeemedBookingID *int64
	RedeemedAt        *time.Time
	CreatedAt         time.Time
}

// NewCreditCode генерирует код компенсации
func NewCreditCode() string {
	return uuid.NewString()
}

// IsExpired returns true once the expiry moment is reached
func (c *CompensationCredit) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// CheckRedeemable validates ownership, non-use and non-expiry
func (c *CompensationCredit) CheckRedeemable(userID int64, now time.Time) error {
	switch {
	case c.BeneficiaryID != userID:
		return ErrCreditNotOwned
	case c.IsUsed:
		return ErrCreditUsed
	case c.IsExpired(now):
		return ErrCreditExpired
	default:
		return nil
	}
}

// AppliedTo returns the part of the deposit covered by the credit
func (c *CompensationCredit) AppliedTo(deposit int64) int64 {
	return min(c.Value, deposit)
}
