package domain

import (
	"fmt"
	"time"
)

// CancellationTier уровень политики отмены
type CancellationTier string

const (
	TierFullRefund CancellationTier = "full_refund" // возврат депозита и компенсация
	TierCreditOnly CancellationTier = "credit_only" // только компенсация
	TierNoRefund   CancellationTier = "no_refund"
	TierExpired    CancellationTier = "expired" // неподтвержденная бронь истекла
)

// CancellationPolicy пороги уровней по времени до начала брони
type CancellationPolicy struct {
	FullRefundThreshold time.Duration
	CreditThreshold     time.Duration
	CreditTTL           time.Duration
}

// DefaultCancellationPolicy returns 48h / 24h thresholds and 14 days credit TTL
func DefaultCancellationPolicy() CancellationPolicy {
	return CancellationPolicy{
		FullRefundThreshold: DefaultFullRefundThreshold,
		CreditThreshold:     DefaultCreditThreshold,
		CreditTTL:           DefaultCreditTTL,
	}
}

// Validate checks threshold ordering
func (p CancellationPolicy) Validate() error {
	if p.CreditThreshold < 0 || p.FullRefundThreshold < p.CreditThreshold {
		return fmt.Errorf("%w: thresholds must satisfy 0 <= credit <= full_refund", ErrInvalidRequest)
	}
	if p.CreditTTL <= 0 {
		return fmt.Errorf("%w: credit ttl must be positive", ErrInvalidRequest)
	}
	return nil
}

// CancellationOutcome результат применения политики
type CancellationOutcome struct {
	Tier            CancellationTier
	Refund          int64 // возврат деньгами
	CreditValue     int64 // 0 = компенсация не выдается
	CreditExpiresAt time.Time
}

// IssuesCredit returns true if a compensation credit must be issued
func (o CancellationOutcome) IssuesCredit() bool {
	return o.CreditValue > 0
}

// Resolve computes the outcome of cancelling b at now.
// Деньгами возвращается только часть депозита, не покрытая компенсацией.
func (p CancellationPolicy) Resolve(b *Booking, now time.Time, loc *time.Location) CancellationOutcome {
	delta := b.SlotStart(loc).Sub(now)

	var out CancellationOutcome
	switch {
	case delta > p.FullRefundThreshold:
		out.Tier = TierFullRefund
		out.Refund = b.DepositPaid - b.CreditApplied
		out.CreditValue = b.DepositPaid
	case delta > p.CreditThreshold:
		out.Tier = TierCreditOnly
		out.CreditValue = b.DepositPaid
	default:
		out.Tier = TierNoRefund
	}

	if out.CreditValue > 0 {
		out.CreditExpiresAt = now.Add(p.CreditTTL)
	}
	return out
}
