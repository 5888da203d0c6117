package domain

import (
	"fmt"
	"strings"
	"time"
)

// DepositType способ расчета депозита
type DepositType string

const (
	DepositFixed   DepositType = "fixed"   // фиксированная сумма
	DepositPercent DepositType = "percent" // процент от цены часа
)

// Facility represents a bookable stadium
type Facility struct {
	ID           int64
	OwnerID      int64
	Name         string
	PricePerHour int64 // в копейках
	DepositType  DepositType
	DepositValue int64 // сумма в копейках или процент
	OpenHour     int
	CloseHour    int // не включительно
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DepositAmount returns the deposit in minor units, percent deposits are rounded down
func (f *Facility) DepositAmount() int64 {
	if f.DepositType == DepositPercent {
		return f.PricePerHour * f.DepositValue / 100
	}
	return f.DepositValue
}

// OperatesAt returns true if the hour lies within operating hours
func (f *Facility) OperatesAt(hour int) bool {
	return hour >= f.OpenHour && hour < f.CloseHour
}

// IsManagedBy returns true if the actor is the owner or an operator
func (f *Facility) IsManagedBy(actorID int64, operators OperatorSet) bool {
	return f.OwnerID == actorID || operators.Contains(actorID)
}

// Validate checks facility invariants
func (f *Facility) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: facility name is required", ErrInvalidRequest)
	}
	if len(f.Name) > MaxFacilityNameLength {
		return fmt.Errorf("%w: facility name must not exceed %d characters", ErrInvalidRequest, MaxFacilityNameLength)
	}
	if f.PricePerHour < 0 {
		return fmt.Errorf("%w: price per hour must not be negative", ErrInvalidRequest)
	}
	if f.DepositValue < 0 {
		return fmt.Errorf("%w: deposit must not be negative", ErrInvalidRequest)
	}

	switch f.DepositType {
	case DepositFixed:
	case DepositPercent:
		if f.DepositValue > MaxDepositPercent {
			return fmt.Errorf("%w: deposit percent must be between 0 and %d", ErrInvalidRequest, MaxDepositPercent)
		}
	default:
		return fmt.Errorf("%w: unknown deposit type %q", ErrInvalidRequest, f.DepositType)
	}

	if f.DepositAmount() > f.PricePerHour {
		return fmt.Errorf("%w: deposit must not exceed price per hour", ErrInvalidRequest)
	}
	if f.OpenHour < 0 || f.OpenHour >= f.CloseHour || f.CloseHour > HoursPerDay {
		return fmt.Errorf("%w: operating hours must satisfy 0 <= open < close <= %d", ErrInvalidRequest, HoursPerDay)
	}

	return nil
}
