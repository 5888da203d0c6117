package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFacility() Facility {
	return Facility{
		ID:           1,
		OwnerID:      10,
		Name:         "Central",
		PricePerHour: 300000,
		DepositType:  DepositPercent,
		DepositValue: 30,
		OpenHour:     8,
		CloseHour:    23,
		IsActive:     true,
	}
}

func TestFacility_DepositAmount(t *testing.T) {
	tests := []struct {
		name  string
		typ   DepositType
		value int64
		price int64
		want  int64
	}{
		{"fixed", DepositFixed, 50000, 300000, 50000},
		{"percent", DepositPercent, 30, 300000, 90000},
		{"percent rounds down", DepositPercent, 33, 1001, 330},
		{"zero", DepositFixed, 0, 300000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Facility{PricePerHour: tt.price, DepositType: tt.typ, DepositValue: tt.value}
			assert.Equal(t, tt.want, f.DepositAmount())
		})
	}
}

func TestFacility_Validate(t *testing.T) {
	f := validFacility()
	require.NoError(t, f.Validate())

	tests := []struct {
		name   string
		mutate func(f *Facility)
	}{
		{"empty name", func(f *Facility) { f.Name = "  " }},
		{"fixed deposit above price", func(f *Facility) { f.DepositType = DepositFixed; f.DepositValue = f.PricePerHour + 1 }},
		{"percent above 100", func(f *Facility) { f.DepositValue = 101 }},
		{"unknown deposit type", func(f *Facility) { f.DepositType = "bonus" }},
		{"open after close", func(f *Facility) { f.OpenHour = 22; f.CloseHour = 10 }},
		{"close after midnight", func(f *Facility) { f.CloseHour = 25 }},
		{"negative price", func(f *Facility) { f.PricePerHour = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFacility()
			tt.mutate(&f)
			assert.ErrorIs(t, f.Validate(), ErrInvalidRequest)
		})
	}
}

func TestFacility_IsManagedBy(t *testing.T) {
	f := validFacility()
	ops := NewOperatorSet([]int64{99})

	assert.True(t, f.IsManagedBy(10, ops))
	assert.True(t, f.IsManagedBy(99, ops))
	assert.False(t, f.IsManagedBy(11, ops))
	assert.False(t, f.IsManagedBy(99, nil))
}
