package domain

import (
	"time"

	"github.com/samber/lo"
)

// CandidateHours returns period hours within facility operating hours
func CandidateHours(f *Facility, p Period) []int {
	return lo.Filter(p.Hours(), func(h int, _ int) bool {
		return f.OperatesAt(h)
	})
}

// FreeHours returns candidate hours not held by a live booking or a block.
// Прошедшие дни не имеют свободных часов, для сегодняшнего дня исключаются часы, начало которых не позже now.
func FreeHours(f *Facility, date time.Time, p Period, bookings []Booking, blocks []BlockedSlot, now time.Time, rules BookingRules) []int {
	loc := rules.Loc()
	day := DateOnly(date)
	today := Today(now, loc)
	if day.Before(today) {
		return []int{}
	}

	booked := lo.FilterMap(bookings, func(b Booking, _ int) (int, bool) {
		return b.StartHour, b.FacilityID == f.ID && DateOnly(b.BookingDate).Equal(day) && b.IsLive(now, rules.PendingTTL)
	})
	blocked := lo.FilterMap(blocks, func(s BlockedSlot, _ int) (int, bool) {
		return s.StartHour, s.FacilityID == f.ID && DateOnly(s.SlotDate).Equal(day)
	})

	free := lo.Without(CandidateHours(f, p), lo.Union(booked, blocked)...)
	if !day.Equal(today) {
		return free
	}

	return lo.Filter(free, func(h int, _ int) bool {
		return SlotStart(day, h, loc).After(now)
	})
}
