package domain

import (
	"fmt"
	"sort"
)

// PeriodAll период, покрывающий все сутки
const PeriodAll = "all"

// Period named hour window [StartHour, EndHour)
type Period struct {
	Name      string
	StartHour int
	EndHour   int
}

// Hours returns the hours of the period in ascending order
func (p Period) Hours() []int {
	hours := make([]int, 0, p.EndHour-p.StartHour)
	for h := p.StartHour; h < p.EndHour; h++ {
		hours = append(hours, h)
	}
	return hours
}

// DefaultPeriods стандартные периоды дня
func DefaultPeriods() []Period {
	return []Period{
		{Name: "morning", StartHour: 6, EndHour: 12},
		{Name: "afternoon", StartHour: 12, EndHour: 18},
		{Name: "evening", StartHour: 18, EndHour: 24},
	}
}

// PeriodSet набор периодов по имени, всегда содержит "all"
type PeriodSet map[string]Period

// NewPeriodSet validates periods and adds "all"
func NewPeriodSet(periods []Period) (PeriodSet, error) {
	set := PeriodSet{PeriodAll: {Name: PeriodAll, StartHour: 0, EndHour: HoursPerDay}}
	for _, p := range periods {
		if p.Name == "" {
			return nil, fmt.Errorf("%w: period name is required", ErrInvalidRequest)
		}
		if p.Name == PeriodAll {
			return nil, fmt.Errorf("%w: period %q is reserved", ErrInvalidRequest, PeriodAll)
		}
		if p.StartHour < 0 || p.StartHour >= p.EndHour || p.EndHour > HoursPerDay {
			return nil, fmt.Errorf("%w: period %q must satisfy 0 <= start < end <= %d", ErrInvalidRequest, p.Name, HoursPerDay)
		}
		if _, exists := set[p.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate period %q", ErrInvalidRequest, p.Name)
		}
		set[p.Name] = p
	}
	return set, nil
}

// Resolve returns the period by name, empty name means "all"
func (s PeriodSet) Resolve(name string) (Period, error) {
	if name == "" {
		name = PeriodAll
	}
	p, ok := s[name]
	if !ok {
		return Period{}, fmt.Errorf("%w: unknown period %q", ErrInvalidRequest, name)
	}
	return p, nil
}

// Names returns sorted period names
func (s PeriodSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
