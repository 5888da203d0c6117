package domain

import "time"

// BlockedSlot час, закрытый владельцем площадки для бронирования
type BlockedSlot struct {
	ID         int64
	FacilityID int64
	SlotDate   time.Time
	StartHour  int
	EndHour    int
	Reason     string
	CreatedBy  int64
	CreatedAt  time.Time
}

// Key returns the exclusion key of the block
func (s *BlockedSlot) Key() SlotKey {
	return NewSlotKey(s.FacilityID, s.SlotDate, s.StartHour)
}
