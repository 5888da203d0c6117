package unblock_slot

import "time"

// Request модель запроса на снятие блокировки
type Request struct {
	FacilityID int64
	ActorID    int64
	Date       time.Time
	Hour       int
}
