package block_slot

import "time"

// Request модель запроса на блокировку часа
type Request struct {
	FacilityID int64
	ActorID    int64
	Date       time.Time
	Hour       int
	Reason     string
}

// Response созданная блокировка
type Response struct {
	ID         int64
	FacilityID int64
	Date       time.Time
	StartHour  int
	EndHour    int
	Reason     string
	CreatedBy  int64
	CreatedAt  time.Time
}
