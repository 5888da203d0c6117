package cancel_booking

import "time"

// Request модель запроса на отмену
type Request struct {
	BookingID int64
	ActorID   int64   // кто отменяет
	Reason    *string // причина (опционально)
}

// Credit выданная компенсация
type Credit struct {
	Code      string
	Value     int64
	ExpiresAt time.Time
}

// Response результат отмены
type Response struct {
	BookingID          int64
	Status             string
	Tier               string
	Refund             int64 // возврат деньгами, в копейках
	CompensationIssued bool
	Credit             *Credit
	CreditRestored     bool // погашенная бронью компенсация возвращена владельцу
	CancelledAt        time.Time
}
