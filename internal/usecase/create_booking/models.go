package create_booking

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	UserID     int64     // ID пользователя
	FacilityID int64     // ID площадки
	Date       time.Time // Дата бронирования (без времени)
	StartHour  int       // Час начала, 0..23
	CreditCode *string   // Код компенсации (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         int64
	UserID     int64
	FacilityID int64
	Date       time.Time
	StartHour  int
	EndHour    int
	Status     string

	// Суммы в копейках
	TotalPrice      int64
	DepositPaid     int64
	CreditApplied   int64
	AmountDue       int64 // DepositPaid - CreditApplied, к оплате сейчас
	RemainingAmount int64
	CreditCode      *string

	CreatedAt time.Time
}
