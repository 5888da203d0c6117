package get_availability

import "time"

// Request модель запроса свободных слотов
type Request struct {
	FacilityID int64     // ID площадки
	Date       time.Time // Дата (без времени)
	Period     string    // Имя периода, пустое = all
}

// Response модель ответа со свободными часами
type Response struct {
	FacilityID     int64
	Date           time.Time
	Period         string
	AvailableSlots []int // Свободные часы по возрастанию
	AvailableCount int   // len(AvailableSlots)
	TotalSlots     int   // Часы периода в пределах часов работы, без учета занятости
}
