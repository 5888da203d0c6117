package create_booking

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-StadiumBooking/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	FacilityID  int64   `json:"facilityId"`
	BookingDate string  `json:"bookingDate"` // "2026-05-03"
	StartHour   int     `json:"startHour"`   // 0..23
	CreditCode  *string `json:"creditCode,omitempty"`
}

// Fingerprint отпечаток разобранного запроса для сверки повторов по ключу идемпотентности.
// Порядок полей и пробелы в исходном теле на отпечаток не влияют.
func (r *CreateBookingRequest) Fingerprint() string {
	raw, _ := json.Marshal(r)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// storedResponse сохраняемый ответ вместе с отпечатком запроса
type storedResponse struct {
	Fingerprint string          `json:"fingerprint"`
	Body        json.RawMessage `json:"body"`
}

// BookingResponse HTTP response model
// Суммы в копейках
type BookingResponse struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"userId"`
	FacilityID      int64   `json:"facilityId"`
	BookingDate     string  `json:"bookingDate"`
	StartHour       int     `json:"startHour"`
	EndHour         int     `json:"endHour"`
	Status          string  `json:"status"`
	TotalPrice      int64   `json:"totalPrice"`
	DepositPaid     int64   `json:"depositPaid"`
	CreditApplied   int64   `json:"creditApplied"`
	AmountDue       int64   `json:"amountDue"`
	RemainingAmount int64   `json:"remainingAmount"`
	CreditCode      *string `json:"creditCode,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	bookingDate, err := domain.ParseDate(r.BookingDate)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:     userID,
		FacilityID: r.FacilityID,
		Date:       bookingDate,
		StartHour:  r.StartHour,
		CreditCode: r.CreditCode,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		UserID:          resp.UserID,
		FacilityID:      resp.FacilityID,
		BookingDate:     resp.Date.Format(domain.DateFormat),
		StartHour:       resp.StartHour,
		EndHour:         resp.EndHour,
		Status:          resp.Status,
		TotalPrice:      resp.TotalPrice,
		DepositPaid:     resp.DepositPaid,
		CreditApplied:   resp.CreditApplied,
		AmountDue:       resp.AmountDue,
		RemainingAmount: resp.RemainingAmount,
		CreditCode:      resp.CreditCode,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
