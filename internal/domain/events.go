package domain

import (
	"time"

	"github.com/google/uuid"
)

// Типы доменных событий, совпадают с routing key
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventCreditIssued     = "credit.issued"
	EventCreditRedeemed   = "credit.redeemed"
	EventCreditRestored   = "credit.restored"
)

// Event доменное событие для уведомлений
type Event interface {
	EventName() string
}

// EventHeader общие поля события
type EventHeader struct {
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEventHeader создает заголовок с новым ID
func NewEventHeader(now time.Time) EventHeader {
	return EventHeader{ID: uuid.NewString(), OccurredAt: now.UTC()}
}

type BookingCreated struct {
	Header        EventHeader `json:"header"`
	BookingID     int64       `json:"booking_id"`
	FacilityID    int64       `json:"facility_id"`
	UserID        int64       `json:"user_id"`
	Date          string      `json:"date"`
	StartHour     int         `json:"start_hour"`
	TotalPrice    int64       `json:"total_price"`
	DepositPaid   int64       `json:"deposit_paid"`
	CreditApplied int64       `json:"credit_applied"`
}

func (BookingCreated) EventName() string { return EventBookingCreated }

type BookingConfirmed struct {
	Header     EventHeader `json:"header"`
	BookingID  int64       `json:"booking_id"`
	FacilityID int64       `json:"facility_id"`
	UserID     int64       `json:"user_id"`
	ActorID    int64       `json:"actor_id"`
}

func (BookingConfirmed) EventName() string { return EventBookingConfirmed }

type BookingCancelled struct {
	Header      EventHeader      `json:"header"`
	BookingID   int64            `json:"booking_id"`
	FacilityID  int64            `json:"facility_id"`
	UserID      int64            `json:"user_id"`
	ActorID     int64            `json:"actor_id"`
	Tier        CancellationTier `json:"tier"`
	Refund      int64            `json:"refund"`
	Reason      *string          `json:"reason,omitempty"`
	CreditValue int64            `json:"credit_value"`
}

func (BookingCancelled) EventName() string { return EventBookingCancelled }

type CreditIssued struct {
	Header          EventHeader `json:"header"`
	Code            string      `json:"code"`
	BeneficiaryID   int64       `json:"beneficiary_id"`
	Value           int64       `json:"value"`
	ExpiresAt       time.Time   `json:"expires_at"`
	SourceBookingID *int64      `json:"source_booking_id,omitempty"`
}

func (CreditIssued) EventName() string { return EventCreditIssued }

type CreditRedeemed struct {
	Header        EventHeader `json:"header"`
	Code          string      `json:"code"`
	BeneficiaryID int64       `json:"beneficiary_id"`
	BookingID     int64       `json:"booking_id"`
	Applied       int64       `json:"applied"`
}

func (CreditRedeemed) EventName() string { return EventCreditRedeemed }

// CreditRestored компенсация снова доступна: бронь, которой она была погашена, истекла
type CreditRestored struct {
	Header        EventHeader `json:"header"`
	Code          string      `json:"code"`
	BeneficiaryID int64       `json:"beneficiary_id"`
	BookingID     int64       `json:"booking_id"`
	Value         int64       `json:"value"`
}

func (CreditRestored) EventName() string { return EventCreditRestored }
