package models

import "time"

// Request is a customer submission awaiting (or past) an operator decision.
// Reservations and pickup orders share one lifecycle; the Kind decides which
// of the extra fields are meaningful.
type Request struct {
	ID            string     `json:"id" db:"id"`
	Kind          Kind       `json:"kind" db:"-"`
	Name          string     `json:"name" db:"name"`
	Phone         string     `json:"phone" db:"phone"`
	Email         string     `json:"email,omitempty" db:"email"`
	Status        Status     `json:"status" db:"status"`
	OperatorMsgID string     `json:"operator_msg_id,omitempty" db:"operator_msg_id"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`

	// Reservation fields
	Date      string `json:"date,omitempty" db:"date"`
	Time      string `json:"time,omitempty" db:"time"`
	PartySize int    `json:"party_size,omitempty" db:"party_size"`

	// Order fields
	Items      string `json:"items,omitempty" db:"items"`
	Total      string `json:"total,omitempty" db:"total"`
	PickupTime string `json:"pickup_time,omitempty" db:"pickup_time"`
}

// Kind selects the entity family a request belongs to. The string values
// double as the kind segment of operator decision tokens.
type Kind string

const (
	KindReservation Kind = "reserva"
	KindOrder       Kind = "pedido"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindReservation || k == KindOrder
}

// Status is the lifecycle state of a request. Pending is the only
// non-terminal state; confirmed and declined are immutable.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDeclined  Status = "declined"
)

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusConfirmed || s == StatusDeclined
}

// SlotKey identifies a reservation capacity bucket.
type SlotKey struct {
	Date string
	Time string
}

// Slot returns the capacity bucket of a reservation request.
func (r *Request) Slot() SlotKey {
	return SlotKey{Date: r.Date, Time: r.Time}
}

// NewReservation is the validated payload of a reservation submission.
type NewReservation struct {
	Name      string
	Phone     string
	Email     string
	Date      string
	Time      string
	PartySize int
}

// NewOrder is the validated payload of a pickup-order submission.
type NewOrder struct {
	Name       string
	Phone      string
	Email      string
	Items      string
	Total      string
	PickupTime string
}
