package model

import "time"

type Kind string

const (
	KindBookingCreated   Kind = "booking.created"
	KindBookingCancelled Kind = "booking.cancelled"
	KindBookingConfirmed Kind = "booking.confirmed"
)

func (k Kind) Valid() bool {
	switch k {
	case KindBookingCreated, KindBookingCancelled, KindBookingConfirmed:
		return true
	}

	return false
}

// Event is a booking state change announced to the notification pipeline.
type Event struct {
	BookingID  string    `json:"booking_id"`
	Kind       Kind      `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(bookingID string, kind Kind, now time.Time) Event {
	return Event{BookingID: bookingID, Kind: kind, OccurredAt: now}
}
