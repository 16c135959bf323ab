package model

import (
	"time"

	"termin/shared/constant"
	"termin/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID             = "id"
	FieldTimeSlotID     = "time_slot_id"
	FieldRequesterID    = "requester_id"
	FieldRequesterName  = "requester_name"
	FieldRequesterEmail = "requester_email"
	FieldNote           = "note"
	FieldStatus         = "status"
	FieldConfirmedAt    = "confirmed_at"
	FieldCancelledAt    = "cancelled_at"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

type Booking struct {
	ID             string     `db:"id"`
	TimeSlotID     string     `db:"time_slot_id"`
	RequesterID    string     `db:"requester_id"`
	RequesterName  string     `db:"requester_name"`
	RequesterEmail string     `db:"requester_email"`
	Note           string     `db:"note"`
	Status         string     `db:"status"`
	ConfirmedAt    *time.Time `db:"confirmed_at"`
	CancelledAt    *time.Time `db:"cancelled_at"`
	SlotStart      *time.Time `db:"slot_start"    table:"time_slots" column:"start_time"`
	SlotEnd        *time.Time `db:"slot_end"      table:"time_slots" column:"end_time"`
	TeacherID      *string    `db:"teacher_id"    table:"time_slots" column:"teacher_id"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "LEFT JOIN time_slots ON time_slots.id = bookings.time_slot_id"
}

// Active reports whether the booking still holds its slot.
func (b Booking) Active() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// Cancel marks the booking cancelled at now.
func (b Booking) Cancel(actor string, now time.Time) Booking {
	b.Status = StatusCancelled
	b.CancelledAt = &now
	b.ModifiedAt = now
	b.ModifiedBy = actor

	return b
}

// Confirm marks the booking confirmed at now.
func (b Booking) Confirm(actor string, now time.Time) Booking {
	b.Status = StatusConfirmed
	b.ConfirmedAt = &now
	b.ModifiedAt = now
	b.ModifiedBy = actor

	return b
}

// StatusFields is the column set written when a booking changes state.
func (b Booking) StatusFields() map[string]any {
	return map[string]any{
		FieldStatus:              b.Status,
		FieldConfirmedAt:         b.ConfirmedAt,
		FieldCancelledAt:         b.CancelledAt,
		constant.FieldModifiedAt: b.ModifiedAt,
		constant.FieldModifiedBy: b.ModifiedBy,
	}
}

// Requester is the identity on whose behalf a booking operation runs.
type Requester struct {
	ID    string
	Name  string
	Email string
	Role  string
}
