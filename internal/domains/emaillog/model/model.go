package model

import (
	"termin/shared/model"
)

const (
	TableName  = "email_logs"
	EntityName = "email_log"

	FieldID        = "id"
	FieldBookingID = "booking_id"
	FieldKind      = "kind"
	FieldRecipient = "recipient"
	FieldSubject   = "subject"
	FieldStatus    = "status"
)

const (
	StatusQueued  = "queued"
	StatusSkipped = "skipped"
)

type EmailLog struct {
	ID        string `db:"id"`
	BookingID string `db:"booking_id"`
	Kind      string `db:"kind"`
	Recipient string `db:"recipient"`
	Subject   string `db:"subject"`
	Status    string `db:"status"`
	model.Metadata
}
