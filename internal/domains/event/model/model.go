package model

import (
	"time"

	"termin/shared/model"
)

const (
	TableName  = "events"
	EntityName = "event"

	FieldID          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldLocation    = "location"
	FieldStartTime   = "start_time"
	FieldEndTime     = "end_time"
	FieldAllDay      = "all_day"
)

// Event is an entry of the school calendar.
type Event struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Location    string    `db:"location"`
	StartTime   time.Time `db:"start_time"`
	EndTime     time.Time `db:"end_time"`
	AllDay      bool      `db:"all_day"`
	model.Metadata
}
