package model

import (
	"time"

	"termin/shared/constant"
	"termin/shared/model"
)

const (
	TableName  = "time_slots"
	EntityName = "time_slot"

	FieldID          = "id"
	FieldTeacherID   = "teacher_id"
	FieldStartTime   = "start_time"
	FieldEndTime     = "end_time"
	FieldStatus      = "status"
	FieldTeacherName = "teacher_name"
)

const (
	StatusOpen      = "open"
	StatusReserved  = "reserved"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

type TimeSlot struct {
	ID          string    `db:"id"`
	TeacherID   string    `db:"teacher_id"`
	TeacherName string    `db:"teacher_name" table:"teachers" column:"name"`
	StartTime   time.Time `db:"start_time"`
	EndTime     time.Time `db:"end_time"`
	Status      string    `db:"status"`
	model.Metadata
}

func (TimeSlot) GetJoinQuery() string {
	return "LEFT JOIN teachers ON teachers.id = time_slots.teacher_id"
}

// Overlaps reports whether the slot shares any instant with [start, end).
func (t TimeSlot) Overlaps(start, end time.Time) bool {
	return t.StartTime.Before(end) && start.Before(t.EndTime)
}

// StatusFields is the column set written when a slot changes state.
func (t TimeSlot) StatusFields() map[string]any {
	return map[string]any{
		FieldStatus:              t.Status,
		constant.FieldModifiedAt: t.ModifiedAt,
		constant.FieldModifiedBy: t.ModifiedBy,
	}
}
