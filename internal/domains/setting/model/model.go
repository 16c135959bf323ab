package model

import (
	"time"

	"termin/internal/domains/timeslot/lifecycle"
	"termin/shared/constant"
	"termin/shared/model"
)

const (
	TableName  = "settings"
	EntityName = "setting"

	FieldKey         = "key"
	FieldValue       = "value"
	FieldDescription = "description"
)

// Keys understood by the booking workflow. Other keys are stored verbatim.
const (
	KeyMinLeadMinutes      = "booking.min_lead_minutes"
	KeyMaxLeadDays         = "booking.max_lead_days"
	KeyNotificationEnabled = "notification.enabled"
)

// Accepted ranges of the window settings.
const (
	MaxLeadDaysLimit    = 3650
	MinLeadMinutesLimit = 60 * 24 * 365

	DefaultMinLeadMinutes = 60
	DefaultMaxLeadDays    = 30
)

// MinLead converts a min lead setting, reporting false outside 0..MinLeadMinutesLimit.
func MinLead(minutes int) (time.Duration, bool) {
	if minutes < 0 || minutes > MinLeadMinutesLimit {
		return 0, false
	}

	return time.Duration(minutes) * time.Minute, true
}

// MaxLead converts a max lead setting, reporting false outside 1..MaxLeadDaysLimit.
func MaxLead(days int) (time.Duration, bool) {
	if days < 1 || days > MaxLeadDaysLimit {
		return 0, false
	}

	return time.Duration(days) * constant.HoursPerDay * time.Hour, true
}

type Setting struct {
	Key         string `db:"key"`
	Value       string `db:"value"`
	Description string `db:"description"`
	model.Metadata
}

// Policy is the snapshot of settings a booking operation runs against.
type Policy struct {
	Window               lifecycle.Window `json:"window"`
	NotificationsEnabled bool             `json:"notifications_enabled"`
}
