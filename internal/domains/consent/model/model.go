package model

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

// Record is the consent decision of a browser. The zero value is pending.
type Record struct {
	Status    Status     `json:"status"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
}

func Pending() Record {
	return Record{Status: StatusPending}
}

func (r Record) IsPending() bool {
	return r.Status != StatusAccepted && r.Status != StatusDeclined
}

func (r Record) IsAccepted() bool {
	return r.Status == StatusAccepted
}

func (r Record) IsDeclined() bool {
	return r.Status == StatusDeclined
}
