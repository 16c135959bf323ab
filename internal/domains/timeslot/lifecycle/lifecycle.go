// Package lifecycle holds the state machine of a bookable time slot.
//
//	open -> reserved -> confirmed
//	open|reserved -> cancelled
//
// confirmed and cancelled are terminal for forward transitions. Release is the only
// way back to open and is used when the booking holding a slot goes away.
package lifecycle

import (
	"time"

	"termin/internal/domains/timeslot/model"
	"termin/shared/failure"
)

// Window is the lead time range in which a slot may be reserved.
type Window struct {
	MinLead time.Duration
	MaxLead time.Duration
}

// Allows reports whether start satisfies now+MinLead < start <= now+MaxLead.
func (w Window) Allows(now, start time.Time) bool {
	if !start.After(now.Add(w.MinLead)) {
		return false
	}

	return !start.After(now.Add(w.MaxLead))
}

// Empty reports whether no start time can satisfy the window.
func (w Window) Empty() bool {
	return w.MinLead >= w.MaxLead
}

// Reserve moves an open slot to reserved on behalf of requester.
func Reserve(slot model.TimeSlot, requester string, window Window, now time.Time) (model.TimeSlot, error) {
	if slot.Status != model.StatusOpen {
		return slot, failure.ErrSlotUnavailable
	}

	if !window.Allows(now, slot.StartTime) {
		return slot, failure.ErrWindowClosed
	}

	return transition(slot, model.StatusReserved, requester, now), nil
}

// Confirm moves a reserved slot to confirmed.
func Confirm(slot model.TimeSlot, actor string, now time.Time) (model.TimeSlot, error) {
	if slot.Status != model.StatusReserved {
		return slot, failure.ErrInvalidTransition
	}

	return transition(slot, model.StatusConfirmed, actor, now), nil
}

// Cancel withdraws a slot that is neither confirmed nor already cancelled.
func Cancel(slot model.TimeSlot, actor string, now time.Time) (model.TimeSlot, error) {
	switch slot.Status {
	case model.StatusOpen, model.StatusReserved:
		return transition(slot, model.StatusCancelled, actor, now), nil
	default:
		return slot, failure.ErrInvalidTransition
	}
}

// Release reopens a reserved or confirmed slot. Open and cancelled slots are left as is
// and changed is false.
func Release(slot model.TimeSlot, actor string, now time.Time) (released model.TimeSlot, changed bool) {
	switch slot.Status {
	case model.StatusReserved, model.StatusConfirmed:
		return transition(slot, model.StatusOpen, actor, now), true
	default:
		return slot, false
	}
}

func transition(slot model.TimeSlot, status, actor string, now time.Time) model.TimeSlot {
	slot.Status = status
	slot.ModifiedAt = now
	slot.ModifiedBy = actor

	return slot
}
