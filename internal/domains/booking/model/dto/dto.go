package dto

import (
	"time"

	"github.com/google/uuid"

	"termin/internal/domains/booking/model"
	"termin/shared"
	"termin/shared/constant"
	gDto "termin/shared/dto"
	gModel "termin/shared/model"
	"termin/shared/timezone"
)

type CreateBookingRequest struct {
	TimeSlotID    string `json:"time_slot_id"   validate:"required,uuid"`
	RequesterName string `json:"requester_name" validate:"omitempty,max=100"`
	Note          string `json:"note"           validate:"omitempty,max=500"`
}

func (c *CreateBookingRequest) ToModel(requester model.Requester, now time.Time) model.Booking {
	name := c.RequesterName
	if name == constant.Empty {
		name = requester.Name
	}

	return model.Booking{
		ID:             uuid.NewString(),
		TimeSlotID:     c.TimeSlotID,
		RequesterID:    requester.ID,
		RequesterName:  name,
		RequesterEmail: requester.Email,
		Note:           c.Note,
		Status:         model.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  requester.ID,
			ModifiedBy: requester.ID,
		},
	}
}

type BookingResponse struct {
	ID             string `json:"id"`
	TimeSlotID     string `json:"time_slot_id"`
	TeacherID      string `json:"teacher_id,omitempty"`
	SlotStart      string `json:"slot_start,omitempty"`
	SlotEnd        string `json:"slot_end,omitempty"`
	RequesterID    string `json:"requester_id"`
	RequesterName  string `json:"requester_name"`
	RequesterEmail string `json:"requester_email"`
	Note           string `json:"note"`
	Status         string `json:"status"`
	ConfirmedAt    string `json:"confirmed_at,omitempty"`
	CancelledAt    string `json:"cancelled_at,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.TimeSlotID = model.TimeSlotID
	r.TeacherID = deref(model.TeacherID)
	r.SlotStart = formatTime(model.SlotStart)
	r.SlotEnd = formatTime(model.SlotEnd)
	r.RequesterID = model.RequesterID
	r.RequesterName = model.RequesterName
	r.RequesterEmail = model.RequesterEmail
	r.Note = model.Note
	r.Status = model.Status
	r.ConfirmedAt = formatTime(model.ConfirmedAt)
	r.CancelledAt = formatTime(model.CancelledAt)
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return constant.Empty
	}

	return timezone.Format(*t, constant.DateFormat)
}

func deref(s *string) string {
	if s == nil {
		return constant.Empty
	}

	return *s
}
