package dto

import (
	"time"

	"github.com/google/uuid"

	"termin/internal/domains/timeslot/model"
	"termin/shared"
	"termin/shared/constant"
	gDto "termin/shared/dto"
	"termin/shared/failure"
	gModel "termin/shared/model"
	"termin/shared/timezone"
)

type CreateTimeSlotRequest struct {
	TeacherID string `json:"teacher_id" validate:"required,uuid"`
	StartTime string `json:"start_time" validate:"required,datetime_rfc3339"`
	EndTime   string `json:"end_time"   validate:"required,datetime_rfc3339"`
}

func (c *CreateTimeSlotRequest) ToModel(user string, now time.Time) (model.TimeSlot, error) {
	start, err := time.Parse(constant.DateFormat, c.StartTime)
	if err != nil {
		return model.TimeSlot{}, failure.BadRequest(err)
	}

	end, err := time.Parse(constant.DateFormat, c.EndTime)
	if err != nil {
		return model.TimeSlot{}, failure.BadRequest(err)
	}

	return newSlot(c.TeacherID, start, end, user, now), nil
}

// BatchCreateTimeSlotRequest describes a consultation afternoon: consecutive slots of
// SlotMinutes separated by BreakMinutes between From and To on Date.
type BatchCreateTimeSlotRequest struct {
	TeacherID    string `json:"teacher_id"    validate:"required,uuid"`
	Date         string `json:"date"          validate:"required,day"`
	From         string `json:"from"          validate:"required,clock"`
	To           string `json:"to"            validate:"required,clock"`
	SlotMinutes  int    `json:"slot_minutes"  validate:"required,gte=5,lte=240"`
	BreakMinutes int    `json:"break_minutes" validate:"gte=0,lte=120"`
}

func (b *BatchCreateTimeSlotRequest) ToModels(user string, now time.Time) ([]model.TimeSlot, error) {
	layout := constant.DayFormat + " " + constant.ClockFormat

	from, err := timezone.Parse(layout, b.Date+" "+b.From)
	if err != nil {
		return nil, failure.BadRequest(err)
	}

	to, err := timezone.Parse(layout, b.Date+" "+b.To)
	if err != nil {
		return nil, failure.BadRequest(err)
	}

	if !from.Before(to) {
		return nil, failure.Unprocessable("from must be before to")
	}

	length := time.Duration(b.SlotMinutes) * time.Minute
	step := length + time.Duration(b.BreakMinutes)*time.Minute

	slots := []model.TimeSlot{}
	for start := from; !start.Add(length).After(to); start = start.Add(step) {
		slots = append(slots, newSlot(b.TeacherID, start, start.Add(length), user, now))
	}

	if len(slots) == 0 {
		return nil, failure.Unprocessable("range is shorter than one slot")
	}

	return slots, nil
}

func newSlot(teacherID string, start, end time.Time, user string, now time.Time) model.TimeSlot {
	return model.TimeSlot{
		ID:        uuid.NewString(),
		TeacherID: teacherID,
		StartTime: start,
		EndTime:   end,
		Status:    model.StatusOpen,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type TimeSlotResponse struct {
	ID          string `json:"id"`
	TeacherID   string `json:"teacher_id"`
	TeacherName string `json:"teacher_name,omitempty"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Status      string `json:"status"`
	gDto.Metadata
}

func (r *TimeSlotResponse) FromModel(model model.TimeSlot) {
	r.ID = model.ID
	r.TeacherID = model.TeacherID
	r.TeacherName = model.TeacherName
	r.StartTime = timezone.Format(model.StartTime, constant.DateFormat)
	r.EndTime = timezone.Format(model.EndTime, constant.DateFormat)
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

type GetTimeSlotsResponse struct {
	TimeSlots []TimeSlotResponse `json:"time_slots"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetTimeSlotsResponse) FromModels(models []model.TimeSlot, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.TimeSlots = make([]TimeSlotResponse, len(models))
	for i, mod := range models {
		r.TimeSlots[i].FromModel(mod)
	}
}

type BatchCreateTimeSlotResponse struct {
	Created   int                `json:"created"`
	TimeSlots []TimeSlotResponse `json:"time_slots"`
}

func (r *BatchCreateTimeSlotResponse) FromModels(models []model.TimeSlot) {
	r.Created = len(models)

	r.TimeSlots = make([]TimeSlotResponse, len(models))
	for i, mod := range models {
		r.TimeSlots[i].FromModel(mod)
	}
}
