package dto

import (
	"time"

	"github.com/google/uuid"

	"termin/internal/domains/event/model"
	"termin/shared"
	"termin/shared/constant"
	gDto "termin/shared/dto"
	"termin/shared/failure"
	gModel "termin/shared/model"
	"termin/shared/timezone"
)

type CreateEventRequest struct {
	Title       string `json:"title"       validate:"required,max=150"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Location    string `json:"location"    validate:"omitempty,max=150"`
	StartTime   string `json:"start_time"  validate:"required,datetime_rfc3339"`
	EndTime     string `json:"end_time"    validate:"required,datetime_rfc3339"`
	AllDay      bool   `json:"all_day"`
}

func (c *CreateEventRequest) ToModel(user string, now time.Time) (model.Event, error) {
	start, end, err := parseRange(c.StartTime, c.EndTime, time.Time{}, time.Time{})
	if err != nil {
		return model.Event{}, err
	}

	return model.Event{
		ID:          uuid.NewString(),
		Title:       c.Title,
		Description: c.Description,
		Location:    c.Location,
		StartTime:   start,
		EndTime:     end,
		AllDay:      c.AllDay,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type UpdateEventRequest struct {
	Title       string `db:"title"       json:"title"       validate:"omitempty,max=150"`
	Description string `db:"description" json:"description" validate:"omitempty,max=2000"`
	Location    string `db:"location"    json:"location"    validate:"omitempty,max=150"`
	AllDay      *bool  `db:"all_day"     json:"all_day"`
	StartTime   string `json:"start_time"  validate:"omitempty,datetime_rfc3339"`
	EndTime     string `json:"end_time"    validate:"omitempty,datetime_rfc3339"`
}

func (u *UpdateEventRequest) Empty() bool {
	return u.Title == constant.Empty && u.Description == constant.Empty && u.Location == constant.Empty &&
		u.AllDay == nil && u.StartTime == constant.Empty && u.EndTime == constant.Empty
}

// ToFields returns the columns to write, validating the resulting range against the stored event.
func (u *UpdateEventRequest) ToFields(current model.Event, user string) (map[string]any, error) {
	start, end, err := parseRange(u.StartTime, u.EndTime, current.StartTime, current.EndTime)
	if err != nil {
		return nil, err
	}

	fields := shared.TransformFields(*u, user)

	if u.StartTime != constant.Empty {
		fields[model.FieldStartTime] = start
	}

	if u.EndTime != constant.Empty {
		fields[model.FieldEndTime] = end
	}

	return fields, nil
}

// parseRange parses start and end, falling back to the given values for empty input,
// and requires start before end.
func parseRange(startStr, endStr string, start, end time.Time) (time.Time, time.Time, error) {
	var err error

	if startStr != constant.Empty {
		if start, err = time.Parse(constant.DateFormat, startStr); err != nil {
			return start, end, failure.BadRequest(err)
		}
	}

	if endStr != constant.Empty {
		if end, err = time.Parse(constant.DateFormat, endStr); err != nil {
			return start, end, failure.BadRequest(err)
		}
	}

	if !start.Before(end) {
		return start, end, failure.Unprocessable("start time must be before end time")
	}

	return start, end, nil
}

type EventResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	AllDay      bool   `json:"all_day"`
	gDto.Metadata
}

func (r *EventResponse) FromModel(model model.Event) {
	r.ID = model.ID
	r.Title = model.Title
	r.Description = model.Description
	r.Location = model.Location
	r.StartTime = timezone.Format(model.StartTime, constant.DateFormat)
	r.EndTime = timezone.Format(model.EndTime, constant.DateFormat)
	r.AllDay = model.AllDay
	r.Metadata.FromModel(model.Metadata)
}

type GetEventsResponse struct {
	Events    []EventResponse `json:"events"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetEventsResponse) FromModels(models []model.Event, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Events = make([]EventResponse, len(models))
	for i, mod := range models {
		r.Events[i].FromModel(mod)
	}
}
