package dto

import (
	"fmt"
	"strconv"
	"time"

	"termin/internal/domains/setting/model"
	"termin/shared"
	gDto "termin/shared/dto"
	"termin/shared/failure"
	gModel "termin/shared/model"
)

type CreateSettingRequest struct {
	Key         string `json:"key"         validate:"required,max=100"`
	Value       string `json:"value"       validate:"required,max=1000"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

func (c *CreateSettingRequest) ToModel(user string, now time.Time) model.Setting {
	return model.Setting{
		Key:         c.Key,
		Value:       c.Value,
		Description: c.Description,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateSettingRequest struct {
	Value       string `db:"value"       json:"value"       validate:"omitempty,max=1000"`
	Description string `db:"description" json:"description" validate:"omitempty,max=255"`
}

// ValidateValue rejects values the booking workflow could not interpret.
func ValidateValue(key, value string) error {
	switch key {
	case model.KeyMinLeadMinutes:
		v, err := strconv.Atoi(value)
		if _, ok := model.MinLead(v); err != nil || !ok {
			return failure.BadRequestFromString(fmt.Sprintf("%s must be an integer between 0 and %d", key, model.MinLeadMinutesLimit))
		}
	case model.KeyMaxLeadDays:
		v, err := strconv.Atoi(value)
		if _, ok := model.MaxLead(v); err != nil || !ok {
			return failure.BadRequestFromString(fmt.Sprintf("%s must be an integer between 1 and %d", key, model.MaxLeadDaysLimit))
		}
	case model.KeyNotificationEnabled:
		if _, err := strconv.ParseBool(value); err != nil {
			return failure.BadRequestFromString(key + " must be a boolean")
		}
	}

	return nil
}

type SettingResponse struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
	gDto.Metadata
}

func (r *SettingResponse) FromModel(model model.Setting) {
	r.Key = model.Key
	r.Value = model.Value
	r.Description = model.Description
	r.Metadata.FromModel(model.Metadata)
}

type GetSettingsResponse struct {
	Settings  []SettingResponse `json:"settings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetSettingsResponse) FromModels(models []model.Setting, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Settings = make([]SettingResponse, len(models))
	for i, mod := range models {
		r.Settings[i].FromModel(mod)
	}
}

type PolicyResponse struct {
	MinLeadMinutes       int  `json:"min_lead_minutes"`
	MaxLeadDays          int  `json:"max_lead_days"`
	NotificationsEnabled bool `json:"notifications_enabled"`
}

func (r *PolicyResponse) FromModel(policy model.Policy) {
	r.MinLeadMinutes = int(policy.Window.MinLead / time.Minute)
	r.MaxLeadDays = int(policy.Window.MaxLead / (24 * time.Hour))
	r.NotificationsEnabled = policy.NotificationsEnabled
}
