package dto

import (
	"termin/internal/domains/emaillog/model"
	"termin/shared"
	gDto "termin/shared/dto"
)

type EmailLogResponse struct {
	ID        string `json:"id"`
	BookingID string `json:"booking_id"`
	Kind      string `json:"kind"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Status    string `json:"status"`
	gDto.Metadata
}

func (r *EmailLogResponse) FromModel(model model.EmailLog) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.Kind = model.Kind
	r.Recipient = model.Recipient
	r.Subject = model.Subject
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

type GetEmailLogsResponse struct {
	EmailLogs []EmailLogResponse `json:"email_logs"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetEmailLogsResponse) FromModels(models []model.EmailLog, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.EmailLogs = make([]EmailLogResponse, len(models))
	for i, mod := range models {
		r.EmailLogs[i].FromModel(mod)
	}
}
