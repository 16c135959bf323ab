package emaillog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"termin/infras/otel"
	"termin/internal/domains/emaillog/model"
	"termin/internal/domains/emaillog/service"
	"termin/shared/constant"
	gDto "termin/shared/dto"
	"termin/transport/http/response"
)

type Handler struct {
	service service.EmailLog
	otel    otel.Otel
}

func New(service service.EmailLog, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/email-logs", handler.GetEmailLogs)
}

// GetEmailLogs lists notification attempts.
// @Summary Get email logs
// @Tags EmailLog
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param booking_id query string false "Filter by booking ID"
// @Param kind query string false "Filter by event kind"
// @Success 200 {object} response.Data[dto.GetEmailLogsResponse] "List of email logs"
// @Failure 500 {object} response.Error
// @Router /v1/email-logs [get]
// @Security BearerAuth
func (handler *Handler) GetEmailLogs(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEmailLogs")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldBookingID, model.FieldKind} {
		if value := query.Get(field); value != "" {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	logs, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get email logs")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, logs)
}
