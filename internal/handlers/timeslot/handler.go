package timeslot

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"termin/infras/otel"
	"termin/internal/domains/timeslot/model"
	"termin/internal/domains/timeslot/model/dto"
	"termin/internal/domains/timeslot/service"
	"termin/shared/constant"
	gDto "termin/shared/dto"
	"termin/shared/validator"
	"termin/transport/http/response"
)

type Handler struct {
	service service.TimeSlot
	otel    otel.Otel
}

func New(service service.TimeSlot, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/time-slots", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateTimeSlot)
		routerGroup.Post("/batch", handler.BatchCreateTimeSlots)
		routerGroup.Get("/", handler.GetTimeSlots)
		routerGroup.Get("/{id}", handler.GetTimeSlotByID)
		routerGroup.Post("/{id}/cancel", handler.CancelTimeSlot)
		routerGroup.Delete("/{id}", handler.DeleteTimeSlot)
	})
}

// CreateTimeSlot opens a single bookable slot.
// @Summary Create a time slot
// @Tags TimeSlot
// @Accept json
// @Produce json
// @Param request body dto.CreateTimeSlotRequest true "Create Time Slot Request"
// @Success 201 {object} response.Data[dto.TimeSlotResponse] "Created time slot"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/time-slots [post]
// @Security BearerAuth
func (handler *Handler) CreateTimeSlot(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTimeSlot")
	defer scope.End()

	req := dto.CreateTimeSlotRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	slot, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("teacher_id", req.TeacherID).Msg("failed to create time slot")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Time slot created " + slot.ID)

	response.WithJSON(writer, http.StatusCreated, slot)
}

// BatchCreateTimeSlots opens consecutive slots for one teacher on one day.
// @Summary Create a series of time slots
// @Tags TimeSlot
// @Accept json
// @Produce json
// @Param request body dto.BatchCreateTimeSlotRequest true "Batch Create Time Slot Request"
// @Success 201 {object} response.Data[dto.BatchCreateTimeSlotResponse] "Created time slots"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/time-slots/batch [post]
// @Security BearerAuth
func (handler *Handler) BatchCreateTimeSlots(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".BatchCreateTimeSlots")
	defer scope.End()

	req := dto.BatchCreateTimeSlotRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.BatchCreate(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("teacher_id", req.TeacherID).Str("date", req.Date).Msg("failed to create time slots")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetTimeSlots lists slots, e.g. the open slots of a teacher in a given week.
// @Summary Get all time slots
// @Tags TimeSlot
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param teacher_id query string false "Filter by teacher ID"
// @Param status query string false "Filter by status (open, reserved, confirmed, cancelled)"
// @Param from query string false "Earliest start (RFC3339)"
// @Param to query string false "Latest start (RFC3339)"
// @Success 200 {object} response.Data[dto.GetTimeSlotsResponse] "List of time slots"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/time-slots [get]
func (handler *Handler) GetTimeSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTimeSlots")
	defer scope.End()

	queryParams := gDto.SortedBy(model.FieldStartTime, gDto.SortDirAsc)
	queryParams.FromRequest(r, true)

	filters, err := gDto.TimeRangeFromRequest(r, model.FieldStartTime, model.TableName)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	query := r.URL.Query()

	if teacherID := query.Get(model.FieldTeacherID); teacherID != "" {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldTeacherID,
			Operator: gDto.FilterOperatorEq,
			Value:    teacherID,
			Table:    model.TableName,
		})
	}

	if status := query.Get(model.FieldStatus); status != "" {
		if err := validator.ValidateVar(status, "oneof=open reserved confirmed cancelled"); err != nil {
			scope.TraceError(err)

			response.WithError(w, err)

			return
		}

		filters = append(filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	slots, err := handler.service.GetAll(ctx, queryParams, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  filters,
	})
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get time slots")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, slots)
}

// GetTimeSlotByID retrieves a slot.
// @Summary Get a time slot by ID
// @Tags TimeSlot
// @Produce json
// @Param id path string true "Time slot ID"
// @Success 200 {object} response.Data[dto.TimeSlotResponse] "Time slot details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/time-slots/{id} [get]
func (handler *Handler) GetTimeSlotByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTimeSlotByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateVar(id, "required,uuid"); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	slot, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get time slot")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, slot)
}

// CancelTimeSlot withdraws a slot together with its active booking.
// @Summary Cancel a time slot
// @Tags TimeSlot
// @Produce json
// @Param id path string true "Time slot ID"
// @Success 200 {object} response.Message "Time slot cancelled successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/time-slots/{id}/cancel [post]
// @Security BearerAuth
func (handler *Handler) CancelTimeSlot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelTimeSlot")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateVar(id, "required,uuid"); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	if err := handler.service.Cancel(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to cancel time slot")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Time slot cancelled by user " + user)

	response.WithMessage(w, http.StatusOK, "Time slot cancelled successfully")
}

// DeleteTimeSlot removes a slot that has no active booking.
// @Summary Delete a time slot
// @Tags TimeSlot
// @Produce json
// @Param id path string true "Time slot ID"
// @Success 200 {object} response.Message "Time slot deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/time-slots/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteTimeSlot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTimeSlot")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateVar(id, "required,uuid"); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to delete time slot")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Time slot deleted successfully")
}
