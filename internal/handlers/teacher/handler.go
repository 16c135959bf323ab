package teacher

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"termin/infras/otel"
	"termin/internal/domains/teacher/model"
	"termin/internal/domains/teacher/model/dto"
	"termin/internal/domains/teacher/service"
	"termin/shared"
	"termin/shared/constant"
	gDto "termin/shared/dto"
	"termin/shared/failure"
	"termin/shared/validator"
	"termin/transport/http/response"
)

const formFieldPhoto = "photo"

type Handler struct {
	service service.Teacher
	otel    otel.Otel
}

func New(service service.Teacher, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/teachers", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateTeacher)
		routerGroup.Get("/", handler.GetTeachers)
		routerGroup.Get("/{id}", handler.GetTeacherByID)
		routerGroup.Patch("/{id}", handler.UpdateTeacher)
		routerGroup.Delete("/{id}", handler.DeleteTeacher)
	})
}

// CreateTeacher handles the creation of a new teacher.
// @Summary Create a new teacher
// @Tags Teacher
// @Accept multipart/form-data
// @Produce json
// @Param department_id formData string true "Department ID"
// @Param name formData string true "Teacher name"
// @Param email formData string false "Teacher email"
// @Param room formData string false "Consultation room"
// @Param active formData boolean false "Teacher active status"
// @Param photo formData file false "Teacher photo"
// @Success 201 {object} response.Message "Teacher created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/teachers [post]
// @Security BearerAuth
func (handler *Handler) CreateTeacher(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTeacher")
	defer scope.End()

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(writer, failure.BadRequest(err))

		return
	}

	req := dto.CreateTeacherRequest{
		DepartmentID: request.FormValue(model.FieldDepartmentID),
		Name:         request.FormValue(model.FieldName),
		Email:        request.FormValue(model.FieldEmail),
		Room:         request.FormValue(model.FieldRoom),
		Active:       shared.ConvertStringToBool(request.FormValue(model.FieldActive)),
	}

	file, fileHeader, err := request.FormFile(formFieldPhoto)
	if err == nil {
		req.Photo = fileHeader
		req.PhotoFile = file

		defer file.Close()
	} else if !errors.Is(err, http.ErrMissingFile) {
		scope.TraceError(err)
		response.WithError(writer, failure.BadRequest(err))

		return
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create teacher")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Teacher created successfully by user " + user)

	response.WithMessage(writer, http.StatusCreated, "Teacher created successfully")
}

// GetTeachers retrieves all teachers.
// @Summary Get all teachers
// @Tags Teacher
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param department_id query string false "Filter by department ID"
// @Param name query string false "Filter by name"
// @Param active query boolean false "Filter by active status"
// @Success 200 {object} response.Data[dto.GetTeachersResponse] "List of teachers"
// @Failure 500 {object} response.Error
// @Router /v1/teachers [get]
func (handler *Handler) GetTeachers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTeachers")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if departmentID := query.Get(model.FieldDepartmentID); departmentID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldDepartmentID,
			Operator: gDto.FilterOperatorEq,
			Value:    departmentID,
			Table:    model.TableName,
		})
	}

	if name := query.Get(model.FieldName); name != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    name,
			Table:    model.TableName,
		})
	}

	if active := shared.ConvertStringToBool(query.Get(model.FieldActive)); active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	teachers, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get teachers")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, teachers)
}

// GetTeacherByID retrieves a teacher by its ID.
// @Summary Get a teacher by ID
// @Tags Teacher
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Data[dto.TeacherResponse] "Teacher details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/teachers/{id} [get]
func (handler *Handler) GetTeacherByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTeacherByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateVar(id, "required,uuid"); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	teacher, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get teacher")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, teacher)
}

// UpdateTeacher updates an existing teacher. A new photo replaces the stored one.
// @Summary Update a teacher
// @Tags Teacher
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Teacher ID"
// @Param department_id formData string false "Department ID"
// @Param name formData string false "Teacher name"
// @Param email formData string false "Teacher email"
// @Param room formData string false "Consultation room"
// @Param active formData boolean false "Teacher active status"
// @Param photo formData file false "Teacher photo"
// @Success 200 {object} response.Message "Teacher updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/teachers/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateTeacher(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTeacher")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateVar(id, "required,uuid"); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, failure.BadRequest(err))

		return
	}

	req := dto.UpdateTeacherRequest{
		DepartmentID: r.FormValue(model.FieldDepartmentID),
		Name:         r.FormValue(model.FieldName),
		Email:        r.FormValue(model.FieldEmail),
		Room:         r.FormValue(model.FieldRoom),
		Active:       shared.ConvertStringToBool(r.FormValue(model.FieldActive)),
	}

	file, fileHeader, err := r.FormFile(formFieldPhoto)
	if err == nil {
		req.Photo = fileHeader
		req.PhotoFile = file

		defer file.Close()
	} else if !errors.Is(err, http.ErrMissingFile) {
		scope.TraceError(err)
		response.WithError(w, failure.BadRequest(err))

		return
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to update teacher")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Teacher updated successfully")
}

// DeleteTeacher deletes a teacher without open time slots.
// @Summary Delete a teacher
// @Tags Teacher
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Message "Teacher deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/teachers/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteTeacher(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTeacher")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateVar(id, "required,uuid"); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to delete teacher")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Teacher deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Teacher deleted successfully")
}
