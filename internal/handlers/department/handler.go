package department

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"termin/infras/otel"
	"termin/internal/domains/department/model"
	"termin/internal/domains/department/model/dto"
	"termin/internal/domains/department/service"
	"termin/shared/constant"
	gDto "termin/shared/dto"
	"termin/shared/validator"
	"termin/transport/http/response"
)

type Handler struct {
	service service.Department
	otel    otel.Otel
}

func New(service service.Department, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/departments", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateDepartment)
		routerGroup.Get("/", handler.GetDepartments)
		routerGroup.Get("/{id}", handler.GetDepartmentByID)
		routerGroup.Patch("/{id}", handler.UpdateDepartment)
		routerGroup.Delete("/{id}", handler.DeleteDepartment)
	})
}

// CreateDepartment handles the creation of a new department.
// @Summary Create a new department
// @Tags Department
// @Accept json
// @Produce json
// @Param request body dto.CreateDepartmentRequest true "Create Department Request"
// @Success 201 {object} response.Message "Department created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/departments [post]
// @Security BearerAuth
func (handler *Handler) CreateDepartment(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateDepartment")
	defer scope.End()

	req := dto.CreateDepartmentRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create department")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Department created successfully by user " + user)

	response.WithMessage(writer, http.StatusCreated, "Department created successfully")
}

// GetDepartments retrieves all departments.
// @Summary Get all departments
// @Tags Department
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Success 200 {object} response.Data[dto.GetDepartmentsResponse] "List of departments"
// @Failure 500 {object} response.Error
// @Router /v1/departments [get]
func (handler *Handler) GetDepartments(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDepartments")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if name := r.URL.Query().Get(model.FieldName); name != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    name,
			Table:    model.TableName,
		})
	}

	departments, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get departments")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, departments)
}

// GetDepartmentByID retrieves a department by its ID.
// @Summary Get a department by ID
// @Tags Department
// @Produce json
// @Param id path string true "Department ID"
// @Success 200 {object} response.Data[dto.DepartmentResponse] "Department details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/departments/{id} [get]
func (handler *Handler) GetDepartmentByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDepartmentByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateVar(id, "required,uuid"); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	department, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get department")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, department)
}

// UpdateDepartment updates an existing department.
// @Summary Update a department
// @Tags Department
// @Accept json
// @Produce json
// @Param id path string true "Department ID"
// @Param request body dto.UpdateDepartmentRequest true "Update Department Request"
// @Success 200 {object} response.Message "Department updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/departments/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateDepartment")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateVar(id, "required,uuid"); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	req := dto.UpdateDepartmentRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to update department")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Department updated successfully")
}

// DeleteDepartment deletes a department without teachers.
// @Summary Delete a department
// @Tags Department
// @Produce json
// @Param id path string true "Department ID"
// @Success 200 {object} response.Message "Department deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/departments/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteDepartment")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateVar(id, "required,uuid"); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to delete department")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Department deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Department deleted successfully")
}
