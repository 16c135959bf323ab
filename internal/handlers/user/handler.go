package user

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"termin/infras/otel"
	"termin/internal/domains/user/model"
	"termin/internal/domains/user/model/dto"
	"termin/internal/domains/user/service"
	"termin/shared"
	"termin/shared/constant"
	gDto "termin/shared/dto"
	"termin/shared/validator"
	"termin/transport/http/response"
)

const uuidRule = "required,uuid"

type Handler struct {
	service service.User
	otel    otel.Otel
}

func New(service service.User, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/users", func(r chi.Router) {
		r.Post("/", handler.CreateUser)
		r.Get("/", handler.GetUsers)
		r.Get("/{id}", handler.GetUserByID)
		r.Patch("/{id}", handler.UpdateUser)
		r.Delete("/{id}", handler.DeleteUser)
	})
}

// CreateUser creates staff or parent accounts on behalf of an administrator.
// @Summary Create a new user
// @Description Create a new user with the provided details.
// @Tags User
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "Create User Request"
// @Success 201 {object} response.Message "User created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/users [post]
// @Security BearerAuth
func (handler *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateUser")
	defer scope.End()

	var req dto.CreateUserRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		fail(w, scope, "invalid create user body", err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		fail(w, scope, "failed to create user", err)

		return
	}

	response.WithMessage(w, http.StatusCreated, "User created successfully")
}

// GetUsers lists accounts, sorted by name unless the request says otherwise.
// @Summary Get all users
// @Tags User
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param email query string false "Filter by email (substring)"
// @Param full_name query string false "Filter by name (substring)"
// @Param role query string false "Filter by role (superadmin, admin, user)"
// @Param active query boolean false "Filter by active status"
// @Success 200 {object} response.Data[dto.GetUsersResponse] "List of users"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/users [get]
// @Security BearerAuth
func (handler *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUsers")
	defer scope.End()

	params := gDto.SortedBy(model.FieldFullName, gDto.SortDirAsc)
	params.FromRequest(r, true)

	users, err := handler.service.GetAll(ctx, params, filters(r.URL.Query()))
	if err != nil {
		fail(w, scope, "failed to get users", err)

		return
	}

	response.WithJSON(w, http.StatusOK, users)
}

// filters turns the supported query parameters into a conjunction.
func filters(query url.Values) gDto.FilterGroup {
	group := gDto.And()

	for _, field := range []string{model.FieldEmail, model.FieldFullName} {
		if value := query.Get(field); value != "" {
			group.Add(gDto.Filter{Field: field, Operator: gDto.FilterOperatorLike, Value: value, Table: model.TableName})
		}
	}

	if role := query.Get(model.FieldRole); role != "" {
		group.Add(gDto.Filter{Field: model.FieldRole, Operator: gDto.FilterOperatorEq, Value: role, Table: model.TableName})
	}

	if active := shared.ConvertStringToBool(query.Get(model.FieldActive)); active != nil {
		group.Add(gDto.Filter{Field: model.FieldActive, Operator: gDto.FilterOperatorEq, Value: *active, Table: model.TableName})
	}

	return group
}

// GetUserByID
// @Summary Get a user by ID
// @Tags User
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Data[dto.UserResponse] "User details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/users/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUserByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateVar(id, uuidRule); err != nil {
		fail(w, scope, "invalid user id", err)

		return
	}

	user, err := handler.service.Get(ctx, id)
	if err != nil {
		fail(w, scope, "failed to get user", err)

		return
	}

	response.WithJSON(w, http.StatusOK, user)
}

// UpdateUser changes name, role or active flag. Omitted fields stay untouched.
// @Summary Update a user by ID
// @Tags User
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.UpdateUserRequest true "Update User Request"
// @Success 200 {object} response.Message "User updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/users/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateUser")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateVar(id, uuidRule); err != nil {
		fail(w, scope, "invalid user id", err)

		return
	}

	var req dto.UpdateUserRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		fail(w, scope, "invalid update user body", err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		fail(w, scope, "failed to update user", err)

		return
	}

	response.WithMessage(w, http.StatusOK, "User updated successfully")
}

// DeleteUser
// @Summary Delete a user by ID
// @Tags User
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Message "User deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/users/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteUser")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateVar(id, uuidRule); err != nil {
		fail(w, scope, "invalid user id", err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		fail(w, scope, "failed to delete user", err)

		return
	}

	response.WithMessage(w, http.StatusOK, "User deleted successfully")
}

func fail(w http.ResponseWriter, scope otel.Scope, msg string, err error) {
	scope.TraceError(err)
	log.Error().Err(err).Msg(msg)

	response.WithError(w, err)
}
