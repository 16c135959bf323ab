package setting

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"termin/infras/otel"
	"termin/internal/domains/setting/model"
	"termin/internal/domains/setting/model/dto"
	"termin/internal/domains/setting/service"
	"termin/shared/constant"
	gDto "termin/shared/dto"
	"termin/shared/validator"
	"termin/transport/http/response"
)

type Handler struct {
	service service.Setting
	otel    otel.Otel
}

func New(service service.Setting, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/settings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateSetting)
		routerGroup.Get("/", handler.GetSettings)
		routerGroup.Get("/policy", handler.GetPolicy)
		routerGroup.Get("/{key}", handler.GetSettingByKey)
		routerGroup.Patch("/{key}", handler.UpdateSetting)
		routerGroup.Delete("/{key}", handler.DeleteSetting)
	})
}

// CreateSetting stores a new key/value pair.
// @Summary Create a setting
// @Tags Setting
// @Accept json
// @Produce json
// @Param request body dto.CreateSettingRequest true "Create Setting Request"
// @Success 201 {object} response.Message "Setting created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/settings [post]
// @Security BearerAuth
func (handler *Handler) CreateSetting(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateSetting")
	defer scope.End()

	req := dto.CreateSettingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", req.Key).Msg("failed to create setting")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusCreated, "Setting created successfully")
}

// GetSettings lists stored settings.
// @Summary Get all settings
// @Tags Setting
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param key query string false "Filter by key"
// @Success 200 {object} response.Data[dto.GetSettingsResponse] "List of settings"
// @Failure 500 {object} response.Error
// @Router /v1/settings [get]
// @Security BearerAuth
func (handler *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSettings")
	defer scope.End()

	queryParams := gDto.SortedBy(model.FieldKey, gDto.SortDirAsc)
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if key := r.URL.Query().Get(model.FieldKey); key != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldKey,
			Operator: gDto.FilterOperatorLike,
			Value:    key,
			Table:    model.TableName,
		})
	}

	settings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get settings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, settings)
}

// GetPolicy returns the booking window and notification toggle currently in effect.
// @Summary Get the effective booking policy
// @Tags Setting
// @Produce json
// @Success 200 {object} response.Data[dto.PolicyResponse] "Effective policy"
// @Failure 500 {object} response.Error
// @Router /v1/settings/policy [get]
func (handler *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPolicy")
	defer scope.End()

	policy, err := handler.service.Snapshot(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking policy")

		response.WithError(w, err)

		return
	}

	res := dto.PolicyResponse{}
	res.FromModel(policy)

	response.WithJSON(w, http.StatusOK, res)
}

// GetSettingByKey retrieves a setting.
// @Summary Get a setting by key
// @Tags Setting
// @Produce json
// @Param key path string true "Setting key"
// @Success 200 {object} response.Data[dto.SettingResponse] "Setting details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/settings/{key} [get]
// @Security BearerAuth
func (handler *Handler) GetSettingByKey(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSettingByKey")
	defer scope.End()

	key := chi.URLParam(r, constant.RequestParamKey)

	setting, err := handler.service.Get(ctx, key)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", key).Msg("failed to get setting")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, setting)
}

// UpdateSetting changes the value of a setting.
// @Summary Update a setting
// @Tags Setting
// @Accept json
// @Produce json
// @Param key path string true "Setting key"
// @Param request body dto.UpdateSettingRequest true "Update Setting Request"
// @Success 200 {object} response.Message "Setting updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/settings/{key} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateSetting")
	defer scope.End()

	key := chi.URLParam(r, constant.RequestParamKey)
	req := dto.UpdateSettingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, key); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", key).Msg("failed to update setting")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Setting " + key + " updated by user " + user)

	response.WithMessage(w, http.StatusOK, "Setting updated successfully")
}

// DeleteSetting removes a setting; the configured default applies again.
// @Summary Delete a setting
// @Tags Setting
// @Produce json
// @Param key path string true "Setting key"
// @Success 200 {object} response.Message "Setting deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/settings/{key} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteSetting(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteSetting")
	defer scope.End()

	key := chi.URLParam(r, constant.RequestParamKey)

	if err := handler.service.Delete(ctx, key); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", key).Msg("failed to delete setting")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Setting deleted successfully")
}
