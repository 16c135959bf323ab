package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Setting=MockSettingService

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"termin/config"
	"termin/infras/otel"
	"termin/internal/domains/setting/model"
	"termin/internal/domains/setting/model/dto"
	"termin/internal/domains/setting/repository"
	"termin/internal/domains/timeslot/lifecycle"
	"termin/shared"
	"termin/shared/cache"
	"termin/shared/constant"
	gDto "termin/shared/dto"
	"termin/shared/failure"
	"termin/shared/timezone"
)

const (
	cacheGetSetting    = "setting:get"
	cacheGetAllSetting = "setting:gets"
	cacheCountSetting  = "setting:count"
	cacheSnapshot      = "setting:snapshot"
)

type Setting interface {
	Create(ctx context.Context, req dto.CreateSettingRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetSettingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, key string) (dto.SettingResponse, error)
	Update(ctx context.Context, req dto.UpdateSettingRequest, key string) error
	Delete(ctx context.Context, key string) error
	Snapshot(ctx context.Context) (model.Policy, error)
}

type serviceImpl struct {
	repo  repository.Setting
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	clock timezone.Clock
}

func New(repo repository.Setting, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, clock timezone.Clock) Setting {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		clock: clock,
	}
}

func byKey(key string) gDto.FilterGroup {
	return shared.FilterByID(key, model.FieldKey, model.TableName)
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateSettingRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = dto.ValidateValue(req.Key, req.Value); err != nil {
		return err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	exist, err := s.repo.Exist(ctx, byKey(req.Key))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if setting exists")

		return fmt.Errorf("failed to check if setting exists: %w", err)
	}

	if exist {
		return failure.Conflict("setting already exists") // nolint:wrapcheck
	}

	if err = s.checkWindow(ctx, req.Key, &req.Value); err != nil {
		return err
	}

	if err = s.repo.Insert(ctx, req.ToModel(user, s.clock())); err != nil {
		log.Error().Err(err).Msg("failed to create setting")

		return fmt.Errorf("failed to create setting: %w", err)
	}

	s.invalidate(ctx, req.Key)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetSettingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllSetting, req, filter)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for settings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count settings")

		return res, fmt.Errorf("failed to count settings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get settings")

		return res, fmt.Errorf("failed to get settings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save settings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountSetting, req, filter)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count settings")

		return res, fmt.Errorf("failed to count settings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save setting count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, key string) (res dto.SettingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetSetting, key)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		return res, nil
	}

	setting, err := s.repo.Get(ctx, byKey(key))
	if err != nil {
		log.Error().Err(err).Msg("failed to get setting")

		return res, fmt.Errorf("failed to get setting: %w", err)
	}

	if setting.Key == constant.Empty {
		return res, failure.NotFound("setting not found") // nolint:wrapcheck
	}

	res.FromModel(setting)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save setting to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateSettingRequest, key string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateSettingRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	if req.Value != constant.Empty {
		if err = dto.ValidateValue(key, req.Value); err != nil {
			return err
		}
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	exist, err := s.repo.Exist(ctx, byKey(key))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if setting exists")

		return fmt.Errorf("failed to check if setting exists: %w", err)
	}

	if !exist {
		return failure.NotFound("setting not found") // nolint:wrapcheck
	}

	if req.Value != constant.Empty {
		if err = s.checkWindow(ctx, key, &req.Value); err != nil {
			return err
		}
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), byKey(key)); err != nil {
		log.Error().Err(err).Msg("failed to update setting")

		return fmt.Errorf("failed to update setting: %w", err)
	}

	s.invalidate(ctx, key)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, key string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	exist, err := s.repo.Exist(ctx, byKey(key))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if setting exists")

		return fmt.Errorf("failed to check if setting exists: %w", err)
	}

	if !exist {
		return failure.NotFound("setting not found") // nolint:wrapcheck
	}

	if err = s.checkWindow(ctx, key, nil); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, byKey(key)); err != nil {
		log.Error().Err(err).Msg("failed to delete setting")

		return fmt.Errorf("failed to delete setting: %w", err)
	}

	s.invalidate(ctx, key)

	return nil
}

// Snapshot resolves the booking policy: configured defaults overridden by stored settings.
func (s *serviceImpl) Snapshot(ctx context.Context) (res model.Policy, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Snapshot")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if cacheErr := s.cache.Get(ctx, cacheSnapshot, &res); cacheErr == nil {
		return res, nil
	}

	res, err = s.resolve(ctx, constant.Empty)
	if err != nil {
		return res, err
	}

	if res.Window.Empty() {
		log.Warn().Dur("min_lead", res.Window.MinLead).Dur("max_lead", res.Window.MaxLead).Msg("booking window is empty, every reservation will be refused")
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheSnapshot, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save settings snapshot to cache")
		}
	}()

	return res, nil
}

// resolve builds the policy from configured defaults and the stored window settings,
// leaving out the row stored under except.
func (s *serviceImpl) resolve(ctx context.Context, except string) (model.Policy, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldKey,
				Value:    []string{model.KeyMinLeadMinutes, model.KeyMaxLeadDays, model.KeyNotificationEnabled},
				Operator: gDto.FilterOperatorIn,
				Table:    model.TableName,
			},
		},
	}

	settings, err := s.repo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to load booking settings")

		return model.Policy{}, fmt.Errorf("failed to load booking settings: %w", err)
	}

	policy := s.defaults()

	for _, setting := range settings {
		if setting.Key != except {
			apply(&policy, setting)
		}
	}

	return policy, nil
}

// checkWindow refuses a change to a window setting that would leave no bookable start time.
// A nil value stands for deleting the stored row.
func (s *serviceImpl) checkWindow(ctx context.Context, key string, value *string) error {
	if key != model.KeyMinLeadMinutes && key != model.KeyMaxLeadDays {
		return nil
	}

	policy, err := s.resolve(ctx, key)
	if err != nil {
		return err
	}

	if value != nil {
		apply(&policy, model.Setting{Key: key, Value: *value})
	}

	if policy.Window.Empty() {
		return failure.Unprocessable(fmt.Sprintf("%s would leave no bookable start time: min lead %s, max lead %s", //nolint:wrapcheck
			key, policy.Window.MinLead, policy.Window.MaxLead))
	}

	return nil
}

func (s *serviceImpl) defaults() model.Policy {
	booking := s.cfg.Booking

	minLead, ok := model.MinLead(booking.MinLeadMinutes)
	if !ok {
		log.Warn().Int("minutes", booking.MinLeadMinutes).Msg("configured min lead out of range, using default")

		minLead, _ = model.MinLead(model.DefaultMinLeadMinutes)
	}

	maxLead, ok := model.MaxLead(booking.MaxLeadDays)
	if !ok {
		log.Warn().Int("days", booking.MaxLeadDays).Msg("configured max lead out of range, using default")

		maxLead, _ = model.MaxLead(model.DefaultMaxLeadDays)
	}

	return model.Policy{
		Window:               lifecycle.Window{MinLead: minLead, MaxLead: maxLead},
		NotificationsEnabled: booking.NotificationsEnabled,
	}
}

func apply(policy *model.Policy, setting model.Setting) {
	switch setting.Key {
	case model.KeyMinLeadMinutes:
		if v, err := strconv.Atoi(setting.Value); err == nil {
			if lead, ok := model.MinLead(v); ok {
				policy.Window.MinLead = lead

				return
			}
		}
	case model.KeyMaxLeadDays:
		if v, err := strconv.Atoi(setting.Value); err == nil {
			if lead, ok := model.MaxLead(v); ok {
				policy.Window.MaxLead = lead

				return
			}
		}
	case model.KeyNotificationEnabled:
		if v := shared.ConvertStringToBool(setting.Value); v != nil {
			policy.NotificationsEnabled = *v

			return
		}
	default:
		return
	}

	log.Warn().Str("key", setting.Key).Str("value", setting.Value).Msg("ignoring unparsable booking setting")
}

func (s *serviceImpl) invalidate(ctx context.Context, key string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetSetting, key)); err != nil {
			log.Error().Err(err).Msg("failed to delete setting from cache")
		}

		if err := s.cache.Delete(c, cacheSnapshot); err != nil {
			log.Error().Err(err).Msg("failed to delete settings snapshot from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllSetting)
		shared.InvalidateCaches(c, s.cache, cacheCountSetting)
	}()
}
