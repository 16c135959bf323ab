package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Department=MockDepartmentService

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"termin/config"
	"termin/infras/otel"
	"termin/internal/domains/department/model"
	"termin/internal/domains/department/model/dto"
	"termin/internal/domains/department/repository"
	teacherRepo "termin/internal/domains/teacher/repository"
	"termin/shared"
	"termin/shared/cache"
	"termin/shared/constant"
	gDto "termin/shared/dto"
	"termin/shared/failure"
	"termin/shared/timezone"
)

const (
	cacheGetDepartment    = "department:get"
	cacheGetAllDepartment = "department:gets"
	cacheCountDepartment  = "department:count"
)

type Department interface {
	Create(ctx context.Context, req dto.CreateDepartmentRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetDepartmentsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.DepartmentResponse, error)
	Update(ctx context.Context, req dto.UpdateDepartmentRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Department
	teacherRepo teacherRepo.Teacher
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	clock       timezone.Clock
}

func New(repo repository.Department, teacherRepo teacherRepo.Teacher, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, clock timezone.Clock) Department {
	return &serviceImpl{
		repo:        repo,
		teacherRepo: teacherRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		clock:       clock,
	}
}

func byName(name string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldName, Value: name, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateDepartmentRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	exist, err := s.repo.Exist(ctx, byName(req.Name))
	if err != nil {
		log.Error().Err(err).Msg("failed to check department name")

		return fmt.Errorf("failed to check department name: %w", err)
	}

	if exist {
		return failure.Conflict("department name already in use") // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, req.ToModel(user, s.clock())); err != nil {
		if failure.IsUniqueViolation(err) {
			return failure.Conflict("department name already in use") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create department")

		return fmt.Errorf("failed to create department: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllDepartment)
		shared.InvalidateCaches(c, s.cache, cacheCountDepartment)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetDepartmentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllDepartment, req, filter)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for departments")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count departments")

		return res, fmt.Errorf("failed to count departments: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get departments")

		return res, fmt.Errorf("failed to get departments: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save departments to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountDepartment, req, filter)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count departments")

		return res, fmt.Errorf("failed to count departments: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save department count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.DepartmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetDepartment, id)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		return res, nil
	}

	department, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get department")

		return res, fmt.Errorf("failed to get department: %w", err)
	}

	if department.ID == constant.Empty {
		return res, failure.NotFound("department not found") // nolint:wrapcheck
	}

	res.FromModel(department)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save department to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateDepartmentRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateDepartmentRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if department exists")

		return fmt.Errorf("failed to check if department exists: %w", err)
	}

	if !exist {
		return failure.NotFound("department not found") // nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		if failure.IsUniqueViolation(err) {
			return failure.Conflict("department name already in use") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to update department")

		return fmt.Errorf("failed to update department: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if department exists")

		return fmt.Errorf("failed to check if department exists: %w", err)
	}

	if !exist {
		return failure.NotFound("department not found") // nolint:wrapcheck
	}

	staffed, err := s.teacherRepo.Exist(ctx, teacherRepo.InDepartment(id))
	if err != nil {
		log.Error().Err(err).Msg("failed to check department teachers")

		return fmt.Errorf("failed to check department teachers: %w", err)
	}

	if staffed {
		return failure.Conflict("department still has teachers") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		if failure.IsForeignKeyViolation(err) {
			return failure.Conflict("department still has teachers") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to delete department")

		return fmt.Errorf("failed to delete department: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetDepartment, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete department from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllDepartment)
		shared.InvalidateCaches(c, s.cache, cacheCountDepartment)
	}()
}
