package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Teacher=MockTeacherService

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"termin/config"
	"termin/infras/otel"
	"termin/infras/s3"
	departmentModel "termin/internal/domains/department/model"
	departmentRepo "termin/internal/domains/department/repository"
	"termin/internal/domains/teacher/model"
	"termin/internal/domains/teacher/model/dto"
	"termin/internal/domains/teacher/repository"
	timeSlotRepo "termin/internal/domains/timeslot/repository"
	"termin/shared"
	"termin/shared/cache"
	"termin/shared/constant"
	gDto "termin/shared/dto"
	"termin/shared/failure"
	"termin/shared/image"
	"termin/shared/timezone"
)

const (
	cacheGetTeacher    = "teacher:get"
	cacheGetAllTeacher = "teacher:gets"
	cacheCountTeacher  = "teacher:count"
)

type Teacher interface {
	Create(ctx context.Context, req dto.CreateTeacherRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetTeachersResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.TeacherResponse, error)
	Update(ctx context.Context, req dto.UpdateTeacherRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo           repository.Teacher
	departmentRepo departmentRepo.Department
	timeSlotRepo   timeSlotRepo.TimeSlot
	cfg            *config.Config
	cache          cache.RedisCache
	otel           otel.Otel
	s3             s3.S3
	clock          timezone.Clock
}

func New(
	repo repository.Teacher,
	departmentRepo departmentRepo.Department,
	timeSlotRepo timeSlotRepo.TimeSlot,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	s3 s3.S3,
	clock timezone.Clock,
) Teacher {
	return &serviceImpl{
		repo:           repo,
		departmentRepo: departmentRepo,
		timeSlotRepo:   timeSlotRepo,
		cfg:            cfg,
		cache:          cache,
		otel:           otel,
		s3:             s3,
		clock:          clock,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTeacherRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.ensureDepartment(ctx, req.DepartmentID); err != nil {
		return err
	}

	photoURL, objectKey, err := s.uploadPhoto(ctx, req.Photo, req.PhotoFile)
	if err != nil {
		return err
	}

	if err = s.repo.Insert(ctx, req.ToModel(user, photoURL, s.clock())); err != nil {
		log.Error().Err(err).Msg("failed to create teacher")
		s.discardPhoto(ctx, objectKey)

		return fmt.Errorf("failed to create teacher: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllTeacher)
		shared.InvalidateCaches(c, s.cache, cacheCountTeacher)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetTeachersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllTeacher, req, filter)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for teachers")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count teachers")

		return res, fmt.Errorf("failed to count teachers: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get teachers")

		return res, fmt.Errorf("failed to get teachers: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save teachers to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountTeacher, req, filter)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count teachers")

		return res, fmt.Errorf("failed to count teachers: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save teacher count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TeacherResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetTeacher, id)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		return res, nil
	}

	teacher, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get teacher")

		return res, fmt.Errorf("failed to get teacher: %w", err)
	}

	if teacher.ID == constant.Empty {
		return res, failure.NotFound("teacher not found") // nolint:wrapcheck
	}

	res.FromModel(teacher)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save teacher to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateTeacherRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.Empty() {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get teacher")

		return fmt.Errorf("failed to get teacher: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("teacher not found") // nolint:wrapcheck
	}

	if req.DepartmentID != constant.Empty && req.DepartmentID != current.DepartmentID {
		if err = s.ensureDepartment(ctx, req.DepartmentID); err != nil {
			return err
		}
	}

	photoURL, objectKey, err := s.uploadPhoto(ctx, req.Photo, req.PhotoFile)
	if err != nil {
		return err
	}

	fields := shared.TransformFields(req, user)
	if photoURL != constant.Empty {
		fields[model.FieldPhoto] = photoURL
	}

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update teacher")
		s.discardPhoto(ctx, objectKey)

		return fmt.Errorf("failed to update teacher: %w", err)
	}

	if photoURL != constant.Empty && current.Photo != constant.Empty {
		s.discardPhoto(ctx, s.s3.ObjectKeyFromURL(current.Photo))
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get teacher")

		return fmt.Errorf("failed to get teacher: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("teacher not found") // nolint:wrapcheck
	}

	scheduled, err := s.timeSlotRepo.Exist(ctx, timeSlotRepo.OpenFor(id))
	if err != nil {
		log.Error().Err(err).Msg("failed to check teacher time slots")

		return fmt.Errorf("failed to check teacher time slots: %w", err)
	}

	if scheduled {
		return failure.Conflict("teacher still has time slots") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		if failure.IsForeignKeyViolation(err) {
			return failure.Conflict("teacher still has time slots") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to delete teacher")

		return fmt.Errorf("failed to delete teacher: %w", err)
	}

	if current.Photo != constant.Empty {
		s.discardPhoto(ctx, s.s3.ObjectKeyFromURL(current.Photo))
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) ensureDepartment(ctx context.Context, departmentID string) error {
	exist, err := s.departmentRepo.Exist(ctx, shared.FilterByID(departmentID, departmentModel.FieldID, departmentModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check department")

		return fmt.Errorf("failed to check department: %w", err)
	}

	if !exist {
		return failure.Unprocessable("department does not exist") // nolint:wrapcheck
	}

	return nil
}

// uploadPhoto stores a resized copy of the photo and returns its public url and object key.
func (s *serviceImpl) uploadPhoto(ctx context.Context, header *multipart.FileHeader, file multipart.File) (url, objectKey string, err error) {
	if header == nil || file == nil {
		return constant.Empty, constant.Empty, nil
	}

	data, err := image.Thumbnail(file, image.ThumbnailMaxSide)
	if err != nil {
		return constant.Empty, constant.Empty, failure.BadRequest(err) // nolint:wrapcheck
	}

	fileName := fmt.Sprintf("%s.%s", uuid.NewString(), image.ThumbnailExt)

	url, err = s.s3.Put(ctx, model.EntityName, fileName, constant.ContentTypeJPEG, data)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload teacher photo")

		return constant.Empty, constant.Empty, fmt.Errorf("failed to upload teacher photo: %w", err)
	}

	return url, model.EntityName + "/" + fileName, nil
}

func (s *serviceImpl) discardPhoto(ctx context.Context, objectKey string) {
	if objectKey == constant.Empty {
		return
	}

	go func() {
		if err := s.s3.Delete(context.WithoutCancel(ctx), objectKey); err != nil {
			log.Warn().Err(err).Str("key", objectKey).Msg("failed to remove teacher photo")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetTeacher, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete teacher from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllTeacher)
		shared.InvalidateCaches(c, s.cache, cacheCountTeacher)
	}()
}
