package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=TimeSlot=MockTimeSlotService

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"termin/infras/otel"
	bookingModel "termin/internal/domains/booking/model"
	bookingRepo "termin/internal/domains/booking/repository"
	notificationModel "termin/internal/domains/notification/model"
	notification "termin/internal/domains/notification/service"
	settingService "termin/internal/domains/setting/service"
	teacherModel "termin/internal/domains/teacher/model"
	teacherRepo "termin/internal/domains/teacher/repository"
	"termin/internal/domains/timeslot/lifecycle"
	"termin/internal/domains/timeslot/model"
	"termin/internal/domains/timeslot/model/dto"
	"termin/internal/domains/timeslot/repository"
	"termin/shared"
	"termin/shared/constant"
	gDto "termin/shared/dto"
	"termin/shared/failure"
	gRepo "termin/shared/repository"
	"termin/shared/timezone"
)

type TimeSlot interface {
	Create(ctx context.Context, req dto.CreateTimeSlotRequest) (dto.TimeSlotResponse, error)
	BatchCreate(ctx context.Context, req dto.BatchCreateTimeSlotRequest) (dto.BatchCreateTimeSlotResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetTimeSlotsResponse, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.TimeSlotResponse, error)
	Cancel(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.TimeSlot
	teacherRepo teacherRepo.Teacher
	bookingRepo bookingRepo.Booking
	tx          gRepo.Transactor
	settings    settingService.Setting
	publisher   notification.Publisher
	otel        otel.Otel
	clock       timezone.Clock
}

func New(
	repo repository.TimeSlot,
	teacherRepo teacherRepo.Teacher,
	bookingRepo bookingRepo.Booking,
	tx gRepo.Transactor,
	settings settingService.Setting,
	publisher notification.Publisher,
	otel otel.Otel,
	clock timezone.Clock,
) TimeSlot {
	return &serviceImpl{
		repo:        repo,
		teacherRepo: teacherRepo,
		bookingRepo: bookingRepo,
		tx:          tx,
		settings:    settings,
		publisher:   publisher,
		otel:        otel,
		clock:       clock,
	}
}

func byID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldID, model.TableName)
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTimeSlotRequest) (res dto.TimeSlotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	slot, err := req.ToModel(user, s.clock())
	if err != nil {
		return res, err
	}

	if !slot.StartTime.Before(slot.EndTime) {
		return res, failure.Unprocessable("start time must be before end time") // nolint:wrapcheck
	}

	if err = s.insert(ctx, []model.TimeSlot{slot}); err != nil {
		return res, err
	}

	res.FromModel(slot)

	return res, nil
}

func (s *serviceImpl) BatchCreate(ctx context.Context, req dto.BatchCreateTimeSlotRequest) (res dto.BatchCreateTimeSlotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".BatchCreate")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	slots, err := req.ToModels(user, s.clock())
	if err != nil {
		return res, err
	}

	if err = s.insert(ctx, slots); err != nil {
		return res, err
	}

	res.FromModels(slots)

	return res, nil
}

// insert stores slots of a single teacher, ordered by start time, refusing any overlap with existing slots.
func (s *serviceImpl) insert(ctx context.Context, slots []model.TimeSlot) error {
	teacherID := slots[0].TeacherID

	exist, err := s.teacherRepo.Exist(ctx, shared.FilterByID(teacherID, teacherModel.FieldID, teacherModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check teacher")

		return fmt.Errorf("failed to check teacher: %w", err)
	}

	if !exist {
		return failure.Unprocessable("teacher does not exist") // nolint:wrapcheck
	}

	from, to := slots[0].StartTime, slots[len(slots)-1].EndTime

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		overlaps, err := s.repo.OverlapsTx(ctx, tx, teacherID, from, to)
		if err != nil {
			return err
		}

		if overlaps {
			return failure.Conflict("time slots overlap existing slots of the teacher")
		}

		return s.repo.InsertBulkTx(ctx, tx, slots)
	})
	if err != nil {
		log.Error().Err(err).Str("teacher", teacherID).Msg("failed to create time slots")

		return failure.Persistence("create time slots", err)
	}

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetTimeSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	total, err := s.Count(ctx, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get time slots")

		return res, fmt.Errorf("failed to get time slots: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count time slots")

		return res, fmt.Errorf("failed to count time slots: %w", err)
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TimeSlotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	slot, err := s.repo.Get(ctx, byID(id))
	if err != nil {
		log.Error().Err(err).Msg("failed to get time slot")

		return res, fmt.Errorf("failed to get time slot: %w", err)
	}

	if slot.ID == constant.Empty {
		return res, failure.NotFound("time slot not found") // nolint:wrapcheck
	}

	res.FromModel(slot)

	return res, nil
}

// Cancel withdraws a slot and cancels the booking holding it, if any.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := s.clock()

	policy, err := s.settings.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to load booking policy: %w", err)
	}

	var cancelledBooking string

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		cancelledBooking = constant.Empty

		slot, err := s.repo.GetForUpdateTx(ctx, tx, byID(id))
		if err != nil {
			return err
		}

		if slot.ID == constant.Empty {
			return failure.NotFound("time slot not found")
		}

		cancelled, err := lifecycle.Cancel(slot, actor, now)
		if err != nil {
			return err
		}

		if err = s.repo.UpdateTx(ctx, tx, cancelled.StatusFields(), byID(id)); err != nil {
			return err
		}

		booking, err := s.bookingRepo.GetForUpdateTx(ctx, tx, bookingRepo.ActiveForSlot(id))
		if err != nil {
			return err
		}

		if booking.ID == constant.Empty {
			return nil
		}

		booking = booking.Cancel(actor, now)
		if err = s.bookingRepo.UpdateTx(ctx, tx, booking.StatusFields(), shared.FilterByID(booking.ID, bookingModel.FieldID, bookingModel.TableName)); err != nil {
			return err
		}

		cancelledBooking = booking.ID

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("slot", id).Msg("failed to cancel time slot")

		return failure.Persistence("cancel time slot", err)
	}

	if cancelledBooking != constant.Empty && policy.NotificationsEnabled {
		s.publisher.Publish(ctx, notificationModel.NewEvent(cancelledBooking, notificationModel.KindBookingCancelled, now))
	}

	return nil
}

// Delete removes a slot that no booking holds.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		slot, err := s.repo.GetForUpdateTx(ctx, tx, byID(id))
		if err != nil {
			return err
		}

		if slot.ID == constant.Empty {
			return failure.NotFound("time slot not found")
		}

		held, err := s.bookingRepo.ExistTx(ctx, tx, bookingRepo.ActiveForSlot(id))
		if err != nil {
			return err
		}

		if held {
			return failure.Conflict("time slot has an active booking")
		}

		return s.repo.DeleteTx(ctx, tx, byID(id))
	})
	if err != nil {
		log.Error().Err(err).Str("slot", id).Msg("failed to delete time slot")

		return failure.Persistence("delete time slot", err)
	}

	return nil
}
