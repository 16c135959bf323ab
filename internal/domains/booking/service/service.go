package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService,PolicySource=MockPolicySource

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"termin/infras/otel"
	"termin/internal/domains/booking/model"
	"termin/internal/domains/booking/model/dto"
	"termin/internal/domains/booking/repository"
	notificationModel "termin/internal/domains/notification/model"
	notification "termin/internal/domains/notification/service"
	settingModel "termin/internal/domains/setting/model"
	"termin/internal/domains/timeslot/lifecycle"
	slotModel "termin/internal/domains/timeslot/model"
	slotRepo "termin/internal/domains/timeslot/repository"
	"termin/shared"
	"termin/shared/constant"
	gDto "termin/shared/dto"
	"termin/shared/failure"
	gRepo "termin/shared/repository"
	"termin/shared/timezone"
)

// Booking coordinates bookings with the slots they hold. Every state change of a
// booking and its slot happens in one transaction, locking the slot row first.
type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest, requester model.Requester) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string, requester model.Requester) (dto.BookingResponse, error)
	Confirm(ctx context.Context, id string, requester model.Requester) (dto.BookingResponse, error)
	Get(ctx context.Context, id string, requester model.Requester) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Mine(ctx context.Context, req gDto.QueryParams, requester model.Requester) (dto.GetBookingsResponse, error)
}

// PolicySource yields the settings snapshot an operation runs against.
type PolicySource interface {
	Snapshot(ctx context.Context) (settingModel.Policy, error)
}

type serviceImpl struct {
	repo       repository.Booking
	slotRepo   slotRepo.TimeSlot
	tx         gRepo.Transactor
	policies   PolicySource
	authorizer Authorizer
	publisher  notification.Publisher
	otel       otel.Otel
	clock      timezone.Clock
}

func New(
	repo repository.Booking,
	slotRepo slotRepo.TimeSlot,
	tx gRepo.Transactor,
	policies PolicySource,
	authorizer Authorizer,
	publisher notification.Publisher,
	otel otel.Otel,
	clock timezone.Clock,
) Booking {
	return &serviceImpl{
		repo:       repo,
		slotRepo:   slotRepo,
		tx:         tx,
		policies:   policies,
		authorizer: authorizer,
		publisher:  publisher,
		otel:       otel,
		clock:      clock,
	}
}

func byID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldID, model.TableName)
}

func slotByID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, slotModel.FieldID, slotModel.TableName)
}

func withSlot(booking model.Booking, slot slotModel.TimeSlot) model.Booking {
	booking.SlotStart = &slot.StartTime
	booking.SlotEnd = &slot.EndTime
	booking.TeacherID = &slot.TeacherID

	return booking
}

// Create reserves the slot and records a pending booking for requester.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest, requester model.Requester) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	now := s.clock()

	policy, err := s.policies.Snapshot(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to load booking policy: %w", err)
	}

	booking := req.ToModel(requester, now)

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		slot, err := s.slotRepo.GetForUpdateTx(ctx, tx, slotByID(req.TimeSlotID))
		if err != nil {
			return err
		}

		if slot.ID == constant.Empty {
			return failure.NotFound("time slot not found")
		}

		reserved, err := lifecycle.Reserve(slot, requester.ID, policy.Window, now)
		if err != nil {
			return err
		}

		if err = s.slotRepo.UpdateTx(ctx, tx, reserved.StatusFields(), slotByID(slot.ID)); err != nil {
			return err
		}

		if err = s.repo.InsertTx(ctx, tx, booking); err != nil {
			return err
		}

		booking = withSlot(booking, reserved)

		return nil
	})
	if err != nil {
		if failure.IsUniqueViolation(err) {
			return res, failure.ErrSlotUnavailable // nolint:wrapcheck
		}

		log.Error().Err(err).Str("slot", req.TimeSlotID).Msg("failed to create booking")

		return res, failure.Persistence("create booking", err)
	}

	s.notify(ctx, policy, booking.ID, notificationModel.KindBookingCreated, now)

	res.FromModel(booking)

	return res, nil
}

// Cancel cancels an active booking and reopens its slot.
func (s *serviceImpl) Cancel(ctx context.Context, id string, requester model.Requester) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	now := s.clock()

	policy, err := s.policies.Snapshot(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to load booking policy: %w", err)
	}

	var booking model.Booking

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		current, err := s.repo.GetTx(ctx, tx, byID(id))
		if err != nil {
			return err
		}

		if current.ID == constant.Empty {
			return failure.NotFound("booking not found")
		}

		if !s.authorizer.CanModify(requester, current) {
			return failure.ErrForbidden
		}

		slot, err := s.slotRepo.GetForUpdateTx(ctx, tx, slotByID(current.TimeSlotID))
		if err != nil {
			return err
		}

		booking, err = s.repo.GetForUpdateTx(ctx, tx, byID(id))
		if err != nil {
			return err
		}

		if !booking.Active() {
			return failure.ErrInvalidTransition
		}

		booking = booking.Cancel(requester.ID, now)
		if err = s.repo.UpdateTx(ctx, tx, booking.StatusFields(), byID(id)); err != nil {
			return err
		}

		if released, changed := lifecycle.Release(slot, requester.ID, now); changed {
			if err = s.slotRepo.UpdateTx(ctx, tx, released.StatusFields(), slotByID(slot.ID)); err != nil {
				return err
			}

			slot = released
		}

		booking = withSlot(booking, slot)

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("booking", id).Msg("failed to cancel booking")

		return res, failure.Persistence("cancel booking", err)
	}

	s.notify(ctx, policy, booking.ID, notificationModel.KindBookingCancelled, now)

	res.FromModel(booking)

	return res, nil
}

// Confirm moves a pending booking and its reserved slot to confirmed.
func (s *serviceImpl) Confirm(ctx context.Context, id string, requester model.Requester) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Confirm")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	now := s.clock()

	policy, err := s.policies.Snapshot(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to load booking policy: %w", err)
	}

	var booking model.Booking

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		current, err := s.repo.GetTx(ctx, tx, byID(id))
		if err != nil {
			return err
		}

		if current.ID == constant.Empty {
			return failure.NotFound("booking not found")
		}

		slot, err := s.slotRepo.GetForUpdateTx(ctx, tx, slotByID(current.TimeSlotID))
		if err != nil {
			return err
		}

		booking, err = s.repo.GetForUpdateTx(ctx, tx, byID(id))
		if err != nil {
			return err
		}

		if booking.Status != model.StatusPending {
			return failure.ErrInvalidTransition
		}

		confirmed, err := lifecycle.Confirm(slot, requester.ID, now)
		if err != nil {
			return err
		}

		if err = s.slotRepo.UpdateTx(ctx, tx, confirmed.StatusFields(), slotByID(slot.ID)); err != nil {
			return err
		}

		booking = booking.Confirm(requester.ID, now)
		if err = s.repo.UpdateTx(ctx, tx, booking.StatusFields(), byID(id)); err != nil {
			return err
		}

		booking = withSlot(booking, confirmed)

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("booking", id).Msg("failed to confirm booking")

		return res, failure.Persistence("confirm booking", err)
	}

	s.notify(ctx, policy, booking.ID, notificationModel.KindBookingConfirmed, now)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) notify(ctx context.Context, policy settingModel.Policy, bookingID string, kind notificationModel.Kind, now time.Time) {
	if !policy.NotificationsEnabled {
		return
	}

	s.publisher.Publish(ctx, notificationModel.NewEvent(bookingID, kind, now))
}

func (s *serviceImpl) Get(ctx context.Context, id string, requester model.Requester) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.repo.Get(ctx, byID(id))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if !s.authorizer.CanModify(requester, booking) {
		return res, failure.ResourceRestrictedError // nolint:wrapcheck
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

// Mine lists the bookings made by requester.
func (s *serviceImpl) Mine(ctx context.Context, req gDto.QueryParams, requester model.Requester) (dto.GetBookingsResponse, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldRequesterID, Value: requester.ID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}

	return s.GetAll(ctx, req, filter)
}
