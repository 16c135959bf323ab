package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=EmailLog=MockEmailLogService

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"termin/infras/otel"
	bookingModel "termin/internal/domains/booking/model"
	bookingRepo "termin/internal/domains/booking/repository"
	"termin/internal/domains/emaillog/model"
	"termin/internal/domains/emaillog/model/dto"
	"termin/internal/domains/emaillog/repository"
	notificationModel "termin/internal/domains/notification/model"
	"termin/shared"
	"termin/shared/constant"
	gDto "termin/shared/dto"
	"termin/shared/failure"
	gModel "termin/shared/model"
	"termin/shared/timezone"
)

const subjectTimeFormat = "02.01.2006 15:04"

var subjects = map[notificationModel.Kind]string{
	notificationModel.KindBookingCreated:   "Appointment requested",
	notificationModel.KindBookingConfirmed: "Appointment confirmed",
	notificationModel.KindBookingCancelled: "Appointment cancelled",
}

type EmailLog interface {
	Record(ctx context.Context, event notificationModel.Event) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetEmailLogsResponse, error)
}

type serviceImpl struct {
	repo        repository.EmailLog
	bookingRepo bookingRepo.Booking
	otel        otel.Otel
	clock       timezone.Clock
}

func New(repo repository.EmailLog, bookingRepo bookingRepo.Booking, otel otel.Otel, clock timezone.Clock) EmailLog {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		otel:        otel,
		clock:       clock,
	}
}

// Record writes one log entry per booking and event kind. Replayed events are acknowledged without a second row.
func (s *serviceImpl) Record(ctx context.Context, event notificationModel.Event) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Record")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if event.BookingID == constant.Empty || !event.Kind.Valid() {
		return failure.BadRequestFromString(fmt.Sprintf("invalid notification event %q for booking %q", event.Kind, event.BookingID)) // nolint:wrapcheck
	}

	exist, err := s.repo.Exist(ctx, repository.ForEvent(event.BookingID, string(event.Kind)))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if email log exists")

		return fmt.Errorf("failed to check if email log exists: %w", err)
	}

	if exist {
		log.Info().Str("booking", event.BookingID).Str("kind", string(event.Kind)).Msg("email log already recorded")

		return nil
	}

	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(event.BookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking for email log")

		return fmt.Errorf("failed to get booking for email log: %w", err)
	}

	if booking.ID == constant.Empty {
		log.Warn().Str("booking", event.BookingID).Msg("booking vanished before its notification was logged")

		return nil
	}

	entry := s.entry(booking, event)

	if err = s.repo.Insert(ctx, entry); err != nil {
		if failure.IsUniqueViolation(err) {
			return nil
		}

		log.Error().Err(err).Msg("failed to insert email log")

		return fmt.Errorf("failed to insert email log: %w", err)
	}

	return nil
}

func (s *serviceImpl) entry(booking bookingModel.Booking, event notificationModel.Event) model.EmailLog {
	now := s.clock()

	subject := subjects[event.Kind]
	if booking.SlotStart != nil {
		subject = fmt.Sprintf("%s: %s", subject, timezone.Format(*booking.SlotStart, subjectTimeFormat))
	}

	status := model.StatusQueued
	if booking.RequesterEmail == constant.Empty {
		status = model.StatusSkipped
	}

	return model.EmailLog{
		ID:        uuid.NewString(),
		BookingID: booking.ID,
		Kind:      string(event.Kind),
		Recipient: booking.RequesterEmail,
		Subject:   subject,
		Status:    status,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  constant.ContextSystem,
			ModifiedBy: constant.ContextSystem,
		},
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetEmailLogsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count email logs")

		return res, fmt.Errorf("failed to count email logs: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get email logs")

		return res, fmt.Errorf("failed to get email logs: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}
