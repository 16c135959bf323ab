package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	otelMocks "termin/infras/otel/mocks"
	bookingMocks "termin/internal/domains/booking/mocks"
	bookingModel "termin/internal/domains/booking/model"
	emailLogMocks "termin/internal/domains/emaillog/mocks"
	"termin/internal/domains/emaillog/model"
	"termin/internal/domains/emaillog/service"
	notificationModel "termin/internal/domains/notification/model"
	gDto "termin/shared/dto"
	"termin/shared/failure"
)

var fixedNow = time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T) (service.EmailLog, *emailLogMocks.MockEmailLog, *bookingMocks.MockBooking) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := emailLogMocks.NewMockEmailLog(ctrl)
	bookings := bookingMocks.NewMockBooking(ctrl)

	return service.New(repo, bookings, otelMocks.NewOtel(), func() time.Time { return fixedNow }), repo, bookings
}

func TestEmailLogService_Record(t *testing.T) {
	slotStart := time.Date(2026, 11, 3, 14, 30, 0, 0, time.UTC)
	event := notificationModel.NewEvent("b-1", notificationModel.KindBookingCreated, fixedNow)

	t.Run("writes entry for new event", func(t *testing.T) {
		svc, repo, bookings := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{
			ID:             "b-1",
			RequesterEmail: "parent@example.org",
			SlotStart:      &slotStart,
		}, nil)
		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, entry model.EmailLog) error {
			assert.NotEmpty(t, entry.ID)
			assert.Equal(t, "b-1", entry.BookingID)
			assert.Equal(t, "booking.created", entry.Kind)
			assert.Equal(t, "parent@example.org", entry.Recipient)
			assert.Equal(t, model.StatusQueued, entry.Status)
			assert.Contains(t, entry.Subject, "Appointment requested")
			assert.Equal(t, fixedNow, entry.CreatedAt)

			return nil
		})

		assert.NoError(t, svc.Record(context.Background(), event))
	})

	t.Run("replayed event is not logged twice", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		assert.NoError(t, svc.Record(context.Background(), event))
	})

	t.Run("concurrent replay hits unique index", func(t *testing.T) {
		svc, repo, bookings := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{ID: "b-1"}, nil)
		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: "23505"})

		assert.NoError(t, svc.Record(context.Background(), event))
	})

	t.Run("requester without email is skipped", func(t *testing.T) {
		svc, repo, bookings := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{ID: "b-1"}, nil)
		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, entry model.EmailLog) error {
			assert.Equal(t, model.StatusSkipped, entry.Status)

			return nil
		})

		assert.NoError(t, svc.Record(context.Background(), event))
	})

	t.Run("missing booking", func(t *testing.T) {
		svc, repo, bookings := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)

		assert.NoError(t, svc.Record(context.Background(), event))
	})

	t.Run("invalid event", func(t *testing.T) {
		svc, _, _ := newService(t)

		err := svc.Record(context.Background(), notificationModel.Event{BookingID: "b-1", Kind: "booking.deleted"})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("insert failure", func(t *testing.T) {
		svc, repo, bookings := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{ID: "b-1"}, nil)
		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))

		assert.Error(t, svc.Record(context.Background(), event))
	})
}

func TestEmailLogService_GetAll(t *testing.T) {
	svc, repo, _ := newService(t)
	params := gDto.QueryParams{Page: 1, Limit: 10}

	repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(11, nil)
	repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.EmailLog{
		{ID: "e-1", BookingID: "b-1", Kind: "booking.created"},
	}, nil)

	res, err := svc.GetAll(context.Background(), params, gDto.FilterGroup{})

	require.NoError(t, err)
	assert.Equal(t, 11, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	require.Len(t, res.EmailLogs, 1)
	assert.Equal(t, "e-1", res.EmailLogs[0].ID)
}
