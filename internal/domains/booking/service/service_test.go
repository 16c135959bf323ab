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
	"termin/infras/postgres"
	bookingMocks "termin/internal/domains/booking/mocks"
	"termin/internal/domains/booking/model"
	"termin/internal/domains/booking/model/dto"
	"termin/internal/domains/booking/service"
	notificationMocks "termin/internal/domains/notification/mocks"
	notificationModel "termin/internal/domains/notification/model"
	settingModel "termin/internal/domains/setting/model"
	"termin/internal/domains/timeslot/lifecycle"
	timeSlotMocks "termin/internal/domains/timeslot/mocks"
	slotModel "termin/internal/domains/timeslot/model"
	"termin/shared/constant"
	gDto "termin/shared/dto"
	"termin/shared/failure"
	repoMocks "termin/shared/repository/mocks"
)

var fixedNow = time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)

const (
	slotID    = "3d0c7b9e-51f2-4c55-9a8e-6f1d2c3b4a51"
	bookingID = "b6a1e2d3-0f4c-4e8b-a7d9-1c2b3a4f5e61"
)

var (
	parent = model.Requester{ID: "parent-1", Name: "Erika Muster", Email: "erika@example.org", Role: constant.RoleUser}
	other  = model.Requester{ID: "parent-2", Name: "Max Muster", Email: "max@example.org", Role: constant.RoleUser}
	admin  = model.Requester{ID: "admin-1", Name: "Sekretariat", Role: constant.RoleAdmin}
)

type fixture struct {
	svc       service.Booking
	repo      *bookingMocks.MockBooking
	slots     *timeSlotMocks.MockTimeSlot
	policies  *bookingMocks.MockPolicySource
	publisher *notificationMocks.MockPublisher
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:      bookingMocks.NewMockBooking(ctrl),
		slots:     timeSlotMocks.NewMockTimeSlot(ctrl),
		policies:  bookingMocks.NewMockPolicySource(ctrl),
		publisher: notificationMocks.NewMockPublisher(ctrl),
	}

	tx := repoMocks.NewMockTransactor(ctrl)
	tx.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn postgres.TxFunc) error {
		return fn(ctx, nil)
	}).AnyTimes()

	f.svc = service.New(f.repo, f.slots, tx, f.policies, service.NewAuthorizer(), f.publisher, otelMocks.NewOtel(), func() time.Time { return fixedNow })

	return f
}

func policy(notify bool) settingModel.Policy {
	return settingModel.Policy{
		Window:               lifecycle.Window{MinLead: time.Hour, MaxLead: 30 * 24 * time.Hour},
		NotificationsEnabled: notify,
	}
}

func slotAt(status string, start time.Time) slotModel.TimeSlot {
	return slotModel.TimeSlot{
		ID:        slotID,
		TeacherID: "teacher-1",
		StartTime: start,
		EndTime:   start.Add(15 * time.Minute),
		Status:    status,
	}
}

func bookingOf(requester model.Requester, status string) model.Booking {
	return model.Booking{
		ID:          bookingID,
		TimeSlotID:  slotID,
		RequesterID: requester.ID,
		Status:      status,
	}
}

func statusOf(req map[string]any) string {
	status, _ := req[slotModel.FieldStatus].(string)

	return status
}

func TestBookingService_Create(t *testing.T) {
	inWindow := fixedNow.Add(48 * time.Hour)
	req := dto.CreateBookingRequest{TimeSlotID: slotID, Note: "Zeugnis"}

	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantErr   error
		wantCode  int
	}{
		{
			name: "success",
			setupMock: func(f fixture) {
				f.policies.EXPECT().Snapshot(gomock.Any()).Return(policy(true), nil)
				f.slots.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(slotAt(slotModel.StatusOpen, inWindow), nil)
				f.slots.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ any, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, slotModel.StatusReserved, statusOf(fields))
						assert.Equal(t, parent.ID, fields[constant.FieldModifiedBy])

						return nil
					})
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ any, b model.Booking) error {
						assert.Equal(t, model.StatusPending, b.Status)
						assert.Equal(t, parent.ID, b.RequesterID)
						assert.Equal(t, parent.Name, b.RequesterName)
						assert.Equal(t, parent.Email, b.RequesterEmail)
						assert.Equal(t, "Zeugnis", b.Note)

						return nil
					})
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, events ...notificationModel.Event) {
					require.Len(t, events, 1)
					assert.Equal(t, notificationModel.KindBookingCreated, events[0].Kind)
				})
			},
		},
		{
			name: "notifications disabled",
			setupMock: func(f fixture) {
				f.policies.EXPECT().Snapshot(gomock.Any()).Return(policy(false), nil)
				f.slots.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(slotAt(slotModel.StatusOpen, inWindow), nil)
				f.slots.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "slot not found",
			setupMock: func(f fixture) {
				f.policies.EXPECT().Snapshot(gomock.Any()).Return(policy(true), nil)
				f.slots.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(slotModel.TimeSlot{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "slot already reserved",
			setupMock: func(f fixture) {
				f.policies.EXPECT().Snapshot(gomock.Any()).Return(policy(true), nil)
				f.slots.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(slotAt(slotModel.StatusReserved, inWindow), nil)
			},
			wantErr: failure.ErrSlotUnavailable,
		},
		{
			name: "slot starts too soon",
			setupMock: func(f fixture) {
				f.policies.EXPECT().Snapshot(gomock.Any()).Return(policy(true), nil)
				f.slots.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(slotAt(slotModel.StatusOpen, fixedNow.Add(30*time.Minute)), nil)
			},
			wantErr: failure.ErrWindowClosed,
		},
		{
			name: "slot too far ahead",
			setupMock: func(f fixture) {
				f.policies.EXPECT().Snapshot(gomock.Any()).Return(policy(true), nil)
				f.slots.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(slotAt(slotModel.StatusOpen, fixedNow.Add(60*24*time.Hour)), nil)
			},
			wantErr: failure.ErrWindowClosed,
		},
		{
			name: "concurrent insert hits the active booking index",
			setupMock: func(f fixture) {
				f.policies.EXPECT().Snapshot(gomock.Any()).Return(policy(true), nil)
				f.slots.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(slotAt(slotModel.StatusOpen, inWindow), nil)
				f.slots.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantErr: failure.ErrSlotUnavailable,
		},
		{
			name: "database failure",
			setupMock: func(f fixture) {
				f.policies.EXPECT().Snapshot(gomock.Any()).Return(policy(true), nil)
				f.slots.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(slotModel.TimeSlot{}, errors.New("connection reset"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "policy unavailable",
			setupMock: func(f fixture) {
				f.policies.EXPECT().Snapshot(gomock.Any()).Return(settingModel.Policy{}, errors.New("redis down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(context.Background(), req, parent)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantCode != 0:
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			default:
				require.NoError(t, err)
				assert.Equal(t, model.StatusPending, res.Status)
				assert.Equal(t, slotID, res.TimeSlotID)
				assert.Equal(t, "teacher-1", res.TeacherID)
				assert.NotEmpty(t, res.SlotStart)
			}
		})
	}
}

func TestBookingService_Create_PersistenceError(t *testing.T) {
	f := newFixture(t)
	f.policies.EXPECT().Snapshot(gomock.Any()).Return(policy(true), nil)
	f.slots.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(slotModel.TimeSlot{}, errors.New("connection reset"))

	_, err := f.svc.Create(context.Background(), dto.CreateBookingRequest{TimeSlotID: slotID}, parent)

	var perr *failure.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "create booking", perr.Op)
}

func TestBookingService_Cancel(t *testing.T) {
	start := fixedNow.Add(48 * time.Hour)

	tests := []struct {
		name      string
		requester model.Requester
		setupMock func(f fixture)
		wantErr   error
		wantCode  int
	}{
		{
			name:      "owner cancels pending booking",
			requester: parent,
			setupMock: func(f fixture) {
				f.policies.EXPECT().Snapshot(gomock.Any()).Return(policy(true), nil)
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingOf(parent, model.StatusPending), nil)
				gomock.InOrder(
					f.slots.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(slotAt(slotModel.StatusReserved, start), nil),
					f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingOf(parent, model.StatusPending), nil),
				)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ any, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusCancelled, fields[model.FieldStatus])
						assert.NotNil(t, fields[model.FieldCancelledAt])

						return nil
					})
				f.slots.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ any, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, slotModel.StatusOpen, statusOf(fields))

						return nil
					})
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, events ...notificationModel.Event) {
					require.Len(t, events, 1)
					assert.Equal(t, notificationModel.KindBookingCancelled, events[0].Kind)
					assert.Equal(t, bookingID, events[0].BookingID)
				})
			},
		},
		{
			name:      "admin cancels confirmed booking of someone else",
			requester: admin,
			setupMock: func(f fixture) {
				f.policies.EXPECT().Snapshot(gomock.Any()).Return(policy(false), nil)
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingOf(parent, model.StatusConfirmed), nil)
				f.slots.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(slotAt(slotModel.StatusConfirmed, start), nil)
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingOf(parent, model.StatusConfirmed), nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.slots.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:      "slot already withdrawn is left alone",
			requester: parent,
			setupMock: func(f fixture) {
				f.policies.EXPECT().Snapshot(gomock.Any()).Return(policy(false), nil)
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingOf(parent, model.StatusPending), nil)
				f.slots.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(slotAt(slotModel.StatusCancelled, start), nil)
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingOf(parent, model.StatusPending), nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:      "someone else",
			requester: other,
			setupMock: func(f fixture) {
				f.policies.EXPECT().Snapshot(gomock.Any()).Return(policy(true), nil)
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingOf(parent, model.StatusPending), nil)
			},
			wantErr: failure.ErrForbidden,
		},
		{
			name:      "not found",
			requester: parent,
			setupMock: func(f fixture) {
				f.policies.EXPECT().Snapshot(gomock.Any()).Return(policy(true), nil)
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:      "already cancelled",
			requester: parent,
			setupMock: func(f fixture) {
				f.policies.EXPECT().Snapshot(gomock.Any()).Return(policy(true), nil)
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingOf(parent, model.StatusCancelled), nil)
				f.slots.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(slotAt(slotModel.StatusOpen, start), nil)
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingOf(parent, model.StatusCancelled), nil)
			},
			wantErr: failure.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Cancel(context.Background(), bookingID, tt.requester)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantCode != 0:
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			default:
				require.NoError(t, err)
				assert.Equal(t, model.StatusCancelled, res.Status)
				assert.NotEmpty(t, res.CancelledAt)
			}
		})
	}
}

func TestBookingService_Confirm(t *testing.T) {
	start := fixedNow.Add(48 * time.Hour)

	t.Run("pending booking and reserved slot", func(t *testing.T) {
		f := newFixture(t)
		f.policies.EXPECT().Snapshot(gomock.Any()).Return(policy(true), nil)
		f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingOf(parent, model.StatusPending), nil)
		f.slots.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(slotAt(slotModel.StatusReserved, start), nil)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingOf(parent, model.StatusPending), nil)
		f.slots.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ any, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, slotModel.StatusConfirmed, statusOf(fields))

				return nil
			})
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ any, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, model.StatusConfirmed, fields[model.FieldStatus])

				return nil
			})
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, events ...notificationModel.Event) {
			require.Len(t, events, 1)
			assert.Equal(t, notificationModel.KindBookingConfirmed, events[0].Kind)
		})

		res, err := f.svc.Confirm(context.Background(), bookingID, admin)
		require.NoError(t, err)
		assert.Equal(t, model.StatusConfirmed, res.Status)
		assert.NotEmpty(t, res.ConfirmedAt)
	})

	t.Run("confirmed booking", func(t *testing.T) {
		f := newFixture(t)
		f.policies.EXPECT().Snapshot(gomock.Any()).Return(policy(true), nil)
		f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingOf(parent, model.StatusConfirmed), nil)
		f.slots.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(slotAt(slotModel.StatusConfirmed, start), nil)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingOf(parent, model.StatusConfirmed), nil)

		_, err := f.svc.Confirm(context.Background(), bookingID, admin)
		assert.ErrorIs(t, err, failure.ErrInvalidTransition)
	})

	t.Run("slot withdrawn meanwhile", func(t *testing.T) {
		f := newFixture(t)
		f.policies.EXPECT().Snapshot(gomock.Any()).Return(policy(true), nil)
		f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingOf(parent, model.StatusPending), nil)
		f.slots.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(slotAt(slotModel.StatusCancelled, start), nil)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingOf(parent, model.StatusPending), nil)

		_, err := f.svc.Confirm(context.Background(), bookingID, admin)
		assert.ErrorIs(t, err, failure.ErrInvalidTransition)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.policies.EXPECT().Snapshot(gomock.Any()).Return(policy(true), nil)
		f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := f.svc.Confirm(context.Background(), bookingID, admin)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_Get(t *testing.T) {
	tests := []struct {
		name      string
		requester model.Requester
		found     model.Booking
		wantCode  int
	}{
		{name: "owner", requester: parent, found: bookingOf(parent, model.StatusPending)},
		{name: "admin", requester: admin, found: bookingOf(parent, model.StatusPending)},
		{name: "someone else", requester: other, found: bookingOf(parent, model.StatusPending), wantCode: http.StatusForbidden},
		{name: "not found", requester: parent, wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.found, nil)

			res, err := f.svc.Get(context.Background(), bookingID, tt.requester)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, bookingID, res.ID)
		})
	}
}

func TestBookingService_Mine(t *testing.T) {
	f := newFixture(t)
	params := gDto.QueryParams{Page: 1, Limit: 10}

	onlyMine := func(filter gDto.FilterGroup) bool {
		if len(filter.Filters) != 1 {
			return false
		}

		cond, ok := filter.Filters[0].(gDto.Filter)

		return ok && cond.Field == model.FieldRequesterID && cond.Value == parent.ID
	}

	f.repo.EXPECT().Count(gomock.Any(), gomock.Cond(onlyMine)).Return(1, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), params, gomock.Cond(onlyMine)).Return([]model.Booking{bookingOf(parent, model.StatusPending)}, nil)

	res, err := f.svc.Mine(context.Background(), params, parent)
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Equal(t, 1, res.TotalPage)
	require.Len(t, res.Bookings, 1)
	assert.Equal(t, parent.ID, res.Bookings[0].RequesterID)
}

func TestNewAuthorizer(t *testing.T) {
	authorizer := service.NewAuthorizer()
	booking := bookingOf(parent, model.StatusPending)

	assert.True(t, authorizer.CanModify(parent, booking))
	assert.True(t, authorizer.CanModify(admin, booking))
	assert.True(t, authorizer.CanModify(model.Requester{ID: "root", Role: constant.RoleSuperAdmin}, booking))
	assert.False(t, authorizer.CanModify(other, booking))
	assert.False(t, authorizer.CanModify(model.Requester{}, model.Booking{}))
}
