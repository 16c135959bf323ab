package service_test

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	otelMocks "termin/infras/otel/mocks"
	"termin/infras/postgres"
	"termin/internal/domains/booking/model"
	"termin/internal/domains/booking/model/dto"
	"termin/internal/domains/booking/repository"
	"termin/internal/domains/booking/service"
	notificationModel "termin/internal/domains/notification/model"
	settingModel "termin/internal/domains/setting/model"
	slotModel "termin/internal/domains/timeslot/model"
	slotRepo "termin/internal/domains/timeslot/repository"
	"termin/shared/constant"
	gDto "termin/shared/dto"
	"termin/shared/failure"
)

// store is an in-memory database whose transactions run one at a time, the way
// row locks on a single slot serialize them in postgres.
type store struct {
	mu       sync.Mutex
	slots    map[string]slotModel.TimeSlot
	bookings map[string]model.Booking
}

func (s *store) WithTransaction(ctx context.Context, fn postgres.TxFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, bookings := maps.Clone(s.slots), maps.Clone(s.bookings)

	if err := fn(ctx, nil); err != nil {
		s.slots, s.bookings = slots, bookings

		return err
	}

	return nil
}

func idOf(filter gDto.FilterGroup) string {
	cond, _ := filter.Filters[0].(gDto.Filter)
	id, _ := cond.Value.(string)

	return id
}

type memSlots struct {
	slotRepo.TimeSlot
	db     *store
	locked func()
}

func (r *memSlots) GetForUpdateTx(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup, _ ...string) (slotModel.TimeSlot, error) {
	if r.locked != nil {
		r.locked()
	}

	return r.db.slots[idOf(filter)], nil
}

func (r *memSlots) UpdateTx(_ context.Context, _ *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error {
	slot := r.db.slots[idOf(filter)]
	slot.Status, _ = req[slotModel.FieldStatus].(string)
	r.db.slots[slot.ID] = slot

	return nil
}

type memBookings struct {
	repository.Booking
	db        *store
	insertErr error
}

func (r *memBookings) InsertTx(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
	if r.insertErr != nil {
		return r.insertErr
	}

	for _, b := range r.db.bookings {
		if b.TimeSlotID == booking.TimeSlotID && b.Active() {
			return &pq.Error{Code: constant.PqErrorCodeUniqueViolation}
		}
	}

	r.db.bookings[booking.ID] = booking

	return nil
}

func (r *memBookings) GetTx(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup, _ ...string) (model.Booking, error) {
	return r.db.bookings[idOf(filter)], nil
}

func (r *memBookings) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error) {
	return r.GetTx(ctx, tx, filter, columns...)
}

func (r *memBookings) UpdateTx(_ context.Context, _ *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error {
	booking := r.db.bookings[idOf(filter)]
	booking.Status, _ = req[model.FieldStatus].(string)
	booking.ConfirmedAt, _ = req[model.FieldConfirmedAt].(*time.Time)
	booking.CancelledAt, _ = req[model.FieldCancelledAt].(*time.Time)
	r.db.bookings[booking.ID] = booking

	return nil
}

type staticPolicy settingModel.Policy

func (p staticPolicy) Snapshot(context.Context) (settingModel.Policy, error) {
	return settingModel.Policy(p), nil
}

type recorder struct {
	mu     sync.Mutex
	events []notificationModel.Event
}

func (r *recorder) Publish(_ context.Context, events ...notificationModel.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, events...)
}

func (r *recorder) kinds() []notificationModel.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()

	kinds := make([]notificationModel.Kind, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind
	}

	return kinds
}

type coordinator struct {
	svc      service.Booking
	db       *store
	slots    *memSlots
	bookings *memBookings
	events   *recorder
}

func newCoordinator(t *testing.T) coordinator {
	t.Helper()

	db := &store{
		slots: map[string]slotModel.TimeSlot{
			slotID: slotAt(slotModel.StatusOpen, fixedNow.Add(48*time.Hour)),
		},
		bookings: map[string]model.Booking{},
	}

	c := coordinator{
		db:       db,
		slots:    &memSlots{db: db},
		bookings: &memBookings{db: db},
		events:   &recorder{},
	}

	c.svc = service.New(c.bookings, c.slots, db, staticPolicy(policy(true)), service.NewAuthorizer(), c.events, otelMocks.NewOtel(), func() time.Time { return fixedNow })

	return c
}

func (c coordinator) active() []model.Booking {
	var active []model.Booking

	for _, b := range c.db.bookings {
		if b.TimeSlotID == slotID && b.Active() {
			active = append(active, b)
		}
	}

	return active
}

func TestCoordinator_ConcurrentCreate(t *testing.T) {
	c := newCoordinator(t)

	const requesters = 16

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded []string
		failures  []error
	)

	for i := range requesters {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			requester := model.Requester{ID: fmt.Sprintf("parent-%d", i), Role: constant.RoleUser}
			res, err := c.svc.Create(context.Background(), dto.CreateBookingRequest{TimeSlotID: slotID}, requester)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				failures = append(failures, err)

				return
			}

			succeeded = append(succeeded, res.ID)
		}(i)
	}

	wg.Wait()

	require.Len(t, succeeded, 1)
	require.Len(t, failures, requesters-1)

	for _, err := range failures {
		assert.ErrorIs(t, err, failure.ErrSlotUnavailable)
	}

	require.Len(t, c.active(), 1)
	assert.Equal(t, succeeded[0], c.active()[0].ID)
	assert.Equal(t, slotModel.StatusReserved, c.db.slots[slotID].Status)
	assert.Equal(t, []notificationModel.Kind{notificationModel.KindBookingCreated}, c.events.kinds())
}

func TestCoordinator_WaitsForInFlightReservation(t *testing.T) {
	c := newCoordinator(t)

	holding := make(chan struct{})
	release := make(chan struct{})

	var once sync.Once
	c.slots.locked = func() {
		once.Do(func() {
			close(holding)
			<-release
		})
	}

	first := make(chan error, 1)

	go func() {
		_, err := c.svc.Create(context.Background(), dto.CreateBookingRequest{TimeSlotID: slotID}, parent)
		first <- err
	}()

	select {
	case <-holding:
	case <-time.After(time.Second):
		t.Fatal("first reservation never locked the slot")
	}

	second := make(chan error, 1)

	go func() {
		_, err := c.svc.Create(context.Background(), dto.CreateBookingRequest{TimeSlotID: slotID}, other)
		second <- err
	}()

	select {
	case err := <-second:
		t.Fatalf("second reservation finished while the slot was locked: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)

	require.NoError(t, <-first)
	assert.ErrorIs(t, <-second, failure.ErrSlotUnavailable)
	assert.Len(t, c.active(), 1)
}

func TestCoordinator_CreateCancelRoundTrip(t *testing.T) {
	c := newCoordinator(t)
	ctx := context.Background()

	created, err := c.svc.Create(ctx, dto.CreateBookingRequest{TimeSlotID: slotID}, parent)
	require.NoError(t, err)
	assert.Equal(t, slotModel.StatusReserved, c.db.slots[slotID].Status)

	cancelled, err := c.svc.Cancel(ctx, created.ID, parent)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	assert.Equal(t, slotModel.StatusOpen, c.db.slots[slotID].Status)
	assert.Empty(t, c.active())

	_, err = c.svc.Cancel(ctx, created.ID, parent)
	assert.ErrorIs(t, err, failure.ErrInvalidTransition)

	rebooked, err := c.svc.Create(ctx, dto.CreateBookingRequest{TimeSlotID: slotID}, other)
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, rebooked.ID)
	assert.Len(t, c.db.bookings, 2)
	assert.Len(t, c.active(), 1)

	assert.Equal(t, []notificationModel.Kind{
		notificationModel.KindBookingCreated,
		notificationModel.KindBookingCancelled,
		notificationModel.KindBookingCreated,
	}, c.events.kinds())
}

func TestCoordinator_ConfirmThenCancel(t *testing.T) {
	c := newCoordinator(t)
	ctx := context.Background()

	created, err := c.svc.Create(ctx, dto.CreateBookingRequest{TimeSlotID: slotID}, parent)
	require.NoError(t, err)

	_, err = c.svc.Cancel(ctx, created.ID, other)
	assert.ErrorIs(t, err, failure.ErrForbidden)
	assert.Equal(t, model.StatusPending, c.db.bookings[created.ID].Status)

	confirmed, err := c.svc.Confirm(ctx, created.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, confirmed.Status)
	assert.Equal(t, slotModel.StatusConfirmed, c.db.slots[slotID].Status)

	_, err = c.svc.Confirm(ctx, created.ID, admin)
	assert.ErrorIs(t, err, failure.ErrInvalidTransition)

	_, err = c.svc.Cancel(ctx, created.ID, parent)
	require.NoError(t, err)
	assert.Equal(t, slotModel.StatusOpen, c.db.slots[slotID].Status)
	assert.NotNil(t, c.db.bookings[created.ID].ConfirmedAt)
	assert.NotNil(t, c.db.bookings[created.ID].CancelledAt)
}

func TestCoordinator_FailedInsertRollsBackReservation(t *testing.T) {
	c := newCoordinator(t)
	c.bookings.insertErr = errors.New("disk full")

	_, err := c.svc.Create(context.Background(), dto.CreateBookingRequest{TimeSlotID: slotID}, parent)

	var perr *failure.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, slotModel.StatusOpen, c.db.slots[slotID].Status)
	assert.Empty(t, c.db.bookings)
	assert.Empty(t, c.events.kinds())
}
