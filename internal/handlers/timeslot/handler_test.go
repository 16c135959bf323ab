package timeslot_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	otelMocks "termin/infras/otel/mocks"
	slotMocks "termin/internal/domains/timeslot/mocks"
	"termin/internal/domains/timeslot/model"
	"termin/internal/domains/timeslot/model/dto"
	"termin/internal/handlers/timeslot"
	"termin/shared/constant"
	gDto "termin/shared/dto"
	"termin/shared/failure"
)

const (
	teacherID = "3f6c2a10-7b4e-4d2a-9c1f-5e8d7a6b4c21"
	slotID    = "5b0f7c1e-9a3d-4c1e-8f7a-2d9c3b1a0e11"
)

func newRouter(t *testing.T) (http.Handler, *slotMocks.MockTimeSlotService) {
	t.Helper()

	svc := slotMocks.NewMockTimeSlotService(gomock.NewController(t))
	handler := timeslot.New(svc, otelMocks.NewOtel())

	router := chi.NewRouter()
	router.Route("/v1", handler.Router)

	return router, svc
}

func TestTimeSlotHandler_Create(t *testing.T) {
	valid := `{"teacher_id":"` + teacherID + `","start_time":"2026-11-02T14:00:00Z","end_time":"2026-11-02T14:15:00Z"}`

	tests := []struct {
		name       string
		body       string
		setupMock  func(svc *slotMocks.MockTimeSlotService)
		wantStatus int
	}{
		{
			name: "created",
			body: valid,
			setupMock: func(svc *slotMocks.MockTimeSlotService) {
				svc.EXPECT().Create(gomock.Any(), dto.CreateTimeSlotRequest{
					TeacherID: teacherID,
					StartTime: "2026-11-02T14:00:00Z",
					EndTime:   "2026-11-02T14:15:00Z",
				}).Return(dto.TimeSlotResponse{ID: slotID, Status: model.StatusOpen}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "start time is not a timestamp",
			body:       `{"teacher_id":"` + teacherID + `","start_time":"monday","end_time":"2026-11-02T14:15:00Z"}`,
			setupMock:  func(_ *slotMocks.MockTimeSlotService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{"teacher_id":`,
			setupMock:  func(_ *slotMocks.MockTimeSlotService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "overlapping slot",
			body: valid,
			setupMock: func(svc *slotMocks.MockTimeSlotService) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(dto.TimeSlotResponse{}, failure.Conflict("time slot overlaps an existing slot"))
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := newRouter(t)
			tt.setupMock(svc)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/time-slots", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestTimeSlotHandler_BatchCreate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		called     bool
		wantStatus int
	}{
		{
			name:       "consultation afternoon",
			body:       `{"teacher_id":"` + teacherID + `","date":"2026-11-02","from":"14:00","to":"16:00","slot_minutes":15,"break_minutes":5}`,
			called:     true,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "clock in wrong format",
			body:       `{"teacher_id":"` + teacherID + `","date":"2026-11-02","from":"2pm","to":"16:00","slot_minutes":15}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "slot too short",
			body:       `{"teacher_id":"` + teacherID + `","date":"2026-11-02","from":"14:00","to":"16:00","slot_minutes":2}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := newRouter(t)

			if tt.called {
				svc.EXPECT().BatchCreate(gomock.Any(), gomock.Any()).
					Return(dto.BatchCreateTimeSlotResponse{Created: 6}, nil)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/time-slots/batch", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestTimeSlotHandler_GetTimeSlots(t *testing.T) {
	t.Run("filters by teacher, status and start", func(t *testing.T) {
		router, svc := newRouter(t)

		wantParams := gDto.QueryParams{
			Page:    constant.DefaultValuePage,
			Limit:   constant.DefaultValueLimit,
			SortBy:  model.FieldStartTime,
			SortDir: gDto.SortDirAsc,
		}

		svc.EXPECT().GetAll(gomock.Any(), wantParams, gomock.Cond(func(f gDto.FilterGroup) bool {
			where, args := f.GetWhereClause()

			return where == "(time_slots.start_time >= :start_time_from AND time_slots.teacher_id = :teacher_id AND time_slots.status = :status)" &&
				args[model.FieldTeacherID] == teacherID
		})).Return(dto.GetTimeSlotsResponse{TotalData: 1, TotalPage: 1, TimeSlots: []dto.TimeSlotResponse{{ID: slotID}}}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
			"/v1/time-slots?teacher_id="+teacherID+"&status=open&from=2026-11-02T00:00:00Z", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), slotID)
	})

	t.Run("unknown status", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/time-slots?status=booked", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad range", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/time-slots?to=tomorrow", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTimeSlotHandler_GetTimeSlotByID(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().Get(gomock.Any(), slotID).Return(dto.TimeSlotResponse{}, failure.NotFound("time slot"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/time-slots/"+slotID, nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/time-slots/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTimeSlotHandler_Cancel(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().Cancel(gomock.Any(), slotID).Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/time-slots/"+slotID+"/cancel", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Time slot cancelled successfully")
}

func TestTimeSlotHandler_DeleteWithActiveBooking(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().Delete(gomock.Any(), slotID).Return(failure.Conflict("time slot has an active booking"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/time-slots/"+slotID, nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
}
