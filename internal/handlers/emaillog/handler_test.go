package emaillog_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	otelMocks "termin/infras/otel/mocks"
	emailLogMocks "termin/internal/domains/emaillog/mocks"
	"termin/internal/domains/emaillog/model/dto"
	"termin/internal/handlers/emaillog"
	gDto "termin/shared/dto"
)

const bookingID = "9d2e4f6a-1b3c-4d5e-8f7a-6b5c4d3e2f1a"

func newRouter(t *testing.T) (http.Handler, *emailLogMocks.MockEmailLogService) {
	t.Helper()

	svc := emailLogMocks.NewMockEmailLogService(gomock.NewController(t))
	handler := emaillog.New(svc, otelMocks.NewOtel())

	router := chi.NewRouter()
	router.Route("/v1", handler.Router)

	return router, svc
}

func TestEmailLogHandler_GetEmailLogs(t *testing.T) {
	t.Run("filters by booking and kind", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Cond(func(f gDto.FilterGroup) bool {
			where, args := f.GetWhereClause()

			return where == "(email_logs.booking_id = :booking_id AND email_logs.kind = :kind)" &&
				args["booking_id"] == bookingID && args["kind"] == "booking.cancelled"
		})).Return(dto.GetEmailLogsResponse{TotalData: 1, TotalPage: 1}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/email-logs?booking_id="+bookingID+"&kind=booking.cancelled", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"total_data":1`)
	})

	t.Run("no filters", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Cond(func(f gDto.FilterGroup) bool {
			return len(f.Filters) == 0
		})).Return(dto.GetEmailLogsResponse{}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/email-logs", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(dto.GetEmailLogsResponse{}, errors.New("connection refused"))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/email-logs", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
