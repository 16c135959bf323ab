package consent_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termin/config"
	otelMocks "termin/infras/otel/mocks"
	"termin/internal/domains/consent/model"
	"termin/internal/domains/consent/service"
	"termin/internal/handlers/consent"
)

type recordEnvelope struct {
	Data model.Record `json:"data"`
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.Consent.CookieName = "termin_consent"
	cfg.Consent.HashKey = "0123456789abcdef0123456789abcdef"
	cfg.Consent.MaxAgeDays = 365

	now := time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)
	handler := consent.New(service.New(cfg, func() time.Time { return now }), otelMocks.NewOtel())

	router := chi.NewRouter()
	router.Route("/v1", handler.Router)

	return router
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) model.Record {
	t.Helper()

	var body recordEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body.Data
}

func TestConsentHandler_Flow(t *testing.T) {
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/consent", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode(t, rec).IsPending())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/consent/accept", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode(t, rec).IsAccepted())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/v1/consent", nil)
	req.AddCookie(cookies[0])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	record := decode(t, rec)
	assert.True(t, record.IsAccepted())
	require.NotNil(t, record.DecidedAt)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/consent", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode(t, rec).IsPending())

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Negative(t, cleared[0].MaxAge)
}

func TestConsentHandler_TamperedCookieIsPending(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/consent", nil)
	req.AddCookie(&http.Cookie{Name: "termin_consent", Value: "forged"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode(t, rec).IsPending())
}

func TestConsentHandler_Decline(t *testing.T) {
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/consent/decline", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode(t, rec).IsDeclined())
}
