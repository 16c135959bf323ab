package service_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termin/config"
	"termin/internal/domains/consent/model"
	"termin/internal/domains/consent/service"
)

var fixedNow = time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)

func newTracker(t *testing.T, hashKey string) service.Tracker {
	t.Helper()

	cfg := &config.Config{}
	cfg.Consent.CookieName = "termin_consent"
	cfg.Consent.HashKey = hashKey
	cfg.Consent.MaxAgeDays = 365

	return service.New(cfg, func() time.Time { return fixedNow })
}

// replay sends the cookies set on rec back as a new request.
func replay(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/v1/consent", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			req.AddCookie(c)
		}
	}

	return req
}

func TestTracker_LoadWithoutCookie(t *testing.T) {
	tracker := newTracker(t, "0123456789abcdef0123456789abcdef")

	record := tracker.Load(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, record.IsPending())
	assert.False(t, record.IsAccepted())
	assert.Nil(t, record.DecidedAt)
}

func TestTracker_Accept(t *testing.T) {
	tracker := newTracker(t, "0123456789abcdef0123456789abcdef")
	rec := httptest.NewRecorder()

	record, err := tracker.Accept(rec)
	require.NoError(t, err)
	assert.True(t, record.IsAccepted())
	assert.False(t, record.IsPending())

	loaded := tracker.Load(replay(rec))
	assert.True(t, loaded.IsAccepted())
	assert.False(t, loaded.IsPending())
	require.NotNil(t, loaded.DecidedAt)
	assert.True(t, fixedNow.Equal(*loaded.DecidedAt))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, "/", cookies[0].Path)
}

func TestTracker_Decline(t *testing.T) {
	tracker := newTracker(t, "0123456789abcdef0123456789abcdef")
	rec := httptest.NewRecorder()

	_, err := tracker.Decline(rec)
	require.NoError(t, err)

	loaded := tracker.Load(replay(rec))
	assert.True(t, loaded.IsDeclined())
	assert.False(t, loaded.IsAccepted())
}

func TestTracker_Reset(t *testing.T) {
	tracker := newTracker(t, "0123456789abcdef0123456789abcdef")

	accepted := httptest.NewRecorder()
	_, err := tracker.Accept(accepted)
	require.NoError(t, err)

	cleared := httptest.NewRecorder()
	tracker.Reset(cleared)

	cookies := cleared.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)

	assert.True(t, tracker.Load(replay(cleared)).IsPending())
}

func TestTracker_CorruptedCookie(t *testing.T) {
	tracker := newTracker(t, "0123456789abcdef0123456789abcdef")

	tests := []struct {
		name  string
		value string
	}{
		{name: "garbage", value: "not-a-cookie"},
		{name: "empty", value: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: "termin_consent", Value: tt.value})

			assert.Equal(t, model.Pending(), tracker.Load(req))
		})
	}
}

func TestTracker_ForeignSignature(t *testing.T) {
	signer := newTracker(t, "ffffffffffffffffffffffffffffffff")
	rec := httptest.NewRecorder()

	_, err := signer.Accept(rec)
	require.NoError(t, err)

	verifier := newTracker(t, "0123456789abcdef0123456789abcdef")
	assert.True(t, verifier.Load(replay(rec)).IsPending())
}

func TestTracker_GeneratedKey(t *testing.T) {
	tracker := newTracker(t, "")
	rec := httptest.NewRecorder()

	_, err := tracker.Accept(rec)
	require.NoError(t, err)
	assert.True(t, tracker.Load(replay(rec)).IsAccepted())
}

func TestRecord_ZeroValueIsPending(t *testing.T) {
	assert.True(t, model.Record{}.IsPending())
	assert.True(t, model.Record{Status: "maybe"}.IsPending())
}

func TestTracker_SecureCookieInProduction(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Env = "production"
	cfg.Consent.CookieName = "termin_consent"
	cfg.Consent.HashKey = "0123456789abcdef0123456789abcdef"
	cfg.Consent.MaxAgeDays = 365

	tracker := service.New(cfg, func() time.Time { return fixedNow })

	rec := httptest.NewRecorder()
	_, err := tracker.Accept(rec)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
}
